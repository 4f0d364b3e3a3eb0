package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionOutOfOrder(t *testing.T) {
	c := plain("aé😀b\nxyz😀q")
	tests := []struct {
		offset int
		line   int
		column int
	}{
		{7, 1, 4},
		{3, 1, 3},
		{16, 2, 5},
		{9, 2, 1},
		{12, 2, 4},
		{16, 2, 5},
		{0, 1, 1},
		{8, 1, 5},
		{100, 2, 6},
	}
	for _, tt := range tests {
		p := c.Position(tt.offset)
		assert.Equal(t, tt.line, p.Line, "offset %d", tt.offset)
		assert.Equal(t, tt.column, p.Column, "offset %d", tt.offset)
	}
}
