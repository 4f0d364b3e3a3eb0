package dialect

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed dialects.yaml
var builtin []byte

var (
	mu     sync.RWMutex
	tables = map[string]*Table{}
	lookup = map[string]*Table{}
)

func init() {
	ts, err := Decode(bytes.NewReader(builtin))
	if err != nil {
		panic(fmt.Sprintf("dialect: builtin tables: %v", err))
	}
	for _, t := range ts {
		if err := Register(t); err != nil {
			panic(fmt.Sprintf("dialect: builtin tables: %v", err))
		}
	}
}

type document struct {
	Dialects []*Table `yaml:"dialects"`
}

// Decode reads a YAML document with a top-level "dialects" list.
func Decode(r io.Reader) ([]*Table, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode dialects: %w", err)
	}
	for _, t := range doc.Dialects {
		t.prepare()
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Dialects, nil
}

// LoadFile decodes the tables in path and registers them, replacing any
// dialect of the same name.
func LoadFile(path string) ([]*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dialect file: %w", err)
	}
	defer f.Close()

	ts, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, t := range ts {
		if err := Register(t); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return ts, nil
}

// Register adds t under its name and aliases.
func Register(t *Table) error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrInvalidTable)
	}
	t.prepare()
	if err := t.Validate(); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if old, ok := tables[t.Name]; ok {
		for _, n := range old.Names() {
			if lookup[n] == old {
				delete(lookup, n)
			}
		}
	}
	tables[t.Name] = t
	for _, n := range t.Names() {
		lookup[n] = t
	}
	return nil
}

// Lookup finds a table by name or alias, ignoring case.
func Lookup(name string) (*Table, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := lookup[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// ForPath picks the table whose extensions include the extension of path.
func ForPath(path string) (*Table, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	mu.RLock()
	defer mu.RUnlock()
	for _, name := range sortedNames() {
		t := tables[name]
		for _, e := range t.Extensions {
			if e == ext {
				return t, true
			}
		}
	}
	return nil, false
}

// ForLanguageID maps an editor language identifier to a table.
func ForLanguageID(id string) (*Table, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, false
	}
	mu.RLock()
	defer mu.RUnlock()
	for _, name := range sortedNames() {
		t := tables[name]
		for _, l := range t.LanguageIDs {
			if l == id {
				return t, true
			}
		}
	}
	return nil, false
}

// Names lists the registered dialect names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return sortedNames()
}

// All returns the registered tables sorted by name.
func All() []*Table {
	mu.RLock()
	defer mu.RUnlock()
	names := sortedNames()
	out := make([]*Table, 0, len(names))
	for _, n := range names {
		out = append(out, tables[n])
	}
	return out
}

func sortedNames() []string {
	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
