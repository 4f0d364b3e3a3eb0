package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestLoadFrom(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/instrument.js":         `Sentry.init({ dsn: "https://k@o0.ingest.sentry.io/0" });`,
		"src/util.js":               "export const x = 1;\n",
		"app/settings.py":           "import sentry_sdk\nsentry_sdk.init(dsn=\"x\", debug=True)\n",
		"config/broken.php":         "<?php\n\\Sentry\\init([\n  'dsn' => 'x',\n",
		"node_modules/lib/index.js": `Sentry.init({ dsn: "vendored" });`,
		".git/hooks/pre-commit.js":  `Sentry.init({ dsn: "hidden" });`,
		"README.md":                 "Sentry.init({})",
	})

	proj, err := LoadFrom(context.Background(), root)
	require.NoError(t, err)

	var rels []string
	for _, f := range proj.Files {
		rels = append(rels, filepath.ToSlash(proj.Rel(f)))
	}
	assert.Equal(t, []string{"app/settings.py", "config/broken.php", "src/instrument.js"}, rels)

	assert.Equal(t, map[string]int{"javascript": 1, "python": 1, "php": 1}, proj.Dialects())

	invalid := proj.Invalid()
	require.Len(t, invalid, 1)
	assert.Equal(t, "php", invalid[0].Dialect)

	py := proj.Files[0]
	assert.Equal(t, []string{"dsn", "debug"}, py.Result.Options.Keys())
}

func TestLoadFromCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.js": `Sentry.init({})`,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadFrom(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFromMissingDir(t *testing.T) {
	_, err := LoadFrom(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
