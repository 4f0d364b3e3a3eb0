package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/dhamidi/sdkconf/dialect"
	"github.com/dhamidi/sdkconf/parser"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("sdkconf.project")

// MaxFileSize bounds the files Scan reads. Bootstrap snippets live in small
// config and entrypoint files.
const MaxFileSize = 1 << 20

var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"build":        true,
	"dist":         true,
	"Pods":         true,
	"__pycache__":  true,
}

// Project is the set of files below RootDir that contain an SDK bootstrap
// call.
type Project struct {
	RootDir string
	Files   []*File
}

// File is one source file and the result of parsing it.
type File struct {
	Path    string
	Dialect string
	Result  *parser.Result
}

// Load scans the current directory.
func Load(ctx context.Context) (*Project, error) {
	return LoadFrom(ctx, ".")
}

// LoadFrom walks rootDir, parses every file whose extension belongs to a
// known dialect and keeps the files that contain a bootstrap call. Hidden
// directories and dependency folders are skipped.
func LoadFrom(ctx context.Context, rootDir string) (*Project, error) {
	paths, err := candidates(rootDir)
	if err != nil {
		return nil, err
	}

	files := make([]*File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := parseFile(path)
			if err != nil {
				log.Warning("skipping file", "path", path, "error", err)
				return nil
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	proj := &Project{RootDir: rootDir}
	for _, f := range files {
		if f != nil {
			proj.Files = append(proj.Files, f)
		}
	}
	return proj, nil
}

func candidates(rootDir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != rootDir && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := dialect.ForPath(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", rootDir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// parseFile returns nil when path has no bootstrap call.
func parseFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", path, MaxFileSize)
	}
	p, err := parser.ForFile(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res := p.Parse(string(data))
	for _, e := range res.Errors {
		if errors.Is(e, parser.ErrNoBootstrapCall) {
			return nil, nil
		}
	}
	return &File{Path: path, Dialect: p.Dialect(), Result: res}, nil
}

// Invalid returns the files whose bootstrap call could not be parsed.
func (p *Project) Invalid() []*File {
	var out []*File
	for _, f := range p.Files {
		if !f.Result.Valid {
			out = append(out, f)
		}
	}
	return out
}

// Dialects counts files per dialect.
func (p *Project) Dialects() map[string]int {
	counts := make(map[string]int)
	for _, f := range p.Files {
		counts[f.Dialect]++
	}
	return counts
}

// Rel returns the path of f relative to the project root.
func (p *Project) Rel(f *File) string {
	rel, err := filepath.Rel(p.RootDir, f.Path)
	if err != nil {
		return f.Path
	}
	return rel
}
