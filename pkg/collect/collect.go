// Package collect walks a filesystem and scans its source files for documented functions.
package collect

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/upsun/luadoc/internal/fsgitignore"
	"github.com/upsun/luadoc/pkg/annotation"
	"github.com/upsun/luadoc/pkg/docs"
)

// DefaultExtensions are the file extensions scanned when none are configured.
var DefaultExtensions = []string{".lua"}

const maxDepth = 16

type Config struct {
	Extensions []string // File extensions to scan, including the dot (default ".lua").

	// DisableGitIgnore disables handling of .gitignore, .git/info/exclude and .luadocignore files,
	// and of the user's global gitignore.
	//
	// The IgnoreDirs setting will still be respected, and certain directories will
	// always be ignored (namely .git and node_modules).
	DisableGitIgnore bool

	IgnoreDirs []string // Additional ignore rules, using git's exclude syntax.

	Scanner annotation.Options

	// Notify receives progress messages, if set.
	Notify func(format string, args ...any)
}

// FileResult holds the entries found in one file.
type FileResult struct {
	Path    string
	Entries []annotation.Entry
}

type Collector struct {
	scanner *annotation.Scanner
	cnf     *Config
}

func NewCollector(cnf *Config) *Collector {
	if cnf == nil {
		cnf = &Config{}
	}
	if len(cnf.Extensions) == 0 {
		cnf.Extensions = DefaultExtensions
	}
	return &Collector{scanner: annotation.NewScanner(cnf.Scanner), cnf: cnf}
}

func (c *Collector) notify(format string, args ...any) {
	if c.cnf.Notify != nil {
		c.cnf.Notify(format, args...)
	}
}

// Collect scans every matching file under root and returns the merged documentation.
// Files are merged in walk order, so the result does not depend on scheduling.
func (c *Collector) Collect(ctx context.Context, fsys fs.FS, root string) (*docs.Documentation, []FileResult, error) {
	paths, err := c.findFiles(ctx, fsys, root)
	if err != nil {
		return nil, nil, err
	}

	var (
		// Limit the number of workers to 2 less than GOMAXPROCS.
		numWorkers = max(1, runtime.GOMAXPROCS(0)-2)
		results    = make([]FileResult, len(paths))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, p := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default: // Continue only if the context was not canceled.
			}
			b, err := fs.ReadFile(fsys, p)
			if err != nil {
				return fmt.Errorf("could not read file %s: %w", p, err)
			}
			results[i] = FileResult{Path: p, Entries: c.scanner.Scan(string(b))}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	d := docs.New()
	for _, r := range results {
		c.notify("Scanning file: %s", r.Path)
		for _, e := range r.Entries {
			c.notify("Found function %s in category %s (%s:%d)", e.Function.Name, e.Category, r.Path, e.Line)
			d.Add(e.Category, e.Function)
		}
	}

	return d, results, nil
}

func (c *Collector) matchesExtension(name string) bool {
	return slices.Contains(c.cnf.Extensions, path.Ext(name))
}

// findFiles walks the filesystem depth-first in lexical order, and returns the paths to scan.
func (c *Collector) findFiles(ctx context.Context, fsys fs.FS, root string) ([]string, error) {
	var ignorePatterns = slices.Clone(fsgitignore.GetDefaultIgnorePatterns())
	if !c.cnf.DisableGitIgnore {
		global, err := fsgitignore.GetGlobalIgnorePatterns()
		if err != nil {
			c.notify("Skipping global gitignore: %v", err)
		}
		ignorePatterns = append(ignorePatterns, global...)
	}
	if len(c.cnf.IgnoreDirs) > 0 {
		ignorePatterns = append(ignorePatterns, fsgitignore.ParsePatterns(c.cnf.IgnoreDirs, fsgitignore.Split(root))...)
	}
	var paths []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default: // Continue only if the context was not canceled.
		}
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if c.matchesExtension(p) && (p == root || !gitignore.NewMatcher(ignorePatterns).Match(fsgitignore.Split(p), false)) {
				paths = append(paths, p)
			}
			return nil
		}
		// Hard-limit the directory depth.
		if strings.Count(p, "/") >= maxDepth {
			return fs.SkipDir
		}
		if p != root {
			if d.Name() == ".git" || d.Name() == "node_modules" {
				return fs.SkipDir
			}
			if gitignore.NewMatcher(ignorePatterns).Match(fsgitignore.Split(p), true) {
				return fs.SkipDir
			}
		}
		if !c.cnf.DisableGitIgnore {
			patterns, err := fsgitignore.ParseIgnoreFiles(fsys, p)
			if err != nil {
				return err
			}
			ignorePatterns = append(ignorePatterns, patterns...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
