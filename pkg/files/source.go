// Package files opens the filesystems that documentation is collected from.
package files

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/helper/iofs"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/upsun/luadoc/internal/searchfs"
)

// IsLocal reports whether a source refers to a local path rather than a Git URL.
func IsLocal(source string) bool {
	return !strings.Contains(source, "//") && !strings.HasPrefix(source, "git@")
}

// LocalFS returns a filesystem rooted at a local directory, with cached directory listings.
func LocalFS(path string) (fs.FS, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", path)
	}
	return searchfs.New(os.DirFS(abs)), nil
}

// Clone clones a Git repository into an in-memory filesystem.
// An empty refName selects the remote's default branch.
func Clone(ctx context.Context, gitURL string, refName string) (fs.FS, error) {
	cloneOptions := &git.CloneOptions{
		URL:               gitURL,
		ReferenceName:     plumbing.ReferenceName(refName),
		SingleBranch:      true,
		Depth:             1,
		RecurseSubmodules: 1,
		ShallowSubmodules: true,
	}
	// Use the GITHUB_TOKEN in the environment for HTTPS GitHub URLs.
	if ghToken := os.Getenv("GITHUB_TOKEN"); ghToken != "" && strings.Contains(gitURL, "https://github.com") {
		cloneOptions.Auth = &http.BasicAuth{Username: ghToken}
	}

	gitMemFS := memfs.New()
	if _, err := git.CloneContext(ctx, memory.NewStorage(), gitMemFS, cloneOptions); err != nil {
		return nil, fmt.Errorf("could not clone %s: %w", gitURL, err)
	}

	return searchfs.New(iofs.New(gitMemFS)), nil
}

// Open returns the filesystem for a source: a local directory or a Git URL.
func Open(ctx context.Context, source, refName string) (fs.FS, error) {
	if IsLocal(source) {
		return LocalFS(source)
	}
	return Clone(ctx, source, refName)
}
