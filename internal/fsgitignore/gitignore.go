// Package fsgitignore adapts go-git's gitignore functions for use with an io/fs filesystem.
package fsgitignore

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const (
	commentPrefix   = "#"
	gitDir          = ".git"
	gitignoreFile   = ".gitignore"
	infoExcludeFile = gitDir + "/info/exclude"

	// LuadocIgnoreFile holds patterns that only apply to documentation scans.
	LuadocIgnoreFile = ".luadocignore"
)

// Split splits a slash-separated fs.FS path into segments, the format the gitignore package expects.
func Split(p string) []string {
	if p == "." || p == "" {
		return []string{}
	}
	return strings.Split(path.Clean(filepath.ToSlash(p)), "/")
}

// ParsePatterns turns string patterns into parsed versions.
// The domain is usually a relative path split into segments (see Split).
func ParsePatterns(patterns, domain []string) []gitignore.Pattern {
	var parsed = make([]gitignore.Pattern, 0, len(patterns))
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" || strings.HasPrefix(pattern, commentPrefix) {
			continue
		}
		parsed = append(parsed, gitignore.ParsePattern(pattern, domain))
	}
	return parsed
}

// ParseIgnoreFiles parses the ignore files in a single directory:
// .gitignore, .git/info/exclude and .luadocignore.
func ParseIgnoreFiles(fsys fs.FS, dir string) ([]gitignore.Pattern, error) {
	var ps []gitignore.Pattern
	domain := Split(dir)
	for _, filename := range []string{gitignoreFile, infoExcludeFile, LuadocIgnoreFile} {
		if err := handleIfExists(fsys, dir, filename, func(r io.Reader) {
			ps = append(ps, ParseIgnoreFile(r, domain)...)
		}); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

// ParseIgnoreFile reads gitignore patterns from a reader.
// The domain is usually a relative path split into segments (see Split).
func ParseIgnoreFile(r io.Reader, domain []string) []gitignore.Pattern {
	var ps []gitignore.Pattern
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s := scanner.Text()
		if !strings.HasPrefix(s, commentPrefix) && len(strings.TrimSpace(s)) > 0 {
			ps = append(ps, gitignore.ParsePattern(s, domain))
		}
	}
	return ps
}

// handleIfExists opens a file, ignoring errors if the file does not exist or cannot be accessed, and runs a function.
func handleIfExists(fsys fs.FS, dir, filename string, handler func(r io.Reader)) error {
	f, err := fsys.Open(path.Join(dir, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil
		}
		return err
	}
	defer f.Close()

	handler(f)
	return nil
}

// getGlobalGitignorePath returns the path to the global gitignore file.
// It checks ~/.gitignore first, then git config core.excludesFile.
func getGlobalGitignorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	defaultPath := filepath.Join(home, ".gitignore")
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath, nil
	}

	output, err := exec.Command("git", "config", "--global", "--get", "core.excludesFile").Output()
	if err == nil {
		p := strings.TrimSpace(string(output))
		if rest, ok := strings.CutPrefix(p, "~/"); ok {
			p = filepath.Join(home, rest)
		}
		return p, nil
	}

	return "", nil
}

// GetGlobalIgnorePatterns parses the user's global gitignore file, if there is one.
func GetGlobalIgnorePatterns() ([]gitignore.Pattern, error) {
	globalPath, err := getGlobalGitignorePath()
	if err != nil || globalPath == "" {
		return nil, err
	}

	file, err := os.Open(globalPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	return ParseIgnoreFile(file, nil), nil
}

//go:embed gitignore-defaults
var defaultIgnoreFile []byte

var defaultIgnores []gitignore.Pattern
var parsedDefaultIgnores sync.Once

// GetDefaultIgnorePatterns returns patterns for directories that never hold project sources,
// such as VCS metadata, package caches and build output.
func GetDefaultIgnorePatterns() []gitignore.Pattern {
	parsedDefaultIgnores.Do(func() {
		defaultIgnores = ParseIgnoreFile(bytes.NewReader(defaultIgnoreFile), nil)
	})
	return defaultIgnores
}
