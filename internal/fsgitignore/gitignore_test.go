package fsgitignore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGlobalIgnorePatterns(t *testing.T) {
	t.Run("no global gitignore file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(t.TempDir(), "gitconfig"))

		patterns, err := GetGlobalIgnorePatterns()
		assert.NoError(t, err)
		assert.Empty(t, patterns)
	})

	t.Run("global gitignore file exists", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(home, ".gitignore"), []byte("# Global\n*.log\n.DS_Store\n"), 0600))
		t.Setenv("HOME", home)

		patterns, err := GetGlobalIgnorePatterns()
		assert.NoError(t, err)
		assert.Len(t, patterns, 2)

		path, err := getGlobalGitignorePath()
		assert.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, "/.gitignore"))
	})
}

func TestParseIgnoreFile(t *testing.T) {
	content := `# This is a comment
*.log
# Another comment

.DS_Store
build/
`
	patterns := ParseIgnoreFile(strings.NewReader(content), nil)

	assert.Len(t, patterns, 3) // Comments and empty lines are skipped.

	assert.NotEqual(t, gitignore.NoMatch, patterns[0].Match([]string{"test.log"}, false))
	assert.NotEqual(t, gitignore.NoMatch, patterns[1].Match([]string{".DS_Store"}, false))
	assert.NotEqual(t, gitignore.NoMatch, patterns[2].Match([]string{"build"}, true))
}

func TestParseIgnoreFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"sub/.gitignore":      {Data: []byte("generated.lua\n")},
		"sub/.luadocignore":   {Data: []byte("# docs only\nspec/\n")},
		"sub/generated.lua":   {},
		"sub/spec/a_spec.lua": {},
		"other/.gitignore":    {Data: []byte("*.lua\n")},
	}

	patterns, err := ParseIgnoreFiles(fsys, "sub")
	require.NoError(t, err)
	require.Len(t, patterns, 2)

	m := gitignore.NewMatcher(patterns)
	assert.True(t, m.Match(Split("sub/generated.lua"), false))
	assert.True(t, m.Match(Split("sub/spec"), true))
	assert.False(t, m.Match(Split("sub/init.lua"), false))
	assert.False(t, m.Match(Split("other/generated.lua"), false), "patterns are scoped to their directory")

	patterns, err = ParseIgnoreFiles(fsys, "missing")
	assert.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestParsePatterns(t *testing.T) {
	patterns := ParsePatterns([]string{"tests/", "", "# note", "*.min.lua"}, nil)
	require.Len(t, patterns, 2)

	m := gitignore.NewMatcher(patterns)
	assert.True(t, m.Match(Split("lib/tests"), true))
	assert.True(t, m.Match(Split("lib/x.min.lua"), false))
	assert.False(t, m.Match(Split("lib/x.lua"), false))
}

func TestDefaultIgnorePatterns(t *testing.T) {
	m := gitignore.NewMatcher(GetDefaultIgnorePatterns())
	assert.True(t, m.Match(Split(".git"), true))
	assert.True(t, m.Match(Split("deps/lua_modules"), true))
	assert.True(t, m.Match(Split("node_modules"), true))
	assert.False(t, m.Match(Split("src"), true))
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{}, Split("."))
	assert.Equal(t, []string{"a", "b", "c.lua"}, Split("a/b/c.lua"))
	assert.Equal(t, []string{"a", "c"}, Split("a/b/../c"))
}
