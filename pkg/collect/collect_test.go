package collect

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func luaFile(category, name string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(fmt.Sprintf("--@desc %s.\nfunction %s.%s()\nend\n", name, category, name))}
}

var testFS = fstest.MapFS{
	".gitignore":         {Data: []byte("generated/\n")},
	"a.lua":              luaFile("A", "first"),
	"lib/b.lua":          luaFile("B", "second"),
	"lib/c.txt":          luaFile("C", "ignored"),
	"lib/d.lua":          luaFile("A", "third"),
	"lib/.luadocignore":  {Data: []byte("*_spec.lua\n")},
	"lib/d_spec.lua":     luaFile("Spec", "ignored"),
	"generated/g.lua":    luaFile("Gen", "ignored"),
	"node_modules/n.lua": luaFile("Node", "ignored"),
	"lua_modules/m.lua":  luaFile("Mod", "ignored"),
	"z/tests/t.lua":      luaFile("Test", "maybe"),
	"z/plain.lua":        {Data: []byte("local x = 1\n")},
	".git/hooks/pre.lua": luaFile("Git", "ignored"),
}

func names(t *testing.T, results []FileResult) []string {
	t.Helper()
	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	return paths
}

func TestCollect(t *testing.T) {
	c := NewCollector(nil)
	d, results, err := c.Collect(context.Background(), testFS, ".")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.lua", "lib/b.lua", "lib/d.lua", "z/plain.lua", "z/tests/t.lua"}, names(t, results))
	assert.Equal(t, []string{"A", "B", "Test"}, d.Categories())

	var fnNames []string
	for _, fn := range d.Functions("A") {
		fnNames = append(fnNames, fn.Name)
	}
	assert.Equal(t, []string{"first", "third"}, fnNames, "files are merged in walk order")
	assert.Equal(t, 5, len(results))
	assert.Empty(t, results[3].Entries)
}

func TestCollectOptions(t *testing.T) {
	cases := []struct {
		name      string
		cnf       *Config
		wantPaths []string
	}{
		{
			name:      "disable gitignore",
			cnf:       &Config{DisableGitIgnore: true},
			wantPaths: []string{"a.lua", "generated/g.lua", "lib/b.lua", "lib/d.lua", "lib/d_spec.lua", "z/plain.lua", "z/tests/t.lua"},
		},
		{
			name:      "ignore dirs",
			cnf:       &Config{IgnoreDirs: []string{"tests/"}},
			wantPaths: []string{"a.lua", "lib/b.lua", "lib/d.lua", "z/plain.lua"},
		},
		{
			name:      "extensions",
			cnf:       &Config{Extensions: []string{".txt"}},
			wantPaths: []string{"lib/c.txt"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, results, err := NewCollector(c.cnf).Collect(context.Background(), testFS, ".")
			require.NoError(t, err)
			assert.Equal(t, c.wantPaths, names(t, results))
		})
	}
}

func TestCollectGlobalGitignore(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ".gitignore"), []byte("tests/\n"), 0o600))
	t.Setenv("HOME", home)
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(home, "gitconfig"))

	_, results, err := NewCollector(nil).Collect(context.Background(), testFS, ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.lua", "lib/b.lua", "lib/d.lua", "z/plain.lua"}, names(t, results))

	_, results, err = NewCollector(&Config{DisableGitIgnore: true}).Collect(context.Background(), testFS, ".")
	require.NoError(t, err)
	assert.Contains(t, names(t, results), "z/tests/t.lua")
}

func TestCollectSubdirectory(t *testing.T) {
	d, results, err := NewCollector(nil).Collect(context.Background(), testFS, "lib")
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/b.lua", "lib/d.lua"}, names(t, results))
	assert.Equal(t, []string{"B", "A"}, d.Categories())
}

func TestCollectSingleFile(t *testing.T) {
	_, results, err := NewCollector(nil).Collect(context.Background(), testFS, "lib/b.lua")
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/b.lua"}, names(t, results))
}

func TestCollectNotify(t *testing.T) {
	var messages []string
	c := NewCollector(&Config{Notify: func(format string, args ...any) {
		messages = append(messages, fmt.Sprintf(format, args...))
	}})
	_, _, err := c.Collect(context.Background(), testFS, "lib")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Scanning file: lib/b.lua",
		"Found function second in category B (lib/b.lua:2)",
		"Scanning file: lib/d.lua",
		"Found function third in category A (lib/d.lua:2)",
	}, messages)
}

// unreadableFS fails to open files whose name contains "locked".
type unreadableFS struct {
	fs.FS
}

func (u unreadableFS) Open(name string) (fs.File, error) {
	if strings.Contains(name, "locked") {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return u.FS.Open(name)
}

func TestCollectUnreadableFile(t *testing.T) {
	fsys := unreadableFS{FS: fstest.MapFS{
		"ok.lua":     luaFile("A", "ok"),
		"locked.lua": luaFile("A", "locked"),
	}}
	_, _, err := NewCollector(nil).Collect(context.Background(), fsys, ".")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Contains(t, err.Error(), "locked.lua")
}

func TestCollectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewCollector(nil).Collect(ctx, testFS, ".")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectDepthLimit(t *testing.T) {
	deep := strings.Repeat("d/", 20) + "deep.lua"
	fsys := fstest.MapFS{
		"top.lua": luaFile("T", "top"),
		deep:      luaFile("D", "deep"),
	}
	_, results, err := NewCollector(nil).Collect(context.Background(), fsys, ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"top.lua"}, names(t, results))
}
