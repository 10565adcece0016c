package annotation_test

import (
	_ "embed"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upsun/luadoc/pkg/annotation"
	"github.com/upsun/luadoc/pkg/docs"
)

//go:embed testdata/vector.lua
var vectorLua string

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

func TestScanFixture(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{})
	d := docs.New()
	entries := s.ScanInto(d, vectorLua)

	assert.Equal(t, []string{"Vector", "Global"}, d.Categories())

	var lineNumbers []int
	for _, e := range entries {
		lineNumbers = append(lineNumbers, e.Line)
	}
	assert.Equal(t, []int{9, 16, 23, 35, 43}, lineNumbers)

	assert.Equal(t, []docs.Function{
		{
			Name:        "new",
			Description: "Creates a new vector.",
			Params: []docs.Param{
				{Name: "x", Type: "number", Description: "horizontal component"},
				{Name: "y", Type: "number", Description: "vertical component"},
			},
			Returns: []docs.Return{{Type: "Vector", Description: "the new vector"}},
		},
		{
			Name:        "add",
			Description: "Adds two vectors.",
			Params:      []docs.Param{{Name: "other", Type: "Vector", Description: "the vector to add"}},
			Returns:     []docs.Return{{Type: "Vector", Description: "the sum"}},
		},
		{
			Name:        "length2",
			Description: "Squared length.",
			Params:      []docs.Param{},
			Returns:     []docs.Return{{Type: "number"}},
		},
		{
			Name:        "clamp",
			Description: "Clamps a value.",
			Params: []docs.Param{
				{Name: "v", Type: "number", Description: "the value"},
				{Name: "lo", Type: "number"},
				{Name: "hi", Type: "number"},
			},
			Returns: []docs.Return{},
		},
	}, d.Functions("Vector"))

	assert.Equal(t, []docs.Function{{
		Name:        "load_module",
		Description: "Module loader.",
		Params:      []docs.Param{},
		Returns:     []docs.Return{},
	}}, d.Functions("Global"))
}

func TestDeclarationSyntaxes(t *testing.T) {
	cases := []struct {
		name         string
		declaration  string
		wantCategory string
		wantName     string
	}{
		{"named", "function M.foo(a, b)", "M", "foo"},
		{"named nested", "function M.sub.foo()", "M", "sub.foo"},
		{"named global", "function foo()", "Global", "foo"},
		{"local", "local function helper (x)", "Global", "helper"},
		{"method", "function M:bar(x)", "M", "bar"},
		{"method nested", "function a.b:c()", "a", "b.c"},
		{"method call style", "obj:update(dt)", "obj", "update"},
		{"assignment", "M.baz = function(x)", "M", "baz"},
		{"assignment global", "qux=function ()", "Global", "qux"},
	}
	s := annotation.NewScanner(annotation.Options{})
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			entries := s.Scan(lines("--@desc Something.", c.declaration))
			require.Len(t, entries, 1)
			assert.Equal(t, c.wantCategory, entries[0].Category)
			assert.Equal(t, c.wantName, entries[0].Function.Name)
		})
	}
}

func TestDeclaredNamePriority(t *testing.T) {
	// Matches both the named and the assignment pattern: the named pattern wins.
	name, ok := annotation.DeclaredName("M.x = function M.y() end")
	assert.True(t, ok)
	assert.Equal(t, "M.y", name)

	// Matches both the local and the named pattern with the same result.
	name, ok = annotation.DeclaredName("local function f()")
	assert.True(t, ok)
	assert.Equal(t, "f", name)

	_, ok = annotation.DeclaredName("local x = 1")
	assert.False(t, ok)
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		name, class     string
		category, short string
	}{
		{"M.foo", "", "M", "foo"},
		{"M.foo", "Ignored", "M", "foo"},
		{"a.b.c", "", "a", "b.c"},
		{"foo", "Widget", "Widget", "foo"},
		{"foo", "", "Default", "foo"},
	}
	for _, c := range cases {
		category, short := annotation.Categorize(c.name, c.class, "Default")
		assert.Equal(t, c.category, category, c.name)
		assert.Equal(t, c.short, short, c.name)
	}
}

func TestClassContext(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{})
	entries := s.Scan(lines(
		"--@class First",
		"--@class Second",
		"--@desc Uses the last class.",
		"local function run()",
	))
	require.Len(t, entries, 1)
	assert.Equal(t, "Second", entries[0].Category)
	assert.Equal(t, "run", entries[0].Function.Name)
}

func TestMultiLineDescription(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{})
	entries := s.Scan(lines(
		"--@desc Part one.",
		"--@desc Part two.",
		"function M.foo()",
	))
	require.Len(t, entries, 1)
	assert.Equal(t, "Part one. Part two.", entries[0].Function.Description)
}

func TestLookaheadWindow(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{})
	block := "--@desc Documented."

	entries := s.Scan(lines(block, "", "", "function M.foo()"))
	require.Len(t, entries, 1)
	assert.Equal(t, "M", entries[0].Category)
	assert.Equal(t, "foo", entries[0].Function.Name)
	assert.Equal(t, 4, entries[0].Line)

	entries = s.Scan(lines(block, "", "", "", "function M.foo()"))
	assert.Empty(t, entries, "three blank lines fill the window")

	entries = s.Scan(lines(block, "", "", "", "", "function M.foo()"))
	assert.Empty(t, entries)

	entries = s.Scan(lines(block, "local x = 1", "local y = 2", "local z = 3", "function M.foo()"))
	assert.Empty(t, entries, "code lines count against the window")

	entries = s.Scan(lines(block, "local x = 1", "local y = 2", "function M.foo()"))
	require.Len(t, entries, 1)

	wide := annotation.NewScanner(annotation.Options{Lookahead: 6})
	entries = wide.Scan(lines(block, "", "", "", "", "function M.foo()"))
	require.Len(t, entries, 1)
}

func TestDroppedBlockResumesScan(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{})
	entries := s.Scan(lines(
		"--@desc Dropped.",
		"local x = 1",
		"--@desc Kept.",
		"",
		"",
		"function M.kept()",
	))
	require.Len(t, entries, 1, "a block inside a failed lookahead window is still recognized")
	assert.Equal(t, "Kept.", entries[0].Function.Description)
	assert.Equal(t, "kept", entries[0].Function.Name)
}

func TestNextBlockClaimsDeclaration(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{})
	entries := s.Scan(lines(
		"--@desc The circle constant.",
		"local PI = 3.14",
		"--@desc Computes the area.",
		"function M.area(r)",
	))
	require.Len(t, entries, 1)
	assert.Equal(t, "M", entries[0].Category)
	assert.Equal(t, "area", entries[0].Function.Name)
	assert.Equal(t, "Computes the area.", entries[0].Function.Description)
	assert.Equal(t, 4, entries[0].Line)

	strict := annotation.NewScanner(annotation.Options{Strict: true})
	entries = strict.Scan(lines(
		"--@desc Constant.",
		"-- prose ends the strict block",
		"--@desc Area.",
		"function M.area(r)",
	))
	require.Len(t, entries, 1)
	assert.Equal(t, "Area.", entries[0].Function.Description)
}

func TestNoDuplicateEntries(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{})
	entries := s.Scan(lines(
		"--@desc First.",
		"function M.a()",
		"function M.b()",
		"--@desc Second.",
		"function M.c()",
	))
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Function.Name)
	assert.Equal(t, "c", entries[1].Function.Name)
}

func TestPermissiveAndStrict(t *testing.T) {
	src := lines(
		"--@param a:int",
		"-- Explains the function.",
		"-- More prose that is not used.",
		"function M.f(a)",
	)

	entries := annotation.NewScanner(annotation.Options{}).Scan(src)
	require.Len(t, entries, 1)
	assert.Equal(t, "Explains the function.", entries[0].Function.Description)
	assert.Len(t, entries[0].Function.Params, 1)

	entries = annotation.NewScanner(annotation.Options{Strict: true}).Scan(src)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Function.Description, "in strict mode prose lines end the block")
	assert.Len(t, entries[0].Function.Params, 1)
}

func TestExcludedCommentLines(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{})
	for _, excluded := range []string{"---------", "-- TODO: later", "-- FIXME broken"} {
		t.Run(excluded, func(t *testing.T) {
			entries := s.Scan(lines(
				"--@desc Doc.",
				excluded,
				"function M.f()",
			))
			require.Len(t, entries, 1)
			assert.Equal(t, "Doc.", entries[0].Function.Description)
		})
	}
}

func TestMalformedEntries(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{})
	entries := s.Scan(lines(
		"--@param lonely",
		"--@param ok:string",
		"--@return",
		"--@",
		"function M.f(ok)",
	))
	require.Len(t, entries, 1)
	fn := entries[0].Function
	assert.Equal(t, []docs.Param{{Name: "ok", Type: "string"}}, fn.Params)
	assert.Equal(t, []docs.Return{{Type: annotation.PlaceholderType}}, fn.Returns)
	assert.Empty(t, fn.Description)
}

func TestDefaultCategoryOption(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{DefaultCategory: "Core"})
	entries := s.Scan(lines("--@desc x", "function f()"))
	require.Len(t, entries, 1)
	assert.Equal(t, "Core", entries[0].Category)
}

func TestCRLF(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{})
	entries := s.Scan("--@desc Windows.\r\n\r\nfunction M.win()\r\n")
	require.Len(t, entries, 1)
	assert.Equal(t, "Windows.", entries[0].Function.Description)
	assert.Equal(t, "win", entries[0].Function.Name)
}

func TestScanIdempotent(t *testing.T) {
	s := annotation.NewScanner(annotation.Options{})
	first := docs.New()
	s.ScanInto(first, vectorLua)
	second := docs.New()
	s.ScanInto(second, vectorLua)
	assert.Equal(t, first, second)
}

func TestIsBlockStart(t *testing.T) {
	assert.True(t, annotation.IsBlockStart("  --@desc x"))
	assert.True(t, annotation.IsBlockStart("-- @param a:int"))
	assert.False(t, annotation.IsBlockStart("-- plain"))
	assert.False(t, annotation.IsBlockStart("---@param a int"))
	assert.False(t, annotation.IsBlockStart("function f()"))
}
