// Package site renders documentation as a static HTML site.
//
// The site has one page per category, named after the lowercased category,
// plus a stylesheet, a search script and an index page that redirects to the
// first category.
package site

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"

	"github.com/upsun/luadoc/pkg/docs"
)

//go:embed assets templates
var content embed.FS

const (
	DefaultTitle = "Documentation"
	indexFile    = "index.html"
)

// ErrUnsafeOutput is returned by Build when the output directory could hold anything but a previous site.
var ErrUnsafeOutput = errors.New("refusing to replace output directory")

type Options struct {
	Title  string
	Footer string

	// MarkdownDescriptions renders descriptions as Markdown instead of plain text.
	MarkdownDescriptions bool

	// Protected paths may not be inside the output directory. The working
	// directory is always protected.
	Protected []string

	// Notify receives progress messages, if set.
	Notify func(format string, args ...any)
}

// Renderer writes sites. It is safe for concurrent use.
type Renderer struct {
	opts  Options
	page  *template.Template
	index *template.Template
	md    goldmark.Markdown
}

func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	r := &Renderer{opts: opts, md: goldmark.New()}

	funcMap := template.FuncMap{
		"describe": r.describe,
	}
	page, err := template.New("page.html.tmpl").Funcs(funcMap).ParseFS(content, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	index, err := template.ParseFS(content, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}
	r.page, r.index = page, index
	return r, nil
}

func (r *Renderer) notify(format string, args ...any) {
	if r.opts.Notify != nil {
		r.opts.Notify(format, args...)
	}
}

func (r *Renderer) describe(s string) template.HTML {
	if !r.opts.MarkdownDescriptions || s == "" {
		return template.HTML(template.HTMLEscapeString(s)) //nolint:gosec // escaped
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s)) //nolint:gosec // escaped
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark omits raw HTML by default
}

type navLink struct {
	Name string
	Href string
}

type navSection struct {
	Category string
	Links    []navLink
}

type pageFunction struct {
	docs.Function
	ID string
}

type pageData struct {
	Title     string
	Footer    string
	Category  string
	Functions []pageFunction
	Nav       []navSection
}

// Build replaces the contents of dir with the rendered site.
// An existing dir is only replaced if it is empty or holds a previously built site.
func (r *Renderer) Build(dir string, d *docs.Documentation) error {
	if err := r.checkOutputDir(dir); err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("could not remove output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}
	if err := writeAssets(dir); err != nil {
		return err
	}

	categories := d.Categories()
	pages := PageNames(categories)
	for _, category := range categories {
		fns := d.Functions(category)
		ids := Anchors(fns)
		data := pageData{
			Title:     r.opts.Title,
			Footer:    r.opts.Footer,
			Category:  category,
			Functions: make([]pageFunction, len(fns)),
			Nav:       navigation(d, category, pages),
		}
		for i, fn := range fns {
			data.Functions[i] = pageFunction{Function: fn, ID: ids[i]}
		}
		if err := r.writeTemplate(r.page, filepath.Join(dir, pages[category]), data); err != nil {
			return err
		}
		r.notify("Wrote page %s (%d functions)", pages[category], len(data.Functions))
	}

	var first string
	if len(categories) > 0 {
		first = pages[categories[0]]
	}
	return r.writeTemplate(r.index, filepath.Join(dir, indexFile), struct{ Title, First string }{r.opts.Title, first})
}

func (r *Renderer) checkOutputDir(dir string) error {
	out := resolvePath(dir)
	protected := slices.Clone(r.opts.Protected)
	if wd, err := os.Getwd(); err == nil {
		protected = append(protected, wd)
	}
	for _, p := range protected {
		if isWithin(resolvePath(p), out) {
			return fmt.Errorf("%w %s: it contains %s", ErrUnsafeOutput, dir, p)
		}
	}

	entries, err := os.ReadDir(out)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("could not read output directory: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	if _, err := os.Stat(filepath.Join(out, indexFile)); err != nil {
		return fmt.Errorf("%w %s: it is not empty and has no %s", ErrUnsafeOutput, dir, indexFile)
	}
	return nil
}

// resolvePath returns an absolute path with symlinks resolved where possible.
func resolvePath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// isWithin reports whether p is dir or a path below it.
func isWithin(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (r *Renderer) writeTemplate(tmpl *template.Template, path string, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("could not render %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // public site files
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

func writeAssets(dir string) error {
	return fs.WalkDir(content, "assets", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := content.ReadFile(path)
		if err != nil {
			return err
		}
		//nolint:gosec // public site files
		if err := os.WriteFile(filepath.Join(dir, d.Name()), b, 0o644); err != nil {
			return fmt.Errorf("could not write %s: %w", d.Name(), err)
		}
		return nil
	})
}

// navigation lists every category and its functions, linking within the current page where possible.
func navigation(d *docs.Documentation, current string, pages map[string]string) []navSection {
	categories := d.Categories()
	nav := make([]navSection, len(categories))
	for i, category := range categories {
		fns := d.Functions(category)
		ids := Anchors(fns)
		section := navSection{Category: category, Links: make([]navLink, len(fns))}
		for j, fn := range fns {
			href := "#" + ids[j]
			if category != current {
				href = pages[category] + href
			}
			section.Links[j] = navLink{Name: fn.Name, Href: href}
		}
		nav[i] = section
	}
	return nav
}

// Anchors returns the element IDs for the functions of one page, in order:
// the lowercased name, with a numeric suffix for names already taken on the page.
func Anchors(fns []docs.Function) []string {
	ids := make([]string, len(fns))
	used := make(map[string]bool, len(fns))
	for i, fn := range fns {
		base := strings.ToLower(fn.Name)
		id := base
		for n := 2; used[id]; n++ {
			id = base + "-" + strconv.Itoa(n)
		}
		used[id] = true
		ids[i] = id
	}
	return ids
}

// PageNames maps each category to a unique file name: the lowercased category
// with unsafe characters replaced by "_", then ".html".
// Categories that collide after this get a numeric suffix, in order.
func PageNames(categories []string) map[string]string {
	names := make(map[string]string, len(categories))
	used := make(map[string]bool, len(categories))
	for _, category := range categories {
		base := pageBase(category)
		name := base + ".html"
		for n := 2; used[name]; n++ {
			name = base + "-" + strconv.Itoa(n) + ".html"
		}
		used[name] = true
		names[category] = name
	}
	return names
}

func pageBase(category string) string {
	base := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, strings.ToLower(category))
	if base == "" || strings.Trim(base, ".") == "" || base == "index" {
		base = "_" + base
	}
	return base
}
