// Package markdown generates a Markdown reference from documentation and renders it for terminals.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/upsun/luadoc/pkg/docs"
)

// Generate returns a Markdown reference: a table of contents, then one section per category.
func Generate(d *docs.Documentation, title string) string {
	var sb strings.Builder

	if title != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	}

	categories := d.Categories()
	if len(categories) > 1 {
		for _, category := range categories {
			sb.WriteString(fmt.Sprintf("- [%s](#%s) (%d)\n", category, anchor(category), len(d.Functions(category))))
		}
		sb.WriteString("\n")
	}

	for _, category := range categories {
		WriteCategory(&sb, category, d.Functions(category))
	}

	return sb.String()
}

// WriteCategory writes the section for one category.
func WriteCategory(sb *strings.Builder, category string, fns []docs.Function) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", category))
	for _, fn := range fns {
		writeFunction(sb, category, fn)
	}
}

func writeFunction(sb *strings.Builder, category string, fn docs.Function) {
	sb.WriteString(fmt.Sprintf("### %s\n\n", fn.Name))
	sb.WriteString(fmt.Sprintf("```lua\n%s\n```\n\n", Signature(category, fn)))

	if fn.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", fn.Description))
	}

	if len(fn.Params) > 0 {
		sb.WriteString("**Parameters:**\n\n")
		sb.WriteString("| Name | Type | Description |\n")
		sb.WriteString("|------|------|-------------|\n")
		for _, p := range fn.Params {
			sb.WriteString(fmt.Sprintf("| `%s` | `%s` | %s |\n", p.Name, cell(p.Type), cell(p.Description)))
		}
		sb.WriteString("\n")
	}

	if len(fn.Returns) > 0 {
		sb.WriteString("**Returns:**\n\n")
		for _, r := range fn.Returns {
			if r.Description == "" {
				sb.WriteString(fmt.Sprintf("- `%s`\n", r.Type))
			} else {
				sb.WriteString(fmt.Sprintf("- `%s`: %s\n", r.Type, r.Description))
			}
		}
		sb.WriteString("\n")
	}
}

// Signature formats a call signature, e.g. "Vector.new(x, y) -> Vector".
func Signature(category string, fn docs.Function) string {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	sig := fmt.Sprintf("%s.%s(%s)", category, fn.Name, strings.Join(names, ", "))
	if len(fn.Returns) > 0 {
		types := make([]string, len(fn.Returns))
		for i, r := range fn.Returns {
			types[i] = r.Type
		}
		sig += " -> " + strings.Join(types, ", ")
	}
	return sig
}

// cell makes text safe for a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func anchor(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}

// Render renders Markdown for a terminal.
// An empty style detects the terminal's background; "notty" disables colors.
func Render(md string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
