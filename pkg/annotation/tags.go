package annotation

import (
	"strings"
	"unicode"

	"github.com/upsun/luadoc/pkg/docs"
)

// PlaceholderType is the type given to a return value that could not be parsed.
const PlaceholderType = "any"

const (
	tagMarker      = "--@"
	spacedMarker   = "-- @"
	commentMarker  = "--"
	tripleMarker   = "---"
	todoMarker     = "-- TODO"
	fixmeMarker    = "-- FIXME"
	redundantTagAt = "@"
)

const (
	tagClass  = "class"
	tagDesc   = "desc"
	tagParam  = "param"
	tagReturn = "return"
)

// Content strips the comment and tag markers from an annotation line.
func Content(line string) string {
	s := strings.TrimLeftFunc(line, unicode.IsSpace)
	for _, prefix := range []string{tagMarker, spacedMarker, commentMarker} {
		for strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
		}
	}
	return strings.TrimSpace(s)
}

// splitTag splits content into a leading keyword and the rest.
func splitTag(content string) (keyword, payload string) {
	i := strings.IndexFunc(content, unicode.IsSpace)
	if i < 0 {
		return content, ""
	}
	return content[:i], strings.TrimSpace(content[i:])
}

// applyLine updates a draft with one annotation line's content.
func (d *draft) applyLine(content string) {
	keyword, payload := splitTag(content)
	switch keyword {
	case tagClass:
		if payload != "" {
			d.className = payload
		}
	case tagDesc:
		if payload == "" {
			return
		}
		if d.description != "" {
			d.description += " "
		}
		d.description += payload
	case tagParam:
		if p, ok := ParseParam(payload); ok {
			d.params = append(d.params, p)
		}
	case tagReturn:
		d.returns = append(d.returns, parseReturnOrPlaceholder(payload))
	default:
		// "--@@" and similar redundant markers are skipped.
		if content != "" && d.description == "" && !strings.HasPrefix(content, redundantTagAt) {
			d.description = content
		}
	}
}

// ParseParam parses a parameter spec.
//
// Accepted shapes, first match wins:
//
//	name:type description
//	name:type
//	name, type, description
//	name type description...
func ParseParam(spec string) (docs.Param, bool) {
	spec = strings.TrimSpace(spec)

	if name, rest, ok := strings.Cut(spec, ":"); ok {
		name = strings.TrimSpace(name)
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		typ, desc := splitTag(rest)
		if name != "" && typ != "" && !strings.ContainsFunc(name, unicode.IsSpace) {
			return docs.Param{Name: name, Type: typ, Description: desc}, true
		}
	}

	if parts := strings.SplitN(spec, ",", 3); len(parts) >= 2 {
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[0] != "" && parts[1] != "" {
			p := docs.Param{Name: parts[0], Type: parts[1]}
			if len(parts) == 3 {
				p.Description = parts[2]
			}
			return p, true
		}
	}

	if words := strings.Fields(spec); len(words) >= 2 {
		return docs.Param{
			Name:        words[0],
			Type:        words[1],
			Description: strings.Join(words[2:], " "),
		}, true
	}

	return docs.Param{}, false
}

// ParseReturn parses a return spec: "type, description", "type description" or "type".
// It fails only on empty input.
func ParseReturn(spec string) (docs.Return, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return docs.Return{}, false
	}
	if typ, desc, ok := strings.Cut(spec, ","); ok {
		return docs.Return{Type: strings.TrimSpace(typ), Description: strings.TrimSpace(desc)}, true
	}
	typ, desc := splitTag(spec)
	return docs.Return{Type: typ, Description: desc}, true
}

func parseReturnOrPlaceholder(spec string) docs.Return {
	if r, ok := ParseReturn(spec); ok {
		return r
	}
	return docs.Return{Type: PlaceholderType, Description: strings.TrimSpace(spec)}
}
