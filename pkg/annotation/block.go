package annotation

import (
	"strings"
	"unicode"

	"github.com/upsun/luadoc/pkg/docs"
)

// draft accumulates the annotation lines of one doc block.
type draft struct {
	className   string
	description string
	params      []docs.Param
	returns     []docs.Return
	startLine   int
}

func (d *draft) function(name string) docs.Function {
	fn := docs.Function{
		Name:        name,
		Description: d.description,
		Params:      d.params,
		Returns:     d.returns,
	}
	if fn.Params == nil {
		fn.Params = []docs.Param{}
	}
	if fn.Returns == nil {
		fn.Returns = []docs.Return{}
	}
	return fn
}

// cursor is a position in the lines of one source.
type cursor struct {
	lines []string
	pos   int
}

func (c cursor) done() bool   { return c.pos >= len(c.lines) }
func (c cursor) line() string { return c.lines[c.pos] }

func trimLeft(line string) string {
	return strings.TrimLeftFunc(line, unicode.IsSpace)
}

// IsBlockStart reports whether a line opens a doc block, i.e. it starts with an explicit tag marker.
func IsBlockStart(line string) bool {
	t := trimLeft(line)
	return strings.HasPrefix(t, tagMarker) || strings.HasPrefix(t, spacedMarker)
}

// continuesBlock reports whether a line belongs to the current doc block.
//
// In permissive mode, plain comment lines are accepted too, except separators
// ("---") and TODO or FIXME notes.
func continuesBlock(line string, strict bool) bool {
	if IsBlockStart(line) {
		return true
	}
	if strict {
		return false
	}
	t := trimLeft(line)
	return strings.HasPrefix(t, commentMarker) &&
		!strings.HasPrefix(t, tripleMarker) &&
		!strings.HasPrefix(t, todoMarker) &&
		!strings.HasPrefix(t, fixmeMarker)
}

// accumulate consumes the doc block at the cursor and the blank lines following it.
// It returns the draft, the index of the first line after the block, and the
// cursor positioned on the first non-blank line.
func accumulate(c cursor, strict bool) (draft, int, cursor) {
	d := draft{startLine: c.pos}
	for !c.done() && continuesBlock(c.line(), strict) {
		d.applyLine(Content(c.line()))
		c.pos++
	}
	blockEnd := c.pos
	for !c.done() && strings.TrimSpace(c.line()) == "" {
		c.pos++
	}
	return d, blockEnd, c
}
