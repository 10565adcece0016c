// Package annotation extracts documented functions from annotated Lua comment blocks.
//
// A doc block is a run of comment lines opened by a tag marker ("--@" or "-- @"):
//
//	--@class Vector
//	--@desc Adds two vectors.
//	--@param other:Vector the vector to add
//	--@return Vector, the sum
//	function Vector.add(self, other)
//
// The block is associated with the first declaration found in a short lookahead
// window after it, and filed under a category derived from the declared name.
package annotation

import (
	"strings"

	"github.com/upsun/luadoc/pkg/docs"
)

const (
	DefaultLookahead = 3
	DefaultCategory  = "Global"
)

// Options configures a Scanner. The zero value is usable.
type Options struct {
	// Strict only accepts lines with an explicit tag marker as part of a block.
	// By default, any plain comment line continues a block.
	Strict bool

	Lookahead       int    // Lines searched for a declaration after a block (default 3).
	DefaultCategory string // Category for undotted names without a class (default "Global").
}

// Entry is a documented function and where it was found.
type Entry struct {
	Category string
	Function docs.Function
	Line     int // 1-based line of the declaration.
}

// Scanner finds documented functions in source text.
// It holds no state between calls to Scan.
type Scanner struct {
	strict          bool
	lookahead       int
	defaultCategory string
}

func NewScanner(opts Options) *Scanner {
	s := &Scanner{
		strict:          opts.Strict,
		lookahead:       opts.Lookahead,
		defaultCategory: opts.DefaultCategory,
	}
	if s.lookahead <= 0 {
		s.lookahead = DefaultLookahead
	}
	if s.defaultCategory == "" {
		s.defaultCategory = DefaultCategory
	}
	return s
}

// Scan returns the documented functions in text, in source order.
func (s *Scanner) Scan(text string) []Entry {
	c := cursor{lines: splitLines(text)}
	var entries []Entry
	for !c.done() {
		if !IsBlockStart(c.line()) {
			c.pos++
			continue
		}
		entry, ok, next := s.parseBlock(c)
		if ok {
			entries = append(entries, entry)
		}
		c = next
	}
	return entries
}

// ScanInto scans text and adds the results to d. It returns the entries found.
func (s *Scanner) ScanInto(d *docs.Documentation, text string) []Entry {
	entries := s.Scan(text)
	for _, e := range entries {
		d.Add(e.Category, e.Function)
	}
	return entries
}

// parseBlock parses the doc block at c.
//
// On success, scanning resumes after the declaration line. When no declaration
// is found, the block is dropped and scanning resumes at the first non-blank
// line after it, so the lookahead lines are still examined for new blocks.
func (s *Scanner) parseBlock(c cursor) (Entry, bool, cursor) {
	d, blockEnd, c := accumulate(c, s.strict)
	name, index, ok := locate(c.lines, blockEnd, c.pos, s.lookahead)
	if !ok {
		return Entry{}, false, c
	}
	category, short := Categorize(name, d.className, s.defaultCategory)
	c.pos = index + 1
	return Entry{Category: category, Function: d.function(short), Line: index + 1}, true, c
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
