package annotation

import (
	"regexp"
	"strings"
)

const ident = `[a-zA-Z_][a-zA-Z0-9_]*`
const dotted = ident + `(?:\.` + ident + `)*`

// Declaration patterns, in priority order.
var (
	namedDeclPatt  = regexp.MustCompile(`function\s+(` + dotted + `)\s*\(`)
	localDeclPatt  = regexp.MustCompile(`local\s+function\s+(` + ident + `)\s*\(`)
	methodDeclPatt = regexp.MustCompile(`(` + dotted + `):(` + ident + `)\s*\(`)
	assignDeclPatt = regexp.MustCompile(`(` + dotted + `)\s*=\s*function\s*\(`)
)

// DeclaredName extracts the name declared by a line, if the line declares a function.
// Method declarations ("a.b:m(") are returned as "a.b.m".
func DeclaredName(line string) (string, bool) {
	if m := namedDeclPatt.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := localDeclPatt.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := methodDeclPatt.FindStringSubmatch(line); m != nil {
		return m[1] + "." + m[2], true
	}
	if m := assignDeclPatt.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// locate searches the lookahead window for a declaration.
// The window spans the lines [blockEnd, blockEnd+lookahead); the search starts at from,
// so blank lines skipped after the block count against the window.
// The search stops at the start of another doc block, which claims any declaration after it.
func locate(lines []string, blockEnd, from, lookahead int) (name string, index int, ok bool) {
	end := min(blockEnd+lookahead, len(lines))
	for i := from; i < end; i++ {
		if IsBlockStart(lines[i]) {
			break
		}
		if name, ok := DeclaredName(lines[i]); ok {
			return name, i, true
		}
	}
	return "", 0, false
}

// Categorize maps a declared name and an optional class context to a category and short name.
func Categorize(name, className, defaultCategory string) (category, short string) {
	if category, short, ok := strings.Cut(name, "."); ok {
		return category, short
	}
	if className != "" {
		return className, name
	}
	return defaultCategory, name
}
