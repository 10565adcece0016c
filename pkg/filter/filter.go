// Package filter selects documented functions by category pattern, CEL expression or jq query.
package filter

import (
	"strings"

	"github.com/IGLOU-EU/go-wildcard/v2"

	"github.com/upsun/luadoc/pkg/docs"
)

// Predicate decides whether to keep a function.
type Predicate func(category string, fn docs.Function) (bool, error)

// Categories keeps functions whose category matches any of the patterns.
// Patterns may contain "*" wildcards. No patterns keeps everything.
func Categories(patterns ...string) Predicate {
	return func(category string, _ docs.Function) (bool, error) {
		if len(patterns) == 0 {
			return true, nil
		}
		for _, p := range patterns {
			if wildcard.Match(strings.TrimSpace(p), category) {
				return true, nil
			}
		}
		return false, nil
	}
}

// Where keeps functions for which a CEL expression returns true.
// An empty expression keeps everything.
func Where(ev *Evaluator, expr string) Predicate {
	return func(category string, fn docs.Function) (bool, error) {
		if expr == "" {
			return true, nil
		}
		return ev.Match(expr, category, fn)
	}
}

// All combines predicates: a function is kept only if every predicate keeps it.
func All(predicates ...Predicate) Predicate {
	return func(category string, fn docs.Function) (bool, error) {
		for _, p := range predicates {
			ok, err := p(category, fn)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// Apply returns a copy of d containing the functions kept by all predicates.
func Apply(d *docs.Documentation, predicates ...Predicate) (*docs.Documentation, error) {
	return d.Filter(All(predicates...))
}
