package filter

import (
	"errors"
	"fmt"
	"sync"

	"github.com/IGLOU-EU/go-wildcard/v2"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/upsun/luadoc/pkg/docs"
)

// ErrNotBoolean is returned when a filter expression does not evaluate to a boolean.
var ErrNotBoolean = errors.New("expression did not return a boolean")

type Config struct {
	EnvOptions []cel.EnvOption // Extra CEL environment options.
}

// Evaluator runs CEL expressions against documented functions.
//
// Expressions can use the variables:
//
//	category     string
//	name         string
//	description  string
//	params       list of {"name", "type", "description"} maps
//	returns      list of {"type", "description"} maps
//
// and the function wildcard(pattern, value), e.g.:
//
//	category == "Vector" && params.exists(p, p.type == "number")
//	wildcard("get*", name) && size(returns) > 0
type Evaluator struct {
	celEnv *cel.Env

	// Compiled expressions, keyed by source.
	compiled map[string]*compiledExpr
	mux      sync.RWMutex
}

type compiledExpr struct {
	ast *cel.Ast
	prg cel.Program
}

func NewEvaluator(cnf *Config) (*Evaluator, error) {
	if cnf == nil {
		cnf = &Config{}
	}
	celEnv, err := newCelEnv(cnf)
	if err != nil {
		return nil, err
	}
	return &Evaluator{celEnv: celEnv, compiled: make(map[string]*compiledExpr)}, nil
}

// Compile checks an expression and plans it for evaluation.
// Results are kept, so an expression is only compiled once per Evaluator.
func (e *Evaluator) Compile(expr string) (*cel.Ast, error) {
	c, err := e.compile(expr)
	if err != nil {
		return nil, err
	}
	return c.ast, nil
}

func (e *Evaluator) compile(expr string) (*compiledExpr, error) {
	e.mux.RLock()
	c, ok := e.compiled[expr]
	e.mux.RUnlock()
	if ok {
		return c, nil
	}

	ast, iss := e.celEnv.Compile(expr)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	prg, err := e.celEnv.Program(ast)
	if err != nil {
		return nil, err
	}
	c = &compiledExpr{ast: ast, prg: prg}

	e.mux.Lock()
	defer e.mux.Unlock()
	if existing, ok := e.compiled[expr]; ok {
		return existing, nil
	}
	e.compiled[expr] = c
	return c, nil
}

// Eval evaluates an expression for a single function.
func (e *Evaluator) Eval(expr, category string, fn docs.Function) (ref.Val, error) {
	c, err := e.compile(expr)
	if err != nil {
		return nil, err
	}
	out, _, err := c.prg.Eval(activation(category, fn))
	return out, err
}

// Match evaluates an expression that must return a boolean.
func (e *Evaluator) Match(expr, category string, fn docs.Function) (bool, error) {
	val, err := e.Eval(expr, category, fn)
	if err != nil {
		return false, err
	}
	b, ok := val.(types.Bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %v", ErrNotBoolean, expr, val.Type())
	}
	return bool(b), nil
}

func activation(category string, fn docs.Function) map[string]any {
	params := make([]map[string]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = map[string]string{"name": p.Name, "type": p.Type, "description": p.Description}
	}
	returns := make([]map[string]string, len(fn.Returns))
	for i, r := range fn.Returns {
		returns[i] = map[string]string{"type": r.Type, "description": r.Description}
	}
	return map[string]any{
		"category":    category,
		"name":        fn.Name,
		"description": fn.Description,
		"params":      params,
		"returns":     returns,
	}
}

func newCelEnv(cnf *Config) (*cel.Env, error) {
	fieldList := cel.ListType(cel.MapType(cel.StringType, cel.StringType))
	options := append([]cel.EnvOption{
		cel.Variable("category", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("params", fieldList),
		cel.Variable("returns", fieldList),
		wildcardFunction(),
		ext.Lists(),
		ext.Strings(),
	}, cnf.EnvOptions...)

	return cel.NewEnv(options...)
}

func wildcardFunction() cel.EnvOption {
	return cel.Function("wildcard",
		cel.Overload("wildcard_string_string",
			[]*cel.Type{cel.StringType, cel.StringType},
			cel.BoolType,
			cel.BinaryBinding(func(pattern, value ref.Val) ref.Val {
				p, ok1 := pattern.(types.String)
				v, ok2 := value.(types.String)
				if !ok1 || !ok2 {
					return types.NewErr("wildcard: expected string arguments")
				}
				return types.Bool(wildcard.Match(string(p), string(v)))
			}),
		),
	)
}
