// Package cel compiles the expression queries of the palette search.
//
// A query prefixed with ":" is a CEL expression evaluated once per candidate
// leaf, with the leaf's fields bound to the variable "_":
//
//	:"EAP" in _.tags
//	:_.label.startsWith("S") && _.validation == "none"
package cel

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"
)

// ErrNotBool is returned when a filter expression does not produce a bool.
var ErrNotBool = errors.New("expression did not evaluate to a bool")

// Evaluator compiles filter expressions against a shared environment.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the standard library and the strings,
// lists and math extensions.
func NewEvaluator() (*Evaluator, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

func newEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	all := make([]cel.EnvOption, 0, 5+len(opts))
	all = append(all,
		cel.Variable("_", cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	all = append(all, opts...)
	return cel.NewEnv(all...)
}

// Filter is a compiled boolean expression.
type Filter struct {
	expr string
	prg  cel.Program
}

// Compile parses and checks expr. Compilation errors are reported with the
// expression so the UI can show them next to the query.
func (e *Evaluator) Compile(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("empty expression")
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Match evaluates the filter with data bound to "_".
func (f *Filter) Match(data map[string]any) (bool, error) {
	out, _, err := f.prg.Eval(map[string]any{"_": data})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("%w: got %s", ErrNotBool, out.Type().TypeName())
	}
	return bool(b), nil
}

// Evaluate compiles and runs expr against data and returns the Go value of the
// result. Used by the search command to preview what an expression yields.
func (e *Evaluator) Evaluate(expr string, data map[string]any) (any, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	out, _, err := prg.Eval(map[string]any{"_": data})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return ToGo(out), nil
}

// ToGo converts CEL values back to plain Go values.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	}
	switch inner := val.Value().(type) {
	case []ref.Val:
		out := make([]any, len(inner))
		for i, elem := range inner {
			out[i] = ToGo(elem)
		}
		return out
	case []any:
		out := make([]any, len(inner))
		for i, elem := range inner {
			if rv, ok := elem.(ref.Val); ok {
				out[i] = ToGo(rv)
				continue
			}
			out[i] = elem
		}
		return out
	default:
		return inner
	}
}

// Functions lists the callable functions and macros of the environment,
// sorted, without operator overloads.
func (e *Evaluator) Functions() []string {
	seen := make(map[string]bool)
	for _, fn := range e.env.Functions() {
		if !isOperator(fn.Name()) {
			seen[fn.Name()] = true
		}
	}
	for _, m := range e.env.Macros() {
		if !isOperator(m.Function()) {
			seen[m.Function()] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isOperator(name string) bool {
	if strings.HasPrefix(name, "@") {
		return true
	}
	if strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_") {
		return true
	}
	switch name {
	case "!_", "-_", "_[_]", "_?_:_":
		return true
	}
	return false
}
