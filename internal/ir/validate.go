package ir

import (
	"fmt"
	"strings"
)

var targetTypes = map[string]bool{
	TypeUint:      true,
	TypeBool:      true,
	TypePrincipal: true,
	TypeString:    true,
}

// Validate checks a lowered contract for internal consistency and returns a
// list of error messages. An empty slice indicates the contract is valid.
// Lowering a parsed contract always yields a valid one, so any message here
// points at a lowering bug.
func Validate(c *Contract) []string {
	var errors []string

	if c.Name == "" {
		errors = append(errors, "contract has empty Name")
	}

	for _, dv := range c.DataVars {
		context := fmt.Sprintf("data var %s", dv.Name)
		if dv.Name == "" {
			errors = append(errors, "data var has empty Name")
		}
		if !targetTypes[dv.Type] {
			errors = append(errors, fmt.Sprintf("%s: unknown type %q", context, dv.Type))
		}
		if dv.InitialValue == "" {
			errors = append(errors, fmt.Sprintf("%s: empty InitialValue", context))
		}
	}

	for _, m := range c.Maps {
		context := fmt.Sprintf("map %s", m.Name)
		if m.Name == "" {
			errors = append(errors, "map has empty Name")
		}
		if !targetTypes[m.KeyType] && !isCompositeKey(m.KeyType) {
			errors = append(errors, fmt.Sprintf("%s: unknown key type %q", context, m.KeyType))
		}
		if !targetTypes[m.ValueType] {
			errors = append(errors, fmt.Sprintf("%s: value type %q is not single-level", context, m.ValueType))
		}
	}

	for _, ev := range c.Events {
		for _, f := range ev.Fields {
			if !targetTypes[f.Type] {
				errors = append(errors, fmt.Sprintf("event %s field %s: unknown type %q", ev.Name, f.Name, f.Type))
			}
		}
	}

	for _, fn := range c.Functions {
		context := fmt.Sprintf("function %s", fn.Name)
		if fn.Name == "" {
			errors = append(errors, "function has empty Name")
		}
		for _, p := range fn.Params {
			if !targetTypes[p.Type] {
				errors = append(errors, fmt.Sprintf("%s param %s: unknown type %q", context, p.Name, p.Type))
			}
		}
		for i, expr := range fn.Body {
			errors = append(errors, validateExpr(expr, fmt.Sprintf("%s statement %d", context, i))...)
		}
	}

	return errors
}

func isCompositeKey(t string) bool {
	return strings.HasPrefix(t, "{"+OuterKeyLabel+": ") && strings.HasSuffix(t, "}")
}

// validateExpr checks an expression for validity.
func validateExpr(expr Expr, context string) []string {
	var errors []string

	if expr == nil {
		return append(errors, fmt.Sprintf("%s: nil expression", context))
	}

	switch e := expr.(type) {
	case *Literal:
		if e.Value == "" {
			errors = append(errors, fmt.Sprintf("%s: empty Literal", context))
		}
	case *Var:
		if e.Name == "" {
			errors = append(errors, fmt.Sprintf("%s: Var has empty Name", context))
		}
	case *Call:
		if e.Function == "" {
			errors = append(errors, fmt.Sprintf("%s: Call has empty Function", context))
		}
		for _, a := range e.Args {
			errors = append(errors, validateExpr(a, context)...)
		}
	case *MapGet:
		if e.Map == "" {
			errors = append(errors, fmt.Sprintf("%s: MapGet has empty Map", context))
		}
		errors = append(errors, validateExpr(e.Key, context)...)
	case *MapSet:
		if e.Map == "" {
			errors = append(errors, fmt.Sprintf("%s: MapSet has empty Map", context))
		}
		errors = append(errors, validateExpr(e.Key, context)...)
		errors = append(errors, validateExpr(e.Value, context)...)
	case *Print:
		if len(e.Args) == 0 {
			errors = append(errors, fmt.Sprintf("%s: Print has no event name", context))
		}
		for _, a := range e.Args {
			errors = append(errors, validateExpr(a, context)...)
		}
	default:
		errors = append(errors, fmt.Sprintf("%s: unknown expression type %T", context, expr))
	}

	return errors
}
