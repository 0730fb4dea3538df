package ir

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lhaig/sol2clarity/internal/ast"
)

// Target type names.
const (
	TypeUint      = "uint"
	TypeBool      = "bool"
	TypePrincipal = "principal"
	TypeString    = "string-ascii"
)

// Composite key labels used when a nested mapping is flattened.
const (
	OuterKeyLabel = "owner"
	InnerKeyLabel = "token-id"
)

// CallerSentinel is the target's caller identity, used for msg.sender
// and as the default principal.
const CallerSentinel = "tx-sender"

var typeTable = map[string]string{
	"uint256": TypeUint,
	"uint":    TypeUint,
	"bool":    TypeBool,
	"address": TypePrincipal,
	"string":  TypeString,

	// already-lowered names map to themselves
	TypePrincipal: TypePrincipal,
	TypeString:    TypeString,
}

// MapType maps a source type name to its target type. Unknown types,
// including mapping and array types, fall back to uint.
func MapType(sourceType string) string {
	if t, ok := typeTable[sourceType]; ok {
		return t
	}
	return TypeUint
}

// DefaultValue returns the literal a variable of the given target type
// starts with when it has no usable initializer.
func DefaultValue(targetType string) string {
	switch targetType {
	case TypeBool:
		return "false"
	case TypePrincipal:
		return CallerSentinel
	case TypeString:
		return `""`
	default:
		return "u0"
	}
}

// CompositeKeyType renders the record type keying a flattened nested map.
func CompositeKeyType(outer, inner string) string {
	return "{" + OuterKeyLabel + ": " + outer + ", " + InnerKeyLabel + ": " + inner + "}"
}

// Lower transforms a parsed contract into its target IR. It is total for
// every contract the parser produces.
func Lower(c *ast.Contract) *Contract {
	out := &Contract{Name: c.Name}

	for _, sv := range c.StateVariables {
		if sv.IsMapping {
			out.Maps = append(out.Maps, lowerMapping(sv))
		} else {
			out.DataVars = append(out.DataVars, lowerStateVariable(sv))
		}
	}

	for _, ev := range c.Events {
		out.Events = append(out.Events, lowerEvent(ev))
	}

	if c.Constructor != nil {
		out.Functions = append(out.Functions, &Function{
			Name:   "init",
			Params: lowerParams(c.Constructor.Params),
			Public: true,
			Body:   lowerStatements(c.Constructor.Body),
		})
	}
	for _, fn := range c.Functions {
		out.Functions = append(out.Functions, lowerFunction(fn))
	}

	return out
}

// lowerMapping flattens any depth of nesting into one map keyed by the
// outermost and innermost keys. Intermediate keys are dropped.
func lowerMapping(sv *ast.StateVariable) *Map {
	m := &Map{Name: sv.Name}
	if sv.Nested == nil {
		m.KeyType = MapType(sv.KeyType)
		m.ValueType = MapType(sv.ValueType)
		return m
	}
	inner := sv.Nested.Innermost()
	m.KeyType = CompositeKeyType(MapType(sv.KeyType), MapType(inner.KeyType))
	m.ValueType = MapType(inner.ValueType)
	return m
}

func lowerStateVariable(sv *ast.StateVariable) *DataVar {
	typ := MapType(sv.Type)
	dv := &DataVar{
		Name:         sv.Name,
		Type:         typ,
		InitialValue: DefaultValue(typ),
		IsConstant:   sv.IsConstant,
		Visibility:   sv.Visibility,
	}
	if lit, ok := sv.InitialValue.(*ast.Literal); ok {
		dv.InitialValue = lit.Value
		if typ == TypeUint {
			if n, ok := unsignedLiteral(lit.Value); ok {
				dv.InitialValue = n
			}
		}
	}
	return dv
}

func lowerEvent(ev *ast.Event) *Event {
	out := &Event{Name: ev.Name}
	for _, p := range ev.Params {
		out.Fields = append(out.Fields, &EventField{
			Name:    p.Name,
			Type:    MapType(p.Type),
			Indexed: p.Indexed,
		})
	}
	return out
}

func lowerFunction(fn *ast.Function) *Function {
	return &Function{
		Name:     fn.Name,
		Params:   lowerParams(fn.Params),
		Public:   fn.Visibility == "public" || fn.Visibility == "external",
		ReadOnly: fn.Mutability == "view" || fn.Mutability == "pure",
		Body:     lowerStatements(fn.Body),
	}
}

func lowerParams(params []*ast.Param) []*Param {
	out := make([]*Param, 0, len(params))
	for _, p := range params {
		out = append(out, &Param{Name: p.Name, Type: MapType(p.Type)})
	}
	return out
}

func lowerStatements(stmts []ast.Statement) []Expr {
	out := make([]Expr, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, lowerStatement(stmt))
	}
	return out
}

func lowerStatement(stmt ast.Statement) Expr {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return lowerExpr(s.Expr)
	case *ast.ReturnStmt:
		return lowerExpr(s.Value)
	case *ast.AssignStmt:
		return &Call{Function: "var-set", Args: []Expr{&Var{Name: s.Name}, lowerExpr(s.Value)}}
	case *ast.MapAssignStmt:
		return &MapSet{Map: s.Map, Key: lowerExpr(s.Key), Value: lowerExpr(s.Value)}
	case *ast.EmitStmt:
		args := []Expr{&Literal{Value: `"` + s.Event + `"`}}
		for _, a := range s.Args {
			args = append(args, lowerExpr(a))
		}
		return &Print{Args: args}
	default:
		panic("ir: unhandled statement type")
	}
}

func lowerExpr(expr ast.Expression) Expr {
	switch e := expr.(type) {
	case *ast.Literal:
		return &Literal{Value: lowerLiteral(e.Value)}
	case *ast.Identifier:
		return &Call{Function: "var-get", Args: []Expr{&Var{Name: e.Name}}}
	case *ast.BinaryExpr:
		fn := e.Op
		if e.Op == ast.CommaOp {
			fn = "tuple"
		}
		return &Call{Function: fn, Args: []Expr{lowerExpr(e.Left), lowerExpr(e.Right)}}
	case *ast.MapAccessExpr:
		return &MapGet{Map: e.Map, Key: lowerExpr(e.Key)}
	case *ast.MemberAccessExpr:
		if IsCallerAccess(e) {
			return &Var{Name: CallerSentinel}
		}
		return &Var{Name: MemberName(e)}
	case *ast.CallExpr:
		args := make([]Expr, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, lowerExpr(a))
		}
		return &Call{Function: e.Function, Args: args}
	default:
		panic("ir: unhandled expression type")
	}
}

func lowerLiteral(value string) string {
	if value == "true" || value == "false" {
		return value
	}
	if n, ok := unsignedLiteral(value); ok {
		return n
	}
	return value
}

// unsignedLiteral renders a decimal or hex number literal in u-prefixed form.
func unsignedLiteral(value string) (string, bool) {
	if isDigits(value) {
		return "u" + value, true
	}
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		n := new(big.Int).SetBytes(common.FromHex(value))
		return "u" + n.String(), true
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsCallerAccess reports whether e is msg.sender.
func IsCallerAccess(e *ast.MemberAccessExpr) bool {
	id, ok := e.Object.(*ast.Identifier)
	return ok && id.Name == "msg" && e.Member == "sender"
}

// MemberName is the synthetic name a member access lowers to: the
// access path joined with hyphens, so a.b.c becomes a-b-c.
func MemberName(e *ast.MemberAccessExpr) string {
	var base string
	switch obj := e.Object.(type) {
	case *ast.Identifier:
		base = obj.Name
	case *ast.MemberAccessExpr:
		base = MemberName(obj)
	case *ast.MapAccessExpr:
		base = obj.Map
	case *ast.CallExpr:
		base = obj.Function
	default:
		base = obj.String()
	}
	return base + "-" + e.Member
}
