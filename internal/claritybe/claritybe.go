package claritybe

import (
	"fmt"
	"strings"

	"github.com/lhaig/sol2clarity/internal/ir"
	"github.com/lhaig/sol2clarity/internal/naming"
)

// Generate produces Clarity source code from a lowered contract.
// Sections are emitted in a fixed order: header, constants, maps with
// their getters, data variables with public getters, event documentation
// and finally functions.
func Generate(c *ir.Contract) string {
	g := &generator{}

	g.emitLinef(";; Contract: %s", c.Name)
	g.emitLine(";; Auto-generated Clarity contract from Solidity source")
	g.emitLine("")

	for _, dv := range c.DataVars {
		if dv.IsConstant {
			g.generateConstant(dv)
		}
	}
	g.emitLine("")

	for _, m := range c.Maps {
		g.generateMap(m)
	}

	for _, dv := range c.DataVars {
		if !dv.IsConstant {
			g.generateDataVar(dv)
		}
	}
	g.emitLine("")

	for _, ev := range c.Events {
		g.generateEvent(ev)
	}

	for _, fn := range c.Functions {
		g.generateFunction(fn)
		g.emitLine("")
	}

	return g.sb.String()
}

// GetterName is the read-only accessor generated for a map or public variable.
func GetterName(name string) string {
	return "get-" + name
}

type generator struct {
	sb strings.Builder
}

func (g *generator) emit(s string) {
	g.sb.WriteString(s)
}

func (g *generator) emitLinef(format string, args ...any) {
	g.sb.WriteString(fmt.Sprintf(format, args...))
	g.sb.WriteString("\n")
}

func (g *generator) emitLine(s string) {
	g.sb.WriteString(s)
	g.sb.WriteString("\n")
}

func (g *generator) generateConstant(dv *ir.DataVar) {
	g.emitLinef(";; @desc Constant value for %s", dv.Name)
	g.emitLinef("(define-constant %s %s)", dv.Name, dv.InitialValue)
}

func (g *generator) generateMap(m *ir.Map) {
	name := naming.Kebab(m.Name)
	g.emitLinef(";; @desc Map storing %s values", m.Name)
	g.emitLinef("(define-map %s %s %s)", name, m.KeyType, m.ValueType)
	g.emitLinef(";; @desc Getter for map %s", m.Name)
	g.emitLinef("(define-read-only (%s (key %s))", GetterName(name), m.KeyType)
	g.emitLinef("  (ok (map-get? %s key)))", name)
	g.emitLine("")
}

func (g *generator) generateDataVar(dv *ir.DataVar) {
	public := dv.Visibility == "public"
	g.emitLinef(";; @desc Stores the %s value", dv.Name)
	if public {
		g.emitLine(";; @access public")
	}
	g.emitLinef("(define-data-var %s %s %s)", dv.Name, dv.Type, dv.InitialValue)
	if public {
		g.emitLinef(";; @desc Getter for public variable %s", dv.Name)
		g.emitLinef("(define-read-only (%s)", GetterName(dv.Name))
		g.emitLinef("  (ok (var-get %s)))", dv.Name)
		g.emitLine("")
	}
}

// generateEvent documents an event; the target has no event declarations.
func (g *generator) generateEvent(ev *ir.Event) {
	g.emitLinef(";; @desc Event: %s", ev.Name)
	fields := make([]string, 0, len(ev.Fields))
	for _, f := range ev.Fields {
		indexed := ""
		if f.Indexed {
			indexed = "(indexed) "
		}
		fields = append(fields, fmt.Sprintf("%s%s: %s", indexed, f.Name, f.Type))
	}
	if len(fields) == 0 {
		g.emitLine(";; @fields")
	} else {
		g.emitLinef(";; @fields %s", strings.Join(fields, ", "))
	}
	g.emitLine("")
}

func (g *generator) generateFunction(fn *ir.Function) {
	g.emitLinef(";; Function: %s", fn.Name)
	if fn.ReadOnly {
		g.emitLine(";; @access read-only")
	}

	kind := "define-private"
	if fn.Public {
		kind = "define-public"
	}
	g.emit("(" + kind + " (" + fn.Name)
	for _, p := range fn.Params {
		g.emit(" (" + p.Name + " " + p.Type + ")")
	}
	g.emit(")\n  ")

	switch len(fn.Body) {
	case 0:
		g.emit("(ok true)")
	case 1:
		g.emit("(ok " + Expr(fn.Body[0]) + ")")
	default:
		g.emit("(begin\n")
		last := len(fn.Body) - 1
		for _, e := range fn.Body[:last] {
			g.emit("    " + Expr(e) + "\n")
		}
		g.emit("    (ok " + Expr(fn.Body[last]) + "))")
	}
	g.emit(")\n")
}

// Expr renders one expression in prefix-call syntax.
func Expr(e ir.Expr) string {
	switch e := e.(type) {
	case *ir.Literal:
		return e.Value
	case *ir.Var:
		return e.Name
	case *ir.Call:
		return call(e.Function, e.Args...)
	case *ir.MapGet:
		return "(map-get? " + e.Map + " " + Expr(e.Key) + ")"
	case *ir.MapSet:
		return "(map-set " + e.Map + " " + Expr(e.Key) + " " + Expr(e.Value) + ")"
	case *ir.Print:
		return call("print", e.Args...)
	default:
		panic(fmt.Sprintf("claritybe: unhandled expression %T", e))
	}
}

func call(fn string, args ...ir.Expr) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(fn)
	for _, a := range args {
		b.WriteString(" ")
		b.WriteString(Expr(a))
	}
	b.WriteString(")")
	return b.String()
}
