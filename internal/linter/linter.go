package linter

import (
	"github.com/lhaig/sol2clarity/internal/ast"
	"github.com/lhaig/sol2clarity/internal/diagnostic"
	"github.com/lhaig/sol2clarity/internal/ir"
	"github.com/lhaig/sol2clarity/internal/naming"
)

// Linter flags source constructs whose translation is lossy or likely to
// produce target code that does not behave like the source.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	contract *ast.Contract
	diag     *diagnostic.Diagnostics

	stateVars map[string]bool
	events    map[string]bool
	inChain   map[*ast.MemberAccessExpr]bool
}

// Lint runs all lint rules on the given contract and returns diagnostics.
func Lint(c *ast.Contract) *diagnostic.Diagnostics {
	l := &Linter{
		contract:  c,
		diag:      diagnostic.New(),
		stateVars: make(map[string]bool),
		events:    make(map[string]bool),
		inChain:   make(map[*ast.MemberAccessExpr]bool),
	}
	for _, sv := range c.StateVariables {
		l.stateVars[sv.Name] = true
	}
	for _, ev := range c.Events {
		l.events[ev.Name] = true
	}

	l.lintStateVariables()
	if c.Constructor != nil {
		l.lintBody("constructor", c.Constructor.Params, c.Constructor.Body)
	}
	l.lintFunctions()

	return l.diag
}

// lintStateVariables checks mapping declarations.
func (l *Linter) lintStateVariables() {
	kebabOwners := make(map[string]string)
	for _, sv := range l.contract.StateVariables {
		if !sv.IsMapping {
			continue
		}
		l.checkNestedMapping(sv)

		kebab := naming.Kebab(sv.Name)
		if other, ok := kebabOwners[kebab]; ok {
			l.diag.Warningf(sv.Line, sv.Column,
				"maps '%s' and '%s' both render as '%s'", other, sv.Name, kebab)
		} else {
			kebabOwners[kebab] = sv.Name
		}
		if kebab != sv.Name {
			l.diag.WarningWithHint(sv.Line, sv.Column,
				"map '"+sv.Name+"' is defined as '"+kebab+"' but reads and writes use '"+sv.Name+"'",
				"use a lower-case map name")
		}
	}
}

// checkNestedMapping warns about the fixed composite-key shape that nested
// mappings flatten to.
func (l *Linter) checkNestedMapping(sv *ast.StateVariable) {
	depth := sv.MappingDepth()
	if depth < 2 {
		return
	}
	l.diag.WarningWithHint(sv.Line, sv.Column,
		"nested mapping '"+sv.Name+"' is flattened to a key labeled "+ir.OuterKeyLabel+"/"+ir.InnerKeyLabel,
		"the labels do not depend on the declared key names")
	if depth > 2 {
		l.diag.Warningf(sv.Line, sv.Column,
			"mapping '%s' nests %d levels; only the outer and innermost keys are kept", sv.Name, depth)
	}
}

// lintFunctions checks all regular functions.
func (l *Linter) lintFunctions() {
	for _, fn := range l.contract.Functions {
		l.checkEmptyFunctionBody(fn)
		l.lintBody(fn.Name, fn.Params, fn.Body)
	}
}

// checkEmptyFunctionBody warns if a function body has no statements.
func (l *Linter) checkEmptyFunctionBody(fn *ast.Function) {
	if len(fn.Body) == 0 {
		l.diag.Warningf(fn.Line, fn.Column, "function '%s' has an empty body", fn.Name)
	}
}

// lintBody runs the statement-level rules over one function or constructor.
func (l *Linter) lintBody(scope string, params []*ast.Param, body []ast.Statement) {
	used := make(map[string]bool)
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.AssignStmt:
			if !l.stateVars[s.Name] {
				l.diag.Warningf(s.Line, s.Column,
					"assignment to '%s' in '%s' is not a state variable; it lowers to var-set", s.Name, scope)
			}
		case *ast.MapAssignStmt:
			l.checkMapName(s.Map, s.Line, s.Column)
		case *ast.EmitStmt:
			if !l.events[s.Event] {
				l.diag.Warningf(s.Line, s.Column, "emit of undeclared event '%s'", s.Event)
			}
		}
		forEachExpr(stmt, func(e ast.Expression) {
			switch e := e.(type) {
			case *ast.Identifier:
				used[e.Name] = true
			case *ast.MapAccessExpr:
				used[e.Map] = true
			case *ast.MemberAccessExpr:
				l.checkMemberAccess(e)
			}
		})
	}
	l.checkUnusedParams(scope, params, used)
}

func (l *Linter) checkMapName(name string, line, col int) {
	if !l.stateVars[name] {
		l.diag.Warningf(line, col, "write to undeclared map '%s'", name)
	}
}

// checkMemberAccess warns on member accesses without a target equivalent.
// Only the outermost access of a chain is reported.
func (l *Linter) checkMemberAccess(e *ast.MemberAccessExpr) {
	if ir.IsCallerAccess(e) || l.inChain[e] {
		return
	}
	for obj, ok := e.Object.(*ast.MemberAccessExpr); ok; obj, ok = obj.Object.(*ast.MemberAccessExpr) {
		l.inChain[obj] = true
	}
	l.diag.WarningWithHint(e.Line, e.Column,
		"member access '"+e.String()+"' lowers to the unbound name '"+ir.MemberName(e)+"'",
		"only msg.sender has a direct equivalent (tx-sender)")
}

// checkUnusedParams warns about parameters that are never read in the body.
func (l *Linter) checkUnusedParams(scope string, params []*ast.Param, used map[string]bool) {
	for _, p := range params {
		if !used[p.Name] {
			l.diag.Warningf(p.Line, p.Column,
				"parameter '%s' in '%s' is never used", p.Name, scope)
		}
	}
}

// forEachExpr calls fn for every expression reachable from stmt, parents
// before children.
func forEachExpr(stmt ast.Statement, fn func(ast.Expression)) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		walkExpr(s.Expr, fn)
	case *ast.ReturnStmt:
		walkExpr(s.Value, fn)
	case *ast.AssignStmt:
		walkExpr(s.Value, fn)
	case *ast.MapAssignStmt:
		walkExpr(s.Key, fn)
		walkExpr(s.Value, fn)
	case *ast.EmitStmt:
		for _, a := range s.Args {
			walkExpr(a, fn)
		}
	}
}

func walkExpr(expr ast.Expression, fn func(ast.Expression)) {
	if expr == nil {
		return
	}
	fn(expr)
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		walkExpr(e.Left, fn)
		walkExpr(e.Right, fn)
	case *ast.MapAccessExpr:
		walkExpr(e.Key, fn)
	case *ast.MemberAccessExpr:
		walkExpr(e.Object, fn)
	case *ast.CallExpr:
		for _, a := range e.Args {
			walkExpr(a, fn)
		}
	}
}
