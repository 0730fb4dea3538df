package ast

import (
	"fmt"
	"strings"
)

// Node is the base interface for all AST nodes
type Node interface {
	Pos() (line, col int)
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
	String() string
}

// Contract represents one top-level contract declaration
type Contract struct {
	Name           string
	Bases          []string // names after "is"; recorded but not lowered
	Functions      []*Function
	StateVariables []*StateVariable
	Events         []*Event
	Constructor    *Constructor
	Line           int
	Column         int
}

func (c *Contract) Pos() (int, int) { return c.Line, c.Column }

// Function represents a regular (named) function definition
type Function struct {
	Name       string
	Params     []*Param
	ReturnType string // empty when the function returns nothing
	Visibility string // public, private, internal, external or empty
	Mutability string // view, pure, payable or empty
	Body       []Statement
	Line       int
	Column     int
}

func (f *Function) Pos() (int, int) { return f.Line, f.Column }

// Constructor represents the optional contract constructor
type Constructor struct {
	Params     []*Param
	Visibility string
	Body       []Statement
	Line       int
	Column     int
}

func (c *Constructor) Pos() (int, int) { return c.Line, c.Column }

// Param represents a function or constructor parameter
type Param struct {
	Name   string
	Type   string
	Line   int
	Column int
}

func (p *Param) Pos() (int, int) { return p.Line, p.Column }

// StateVariable represents a contract storage declaration.
// When IsMapping is set, KeyType and ValueType are populated and Type holds
// the canonical "mapping(K => V)" text. Nested describes the value side when
// the value is itself a mapping.
type StateVariable struct {
	Name         string
	Type         string
	Visibility   string
	IsConstant   bool
	InitialValue Expression // nil when absent

	IsMapping bool
	KeyType   string
	ValueType string
	Nested    *MappingType

	Line   int
	Column int
}

func (s *StateVariable) Pos() (int, int) { return s.Line, s.Column }

// MappingDepth returns the number of mapping levels (0 for scalars).
func (s *StateVariable) MappingDepth() int {
	if !s.IsMapping {
		return 0
	}
	return 1 + s.Nested.Depth()
}

// MappingType is one level of a mapping declaration.
type MappingType struct {
	KeyType   string
	ValueType string
	Nested    *MappingType
}

// Depth returns the number of levels from m down, 0 for a nil mapping.
func (m *MappingType) Depth() int {
	depth := 0
	for cur := m; cur != nil; cur = cur.Nested {
		depth++
	}
	return depth
}

// Innermost returns the deepest level of the chain.
func (m *MappingType) Innermost() *MappingType {
	cur := m
	for cur != nil && cur.Nested != nil {
		cur = cur.Nested
	}
	return cur
}

func (m *MappingType) String() string {
	return fmt.Sprintf("mapping(%s => %s)", m.KeyType, m.ValueType)
}

// Event represents an event definition
type Event struct {
	Name   string
	Params []*EventParameter
	Line   int
	Column int
}

func (e *Event) Pos() (int, int) { return e.Line, e.Column }

// EventParameter represents one event field
type EventParameter struct {
	Name    string
	Type    string
	Indexed bool
	Line    int
	Column  int
}

func (p *EventParameter) Pos() (int, int) { return p.Line, p.Column }

// --- Statements ---

// ExprStmt is an expression evaluated for effect
type ExprStmt struct {
	Expr   Expression
	Line   int
	Column int
}

func (s *ExprStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *ExprStmt) stmtNode()        {}

// ReturnStmt represents return <expr>;
type ReturnStmt struct {
	Value  Expression
	Line   int
	Column int
}

func (s *ReturnStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *ReturnStmt) stmtNode()        {}

// AssignStmt represents <identifier> = <expr>;
type AssignStmt struct {
	Name   string
	Value  Expression
	Line   int
	Column int
}

func (s *AssignStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *AssignStmt) stmtNode()        {}

// MapAssignStmt represents <map>[<key>] = <expr>;
type MapAssignStmt struct {
	Map    string
	Key    Expression
	Value  Expression
	Line   int
	Column int
}

func (s *MapAssignStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *MapAssignStmt) stmtNode()        {}

// EmitStmt represents emit <Event>(<args>);
type EmitStmt struct {
	Event  string
	Args   []Expression
	Line   int
	Column int
}

func (s *EmitStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *EmitStmt) stmtNode()        {}

// --- Expressions ---

// Literal holds the raw lexeme of a number, string or boolean literal
type Literal struct {
	Value  string
	Line   int
	Column int
}

func (e *Literal) Pos() (int, int) { return e.Line, e.Column }
func (e *Literal) exprNode()        {}
func (e *Literal) String() string   { return e.Value }

// Identifier is a bare name reference
type Identifier struct {
	Name   string
	Line   int
	Column int
}

func (e *Identifier) Pos() (int, int) { return e.Line, e.Column }
func (e *Identifier) exprNode()        {}
func (e *Identifier) String() string   { return e.Name }

// CommaOp is the synthetic operator joining the keys of a multi-level
// map access such as allowed[a][b].
const CommaOp = ","

// BinaryExpr represents <left> <op> <right>
type BinaryExpr struct {
	Left   Expression
	Op     string
	Right  Expression
	Line   int
	Column int
}

func (e *BinaryExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *BinaryExpr) exprNode()        {}
func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// MapAccessExpr represents <map>[<key>]
type MapAccessExpr struct {
	Map    string
	Key    Expression
	Line   int
	Column int
}

func (e *MapAccessExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *MapAccessExpr) exprNode()        {}
func (e *MapAccessExpr) String() string   { return fmt.Sprintf("%s[%s]", e.Map, e.Key) }

// MemberAccessExpr represents <object>.<member>
type MemberAccessExpr struct {
	Object Expression
	Member string
	Line   int
	Column int
}

func (e *MemberAccessExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *MemberAccessExpr) exprNode()        {}
func (e *MemberAccessExpr) String() string   { return e.Object.String() + "." + e.Member }

// CallExpr represents <function>(<args>)
type CallExpr struct {
	Function string
	Args     []Expression
	Line     int
	Column   int
}

func (e *CallExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *CallExpr) exprNode()        {}
func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Function + "(" + strings.Join(args, ", ") + ")"
}
