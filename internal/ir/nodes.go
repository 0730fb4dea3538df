package ir

// Contract is one lowered contract, ready for rendering.
type Contract struct {
	Name      string
	Functions []*Function // the lowered constructor, if any, comes first as "init"
	DataVars  []*DataVar
	Maps      []*Map
	Events    []*Event
}

// Function represents a public or private target function.
type Function struct {
	Name     string
	Params   []*Param
	Public   bool
	ReadOnly bool
	Body     []Expr
}

// Param represents a function parameter with its target type.
type Param struct {
	Name string
	Type string
}

// DataVar is a data variable or, when IsConstant is set, a constant.
// InitialValue is already rendered as target literal text.
type DataVar struct {
	Name         string
	Type         string
	InitialValue string
	IsConstant   bool
	Visibility   string
}

// Map is a single-level map. Nested source mappings arrive here with a
// composite key type.
type Map struct {
	Name      string
	KeyType   string
	ValueType string
}

// Event is carried as documentation only.
type Event struct {
	Name   string
	Fields []*EventField
}

// EventField represents one event field.
type EventField struct {
	Name    string
	Type    string
	Indexed bool
}

// Expr is the closed set of target expressions.
type Expr interface {
	exprNode()
}

// Literal is target literal text such as u1, true or "abc".
type Literal struct {
	Value string
}

// Var is a bare name: a variable, parameter or built-in keyword.
type Var struct {
	Name string
}

// Call is a prefix call (fn arg...).
type Call struct {
	Function string
	Args     []Expr
}

// MapGet reads one map entry.
type MapGet struct {
	Map string
	Key Expr
}

// MapSet writes one map entry.
type MapSet struct {
	Map   string
	Key   Expr
	Value Expr
}

// Print emits an event payload; Args[0] is the quoted event name.
type Print struct {
	Args []Expr
}

func (*Literal) exprNode() {}
func (*Var) exprNode()     {}
func (*Call) exprNode()    {}
func (*MapGet) exprNode()  {}
func (*MapSet) exprNode()  {}
func (*Print) exprNode()   {}
