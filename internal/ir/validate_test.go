package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLoweredContract(t *testing.T) {
	c := parseAndLower(t, `
contract Token {
    uint256 constant CAP = 1000;
    mapping(address => mapping(uint256 => bool)) approvals;
    event Approval(address indexed owner, uint256 id);
    constructor() { total = 0; }
    function approve(uint256 id) public {
        approvals[msg.sender][id] = true;
        emit Approval(msg.sender, id);
    }
}`)
	assert.Empty(t, Validate(c))
}

func TestValidateReportsInconsistencies(t *testing.T) {
	c := &Contract{
		DataVars: []*DataVar{{Name: "x", Type: "mapping", InitialValue: ""}},
		Maps: []*Map{
			{Name: "m", KeyType: "int", ValueType: "uint"},
			{Name: "n", KeyType: "uint", ValueType: "{owner: uint, token-id: uint}"},
		},
		Events: []*Event{{Name: "E", Fields: []*EventField{{Name: "f", Type: "address"}}}},
		Functions: []*Function{{
			Name:   "",
			Params: []*Param{{Name: "p", Type: "uint256"}},
			Body: []Expr{
				nil,
				&Call{Function: "", Args: []Expr{&Var{}}},
				&MapGet{Key: &Literal{}},
				&MapSet{Map: "m", Key: &Literal{Value: "u1"}},
				&Print{},
			},
		}},
	}

	errs := Validate(c)
	require.NotEmpty(t, errs)
	expected := []string{
		"contract has empty Name",
		`data var x: unknown type "mapping"`,
		"data var x: empty InitialValue",
		`map m: unknown key type "int"`,
		`map n: value type "{owner: uint, token-id: uint}" is not single-level`,
		`event E field f: unknown type "address"`,
		"function has empty Name",
		`function  param p: unknown type "uint256"`,
		"function  statement 0: nil expression",
		"function  statement 1: Call has empty Function",
		"function  statement 1: Var has empty Name",
		"function  statement 2: MapGet has empty Map",
		"function  statement 2: empty Literal",
		"function  statement 3: nil expression",
		"function  statement 4: Print has no event name",
	}
	assert.Equal(t, expected, errs)
}

func TestValidateAcceptsCompositeKeys(t *testing.T) {
	c := &Contract{
		Name: "T",
		Maps: []*Map{{Name: "m", KeyType: CompositeKeyType(TypePrincipal, TypeUint), ValueType: TypeBool}},
	}
	assert.Empty(t, Validate(c))
}
