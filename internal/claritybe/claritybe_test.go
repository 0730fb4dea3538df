package claritybe

import (
	"strings"
	"testing"

	"github.com/lhaig/sol2clarity/internal/ir"
	"github.com/stretchr/testify/assert"
)

func varGet(name string) ir.Expr {
	return &ir.Call{Function: "var-get", Args: []ir.Expr{&ir.Var{Name: name}}}
}

func tokenContract() *ir.Contract {
	return &ir.Contract{
		Name: "Token",
		DataVars: []*ir.DataVar{
			{Name: "LIMIT", Type: "uint", InitialValue: "u100", IsConstant: true},
			{Name: "total", Type: "uint", InitialValue: "u0", Visibility: "public"},
			{Name: "paused", Type: "bool", InitialValue: "false", Visibility: "private"},
		},
		Maps: []*ir.Map{{Name: "balances", KeyType: "principal", ValueType: "uint"}},
		Events: []*ir.Event{{Name: "Transfer", Fields: []*ir.EventField{
			{Name: "from", Type: "principal", Indexed: true},
			{Name: "amount", Type: "uint"},
		}}},
		Functions: []*ir.Function{
			{
				Name:   "mint",
				Params: []*ir.Param{{Name: "to", Type: "principal"}, {Name: "amount", Type: "uint"}},
				Public: true,
				Body: []ir.Expr{
					&ir.MapSet{Map: "balances", Key: varGet("to"), Value: varGet("amount")},
					&ir.Call{Function: "var-set", Args: []ir.Expr{
						&ir.Var{Name: "total"},
						&ir.Call{Function: "+", Args: []ir.Expr{varGet("total"), varGet("amount")}},
					}},
				},
			},
			{
				Name:     "current",
				ReadOnly: true,
				Body:     []ir.Expr{varGet("total")},
			},
		},
	}
}

func TestGenerateFullContract(t *testing.T) {
	expected := `;; Contract: Token
;; Auto-generated Clarity contract from Solidity source

;; @desc Constant value for LIMIT
(define-constant LIMIT u100)

;; @desc Map storing balances values
(define-map balances principal uint)
;; @desc Getter for map balances
(define-read-only (get-balances (key principal))
  (ok (map-get? balances key)))

;; @desc Stores the total value
;; @access public
(define-data-var total uint u0)
;; @desc Getter for public variable total
(define-read-only (get-total)
  (ok (var-get total)))

;; @desc Stores the paused value
(define-data-var paused bool false)

;; @desc Event: Transfer
;; @fields (indexed) from: principal, amount: uint

;; Function: mint
(define-public (mint (to principal) (amount uint))
  (begin
    (map-set balances (var-get to) (var-get amount))
    (ok (var-set total (+ (var-get total) (var-get amount))))))

;; Function: current
;; @access read-only
(define-private (current)
  (ok (var-get total)))

`
	assert.Equal(t, expected, Generate(tokenContract()))
}

func TestGenerateEmptyContract(t *testing.T) {
	expected := ";; Contract: Empty\n" +
		";; Auto-generated Clarity contract from Solidity source\n" +
		"\n\n\n"
	assert.Equal(t, expected, Generate(&ir.Contract{Name: "Empty"}))
}

func TestGenerateFunctionBodies(t *testing.T) {
	tests := []struct {
		name     string
		fn       *ir.Function
		expected string
	}{
		{
			name:     "empty private",
			fn:       &ir.Function{Name: "noop"},
			expected: ";; Function: noop\n(define-private (noop)\n  (ok true))\n",
		},
		{
			name: "single statement",
			fn: &ir.Function{Name: "f", Public: true, Params: []*ir.Param{{Name: "x", Type: "uint"}},
				Body: []ir.Expr{&ir.Literal{Value: "u1"}}},
			expected: ";; Function: f\n(define-public (f (x uint))\n  (ok u1))\n",
		},
		{
			name: "three statements",
			fn: &ir.Function{Name: "g", Body: []ir.Expr{
				&ir.Literal{Value: "u1"},
				&ir.Literal{Value: "u2"},
				&ir.Literal{Value: "u3"},
			}},
			expected: ";; Function: g\n(define-private (g)\n  (begin\n    u1\n    u2\n    (ok u3)))\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Generate(&ir.Contract{Name: "T", Functions: []*ir.Function{tt.fn}})
			assert.Contains(t, out, tt.expected)
		})
	}
}

func TestGenerateKebabMapNames(t *testing.T) {
	out := Generate(&ir.Contract{
		Name: "Nft",
		Maps: []*ir.Map{{Name: "tokenApprovals", KeyType: "{owner: principal, token-id: uint}", ValueType: "bool"}},
	})
	assert.Contains(t, out, ";; @desc Map storing tokenApprovals values\n")
	assert.Contains(t, out, "(define-map token-approvals {owner: principal, token-id: uint} bool)\n")
	assert.Contains(t, out, "(define-read-only (get-token-approvals (key {owner: principal, token-id: uint}))\n")
	assert.Contains(t, out, "  (ok (map-get? token-approvals key)))\n")
}

func TestConstantsNeverBecomeDataVars(t *testing.T) {
	out := Generate(&ir.Contract{
		Name: "C",
		DataVars: []*ir.DataVar{
			{Name: "LIMIT", Type: "uint", InitialValue: "u100", IsConstant: true, Visibility: "public"},
		},
	})
	assert.Contains(t, out, "(define-constant LIMIT u100)")
	assert.NotContains(t, out, "define-data-var")
	assert.NotContains(t, out, "get-LIMIT")
}

func TestGenerateEventWithoutFields(t *testing.T) {
	out := Generate(&ir.Contract{Name: "E", Events: []*ir.Event{{Name: "Ping"}}})
	assert.Contains(t, out, ";; @desc Event: Ping\n;; @fields\n\n")
}

func TestGenerateEventSingleField(t *testing.T) {
	out := Generate(&ir.Contract{Name: "E", Events: []*ir.Event{{
		Name:   "Paused",
		Fields: []*ir.EventField{{Name: "by", Type: "principal", Indexed: true}},
	}}})
	expected := ";; Contract: E\n" +
		";; Auto-generated Clarity contract from Solidity source\n" +
		"\n\n\n" +
		";; @desc Event: Paused\n" +
		";; @fields (indexed) by: principal\n" +
		"\n"
	assert.Equal(t, expected, out)
}

func TestExpr(t *testing.T) {
	tests := []struct {
		name     string
		expr     ir.Expr
		expected string
	}{
		{"literal", &ir.Literal{Value: "u5"}, "u5"},
		{"var", &ir.Var{Name: "tx-sender"}, "tx-sender"},
		{"call", &ir.Call{Function: "-", Args: []ir.Expr{varGet("a"), &ir.Literal{Value: "u1"}}}, "(- (var-get a) u1)"},
		{"call without args", &ir.Call{Function: "now"}, "(now)"},
		{"map get", &ir.MapGet{Map: "m", Key: &ir.Var{Name: "k"}}, "(map-get? m k)"},
		{"map set tuple key", &ir.MapSet{
			Map:   "allowed",
			Key:   &ir.Call{Function: "tuple", Args: []ir.Expr{&ir.Var{Name: "tx-sender"}, varGet("to")}},
			Value: &ir.Literal{Value: "true"},
		}, "(map-set allowed (tuple tx-sender (var-get to)) true)"},
		{"print", &ir.Print{Args: []ir.Expr{&ir.Literal{Value: `"Transfer"`}, &ir.Var{Name: "tx-sender"}}}, `(print "Transfer" tx-sender)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Expr(tt.expr))
		})
	}
}

func TestSectionOrder(t *testing.T) {
	out := Generate(tokenContract())
	order := []string{
		";; Contract: Token",
		"(define-constant",
		"(define-map",
		"(define-data-var total",
		";; @desc Event: Transfer",
		";; Function: mint",
		";; Function: current",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		assert.Greater(t, idx, last, "%q out of order", marker)
		last = idx
	}
}
