package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	tokens, err := Tokenize(input)
	require.NoError(t, err)
	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	return types
}

func TestNextToken_Operators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "arithmetic operators",
			input:    "+ - * / %",
			expected: []TokenType{PLUS, MINUS, STAR, SLASH, PERCENT, EOF},
		},
		{
			name:     "comparison operators",
			input:    "== != < > <= >=",
			expected: []TokenType{EQ, NEQ, LT, GT, LEQ, GEQ, EOF},
		},
		{
			name:     "logical operators",
			input:    "&& ||",
			expected: []TokenType{AND, OR, EOF},
		},
		{
			name:     "assignment and arrow",
			input:    "= =>",
			expected: []TokenType{ASSIGN, ARROW, EOF},
		},
		{
			name:     "no spaces",
			input:    "a<=b=>c",
			expected: []TokenType{IDENT, LEQ, IDENT, ARROW, IDENT, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenTypes(t, tt.input))
		})
	}
}

func TestNextToken_CompoundAssignment(t *testing.T) {
	assert.Equal(t,
		[]TokenType{ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, DIV_ASSIGN, MOD_ASSIGN, EOF},
		tokenTypes(t, "+= -= *= /= %="))

	op, ok := SUB_ASSIGN.CompoundOperator()
	assert.True(t, ok)
	assert.Equal(t, "-", op)
	_, ok = ASSIGN.CompoundOperator()
	assert.False(t, ok)
}

func TestNextToken_PragmaDirective(t *testing.T) {
	tokens, err := Tokenize("pragma solidity ^0.8.0;\ncontract A {}")
	require.NoError(t, err)
	require.Equal(t, PRAGMA, tokens[0].Type)
	assert.Equal(t, "pragma solidity ^0.8.0;", tokens[0].Literal)
	assert.Equal(t, CONTRACT, tokens[1].Type)

	// an identifier that merely starts with "pragma" is not a directive
	assert.Equal(t, []TokenType{IDENT, SEMICOLON, EOF}, tokenTypes(t, "pragmatic;"))
}

func TestNextToken_Delimiters(t *testing.T) {
	expected := []TokenType{
		LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET,
		COMMA, SEMICOLON, DOT, EOF,
	}
	assert.Equal(t, expected, tokenTypes(t, "( ) { } [ ] , ; ."))
}

func TestNextToken_Keywords(t *testing.T) {
	tests := []struct {
		keyword  string
		expected TokenType
	}{
		{"import", IMPORT},
		{"contract", CONTRACT},
		{"is", IS},
		{"function", FUNCTION},
		{"constructor", CONSTRUCTOR},
		{"event", EVENT},
		{"emit", EMIT},
		{"return", RETURN},
		{"returns", RETURNS},
		{"mapping", MAPPING},
		{"indexed", INDEXED},
		{"constant", CONSTANT},
		{"public", PUBLIC},
		{"private", PRIVATE},
		{"internal", INTERNAL},
		{"external", EXTERNAL},
		{"view", VIEW},
		{"pure", PURE},
		{"payable", PAYABLE},
		{"true", TRUE},
		{"false", FALSE},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			tokens, err := Tokenize(tt.keyword)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tokens[0].Type)
			assert.Equal(t, tt.keyword, tokens[0].Literal)
		})
	}
}

func TestNextToken_TypeNamesAreIdentifiers(t *testing.T) {
	for _, name := range []string{"uint256", "uint", "bool", "address", "string", "bytes32", "msg"} {
		t.Run(name, func(t *testing.T) {
			tokens, err := Tokenize(name)
			require.NoError(t, err)
			assert.Equal(t, IDENT, tokens[0].Type)
		})
	}
}

func TestNextToken_Literals(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
		literal  string
	}{
		{"100", INT_LIT, "100"},
		{"0x2A", INT_LIT, "0x2A"},
		{`"hello"`, STRING_LIT, `"hello"`},
		{`'single'`, STRING_LIT, `'single'`},
		{`"esc \" quote"`, STRING_LIT, `"esc \" quote"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.expected, tokens[0].Type)
			assert.Equal(t, tt.literal, tokens[0].Literal)
		})
	}
}

func TestNextToken_LineAndColumnTracking(t *testing.T) {
	input := "contract A {\n  uint256 x;\n}"
	tokens, err := Tokenize(input)
	require.NoError(t, err)

	expected := []struct {
		typ  TokenType
		line int
		col  int
	}{
		{CONTRACT, 1, 1},
		{IDENT, 1, 10},
		{LBRACE, 1, 12},
		{IDENT, 2, 3},
		{IDENT, 2, 11},
		{SEMICOLON, 2, 12},
		{RBRACE, 3, 1},
	}
	for i, exp := range expected {
		assert.Equal(t, exp.typ, tokens[i].Type, "token[%d] type", i)
		assert.Equal(t, exp.line, tokens[i].Line, "token[%d] line", i)
		assert.Equal(t, exp.col, tokens[i].Column, "token[%d] column", i)
	}
}

func TestNextToken_Comments(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"single line", "a // comment\nb"},
		{"multi line", "a /* one\ntwo */ b"},
		{"license header", "// SPDX-License-Identifier: MIT\na b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []TokenType{IDENT, IDENT, EOF}, tokenTypes(t, tt.input))
		})
	}
}

func TestNextToken_UnterminatedBlockCommentRunsToEOF(t *testing.T) {
	assert.Equal(t, []TokenType{IDENT, EOF}, tokenTypes(t, "a /* never closed"))
}

func TestNextToken_IllegalCharacter(t *testing.T) {
	_, err := Tokenize("uint256 x = 1 # 2;")
	require.Error(t, err)

	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 1, lexErr.Line)
	assert.Equal(t, 15, lexErr.Column)
}

func TestNextToken_UnterminatedString(t *testing.T) {
	_, err := Tokenize(`string s = "abc;`)
	assert.Error(t, err)
}

func TestTokenize_MiniContract(t *testing.T) {
	input := `contract Counter {
    uint256 public count;
    function increment() public {
        count = count + 1;
    }
}`
	expected := []TokenType{
		CONTRACT, IDENT, LBRACE,
		IDENT, PUBLIC, IDENT, SEMICOLON,
		FUNCTION, IDENT, LPAREN, RPAREN, PUBLIC, LBRACE,
		IDENT, ASSIGN, IDENT, PLUS, INT_LIT, SEMICOLON,
		RBRACE,
		RBRACE,
		EOF,
	}
	assert.Equal(t, expected, tokenTypes(t, input))
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "CONTRACT", CONTRACT.String())
	assert.Equal(t, "ARROW", ARROW.String())
	assert.Equal(t, "TokenType(999)", TokenType(999).String())
}

func TestTokenType_Classes(t *testing.T) {
	assert.True(t, EXTERNAL.IsVisibility())
	assert.False(t, VIEW.IsVisibility())
	assert.True(t, PURE.IsMutability())
	assert.True(t, OR.IsBinaryOperator())
	assert.False(t, ASSIGN.IsBinaryOperator())
}

func TestNextTokenRepeatsEOF(t *testing.T) {
	l := New("x")
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, IDENT, tok.Type)

	for i := 0; i < 3; i++ {
		tok, err = l.NextToken()
		require.NoError(t, err)
		assert.Equal(t, EOF, tok.Type)
	}
}
