package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENT      // balances, msg, uint256
	INT_LIT    // 100, 0x2a
	STRING_LIT // "hello", 'hello'

	// Keywords
	PRAGMA // whole "pragma ...;" directive
	IMPORT
	CONTRACT
	IS
	FUNCTION
	CONSTRUCTOR
	EVENT
	EMIT
	RETURN
	RETURNS
	MAPPING
	INDEXED
	CONSTANT
	PUBLIC
	PRIVATE
	INTERNAL
	EXTERNAL
	VIEW
	PURE
	PAYABLE
	TRUE
	FALSE

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	EQ      // ==
	NEQ     // !=
	LT      // <
	GT      // >
	LEQ     // <=
	GEQ     // >=
	AND     // &&
	OR      // ||
	ASSIGN  // =
	ARROW   // =>

	// Compound assignment
	ADD_ASSIGN // +=
	SUB_ASSIGN // -=
	MUL_ASSIGN // *=
	DIV_ASSIGN // /=
	MOD_ASSIGN // %=

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
	DOT       // .
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

var tokenNames = map[TokenType]string{
	ILLEGAL:     "ILLEGAL",
	EOF:         "EOF",
	IDENT:       "IDENT",
	INT_LIT:     "INT_LIT",
	STRING_LIT:  "STRING_LIT",
	PRAGMA:      "PRAGMA",
	IMPORT:      "IMPORT",
	CONTRACT:    "CONTRACT",
	IS:          "IS",
	FUNCTION:    "FUNCTION",
	CONSTRUCTOR: "CONSTRUCTOR",
	EVENT:       "EVENT",
	EMIT:        "EMIT",
	RETURN:      "RETURN",
	RETURNS:     "RETURNS",
	MAPPING:     "MAPPING",
	INDEXED:     "INDEXED",
	CONSTANT:    "CONSTANT",
	PUBLIC:      "PUBLIC",
	PRIVATE:     "PRIVATE",
	INTERNAL:    "INTERNAL",
	EXTERNAL:    "EXTERNAL",
	VIEW:        "VIEW",
	PURE:        "PURE",
	PAYABLE:     "PAYABLE",
	TRUE:        "TRUE",
	FALSE:       "FALSE",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	STAR:        "STAR",
	SLASH:       "SLASH",
	PERCENT:     "PERCENT",
	EQ:          "EQ",
	NEQ:         "NEQ",
	LT:          "LT",
	GT:          "GT",
	LEQ:         "LEQ",
	GEQ:         "GEQ",
	AND:         "AND",
	OR:          "OR",
	ASSIGN:      "ASSIGN",
	ARROW:       "ARROW",
	ADD_ASSIGN:  "ADD_ASSIGN",
	SUB_ASSIGN:  "SUB_ASSIGN",
	MUL_ASSIGN:  "MUL_ASSIGN",
	DIV_ASSIGN:  "DIV_ASSIGN",
	MOD_ASSIGN:  "MOD_ASSIGN",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	LBRACE:      "LBRACE",
	RBRACE:      "RBRACE",
	LBRACKET:    "LBRACKET",
	RBRACKET:    "RBRACKET",
	COMMA:       "COMMA",
	SEMICOLON:   "SEMICOLON",
	DOT:         "DOT",
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// keywords maps keyword strings to their token types
var keywords = map[string]TokenType{
	"import":      IMPORT,
	"contract":    CONTRACT,
	"is":          IS,
	"function":    FUNCTION,
	"constructor": CONSTRUCTOR,
	"event":       EVENT,
	"emit":        EMIT,
	"return":      RETURN,
	"returns":     RETURNS,
	"mapping":     MAPPING,
	"indexed":     INDEXED,
	"constant":    CONSTANT,
	"public":      PUBLIC,
	"private":     PRIVATE,
	"internal":    INTERNAL,
	"external":    EXTERNAL,
	"view":        VIEW,
	"pure":        PURE,
	"payable":     PAYABLE,
	"true":        TRUE,
	"false":       FALSE,
}

// operators maps operator and delimiter lexemes to their token types
var operators = map[string]TokenType{
	"+":  PLUS,
	"-":  MINUS,
	"*":  STAR,
	"/":  SLASH,
	"%":  PERCENT,
	"==": EQ,
	"!=": NEQ,
	"<":  LT,
	">":  GT,
	"<=": LEQ,
	">=": GEQ,
	"&&": AND,
	"||": OR,
	"=":  ASSIGN,
	"=>": ARROW,
	"+=": ADD_ASSIGN,
	"-=": SUB_ASSIGN,
	"*=": MUL_ASSIGN,
	"/=": DIV_ASSIGN,
	"%=": MOD_ASSIGN,
	"(":  LPAREN,
	")":  RPAREN,
	"{":  LBRACE,
	"}":  RBRACE,
	"[":  LBRACKET,
	"]":  RBRACKET,
	",":  COMMA,
	";":  SEMICOLON,
	".":  DOT,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsVisibility reports whether t is one of the visibility keywords.
func (t TokenType) IsVisibility() bool {
	return t == PUBLIC || t == PRIVATE || t == INTERNAL || t == EXTERNAL
}

// IsMutability reports whether t is one of the state mutability keywords.
func (t TokenType) IsMutability() bool {
	return t == VIEW || t == PURE || t == PAYABLE
}

// CompoundOperator returns the binary operator lexeme a compound
// assignment token stands for, e.g. "+" for +=.
func (t TokenType) CompoundOperator() (string, bool) {
	switch t {
	case ADD_ASSIGN:
		return "+", true
	case SUB_ASSIGN:
		return "-", true
	case MUL_ASSIGN:
		return "*", true
	case DIV_ASSIGN:
		return "/", true
	case MOD_ASSIGN:
		return "%", true
	}
	return "", false
}

// IsBinaryOperator reports whether t may join two terms of an expression.
func (t TokenType) IsBinaryOperator() bool {
	switch t {
	case PLUS, MINUS, STAR, SLASH, PERCENT, EQ, NEQ, LT, GT, LEQ, GEQ, AND, OR:
		return true
	}
	return false
}
