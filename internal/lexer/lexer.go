package lexer

import (
	"errors"
	"fmt"

	plexer "github.com/alecthomas/participle/v2/lexer"
)

// Grammar is the lexical grammar of the accepted contract-language subset.
// Rules are tried in order; the first alternative that matches wins, so
// multi-character operators precede their single-character prefixes.
var Grammar = plexer.MustSimple([]plexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)(?:\*/|$)`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Pragma", Pattern: `pragma\b[^;]*;`},
	{Name: "Number", Pattern: `0[xX][0-9a-fA-F]+|[0-9]+`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"|'(?:\\.|[^'\\\n])*'`},
	{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`},
	{Name: "Operator", Pattern: `=>|==|!=|<=|>=|&&|\|\||[-+*/%]=|[-+*/%<>=(){}\[\],;.]`},
})

var symbols = Grammar.Symbols()

// Error reports input that no lexical rule accepts.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Lexer scans contract source code and produces tokens
type Lexer struct {
	lex plexer.Lexer
	err error
}

// New creates a new Lexer instance
func New(input string) *Lexer {
	l := &Lexer{}
	l.lex, l.err = Grammar.LexString("", input)
	return l
}

// NextToken returns the next significant token, skipping comments and whitespace.
// After EOF has been returned, further calls keep returning EOF.
func (l *Lexer) NextToken() (Token, error) {
	if l.err != nil {
		return Token{Type: ILLEGAL}, l.err
	}
	for {
		raw, err := l.lex.Next()
		if err != nil {
			l.err = convertError(err)
			return Token{Type: ILLEGAL}, l.err
		}
		tok := Token{Literal: raw.Value, Line: raw.Pos.Line, Column: raw.Pos.Column}
		switch raw.Type {
		case plexer.EOF:
			tok.Type = EOF
			tok.Literal = ""
			return tok, nil
		case symbols["Comment"], symbols["Whitespace"]:
			continue
		case symbols["Pragma"]:
			tok.Type = PRAGMA
		case symbols["Number"]:
			tok.Type = INT_LIT
		case symbols["String"]:
			tok.Type = STRING_LIT
		case symbols["Ident"]:
			tok.Type = LookupIdent(raw.Value)
		case symbols["Operator"]:
			tt, ok := operators[raw.Value]
			if !ok {
				tt = ILLEGAL
			}
			tok.Type = tt
		default:
			tok.Type = ILLEGAL
		}
		return tok, nil
	}
}

// Tokenize returns all tokens from the input, ending with EOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Tokenize is shorthand for New(input).Tokenize().
func Tokenize(input string) ([]Token, error) {
	return New(input).Tokenize()
}

func convertError(err error) error {
	lexErr := &Error{Message: err.Error()}
	var positioned interface{ Position() plexer.Position }
	if errors.As(err, &positioned) {
		pos := positioned.Position()
		lexErr.Line, lexErr.Column = pos.Line, pos.Column
	}
	var withMessage interface{ Message() string }
	if errors.As(err, &withMessage) {
		lexErr.Message = withMessage.Message()
	}
	return lexErr
}
