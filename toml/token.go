package toml

import (
	"fmt"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenError TokenType = iota
	TokenEOF
	TokenComment

	// Literals
	TokenIdent   // bare key
	TokenString  // "basic" or 'literal'
	TokenInteger // 123, 0x7f, 1_000
	TokenFloat   // 123.45, 1e-3
	TokenBool    // true/false

	// Operators and Delimiters
	TokenEqual    // =
	TokenDot      // .
	TokenComma    // ,
	TokenLBracket // [
	TokenRBracket // ]
	TokenLBrace   // {
	TokenRBrace   // }
	TokenNewline  // \n
)

var tokenNames = [...]string{
	TokenError:    "error",
	TokenEOF:      "eof",
	TokenComment:  "comment",
	TokenIdent:    "ident",
	TokenString:   "string",
	TokenInteger:  "integer",
	TokenFloat:    "float",
	TokenBool:     "bool",
	TokenEqual:    "'='",
	TokenDot:      "'.'",
	TokenComma:    "','",
	TokenLBracket: "'['",
	TokenRBracket: "']'",
	TokenLBrace:   "'{'",
	TokenRBrace:   "'}'",
	TokenNewline:  "newline",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Col     int
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return fmt.Sprintf("Error(%s)", t.Literal)
	case TokenNewline:
		return "Newline"
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%q...", t.Literal[:20])
	}
	return fmt.Sprintf("%q", t.Literal)
}
