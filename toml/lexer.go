package toml

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Lexer state machine
type Lexer struct {
	input []byte
	pos   int // current position in input (points to current char)
	line  int
	col   int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
	}
}

// NextToken returns the next token in the stream
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return l.newToken(TokenEOF, "")
	}

	ch := l.peek()

	// Newlines terminate key/value statements
	if ch == '\n' {
		l.advance()
		return l.newToken(TokenNewline, "\n")
	}

	if ch == '#' {
		return l.readComment()
	}

	switch ch {
	case '=':
		l.advance()
		return l.newToken(TokenEqual, "=")
	case '.':
		l.advance()
		return l.newToken(TokenDot, ".")
	case ',':
		l.advance()
		return l.newToken(TokenComma, ",")
	case '[':
		l.advance()
		return l.newToken(TokenLBracket, "[")
	case ']':
		l.advance()
		return l.newToken(TokenRBracket, "]")
	case '{':
		l.advance()
		return l.newToken(TokenLBrace, "{")
	case '}':
		l.advance()
		return l.newToken(TokenRBrace, "}")
	case '"':
		return l.readString()
	case '\'':
		return l.readLiteralString()
	}

	if isDigit(ch) || ch == '+' || ch == '-' || isAlpha(ch) || ch == '_' {
		return l.readBareOrNumber()
	}

	l.advance()
	return l.newToken(TokenError, fmt.Sprintf("unexpected character: %c", ch))
}

func (l *Lexer) newToken(typ TokenType, literal string) Token {
	return Token{Type: typ, Literal: literal, Line: l.line, Col: l.col - len(literal)}
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRune(l.input[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
		} else {
			break
		}
	}
}

func (l *Lexer) readComment() Token {
	l.advance() // '#'
	start := l.pos
	for l.pos < len(l.input) && l.peek() != '\n' {
		l.advance()
	}
	return l.newToken(TokenComment, string(l.input[start:l.pos]))
}

// readString reads a basic "..." string with backslash escapes
func (l *Lexer) readString() Token {
	l.advance() // opening quote
	start := l.pos
	escaped := false
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '\n' {
			return l.newToken(TokenError, "unterminated string (newlines not allowed in basic strings)")
		}
		if ch == '"' && !escaped {
			lit := string(l.input[start:l.pos])
			l.advance()
			return l.newToken(TokenString, unescape(lit))
		}
		escaped = ch == '\\' && !escaped
		l.advance()
	}
	return l.newToken(TokenError, "unterminated string")
}

// readLiteralString reads a '...' string, taken verbatim (Windows paths, regexes)
func (l *Lexer) readLiteralString() Token {
	l.advance() // opening quote
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '\n' {
			return l.newToken(TokenError, "unterminated literal string")
		}
		if ch == '\'' {
			lit := string(l.input[start:l.pos])
			l.advance()
			return l.newToken(TokenString, lit)
		}
		l.advance()
	}
	return l.newToken(TokenError, "unterminated literal string")
}

var escapes = strings.NewReplacer(
	`\"`, `"`,
	`\\`, `\`,
	`\n`, "\n",
	`\t`, "\t",
	`\r`, "\r",
)

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return escapes.Replace(s)
}

func (l *Lexer) readBareOrNumber() Token {
	start := l.pos
	first := l.peek()
	numeric := isDigit(first) || first == '+' || first == '-'

	for l.pos < len(l.input) {
		ch := l.peek()
		if isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '-' || ch == '+' {
			l.advance()
		} else if ch == '.' && numeric {
			// '.' only continues a number, in keys it separates parts
			l.advance()
		} else {
			break
		}
	}
	lit := string(l.input[start:l.pos])

	if lit == "true" || lit == "false" {
		return l.newToken(TokenBool, lit)
	}

	// Prefixed integers: 0x, 0o, 0b (optionally signed)
	unsigned := strings.TrimLeft(lit, "+-")
	if len(unsigned) > 2 && unsigned[0] == '0' {
		switch unsigned[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			return l.newToken(TokenInteger, lit)
		}
	}

	if !numeric {
		return l.newToken(TokenIdent, lit)
	}

	// A digit-led token containing letters other than an exponent is a bare key ("3d_mode")
	for _, r := range lit {
		if isAlpha(r) && r != 'e' && r != 'E' {
			return l.newToken(TokenIdent, lit)
		}
	}

	if strings.ContainsAny(lit, ".eE") {
		return l.newToken(TokenFloat, lit)
	}
	return l.newToken(TokenInteger, lit)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
