package toml

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser reads the configuration subset of TOML into a map[string]any:
// [section] and [dotted.section] headers, key = value pairs with bare or quoted keys,
// and string, integer, float, bool or array values. Inline tables and [[arrays]] are rejected
type Parser struct {
	lexer   *Lexer
	tok     Token
	next    Token
	root    map[string]any
	section map[string]any
	name    string
}

func NewParser(input []byte) *Parser {
	p := &Parser{lexer: NewLexer(input), root: make(map[string]any)}
	p.section = p.root
	p.advance()
	p.advance()
	return p
}

// ParseError reports the line a parse failure was found on
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("toml: line %d: %s", e.Line, e.Msg)
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.tok.Line, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) advance() {
	p.tok = p.next
	p.next = p.lexer.NextToken()
	for p.next.Type == TokenComment {
		p.next = p.lexer.NextToken()
	}
}

func (p *Parser) Parse() (map[string]any, error) {
	for p.tok.Type != TokenEOF {
		var err error
		switch p.tok.Type {
		case TokenNewline:
			p.advance()
			continue
		case TokenLBracket:
			err = p.header()
		case TokenIdent, TokenString:
			err = p.pair()
		case TokenError:
			err = p.errorf("%s", p.tok.Literal)
		default:
			err = p.errorf("unexpected %s", p.tok)
		}
		if err != nil {
			return nil, err
		}
		if err := p.endOfLine(); err != nil {
			return nil, err
		}
	}
	return p.root, nil
}

func (p *Parser) endOfLine() error {
	switch p.tok.Type {
	case TokenNewline:
		p.advance()
		return nil
	case TokenEOF:
		return nil
	}
	return p.errorf("expected end of line, got %s", p.tok)
}

// header opens [a] or [a.b]; later pairs land in that section
func (p *Parser) header() error {
	if p.next.Type == TokenLBracket {
		return p.errorf("arrays of tables are not supported")
	}
	p.advance()

	section := p.root
	var path []string
	for {
		if p.tok.Type != TokenIdent && p.tok.Type != TokenString {
			return p.errorf("expected section name, got %s", p.tok)
		}
		key := p.tok.Literal
		path = append(path, key)
		switch existing := section[key].(type) {
		case nil:
			child := make(map[string]any)
			section[key] = child
			section = child
		case map[string]any:
			section = existing
		default:
			return p.errorf("%s is already a value", strings.Join(path, "."))
		}
		p.advance()
		if p.tok.Type != TokenDot {
			break
		}
		p.advance()
	}

	if p.tok.Type != TokenRBracket {
		return p.errorf("expected ] after section name")
	}
	p.advance()
	p.section = section
	p.name = strings.Join(path, ".")
	return nil
}

func (p *Parser) pair() error {
	key := p.tok.Literal
	p.advance()
	if p.tok.Type == TokenDot {
		return p.errorf("dotted keys are not supported, use a [section]")
	}
	if p.tok.Type != TokenEqual {
		return p.errorf("expected = after %q, got %s", key, p.tok)
	}
	p.advance()

	if _, exists := p.section[key]; exists {
		return p.errorf("duplicate key %s", join(p.name, key))
	}
	val, err := p.value()
	if err != nil {
		return err
	}
	p.section[key] = val
	return nil
}

func (p *Parser) value() (any, error) {
	tok := p.tok
	switch tok.Type {
	case TokenString:
		p.advance()
		return tok.Literal, nil
	case TokenInteger:
		n, err := parseInteger(tok.Literal)
		if err != nil {
			return nil, p.errorf("invalid integer %q: %v", tok.Literal, err)
		}
		p.advance()
		return int(n), nil
	case TokenFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.Literal, "_", ""), 64)
		if err != nil {
			return nil, p.errorf("invalid float %q", tok.Literal)
		}
		p.advance()
		return f, nil
	case TokenBool:
		p.advance()
		return tok.Literal == "true", nil
	case TokenLBracket:
		return p.array()
	case TokenLBrace:
		return nil, p.errorf("inline tables are not supported")
	case TokenError:
		return nil, p.errorf("%s", tok.Literal)
	}
	return nil, p.errorf("expected a value, got %s", tok)
}

// array reads [v, v, ...]; newlines and a trailing comma are allowed
func (p *Parser) array() ([]any, error) {
	p.advance()
	out := make([]any, 0)
	for {
		for p.tok.Type == TokenNewline {
			p.advance()
		}
		if p.tok.Type == TokenRBracket {
			p.advance()
			return out, nil
		}

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)

		for p.tok.Type == TokenNewline {
			p.advance()
		}
		switch p.tok.Type {
		case TokenComma:
			p.advance()
		case TokenRBracket:
		default:
			return nil, p.errorf("expected , or ] in array, got %s", p.tok)
		}
	}
}

// parseInteger accepts decimal, 0x/0o/0b prefixed and '_' separated integers
func parseInteger(lit string) (int64, error) {
	lit = strings.ReplaceAll(lit, "_", "")
	digits := strings.TrimLeft(lit, "+-")
	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			return strconv.ParseInt(lit, 0, 64)
		}
		return 0, fmt.Errorf("leading zeros are not allowed")
	}
	return strconv.ParseInt(lit, 10, 64)
}
