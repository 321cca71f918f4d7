package template

import (
	"strconv"
	"strings"
)

// TokenType defines the type of a template token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLiteral
	TokenPlaceholder
	TokenGroup
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLiteral:
		return "Literal"
	case TokenPlaceholder:
		return "Placeholder"
	case TokenGroup:
		return "Group"
	default:
		return "Unknown"
	}
}

// Token represents a lexical token of a template.
type Token struct {
	Type  TokenType
	Value string // literal text, or the separator of a group
	Pos   int    // byte offset in the template source
	Count int    // exact item count of a group, AnyCount if unspecified

	// Inner holds the tokens of an explicit inner template, terminated by
	// TokenEOF. It is nil for groups using the default "{}".
	Inner      []Token
	InnerStart int
	InnerEnd   int
}

// Lex performs lexical analysis on a template and returns its tokens,
// terminated by TokenEOF.
func Lex(input string) ([]Token, error) {
	l := &lexer{input: input}
	tokens, _, err := l.lexTemplate(false)
	return tokens, err
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) errorf(kind error, offset int) error {
	return &TemplateError{Err: kind, Offset: offset, Template: l.input}
}

// peek returns the byte n positions after the current one, or 0 past the end.
func (l *lexer) peek(n int) byte {
	if l.pos+n < len(l.input) {
		return l.input[l.pos+n]
	}
	return 0
}

// lexTemplate scans literal text and markers up to the end of input, or,
// when nested, up to the ']' closing an inner template. closed reports
// whether that ']' was found.
func (l *lexer) lexTemplate(nested bool) (tokens []Token, closed bool, err error) {
	var literal strings.Builder
	literalPos := l.pos

	flushLiteral := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, Token{
				Type:  TokenLiteral,
				Value: literal.String(),
				Pos:   literalPos,
			})
			literal.Reset()
		}
	}
	writeLiteral := func(c byte, width int) {
		if literal.Len() == 0 {
			literalPos = l.pos
		}
		literal.WriteByte(c)
		l.pos += width
	}

	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '{' && l.peek(1) == '{':
			writeLiteral('{', 2)
		case c == '}' && l.peek(1) == '}':
			writeLiteral('}', 2)
		case c == '{':
			flushLiteral()
			tok, err := l.lexMarker()
			if err != nil {
				return nil, false, err
			}
			tokens = append(tokens, tok)
		case c == '}':
			return nil, false, l.errorf(ErrUnbalancedBrace, l.pos)
		case nested && c == ']' && l.peek(1) == ']':
			writeLiteral(']', 2)
		case nested && c == ']':
			flushLiteral()
			tokens = append(tokens, Token{Type: TokenEOF, Pos: l.pos})
			l.pos++
			return tokens, true, nil
		default:
			writeLiteral(c, 1)
		}
	}

	flushLiteral()
	tokens = append(tokens, Token{Type: TokenEOF, Pos: l.pos})
	return tokens, false, nil
}

// lexMarker scans a marker starting at '{': "{}", "{:sep:n}" or "{[inner]:sep:n}".
func (l *lexer) lexMarker() (Token, error) {
	start := l.pos
	l.pos++

	switch l.peek(0) {
	case '}':
		l.pos++
		return Token{Type: TokenPlaceholder, Pos: start}, nil

	case ':':
		return l.lexGroupTail(start)

	case '[':
		l.pos++
		innerStart := l.pos
		inner, closed, err := l.lexTemplate(true)
		if err != nil {
			return Token{}, err
		}
		if !closed {
			return Token{}, l.errorf(ErrUnbalancedBrace, start)
		}
		innerEnd := l.pos - 1
		if l.peek(0) != ':' {
			return Token{}, l.badMarker(start)
		}
		tok, err := l.lexGroupTail(start)
		if err != nil {
			return Token{}, err
		}
		tok.Inner = inner
		tok.InnerStart = innerStart
		tok.InnerEnd = innerEnd
		return tok, nil

	default:
		return Token{}, l.badMarker(start)
	}
}

// lexGroupTail scans ":sep:n}" of a group marker, the current byte being
// the first ':'.
func (l *lexer) lexGroupTail(start int) (Token, error) {
	l.pos++

	var sep strings.Builder
separator:
	for {
		if l.pos >= len(l.input) {
			return Token{}, l.errorf(ErrUnbalancedBrace, start)
		}
		c := l.input[l.pos]
		switch {
		case c == '\\' && (l.peek(1) == ':' || l.peek(1) == '\\'):
			sep.WriteByte(l.peek(1))
			l.pos += 2
		case (c == '{' || c == '}') && l.peek(1) == c:
			sep.WriteByte(c)
			l.pos += 2
		case c == '{' || c == '}':
			return Token{}, l.errorf(ErrInvalidMarker, l.pos)
		case c == ':':
			l.pos++
			break separator
		default:
			sep.WriteByte(c)
			l.pos++
		}
	}

	countPos := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return Token{}, l.errorf(ErrUnbalancedBrace, start)
	}
	if l.input[l.pos] != '}' {
		return Token{}, l.errorf(ErrInvalidMarker, l.pos)
	}

	count := AnyCount
	if l.pos > countPos {
		n, err := strconv.Atoi(l.input[countPos:l.pos])
		if err != nil {
			return Token{}, l.errorf(ErrInvalidMarker, countPos)
		}
		count = n
	}
	l.pos++

	return Token{
		Type:  TokenGroup,
		Value: sep.String(),
		Pos:   start,
		Count: count,
	}, nil
}

// badMarker reports a malformed marker: unbalanced if no '}' follows at
// all, invalid otherwise.
func (l *lexer) badMarker(start int) error {
	if strings.IndexByte(l.input[l.pos:], '}') < 0 {
		return l.errorf(ErrUnbalancedBrace, start)
	}
	return l.errorf(ErrInvalidMarker, l.pos)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
