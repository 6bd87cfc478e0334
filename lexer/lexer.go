package lexer

import "github.com/podhmo/monkey/token"

// Lexer turns source text into tokens on demand.
// It keeps a read cursor and a one-character lookahead over the input.
type Lexer struct {
	input        string
	position     int  // current position in input (points to ch)
	readPosition int  // current reading position in input (after ch)
	ch           byte // current char under examination, 0 at end of input
}

// New creates a lexer positioned at the first character of input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Peek returns the token NextToken would return, without consuming it.
func (l *Lexer) Peek() token.Token {
	clone := *l
	return clone.NextToken()
}

// NextToken returns the next token. After the end of input it keeps
// returning an EOF token.
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespaceAndComments()

	switch l.ch {
	case '=':
		tok = l.twoCharToken('=', token.EQ, token.ASSIGN)
	case '!':
		tok = l.twoCharToken('=', token.NOT_EQ, token.BANG)
	case '<':
		tok = l.twoCharToken('=', token.LTE, token.LT)
	case '>':
		tok = l.twoCharToken('=', token.GTE, token.GT)
	case '&':
		tok = l.twoCharToken('&', token.AND, token.ILLEGAL)
	case '|':
		tok = l.twoCharToken('|', token.OR, token.ILLEGAL)
	case '+':
		tok = token.New(token.PLUS, l.ch)
	case '-':
		tok = token.New(token.MINUS, l.ch)
	case '*':
		tok = token.New(token.ASTERISK, l.ch)
	case '/':
		tok = token.New(token.SLASH, l.ch)
	case '%':
		tok = token.New(token.MODULUS, l.ch)
	case ',':
		tok = token.New(token.COMMA, l.ch)
	case ';':
		tok = token.New(token.SEMICOLON, l.ch)
	case ':':
		tok = token.New(token.COLON, l.ch)
	case '.':
		tok = token.New(token.DOT, l.ch)
	case '(':
		tok = token.New(token.LPAREN, l.ch)
	case ')':
		tok = token.New(token.RPAREN, l.ch)
	case '{':
		tok = token.New(token.LBRACE, l.ch)
	case '}':
		tok = token.New(token.RBRACE, l.ch)
	case '[':
		tok = token.New(token.LBRACKET, l.ch)
	case ']':
		tok = token.New(token.RBRACKET, l.ch)
	case '"':
		tok.Type = token.STRING
		tok.Literal = l.readString()
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
		return tok
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readWhile(isLetter)
			tok.Type = token.LookupIdent(tok.Literal)
			return tok
		}
		if isDigit(l.ch) {
			tok.Type = token.INT
			tok.Literal = l.readWhile(isDigit)
			return tok
		}
		tok = token.New(token.ILLEGAL, l.ch)
	}

	l.readChar()
	return tok
}

// twoCharToken builds a two-character token when the next character is
// second, and falls back to the single-character token otherwise.
func (l *Lexer) twoCharToken(second byte, double, single token.TokenType) token.Token {
	if l.peekChar() == second {
		ch := l.ch
		l.readChar()
		return token.Token{Type: double, Literal: string(ch) + string(l.ch)}
	}
	return token.New(single, l.ch)
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\n', '\r':
			l.readChar()
		case '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readWhile(pred func(byte) bool) string {
	position := l.position
	for pred(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readString consumes up to the closing quote. An unterminated string runs
// to the end of input.
func (l *Lexer) readString() string {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '"' || l.ch == 0 {
			break
		}
	}
	return l.input[position:l.position]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
