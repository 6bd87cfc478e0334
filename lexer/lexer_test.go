package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/monkey/token"
)

func collect(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestNextToken(t *testing.T) {
	input := `let five = 5;
let ten = 10;

let add = fn(x, y) {
  x + y;
};

let result = add(five, ten);
!-/*5;
5 < 10 > 5;

if (5 < 10) {
	return true;
} else {
	return false;
}

10 == 10;
10 != 9;
"foobar"
"foo bar"
[1, 2];
{"foo": "bar"}
4 <= 5 >= 5 || 5 && 5 and 5 or 5 % 5;
while (a < 5) { break; continue; }
for (;;) {}
class
p.move
`

	want := []token.Token{
		{Type: token.LET, Literal: "let"},
		{Type: token.IDENT, Literal: "five"},
		{Type: token.ASSIGN, Literal: "="},
		{Type: token.INT, Literal: "5"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.LET, Literal: "let"},
		{Type: token.IDENT, Literal: "ten"},
		{Type: token.ASSIGN, Literal: "="},
		{Type: token.INT, Literal: "10"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.LET, Literal: "let"},
		{Type: token.IDENT, Literal: "add"},
		{Type: token.ASSIGN, Literal: "="},
		{Type: token.FUNCTION, Literal: "fn"},
		{Type: token.LPAREN, Literal: "("},
		{Type: token.IDENT, Literal: "x"},
		{Type: token.COMMA, Literal: ","},
		{Type: token.IDENT, Literal: "y"},
		{Type: token.RPAREN, Literal: ")"},
		{Type: token.LBRACE, Literal: "{"},
		{Type: token.IDENT, Literal: "x"},
		{Type: token.PLUS, Literal: "+"},
		{Type: token.IDENT, Literal: "y"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.RBRACE, Literal: "}"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.LET, Literal: "let"},
		{Type: token.IDENT, Literal: "result"},
		{Type: token.ASSIGN, Literal: "="},
		{Type: token.IDENT, Literal: "add"},
		{Type: token.LPAREN, Literal: "("},
		{Type: token.IDENT, Literal: "five"},
		{Type: token.COMMA, Literal: ","},
		{Type: token.IDENT, Literal: "ten"},
		{Type: token.RPAREN, Literal: ")"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.BANG, Literal: "!"},
		{Type: token.MINUS, Literal: "-"},
		{Type: token.SLASH, Literal: "/"},
		{Type: token.ASTERISK, Literal: "*"},
		{Type: token.INT, Literal: "5"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.INT, Literal: "5"},
		{Type: token.LT, Literal: "<"},
		{Type: token.INT, Literal: "10"},
		{Type: token.GT, Literal: ">"},
		{Type: token.INT, Literal: "5"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.IF, Literal: "if"},
		{Type: token.LPAREN, Literal: "("},
		{Type: token.INT, Literal: "5"},
		{Type: token.LT, Literal: "<"},
		{Type: token.INT, Literal: "10"},
		{Type: token.RPAREN, Literal: ")"},
		{Type: token.LBRACE, Literal: "{"},
		{Type: token.RETURN, Literal: "return"},
		{Type: token.TRUE, Literal: "true"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.RBRACE, Literal: "}"},
		{Type: token.ELSE, Literal: "else"},
		{Type: token.LBRACE, Literal: "{"},
		{Type: token.RETURN, Literal: "return"},
		{Type: token.FALSE, Literal: "false"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.RBRACE, Literal: "}"},
		{Type: token.INT, Literal: "10"},
		{Type: token.EQ, Literal: "=="},
		{Type: token.INT, Literal: "10"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.INT, Literal: "10"},
		{Type: token.NOT_EQ, Literal: "!="},
		{Type: token.INT, Literal: "9"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.STRING, Literal: "foobar"},
		{Type: token.STRING, Literal: "foo bar"},
		{Type: token.LBRACKET, Literal: "["},
		{Type: token.INT, Literal: "1"},
		{Type: token.COMMA, Literal: ","},
		{Type: token.INT, Literal: "2"},
		{Type: token.RBRACKET, Literal: "]"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.LBRACE, Literal: "{"},
		{Type: token.STRING, Literal: "foo"},
		{Type: token.COLON, Literal: ":"},
		{Type: token.STRING, Literal: "bar"},
		{Type: token.RBRACE, Literal: "}"},
		{Type: token.INT, Literal: "4"},
		{Type: token.LTE, Literal: "<="},
		{Type: token.INT, Literal: "5"},
		{Type: token.GTE, Literal: ">="},
		{Type: token.INT, Literal: "5"},
		{Type: token.OR, Literal: "||"},
		{Type: token.INT, Literal: "5"},
		{Type: token.AND, Literal: "&&"},
		{Type: token.INT, Literal: "5"},
		{Type: token.AND, Literal: "and"},
		{Type: token.INT, Literal: "5"},
		{Type: token.OR, Literal: "or"},
		{Type: token.INT, Literal: "5"},
		{Type: token.MODULUS, Literal: "%"},
		{Type: token.INT, Literal: "5"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.WHILE, Literal: "while"},
		{Type: token.LPAREN, Literal: "("},
		{Type: token.IDENT, Literal: "a"},
		{Type: token.LT, Literal: "<"},
		{Type: token.INT, Literal: "5"},
		{Type: token.RPAREN, Literal: ")"},
		{Type: token.LBRACE, Literal: "{"},
		{Type: token.BREAK, Literal: "break"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.CONTINUE, Literal: "continue"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.RBRACE, Literal: "}"},
		{Type: token.FOR, Literal: "for"},
		{Type: token.LPAREN, Literal: "("},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.RPAREN, Literal: ")"},
		{Type: token.LBRACE, Literal: "{"},
		{Type: token.RBRACE, Literal: "}"},
		{Type: token.CLASS, Literal: "class"},
		{Type: token.IDENT, Literal: "p"},
		{Type: token.DOT, Literal: "."},
		{Type: token.IDENT, Literal: "move"},
		{Type: token.EOF, Literal: ""},
	}

	if diff := cmp.Diff(want, collect(input)); diff != "" {
		t.Errorf("NextToken() mismatch (-want +got):\n%s", diff)
	}
}

func TestNextToken_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Token
	}{
		{
			name:  "unterminated string runs to end of input",
			input: `"abc def`,
			want: []token.Token{
				{Type: token.STRING, Literal: "abc def"},
				{Type: token.EOF, Literal: ""},
			},
		},
		{
			name:  "lone ampersand and pipe are illegal",
			input: "& |",
			want: []token.Token{
				{Type: token.ILLEGAL, Literal: "&"},
				{Type: token.ILLEGAL, Literal: "|"},
				{Type: token.EOF, Literal: ""},
			},
		},
		{
			name:  "unknown characters",
			input: "@ ?",
			want: []token.Token{
				{Type: token.ILLEGAL, Literal: "@"},
				{Type: token.ILLEGAL, Literal: "?"},
				{Type: token.EOF, Literal: ""},
			},
		},
		{
			name:  "comments are skipped",
			input: "# leading comment\nlet x = 1; # trailing\n# last",
			want: []token.Token{
				{Type: token.LET, Literal: "let"},
				{Type: token.IDENT, Literal: "x"},
				{Type: token.ASSIGN, Literal: "="},
				{Type: token.INT, Literal: "1"},
				{Type: token.SEMICOLON, Literal: ";"},
				{Type: token.EOF, Literal: ""},
			},
		},
		{
			name:  "digits and letters split",
			input: "12abc",
			want: []token.Token{
				{Type: token.INT, Literal: "12"},
				{Type: token.IDENT, Literal: "abc"},
				{Type: token.EOF, Literal: ""},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  []token.Token{{Type: token.EOF, Literal: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, collect(tt.input)); diff != "" {
				t.Errorf("NextToken() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNextToken_EOFForever(t *testing.T) {
	l := New("x")
	l.NextToken()
	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Type != token.EOF {
			t.Fatalf("call %d: expected EOF, got %+v", i, tok)
		}
	}
}

func TestPeek(t *testing.T) {
	l := New("a = 1")
	if diff := cmp.Diff(token.Token{Type: token.IDENT, Literal: "a"}, l.Peek()); diff != "" {
		t.Errorf("Peek() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(token.Token{Type: token.IDENT, Literal: "a"}, l.NextToken()); diff != "" {
		t.Errorf("NextToken() after Peek() mismatch (-want +got):\n%s", diff)
	}
	if got := l.Peek(); got.Type != token.ASSIGN {
		t.Errorf("Peek() = %+v, want =", got)
	}
}
