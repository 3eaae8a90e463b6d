// Package token defines the lexical tokens of natded's surface syntax:
// propositions, proof terms, and the datatype/atom declaration prefix.
package token

import "fmt"

// Type identifies the lexical class of a Token.
type Type int

const (
	ILLEGAL Type = iota
	EOF

	IDENT  // user identifiers: x, A, foo
	NUMBER // arity literals in atom declarations: atom P(2);

	// propositional connectives
	AND     // && & ^
	OR      // || |
	IMPLIES // -> →
	NOT     // ~ ! ¬
	TOP     // true \top ⊤
	BOT     // false \bot ⊥
	FORALL  // \forall ∀
	EXISTS  // \exists ∃

	FAT_ARROW // =>
	ASSIGN    // =
	COLON     // :
	COMMA     // ,
	DOT       // .
	SEMI      // ;
	LPAREN
	RPAREN

	// keywords
	FN
	CASE
	OF
	LET
	IN
	DATATYPE
	ATOM
	SORRY
)

var names = map[Type]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", IDENT: "IDENT", NUMBER: "NUMBER",
	AND: "&&", OR: "||", IMPLIES: "->", NOT: "~", TOP: "true", BOT: "false",
	FORALL: "\\forall", EXISTS: "\\exists", FAT_ARROW: "=>", ASSIGN: "=", COLON: ":",
	COMMA: ",", DOT: ".", SEMI: ";", LPAREN: "(", RPAREN: ")",
	FN: "fn", CASE: "case", OF: "of", LET: "let", IN: "in",
	DATATYPE: "datatype", ATOM: "atom", SORRY: "sorry",
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Keywords maps the reserved words recognized by the lexer.
var Keywords = map[string]Type{
	"fn": FN, "case": CASE, "of": OF, "let": LET, "in": IN,
	"datatype": DATATYPE, "atom": ATOM, "sorry": SORRY,
	"true": TOP, "false": BOT,
}

// LookupIdent returns the keyword Type for an identifier, or IDENT.
func LookupIdent(ident string) Type {
	if tok, ok := Keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Span is a half-open source range used for diagnostics. Line/Column are
// 1-based. A zero Span (Line == 0) denotes "no source location" and is
// used for propositions/terms synthesized internally (e.g. by the prover).
type Span struct {
	StartLine, StartColumn int
	EndLine, EndColumn      int
}

// Valid reports whether the span refers to an actual source location.
func (s Span) Valid() bool { return s.StartLine != 0 }

func (s Span) String() string {
	if !s.Valid() {
		return "<generated>"
	}
	return fmt.Sprintf("%d:%d", s.StartLine, s.StartColumn)
}

// Token is one lexeme together with its source location.
type Token struct {
	Type    Type
	Lexeme  string
	Literal string
	Line    int
	Column  int
}

// Span returns the single-point span at the token's start.
func (t Token) Span() Span {
	return Span{StartLine: t.Line, StartColumn: t.Column, EndLine: t.Line, EndColumn: t.Column + len(t.Lexeme)}
}
