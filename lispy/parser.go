package lispy

import (
	"errors"
	"regexp"
	"strconv"
	"unicode"
)

type TokenType int

const (
	TokenLParen TokenType = iota
	TokenRParen
	TokenQuote
	TokenSymbol
	TokenBool
	TokenDecimal
	TokenEnd
)

type Token struct {
	typ TokenType
	str string
	pos int
}

var EndTk = Token{typ: TokenEnd}

func (t Token) String() string {
	switch t.typ {
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenQuote:
		return "'"
	case TokenEnd:
		return "End"
	}
	return t.str
}

var (
	BoolRegex    = regexp.MustCompile("^(true|false)$")
	DecimalRegex = regexp.MustCompile("^-?[0-9]+$")
	SymbolRegex  = regexp.MustCompile(`^[a-zA-Z0-9_+\-*/\\=<>!&?]+$`)
)

// Lexer splits the whole input into tokens up front; the parser then
// walks them with PeekNextToken and GetNextToken.
type Lexer struct {
	tokens []Token
	next   int
}

func NewLexer(text string) (*Lexer, error) {
	lex := &Lexer{}
	runes := []rune(text)
	start := -1

	// an atom ends at whitespace, a paren, a quote or the end of input.
	dumpBuffer := func(end int) error {
		if start < 0 {
			return nil
		}
		tok, err := lex.DecodeAtom(string(runes[start:end]), start)
		start = -1
		if err != nil {
			return err
		}
		lex.tokens = append(lex.tokens, tok)
		return nil
	}

	for i, r := range runes {
		var typ TokenType
		switch {
		case r == '(':
			typ = TokenLParen
		case r == ')':
			typ = TokenRParen
		case r == '\'':
			typ = TokenQuote
		case unicode.IsSpace(r):
			if err := dumpBuffer(i); err != nil {
				return nil, err
			}
			continue
		default:
			if start < 0 {
				start = i
			}
			continue
		}
		if err := dumpBuffer(i); err != nil {
			return nil, err
		}
		lex.tokens = append(lex.tokens, Token{typ: typ, str: string(r), pos: i})
	}
	if err := dumpBuffer(len(runes)); err != nil {
		return nil, err
	}
	return lex, nil
}

func (lex *Lexer) DecodeAtom(atom string, pos int) (Token, error) {
	switch {
	case DecimalRegex.MatchString(atom):
		return Token{typ: TokenDecimal, str: atom, pos: pos}, nil
	case BoolRegex.MatchString(atom):
		return Token{typ: TokenBool, str: atom, pos: pos}, nil
	case SymbolRegex.MatchString(atom):
		return Token{typ: TokenSymbol, str: atom, pos: pos}, nil
	}
	return EndTk, ParseError("unrecognized atom %q at offset %d", atom, pos)
}

func (lex *Lexer) PeekNextToken() Token {
	if lex.next >= len(lex.tokens) {
		return EndTk
	}
	return lex.tokens[lex.next]
}

func (lex *Lexer) GetNextToken() Token {
	tok := lex.PeekNextToken()
	if tok.typ != TokenEnd {
		lex.next++
	}
	return tok
}

// ErrMoreInputNeeded means the tokens ran out inside a list or right
// after a quote.
var ErrMoreInputNeeded = errors.New("parser needs more input")

type Parser struct {
	lexer *Lexer
}

func NewParser(text string) (*Parser, error) {
	lex, err := NewLexer(text)
	if err != nil {
		return nil, err
	}
	return &Parser{lexer: lex}, nil
}

func (p *Parser) ParseExpression() (Sexp, error) {
	tok := p.lexer.GetNextToken()
	switch tok.typ {
	case TokenLParen:
		return p.ParseList()
	case TokenRParen:
		return nil, ParseError("unexpected ')' at offset %d", tok.pos)
	case TokenQuote:
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		return MakeQuote(x), nil
	case TokenDecimal:
		i, err := strconv.ParseInt(tok.str, 10, 64)
		if err != nil {
			return nil, ParseError("integer literal %s out of range at offset %d", tok.str, tok.pos)
		}
		return MakeInt(i), nil
	case TokenBool:
		return MakeBool(tok.str == "true"), nil
	case TokenSymbol:
		return MakeSymbol(tok.str), nil
	case TokenEnd:
		return nil, ErrMoreInputNeeded
	}
	return nil, InternalError("unexpected token %v", tok)
}

// ParseList reads elements up to the closing paren; the opening one
// has already been consumed.
func (p *Parser) ParseList() (Sexp, error) {
	elems := Seq{}
	for {
		switch p.lexer.PeekNextToken().typ {
		case TokenEnd:
			return nil, ErrMoreInputNeeded
		case TokenRParen:
			p.lexer.GetNextToken()
			return MakeList(elems), nil
		}
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, x)
	}
}

// ParseTokens reads expressions until the input is used up.
func (p *Parser) ParseTokens() (Seq, error) {
	xs := Seq{}
	for p.lexer.PeekNextToken().typ != TokenEnd {
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		xs = append(xs, x)
	}
	return xs, nil
}

// Parse reads exactly one expression; surrounding whitespace is
// allowed, anything else is a ParseError.
func Parse(text string) (Sexp, error) {
	xs, err := ParseAll(text)
	if err != nil {
		return nil, err
	}
	if len(xs) != 1 {
		return nil, ParseError("expected one expression, found %d in %q", len(xs), text)
	}
	return xs[0], nil
}

// ParseAll reads every top level expression in text. Blank text gives
// an empty sequence.
func ParseAll(text string) (Seq, error) {
	xs, err := parseTokens(text)
	if err == ErrMoreInputNeeded {
		return nil, ParseError("unexpected end of input in %q", text)
	}
	return xs, err
}

// IsIncomplete reports whether text is a prefix of valid input that
// only lacks closing parens, so a REPL should read another line.
func IsIncomplete(text string) bool {
	_, err := parseTokens(text)
	return err == ErrMoreInputNeeded
}

func parseTokens(text string) (Seq, error) {
	p, err := NewParser(text)
	if err != nil {
		return nil, err
	}
	return p.ParseTokens()
}
