package lispy

import (
	"errors"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func mustParse(text string) Sexp {
	x, err := Parse(text)
	panicOn(err)
	return x
}

func Test010PrintLiterals(t *testing.T) {

	cv.Convey(`Given each kind of node, Print should render it in the syntax the parser reads`, t, func() {
		cv.So(Print(MakeInt(-42)), cv.ShouldEqual, "-42")
		cv.So(Print(MakeBool(true)), cv.ShouldEqual, "true")
		cv.So(Print(MakeBool(false)), cv.ShouldEqual, "false")
		cv.So(Print(MakeSymbol("eq?")), cv.ShouldEqual, "eq?")
		cv.So(Print(MakeQuote(MakeSymbol("a"))), cv.ShouldEqual, "'a")
		cv.So(Print(MakeQuote(MakeQuote(MakeInt(1)))), cv.ShouldEqual, "''1")
		cv.So(Print(MakeList(nil)), cv.ShouldEqual, "()")
		cv.So(Print(MakeList(Seq{MakeInt(1), MakeList(Seq{MakeSymbol("b")})})), cv.ShouldEqual, "(1 (b))")
		cv.So(Print(MakeLambda(Names{"x"}, MakeSymbol("x"))), cv.ShouldEqual, ProcedureMarker)
		cv.So(Print(MakeBuiltin("car")), cv.ShouldEqual, "#<builtin car>")
		cv.So(Print(nil), cv.ShouldEqual, "()")
	})
}

func Test011QuoteRoundTrip(t *testing.T) {

	cv.Convey(`Given quoted literals of integers, booleans, symbols and nested lists, print(parse(print(x))) should reproduce print(x)`, t, func() {
		for _, text := range []string{
			"'(a (1 2) true -5 ())",
			"'x",
			"''(nested 'quote)",
			"'((((deep))))",
			"'()",
		} {
			x := mustParse(text)
			printed := Print(x)
			cv.So(printed, cv.ShouldEqual, text)
			again := mustParse(printed)
			cv.So(Print(again), cv.ShouldEqual, printed)
			cv.So(Equal(x, again), cv.ShouldBeTrue)
		}
	})
}

func Test012ParseAtoms(t *testing.T) {

	cv.Convey(`Given atom text, the parser should classify integers, booleans and symbols`, t, func() {
		cv.So(mustParse("  17 "), cv.ShouldResemble, Sexp(MakeInt(17)))
		cv.So(mustParse("-3"), cv.ShouldResemble, Sexp(MakeInt(-3)))
		cv.So(mustParse("true"), cv.ShouldResemble, Sexp(MakeBool(true)))
		cv.So(mustParse("false"), cv.ShouldResemble, Sexp(MakeBool(false)))
		cv.So(mustParse("-"), cv.ShouldResemble, Sexp(MakeSymbol("-")))
		cv.So(mustParse("null?"), cv.ShouldResemble, Sexp(MakeSymbol("null?")))
		cv.So(mustParse("a_b\\c"), cv.ShouldResemble, Sexp(MakeSymbol("a_b\\c")))
		cv.So(mustParse("truely"), cv.ShouldResemble, Sexp(MakeSymbol("truely")))
	})
}

func Test013ParseErrors(t *testing.T) {

	cv.Convey(`Given text that is not exactly one expression, Parse should fail with a parse error`, t, func() {
		for _, text := range []string{"", "   ", "(a", "a)", "a b", "#1", "99999999999999999999"} {
			_, err := Parse(text)
			cv.So(err, cv.ShouldNotBeNil)
			cv.So(errors.Is(err, ErrParse), cv.ShouldBeTrue)
		}
	})
}

func Test014ParseAllAndIncomplete(t *testing.T) {

	cv.Convey(`Given several expressions, ParseAll should return each; and a prefix missing closing parens should be reported incomplete`, t, func() {
		xs, err := ParseAll("(define x 1)\n  x '(1 2)")
		cv.So(err, cv.ShouldBeNil)
		cv.So(len(xs), cv.ShouldEqual, 3)
		cv.So(Print(xs[2]), cv.ShouldEqual, "'(1 2)")

		xs, err = ParseAll("  ")
		cv.So(err, cv.ShouldBeNil)
		cv.So(len(xs), cv.ShouldEqual, 0)

		cv.So(IsIncomplete("(define x"), cv.ShouldBeTrue)
		cv.So(IsIncomplete("(define f (lambda (x)"), cv.ShouldBeTrue)
		cv.So(IsIncomplete("(a) (b"), cv.ShouldBeTrue)
		cv.So(IsIncomplete("(a)"), cv.ShouldBeFalse)
		cv.So(IsIncomplete(")"), cv.ShouldBeFalse)
		cv.So(IsIncomplete(""), cv.ShouldBeFalse)
	})
}

func Test015Equality(t *testing.T) {

	cv.Convey(`Given nodes of different construction, Equal should compare structure and unwrap one-sided quotes, while Identical should compare compound storage`, t, func() {
		ql := mustParse("'(1 2)")
		l := MakeList(Seq{MakeInt(1), MakeInt(2)})
		cv.So(Equal(ql, l), cv.ShouldBeTrue)
		cv.So(Equal(l, ql), cv.ShouldBeTrue)
		cv.So(Equal(MakeQuote(MakeInt(1)), MakeInt(1)), cv.ShouldBeTrue)
		cv.So(Equal(MakeInt(1), MakeBool(true)), cv.ShouldBeFalse)
		cv.So(Equal(mustParse("'(1 2)"), mustParse("'(1 3)")), cv.ShouldBeFalse)
		cv.So(Equal(mustParse("'(1 2)"), mustParse("'(1 2 3)")), cv.ShouldBeFalse)

		other := mustParse("'(1 2)")
		cv.So(Equal(ql, other), cv.ShouldBeTrue)
		cv.So(Identical(ql, other), cv.ShouldBeFalse)
		cv.So(Identical(ql, ql.Clone()), cv.ShouldBeTrue)
		cv.So(Identical(mustParse("'()"), mustParse("'()")), cv.ShouldBeTrue)
		cv.So(Identical(mustParse("'a"), mustParse("'a")), cv.ShouldBeTrue)
		cv.So(Identical(mustParse("'a"), MakeSymbol("a")), cv.ShouldBeFalse)

		fn := MakeLambda(Names{"x"}, MakeSymbol("x"))
		cv.So(Identical(fn, fn.Clone()), cv.ShouldBeTrue)
		cv.So(Identical(fn, MakeLambda(Names{"x"}, MakeSymbol("x"))), cv.ShouldBeFalse)
	})
}

func Test016QuoteHelpers(t *testing.T) {

	cv.Convey(`Given data taken out of quoted lists, Requote and Unquote should add and strip exactly one quote layer for sensitive nodes`, t, func() {
		cv.So(NeedsQuote(MakeSymbol("a")), cv.ShouldBeTrue)
		cv.So(NeedsQuote(MakeList(nil)), cv.ShouldBeTrue)
		cv.So(NeedsQuote(MakeQuote(MakeInt(1))), cv.ShouldBeTrue)
		cv.So(NeedsQuote(MakeInt(1)), cv.ShouldBeFalse)
		cv.So(NeedsQuote(MakeBool(false)), cv.ShouldBeFalse)

		cv.So(Print(Requote(MakeSymbol("a"))), cv.ShouldEqual, "'a")
		cv.So(Print(Requote(MakeInt(3))), cv.ShouldEqual, "3")
		cv.So(Print(Unquote(mustParse("'(x)"))), cv.ShouldEqual, "(x)")
		cv.So(Print(Unquote(MakeInt(3))), cv.ShouldEqual, "3")

		l, ok := QuotedList(mustParse("'(1 2 3)"))
		cv.So(ok, cv.ShouldBeTrue)
		cv.So(l.Len(), cv.ShouldEqual, 3)
		_, ok = QuotedList(mustParse("'a"))
		cv.So(ok, cv.ShouldBeFalse)
		_, ok = QuotedList(mustParse("(a)"))
		cv.So(ok, cv.ShouldBeFalse)

		cv.So(KindList.String(), cv.ShouldEqual, "List")
		cv.So(KindBuiltin.String(), cv.ShouldEqual, "BuiltinFn")
	})
}

func Test017LexerTokens(t *testing.T) {

	cv.Convey(`Given text with parens and quotes touching atoms, the lexer should split it into the same tokens as spaced text`, t, func() {
		lex, err := NewLexer("(a'(1 true))")
		cv.So(err, cv.ShouldBeNil)
		var got []string
		for tok := lex.GetNextToken(); tok.typ != TokenEnd; tok = lex.GetNextToken() {
			got = append(got, tok.String())
		}
		cv.So(got, cv.ShouldResemble, []string{"(", "a", "'", "(", "1", "true", ")", ")"})
		cv.So(lex.PeekNextToken().typ, cv.ShouldEqual, TokenEnd)

		cv.So(Print(mustParse("(a(b)'c)")), cv.ShouldEqual, "(a (b) 'c)")

		_, err = NewLexer("(a #b)")
		cv.So(errors.Is(err, ErrParse), cv.ShouldBeTrue)

		cv.So(IsIncomplete("'"), cv.ShouldBeTrue)
		cv.So(IsIncomplete(".quit"), cv.ShouldBeFalse)
		_, err = ParseAll("(a")
		cv.So(errors.Is(err, ErrParse), cv.ShouldBeTrue)
	})
}
