package lispy

import (
	"fmt"
)

type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindSymbol
	KindQuote
	KindList
	KindLambda
	KindBuiltin
)

var kindNames = []string{"Integer", "Boolean", "Symbol", "Quote", "List", "Lambda", "BuiltinFn"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sexp is an expression node. The set of implementations is closed:
// SexpInt, SexpBool, SexpSymbol, SexpQuote, SexpList, SexpLambda and
// SexpBuiltin.
type Sexp interface {
	Kind() Kind

	// SexpString renders the node in the same syntax the parser reads.
	SexpString() string

	// Clone is O(1): composite nodes share their cells.
	Clone() Sexp

	isSexp()
}

type SexpInt struct {
	Val int64
}

type SexpBool struct {
	Val bool
}

type SexpSymbol struct {
	Name string
}

type SexpQuote struct {
	cell Cell[Sexp]
}

type SexpList struct {
	cell Cell[Seq]
}

// SexpLambda is a user procedure, possibly partially applied: bound
// holds the arguments supplied so far, in order.
type SexpLambda struct {
	bound  Cell[Seq]
	params Cell[Names]
	body   Cell[Sexp]
}

type SexpBuiltin struct {
	Name string
}

// Seq is the element sequence of a list.
type Seq []Sexp

// Names is a lambda's parameter list.
type Names []string

func (s Seq) Clone() Seq {
	if s == nil {
		return nil
	}
	n := make(Seq, len(s))
	for i := range s {
		n[i] = s[i].Clone()
	}
	return n
}

func (n Names) Clone() Names {
	if n == nil {
		return nil
	}
	return append(Names(nil), n...)
}

func MakeInt(v int64) SexpInt           { return SexpInt{Val: v} }
func MakeBool(v bool) SexpBool          { return SexpBool{Val: v} }
func MakeSymbol(name string) SexpSymbol { return SexpSymbol{Name: name} }
func MakeBuiltin(name string) SexpBuiltin {
	return SexpBuiltin{Name: name}
}

func MakeQuote(payload Sexp) SexpQuote {
	return SexpQuote{cell: NewCell(payload)}
}

func MakeList(elems Seq) SexpList {
	if elems == nil {
		elems = Seq{}
	}
	return SexpList{cell: NewCell(elems)}
}

func MakeLambda(params Names, body Sexp) SexpLambda {
	return SexpLambda{
		bound:  NewCell(Seq{}),
		params: NewCell(params),
		body:   NewCell(body),
	}
}

func (SexpInt) Kind() Kind     { return KindInt }
func (SexpBool) Kind() Kind    { return KindBool }
func (SexpSymbol) Kind() Kind  { return KindSymbol }
func (SexpQuote) Kind() Kind   { return KindQuote }
func (SexpList) Kind() Kind    { return KindList }
func (SexpLambda) Kind() Kind  { return KindLambda }
func (SexpBuiltin) Kind() Kind { return KindBuiltin }

func (SexpInt) isSexp()     {}
func (SexpBool) isSexp()    {}
func (SexpSymbol) isSexp()  {}
func (SexpQuote) isSexp()   {}
func (SexpList) isSexp()    {}
func (SexpLambda) isSexp()  {}
func (SexpBuiltin) isSexp() {}

func (x SexpInt) Clone() Sexp     { return x }
func (x SexpBool) Clone() Sexp    { return x }
func (x SexpSymbol) Clone() Sexp  { return x }
func (x SexpBuiltin) Clone() Sexp { return x }

func (x SexpQuote) Clone() Sexp {
	return SexpQuote{cell: x.cell.Share()}
}

func (x SexpList) Clone() Sexp {
	return SexpList{cell: x.cell.Share()}
}

func (x SexpLambda) Clone() Sexp {
	return SexpLambda{
		bound:  x.bound.Share(),
		params: x.params.Share(),
		body:   x.body.Share(),
	}
}

// Payload is the quoted node. Read only.
func (x SexpQuote) Payload() Sexp { return x.cell.Get() }

// Elems is the element view of the list. Read only; use MutElems to
// edit.
func (x SexpList) Elems() Seq { return x.cell.Get() }

func (x SexpList) Len() int { return len(x.cell.Get()) }

// MutElems returns the list's elements for in-place editing, copying
// them first if the storage is shared.
func (x *SexpList) MutElems() *Seq { return x.cell.Mut() }

func (x SexpLambda) Bound() Seq    { return x.bound.Get() }
func (x SexpLambda) Params() Names { return x.params.Get() }
func (x SexpLambda) Body() Sexp    { return x.body.Get() }

// Arity is the number of parameters still missing.
func (x SexpLambda) Arity() int {
	return len(x.params.Get()) - len(x.bound.Get())
}

func (x SexpLambda) Saturated() bool {
	return x.Arity() == 0
}

// NeedsQuote reports whether a quoted payload stays quoted after
// evaluation. Integers and booleans quoted are just themselves.
func NeedsQuote(x Sexp) bool {
	switch x.(type) {
	case SexpSymbol, SexpList, SexpQuote:
		return true
	}
	return false
}

// Requote wraps x in a Quote when x is sensitive to evaluation, so a
// datum taken out of a quoted list keeps meaning data.
func Requote(x Sexp) Sexp {
	if NeedsQuote(x) {
		return MakeQuote(x)
	}
	return x
}

// Unquote strips one quote layer, if any. It is the inverse of Requote
// for values stored inside quoted lists. The result is a new handle.
func Unquote(x Sexp) Sexp {
	if q, ok := x.(SexpQuote); ok {
		return q.Payload().Clone()
	}
	return x.Clone()
}

// Drop gives back the references x holds on shared storage. x must
// not be used afterwards. Only the top level cells are released; cells
// nested inside them keep their counts, which may then over-estimate.
func Drop(x Sexp) {
	switch e := x.(type) {
	case SexpQuote:
		e.cell.Release()
	case SexpList:
		e.cell.Release()
	case SexpLambda:
		e.bound.Release()
		e.params.Release()
		e.body.Release()
	}
}

// QuotedList returns the list inside a Quote(List) node.
func QuotedList(x Sexp) (SexpList, bool) {
	q, ok := x.(SexpQuote)
	if !ok {
		return SexpList{}, false
	}
	l, ok := q.Payload().(SexpList)
	return l, ok
}
