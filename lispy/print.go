package lispy

import (
	"strconv"
	"strings"
)

const (
	ProcedureMarker = "#<procedure>"
	builtinPrefix   = "#<builtin "
)

// Print renders x in the literal syntax Parse accepts, so that quoted
// data survives a Print/Parse round trip.
func Print(x Sexp) string {
	if x == nil {
		return "()"
	}
	return x.SexpString()
}

func (x SexpInt) SexpString() string {
	return strconv.FormatInt(x.Val, 10)
}

func (x SexpBool) SexpString() string {
	if x.Val {
		return "true"
	}
	return "false"
}

func (x SexpSymbol) SexpString() string {
	return x.Name
}

func (x SexpQuote) SexpString() string {
	return "'" + Print(x.Payload())
}

func (x SexpList) SexpString() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, e := range x.Elems() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(Print(e))
	}
	sb.WriteByte(')')
	return sb.String()
}

func (x SexpLambda) SexpString() string {
	return ProcedureMarker
}

func (x SexpBuiltin) SexpString() string {
	return builtinPrefix + x.Name + ">"
}

// PrintSeq renders a sequence space separated, without parens.
func PrintSeq(s Seq) string {
	parts := make([]string, len(s))
	for i := range s {
		parts[i] = Print(s[i])
	}
	return strings.Join(parts, " ")
}
