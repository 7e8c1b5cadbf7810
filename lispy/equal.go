package lispy

// Equal is structural equality. When exactly one side is a Quote it
// is unwrapped first, so '(1 2) equals the list (1 2) and '1 equals 1.
// Only the top level is unwrapped: below it quote layers must match,
// so ''a does not equal 'a.
func Equal(a, b Sexp) bool {
	qa, aq := a.(SexpQuote)
	qb, bq := b.(SexpQuote)
	switch {
	case aq && !bq:
		a = qa.Payload()
	case bq && !aq:
		b = qb.Payload()
	}
	return sameData(a, b)
}

func sameData(a, b Sexp) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case SexpInt:
		return x.Val == b.(SexpInt).Val
	case SexpBool:
		return x.Val == b.(SexpBool).Val
	case SexpSymbol:
		return x.Name == b.(SexpSymbol).Name
	case SexpBuiltin:
		return x.Name == b.(SexpBuiltin).Name
	case SexpQuote:
		y := b.(SexpQuote)
		return x.cell.Same(y.cell) || sameData(x.Payload(), y.Payload())
	case SexpList:
		y := b.(SexpList)
		if x.cell.Same(y.cell) {
			return true
		}
		xs, ys := x.Elems(), y.Elems()
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !sameData(xs[i], ys[i]) {
				return false
			}
		}
		return true
	case SexpLambda:
		return Identical(a, b)
	}
	return false
}

// Identical is the eq? relation: atoms compare by value, compound data
// by storage identity. Two empty lists are identical.
func Identical(a, b Sexp) bool {
	qa, aq := a.(SexpQuote)
	qb, bq := b.(SexpQuote)
	if aq != bq {
		return false
	}
	if aq {
		if qa.cell.Same(qb.cell) {
			return true
		}
		return Identical(qa.Payload(), qb.Payload())
	}

	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case SexpList:
		y := b.(SexpList)
		if x.Len() == 0 && y.Len() == 0 {
			return true
		}
		return x.cell.Same(y.cell)
	case SexpLambda:
		y := b.(SexpLambda)
		return x.body.Same(y.body) && x.params.Same(y.params) &&
			(x.bound.Same(y.bound) || (len(x.Bound()) == 0 && len(y.Bound()) == 0))
	}
	return sameData(a, b)
}
