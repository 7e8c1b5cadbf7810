package lispy

// Evaluate rewrites *node into its value under cls. The node is owned
// by the caller; shared storage inside it is copied before any edit, so
// other holders of the same cells never see the rewrite.
func Evaluate(cls *Closure, node *Sexp) error {
	switch x := (*node).(type) {
	case SexpList:
		return evalList(cls, node, x)

	case SexpSymbol:
		val, ok := cls.Find(x.Name)
		if !ok {
			return RuntimeError("undefined %s", x.Name)
		}
		*node = val.Clone()

	case SexpQuote:
		payload := x.Payload()
		if !NeedsQuote(payload) {
			*node = payload.Clone()
		}

	case nil:
		return InternalError("evaluate called on a nil node")
	}
	// SexpInt, SexpBool, SexpLambda, SexpBuiltin evaluate to themselves.
	return nil
}

func evalList(cls *Closure, node *Sexp, lst SexpList) error {
	view := lst.Elems()
	if len(view) == 0 {
		return RuntimeError("missing procedure expression")
	}

	if sym, isSym := view[0].(SexpSymbol); isSym {
		if form := specialForm(sym.Name); form != nil {
			cls.rt.tracef("special form %s", printForm(view))
			res, err := form(cls, view)
			if err != nil {
				return err
			}
			*node = res
			return nil
		}
	}

	elems := lst.MutElems()
	*node = lst
	for i := range *elems {
		if err := Evaluate(cls, &(*elems)[i]); err != nil {
			return err
		}
	}
	evaluated := *elems

	switch head := evaluated[0].(type) {
	case SexpLambda:
		res, err := Apply(cls, head, evaluated[1:])
		if err != nil {
			return err
		}
		*node = res
		return nil

	case SexpBuiltin:
		res, err := cls.rt.callBuiltin(cls, head.Name, evaluated)
		if err != nil {
			return err
		}
		*node = res
		return nil
	}
	return RuntimeError("not a procedure: %s in %s",
		Print(evaluated[0]), printForm(evaluated))
}

// printForm renders a list view the way Print renders a List.
func printForm(s Seq) string {
	return "(" + PrintSeq(s) + ")"
}
