package lispy

// specialFormFunc receives the whole, unevaluated form; list[0] is the
// form's name.
type specialFormFunc func(cls *Closure, list Seq) (Sexp, error)

func specialForm(name string) specialFormFunc {
	switch name {
	case "define":
		return defineForm
	case "lambda":
		return lambdaForm
	case "cond":
		return condForm
	case "and":
		return andForm
	case "or":
		return orForm
	}
	return nil
}

// SpecialFormNames lists the names the evaluator handles without
// evaluating the operands first.
var SpecialFormNames = []string{"and", "cond", "define", "lambda", "or"}

// (define name expr) binds globally and returns the symbol.
func defineForm(cls *Closure, list Seq) (Sexp, error) {
	if len(list) != 3 {
		return nil, BadSyntax("define takes a symbol and an expression: %s", printForm(list))
	}
	sym, ok := list[1].(SexpSymbol)
	if !ok {
		return nil, BadSyntax("define: %s is not a symbol", Print(list[1]))
	}
	val := list[2].Clone()
	if err := Evaluate(cls, &val); err != nil {
		return nil, err
	}
	cls.rt.bindGlobal(sym.Name, val)
	return sym, nil
}

// (lambda (params...) body)
func lambdaForm(cls *Closure, list Seq) (Sexp, error) {
	if len(list) != 3 {
		return nil, BadSyntax("lambda takes a parameter list and a body: %s", printForm(list))
	}
	plist, ok := list[1].(SexpList)
	if !ok {
		return nil, BadSyntax("lambda parameters must be a list, got %s", Print(list[1]))
	}
	params := make(Names, 0, plist.Len())
	seen := make(map[string]bool, plist.Len())
	for _, p := range plist.Elems() {
		sym, ok := p.(SexpSymbol)
		if !ok {
			return nil, BadSyntax("lambda parameter %s is not a symbol", Print(p))
		}
		if seen[sym.Name] {
			return nil, BadSyntax("lambda parameter %s appears twice", sym.Name)
		}
		seen[sym.Name] = true
		params = append(params, sym.Name)
	}
	return MakeLambda(params, list[2].Clone()), nil
}

// (cond (test result)... (else result))
func condForm(cls *Closure, list Seq) (Sexp, error) {
	if len(list) < 3 {
		return nil, BadSyntax("cond needs at least one clause and an else clause: %s", printForm(list))
	}
	clauses := list[1:]
	for i, c := range clauses {
		pair, ok := c.(SexpList)
		if !ok || pair.Len() != 2 {
			return nil, BadSyntax("cond clause %s is not a (test result) pair", Print(c))
		}
		isElse := false
		if sym, ok := pair.Elems()[0].(SexpSymbol); ok && sym.Name == "else" {
			isElse = true
		}
		last := i == len(clauses)-1
		if last && !isElse {
			return nil, BadSyntax("cond must end with an else clause: %s", printForm(list))
		}
		if !last && isElse {
			return nil, BadSyntax("cond else clause must come last: %s", printForm(list))
		}
	}

	for _, c := range clauses[:len(clauses)-1] {
		pair := c.(SexpList).Elems()
		test := pair[0].Clone()
		if err := Evaluate(cls, &test); err != nil {
			return nil, err
		}
		if b, ok := test.(SexpBool); ok && b.Val {
			return evalCopy(cls, pair[1])
		}
	}
	elseClause := clauses[len(clauses)-1].(SexpList).Elems()
	return evalCopy(cls, elseClause[1])
}

func andForm(cls *Closure, list Seq) (Sexp, error) {
	if len(list) < 2 {
		return nil, RuntimeError("and: empty operand list")
	}
	var last Sexp
	for _, operand := range list[1:] {
		v, err := evalCopy(cls, operand)
		if err != nil {
			return nil, err
		}
		if b, ok := v.(SexpBool); ok && !b.Val {
			return MakeBool(false), nil
		}
		last = v
	}
	return last, nil
}

func orForm(cls *Closure, list Seq) (Sexp, error) {
	if len(list) < 2 {
		return nil, RuntimeError("or: empty operand list")
	}
	var last Sexp
	for _, operand := range list[1:] {
		v, err := evalCopy(cls, operand)
		if err != nil {
			return nil, err
		}
		if b, ok := v.(SexpBool); ok && b.Val {
			return v, nil
		}
		last = v
	}
	return last, nil
}

// evalCopy evaluates a clone of x, leaving x itself untouched.
func evalCopy(cls *Closure, x Sexp) (Sexp, error) {
	v := x.Clone()
	if err := Evaluate(cls, &v); err != nil {
		return nil, err
	}
	return v, nil
}
