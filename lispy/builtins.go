package lispy

import (
	"fmt"
)

// BuiltinFunction is a native procedure. args[0] is the procedure
// itself; the arguments follow, already evaluated.
type BuiltinFunction func(cls *Closure, name string, args Seq) (Sexp, error)

// Builtin is a native procedure together with its arity. The runtime
// presents it to user code as a lambda of Nargs parameters, so builtins
// curry like any other procedure.
type Builtin struct {
	Nargs int
	Fn    BuiltinFunction
}

func MergeFuncMap(funcs ...map[string]Builtin) map[string]Builtin {
	n := make(map[string]Builtin)
	for _, f := range funcs {
		for k, v := range f {
			// disallow dups, avoiding possible security implications and confusion generally.
			if _, dup := n[k]; dup {
				panic(fmt.Sprintf("duplicate function '%s' not allowed", k))
			}
			n[k] = v
		}
	}
	return n
}

// CoreFunctions are the list primitives every runtime starts with.
func CoreFunctions() map[string]Builtin {
	return map[string]Builtin{
		"car":   {1, CarFunction},
		"cdr":   {1, CdrFunction},
		"cons":  {2, ConsFunction},
		"eq?":   {2, EqFunction},
		"atom?": {1, AtomFunction},
		"null?": {1, NullFunction},
		"zero?": {1, ZeroFunction},
		"add1":  {1, StepFunction(1)},
		"sub1":  {1, StepFunction(-1)},
		"eval":  {1, EvalFunction},
	}
}

func ArithFunctions() map[string]Builtin {
	return map[string]Builtin{
		"+":      {2, BinaryIntFunction("+")},
		"-":      {2, BinaryIntFunction("-")},
		"*":      {2, BinaryIntFunction("*")},
		"/":      {2, BinaryIntFunction("/")},
		"equal?": {2, EqualFunction},
	}
}

func TypeQueryFunctions() map[string]Builtin {
	return map[string]Builtin{
		"list?":      {1, TypeQueryFunction("list?")},
		"number?":    {1, TypeQueryFunction("number?")},
		"symbol?":    {1, TypeQueryFunction("symbol?")},
		"boolean?":   {1, TypeQueryFunction("boolean?")},
		"procedure?": {1, TypeQueryFunction("procedure?")},
	}
}

func AllBuiltinFunctions() map[string]Builtin {
	return MergeFuncMap(CoreFunctions(), ArithFunctions(), TypeQueryFunctions())
}

func CarFunction(cls *Closure, name string, args Seq) (Sexp, error) {
	if err := Check(name, args).Nargs(1).NonEmptyList(1).Err(); err != nil {
		return nil, err
	}
	l, _ := QuotedList(args[1])
	return Requote(l.Elems()[0].Clone()), nil
}

func CdrFunction(cls *Closure, name string, args Seq) (Sexp, error) {
	if err := Check(name, args).Nargs(1).NonEmptyList(1).Err(); err != nil {
		return nil, err
	}
	l, _ := QuotedList(args[1])
	return MakeQuote(MakeList(l.Elems()[1:].Clone())), nil
}

// ConsFunction prepends to a copy of the list when its storage is
// shared, so every other holder keeps seeing the old list.
func ConsFunction(cls *Closure, name string, args Seq) (Sexp, error) {
	if err := Check(name, args).Nargs(2).QuotedList(2).Err(); err != nil {
		return nil, err
	}
	head := Unquote(args[1])
	tail, _ := QuotedList(args[2])

	l := tail.Clone().(SexpList)
	elems := l.MutElems()
	*elems = append(*elems, nil)
	copy((*elems)[1:], *elems)
	(*elems)[0] = head
	return MakeQuote(l), nil
}

func EqFunction(cls *Closure, name string, args Seq) (Sexp, error) {
	if err := Check(name, args).Nargs(2).Err(); err != nil {
		return nil, err
	}
	return MakeBool(Identical(args[1], args[2])), nil
}

func EqualFunction(cls *Closure, name string, args Seq) (Sexp, error) {
	if err := Check(name, args).Nargs(2).Err(); err != nil {
		return nil, err
	}
	return MakeBool(Equal(args[1], args[2])), nil
}

func AtomFunction(cls *Closure, name string, args Seq) (Sexp, error) {
	if err := Check(name, args).Nargs(1).Err(); err != nil {
		return nil, err
	}
	return MakeBool(!isList(args[1])), nil
}

func NullFunction(cls *Closure, name string, args Seq) (Sexp, error) {
	if err := Check(name, args).Nargs(1).Err(); err != nil {
		return nil, err
	}
	l, ok := QuotedList(args[1])
	return MakeBool(ok && l.Len() == 0), nil
}

func ZeroFunction(cls *Closure, name string, args Seq) (Sexp, error) {
	if err := Check(name, args).Nargs(1).Kind(1, KindInt).Err(); err != nil {
		return nil, err
	}
	return MakeBool(args[1].(SexpInt).Val == 0), nil
}

// StepFunction adds delta to its integer argument, wrapping on overflow.
func StepFunction(delta int64) BuiltinFunction {
	return func(cls *Closure, name string, args Seq) (Sexp, error) {
		if err := Check(name, args).Nargs(1).Kind(1, KindInt).Err(); err != nil {
			return nil, err
		}
		return MakeInt(args[1].(SexpInt).Val + delta), nil
	}
}

func BinaryIntFunction(op string) BuiltinFunction {
	return func(cls *Closure, name string, args Seq) (Sexp, error) {
		err := Check(name, args).Nargs(2).Kind(1, KindInt).Kind(2, KindInt).Err()
		if err != nil {
			return nil, err
		}
		a := args[1].(SexpInt).Val
		b := args[2].(SexpInt).Val
		switch op {
		case "+":
			return MakeInt(a + b), nil
		case "-":
			return MakeInt(a - b), nil
		case "*":
			return MakeInt(a * b), nil
		case "/":
			if b == 0 {
				return nil, RuntimeError("division by zero in %s", printForm(args))
			}
			return MakeInt(a / b), nil
		}
		return nil, InternalError("unknown integer operator %s", op)
	}
}

// EvalFunction evaluates a quoted expression under the calling scope.
// Anything else is evaluated as is.
func EvalFunction(cls *Closure, name string, args Seq) (Sexp, error) {
	if err := Check(name, args).Nargs(1).Err(); err != nil {
		return nil, err
	}
	x := args[1]
	if q, ok := x.(SexpQuote); ok {
		x = q.Payload()
	}
	return evalCopy(cls, x)
}

func TypeQueryFunction(query string) BuiltinFunction {
	return func(cls *Closure, name string, args Seq) (Sexp, error) {
		if err := Check(name, args).Nargs(1).Err(); err != nil {
			return nil, err
		}
		x := args[1]
		var result bool
		switch query {
		case "list?":
			result = isList(x)
		case "number?":
			_, result = x.(SexpInt)
		case "boolean?":
			_, result = x.(SexpBool)
		case "symbol?":
			_, result = Unquote(x).(SexpSymbol)
		case "procedure?":
			switch x.(type) {
			case SexpLambda, SexpBuiltin:
				result = true
			}
		default:
			return nil, InternalError("unknown type query %s", query)
		}
		return MakeBool(result), nil
	}
}

// isList is true for a list, quoted or not.
func isList(x Sexp) bool {
	if _, ok := x.(SexpList); ok {
		return true
	}
	_, ok := QuotedList(x)
	return ok
}

// builtinLambda is the procedure value bound to a builtin's name:
// (lambda (#1 .. #n) (<builtin> #1 .. #n)). The parameter names cannot
// be read from source text, so user symbols never collide with them.
func builtinLambda(name string, nargs int) SexpLambda {
	params := make(Names, nargs)
	body := make(Seq, 0, nargs+1)
	body = append(body, MakeBuiltin(name))
	for i := range params {
		params[i] = fmt.Sprintf("#%d", i+1)
		body = append(body, MakeSymbol(params[i]))
	}
	return MakeLambda(params, MakeList(body))
}
