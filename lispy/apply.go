package lispy

import (
	"strings"
)

// Apply supplies args to fn. Fewer arguments than fn still needs yield
// the partially applied procedure; the last missing argument runs the
// body in a fresh scope pushed onto cls.
func Apply(cls *Closure, fn SexpLambda, args Seq) (Sexp, error) {
	if len(args) > fn.Arity() {
		return nil, RuntimeError("argument size mismatch: procedure takes %d more argument(s), got %d",
			fn.Arity(), len(args))
	}
	if len(args) > 0 {
		bound := fn.bound.Mut()
		*bound = append(*bound, args.Clone()...)
	}
	if !fn.Saturated() {
		return fn, nil
	}

	rt := cls.rt
	if limit := rt.maxDepth(); limit > 0 && cls.Depth() > limit {
		return nil, RuntimeError("recursion depth exceeded (max %d)", limit)
	}

	params := fn.Params()
	bound := fn.Bound()
	env := NewEnvironment("")
	for i, name := range params {
		env.Set(name, bound[i].Clone())
	}
	rt.tracef("apply (%s) <- %s", strings.Join(params, " "), PrintSeq(bound))

	guard := cls.Push(env)
	defer guard.Release()

	body := fn.Body().Clone()
	if err := Evaluate(cls, &body); err != nil {
		return nil, err
	}
	return body, nil
}
