package lispy

import (
	"fmt"
	"sort"
	"strings"
)

type PreHook func(*Runtime, string, Seq)
type PostHook func(*Runtime, string, Sexp)

// Runtime owns one interpreter: the global environment with its
// builtins, and the scope chain every evaluation runs against. A
// Runtime is not safe for concurrent use; independent Runtimes are.
type Runtime struct {
	global   *Environment
	cls      *Closure
	builtins map[string]Builtin

	// names bound by define, in first-definition order.
	userdefs []string

	before []PreHook
	after  []PostHook

	MaxDepth int
	Trace    bool
}

func NewRuntime() *Runtime {
	return NewRuntimeWithFuncs(AllBuiltinFunctions())
}

// NewRuntimeWithFuncs returns a runtime with access to only the given
// builtin functions.
func NewRuntimeWithFuncs(funcs map[string]Builtin) *Runtime {
	rt := &Runtime{
		global:   NewEnvironment("global"),
		builtins: make(map[string]Builtin),
	}
	rt.cls = newClosure(rt, rt.global)
	for name, b := range funcs {
		rt.AddFunction(name, b.Nargs, b.Fn)
	}
	return rt
}

// NewRuntimeWithConfig applies the evaluation settings of cfg.
func NewRuntimeWithConfig(cfg *Config) *Runtime {
	rt := NewRuntime()
	rt.MaxDepth = cfg.MaxDepth
	rt.Trace = cfg.Trace
	return rt
}

// Closure is the scope chain top level evaluation runs against.
func (rt *Runtime) Closure() *Closure {
	return rt.cls
}

func (rt *Runtime) Global() *Environment {
	return rt.global
}

// AddFunction registers a native procedure and binds its name to a
// procedure value of nargs parameters.
func (rt *Runtime) AddFunction(name string, nargs int, fn BuiltinFunction) {
	rt.builtins[name] = Builtin{Nargs: nargs, Fn: fn}
	rt.global.Set(name, builtinLambda(name, nargs))
}

func (rt *Runtime) AddGlobal(name string, val Sexp) {
	rt.global.Set(name, val)
}

func (rt *Runtime) AddPreHook(fun PreHook) {
	rt.before = append(rt.before, fun)
}

func (rt *Runtime) AddPostHook(fun PostHook) {
	rt.after = append(rt.after, fun)
}

// bindGlobal is how define installs a value.
func (rt *Runtime) bindGlobal(name string, val Sexp) {
	if !rt.isUserDef(name) {
		rt.userdefs = append(rt.userdefs, name)
	}
	rt.global.Set(name, val)
}

func (rt *Runtime) isUserDef(name string) bool {
	for _, n := range rt.userdefs {
		if n == name {
			return true
		}
	}
	return false
}

// UserDefinitions lists the names bound by define, oldest first.
func (rt *Runtime) UserDefinitions() []string {
	return append([]string(nil), rt.userdefs...)
}

func (rt *Runtime) IsBuiltin(name string) bool {
	_, ok := rt.builtins[name]
	return ok
}

// BuiltinNames is sorted.
func (rt *Runtime) BuiltinNames() []string {
	names := make([]string, 0, len(rt.builtins))
	for k := range rt.builtins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (rt *Runtime) FindObject(name string) (Sexp, bool) {
	v, ok := rt.cls.Find(name)
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}

// Eval evaluates a parsed expression against the global scope. x is
// left untouched.
func (rt *Runtime) Eval(x Sexp) (Sexp, error) {
	VPrintf("eval %s", Print(x))
	return evalCopy(rt.cls, x)
}

func (rt *Runtime) EvalString(text string) (Sexp, error) {
	x, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return rt.Eval(x)
}

// EvalStrings evaluates every top level expression of text in order
// and returns each result. Evaluation stops at the first error; the
// results so far are returned with it.
func (rt *Runtime) EvalStrings(text string) (Seq, error) {
	xs, err := ParseAll(text)
	if err != nil {
		return nil, err
	}
	res := make(Seq, 0, len(xs))
	for _, x := range xs {
		v, err := rt.Eval(x)
		if err != nil {
			return res, err
		}
		res = append(res, v)
	}
	return res, nil
}

// EvalAndPrint is the single entry point the REPL drives.
func (rt *Runtime) EvalAndPrint(text string) (string, error) {
	v, err := rt.EvalString(text)
	if err != nil {
		return "", err
	}
	return Print(v), nil
}

// Clear drops every frame above the global one. Only needed when a
// host callback panicked mid evaluation and the panic was recovered.
func (rt *Runtime) Clear() {
	rt.cls.TruncateToSize(1)
}

func (rt *Runtime) callBuiltin(cls *Closure, name string, args Seq) (Sexp, error) {
	b, ok := rt.builtins[name]
	if !ok {
		return nil, RuntimeError("unknown builtin %s", name)
	}
	for _, pre := range rt.before {
		pre(rt, name, args)
	}
	res, err := b.Fn(cls, name, args)
	if err != nil {
		return nil, err
	}
	for _, post := range rt.after {
		post(rt, name, res)
	}
	return res, nil
}

func (rt *Runtime) maxDepth() int {
	if rt == nil {
		return 0
	}
	return rt.MaxDepth
}

func (rt *Runtime) tracef(format string, a ...interface{}) {
	if rt == nil || !rt.Trace {
		return
	}
	indent := strings.Repeat("  ", rt.cls.Depth()-1)
	Printf("%s%s\n", indent, fmt.Sprintf(format, a...))
}
