package lispy

import (
	"fmt"
)

// Closure is the scope chain: the global environment first, the most
// local last. Lookups walk it from the top down.
type Closure struct {
	frames []*Environment
	rt     *Runtime
}

func newClosure(rt *Runtime, global *Environment) *Closure {
	global.IsGlobal = true
	return &Closure{
		frames: []*Environment{global},
		rt:     rt,
	}
}

// Runtime is the interpreter this chain belongs to.
func (cls *Closure) Runtime() *Runtime {
	return cls.rt
}

func (cls *Closure) Global() *Environment {
	return cls.frames[0]
}

func (cls *Closure) Top() *Environment {
	return cls.frames[len(cls.frames)-1]
}

func (cls *Closure) Depth() int {
	return len(cls.frames)
}

// Find returns the innermost binding of name. The value is not a copy;
// it is released with its frame, so Clone it to keep it.
func (cls *Closure) Find(name string) (Sexp, bool) {
	for i := len(cls.frames) - 1; i >= 0; i-- {
		if v, ok := cls.frames[i].Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// ScopeGuard pops the frame it was created for. Release is idempotent,
// so it is always safe to defer.
type ScopeGuard struct {
	cls   *Closure
	depth int
	done  bool
}

// Push adds env as the innermost frame. The caller must arrange for
// the returned guard to be released on every exit path:
//
//	guard := cls.Push(env)
//	defer guard.Release()
func (cls *Closure) Push(env *Environment) *ScopeGuard {
	cls.frames = append(cls.frames, env)
	return &ScopeGuard{cls: cls, depth: len(cls.frames) - 1}
}

func (g *ScopeGuard) Release() {
	if g == nil || g.done {
		return
	}
	g.done = true
	g.cls.TruncateToSize(g.depth)
}

// TruncateToSize drops frames until newsize remain, releasing their
// bindings. The global frame is never dropped.
func (cls *Closure) TruncateToSize(newsize int) {
	if newsize < 1 {
		newsize = 1
	}
	if newsize >= len(cls.frames) {
		return
	}
	for i := newsize; i < len(cls.frames); i++ {
		cls.frames[i].release()
		cls.frames[i] = nil
	}
	cls.frames = cls.frames[:newsize]
}

// Show renders the chain, innermost frame first.
func (cls *Closure) Show() string {
	s := fmt.Sprintf("closure with %d frame(s)\n", len(cls.frames))
	for i := len(cls.frames) - 1; i >= 0; i-- {
		s += cls.frames[i].Show(4)
	}
	return s
}
