package lispy

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test020EnvironmentSetOverwrites(t *testing.T) {

	cv.Convey(`Given an environment, a later Set of the same name should overwrite and Names should come back sorted`, t, func() {
		env := NewEnvironment("test")
		env.Set("b", MakeInt(1))
		env.Set("a", MakeInt(2))
		env.Set("b", MakeInt(3))
		cv.So(env.Len(), cv.ShouldEqual, 2)
		v, ok := env.Get("b")
		cv.So(ok, cv.ShouldBeTrue)
		cv.So(Print(v), cv.ShouldEqual, "3")
		cv.So(env.Names(), cv.ShouldResemble, []string{"a", "b"})

		env.Delete("a")
		_, ok = env.Get("a")
		cv.So(ok, cv.ShouldBeFalse)
		cv.So(env.Show(0), cv.ShouldContainSubstring, "b -> 3")
	})
}

func Test021ClosureFindsInnermostFirst(t *testing.T) {

	cv.Convey(`Given a scope chain, Find should search from the innermost frame to the global one, and releasing a guard should pop its frame exactly once`, t, func() {
		rt := NewRuntimeWithFuncs(nil)
		cls := rt.Closure()
		cls.Global().Set("x", MakeInt(1))
		cls.Global().Set("y", MakeInt(100))
		cv.So(cls.Depth(), cv.ShouldEqual, 1)
		cv.So(cls.Global().IsGlobal, cv.ShouldBeTrue)

		inner := NewEnvironment("inner")
		inner.Set("x", MakeInt(2))
		guard := cls.Push(inner)
		cv.So(cls.Depth(), cv.ShouldEqual, 2)
		cv.So(cls.Top(), cv.ShouldEqual, inner)

		v, ok := cls.Find("x")
		cv.So(ok, cv.ShouldBeTrue)
		cv.So(Print(v), cv.ShouldEqual, "2")
		v, ok = cls.Find("y")
		cv.So(ok, cv.ShouldBeTrue)
		cv.So(Print(v), cv.ShouldEqual, "100")
		_, ok = cls.Find("z")
		cv.So(ok, cv.ShouldBeFalse)

		deeper := cls.Push(NewEnvironment("deeper"))
		cv.So(cls.Depth(), cv.ShouldEqual, 3)

		// releasing the outer guard also drops everything above it.
		guard.Release()
		cv.So(cls.Depth(), cv.ShouldEqual, 1)
		deeper.Release()
		guard.Release()
		cv.So(cls.Depth(), cv.ShouldEqual, 1)

		v, _ = cls.Find("x")
		cv.So(Print(v), cv.ShouldEqual, "1")
	})
}

func Test022ClearKeepsGlobalFrame(t *testing.T) {

	cv.Convey(`Given frames left over on the chain, Clear should truncate back to the global frame only`, t, func() {
		rt := NewRuntime()
		cls := rt.Closure()
		cls.Push(NewEnvironment("a"))
		cls.Push(NewEnvironment("b"))
		cv.So(cls.Depth(), cv.ShouldEqual, 3)
		rt.Clear()
		cv.So(cls.Depth(), cv.ShouldEqual, 1)
		cls.TruncateToSize(0)
		cv.So(cls.Depth(), cv.ShouldEqual, 1)
		cv.So(cls.Show(), cv.ShouldContainSubstring, "(global)")
	})
}

func Test023PoppedFrameReleasesBindings(t *testing.T) {

	cv.Convey(`Given a list bound in a call frame, popping the frame should give back its reference so the remaining holder can edit in place`, t, func() {
		rt := NewRuntime()
		l := MakeList(Seq{MakeInt(1)})
		env := NewEnvironment("call")
		env.Set("x", l.Clone())
		cv.So(l.cell.Refs(), cv.ShouldEqual, 2)

		guard := rt.Closure().Push(env)
		guard.Release()
		cv.So(l.cell.Refs(), cv.ShouldEqual, 1)
		cv.So(env.Len(), cv.ShouldEqual, 0)

		alias := l
		elems := l.MutElems()
		*elems = append(*elems, MakeInt(2))
		cv.So(l.cell.Same(alias.cell), cv.ShouldBeTrue)
		cv.So(Print(l), cv.ShouldEqual, "(1 2)")
	})

	cv.Convey(`Given a procedure call that binds a global list, the global should be unchanged and usable after the frame is released`, t, func() {
		rt := NewRuntime()
		evalPrint(rt, "(define l '(1 2))")
		evalPrint(rt, "(define f (lambda (x) (cons 0 x)))")
		cv.So(evalPrint(rt, "(f l)"), cv.ShouldEqual, "'(0 1 2)")
		cv.So(evalPrint(rt, "(f l)"), cv.ShouldEqual, "'(0 1 2)")
		cv.So(evalPrint(rt, "l"), cv.ShouldEqual, "'(1 2)")
		cv.So(rt.Closure().Depth(), cv.ShouldEqual, 1)
	})
}
