package lispy

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test001CellShareAndMut(t *testing.T) {

	cv.Convey(`Given a cell shared by two handles, Mut through one handle should copy the storage and leave the other handle's view unchanged`, t, func() {
		a := NewCell(Seq{MakeInt(1), MakeInt(2)})
		cv.So(a.Refs(), cv.ShouldEqual, 1)

		b := a.Share()
		cv.So(a.Refs(), cv.ShouldEqual, 2)
		cv.So(a.Same(b), cv.ShouldBeTrue)

		p := b.Mut()
		*p = append(*p, MakeInt(3))

		cv.So(a.Same(b), cv.ShouldBeFalse)
		cv.So(a.Refs(), cv.ShouldEqual, 1)
		cv.So(b.Refs(), cv.ShouldEqual, 1)
		cv.So(len(a.Get()), cv.ShouldEqual, 2)
		cv.So(len(b.Get()), cv.ShouldEqual, 3)
		cv.So(PrintSeq(a.Get()), cv.ShouldEqual, "1 2")
		cv.So(PrintSeq(b.Get()), cv.ShouldEqual, "1 2 3")
	})
}

func Test002CellExclusiveMutIsInPlace(t *testing.T) {

	cv.Convey(`Given a cell with a single reference, Mut should hand back the existing storage without copying`, t, func() {
		a := NewCell(Names{"x"})
		alias := a // uncounted, only to observe identity
		p := a.Mut()
		*p = append(*p, "y")
		cv.So(a.Same(alias), cv.ShouldBeTrue)
		cv.So(a.Refs(), cv.ShouldEqual, 1)
		cv.So([]string(a.Get()), cv.ShouldResemble, []string{"x", "y"})
	})
}

func Test003CellRelease(t *testing.T) {

	cv.Convey(`Given a shared cell, Release should drop one count, so the survivor can then mutate in place`, t, func() {
		a := NewCell(Seq{MakeInt(1)})
		b := a.Share()
		b.Release()
		cv.So(b.Refs(), cv.ShouldEqual, 0)
		cv.So(a.Refs(), cv.ShouldEqual, 1)

		alias := a
		a.Mut()
		cv.So(a.Same(alias), cv.ShouldBeTrue)
	})
}

func Test004NestedCellsAreSharedByClone(t *testing.T) {

	cv.Convey(`Given a list of lists, copying the outer storage on Mut should share (not copy) the inner lists`, t, func() {
		inner := MakeList(Seq{MakeInt(1)})
		outer := NewCell(Seq{inner})
		other := outer.Share()

		p := other.Mut()
		*p = append(*p, MakeInt(2))

		got := (*p)[0].(SexpList)
		cv.So(got.cell.Same(inner.cell), cv.ShouldBeTrue)
		cv.So(inner.cell.Refs(), cv.ShouldEqual, 2)
		cv.So(len(outer.Get()), cv.ShouldEqual, 1)
	})
}
