package lispy

import (
	"sync/atomic"
)

// Cloner is implemented by every payload a Cell can hold. Clone must
// return a value that owns its own storage at the top level; nested
// cells may be shared (their counts are bumped instead of copied).
type Cloner[T any] interface {
	Clone() T
}

type cellBox[T Cloner[T]] struct {
	val  T
	refs atomic.Int32
}

// Cell is a reference counted, copy-on-write holder. Copying a Cell
// value without calling Share() aliases the storage without counting
// it, so code that keeps a second handle must always go through Share.
//
// Mut is the only way to get a writable pointer to the payload.
type Cell[T Cloner[T]] struct {
	box *cellBox[T]
}

func NewCell[T Cloner[T]](v T) Cell[T] {
	b := &cellBox[T]{val: v}
	b.refs.Store(1)
	return Cell[T]{box: b}
}

// Share returns a second handle on the same storage.
func (c Cell[T]) Share() Cell[T] {
	if c.box != nil {
		c.box.refs.Add(1)
	}
	return c
}

// Get gives read access. Callers must not write through slices or
// maps reachable from the returned value.
func (c Cell[T]) Get() T {
	if c.box == nil {
		var zero T
		return zero
	}
	return c.box.val
}

// Mut returns exclusively owned, writable storage. If the storage is
// shared it is copied first and this handle is re-pointed at the copy;
// the other holders keep the old storage untouched.
func (c *Cell[T]) Mut() *T {
	if c.box == nil {
		var zero T
		*c = NewCell(zero)
		return &c.box.val
	}
	if c.box.refs.Load() == 1 {
		return &c.box.val
	}
	fresh := &cellBox[T]{val: c.box.val.Clone()}
	fresh.refs.Store(1)
	c.box.refs.Add(-1)
	c.box = fresh
	return &fresh.val
}

// Release drops this handle's reference. The handle must not be used
// afterwards.
func (c *Cell[T]) Release() {
	if c.box == nil {
		return
	}
	c.box.refs.Add(-1)
	c.box = nil
}

func (c Cell[T]) Refs() int {
	if c.box == nil {
		return 0
	}
	return int(c.box.refs.Load())
}

// Same reports whether both handles alias the same storage.
func (c Cell[T]) Same(other Cell[T]) bool {
	return c.box != nil && c.box == other.box
}
