package lispy

// ArgCheck validates a builtin's arguments. Checks chain; the first
// failure sticks and later checks are skipped.
//
//	if err := Check("car", args).Nargs(1).NonEmptyList(1).Err(); err != nil {
//		return nil, err
//	}
//
// Positions count from 1, args[0] being the procedure itself.
type ArgCheck struct {
	name string
	args Seq
	err  error
}

func Check(name string, args Seq) *ArgCheck {
	return &ArgCheck{name: name, args: args}
}

func (c *ArgCheck) Err() error {
	return c.err
}

// Nargs requires exactly n arguments after the head.
func (c *ArgCheck) Nargs(n int) *ArgCheck {
	if c.err != nil {
		return c
	}
	if got := len(c.args) - 1; got != n {
		c.err = TypeError("%s expects %d argument(s), got %d in %s",
			c.name, n, got, printForm(c.args))
	}
	return c
}

// Kind requires argument i to be of kind k.
func (c *ArgCheck) Kind(i int, k Kind) *ArgCheck {
	if c.err != nil {
		return c
	}
	x, err := c.Arg(i)
	if err != nil {
		c.err = err
		return c
	}
	if x.Kind() != k {
		c.err = TypeError("%s: %s should have type %s, not %s",
			c.name, Print(x), k, x.Kind())
	}
	return c
}

// QuotedList requires argument i to be a quoted list.
func (c *ArgCheck) QuotedList(i int) *ArgCheck {
	if c.err != nil {
		return c
	}
	x, err := c.Arg(i)
	if err != nil {
		c.err = err
		return c
	}
	if _, ok := QuotedList(x); !ok {
		c.err = TypeError("%s: %s is not a quoted list", c.name, Print(x))
	}
	return c
}

// NonEmptyList requires argument i to be a quoted, non-empty list.
func (c *ArgCheck) NonEmptyList(i int) *ArgCheck {
	if c.QuotedList(i); c.err != nil {
		return c
	}
	l, _ := QuotedList(c.args[i])
	if l.Len() == 0 {
		c.err = TypeError("%s: %s is empty", c.name, Print(c.args[i]))
	}
	return c
}

// Arg returns argument i. An index past the end after arity was
// checked is a bug in the builtin, not in user code.
func (c *ArgCheck) Arg(i int) (Sexp, error) {
	if i < 1 || i >= len(c.args) {
		return nil, InternalError("%s: argument %d out of range in %s",
			c.name, i, printForm(c.args))
	}
	return c.args[i], nil
}
