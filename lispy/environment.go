package lispy

import (
	"fmt"
	"sort"
	"strings"
)

// Environment is one lexical scope: symbol name to value. The global
// environment lives as long as its Runtime; every saturated call gets
// a fresh one that is dropped when the call returns.
type Environment struct {
	Name     string
	IsGlobal bool
	m        map[string]Sexp
}

func NewEnvironment(name string) *Environment {
	return &Environment{
		Name: name,
		m:    make(map[string]Sexp),
	}
}

// Get returns the stored value itself; callers that keep it must
// Clone it.
func (e *Environment) Get(name string) (Sexp, bool) {
	v, ok := e.m[name]
	return v, ok
}

// Set takes ownership of val. A later Set of the same name overwrites.
func (e *Environment) Set(name string, val Sexp) {
	e.m[name] = val
}

// release drops every binding, giving back the references they hold.
func (e *Environment) release() {
	for k, v := range e.m {
		Drop(v)
		delete(e.m, k)
	}
}

func (e *Environment) Delete(name string) {
	delete(e.m, name)
}

func (e *Environment) Len() int {
	return len(e.m)
}

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.m))
	for k := range e.m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Show lists the bindings one per line, for the REPL's .ls command.
func (e *Environment) Show(indent int) string {
	rep := strings.Repeat(" ", indent)
	label := "scope " + e.Name
	if e.IsGlobal {
		label += " (global)"
	}
	s := rep + label + "\n"
	for _, k := range e.Names() {
		s += fmt.Sprintf("%s   %s -> %s\n", rep, k, Print(e.m[k]))
	}
	return s
}
