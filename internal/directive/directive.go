// Package directive models the link instructions wxbuild hands to the
// consuming build and renders them in that build's textual convention.
package directive

import "fmt"

type Kind int

const (
	// Search adds a library search path.
	Search Kind = iota
	// Dylib links a library by name, letting the linker pick the flavour.
	Dylib
	// Static links a static archive by name.
	Static
	// Framework links an Apple framework.
	Framework
)

func (k Kind) String() string {
	switch k {
	case Search:
		return "search"
	case Dylib:
		return "dylib"
	case Static:
		return "static"
	case Framework:
		return "framework"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Directive struct {
	Kind  Kind
	Value string
}

func (d Directive) String() string { return d.Kind.String() + "=" + d.Value }

func SearchPath(dir string) Directive { return Directive{Search, dir} }
func Library(name string) Directive { return Directive{Dylib, name} }
func StaticLib(name string) Directive { return Directive{Static, name} }
func FrameworkLib(name string) Directive { return Directive{Framework, name} }

// Emitter receives directives in order. Close must be called once all
// directives are emitted; some formats only write on Close.
type Emitter interface {
	Emit(d Directive) error
	Close() error
}

// Collector is an Emitter that keeps directives in memory.
type Collector struct {
	Directives []Directive
}

func (c *Collector) Emit(d Directive) error {
	c.Directives = append(c.Directives, d)
	return nil
}

func (c *Collector) Close() error { return nil }
