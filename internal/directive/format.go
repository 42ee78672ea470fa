package directive

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/qobs-build/wxbuild/internal/toolchain"
)

const (
	FormatCargo   = "cargo"
	FormatLdflags = "ldflags"
	FormatCgo     = "cgo"
)

// Formats maps every supported output format to its help text.
var Formats = map[string]string{
	FormatCargo:   "cargo:rustc-link-* build script lines",
	FormatLdflags: "one linker flag per line",
	FormatCgo:     "a Go file with #cgo LDFLAGS directives",
}

// NewEmitter returns an Emitter writing format to w. pkg is the Go package
// name used by the cgo format.
func NewEmitter(format string, w io.Writer, ctx toolchain.Context, pkg string) (Emitter, error) {
	switch format {
	case FormatCargo:
		return &lineEmitter{w: w, render: Cargo}, nil
	case FormatLdflags:
		return &lineEmitter{w: w, render: func(d Directive) string { return Ldflag(ctx, d) }}, nil
	case FormatCgo:
		return &cgoEmitter{w: w, ctx: ctx, pkg: pkg}, nil
	}
	return nil, fmt.Errorf("unknown directive format %q", format)
}

// Cargo renders d as a cargo build script instruction.
func Cargo(d Directive) string {
	switch d.Kind {
	case Search:
		return "cargo:rustc-link-search=native=" + d.Value
	case Static:
		return "cargo:rustc-link-lib=static=" + d.Value
	case Framework:
		return "cargo:rustc-link-lib=framework=" + d.Value
	default:
		return "cargo:rustc-link-lib=" + d.Value
	}
}

// Ldflag renders d as a linker flag in the target's dialect.
func Ldflag(ctx toolchain.Context, d Directive) string {
	if ctx.IsMSVC() {
		if d.Kind == Search {
			return "/LIBPATH:" + d.Value
		}
		return strings.TrimSuffix(d.Value, ".lib") + ".lib"
	}

	switch d.Kind {
	case Search:
		return "-L" + d.Value
	case Static:
		if ctx.IsDarwin() {
			// ld64 has no -l: syntax; it prefers the archive when no dylib sits next to it
			return "-l" + d.Value
		}
		return "-l:lib" + d.Value + ".a"
	case Framework:
		return "-framework " + d.Value
	default:
		return "-l" + d.Value
	}
}

type lineEmitter struct {
	w      io.Writer
	render func(Directive) string
}

func (e *lineEmitter) Emit(d Directive) error {
	_, err := fmt.Fprintln(e.w, e.render(d))
	return err
}

func (e *lineEmitter) Close() error { return nil }

// cgoEmitter buffers directives and writes a complete Go source file on Close.
type cgoEmitter struct {
	w     io.Writer
	ctx   toolchain.Context
	pkg   string
	flags []string
}

func (e *cgoEmitter) Emit(d Directive) error {
	flag := Ldflag(e.ctx, d)
	if d.Kind == Search && strings.ContainsAny(d.Value, " \t") {
		flag = "-L" + strconv.Quote(d.Value)
	}
	e.flags = append(e.flags, flag)
	return nil
}

func (e *cgoEmitter) Close() error {
	var sb strings.Builder
	writeln(&sb, "// Code generated by wxbuild. DO NOT EDIT.")
	writeln(&sb)
	writeln(&sb, "package ", e.pkg)
	writeln(&sb)
	for _, flag := range e.flags {
		writeln(&sb, "// #cgo LDFLAGS: ", flag)
	}
	writeln(&sb, `import "C"`)
	_, err := io.WriteString(e.w, sb.String())
	return err
}

func writeln(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
	sb.WriteByte('\n')
}
