// Package bridge generates the glue that lets a Go program start a
// wxWidgets application compiled into the wxbuild archive: a C++ unit
// exporting wx_start, and a cgo stub calling it.
package bridge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	SourceFile = "wxbridge.cpp"
	StubFile   = "wxbridge.go"
	// Symbol is the exported C entry point.
	Symbol = "wx_start"
	// StateVar holds the caller state handed to wx_start.
	StateVar = "g_wxgo_state"
)

// Options configure the generated bridge.
type Options struct {
	// AppName is the wxApp subclass, in exact case. A header named after its
	// lower-cased form must exist in the source folder and declare it.
	AppName string
	// StateType, if set, makes wx_start take an opaque pointer to a Go value
	// of this type and publish it through StateVar.
	StateType string
	// Package is the Go package the stub belongs to.
	Package string
}

// Header returns the application header the bridge includes.
func (o Options) Header() string {
	return strings.ToLower(o.AppName) + ".h"
}

func (o Options) validate() error {
	if o.AppName == "" {
		return fmt.Errorf("bridge needs an application name")
	}
	if o.Package == "" {
		return fmt.Errorf("bridge needs a Go package name")
	}
	return nil
}

// Source renders the C++ entry point unit.
func Source(o Options) string {
	var sb strings.Builder
	writeln(&sb, "// Code generated by wxbuild. DO NOT EDIT.")
	writeln(&sb)
	writeln(&sb, "#include <wx/wx.h>")
	writeln(&sb, `#include "`, o.Header(), `"`)
	writeln(&sb)
	writeln(&sb, "wxIMPLEMENT_APP_NO_MAIN(", o.AppName, ");")
	writeln(&sb)
	if o.StateType != "" {
		writeln(&sb, "// ", StateVar, " is assigned exactly once, by ", Symbol, ", before the event")
		writeln(&sb, "// loop starts, and stays valid until ", Symbol, " returns. The application")
		writeln(&sb, "// may read it from any handler; nothing else writes it.")
		writeln(&sb, "void *", StateVar, " = NULL;")
		writeln(&sb)
	}
	writeln(&sb, `extern "C" {`)
	if o.StateType != "" {
		writeln(&sb, "void ", Symbol, "(void *state) {")
	} else {
		writeln(&sb, "void ", Symbol, "(void) {")
	}
	writeln(&sb, "    char **argv = nullptr;")
	writeln(&sb, "    int argc = 0;")
	if o.StateType != "" {
		writeln(&sb, "    ", StateVar, " = state;")
	}
	writeln(&sb, "    wxEntry(argc, argv);")
	writeln(&sb, "}")
	writeln(&sb, "}")
	return sb.String()
}

// Stub renders the cgo side of the bridge.
func Stub(o Options) string {
	var sb strings.Builder
	writeln(&sb, "// Code generated by wxbuild. DO NOT EDIT.")
	writeln(&sb)
	writeln(&sb, "package ", o.Package)
	writeln(&sb)
	if o.StateType != "" {
		writeln(&sb, "// extern void ", Symbol, "(void *state);")
	} else {
		writeln(&sb, "// extern void ", Symbol, "(void);")
	}
	writeln(&sb, `import "C"`)
	writeln(&sb)

	if o.StateType == "" {
		writeln(&sb, "// Start runs the ", o.AppName, " event loop and returns once the GUI exits.")
		writeln(&sb, "func Start() {")
		writeln(&sb, "\tC.", Symbol, "()")
		writeln(&sb, "}")
		return sb.String()
	}

	writeln(&sb, "import (")
	writeln(&sb, "\t\"runtime\"")
	writeln(&sb, "\t\"unsafe\"")
	writeln(&sb, ")")
	writeln(&sb)
	writeln(&sb, "// Start runs the ", o.AppName, " event loop and returns once the GUI exits.")
	writeln(&sb, "// state is visible to the application as ", StateVar, " until then.")
	writeln(&sb, "func Start(state *", o.StateType, ") {")
	writeln(&sb, "\tvar pinner runtime.Pinner")
	writeln(&sb, "\tpinner.Pin(state)")
	writeln(&sb, "\tdefer pinner.Unpin()")
	writeln(&sb, "\tC.", Symbol, "(unsafe.Pointer(state))")
	writeln(&sb, "}")
	return sb.String()
}

// Generate writes both bridge files into outDir and returns the path of the
// C++ unit to compile.
func Generate(outDir string, o Options) (string, error) {
	if err := o.validate(); err != nil {
		return "", err
	}
	src := filepath.Join(outDir, SourceFile)
	if err := os.WriteFile(src, []byte(Source(o)), 0o644); err != nil {
		return "", fmt.Errorf("writing bridge source: %w", err)
	}
	stub := filepath.Join(outDir, StubFile)
	if err := os.WriteFile(stub, []byte(Stub(o)), 0o644); err != nil {
		return "", fmt.Errorf("writing bridge stub: %w", err)
	}
	return src, nil
}

func writeln(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
	sb.WriteByte('\n')
}
