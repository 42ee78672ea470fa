package msg

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Output receives every diagnostic. Stdout is reserved for link directives,
// so this defaults to stderr.
var Output io.Writer = os.Stderr

// Verbose enables Debug output and command echo.
var Verbose bool

func line(prefix, format string, a ...any) {
	fmt.Fprint(Output, prefix)
	fmt.Fprint(Output, ": ")
	fmt.Fprintf(Output, format, a...)
	fmt.Fprint(Output, "\n")
}

func Error(format string, a ...any) {
	line(color.HiRedString("error"), format, a...)
}

func Warn(format string, a ...any) {
	line(color.YellowString("warn"), format, a...)
}

func Fatal(format string, a ...any) {
	line(color.RedString("fatal"), format, a...)
	os.Exit(1)
}

func Info(format string, a ...any) {
	line(color.HiGreenString("info"), format, a...)
}

func Debug(format string, a ...any) {
	if !Verbose {
		return
	}
	line(color.HiBlackString("debug"), format, a...)
}

// IndentWriter prefixes every line written through it, used to nest
// compiler output under the unit being compiled.
type IndentWriter struct {
	Indent    string
	W         io.Writer
	didIndent bool
}

func (w *IndentWriter) Write(p []byte) (n int, err error) {
	for _, c := range p {
		if !w.didIndent {
			if _, err := w.W.Write([]byte(w.Indent)); err != nil {
				return n, err
			}
			w.didIndent = true
		}
		if _, err := w.W.Write([]byte{c}); err != nil { // FIXME-perf: buffer this
			return n, err
		}
		n++
		if c == '\n' || c == '\r' {
			w.didIndent = false
		}
	}
	return n, nil
}
