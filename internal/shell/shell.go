// Package shell is the only place wxbuild starts external processes:
// the wx-config queries, the compiler, and the archiver.
package shell

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/qobs-build/wxbuild/internal/msg"
)

// Runner starts external commands. All calls block until the command exits.
type Runner interface {
	// Output runs the command and returns its stdout.
	Output(name string, args ...string) ([]byte, error)
	// Run runs the command with its output forwarded to the diagnostics stream.
	Run(name string, args ...string) error
}

// System runs commands on the host.
type System struct{}

func (System) Output(name string, args ...string) ([]byte, error) {
	msg.Debug("exec %s %s", name, strings.Join(args, " "))

	var stdout bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = msg.Output
	err := cmd.Run()
	return stdout.Bytes(), err
}

func (System) Run(name string, args ...string) error {
	msg.Debug("exec %s %s", name, strings.Join(args, " "))

	cmd := exec.Command(name, args...)
	cmd.Stdout = &msg.IndentWriter{Indent: "    ", W: msg.Output}
	cmd.Stderr = &msg.IndentWriter{Indent: "    ", W: msg.Output}
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// Started reports whether err (as returned by a Runner) still means the
// process was spawned, i.e. it only exited with a non-zero status.
func Started(err error) bool {
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
