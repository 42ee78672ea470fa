package shell

import (
	"fmt"
	"os/exec"
	"strings"
)

// Fake is a scripted Runner for tests. Commands are keyed by their full
// command line ("wx-config --libs"); unknown commands fail as if the
// executable did not exist.
type Fake struct {
	Outputs map[string]string
	Errors  map[string]error
	// Hook, if set, runs on every Run call after recording it; tests use it
	// to produce the files a real tool would.
	Hook func(name string, args []string) error
	// Calls records every command line in order.
	Calls []string
}

func (f *Fake) key(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

func (f *Fake) Output(name string, args ...string) ([]byte, error) {
	k := f.key(name, args)
	f.Calls = append(f.Calls, k)
	if err, ok := f.Errors[k]; ok {
		return []byte(f.Outputs[k]), err
	}
	if out, ok := f.Outputs[k]; ok {
		return []byte(out), nil
	}
	return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func (f *Fake) Run(name string, args ...string) error {
	k := f.key(name, args)
	f.Calls = append(f.Calls, k)
	if err, ok := f.Errors[k]; ok {
		return err
	}
	if f.Hook != nil {
		return f.Hook(name, args)
	}
	return nil
}

// Count returns how many recorded calls start with prefix.
func (f *Fake) Count(prefix string) int {
	n := 0
	for _, c := range f.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *Fake) String() string {
	return fmt.Sprintf("Fake%q", f.Calls)
}
