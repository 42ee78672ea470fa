package wx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/qobs-build/wxbuild/internal/directive"
	"github.com/qobs-build/wxbuild/internal/msg"
	"github.com/qobs-build/wxbuild/internal/shell"
)

// MSVCLibDir is the library directory of a 64-bit MSVC wxWidgets build.
func (r *Resolver) MSVCLibDir() string {
	return filepath.Join(r.Ctx.InstallDir, "lib", "vc_x64_lib")
}

// EmitLinks emits the directives needed to link the toolkit.
func (r *Resolver) EmitLinks(e directive.Emitter) error {
	var ds []directive.Directive
	var err error
	if r.Ctx.ManualDir() {
		ds, err = r.msvcLinks()
	} else {
		ds, err = r.configToolLinks()
	}
	if err != nil {
		return err
	}
	for _, d := range ds {
		if err := e.Emit(d); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) msvcLinks() ([]directive.Directive, error) {
	libDir := r.MSVCLibDir()
	if _, err := os.Stat(libDir); err != nil {
		return nil, fmt.Errorf("reading wx library directory: %w", err)
	}
	matches, err := doublestar.Glob(os.DirFS(libDir), "*.lib")
	if err != nil {
		return nil, fmt.Errorf("reading wx library directory: %w", err)
	}

	stems := make([]string, len(matches))
	for i, m := range matches {
		stems[i] = strings.TrimSuffix(m, ".lib")
	}

	ds := []directive.Directive{directive.SearchPath(libDir)}
	for _, stem := range SelectLibraries(stems) {
		ds = append(ds, directive.StaticLib(stem))
	}
	return ds, nil
}

func (r *Resolver) configToolLinks() ([]directive.Directive, error) {
	out, err := r.Runner.Output(r.Ctx.ConfigCommand, "--libs")
	if !shell.Started(err) {
		msg.Warn("could not run %s --libs: %v", r.Ctx.ConfigCommand, err)
		out = nil
	}
	return r.ParseLibs(string(out)), nil
}

// ParseLibs turns wx-config --libs output into directives, in input order,
// followed by the C++ runtime.
func (r *Resolver) ParseLibs(out string) []directive.Directive {
	var ds []directive.Directive
	framework := false
	for _, part := range strings.Fields(out) {
		switch {
		case strings.HasPrefix(part, "-L"):
			ds = append(ds, directive.SearchPath(strings.TrimPrefix(part, "-L")))
		case strings.HasPrefix(part, "-l"):
			name := strings.TrimPrefix(part, "-l")
			if r.hasStaticLib(name) {
				ds = append(ds, directive.SearchPath(r.StaticLibDir), directive.StaticLib(name))
			} else {
				ds = append(ds, directive.Library(name))
			}
		case part == "-framework":
			framework = true
		case framework:
			// a pending -framework only claims a token no other rule takes
			ds = append(ds, directive.FrameworkLib(part))
			framework = false
		case strings.HasSuffix(part, ".a"):
			stem := strings.TrimSuffix(filepath.Base(part), ".a")
			for strings.HasPrefix(stem, "lib") {
				stem = strings.TrimPrefix(stem, "lib")
			}
			ds = append(ds, directive.SearchPath(filepath.Dir(part)), directive.Library(stem))
		}
	}
	return append(ds, directive.Library(r.Ctx.CxxRuntime()))
}

func (r *Resolver) hasStaticLib(name string) bool {
	if r.StaticLibDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(r.StaticLibDir, "lib"+name+".a"))
	return err == nil
}
