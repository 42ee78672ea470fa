// Package wx resolves how to compile against and link with an installed
// wxWidgets: through wx-config where available, or through the layout of a
// Windows installation directory.
package wx

import (
	"cmp"
	"errors"
	"path/filepath"
	"strings"

	"github.com/qobs-build/wxbuild/internal/cc"
	"github.com/qobs-build/wxbuild/internal/msg"
	"github.com/qobs-build/wxbuild/internal/shell"
	"github.com/qobs-build/wxbuild/internal/toolchain"
)

var ErrUnresolved = errors.New("no WX_CONFIG or WX_DIR set: wx-config could not be run and no MSVC install directory is configured")

const (
	DefaultMacOSMin  = "10.12"
	DefaultDarwinStd = "c++11"

	// StaticLibDir is probed for lib<name>.a before linking a wx-config
	// library dynamically.
	StaticLibDir = "/usr/local/lib"
)

// Resolver answers toolkit questions for one toolchain.
type Resolver struct {
	Ctx          toolchain.Context
	Runner       shell.Runner
	StaticLibDir string
}

func NewResolver(ctx toolchain.Context, runner shell.Runner) *Resolver {
	return &Resolver{Ctx: ctx, Runner: runner, StaticLibDir: StaticLibDir}
}

// FlagSource is one way of discovering the toolkit's compiler flags. Apply
// reports whether it succeeded; a failed source must leave b untouched.
type FlagSource struct {
	Name  string
	Apply func(r *Resolver, b *cc.Build) bool
}

// FlagSources lists the sources in priority order.
var FlagSources = []FlagSource{
	{Name: "wx-config", Apply: (*Resolver).applyConfigTool},
	{Name: "install directory", Apply: (*Resolver).applyInstallDir},
}

// ResolveFlags applies the first flag source that succeeds and returns its
// name, or ErrUnresolved when none does.
func (r *Resolver) ResolveFlags(b *cc.Build) (string, error) {
	for _, src := range FlagSources {
		if src.Apply(r, b) {
			msg.Debug("toolkit flags from %s", src.Name)
			return src.Name, nil
		}
	}
	return "", ErrUnresolved
}

func (r *Resolver) applyConfigTool(b *cc.Build) bool {
	out, err := r.Runner.Output(r.Ctx.ConfigCommand, "--cxxflags")
	if !shell.Started(err) {
		msg.Debug("%s --cxxflags: %v", r.Ctx.ConfigCommand, err)
		return false
	}
	if err != nil {
		msg.Warn("%s --cxxflags: %v", r.Ctx.ConfigCommand, err)
	}
	for _, flag := range strings.Fields(string(out)) {
		b.Flag(flag)
	}
	return true
}

func (r *Resolver) applyInstallDir(b *cc.Build) bool {
	if !r.Ctx.ManualDir() {
		return false
	}
	include := filepath.Join(r.Ctx.InstallDir, "include")
	b.Define("__WXMSW__", "1")
	b.Define("_UNICODE", "1")
	b.Include(include)
	b.Include(filepath.Join(include, "msvc"))
	return true
}

// PlatformOptions tweak the flags added by ApplyPlatformFlags. Empty fields
// take the platform defaults.
type PlatformOptions struct {
	Std      string
	MacOSMin string
}

// ApplyPlatformFlags switches b to C++ and adds the target specific flags.
// Warnings are silenced: wx headers are noisy and nothing here can fix them.
func (r *Resolver) ApplyPlatformFlags(b *cc.Build, opts PlatformOptions) {
	b.Cpp(true)
	switch {
	case r.Ctx.IsDarwin():
		b.Flag("-mmacosx-version-min=" + cmp.Or(opts.MacOSMin, DefaultMacOSMin))
		b.Flag("-std=" + cmp.Or(opts.Std, DefaultDarwinStd))
	case r.Ctx.IsMSVC():
		b.Flag("/EHsc")
		if opts.Std != "" {
			b.Flag("/std:" + opts.Std)
		}
	default:
		if opts.Std != "" {
			b.Flag("-std=" + opts.Std)
		}
	}
	b.Warnings(false)
}
