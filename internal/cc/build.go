// Package cc registers C++ compilation units and turns them into a static
// archive with the host toolchain, in either the GNU or the MSVC dialect.
package cc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qobs-build/wxbuild/internal/msg"
	"github.com/qobs-build/wxbuild/internal/shell"
	"github.com/qobs-build/wxbuild/internal/toolchain"
)

var errNoCompiler = errors.New("no C++ compiler found, set CXX")

type define struct {
	name, value string
}

// Build collects compilation units and flags. Methods return the receiver so
// registration can be chained.
type Build struct {
	ctx      toolchain.Context
	runner   shell.Runner
	compiler string
	archiver string

	files    []string
	flags    []string
	defines  []define
	includes []string
	cpp      bool
	warnings bool
}

func New(ctx toolchain.Context, runner shell.Runner) *Build {
	return &Build{
		ctx:      ctx,
		runner:   runner,
		compiler: findCompiler(ctx.IsMSVC()),
		archiver: findArchiver(ctx.IsMSVC()),
		warnings: true,
	}
}

func (b *Build) File(path string) *Build {
	b.files = append(b.files, path)
	return b
}

// Flag adds an opaque compiler flag, passed through unchanged.
func (b *Build) Flag(flag string) *Build {
	b.flags = append(b.flags, flag)
	return b
}

func (b *Build) Define(name, value string) *Build {
	b.defines = append(b.defines, define{name, value})
	return b
}

func (b *Build) Include(dir string) *Build {
	b.includes = append(b.includes, dir)
	return b
}

func (b *Build) Cpp(cpp bool) *Build {
	b.cpp = cpp
	return b
}

// Warnings toggles compiler warnings for every unit.
func (b *Build) Warnings(on bool) *Build {
	b.warnings = on
	return b
}

// Compiler overrides the discovered compiler driver.
func (b *Build) Compiler(path string) *Build {
	b.compiler = path
	return b
}

// Files returns the registered units in registration order.
func (b *Build) Files() []string { return b.files }

// Flags returns the opaque flags in registration order.
func (b *Build) Flags() []string { return b.flags }

// CompileArgs returns the compiler arguments for one unit.
func (b *Build) CompileArgs(src, obj string) []string {
	if b.ctx.IsMSVC() {
		return append(b.CommonArgs(), "/c", src, "/Fo"+obj)
	}
	return append(b.CommonArgs(), "-c", src, "-o", obj)
}

// CommonArgs returns the arguments shared by every unit.
func (b *Build) CommonArgs() []string {
	if b.ctx.IsMSVC() {
		return b.msvcArgs()
	}
	return b.gnuArgs()
}

func (b *Build) gnuArgs() []string {
	args := make([]string, 0, len(b.flags)+len(b.includes)+len(b.defines)+8)
	if b.ctx.OS() != "windows" && !b.ctx.IsDarwin() {
		args = append(args, "-fPIC")
	}
	for _, inc := range b.includes {
		args = append(args, "-I"+inc)
	}
	for _, d := range b.defines {
		args = append(args, "-D"+defineString(d))
	}
	args = append(args, b.flags...)
	if b.cpp {
		args = append(args, "-x", "c++")
	}
	if !b.warnings {
		args = append(args, "-w")
	}
	return args
}

func (b *Build) msvcArgs() []string {
	args := make([]string, 0, len(b.flags)+len(b.includes)+len(b.defines)+6)
	args = append(args, "/nologo")
	for _, inc := range b.includes {
		args = append(args, "/I"+inc)
	}
	for _, d := range b.defines {
		args = append(args, "/D"+defineString(d))
	}
	args = append(args, b.flags...)
	if b.cpp {
		args = append(args, "/TP")
	}
	if !b.warnings {
		args = append(args, "/w")
	}
	return args
}

func defineString(d define) string {
	if d.value == "" {
		return d.name
	}
	return d.name + "=" + d.value
}

// objectNames maps each unit to a unique object file name.
func (b *Build) objectNames() []string {
	ext := ".o"
	if b.ctx.IsMSVC() {
		ext = ".obj"
	}
	seen := make(map[string]int, len(b.files))
	names := make([]string, len(b.files))
	for i, src := range b.files {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		n := seen[base]
		seen[base] = n + 1
		if n > 0 {
			base = fmt.Sprintf("%s-%d", base, n)
		}
		names[i] = base + ext
	}
	return names
}

// Compile compiles every unit into outDir and archives the objects as lib.
// Any previous archive is replaced, never updated in place.
func (b *Build) Compile(outDir, lib string) (string, error) {
	if b.compiler == "" {
		return "", errNoCompiler
	}

	objDir := filepath.Join(outDir, "obj")
	if err := os.MkdirAll(objDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	progress := msg.NewProgress(len(b.files), "Compiling", msg.Output)
	objs := make([]string, len(b.files))
	for i, name := range b.objectNames() {
		src := b.files[i]
		objs[i] = filepath.Join(objDir, name)
		progress.Step(filepath.Base(src))
		if err := b.runner.Run(b.compiler, b.CompileArgs(src, objs[i])...); err != nil {
			return "", fmt.Errorf("compiling %s: %w", src, err)
		}
	}

	archive := filepath.Join(outDir, b.ctx.ArchiveName(lib))
	if err := os.Remove(archive); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to remove old archive: %w", err)
	}

	var args []string
	if b.ctx.IsMSVC() {
		args = append([]string{"/nologo", "/OUT:" + archive}, objs...)
	} else {
		args = append([]string{"rcs", archive}, objs...)
	}
	if err := b.runner.Run(b.archiver, args...); err != nil {
		return "", fmt.Errorf("archiving %s: %w", archive, err)
	}
	progress.Finish(filepath.Base(archive))

	return archive, nil
}
