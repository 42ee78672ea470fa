package builder

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/qobs-build/wxbuild/internal/bridge"
	"github.com/qobs-build/wxbuild/internal/cc"
	"github.com/qobs-build/wxbuild/internal/directive"
	"github.com/qobs-build/wxbuild/internal/msg"
	"github.com/qobs-build/wxbuild/internal/shell"
	"github.com/qobs-build/wxbuild/internal/toolchain"
	"github.com/qobs-build/wxbuild/internal/wx"
)

// LibName is the name of the archive every source folder is compiled into.
const LibName = "wxgo"

var errNoSourceFolder = errors.New("no source folder given")

// Request describes one build. It is not modified by the builder.
type Request struct {
	SourceFolder string
	EmitBridge   bool
	// AppName is the wxApp subclass the bridge starts.
	AppName string
	// StateType is the Go type passed through the bridge, empty for none.
	StateType string
	// Package is the Go package of the generated cgo files.
	Package string
	// Extra holds additional compile settings from the manifest.
	Extra BuildSection
}

// RequestFromManifest fills a Request for folder from its manifest.
func RequestFromManifest(folder string, m *Manifest) Request {
	return Request{
		SourceFolder: folder,
		EmitBridge:   m.App.Bridge,
		AppName:      m.App.Name,
		StateType:    m.App.State,
		Package:      cmp.Or(m.App.Package, "main"),
		Extra:        m.Build,
	}
}

func (r Request) bridgeOptions() bridge.Options {
	return bridge.Options{AppName: r.AppName, StateType: r.StateType, Package: r.Package}
}

// Result reports what a build did.
type Result struct {
	Archive  string
	Compiled bool
	Units    []string
}

type Builder struct {
	ctx      toolchain.Context
	runner   shell.Runner
	resolver *wx.Resolver
	now      func() time.Time
}

func NewBuilder(ctx toolchain.Context, runner shell.Runner) *Builder {
	return &Builder{
		ctx:      ctx,
		runner:   runner,
		resolver: wx.NewResolver(ctx, runner),
		now:      time.Now,
	}
}

// Resolver exposes the toolkit resolver used by the builder.
func (b *Builder) Resolver() *wx.Resolver { return b.resolver }

// ArchivePath is where the archive for this toolchain is written.
func (b *Builder) ArchivePath() string {
	return filepath.Join(b.ctx.OutDir, b.ctx.ArchiveName(LibName))
}

// Build recompiles the archive when it is stale and then emits the link
// directives for the archive and the toolkit, whether or not anything was
// compiled.
func (b *Builder) Build(req Request, e directive.Emitter) (*Result, error) {
	if req.SourceFolder == "" {
		return nil, errNoSourceFolder
	}
	if err := os.MkdirAll(b.ctx.OutDir, 0755); err != nil {
		return nil, err
	}

	res := &Result{Archive: b.ArchivePath()}

	// an output directory inside the source folder changes on every build
	var skip []string
	if entry := enclosingEntry(req.SourceFolder, b.ctx.OutDir); entry != "" {
		skip = append(skip, entry)
	}
	stale, err := IsStale(res.Archive, req.SourceFolder, b.now(), skip...)
	if err != nil {
		msg.Warn("could not check %s, rebuilding: %v", req.SourceFolder, err)
		stale = true
	}

	if stale {
		units, err := b.compile(req)
		if err != nil {
			return nil, err
		}
		res.Compiled = true
		res.Units = units
	} else {
		msg.Info("%s is up to date", filepath.Base(res.Archive))
	}

	if err := b.EmitLinks(e); err != nil {
		return nil, err
	}
	return res, nil
}

// EmitLinks emits the directives for the archive followed by the toolkit's.
func (b *Builder) EmitLinks(e directive.Emitter) error {
	if err := e.Emit(directive.SearchPath(b.ctx.OutDir)); err != nil {
		return err
	}
	if err := e.Emit(directive.Library(LibName)); err != nil {
		return err
	}
	if err := b.resolver.EmitLinks(e); err != nil {
		return fmt.Errorf("failed to resolve toolkit libraries: %w", err)
	}
	return nil
}

// Configure registers the toolkit and platform flags for req on unit.
func (b *Builder) Configure(req Request, unit *cc.Build) error {
	if req.Extra.MacOSMin != "" {
		if _, err := semver.NewVersion(req.Extra.MacOSMin); err != nil {
			return fmt.Errorf("invalid macos_min %q: %w", req.Extra.MacOSMin, err)
		}
	}
	if _, err := b.resolver.ResolveFlags(unit); err != nil {
		return err
	}
	b.resolver.ApplyPlatformFlags(unit, wx.PlatformOptions{
		Std:      req.Extra.Std,
		MacOSMin: req.Extra.MacOSMin,
	})

	for _, inc := range req.Extra.Includes {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(req.SourceFolder, inc)
		}
		unit.Include(inc)
	}
	for _, name := range slices.Sorted(maps.Keys(req.Extra.Defines)) {
		unit.Define(name, req.Extra.Defines[name])
	}
	for _, flag := range req.Extra.Cxxflags {
		unit.Flag(flag)
	}
	return nil
}

// compile builds the whole archive from scratch.
func (b *Builder) compile(req Request) ([]string, error) {
	unit := cc.New(b.ctx, b.runner)

	sources, err := collectSources(req.SourceFolder)
	if err != nil {
		return nil, err
	}
	for _, src := range sources {
		unit.File(src)
	}

	if err := b.Configure(req, unit); err != nil {
		return nil, err
	}

	if req.EmitBridge {
		unit.Include(req.SourceFolder)
		src, err := bridge.Generate(b.ctx.OutDir, req.bridgeOptions())
		if err != nil {
			return nil, err
		}
		unit.File(src)
	}

	if len(unit.Files()) == 0 {
		msg.Warn("no %s files in %s", SourceExt, req.SourceFolder)
	}

	if _, err := unit.Compile(b.ctx.OutDir, LibName); err != nil {
		return nil, err
	}
	return unit.Files(), nil
}
