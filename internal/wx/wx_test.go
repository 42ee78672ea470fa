package wx

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/qobs-build/wxbuild/internal/cc"
	"github.com/qobs-build/wxbuild/internal/directive"
	"github.com/qobs-build/wxbuild/internal/shell"
	"github.com/qobs-build/wxbuild/internal/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	linux  = toolchain.Context{Target: "x86_64-unknown-linux-gnu", ConfigCommand: "wx-config"}
	darwin = toolchain.Context{Target: "aarch64-apple-darwin", ConfigCommand: "wx-config"}
)

func msvc(dir string) toolchain.Context {
	return toolchain.Context{Target: "x86_64-pc-windows-msvc", ConfigCommand: "wx-config", InstallDir: dir}
}

func TestResolveFlags_ConfigTool(t *testing.T) {
	fake := &shell.Fake{Outputs: map[string]string{
		"wx-config --cxxflags": "-I/usr/lib/wx/include/gtk3-unicode-3.2 -I/usr/include/wx-3.2\n-D_FILE_OFFSET_BITS=64 -DWXUSINGDLL -D__WXGTK__ -pthread\n",
	}}
	r := NewResolver(linux, fake)
	b := cc.New(linux, fake)

	name, err := r.ResolveFlags(b)
	require.NoError(t, err)
	assert.Equal(t, "wx-config", name)
	assert.Equal(t, []string{
		"-I/usr/lib/wx/include/gtk3-unicode-3.2",
		"-I/usr/include/wx-3.2",
		"-D_FILE_OFFSET_BITS=64",
		"-DWXUSINGDLL",
		"-D__WXGTK__",
		"-pthread",
	}, b.Flags())
}

func TestResolveFlags_NonZeroExitStillCounts(t *testing.T) {
	fake := &shell.Fake{
		Outputs: map[string]string{"wx-config --cxxflags": "-DPARTIAL"},
		Errors:  map[string]error{"wx-config --cxxflags": &exec.ExitError{}},
	}
	r := NewResolver(linux, fake)
	b := cc.New(linux, fake)

	name, err := r.ResolveFlags(b)
	require.NoError(t, err)
	assert.Equal(t, "wx-config", name)
	assert.Equal(t, []string{"-DPARTIAL"}, b.Flags())
}

func TestResolveFlags_InstallDirFallback(t *testing.T) {
	ctx := msvc(`C:\wx`)
	r := NewResolver(ctx, &shell.Fake{})
	b := cc.New(ctx, &shell.Fake{})

	name, err := r.ResolveFlags(b)
	require.NoError(t, err)
	assert.Equal(t, "install directory", name)

	include := filepath.Join(`C:\wx`, "include")
	args := b.CompileArgs("a.cpp", "a.obj")
	assert.Contains(t, args, "/D__WXMSW__=1")
	assert.Contains(t, args, "/D_UNICODE=1")
	assert.Contains(t, args, "/I"+include)
	assert.Contains(t, args, "/I"+filepath.Join(include, "msvc"))
}

func TestResolveFlags_Unresolved(t *testing.T) {
	tests := []struct {
		name string
		ctx  toolchain.Context
	}{
		{"no install dir", linux},
		{"install dir but not msvc", toolchain.Context{Target: "x86_64-unknown-linux-gnu", ConfigCommand: "wx-config", InstallDir: "/opt/wx"}},
		{"msvc without install dir", msvc("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.ctx, &shell.Fake{})
			b := cc.New(tt.ctx, &shell.Fake{})

			_, err := r.ResolveFlags(b)
			assert.ErrorIs(t, err, ErrUnresolved)
			assert.Empty(t, b.Flags())
		})
	}
}

func TestApplyPlatformFlags(t *testing.T) {
	t.Run("darwin defaults", func(t *testing.T) {
		b := cc.New(darwin, &shell.Fake{})
		NewResolver(darwin, nil).ApplyPlatformFlags(b, PlatformOptions{})
		assert.Equal(t, []string{"-mmacosx-version-min=10.12", "-std=c++11"}, b.Flags())
		assert.Contains(t, b.CompileArgs("a.cpp", "a.o"), "-w")
	})

	t.Run("darwin overrides", func(t *testing.T) {
		b := cc.New(darwin, &shell.Fake{})
		NewResolver(darwin, nil).ApplyPlatformFlags(b, PlatformOptions{Std: "c++17", MacOSMin: "11.0"})
		assert.Equal(t, []string{"-mmacosx-version-min=11.0", "-std=c++17"}, b.Flags())
	})

	t.Run("msvc", func(t *testing.T) {
		ctx := msvc("")
		b := cc.New(ctx, &shell.Fake{})
		NewResolver(ctx, nil).ApplyPlatformFlags(b, PlatformOptions{})
		assert.Equal(t, []string{"/EHsc"}, b.Flags())
		assert.Contains(t, b.CompileArgs("a.cpp", "a.obj"), "/w")
	})

	t.Run("linux", func(t *testing.T) {
		b := cc.New(linux, &shell.Fake{})
		NewResolver(linux, nil).ApplyPlatformFlags(b, PlatformOptions{Std: "c++14"})
		assert.Equal(t, []string{"-std=c++14"}, b.Flags())
	})
}

func TestParseLibs(t *testing.T) {
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "libwx_osx_cocoau_core-3.2.a"), nil, 0o644))

	r := NewResolver(darwin, nil)
	r.StaticLibDir = staticDir

	out := "-L/usr/local/lib -framework IOKit -framework Carbon -lwx_osx_cocoau_core-3.2 -lwx_baseu-3.2 " +
		"/opt/wx/lib/libwxpng-3.2.a -pthread -Wl,-rpath,/x -lz\n"

	assert.Equal(t, []directive.Directive{
		directive.SearchPath("/usr/local/lib"),
		directive.FrameworkLib("IOKit"),
		directive.FrameworkLib("Carbon"),
		directive.SearchPath(staticDir),
		directive.StaticLib("wx_osx_cocoau_core-3.2"),
		directive.Library("wx_baseu-3.2"),
		directive.SearchPath("/opt/wx/lib"),
		directive.Library("wxpng-3.2"),
		directive.Library("z"),
		directive.Library("c++"),
	}, r.ParseLibs(out))
}

func TestParseLibs_PendingFrameworkYieldsToFlags(t *testing.T) {
	r := NewResolver(darwin, nil)
	r.StaticLibDir = t.TempDir()

	out := "-framework -L/opt/lib -lwx_baseu-3.2 Cocoa -framework /opt/lib/libfoo.a"

	assert.Equal(t, []directive.Directive{
		directive.SearchPath("/opt/lib"),
		directive.Library("wx_baseu-3.2"),
		directive.FrameworkLib("Cocoa"),
		directive.FrameworkLib("/opt/lib/libfoo.a"),
		directive.Library("c++"),
	}, r.ParseLibs(out))
}

func TestParseLibs_EmptyStillLinksRuntime(t *testing.T) {
	r := NewResolver(linux, nil)
	assert.Equal(t, []directive.Directive{directive.Library("stdc++")}, r.ParseLibs(""))
}

func TestEmitLinks_ConfigTool(t *testing.T) {
	fake := &shell.Fake{Outputs: map[string]string{"wx-config --libs": "-L/usr/lib -lwx_gtk3u_core-3.2"}}
	r := NewResolver(linux, fake)
	r.StaticLibDir = t.TempDir()

	c := &directive.Collector{}
	require.NoError(t, r.EmitLinks(c))
	assert.Equal(t, []directive.Directive{
		directive.SearchPath("/usr/lib"),
		directive.Library("wx_gtk3u_core-3.2"),
		directive.Library("stdc++"),
	}, c.Directives)
}

func TestEmitLinks_ConfigToolMissing(t *testing.T) {
	r := NewResolver(linux, &shell.Fake{})

	c := &directive.Collector{}
	require.NoError(t, r.EmitLinks(c))
	assert.Equal(t, []directive.Directive{directive.Library("stdc++")}, c.Directives)
}

func TestEmitLinks_MSVC(t *testing.T) {
	dir := t.TempDir()
	ctx := msvc(dir)
	r := NewResolver(ctx, &shell.Fake{})
	libDir := r.MSVCLibDir()
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	for _, name := range []string{
		"wxbase31u.lib", "wxbase31ud.lib", "wxbase31u_net.lib", "wxbase31ud_net.lib",
		"wxmsw31u_core.lib", "wxmsw31ud_core.lib", "wxpng.lib", "wxpngd.lib",
		"wxzlib.lib", "wxzlibd.lib", "wxregexu.lib", "readme.txt", "wxexpat.LIB",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(libDir, name), nil, 0o644))
	}

	c := &directive.Collector{}
	require.NoError(t, r.EmitLinks(c))

	assert.Equal(t, directive.SearchPath(libDir), c.Directives[0])
	assert.ElementsMatch(t, []directive.Directive{
		directive.StaticLib("wxbase31u"),
		directive.StaticLib("wxbase31u_net"),
		directive.StaticLib("wxmsw31u_core"),
		directive.StaticLib("wxpng"),
		directive.StaticLib("wxzlib"),
		directive.StaticLib("wxregexu"),
	}, c.Directives[1:])
}

func TestEmitLinks_MSVCMissingDir(t *testing.T) {
	r := NewResolver(msvc(t.TempDir()), &shell.Fake{})

	err := r.EmitLinks(&directive.Collector{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecide(t *testing.T) {
	tests := map[string]Decision{
		"wxmsw31ud_core":  Skip,
		"wxbase31ud":      Skip,
		"wxbase31ud_xml":  Skip,
		"wxmsw31u_core":   Link,
		"wxmsw31u_adv":    Link,
		"wxbase31u":       Link,
		"wxbase31u_net":   Link,
		"wxpngd":          Skip,
		"wxpng":           Link,
		"wxscintilla":     Link,
		"wxscintillad":    Skip,
		"wxmsw31u_gld":    Link,
		"wxbase31u_oddld": Link,
	}

	for stem, want := range tests {
		assert.Equal(t, want, Decide(stem), stem)
	}
}

func TestSelectLibraries_KeepsOrder(t *testing.T) {
	got := SelectLibraries([]string{"wxzlib", "wxzlibd", "wxbase31u", "wxbase31ud", "wxexpat"})
	assert.Equal(t, []string{"wxzlib", "wxbase31u", "wxexpat"}, got)
	assert.Equal(t, "link", Link.String())
	assert.Equal(t, "skip", Skip.String())
}
