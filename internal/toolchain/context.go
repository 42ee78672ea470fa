package toolchain

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys and the environment variables they are read from.
const (
	KeyTarget    = "target"
	KeyOutDir    = "out_dir"
	KeyWxConfig  = "wx_config"
	KeyWxDir     = "wx_dir"
	EnvTarget    = "TARGET"
	EnvOutDir    = "OUT_DIR"
	EnvWxConfig  = "WX_CONFIG"
	EnvWxDir     = "WX_DIR"
	DefaultWxCfg = "wx-config"
	DefaultOut   = "build"
)

// Context describes the toolchain a build runs against. It is read once at
// startup and never modified.
type Context struct {
	// Target is the target triple, e.g. x86_64-pc-windows-msvc.
	Target string
	// OutDir receives the archive and any generated files.
	OutDir string
	// ConfigCommand is the wx-config executable to query.
	ConfigCommand string
	// InstallDir is the wxWidgets installation directory, empty if unset.
	InstallDir string
}

// NewViper returns a viper instance with the toolchain keys bound to their
// environment variables and defaults. Callers may bind flags on top.
func NewViper() *viper.Viper {
	v := viper.New()
	_ = v.BindEnv(KeyTarget, EnvTarget)
	_ = v.BindEnv(KeyOutDir, EnvOutDir)
	_ = v.BindEnv(KeyWxConfig, EnvWxConfig)
	_ = v.BindEnv(KeyWxDir, EnvWxDir)

	v.SetDefault(KeyTarget, HostTriple())
	v.SetDefault(KeyOutDir, DefaultOut)
	v.SetDefault(KeyWxConfig, DefaultWxCfg)
	v.SetDefault(KeyWxDir, "")
	return v
}

// Load derives a Context from v.
func Load(v *viper.Viper) (Context, error) {
	ctx := Context{
		Target:        strings.TrimSpace(v.GetString(KeyTarget)),
		OutDir:        v.GetString(KeyOutDir),
		ConfigCommand: v.GetString(KeyWxConfig),
		InstallDir:    v.GetString(KeyWxDir),
	}
	if ctx.Target == "" {
		return Context{}, fmt.Errorf("%s is empty", EnvTarget)
	}
	if ctx.ConfigCommand == "" {
		ctx.ConfigCommand = DefaultWxCfg
	}
	if ctx.OutDir == "" {
		return Context{}, fmt.Errorf("%s is empty", EnvOutDir)
	}
	abs, err := filepath.Abs(ctx.OutDir)
	if err != nil {
		return Context{}, fmt.Errorf("invalid output directory: %w", err)
	}
	ctx.OutDir = abs
	return ctx, nil
}

func (c Context) IsMSVC() bool   { return strings.Contains(c.Target, "msvc") }
func (c Context) IsDarwin() bool { return strings.Contains(c.Target, "darwin") }

// ManualDir reports whether the toolkit should be taken from InstallDir
// instead of wx-config.
func (c Context) ManualDir() bool {
	return c.InstallDir != "" && c.IsMSVC()
}

// Arch is the first component of the triple.
func (c Context) Arch() string {
	arch, _, _ := strings.Cut(c.Target, "-")
	return arch
}

// OS returns the operating system named by the triple, in GOOS spelling.
func (c Context) OS() string {
	for _, os := range []string{"windows", "darwin", "linux", "freebsd", "netbsd", "openbsd", "android", "ios"} {
		if strings.Contains(c.Target, os) {
			return os
		}
	}
	return "unknown"
}

// Env returns the ABI component of the triple (msvc, gnu, musl, ...), or "".
func (c Context) Env() string {
	parts := strings.Split(c.Target, "-")
	if len(parts) < 4 {
		return ""
	}
	return parts[3]
}

// ArchiveName returns the file name the archiver produces for lib.
func (c Context) ArchiveName(lib string) string {
	if c.IsMSVC() {
		return lib + ".lib"
	}
	return "lib" + lib + ".a"
}

// CxxRuntime is the C++ standard library wx-config builds are linked against.
func (c Context) CxxRuntime() string {
	switch c.OS() {
	case "darwin", "ios", "freebsd", "openbsd":
		return "c++"
	}
	return "stdc++"
}

// HostTriple returns a target triple describing the machine wxbuild runs on.
func HostTriple() string {
	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "i686"
	}

	switch runtime.GOOS {
	case "darwin":
		return arch + "-apple-darwin"
	case "windows":
		return arch + "-pc-windows-msvc"
	case "linux":
		return arch + "-unknown-linux-gnu"
	default:
		return arch + "-unknown-" + runtime.GOOS
	}
}
