package toolchain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	out := t.TempDir()
	t.Setenv(EnvTarget, "x86_64-pc-windows-msvc")
	t.Setenv(EnvOutDir, out)
	t.Setenv(EnvWxConfig, "/opt/wx/bin/wx-config")
	t.Setenv(EnvWxDir, `C:\wxWidgets`)

	ctx, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "x86_64-pc-windows-msvc", ctx.Target)
	assert.Equal(t, out, ctx.OutDir)
	assert.Equal(t, "/opt/wx/bin/wx-config", ctx.ConfigCommand)
	assert.Equal(t, `C:\wxWidgets`, ctx.InstallDir)
	assert.True(t, ctx.ManualDir())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvTarget, "")
	t.Setenv(EnvOutDir, "")
	t.Setenv(EnvWxConfig, "")
	t.Setenv(EnvWxDir, "")

	ctx, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, HostTriple(), ctx.Target)
	assert.Equal(t, DefaultOut, filepath.Base(ctx.OutDir))
	assert.Equal(t, DefaultWxCfg, ctx.ConfigCommand)
	assert.Empty(t, ctx.InstallDir)
	assert.True(t, filepath.IsAbs(ctx.OutDir))
	assert.False(t, ctx.ManualDir())
}

func TestLoad_MissingTarget(t *testing.T) {
	v := NewViper()
	v.Set(KeyTarget, " ")

	_, err := Load(v)
	assert.ErrorContains(t, err, EnvTarget)
}

func TestContext_Triple(t *testing.T) {
	tests := []struct {
		target  string
		os      string
		arch    string
		env     string
		msvc    bool
		darwin  bool
		archive string
		runtime string
	}{
		{"x86_64-pc-windows-msvc", "windows", "x86_64", "msvc", true, false, "wxgo.lib", "stdc++"},
		{"x86_64-pc-windows-gnu", "windows", "x86_64", "gnu", false, false, "libwxgo.a", "stdc++"},
		{"aarch64-apple-darwin", "darwin", "aarch64", "", false, true, "libwxgo.a", "c++"},
		{"x86_64-unknown-linux-gnu", "linux", "x86_64", "gnu", false, false, "libwxgo.a", "stdc++"},
		{"x86_64-unknown-freebsd", "freebsd", "x86_64", "", false, false, "libwxgo.a", "c++"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			ctx := Context{Target: tt.target}
			assert.Equal(t, tt.os, ctx.OS())
			assert.Equal(t, tt.arch, ctx.Arch())
			assert.Equal(t, tt.env, ctx.Env())
			assert.Equal(t, tt.msvc, ctx.IsMSVC())
			assert.Equal(t, tt.darwin, ctx.IsDarwin())
			assert.Equal(t, tt.archive, ctx.ArchiveName("wxgo"))
			assert.Equal(t, tt.runtime, ctx.CxxRuntime())
		})
	}
}

func TestManualDir_RequiresMSVC(t *testing.T) {
	ctx := Context{Target: "x86_64-unknown-linux-gnu", InstallDir: "/opt/wx"}
	assert.False(t, ctx.ManualDir())
}

func TestHostTriple(t *testing.T) {
	ctx := Context{Target: HostTriple()}
	assert.NotEqual(t, "unknown", ctx.OS())
	assert.NotEmpty(t, ctx.Arch())
}
