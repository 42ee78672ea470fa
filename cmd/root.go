// wxbuild [path], wxbuild build [path]
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/qobs-build/wxbuild/internal/builder"
	"github.com/qobs-build/wxbuild/internal/directive"
	"github.com/qobs-build/wxbuild/internal/msg"
	"github.com/qobs-build/wxbuild/internal/shell"
	"github.com/qobs-build/wxbuild/internal/toolchain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg    *viper.Viper = toolchain.NewViper()
	runner shell.Runner = shell.System{}

	flagBridge  bool
	flagApp     string
	flagState   string
	flagPackage string
	flagEmitTo  string
	flagVerbose bool
	flagFormat  EnumValue = NewEnumValue(directive.FormatCargo, directive.Formats)
)

// loadContext reads the toolchain context from the environment and the
// persistent flags.
func loadContext() (toolchain.Context, error) {
	return toolchain.Load(cfg)
}

// requestFor builds the request for folder from its manifest, with any flag
// given on the command line taking precedence.
func requestFor(cmd *cobra.Command, folder string, ctx toolchain.Context) (builder.Request, error) {
	m, err := builder.LoadManifest(folder, builder.NewConfigEnv(ctx))
	if err != nil {
		return builder.Request{}, err
	}
	req := builder.RequestFromManifest(folder, m)

	flags := cmd.Flags()
	if flags.Changed("bridge") {
		req.EmitBridge = flagBridge
	}
	if flags.Changed("app") {
		req.AppName = flagApp
	}
	if flags.Changed("state") {
		req.StateType = flagState
	}
	if flags.Changed("package") {
		req.Package = flagPackage
	}
	return req, nil
}

// runBuild performs a full build of folder and writes the link directives to
// stdout, or to --emit-to when given.
func runBuild(cmd *cobra.Command, folder string, stdout io.Writer) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}
	req, err := requestFor(cmd, folder, ctx)
	if err != nil {
		return err
	}

	// directives are only released once the whole build succeeded
	var buf bytes.Buffer
	e, err := directive.NewEmitter(flagFormat.Value(), &buf, ctx, req.Package)
	if err != nil {
		return err
	}

	msg.Debug("target %s, output %s", ctx.Target, ctx.OutDir)
	res, err := builder.NewBuilder(ctx, runner).Build(req, e)
	if err != nil {
		return err
	}
	if res.Compiled {
		msg.Debug("compiled %d units into %s", len(res.Units), res.Archive)
	}
	if err := e.Close(); err != nil {
		return err
	}

	if flagEmitTo != "" {
		if err := os.WriteFile(flagEmitTo, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", flagEmitTo, err)
		}
		return nil
	}
	_, err = buf.WriteTo(stdout)
	return err
}

func doBuild(cmd *cobra.Command, args []string) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	if err := runBuild(cmd, target, os.Stdout); err != nil {
		msg.Fatal("%v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wxbuild [source folder]",
	Short: "Build wxWidgets sources for a Go or Rust program",
	Long: `Compiles the *.cpp files of a source folder against wxWidgets into a
static archive and prints the directives needed to link it. If no path is
given, uses "."`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		msg.Verbose = flagVerbose
	},
	Run: doBuild,
}

var buildCmd = &cobra.Command{
	Use:   "build [source folder]",
	Short: "Build the source folder",
	Long:  `Build the source folder. If no path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doBuild,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("target", "", "Target triple (default $TARGET or the host)")
	pf.String("out-dir", "", "Output directory (default $OUT_DIR or \"build\")")
	pf.String("wx-config", "", "wx-config executable (default $WX_CONFIG or \"wx-config\")")
	pf.String("wx-dir", "", "wxWidgets install directory for MSVC (default $WX_DIR)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Echo every command that is run")

	_ = cfg.BindPFlag(toolchain.KeyTarget, pf.Lookup("target"))
	_ = cfg.BindPFlag(toolchain.KeyOutDir, pf.Lookup("out-dir"))
	_ = cfg.BindPFlag(toolchain.KeyWxConfig, pf.Lookup("wx-config"))
	_ = cfg.BindPFlag(toolchain.KeyWxDir, pf.Lookup("wx-dir"))

	addBuildFlags(rootCmd)

	// wxbuild build subcommand
	rootCmd.AddCommand(buildCmd)
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	addRequestFlags(cmd)
	cmd.Flags().VarP(&flagFormat, "format", "f", "Directive format, one of "+flagFormat.HelpString())
	cmd.RegisterFlagCompletionFunc("format", flagFormat.CompletionFunc())
	cmd.Flags().StringVarP(&flagEmitTo, "emit-to", "o", "", "Write directives to this file instead of stdout")
}

// addRequestFlags registers the flags that override the manifest.
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&flagBridge, "bridge", "b", false, "Generate the wx_start bridge")
	cmd.Flags().StringVarP(&flagApp, "app", "a", "", "wxApp subclass started by the bridge")
	cmd.Flags().StringVarP(&flagState, "state", "s", "", "Go type handed to the application through the bridge")
	cmd.Flags().StringVarP(&flagPackage, "package", "p", "main", "Go package of the generated cgo files")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
