// wxbuild flags [path]
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/qobs-build/wxbuild/internal/builder"
	"github.com/qobs-build/wxbuild/internal/cc"
	"github.com/qobs-build/wxbuild/internal/msg"
	"github.com/spf13/cobra"
)

// printFlags resolves the compiler flags for folder without compiling
// anything and prints them on one line.
func printFlags(cmd *cobra.Command, folder string, stdout io.Writer) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}
	req, err := requestFor(cmd, folder, ctx)
	if err != nil {
		return err
	}

	unit := cc.New(ctx, runner)
	if err := builder.NewBuilder(ctx, runner).Configure(req, unit); err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, strings.Join(unit.CommonArgs(), " "))
	return err
}

var flagsCmd = &cobra.Command{
	Use:   "flags [source folder]",
	Short: "Print the compiler flags a build would use",
	Long:  `Print the compiler flags a build of the source folder would use. If no path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := "."
		if len(args) > 0 {
			target = args[0]
		}
		if err := printFlags(cmd, target, os.Stdout); err != nil {
			msg.Fatal("%v", err)
		}
	},
}

func init() {
	// wxbuild flags subcommand
	rootCmd.AddCommand(flagsCmd)
}
