// wxbuild init [app], wxbuild new [path] [app]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/qobs-build/wxbuild/internal/builder"
	"github.com/qobs-build/wxbuild/internal/msg"
	"github.com/spf13/cobra"
)

func writefile(content string, elem ...string) {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = os.WriteFile(path, []byte(content), 0o644); err != nil {
			msg.Fatal("create file %s: %v", path, err)
		}
		fmt.Fprintf(msg.Output, "%s file: %s\n", color.HiGreenString("Created"), filepath.ToSlash(path))
	}
}

func mkdir(elem ...string) {
	path := filepath.Join(elem...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		msg.Fatal("mkdir %s: %v", path, err)
	}
}

func getProgramName() string {
	if len(os.Args) == 0 {
		return "wxbuild"
	}
	basename := filepath.Base(os.Args[0])
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

// initIn scaffolds a source folder for the wxApp subclass app in an existing
// directory. Files that already exist are left alone.
func initIn(dir, app string) {
	lower := strings.ToLower(app)
	guard := strings.ToUpper(app) + "_H"

	// wxbuild.toml
	writefile(`[app]
name = "`+app+`"
bridge = true
package = "main"

[build]
std = "c++17"

[build.'target_os == "darwin"']
macos_min = "10.12"
`, dir, builder.ManifestFile)

	// <app>.h
	writefile(`#ifndef `+guard+`
#define `+guard+`

#include <wx/wx.h>

class `+app+` : public wxApp {
public:
    bool OnInit() override;
};

#endif
`, dir, lower+".h")

	// <app>.cpp, the bridge provides wxIMPLEMENT_APP_NO_MAIN
	writefile(`#include "`+lower+`.h"

bool `+app+`::OnInit() {
    auto *frame = new wxFrame(nullptr, wxID_ANY, "`+app+`");
    frame->Show(true);
    return true;
}
`, dir, lower+".cpp")

	// .gitignore
	writefile(`build/
`, dir, ".gitignore")

	programName := getProgramName()
	fmt.Fprintf(msg.Output, "You can now do %s to build.\n", color.HiCyanString(programName+" "+dir))
}

var initCmd = &cobra.Command{
	Use:   "init [app]",
	Short: "Create a source folder for a wxApp subclass in the current directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initIn(".", args[0])
	},
}

var newCmd = &cobra.Command{
	Use:   "new [path] [app]",
	Short: "Create a source folder for a wxApp subclass in a new directory",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		mkdir(args[0])
		initIn(args[0], args[1])
	},
}

func init() {
	// wxbuild init subcommand
	rootCmd.AddCommand(initCmd)

	// wxbuild new subcommand
	rootCmd.AddCommand(newCmd)
}
