package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set with -ldflags "-X .../cmd.version=v1.2.0". Without it the
// module version from the build info is used, e.g. for go install.
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, commit and Go toolchain",
	Run: func(cmd *cobra.Command, args []string) {
		v, commit := buildVersion()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "secando", v)
		if commit != "" {
			fmt.Fprintln(out, "commit ", commit)
		}
		fmt.Fprintln(out, "go     ", runtime.Version())
	},
}

// buildVersion returns the release version and the VCS revision the binary
// was built from, with a "+dirty" suffix for modified trees.
func buildVersion() (v, commit string) {
	v = version
	info, ok := debug.ReadBuildInfo()
	if !ok {
		if v == "" {
			v = "(devel)"
		}
		return v, ""
	}
	if v == "" {
		v = info.Main.Version
	}
	if v == "" {
		v = "(devel)"
	}

	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
			if len(commit) > 12 {
				commit = commit[:12]
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if commit != "" && dirty {
		commit += "+dirty"
	}
	return v, commit
}
