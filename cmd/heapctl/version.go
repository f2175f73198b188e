package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.gitCommit=...". When left
// empty they are filled from the module build info.
var (
	version   string
	gitCommit string
)

// buildVersion returns the version and VCS revision of this binary.
func buildVersion(info *debug.BuildInfo, ok bool) (ver, rev string) {
	ver, rev = version, gitCommit
	if ok && info != nil {
		if ver == "" && info.Main.Version != "" {
			ver = info.Main.Version
		}
		for _, s := range info.Settings {
			if rev == "" && s.Key == "vcs.revision" {
				rev = s.Value
			}
		}
	}
	if ver == "" {
		ver = "dev"
	}
	if rev == "" {
		rev = "none"
	}
	return ver, rev
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		ver, rev := buildVersion(debug.ReadBuildInfo())
		fmt.Fprintf(cmd.OutOrStdout(), "heapctl %s\n  commit: %s\n", ver, rev)
	},
}

func init() {
	ver, _ := buildVersion(debug.ReadBuildInfo())
	rootCmd.Version = ver
	rootCmd.AddCommand(versionCmd)
}
