package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/branding"
	"github.com/dotai-labs/dotai/internal/lockfile"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

type versionInfo struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	Date        string `json:"date"`
	LockVersion string `json:"lockVersion"`
	Go          string `json:"go"`
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		info := versionInfo{
			Version:     buildVersion,
			Commit:      buildCommit,
			Date:        buildDate,
			LockVersion: lockfile.Version,
			Go:          runtime.Version(),
		}
		if versionJSON {
			return writeJSON(out, info)
		}

		fmt.Fprintf(out, "%s %s (commit %s, built %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		fmt.Fprintf(out, "lock file format %s, %s\n", info.LockVersion, info.Go)
		return nil
	},
}
