package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/platform"
	"github.com/dotai-labs/dotai/internal/userdata"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create the canonical root and repair lock file permissions")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the canonical layout and lock file",
	Long: `Check the canonical .ai/ directory and cross-check it against the lock
file: entries without content, content without entries, and copies that
were edited after install.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		out := cmd.OutOrStdout()

		if err := userdata.CheckLayout(out, a.env, a.scope, a.projectRoot, doctorFix); err != nil {
			return err
		}

		fmt.Fprintln(out, "\nPlatform:")
		if platform.IsSymlinkSupported() {
			fmt.Fprintln(out, "  [ OK ] symlink installs available")
		} else {
			fmt.Fprintln(out, "  [WARN] symlinks unavailable; installs will copy")
		}

		inst, err := a.installer()
		if err != nil {
			return err
		}
		rep, err := inst.Doctor(cmd.Context(), a.scope, a.projectRoot)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "\nLock file vs content:")
		if rep.Healthy() {
			fmt.Fprintln(out, "  [ OK ] lock file and .ai/ agree")
			return nil
		}
		for _, key := range rep.Missing {
			fmt.Fprintf(out, "  [MISS] %s is in the lock file but has no content; reinstall it\n", key)
		}
		for _, key := range rep.Untracked {
			fmt.Fprintf(out, "  [WARN] %s exists but is not in the lock file\n", key)
		}
		for _, key := range rep.Modified {
			fmt.Fprintf(out, "  [WARN] %s was edited after install; reinstalling will replace it\n", key)
		}
		return nil
	},
}
