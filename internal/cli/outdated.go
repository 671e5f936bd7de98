package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List installed items whose catalog content changed",
	Long: `Compare each installed item's recorded hash with the current catalog.
Items installed from a different catalog are skipped. Reinstall an item to
pick up its new content.`,
	Args: cobra.NoArgs,
	RunE: runOutdated,
}

func init() {
	rootCmd.AddCommand(outdatedCmd)
}

func runOutdated(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	inst, err := a.installer()
	if err != nil {
		return err
	}
	updates, err := inst.CheckForUpdates(cmd.Context(), a.scope, a.projectRoot)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(updates) == 0 {
		fmt.Fprintln(out, "Everything is up to date.")
		return nil
	}
	p := newPrinter(out)
	for _, u := range updates {
		if u.Missing {
			p.warn("%s %s", u.Key, p.dim("no longer in the catalog"))
			continue
		}
		p.warn("%s %s", u.Key, p.dim(fmt.Sprintf("%s → %s", u.InstalledHash, u.AvailableHash)))
	}
	return nil
}
