package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/content"
)

var uninstallAssistants []string

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <type>/<id>",
	Short: "Remove an installed item",
	Long: `Unwire assistants from an installed item. Without --assistant every
assistant is unwired. The content under .ai/ is deleted once no assistant
uses it.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().StringSliceVarP(&uninstallAssistants, "assistant", "a", nil, "Assistant ids to unwire (comma-separated)")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	t, id, err := content.ParseKey(args[0])
	if err != nil {
		return err
	}
	a := appFrom(cmd)
	inst, err := a.installer()
	if err != nil {
		return err
	}

	res, err := inst.Remove(cmd.Context(), t, id, uninstallAssistants, a.scope, a.projectRoot)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	key := content.Key(t, id)
	switch {
	case !res.Entry && !res.ContentRemoved:
		fmt.Fprintf(out, "%s is not installed (%s scope).\n", key, a.scope)
	case len(res.Remaining) > 0:
		fmt.Fprintf(out, "Unwired %s from %s; still used by %s.\n", key, strings.Join(uninstallAssistants, ","), strings.Join(res.Remaining, ","))
	default:
		fmt.Fprintf(out, "Removed %s\n", key)
	}
	return nil
}
