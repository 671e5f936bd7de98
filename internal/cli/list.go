package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/lockfile"
)

var (
	listTypeFilter string
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed items",
	Long:  `List items recorded in the lock file for the current scope.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listTypeFilter, "type", "", "Filter by type (skills, agents, commands, rules, prompts)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	ctx := cmd.Context()
	store := a.store()

	var (
		items []lockfile.InstalledItem
		err   error
	)
	if listTypeFilter != "" {
		t, perr := content.Parse(listTypeFilter)
		if perr != nil {
			return perr
		}
		items, err = store.ItemsByType(ctx, t)
	} else {
		items, err = store.Items(ctx)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		if items == nil {
			items = []lockfile.InstalledItem{}
		}
		return writeJSON(out, items)
	}

	if len(items) == 0 {
		fmt.Fprintf(out, "No items installed (%s scope).\n", a.scope)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tASSISTANTS\tMETHOD\tINSTALLED")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			item.Key(),
			strings.Join(item.Assistants, ","),
			item.Method,
			item.InstalledAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return tw.Flush()
}
