package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/catalog"
	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/installer"
)

var (
	installAssistants []string
	installMethod     string
	installNoBridge   bool
)

var installCmd = &cobra.Command{
	Use:   "install <type>/<id>...",
	Short: "Install catalog items",
	Long: `Install catalog items into the canonical .ai/ directory and record them in
the lock file. Assistants come from --assistant, then stored preferences,
then detection. In project scope, missing bridge files are written
afterwards; existing ones are never overwritten.

Example:
  dotai install skills/code-review rules/no-secrets --assistant claude,cursor`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringSliceVarP(&installAssistants, "assistant", "a", nil, "Assistant ids to wire (comma-separated)")
	installCmd.Flags().StringVar(&installMethod, "method", "", "copy or symlink (default: preference, then copy)")
	installCmd.Flags().BoolVar(&installNoBridge, "no-bridge", false, "Do not write missing bridge files")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	ctx := cmd.Context()

	cat, err := a.catalog()
	if err != nil {
		return err
	}
	items := make([]catalog.Item, 0, len(args))
	for _, ref := range args {
		t, id, err := content.ParseKey(ref)
		if err != nil {
			return err
		}
		item, err := cat.Get(ctx, t, id)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	ids, err := a.assistantsFor(ctx, installAssistants)
	if err != nil {
		return err
	}
	method, err := a.method(ctx, installMethod)
	if err != nil {
		return err
	}
	inst, err := a.installer()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Installing for %v (%s scope)...\n", ids, a.scope)

	sum := inst.Install(ctx, items, installer.Options{
		Assistants:  ids,
		Scope:       a.scope,
		Method:      method,
		ProjectRoot: a.projectRoot,
	})

	p := newPrinter(out)
	base := a.env.BaseDir(a.scope, a.projectRoot)
	for _, r := range sum.Results {
		if !r.Success {
			p.fail("%s: %v", r.Item.Key(), r.Err)
			continue
		}
		p.ok("%s %s", r.Item.Key(), p.dim(fmt.Sprintf("→ %s (%s)", relOrAbs(base, r.Path), r.Method)))
	}
	fmt.Fprintf(out, "\nInstalled %d of %d.\n", sum.Successful, sum.Total)

	if a.scope == content.ScopeProject && !installNoBridge && sum.Successful > 0 {
		if err := writeBridges(cmd, a, ids, false); err != nil {
			return err
		}
	}

	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d items failed", sum.Failed, sum.Total)
	}
	return nil
}

func relOrAbs(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
