package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/content"
)

var (
	catalogListJSON bool
	lintStrict      bool
)

func init() {
	catalogListCmd.Flags().BoolVar(&catalogListJSON, "json", false, "Output in JSON format")
	catalogLintCmd.Flags().BoolVar(&lintStrict, "strict", false, "Fail on warnings as well as errors")
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogLintCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the template catalog",
	Long: `Inspect the catalog of installable items.

The builtin catalog ships inside the binary. Set catalog_root (or
DOTAI_CATALOG) to use a directory laid out as <type>/<id>/<FILE>.md instead.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every catalog item grouped by type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		cat, err := a.catalog()
		if err != nil {
			return err
		}
		items, err := cat.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}

		out := cmd.OutOrStdout()
		if catalogListJSON {
			return writeItemsJSON(out, items)
		}

		p := newPrinter(out)
		fmt.Fprintf(out, "Catalog: %s\n", cat.Source())
		for _, t := range content.All() {
			n := 0
			for _, item := range items {
				if item.Type == t {
					n++
				}
			}
			if n == 0 {
				continue
			}
			fmt.Fprintln(out)
			p.heading("%s (%d)", t, n)
			for _, item := range items {
				if item.Type == t {
					fmt.Fprintf(out, "  %-24s %s\n", item.ID, p.dim(truncate(item.Description, 70)))
				}
			}
		}
		return nil
	},
}

var catalogLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate every catalog item",
	Long: `Check every item directory: the content file must exist and be UTF-8,
frontmatter must pass validation with the directory name as the expected
name, and the body should have a heading.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		cat, err := a.catalog()
		if err != nil {
			return err
		}
		report, err := cat.Lint(cmd.Context())
		if err != nil {
			return fmt.Errorf("linting catalog: %w", err)
		}

		out := cmd.OutOrStdout()
		p := newPrinter(out)
		for _, e := range report.Entries {
			key := content.Key(e.Type, e.ID)
			switch {
			case e.Excluded:
				p.fail("%s: excluded: %s", key, e.Reason)
			case e.HasErrors():
				p.fail("%s", key)
			case len(e.Issues) > 0:
				p.warn("%s", key)
			default:
				p.ok("%s", key)
			}
			for _, issue := range e.Issues {
				fmt.Fprintf(out, "      %s\n", issue)
			}
		}

		items, errs, warnings := report.Counts()
		fmt.Fprintf(out, "\n%d items, %d errors, %d warnings\n", items, errs, warnings)
		if report.HasErrors() {
			return errors.New("catalog has errors")
		}
		if lintStrict && warnings > 0 {
			return errors.New("catalog has warnings")
		}
		return nil
	},
}
