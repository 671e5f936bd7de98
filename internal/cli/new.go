package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/scaffold"
)

var (
	newDescription string
	newRoot        string
)

var newCmd = &cobra.Command{
	Use:   "new <type> <name>",
	Short: "Create a new catalog item from a template",
	Long: `Create <root>/<type>/<id>/<FILE>.md with valid frontmatter and a starter
body. The id is the kebab-case form of name. Root defaults to catalog_root,
then the current directory.

Example:
  dotai new skill "API Review" --description "Review HTTP APIs. Use when adding endpoints."`,
	Args: cobra.ExactArgs(2),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newDescription, "description", "d", "", "Description written into the frontmatter")
	newCmd.Flags().StringVar(&newRoot, "root", "", "Template root to write into")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	t, err := content.Parse(args[0])
	if err != nil {
		return err
	}
	a := appFrom(cmd)

	root := a.cfg.CatalogRoot()
	if newRoot != "" {
		root = a.env.ResolvePath(newRoot)
	}
	if root == "" {
		root = a.env.WorkDir()
	}

	result, err := scaffold.Generate(t, args[1], newDescription, root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := newPrinter(out)
	p.ok("created %s", result.File)
	for _, w := range result.Warnings {
		p.warn("%s", w)
	}
	fmt.Fprintf(out, "\nInstall it with: %s install %s\n", rootCmd.Name(), content.Key(t, result.ID))
	return nil
}
