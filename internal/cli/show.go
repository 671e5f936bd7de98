package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/frontmatter"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <type>/<id>",
	Short: "Show a catalog item",
	Long: `Print a catalog item's metadata and body. On a terminal the body is
rendered as markdown; use --raw for the file exactly as stored.

Example:
  dotai show skills/code-review`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the content file verbatim")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	t, id, err := content.ParseKey(args[0])
	if err != nil {
		return err
	}
	a := appFrom(cmd)
	cat, err := a.catalog()
	if err != nil {
		return err
	}
	item, err := cat.Get(cmd.Context(), t, id)
	if err != nil {
		return err
	}
	text, err := cat.Content(item)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showRaw {
		fmt.Fprint(out, text)
		return nil
	}

	p := newPrinter(out)
	doc := frontmatter.Parse(text)
	p.heading("%s", item.Name)
	if item.Description != "" {
		fmt.Fprintln(out, item.Description)
	}
	var meta []string
	meta = append(meta, "type: "+string(item.Type))
	if item.Category != "" {
		meta = append(meta, "category: "+item.Category)
	}
	if len(item.Tags) > 0 {
		meta = append(meta, "tags: "+strings.Join(item.Tags, ", "))
	}
	meta = append(meta, "source: "+item.Source)
	fmt.Fprintln(out, p.dim(strings.Join(meta, "  ")))
	fmt.Fprintln(out)

	body, err := p.renderMarkdown(strings.TrimLeft(doc.Body, "\n"))
	if err != nil {
		return err
	}
	fmt.Fprint(out, body)
	return nil
}
