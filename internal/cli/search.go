package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/catalog"
	"github.com/dotai-labs/dotai/internal/content"
)

var (
	searchTypeFilter string
	searchTagFilter  string
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog",
	Long: `Search catalog items by name, description, category and tags
(case-insensitive substring). Use --type to filter by content type and --tag
to filter by tags.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchTypeFilter, "type", "", "Filter by type (skills, agents, commands, rules, prompts)")
	searchCmd.Flags().StringVar(&searchTagFilter, "tag", "", "Filter by tags (comma-separated, matches any)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(searchCmd)
}

// searchEntry represents a catalog item for display.
type searchEntry struct {
	Type        content.Type `json:"type"`
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    string       `json:"category,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Source      string       `json:"source"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	a := appFrom(cmd)
	cat, err := a.catalog()
	if err != nil {
		return err
	}
	items, err := cat.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("searching catalog: %w", err)
	}

	var typeFilter content.Type
	if searchTypeFilter != "" {
		if typeFilter, err = content.Parse(searchTypeFilter); err != nil {
			return err
		}
	}
	tags := splitList(strings.ToLower(searchTagFilter))

	var matched []catalog.Item
	for _, item := range items {
		if matchesFilters(item, typeFilter, tags) {
			matched = append(matched, item)
		}
	}

	out := cmd.OutOrStdout()
	if searchJSON {
		return writeItemsJSON(out, matched)
	}
	if len(matched) == 0 {
		msg := "No items found"
		if query != "" {
			msg += fmt.Sprintf(" matching %q", query)
		}
		if searchTypeFilter != "" {
			msg += fmt.Sprintf(" with --type=%s", searchTypeFilter)
		}
		if searchTagFilter != "" {
			msg += fmt.Sprintf(" with --tag=%s", searchTagFilter)
		}
		fmt.Fprintln(out, msg+".")
		return nil
	}
	return writeItemTable(out, matched)
}

// matchesFilters applies the type and tag filters. An empty filter
// matches everything; tags match if any one is present.
func matchesFilters(item catalog.Item, t content.Type, tags []string) bool {
	if t != "" && item.Type != t {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, have := range item.Tags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

func writeItemTable(w io.Writer, items []catalog.Item) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tNAME\tDESCRIPTION")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Key(), item.Name, truncate(item.Description, 60))
	}
	return tw.Flush()
}

func writeItemsJSON(w io.Writer, items []catalog.Item) error {
	entries := make([]searchEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, searchEntry{
			Type:        item.Type,
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Category:    item.Category,
			Tags:        item.Tags,
			Source:      item.Source,
		})
	}
	return writeJSON(w, entries)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
