package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/lockfile"
)

func init() {
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage installation defaults stored in the lock file",
	Long: `Read and write per-scope installation defaults.

Keys:
  assistants  comma-separated assistant ids used when --assistant is omitted
  scope       project or global (read from the global lock file only)
  method      copy or symlink`,
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show stored preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		p, err := a.store().Preferences(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "assistants = %s\n", strings.Join(p.DefaultAssistants, ","))
		fmt.Fprintf(out, "scope = %s\n", p.DefaultScope)
		fmt.Fprintf(out, "method = %s\n", p.DefaultMethod)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		ctx := cmd.Context()
		store := a.store()

		p, err := store.Preferences(ctx)
		if err != nil {
			return err
		}
		if err := applyPreference(a, &p, args[0], args[1]); err != nil {
			return err
		}
		if err := store.SetPreferences(ctx, p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

func applyPreference(a *app, p *lockfile.Preferences, key, value string) error {
	switch key {
	case "assistants":
		reg, err := a.registry()
		if err != nil {
			return err
		}
		ids, err := reg.Resolve(splitList(value))
		if err != nil {
			return err
		}
		p.DefaultAssistants = ids
	case "scope":
		s, err := content.ParseScope(value)
		if err != nil {
			return err
		}
		p.DefaultScope = s
	case "method":
		m, err := content.ParseMethod(value)
		if err != nil {
			return err
		}
		p.DefaultMethod = m
	default:
		return fmt.Errorf("unknown preference %q: expected assistants, scope or method", key)
	}
	return nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
