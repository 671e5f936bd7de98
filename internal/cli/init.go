package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/lockfile"
	"github.com/dotai-labs/dotai/internal/platform"
	"github.com/dotai-labs/dotai/internal/userdata"
)

var initAssistants []string

func init() {
	initCmd.Flags().StringSliceVarP(&initAssistants, "assistant", "a", nil, "Assistants to wire (default: detected)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the canonical .ai/ layout",
	Long: `Create .ai/ with a directory per content type and an empty lock file.
In project scope, also store the chosen assistants as the default and write
bridge files for them.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	p := newPrinter(out)

	root := a.env.CanonicalRoot(a.scope, a.projectRoot)
	fmt.Fprintf(out, "Initializing %s\n", root)

	dirs := make([]string, 0, len(content.All())+1)
	for _, t := range content.All() {
		dirs = append(dirs, a.env.TypeDir(t, a.scope, a.projectRoot))
	}
	dirs = append(dirs, filepath.Join(root, userdata.ContextDir))
	for _, dir := range dirs {
		if err := platform.EnsureDir(dir, userdata.DirPermNormal); err != nil {
			return err
		}
	}
	p.ok("layout ready")

	store := a.store()
	if _, err := os.Stat(store.Path()); os.IsNotExist(err) {
		if err := store.Write(ctx, lockfile.Empty()); err != nil {
			return err
		}
		p.ok("created %s", relOrAbs(a.env.BaseDir(a.scope, a.projectRoot), store.Path()))
	} else {
		p.skip("lock file exists")
	}

	if a.scope != content.ScopeProject {
		return nil
	}

	added, err := userdata.AddToGitignore(a.projectRoot, userdata.GitignorePatterns()...)
	if err != nil {
		return err
	}
	for _, pattern := range added {
		p.ok("ignored %s in .gitignore", pattern)
	}

	ids, err := a.assistantsFor(ctx, initAssistants)
	if err != nil {
		p.warn("%v", err)
		ids = nil
	}
	if len(ids) > 0 {
		prefs, err := store.Preferences(ctx)
		if err != nil {
			return err
		}
		prefs.DefaultAssistants = ids
		if err := store.SetPreferences(ctx, prefs); err != nil {
			return err
		}
		p.ok("default assistants: %v", ids)
	}
	return writeBridges(cmd, a, ids, false)
}
