package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/bridge"
	"github.com/dotai-labs/dotai/internal/content"
)

var (
	bridgeAssistants []string
	bridgeForce      bool
	bridgeStatus     bool
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Write bridge files that point assistants at .ai/",
	Long: `Generate the small instruction files each assistant reads (AGENTS.md,
CLAUDE.md, .cursor/rules/dotai.mdc, ...) so it finds the canonical content.

Assistants default to every assistant in the lock file. AGENTS.md is always
included. Existing files are left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runBridge,
}

func init() {
	bridgeCmd.Flags().StringSliceVarP(&bridgeAssistants, "assistant", "a", nil, "Assistant ids (default: those in the lock file)")
	bridgeCmd.Flags().BoolVarP(&bridgeForce, "force", "f", false, "Overwrite existing bridge files")
	bridgeCmd.Flags().BoolVar(&bridgeStatus, "status", false, "Report bridge file state without writing")
	rootCmd.AddCommand(bridgeCmd)
}

func runBridge(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	if a.scope != content.ScopeProject {
		return errors.New("bridge files live in a project; drop --global")
	}

	if bridgeStatus {
		gen, files, err := bridgeFiles(cmd, a, bridgeAssistants)
		if err != nil {
			return err
		}
		p := newPrinter(cmd.OutOrStdout())
		for _, st := range gen.Status(a.projectRoot, files) {
			switch st.State {
			case bridge.StateCurrent:
				p.ok("%-40s current", st.File.Path)
			case bridge.StateCustomized:
				p.warn("%-40s customized", st.File.Path)
			default:
				p.skip("%-40s missing", st.File.Path)
			}
		}
		return nil
	}
	return writeBridges(cmd, a, bridgeAssistants, bridgeForce)
}

// bridgeFiles generates files for the wired assistants plus extra.
func bridgeFiles(cmd *cobra.Command, a *app, extra []string) (*bridge.Generator, []bridge.File, error) {
	ids, err := a.wiredAssistants(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	ids = append(ids, extra...)

	gen, err := a.bridges()
	if err != nil {
		return nil, nil, err
	}
	files, err := gen.Generate(ids, a.projectRoot)
	if err != nil {
		return nil, nil, err
	}
	return gen, files, nil
}

func writeBridges(cmd *cobra.Command, a *app, extra []string, overwrite bool) error {
	gen, files, err := bridgeFiles(cmd, a, extra)
	if err != nil {
		return err
	}
	res, err := gen.Write(a.projectRoot, files, overwrite)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	base := a.env.BaseDir(content.ScopeProject, a.projectRoot)
	for _, path := range res.Written {
		p.ok("wrote %s", relOrAbs(base, path))
	}
	for _, path := range res.Skipped {
		p.skip("kept %s %s", relOrAbs(base, path), p.dim("(exists; --force to overwrite)"))
	}
	return nil
}
