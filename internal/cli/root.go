package cli

import (
	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/assistants"
	"github.com/dotai-labs/dotai/internal/branding"
	"github.com/dotai-labs/dotai/internal/userdata"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagGlobal  bool
	flagProject string
	flagVerbose bool
)

// Replaced in tests.
var (
	loadEnvironment = userdata.FromOS
	newProber       = func() assistants.Prober { return assistants.OSProber{} }
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs reusable skills, agents, commands, rules and prompts into one
canonical .ai/ directory and writes the small bridge files that point each AI
coding assistant at it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[annotationNoApp] != "" {
			return nil
		}
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		cmd.SetContext(withApp(cmd.Context(), a))
		return nil
	},
}

// annotationNoApp marks commands that run without loading the
// environment, config or catalog.
const annotationNoApp = "dotai/no-app"

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagGlobal, "global", "g", false, "Use the global scope (~/.ai) instead of the project")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "Project root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}
