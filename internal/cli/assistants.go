package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var assistantsDetect bool

var assistantsCmd = &cobra.Command{
	Use:   "assistants",
	Short: "List supported assistants",
	Long: `List every supported assistant with its bridge family. With --detect,
probe this machine for each assistant's config directories and commands.`,
	Args: cobra.NoArgs,
	RunE: runAssistants,
}

func init() {
	assistantsCmd.Flags().BoolVar(&assistantsDetect, "detect", false, "Probe which assistants are installed")
	rootCmd.AddCommand(assistantsCmd)
}

func runAssistants(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	reg, err := a.registry()
	if err != nil {
		return err
	}

	var detected map[string]bool
	if assistantsDetect {
		detected = reg.DetectAll(cmd.Context(), a.prober)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	header := "ID\tNAME\tBRIDGE\tUNIVERSAL"
	if assistantsDetect {
		header += "\tDETECTED"
	}
	fmt.Fprintln(tw, header)
	for _, as := range reg.All() {
		row := fmt.Sprintf("%s\t%s\t%s\t%s", as.ID, as.Name, as.Bridge, yesNo(as.Universal))
		if assistantsDetect {
			row += "\t" + yesNo(detected[as.ID])
		}
		fmt.Fprintln(tw, row)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
