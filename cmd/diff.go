package cmd

import (
	"github.com/spf13/cobra"

	"kickback.dev/pkg/kickback/internal/domain"
	m "kickback.dev/pkg/kickback/internal/model"
)

const defaultDiffContext = 3

var diffInputsFlag int
var diffAlgorithmFlag string
var diffContextFlag int

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <left> <right>",
		Short: "Compare the decision circuits of two oracles",
		Long: `Build the decision circuit for both oracles and print a unified diff of
their OpenQASM 2.0 listings.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := parseAlgorithm(diffAlgorithmFlag)
			if err != nil {
				return err
			}

			return workflow.Diff(cmd.Context(), domain.DiffArgs{
				Left:      args[0],
				Right:     args[1],
				Inputs:    diffInputsFlag,
				Algorithm: variant,
				Context:   diffContextFlag,
			})
		},
	}

	cmd.Flags().IntVarP(&diffInputsFlag, inputsFlagName, "n", defaultInputs, "input count for canonical oracles")
	cmd.Flags().StringVarP(&diffAlgorithmFlag, runAlgorithmFlagName, "a", string(m.Auto), "deutsch, deutsch-jozsa or auto")
	cmd.Flags().IntVarP(&diffContextFlag, "context", "U", defaultDiffContext, "lines of context around each change")

	return cmd
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
