package cmd

import (
	"github.com/spf13/cobra"

	"kickback.dev/pkg/kickback/internal/domain"
	m "kickback.dev/pkg/kickback/internal/model"
)

var circuitInputsFlag int
var circuitAlgorithmFlag string
var circuitQASMFlag bool

// circuitCmd represents the circuit command.
var circuitCmd = newCircuitCmd()

func newCircuitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "circuit <oracle>",
		Short: "Show the decision circuit built around an oracle",
		Long: `Build the Deutsch or Deutsch-Jozsa circuit around an oracle file or a
canonical oracle and print it as a table, or as OpenQASM 2.0 with --qasm.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := parseAlgorithm(circuitAlgorithmFlag)
			if err != nil {
				return err
			}

			return workflow.Draw(cmd.Context(), domain.DrawArgs{
				Oracle:    args[0],
				Inputs:    circuitInputsFlag,
				Algorithm: variant,
				QASM:      circuitQASMFlag,
			})
		},
	}

	cmd.Flags().IntVarP(&circuitInputsFlag, inputsFlagName, "n", defaultInputs, "input count for canonical oracles")
	cmd.Flags().StringVarP(&circuitAlgorithmFlag, runAlgorithmFlagName, "a", string(m.Auto), "deutsch, deutsch-jozsa or auto")
	cmd.Flags().BoolVar(&circuitQASMFlag, "qasm", false, "print OpenQASM 2.0 instead of a table")

	return cmd
}

func init() {
	rootCmd.AddCommand(circuitCmd)
}
