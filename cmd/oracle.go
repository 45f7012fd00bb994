package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kickback.dev/pkg/kickback/internal/domain"
	m "kickback.dev/pkg/kickback/internal/model"
)

var oracleInputsFlag int
var oracleOutFlag string

// oracleCmd represents the oracle command.
var oracleCmd = newOracleCmd()

func newOracleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle [name]",
		Short: "List canonical oracles or write one to a file",
		Long: `Without arguments, list the canonical oracles. With a name, write that
oracle over --inputs input qubits to --out (default <name>-<inputs>.yaml).
Files ending in .qasm are written as OpenQASM 2.0.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range domain.OracleNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}

				return nil
			}

			return workflow.Generate(cmd.Context(), domain.GenerateArgs{
				Name:   args[0],
				Inputs: oracleInputsFlag,
				Output: m.Path(oracleOutFlag),
			})
		},
	}

	cmd.Flags().IntVarP(&oracleInputsFlag, inputsFlagName, "n", defaultInputs, "number of input qubits")
	cmd.Flags().StringVar(&oracleOutFlag, "out", "", "output file (.yaml, .yml or .qasm)")

	return cmd
}

func init() {
	rootCmd.AddCommand(oracleCmd)
}
