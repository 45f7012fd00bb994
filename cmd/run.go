package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"kickback.dev/pkg/kickback/internal/domain"
	m "kickback.dev/pkg/kickback/internal/model"
)

var runParallelFlag int
var runAlgorithmFlag string
var runTimeoutFlag int64
var runBuiltinFlag []string
var runInputsFlag int

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Classify oracles as constant or balanced",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := parseAlgorithm(viper.GetString(runAlgorithmConfigKey))
			if err != nil {
				return err
			}

			return workflow.Classify(cmd.Context(), domain.ClassifyArgs{
				Paths:     parsePaths(args),
				Builtins:  runBuiltinFlag,
				Inputs:    runInputsFlag,
				Algorithm: variant,
				Reports:   m.Path(viper.GetString(outputFlagName)),
				Threads:   viper.GetInt(runParallelConfigKey),
				Timeout:   runTimeout(),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of oracles evaluated in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringVarP(&runAlgorithmFlag, runAlgorithmFlagName, "a", viper.GetString(runAlgorithmConfigKey), "deutsch, deutsch-jozsa or auto")
	bindFlagToConfig(cmd.Flags().Lookup(runAlgorithmFlagName), runAlgorithmConfigKey)

	cmd.Flags().Int64Var(&runTimeoutFlag, runTimeoutFlagName, viper.GetInt64(runTimeoutConfigKey), "per-oracle timeout in seconds (0 disables it)")
	bindFlagToConfig(cmd.Flags().Lookup(runTimeoutFlagName), runTimeoutConfigKey)

	cmd.Flags().StringArrayVarP(&runBuiltinFlag, "builtin", "b", nil, "also classify a canonical oracle (can be repeated)")
	cmd.Flags().IntVarP(&runInputsFlag, inputsFlagName, "n", defaultInputs, "input count for canonical oracles")
}
