// Package cmd provides the root command and CLI setup for kickback.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"kickback.dev/pkg/kickback/internal/adapter"
	"kickback.dev/pkg/kickback/internal/controller"
	"kickback.dev/pkg/kickback/internal/domain"
	m "kickback.dev/pkg/kickback/internal/model"
)

var qasmAdapter adapter.QASMAdapter
var oracleStore adapter.OracleStore
var reportStore adapter.ReportStore
var runner adapter.RunnerAdapter
var evaluator domain.Evaluator
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// verboseFlag forces debug logging.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		configureLogger(viper.GetString(logFilenameKey), verboseFlag)
	}

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	qasmAdapter = adapter.NewOpenQASMAdapter()
	oracleStore = adapter.NewLocalOracleStore(qasmAdapter)
	reportStore = adapter.NewReportStore()
	runner = newRunner()
	evaluator = domain.NewEvaluator(runner)
	workflow = domain.NewWorkflow(
		oracleStore,
		reportStore,
		qasmAdapter,
		ui,
		evaluator,
	)
}

// newRunner builds the local simulator from simulator.* settings.
func newRunner() adapter.RunnerAdapter {
	return adapter.NewLocalSimulatorAdapter(
		adapter.WithSeed(viper.GetUint64(simulatorSeedKey)),
		adapter.WithMaxQubits(viper.GetInt(simulatorMaxQubitsKey)),
	)
}

const oracleRefHelp = `Oracles are given as files or canonical names:
  - oracles/parity.yaml   YAML oracle definition
  - oracles/            every .yaml, .yml and .qasm file in a directory
  - oracles/...         the same, recursively
  - parity              a canonical oracle (--builtin for run, see "kickback oracle")`

const rootLongDescription = `Kickback decides whether a black-box boolean function, given as a
quantum oracle, is constant or balanced. It builds the Deutsch or
Deutsch-Jozsa decision circuit around the oracle, runs it once and reads
the answer from the measured input register.

` + oracleRefHelp

const runLongDescription = `Classify the given oracles as constant or balanced and store the
verdicts in the reports directory.

` + oracleRefHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "kickback",
		Short:        "Deutsch and Deutsch-Jozsa oracle classifier",
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for classification reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// parseAlgorithm reads a variant from a flag value, naming the flag on failure.
func parseAlgorithm(value string) (m.Variant, error) {
	variant, err := m.ParseVariant(value)
	if err != nil {
		return "", fmt.Errorf("--%s: %w", runAlgorithmFlagName, err)
	}

	return variant, nil
}
