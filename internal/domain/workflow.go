package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
	"kickback.dev/pkg/kickback/internal/adapter"
	"kickback.dev/pkg/kickback/internal/controller"
	m "kickback.dev/pkg/kickback/internal/model"
)

// ErrNoOracles is returned by Classify when paths and builtins select nothing.
var ErrNoOracles = errors.New("no oracles to classify")

// ClassifyArgs contains the arguments for classifying oracles.
type ClassifyArgs struct {
	Paths     []m.Path
	Builtins  []string
	Inputs    int
	Algorithm m.Variant
	Reports   m.Path
	Threads   int
	Timeout   time.Duration
}

// DrawArgs selects the decision circuit to display.
type DrawArgs struct {
	Oracle    string
	Inputs    int
	Algorithm m.Variant
	QASM      bool
}

// DiffArgs selects the two oracles whose decision circuits are compared.
type DiffArgs struct {
	Left      string
	Right     string
	Inputs    int
	Algorithm m.Variant
	Context   int
}

// ViewArgs contains the arguments for viewing saved reports.
type ViewArgs struct {
	Reports m.Path
}

// GenerateArgs names the canonical oracle to write and where.
type GenerateArgs struct {
	Name   string
	Inputs int
	Output m.Path
}

// Workflow is the application surface driven by the CLI.
type Workflow interface {
	Classify(ctx context.Context, args ClassifyArgs) error
	Draw(ctx context.Context, args DrawArgs) error
	Diff(ctx context.Context, args DiffArgs) error
	View(ctx context.Context, args ViewArgs) error
	Generate(ctx context.Context, args GenerateArgs) error
}

type workflow struct {
	adapter.OracleStore
	adapter.ReportStore
	adapter.QASMAdapter
	controller.UI
	Evaluator
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	oracleStore adapter.OracleStore,
	reportStore adapter.ReportStore,
	qasm adapter.QASMAdapter,
	ui controller.UI,
	evaluator Evaluator,
) Workflow {
	return &workflow{
		OracleStore: oracleStore,
		ReportStore: reportStore,
		QASMAdapter: qasm,
		UI:          ui,
		Evaluator:   evaluator,
	}
}

// oracleTask is one oracle to evaluate: a file to load or an already built circuit.
type oracleTask struct {
	label  string
	source m.Path
	oracle *m.Circuit
}

func (w *workflow) Classify(ctx context.Context, args ClassifyArgs) error {
	tasks, err := w.collectTasks(ctx, args)
	if err != nil {
		slog.Error("Failed to collect oracles", "error", err)
		return err
	}

	if len(tasks) == 0 {
		return ErrNoOracles
	}

	threads := max(args.Threads, 1)

	if err := w.Start(ctx, controller.WithClassifyMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	w.DisplayConcurrencyInfo(ctx, threads, len(tasks))

	reports := w.evaluateAll(ctx, tasks, args, threads)

	w.DisplaySummary(ctx, reports)

	if args.Reports != "" {
		if err := w.SaveReports(ctx, args.Reports, reports); err != nil {
			return fmt.Errorf("save reports: %w", err)
		}
	}

	w.Wait(ctx)

	var errs []error

	for _, report := range reports {
		if report.Failed() {
			errs = append(errs, fmt.Errorf("%s: %s", report.Oracle, report.Error))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d oracle(s) failed: %w", len(errs), len(reports), errors.Join(errs...))
	}

	return nil
}

func (w *workflow) collectTasks(ctx context.Context, args ClassifyArgs) ([]oracleTask, error) {
	var tasks []oracleTask

	if len(args.Paths) > 0 {
		files, err := w.Expand(ctx, args.Paths)
		if err != nil {
			return nil, fmt.Errorf("expand paths: %w", err)
		}

		for _, file := range files {
			tasks = append(tasks, oracleTask{label: string(file), source: file})
		}
	}

	for _, name := range args.Builtins {
		oracle, err := OracleByName(name, args.Inputs)
		if err != nil {
			return nil, err
		}

		tasks = append(tasks, oracleTask{label: name, oracle: &oracle})
	}

	return tasks, nil
}

// evaluateAll runs every task on a bounded worker pool. Reports keep the
// order of tasks; a failing oracle yields a report with Error set.
func (w *workflow) evaluateAll(ctx context.Context, tasks []oracleTask, args ClassifyArgs, threads int) []m.Report {
	reports := make([]m.Report, len(tasks))

	var group errgroup.Group
	group.SetLimit(threads)

	for i, task := range tasks {
		group.Go(func() error {
			w.DisplayStartingEvaluation(ctx, task.label)

			reports[i] = w.evaluateTask(ctx, task, args)

			w.DisplayCompletedEvaluation(ctx, reports[i])

			return nil
		})
	}

	_ = group.Wait()

	return reports
}

func (w *workflow) evaluateTask(ctx context.Context, task oracleTask, args ClassifyArgs) m.Report {
	report := m.Report{Oracle: task.label, Source: task.source, Algorithm: args.Algorithm}

	if args.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, args.Timeout)
		defer cancel()
	}

	var oracle m.Circuit

	if task.oracle != nil {
		oracle = *task.oracle
	} else {
		loaded, err := w.Load(ctx, task.source)
		if err != nil {
			report.Error = err.Error()
			return report
		}

		oracle = loaded
	}

	report.Oracle = oracle.Name()
	report.Inputs = oracle.Qubits() - 1

	evaluation, err := w.Evaluate(ctx, args.Algorithm, oracle)
	report.Algorithm = evaluation.Variant

	if err != nil {
		slog.Error("Failed to evaluate oracle", "oracle", oracle.Name(), "error", err)
		report.Error = err.Error()

		return report
	}

	report.Memory = evaluation.Memory
	report.Verdict = m.VerdictOf(evaluation.Constant)

	return report
}

// resolveOracle loads ref as an oracle file, falling back to a canonical
// oracle of that name when no such file exists.
func (w *workflow) resolveOracle(ctx context.Context, ref string, inputs int) (m.Circuit, error) {
	oracle, err := w.Load(ctx, m.Path(ref))
	if err == nil {
		return oracle, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return m.Circuit{}, err
	}

	builtin, builtinErr := OracleByName(ref, inputs)
	if builtinErr != nil {
		if errors.Is(builtinErr, ErrUnknownOracle) {
			return m.Circuit{}, fmt.Errorf("%s is neither an oracle file nor a canonical oracle: %w", ref, err)
		}

		return m.Circuit{}, builtinErr
	}

	return builtin, nil
}

func (w *workflow) decisionCircuitFor(ctx context.Context, ref string, inputs int, variant m.Variant) (m.Circuit, error) {
	oracle, err := w.resolveOracle(ctx, ref, inputs)
	if err != nil {
		return m.Circuit{}, err
	}

	return BuildCircuit(variant, oracle)
}

func (w *workflow) Draw(ctx context.Context, args DrawArgs) error {
	circuit, err := w.decisionCircuitFor(ctx, args.Oracle, args.Inputs, args.Algorithm)
	if err != nil {
		return err
	}

	if args.QASM {
		return w.DisplayText(ctx, string(w.Encode(circuit)))
	}

	return w.DisplayCircuit(ctx, circuit)
}

func (w *workflow) Diff(ctx context.Context, args DiffArgs) error {
	left, err := w.decisionCircuitFor(ctx, args.Left, args.Inputs, args.Algorithm)
	if err != nil {
		return fmt.Errorf("left: %w", err)
	}

	right, err := w.decisionCircuitFor(ctx, args.Right, args.Inputs, args.Algorithm)
	if err != nil {
		return fmt.Errorf("right: %w", err)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(w.Encode(left))),
		B:        difflib.SplitLines(string(w.Encode(right))),
		FromFile: args.Left,
		ToFile:   args.Right,
		Context:  max(args.Context, 0),
	})
	if err != nil {
		return fmt.Errorf("diff circuits: %w", err)
	}

	if diff == "" {
		diff = fmt.Sprintf("%s and %s have identical decision circuits\n", left.Name(), right.Name())
	}

	return w.DisplayText(ctx, diff)
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	reports, err := w.LoadReports(ctx, args.Reports)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	return w.DisplayReports(ctx, reports)
}

func (w *workflow) Generate(ctx context.Context, args GenerateArgs) error {
	oracle, err := OracleByName(args.Name, args.Inputs)
	if err != nil {
		return err
	}

	output := args.Output
	if output == "" {
		output = m.Path(fmt.Sprintf("%s-%d.yaml", args.Name, args.Inputs))
	}

	if err := w.Save(ctx, output, oracle); err != nil {
		return fmt.Errorf("save oracle: %w", err)
	}

	slog.Debug("Generated oracle", "name", args.Name, "inputs", args.Inputs, "path", output)

	return w.DisplayText(ctx, fmt.Sprintf("Wrote %s oracle over %d input(s) to %s\n", args.Name, args.Inputs, output))
}
