package domain

import (
	"context"
	"fmt"
	"log/slog"

	"kickback.dev/pkg/kickback/internal/adapter"
	m "kickback.dev/pkg/kickback/internal/model"
)

// Evaluator decides whether an oracle is constant by executing its decision
// circuit once on a runner.
type Evaluator interface {
	Evaluate(ctx context.Context, variant m.Variant, oracle m.Circuit) (m.Evaluation, error)
}

type evaluator struct {
	runner adapter.RunnerAdapter
}

// NewEvaluator constructs an Evaluator submitting circuits to runner.
func NewEvaluator(runner adapter.RunnerAdapter) Evaluator {
	return &evaluator{runner: runner}
}

// DeutschAlgorithm reports whether a 2-qubit oracle is constant.
func DeutschAlgorithm(ctx context.Context, oracle m.Circuit, runner adapter.RunnerAdapter) (bool, error) {
	evaluation, err := NewEvaluator(runner).Evaluate(ctx, m.Deutsch, oracle)
	if err != nil {
		return false, err
	}

	return evaluation.Constant, nil
}

// DeutschJozsaAlgorithm reports whether an oracle over n >= 1 inputs is constant.
func DeutschJozsaAlgorithm(ctx context.Context, oracle m.Circuit, runner adapter.RunnerAdapter) (bool, error) {
	evaluation, err := NewEvaluator(runner).Evaluate(ctx, m.DeutschJozsa, oracle)
	if err != nil {
		return false, err
	}

	return evaluation.Constant, nil
}

func (e *evaluator) Evaluate(ctx context.Context, variant m.Variant, oracle m.Circuit) (m.Evaluation, error) {
	evaluation := m.Evaluation{Variant: variant.Resolve(oracle.Qubits())}

	circuit, err := BuildCircuit(evaluation.Variant, oracle)
	if err != nil {
		return evaluation, err
	}

	evaluation.Circuit = circuit

	job, err := e.runner.Run(ctx, circuit, adapter.WithShots(1), adapter.WithMemory(true))
	if err != nil {
		slog.Error("Failed to submit circuit", "circuit", circuit.Name(), "error", err)
		return evaluation, fmt.Errorf("submit %s: %w", circuit.Name(), err)
	}

	result, err := job.Result(ctx)
	if err != nil {
		slog.Error("Failed to obtain result", "circuit", circuit.Name(), "job", job.ID(), "error", err)
		return evaluation, fmt.Errorf("job %s: %w", job.ID(), err)
	}

	memory, err := result.Memory()
	if err != nil {
		return evaluation, fmt.Errorf("job %s memory: %w", job.ID(), err)
	}

	if len(memory) == 0 {
		return evaluation, fmt.Errorf("job %s: %w", job.ID(), m.ErrNoMeasurement)
	}

	evaluation.Memory = memory[0]

	evaluation.Constant, err = Classify(evaluation.Memory, circuit.Clbits())
	if err != nil {
		return evaluation, fmt.Errorf("job %s: %w", job.ID(), err)
	}

	slog.Debug("Evaluated oracle",
		"oracle", oracle.Name(),
		"algorithm", evaluation.Variant,
		"job", job.ID(),
		"memory", evaluation.Memory,
		"constant", evaluation.Constant,
	)

	return evaluation, nil
}
