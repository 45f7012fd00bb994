package adapter

import (
	"context"
	"errors"

	m "kickback.dev/pkg/kickback/internal/model"
)

// ErrMemoryNotRequested is returned by Result.Memory when the job was
// submitted without WithMemory(true).
var ErrMemoryNotRequested = errors.New("per-shot memory was not requested for this job")

// RunnerAdapter abstracts the execution backend that runs decision circuits.
// Submission and completion are two separate steps so remote or queued
// backends fit the same contract.
type RunnerAdapter interface {
	// Run submits the circuit and returns a handle to the pending job.
	Run(ctx context.Context, circuit m.Circuit, opts ...RunOption) (Job, error)
}

// Job is a submitted circuit execution.
type Job interface {
	ID() string
	// Result blocks until the job finished or ctx is done.
	Result(ctx context.Context) (Result, error)
}

// Result is the output of a finished job.
type Result interface {
	// Memory returns one bit-string per shot. Character i of a bit-string is
	// classical bit i.
	Memory() ([]string, error)
}

// RunOption is a functional option for RunnerAdapter.Run.
type RunOption func(*RunConfig)

// RunConfig holds the recognized run options.
type RunConfig struct {
	Shots  int
	Memory bool
}

// WithShots sets the number of executions of the circuit.
func WithShots(shots int) RunOption {
	return func(c *RunConfig) {
		c.Shots = shots
	}
}

// WithMemory requests the raw per-shot bit-strings instead of counts only.
func WithMemory(memory bool) RunOption {
	return func(c *RunConfig) {
		c.Memory = memory
	}
}

// NewRunConfig applies opts over the defaults (one shot, no memory).
func NewRunConfig(opts ...RunOption) RunConfig {
	cfg := RunConfig{Shots: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
