package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	m "kickback.dev/pkg/kickback/internal/model"
)

const (
	// DefaultMaxQubits bounds the state vector at 2^16 amplitudes.
	DefaultMaxQubits = 16

	// probabilities closer than this to 0 or 1 are snapped, so noiseless
	// deterministic outcomes stay deterministic despite rounding.
	probabilityEpsilon = 1e-12
)

// LocalSimulatorAdapter runs circuits on an in-process state vector. It is a
// noiseless reference backend for the CLI and the tests.
type LocalSimulatorAdapter struct {
	maxQubits int
	seed      uint64
	jobs      atomic.Uint64
}

// SimulatorOption configures a LocalSimulatorAdapter.
type SimulatorOption func(*LocalSimulatorAdapter)

// WithSeed makes measurement sampling reproducible. Zero picks a random seed.
func WithSeed(seed uint64) SimulatorOption {
	return func(a *LocalSimulatorAdapter) {
		a.seed = seed
	}
}

// WithMaxQubits sets the largest circuit the simulator accepts.
func WithMaxQubits(n int) SimulatorOption {
	return func(a *LocalSimulatorAdapter) {
		if n > 0 {
			a.maxQubits = n
		}
	}
}

// NewLocalSimulatorAdapter constructs a LocalSimulatorAdapter.
func NewLocalSimulatorAdapter(opts ...SimulatorOption) *LocalSimulatorAdapter {
	a := &LocalSimulatorAdapter{maxQubits: DefaultMaxQubits}
	for _, opt := range opts {
		opt(a)
	}

	if a.seed == 0 {
		a.seed = rand.Uint64()
	}

	return a
}

// Run starts simulating circuit in the background and returns its job.
func (a *LocalSimulatorAdapter) Run(ctx context.Context, circuit m.Circuit, opts ...RunOption) (Job, error) {
	cfg := NewRunConfig(opts...)
	if cfg.Shots < 1 {
		return nil, fmt.Errorf("shots must be positive, got %d", cfg.Shots)
	}

	if circuit.Qubits() > a.maxQubits {
		slog.Error("Circuit too large for local simulator", "circuit", circuit.Name(), "qubits", circuit.Qubits(), "max", a.maxQubits)
		return nil, &m.InvalidSizeError{Register: "qubit", Size: circuit.Qubits(), Limit: a.maxQubits}
	}

	number := a.jobs.Add(1)
	job := &localJob{
		id:   fmt.Sprintf("local-%d", number),
		done: make(chan struct{}),
	}

	slog.Debug("Submitted local job", "job", job.id, "circuit", circuit.Name(), "shots", cfg.Shots)

	go func() {
		defer close(job.done)

		memory, err := a.simulate(ctx, circuit, cfg.Shots, number)
		if err != nil {
			slog.Error("Local job failed", "job", job.id, "error", err)
			job.err = err

			return
		}

		job.result = &localResult{memory: memory, keepMemory: cfg.Memory}

		slog.Debug("Local job finished", "job", job.id)
	}()

	return job, nil
}

func (a *LocalSimulatorAdapter) simulate(ctx context.Context, circuit m.Circuit, shots int, jobNumber uint64) ([]string, error) {
	ops := circuit.Operations()
	memory := make([]string, shots)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for shot := range shots {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(a.seed^jobNumber, uint64(shot)))
			memory[shot] = runShot(circuit.Qubits(), circuit.Clbits(), ops, rng)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("simulate %s: %w", circuit.Name(), err)
	}

	return memory, nil
}

func runShot(qubits, clbits int, ops []m.Operation, rng *rand.Rand) string {
	state := newStateVector(qubits)

	bits := make([]byte, clbits)
	for i := range bits {
		bits[i] = '0'
	}

	for _, op := range ops {
		switch op.Kind {
		case m.OpGate:
			state.apply(op.Gate, op.Qubits)
		case m.OpMeasure:
			if state.measure(op.Qubits[0], rng) == 1 {
				bits[op.Clbit] = '1'
			} else {
				bits[op.Clbit] = '0'
			}
		case m.OpBarrier:
		}
	}

	return string(bits)
}

type localJob struct {
	id     string
	done   chan struct{}
	result *localResult
	err    error
}

func (j *localJob) ID() string {
	return j.id
}

func (j *localJob) Result(ctx context.Context) (Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-j.done:
	}

	if j.err != nil {
		return nil, j.err
	}

	return j.result, nil
}

type localResult struct {
	memory     []string
	keepMemory bool
}

func (r *localResult) Memory() ([]string, error) {
	if !r.keepMemory {
		return nil, ErrMemoryNotRequested
	}

	return append([]string(nil), r.memory...), nil
}

// stateVector stores 2^n amplitudes; bit q of a basis index is qubit q.
type stateVector struct {
	amps []complex128
}

func newStateVector(qubits int) *stateVector {
	amps := make([]complex128, 1<<qubits)
	amps[0] = 1

	return &stateVector{amps: amps}
}

func (s *stateVector) apply(gate m.Gate, qubits []int) {
	switch gate {
	case m.GateX:
		s.flip(0, qubits[0])
	case m.GateH:
		s.hadamard(qubits[0])
	case m.GateZ:
		s.phase(1<<qubits[0], 1<<qubits[0])
	case m.GateCX:
		s.flip(1<<qubits[0], qubits[1])
	case m.GateCZ:
		mask := 1<<qubits[0] | 1<<qubits[1]
		s.phase(mask, mask)
	case m.GateCCX:
		s.flip(1<<qubits[0]|1<<qubits[1], qubits[2])
	case m.GateSwap:
		s.swap(qubits[0], qubits[1])
	}
}

// flip applies X on target for every basis state whose control bits are all set.
func (s *stateVector) flip(controls int, target int) {
	bit := 1 << target
	for i := range s.amps {
		if i&bit == 0 && i&controls == controls {
			j := i | bit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

// phase negates amplitudes where the masked bits equal want.
func (s *stateVector) phase(mask, want int) {
	for i := range s.amps {
		if i&mask == want {
			s.amps[i] = -s.amps[i]
		}
	}
}

func (s *stateVector) hadamard(q int) {
	factor := complex(1/math.Sqrt2, 0)
	bit := 1 << q

	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a, b := s.amps[i], s.amps[j]
			s.amps[i] = factor * (a + b)
			s.amps[j] = factor * (a - b)
		}
	}
}

func (s *stateVector) swap(a, b int) {
	abit, bbit := 1<<a, 1<<b
	for i := range s.amps {
		if i&abit != 0 && i&bbit == 0 {
			j := i ^ abit ^ bbit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *stateVector) probabilityOne(q int) float64 {
	bit := 1 << q
	p := 0.0

	for i, amp := range s.amps {
		if i&bit != 0 {
			p += real(amp)*real(amp) + imag(amp)*imag(amp)
		}
	}

	switch {
	case p < probabilityEpsilon:
		return 0
	case p > 1-probabilityEpsilon:
		return 1
	}

	return p
}

// measure samples qubit q and collapses the state onto the outcome.
func (s *stateVector) measure(q int, rng *rand.Rand) int {
	p1 := s.probabilityOne(q)

	outcome, p := 0, 1-p1
	if rng.Float64() < p1 {
		outcome, p = 1, p1
	}

	norm := complex(1/math.Sqrt(p), 0)
	bit := 1 << q

	for i := range s.amps {
		if (i&bit != 0) == (outcome == 1) {
			s.amps[i] *= norm
		} else {
			s.amps[i] = 0
		}
	}

	return outcome
}
