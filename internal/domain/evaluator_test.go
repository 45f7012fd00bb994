package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"kickback.dev/pkg/kickback/internal/adapter"
	m "kickback.dev/pkg/kickback/internal/model"
)

type mockRunner struct {
	mock.Mock
}

func (r *mockRunner) Run(ctx context.Context, circuit m.Circuit, opts ...adapter.RunOption) (adapter.Job, error) {
	args := r.Called(ctx, circuit, adapter.NewRunConfig(opts...))
	job, _ := args.Get(0).(adapter.Job)

	return job, args.Error(1)
}

type stubJob struct {
	result adapter.Result
	err    error
}

func (j stubJob) ID() string { return "stub-1" }

func (j stubJob) Result(context.Context) (adapter.Result, error) { return j.result, j.err }

type stubResult struct {
	memory []string
	err    error
}

func (r stubResult) Memory() ([]string, error) { return r.memory, r.err }

var singleShotWithMemory = adapter.RunConfig{Shots: 1, Memory: true}

func newSimulator() adapter.RunnerAdapter {
	return adapter.NewLocalSimulatorAdapter(adapter.WithSeed(2024))
}

func TestDeutschJozsaAlgorithm_ConstantOracles(t *testing.T) {
	runner := newSimulator()

	for n := 1; n <= 5; n++ {
		for _, value := range []bool{false, true} {
			t.Run(fmt.Sprintf("n=%d value=%t", n, value), func(t *testing.T) {
				oracle, err := ConstantOracle(n, value)
				require.NoError(t, err)

				constant, err := DeutschJozsaAlgorithm(context.Background(), oracle, runner)
				require.NoError(t, err)
				assert.True(t, constant)
			})
		}
	}
}

func TestDeutschJozsaAlgorithm_BalancedOracles(t *testing.T) {
	runner := newSimulator()

	for n := 1; n <= 5; n++ {
		for _, build := range []func(int) (m.Circuit, error){ParityOracle, InvertedParityOracle, FirstBitOracle} {
			oracle, err := build(n)
			require.NoError(t, err)

			t.Run(fmt.Sprintf("%s n=%d", oracle.Name(), n), func(t *testing.T) {
				constant, err := DeutschJozsaAlgorithm(context.Background(), oracle, runner)
				require.NoError(t, err)
				assert.False(t, constant)
			})
		}
	}
}

func TestDeutschAlgorithm_SingleInputFunctions(t *testing.T) {
	identity, err := m.NewCircuit(2, 0, "identity")
	require.NoError(t, err)

	cnot, err := m.NewBuilder(2, 0, "cnot").CX(0, 1).Build()
	require.NoError(t, err)

	negation, err := m.NewBuilder(2, 0, "not").CX(0, 1).X(1).Build()
	require.NoError(t, err)

	one, err := ConstantOracle(1, true)
	require.NoError(t, err)

	tests := []struct {
		oracle   m.Circuit
		constant bool
	}{
		{identity, true},
		{one, true},
		{cnot, false},
		{negation, false},
	}

	runner := newSimulator()

	for _, tt := range tests {
		t.Run(tt.oracle.Name(), func(t *testing.T) {
			deutsch, err := DeutschAlgorithm(context.Background(), tt.oracle, runner)
			require.NoError(t, err)
			assert.Equal(t, tt.constant, deutsch)

			jozsa, err := DeutschJozsaAlgorithm(context.Background(), tt.oracle, runner)
			require.NoError(t, err)
			assert.Equal(t, deutsch, jozsa)
		})
	}
}

func TestDeutschJozsaAlgorithm_ThreeInputs(t *testing.T) {
	runner := newSimulator()

	parity, err := m.NewBuilder(4, 0, "parity3").CX(0, 3).CX(1, 3).CX(2, 3).Build()
	require.NoError(t, err)

	constant, err := DeutschJozsaAlgorithm(context.Background(), parity, runner)
	require.NoError(t, err)
	assert.False(t, constant)

	empty, err := m.NewCircuit(4, 0, "empty")
	require.NoError(t, err)

	constant, err = DeutschJozsaAlgorithm(context.Background(), empty, runner)
	require.NoError(t, err)
	assert.True(t, constant)
}

func TestDeutschAlgorithm_RejectsWideOracles(t *testing.T) {
	runner := new(mockRunner)

	for _, qubits := range []int{1, 3, 4} {
		oracle, err := m.NewCircuit(qubits, 0, "wide")
		require.NoError(t, err)

		_, err = DeutschAlgorithm(context.Background(), oracle, runner)
		assert.ErrorIs(t, err, m.ErrUnsupportedOracleShape)
	}

	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluator_Evaluate(t *testing.T) {
	oracle, err := ConstantOracle(3, true)
	require.NoError(t, err)

	evaluation, err := NewEvaluator(newSimulator()).Evaluate(context.Background(), m.Auto, oracle)
	require.NoError(t, err)

	assert.Equal(t, m.DeutschJozsa, evaluation.Variant)
	assert.Equal(t, "000", evaluation.Memory)
	assert.True(t, evaluation.Constant)
	assert.Equal(t, "deutsch-jozsa(constant-1)", evaluation.Circuit.Name())
}

func TestEvaluator_SubmitsSingleShotWithMemory(t *testing.T) {
	oracle, err := FirstBitOracle(2)
	require.NoError(t, err)

	circuit, err := DeutschJozsaCircuit(oracle)
	require.NoError(t, err)

	runner := new(mockRunner)
	runner.On("Run", mock.Anything, mock.MatchedBy(circuit.Equal), singleShotWithMemory).
		Return(stubJob{result: stubResult{memory: []string{"1 0"}}}, nil).
		Once()

	evaluation, err := NewEvaluator(runner).Evaluate(context.Background(), m.DeutschJozsa, oracle)
	require.NoError(t, err)

	assert.False(t, evaluation.Constant)
	assert.Equal(t, "1 0", evaluation.Memory)
	runner.AssertExpectations(t)
}

func TestEvaluator_PropagatesRunnerFailures(t *testing.T) {
	boom := errors.New("backend unavailable")

	tests := []struct {
		name string
		job  adapter.Job
		err  error
		want error
	}{
		{"submit fails", nil, boom, boom},
		{"result fails", stubJob{err: context.DeadlineExceeded}, nil, context.DeadlineExceeded},
		{"memory not kept", stubJob{result: stubResult{err: adapter.ErrMemoryNotRequested}}, nil, adapter.ErrMemoryNotRequested},
		{"no shots", stubJob{result: stubResult{}}, nil, m.ErrNoMeasurement},
		{"empty shot", stubJob{result: stubResult{memory: []string{""}}}, nil, m.ErrNoMeasurement},
		{"garbage", stubJob{result: stubResult{memory: []string{"2"}}}, nil, m.ErrMalformedResult},
		{"wrong width", stubJob{result: stubResult{memory: []string{"00"}}}, nil, m.ErrMalformedResult},
	}

	oracle, err := ConstantOracle(1, false)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(mockRunner)
			runner.On("Run", mock.Anything, mock.Anything, singleShotWithMemory).Return(tt.job, tt.err)

			_, err := DeutschAlgorithm(context.Background(), oracle, runner)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEvaluator_CancelledContext(t *testing.T) {
	oracle, err := ParityOracle(2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = DeutschJozsaAlgorithm(ctx, oracle, newSimulator())
	assert.ErrorIs(t, err, context.Canceled)
}
