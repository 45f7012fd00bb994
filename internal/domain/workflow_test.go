package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"kickback.dev/pkg/kickback/internal/adapter"
	"kickback.dev/pkg/kickback/internal/controller"
	m "kickback.dev/pkg/kickback/internal/model"
)

type workflowFixture struct {
	workflow Workflow
	oracles  adapter.OracleStore
	reports  adapter.ReportStore
	out      *bytes.Buffer
	dir      string
}

func newWorkflowFixture(t *testing.T) workflowFixture {
	t.Helper()

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	qasm := adapter.NewOpenQASMAdapter()
	oracles := adapter.NewLocalOracleStore(qasm)
	reports := adapter.NewReportStore()

	return workflowFixture{
		workflow: NewWorkflow(oracles, reports, qasm, controller.NewSimpleUI(cmd), NewEvaluator(newSimulator())),
		oracles:  oracles,
		reports:  reports,
		out:      out,
		dir:      t.TempDir(),
	}
}

func (f workflowFixture) write(t *testing.T, name, content string) m.Path {
	t.Helper()

	path := filepath.Join(f.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return m.Path(path)
}

type mockUI struct {
	controller.UI
	mock.Mock
}

func (u *mockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	return u.Called(ctx, controller.NewStartConfig(options...).Mode()).Error(0)
}

func TestWorkflow_Classify(t *testing.T) {
	f := newWorkflowFixture(t)
	f.write(t, "oracles/parity.yaml", "inputs: 2\ngates:\n  - gate: cx\n    qubits: [0, 2]\n  - gate: cx\n    qubits: [1, 2]\n")
	f.write(t, "oracles/zero.qasm", "OPENQASM 2.0;\nqreg q[3];\n")
	f.write(t, "oracles/readme.txt", "not an oracle")

	reportsDir := m.Path(filepath.Join(f.dir, "reports"))

	err := f.workflow.Classify(context.Background(), ClassifyArgs{
		Paths:     []m.Path{m.Path(filepath.Join(f.dir, "oracles"))},
		Builtins:  []string{OracleConstantOne, OracleFirstBit},
		Inputs:    1,
		Algorithm: m.Auto,
		Reports:   reportsDir,
		Threads:   2,
		Timeout:   10 * time.Second,
	})
	require.NoError(t, err)

	reports, err := f.reports.LoadReports(context.Background(), reportsDir)
	require.NoError(t, err)
	require.Len(t, reports, 4)

	assert.Equal(t, m.Report{
		Oracle:    "parity",
		Source:    m.Path(filepath.Join(f.dir, "oracles", "parity.yaml")),
		Algorithm: m.DeutschJozsa,
		Inputs:    2,
		Memory:    "11",
		Verdict:   m.Balanced,
	}, reports[0])

	assert.Equal(t, "zero", reports[1].Oracle)
	assert.Equal(t, m.Constant, reports[1].Verdict)
	assert.Equal(t, "00", reports[1].Memory)

	assert.Equal(t, m.Report{
		Oracle:    OracleConstantOne,
		Algorithm: m.Deutsch,
		Inputs:    1,
		Memory:    "0",
		Verdict:   m.Constant,
	}, reports[2])

	assert.Equal(t, m.Balanced, reports[3].Verdict)
	assert.Equal(t, m.Deutsch, reports[3].Algorithm)

	output := f.out.String()
	assert.Contains(t, output, "Evaluating 4 oracle(s) with 2 worker(s)")
	assert.Contains(t, output, "Completed parity (deutsch-jozsa) -> balanced")
}

func TestWorkflow_Classify_ManyWorkersShareOutput(t *testing.T) {
	f := newWorkflowFixture(t)

	const oracles = 12
	for i := range oracles {
		f.write(t, fmt.Sprintf("oracles/zero-%02d.qasm", i), "OPENQASM 2.0;\nqreg q[4];\n")
	}

	err := f.workflow.Classify(context.Background(), ClassifyArgs{
		Paths:     []m.Path{m.Path(filepath.Join(f.dir, "oracles"))},
		Algorithm: m.Auto,
		Reports:   m.Path(filepath.Join(f.dir, "reports")),
		Threads:   6,
	})
	require.NoError(t, err)

	output := f.out.String()
	assert.Contains(t, output, fmt.Sprintf("Evaluating %d oracle(s) with 6 worker(s)", oracles))

	for i := range oracles {
		assert.Contains(t, output, fmt.Sprintf("Completed zero-%02d (deutsch-jozsa) -> constant\n", i))
	}
}

func TestWorkflow_Classify_ReportsFailures(t *testing.T) {
	f := newWorkflowFixture(t)
	bad := f.write(t, "bad.yaml", "inputs: 1\ngates:\n  - gate: cx\n    qubits: [0, 7]\n")
	reportsDir := m.Path(filepath.Join(f.dir, "reports"))

	err := f.workflow.Classify(context.Background(), ClassifyArgs{
		Paths:     []m.Path{bad},
		Builtins:  []string{OracleParity},
		Inputs:    2,
		Algorithm: m.Deutsch,
		Reports:   reportsDir,
		Threads:   1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 oracle(s) failed")

	reports, loadErr := f.reports.LoadReports(context.Background(), reportsDir)
	require.NoError(t, loadErr)
	require.Len(t, reports, 2)

	assert.Equal(t, bad, reports[0].Source)
	assert.Contains(t, reports[0].Error, "out of range")

	assert.Equal(t, OracleParity, reports[1].Oracle)
	assert.Equal(t, m.Deutsch, reports[1].Algorithm)
	assert.Contains(t, reports[1].Error, "deutsch expects an oracle of 2 qubits")
	assert.Empty(t, reports[1].Verdict)
}

func TestWorkflow_Classify_NothingToDo(t *testing.T) {
	f := newWorkflowFixture(t)

	err := f.workflow.Classify(context.Background(), ClassifyArgs{})
	assert.ErrorIs(t, err, ErrNoOracles)

	err = f.workflow.Classify(context.Background(), ClassifyArgs{Builtins: []string{"majority"}, Inputs: 2})
	assert.ErrorIs(t, err, ErrUnknownOracle)

	err = f.workflow.Classify(context.Background(), ClassifyArgs{Paths: []m.Path{m.Path(filepath.Join(f.dir, "missing"))}})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWorkflow_Classify_StartError(t *testing.T) {
	startErr := errors.New("no terminal")

	ui := new(mockUI)
	ui.On("Start", mock.Anything, controller.ModeClassify).Return(startErr).Once()

	qasm := adapter.NewOpenQASMAdapter()
	wf := NewWorkflow(adapter.NewLocalOracleStore(qasm), adapter.NewReportStore(), qasm, ui, NewEvaluator(newSimulator()))

	err := wf.Classify(context.Background(), ClassifyArgs{Builtins: []string{OracleParity}, Inputs: 1})
	assert.ErrorIs(t, err, startErr)
	ui.AssertExpectations(t)
}

func TestWorkflow_Draw(t *testing.T) {
	f := newWorkflowFixture(t)

	require.NoError(t, f.workflow.Draw(context.Background(), DrawArgs{Oracle: OracleParity, Inputs: 2, Algorithm: m.Auto}))
	assert.Contains(t, f.out.String(), "deutsch-jozsa(parity): 3 qubit(s), 2 classical bit(s)")

	f.out.Reset()

	path := f.write(t, "cnot.qasm", "qreg q[2];\ncx q[0],q[1];\n")
	require.NoError(t, f.workflow.Draw(context.Background(), DrawArgs{Oracle: string(path), Algorithm: m.Auto, QASM: true}))

	output := f.out.String()
	assert.Contains(t, output, "OPENQASM 2.0;")
	assert.Contains(t, output, "// deutsch(cnot)")
	assert.Contains(t, output, "// begin cnot")
	assert.Contains(t, output, "measure q[0] -> c[0];")
}

func TestWorkflow_Draw_Errors(t *testing.T) {
	f := newWorkflowFixture(t)

	err := f.workflow.Draw(context.Background(), DrawArgs{Oracle: "majority", Inputs: 2})
	assert.ErrorContains(t, err, "neither an oracle file nor a canonical oracle")

	err = f.workflow.Draw(context.Background(), DrawArgs{Oracle: OracleParity, Inputs: 2, Algorithm: m.Deutsch})
	assert.ErrorIs(t, err, m.ErrUnsupportedOracleShape)

	broken := f.write(t, "broken.qasm", "x q[0];\n")
	err = f.workflow.Draw(context.Background(), DrawArgs{Oracle: string(broken)})
	assert.ErrorContains(t, err, "no qreg declared")
}

func TestWorkflow_Diff(t *testing.T) {
	f := newWorkflowFixture(t)

	err := f.workflow.Diff(context.Background(), DiffArgs{
		Left:      OracleConstantZero,
		Right:     OracleParity,
		Inputs:    2,
		Algorithm: m.Auto,
		Context:   1,
	})
	require.NoError(t, err)

	output := f.out.String()
	assert.Contains(t, output, "--- constant-0")
	assert.Contains(t, output, "+++ parity")
	assert.Contains(t, output, "-// deutsch-jozsa(constant-0)")
	assert.Contains(t, output, "+// deutsch-jozsa(parity)")
	assert.Contains(t, output, "+cx q[0],q[2];")
	assert.Contains(t, output, "+cx q[1],q[2];")

	f.out.Reset()

	require.NoError(t, f.workflow.Diff(context.Background(), DiffArgs{Left: OracleParity, Right: OracleParity, Inputs: 2}))
	assert.Contains(t, f.out.String(), "identical decision circuits")

	err = f.workflow.Diff(context.Background(), DiffArgs{Left: OracleParity, Right: "majority", Inputs: 2})
	assert.ErrorContains(t, err, "right:")
}

func TestWorkflow_View(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := m.Path(filepath.Join(f.dir, "reports"))

	err := f.workflow.View(context.Background(), ViewArgs{Reports: dir})
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, f.reports.SaveReports(context.Background(), dir, []m.Report{
		{Oracle: "saved-parity", Algorithm: m.DeutschJozsa, Inputs: 2, Memory: "11", Verdict: m.Balanced},
	}))

	require.NoError(t, f.workflow.View(context.Background(), ViewArgs{Reports: dir}))
	assert.Contains(t, f.out.String(), "saved-parity")
}

func TestWorkflow_Generate(t *testing.T) {
	f := newWorkflowFixture(t)
	output := m.Path(filepath.Join(f.dir, "gen", "parity.qasm"))

	require.NoError(t, f.workflow.Generate(context.Background(), GenerateArgs{Name: OracleParity, Inputs: 3, Output: output}))
	assert.Contains(t, f.out.String(), "Wrote parity oracle over 3 input(s)")

	loaded, err := f.oracles.Load(context.Background(), output)
	require.NoError(t, err)

	want, err := ParityOracle(3)
	require.NoError(t, err)
	assert.True(t, want.Equal(loaded))

	err = f.workflow.Generate(context.Background(), GenerateArgs{Name: "majority", Inputs: 3, Output: output})
	assert.ErrorIs(t, err, ErrUnknownOracle)
}
