package controller

import (
	"bytes"
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "kickback.dev/pkg/kickback/internal/model"
)

func TestTUI_StaticModeDoesNotStartProgram(t *testing.T) {
	out := &bytes.Buffer{}
	ui := NewTUI(out)
	ctx := context.Background()

	require.NoError(t, ui.Start(ctx))

	program, done := ui.current()
	assert.Nil(t, program)
	assert.Nil(t, done)

	ui.DisplayConcurrencyInfo(ctx, 1, 1)
	ui.DisplayStartingEvaluation(ctx, "zero")
	ui.DisplayCompletedEvaluation(ctx, sampleReports[0])
	ui.Wait(ctx)
	ui.Close(ctx)

	assert.Empty(t, out.String())
}

func TestTUI_DisplaySummaryWithoutProgramPrints(t *testing.T) {
	out := &bytes.Buffer{}
	ui := NewTUI(out)

	ui.DisplaySummary(context.Background(), sampleReports)

	output := out.String()
	assert.Contains(t, output, "oracle verdicts")
	assert.Contains(t, output, "parity")
	assert.Contains(t, output, "unsupported oracle shape")
}

func TestTUI_DisplayReports(t *testing.T) {
	out := &bytes.Buffer{}
	ui := NewTUI(out)

	require.NoError(t, ui.DisplayReports(context.Background(), nil))
	assert.Contains(t, out.String(), "No reports found")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ui.DisplayReports(ctx, sampleReports), context.Canceled)
}

func TestTUI_DisplayCircuit(t *testing.T) {
	circuit, err := m.NewBuilder(2, 1, "deutsch(zero)").X(1).H(0, 1).Measure([]int{0}, []int{0}).Build()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	require.NoError(t, NewTUI(out).DisplayCircuit(context.Background(), circuit))

	output := out.String()
	assert.Contains(t, output, "deutsch(zero)")
	assert.Contains(t, output, "q[1]")
	assert.Contains(t, output, "-> c[0]")
}

func TestTUI_DisplayText(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, NewTUI(out).DisplayText(context.Background(), "--- a\n+++ b\n"))
	assert.Equal(t, "--- a\n+++ b\n", out.String())
}

func TestClassifyModel_Update(t *testing.T) {
	var model tea.Model = newClassifyModel()

	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model, _ = model.Update(concurrencyMsg{threads: 2, count: 2})
	model, _ = model.Update(startEvaluationMsg{oracle: "zero"})
	model, _ = model.Update(startEvaluationMsg{oracle: "parity"})

	cm := model.(classifyModel)
	assert.Equal(t, 2, cm.threads)
	assert.Equal(t, 2, cm.total)
	assert.Equal(t, []string{"zero", "parity"}, cm.active)
	assert.Equal(t, maxProgressWidth, cm.progressBar.Width)
	assert.Zero(t, cm.percent())

	model, _ = model.Update(completedEvaluationMsg{report: sampleReports[0]})

	cm = model.(classifyModel)
	assert.Equal(t, []string{"parity"}, cm.active)
	assert.Len(t, cm.results, 1)
	assert.InDelta(t, 0.5, cm.percent(), 1e-9)
	assert.Contains(t, cm.View(), "Evaluating")

	model, _ = model.Update(summaryMsg{reports: sampleReports[:2]})

	cm = model.(classifyModel)
	assert.True(t, cm.finished)
	assert.Empty(t, cm.active)
	assert.Len(t, cm.results, 2)
	assert.Contains(t, cm.View(), "oracle verdicts")
	assert.Contains(t, cm.View(), "Press q to quit")
}

func TestClassifyModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		_, cmd := newClassifyModel().Update(key)
		require.NotNil(t, cmd, key.String())
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}

	_, cmd := newClassifyModel().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
}

func TestRenderReportLines_KeepsNewest(t *testing.T) {
	lines := renderReportLines(sampleReports, 1)

	assert.Contains(t, lines, "wide")
	assert.NotContains(t, lines, "parity")
}
