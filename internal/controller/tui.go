package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "kickback.dev/pkg/kickback/internal/model"
)

var errUIStarted = errors.New("ui already started")

// TUI implements UI using Bubble Tea for interactive display. In classify
// mode a program renders live progress; everything else is printed once.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress program in classify mode.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if NewStartConfig(options...).Mode() != ModeClassify {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return errUIStarted
	}

	program := tea.NewProgram(newClassifyModel(), tea.WithOutput(t.output), tea.WithContext(ctx))
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Error("TUI program stopped", "error", err)
		}
	}()

	t.program = program
	t.done = done

	return nil
}

// Close stops the progress program, if any, and waits for it to exit.
func (t *TUI) Close(_ context.Context) {
	program, done := t.current()
	if program == nil {
		return
	}

	program.Quit()
	<-done

	t.mu.Lock()
	t.program = nil
	t.done = nil
	t.mu.Unlock()
}

// Wait blocks until the user quits the progress program or ctx ends.
func (t *TUI) Wait(ctx context.Context) {
	_, done := t.current()
	if done == nil {
		return
	}

	select {
	case <-ctx.Done():
	case <-done:
	}
}

// DisplayConcurrencyInfo forwards the worker setup to the progress program.
func (t *TUI) DisplayConcurrencyInfo(_ context.Context, threads int, count int) {
	t.send(concurrencyMsg{threads: threads, count: count})
}

// DisplayStartingEvaluation marks oracle as in flight.
func (t *TUI) DisplayStartingEvaluation(_ context.Context, oracle string) {
	t.send(startEvaluationMsg{oracle: oracle})
}

// DisplayCompletedEvaluation records the verdict of one oracle.
func (t *TUI) DisplayCompletedEvaluation(_ context.Context, report m.Report) {
	t.send(completedEvaluationMsg{report: report})
}

// DisplaySummary switches the progress program to the final verdict view.
// Without a running program the verdicts are printed.
func (t *TUI) DisplaySummary(ctx context.Context, reports []m.Report) {
	if t.send(summaryMsg{reports: reports}) {
		return
	}

	_ = t.DisplayReports(ctx, reports)
}

// DisplayCircuit prints a styled operation listing of circuit.
func (t *TUI) DisplayCircuit(ctx context.Context, circuit m.Circuit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return t.print(renderCircuitView(circuit))
}

// DisplayText prints text as is.
func (t *TUI) DisplayText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return t.print(text)
}

// DisplayReports prints a styled verdict listing.
func (t *TUI) DisplayReports(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(reports) == 0 {
		return t.print("  No reports found\n")
	}

	constant, balanced, failed := countVerdicts(reports)
	view := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Kickback: oracle verdicts"),
		summaryStyle.Render(fmt.Sprintf("Total: %s  •  Constant: %s  •  Balanced: %s  •  Failed: %s",
			accentStyle.Render(fmt.Sprint(len(reports))),
			accentStyle.Render(fmt.Sprint(constant)),
			accentStyle.Render(fmt.Sprint(balanced)),
			accentStyle.Render(fmt.Sprint(failed)),
		)),
		renderReportLines(reports, len(reports)),
	)

	return t.print(view + "\n")
}

func renderCircuitView(circuit m.Circuit) string {
	header := titleStyle.Render(circuit.Name())
	summary := summaryStyle.Render(fmt.Sprintf("%s qubit(s)  •  %s classical bit(s)  •  %s operation(s)",
		accentStyle.Render(fmt.Sprint(circuit.Qubits())),
		accentStyle.Render(fmt.Sprint(circuit.Clbits())),
		accentStyle.Render(fmt.Sprint(circuit.Len())),
	))

	opStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Width(9)
	originStyle := lipgloss.NewStyle().Foreground(mutedColor)

	lines := make([]string, 0, circuit.Len())

	for i, op := range circuit.Operations() {
		name := string(op.Kind)
		if op.Kind == m.OpGate {
			name = string(op.Gate)
		}

		target := "q[" + formatQubits(op.Qubits) + "]"
		if op.Kind == m.OpMeasure {
			target += fmt.Sprintf(" -> c[%d]", op.Clbit)
		}

		line := fmt.Sprintf("  %3d  %s%s", i, opStyle.Render(name), target)
		if op.Origin != "" {
			line += "  " + originStyle.Render(op.Origin)
		}

		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, summary, lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}

func (t *TUI) current() (*tea.Program, chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.program, t.done
}

// send delivers msg to the running program and reports whether one was running.
func (t *TUI) send(msg tea.Msg) bool {
	program, _ := t.current()
	if program == nil {
		return false
	}

	program.Send(msg)

	return true
}

func (t *TUI) print(s string) error {
	_, err := fmt.Fprint(t.output, s)
	return err
}
