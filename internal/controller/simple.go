package controller

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "kickback.dev/pkg/kickback/internal/model"
)

const errorLabel = "error"

// SimpleUI implements UI using cobra Command's output. It is safe for use by
// concurrent workers.
type SimpleUI struct {
	cmd *cobra.Command
	mu  sync.Mutex
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait returns immediately; SimpleUI never blocks.
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayConcurrencyInfo shows how many oracles are evaluated and by how many workers.
func (s *SimpleUI) DisplayConcurrencyInfo(ctx context.Context, threads int, count int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Evaluating %d oracle(s) with %d worker(s)\n", count, threads)
}

// DisplayStartingEvaluation announces an oracle evaluation.
func (s *SimpleUI) DisplayStartingEvaluation(ctx context.Context, oracle string) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Evaluating %s\n", oracle)
}

// DisplayCompletedEvaluation prints the verdict of one oracle.
func (s *SimpleUI) DisplayCompletedEvaluation(ctx context.Context, report m.Report) {
	if ctx.Err() != nil {
		return
	}

	if report.Failed() {
		s.printf("Completed %s (%s) -> %s: %s\n", report.Oracle, report.Algorithm, errorLabel, report.Error)
		return
	}

	s.printf("Completed %s (%s) -> %s\n", report.Oracle, report.Algorithm, report.Verdict)
}

// DisplaySummary prints the verdict table and totals.
func (s *SimpleUI) DisplaySummary(ctx context.Context, reports []m.Report) {
	if ctx.Err() != nil {
		return
	}

	s.printf("\n%s", renderReportsTable(reports))
}

// DisplayCircuit prints the operations of circuit, one per row.
func (s *SimpleUI) DisplayCircuit(ctx context.Context, circuit m.Circuit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s: %d qubit(s), %d classical bit(s)\n\n%s",
		circuit.Name(), circuit.Qubits(), circuit.Clbits(), renderCircuitTable(circuit))

	return nil
}

// DisplayText prints text as is.
func (s *SimpleUI) DisplayText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	s.printf("%s", text)

	return nil
}

// DisplayReports prints saved reports.
func (s *SimpleUI) DisplayReports(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(reports) == 0 {
		s.printf("No reports found\n")
		return nil
	}

	s.printf("%s", renderReportsTable(reports))

	return nil
}

func renderReportsTable(reports []m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Oracle", "Algorithm", "Inputs", "Memory", "Verdict"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	for _, report := range reports {
		verdict := string(report.Verdict)
		if report.Failed() {
			verdict = errorLabel + ": " + report.Error
		}

		table.Append([]string{
			report.Oracle,
			string(report.Algorithm),
			strconv.Itoa(report.Inputs),
			report.Memory,
			verdict,
		})
	}

	constant, balanced, failed := countVerdicts(reports)
	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(reports)),
		"",
		"",
		"",
		fmt.Sprintf("%d constant, %d balanced, %d failed", constant, balanced, failed),
	})

	table.Render()

	return tableBuffer.String()
}

func renderCircuitTable(circuit m.Circuit) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"#", "Operation", "Qubits", "Clbit", "Origin"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	for i, op := range circuit.Operations() {
		name := string(op.Kind)
		clbit := ""

		switch op.Kind {
		case m.OpGate:
			name = string(op.Gate)
		case m.OpMeasure:
			clbit = strconv.Itoa(op.Clbit)
		case m.OpBarrier:
		}

		table.Append([]string{strconv.Itoa(i), name, formatQubits(op.Qubits), clbit, op.Origin})
	}

	table.Render()

	return tableBuffer.String()
}

func formatQubits(qubits []int) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = strconv.Itoa(q)
	}

	return strings.Join(parts, ",")
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
