// Package controller provides output adapters for displaying circuits and oracle verdicts.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	m "kickback.dev/pkg/kickback/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeStatic StartMode = iota
	ModeClassify
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// Mode reports the mode selected by the options.
func (c StartConfig) Mode() StartMode {
	return c.mode
}

// NewStartConfig applies options over the static mode default.
func NewStartConfig(options ...StartOption) StartConfig {
	config := StartConfig{mode: ModeStatic}
	for _, option := range options {
		option(&config)
	}

	return config
}

// WithStaticMode sets the UI to print-and-exit mode.
func WithStaticMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeStatic
	}
}

// WithClassifyMode sets the UI to live evaluation progress mode.
func WithClassifyMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeClassify
	}
}

// UI defines the interface for displaying circuits, evaluations and reports.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayConcurrencyInfo(ctx context.Context, threads int, count int)
	DisplayStartingEvaluation(ctx context.Context, oracle string)
	DisplayCompletedEvaluation(ctx context.Context, report m.Report)
	DisplaySummary(ctx context.Context, reports []m.Report)
	DisplayCircuit(ctx context.Context, circuit m.Circuit) error
	DisplayText(ctx context.Context, text string) error
	DisplayReports(ctx context.Context, reports []m.Report) error
}

// NewUI returns a TUI when useTTY is set and a SimpleUI otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal. Pipes, regular files
// and non-file writers are not.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	info, err := file.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

func countVerdicts(reports []m.Report) (constant, balanced, failed int) {
	for _, report := range reports {
		switch {
		case report.Failed():
			failed++
		case report.Verdict == m.Constant:
			constant++
		case report.Verdict == m.Balanced:
			balanced++
		}
	}

	return constant, balanced, failed
}
