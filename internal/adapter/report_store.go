package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	m "kickback.dev/pkg/kickback/internal/model"
)

// ReportsFileName is the file written inside the reports directory.
const ReportsFileName = "reports.yaml"

const reportsVersion = 1

// ReportStore persists evaluation reports.
type ReportStore interface {
	SaveReports(ctx context.Context, dir m.Path, reports []m.Report) error
	LoadReports(ctx context.Context, dir m.Path) ([]m.Report, error)
}

type reportsFile struct {
	Version int        `yaml:"version"`
	Reports []m.Report `yaml:"reports"`
}

type localReportStore struct{}

// NewReportStore constructs a ReportStore writing YAML files.
func NewReportStore() ReportStore {
	return &localReportStore{}
}

func (s *localReportStore) SaveReports(ctx context.Context, dir m.Path, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		slog.Error("Failed to create reports directory", "dir", dir, "error", err)
		return fmt.Errorf("create reports directory: %w", err)
	}

	data, err := yaml.Marshal(reportsFile{Version: reportsVersion, Reports: reports})
	if err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}

	path := filepath.Join(string(dir), ReportsFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		slog.Error("Failed to write reports", "path", path, "error", err)
		return fmt.Errorf("write reports: %w", err)
	}

	slog.Debug("Saved reports", "path", path, "count", len(reports))

	return nil
}

func (s *localReportStore) LoadReports(ctx context.Context, dir m.Path) ([]m.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(string(dir), ReportsFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read reports", "path", path, "error", err)
		return nil, fmt.Errorf("read reports: %w", err)
	}

	var file reportsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}

	if file.Version != reportsVersion {
		return nil, fmt.Errorf("unsupported reports version %d", file.Version)
	}

	return file.Reports, nil
}
