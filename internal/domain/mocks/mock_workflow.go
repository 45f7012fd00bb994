// Package mocks provides testify mocks for the domain ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"kickback.dev/pkg/kickback/internal/domain"
)

// MockWorkflow is a mock implementation of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

var _ domain.Workflow = (*MockWorkflow)(nil)

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted when
// the test finishes.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mockWorkflow := &MockWorkflow{}
	mockWorkflow.Mock.Test(t)

	t.Cleanup(func() { mockWorkflow.AssertExpectations(t) })

	return mockWorkflow
}

// Classify provides a mock function.
func (w *MockWorkflow) Classify(ctx context.Context, args domain.ClassifyArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Draw provides a mock function.
func (w *MockWorkflow) Draw(ctx context.Context, args domain.DrawArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Diff provides a mock function.
func (w *MockWorkflow) Diff(ctx context.Context, args domain.DiffArgs) error {
	return w.Called(ctx, args).Error(0)
}

// View provides a mock function.
func (w *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Generate provides a mock function.
func (w *MockWorkflow) Generate(ctx context.Context, args domain.GenerateArgs) error {
	return w.Called(ctx, args).Error(0)
}
