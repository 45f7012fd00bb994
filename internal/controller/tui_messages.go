package controller

import m "kickback.dev/pkg/kickback/internal/model"

// Message types.
type concurrencyMsg struct {
	threads int
	count   int
}

type startEvaluationMsg struct {
	oracle string
}

type completedEvaluationMsg struct {
	report m.Report
}

type summaryMsg struct {
	reports []m.Report
}
