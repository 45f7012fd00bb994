package controller

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "kickback.dev/pkg/kickback/internal/model"
)

const (
	accentColor  = lipgloss.Color("6")
	mutedColor   = lipgloss.Color("8")
	titleColor   = lipgloss.Color("205")
	summaryColor = lipgloss.Color("252")

	maxProgressWidth = 60
)

var verdictColors = map[string]lipgloss.Color{
	string(m.Constant): lipgloss.Color("2"),
	string(m.Balanced): lipgloss.Color("3"),
	errorLabel:         lipgloss.Color("1"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(titleColor).
			Bold(true).
			Padding(1, 0, 0, 2)

	summaryStyle = lipgloss.NewStyle().
			Foreground(summaryColor).
			Padding(0, 0, 1, 2)

	accentStyle = lipgloss.NewStyle().Foreground(accentColor)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(1, 0, 0, 2)
)

// classifyModel shows evaluation progress and the verdicts collected so far.
type classifyModel struct {
	width       int
	height      int
	progressBar progress.Model
	threads     int
	total       int
	active      []string
	results     []m.Report
	finished    bool
}

func newClassifyModel() classifyModel {
	return classifyModel{
		progressBar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
	}
}

func (cm classifyModel) Init() tea.Cmd {
	return nil
}

func (cm classifyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cm.width = msg.Width
		cm.height = msg.Height
		cm.progressBar.Width = min(max(msg.Width-4, 10), maxProgressWidth)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return cm, tea.Quit
		}

	case concurrencyMsg:
		cm.threads = msg.threads
		cm.total = msg.count

	case startEvaluationMsg:
		cm.active = append(cm.active, msg.oracle)

	case completedEvaluationMsg:
		if i := slices.Index(cm.active, msg.report.Oracle); i >= 0 {
			cm.active = slices.Delete(slices.Clone(cm.active), i, i+1)
		}

		cm.results = append(slices.Clip(cm.results), msg.report)

	case summaryMsg:
		cm.finished = true
		cm.active = nil
		cm.results = slices.Clone(msg.reports)
	}

	return cm, nil
}

func (cm classifyModel) percent() float64 {
	if cm.total == 0 {
		return 0
	}

	return float64(len(cm.results)) / float64(cm.total)
}

func (cm classifyModel) View() string {
	title := "Kickback: evaluating oracles"
	if cm.finished {
		title = "Kickback: oracle verdicts"
	}

	constant, balanced, failed := countVerdicts(cm.results)

	summary := summaryStyle.Render(fmt.Sprintf(
		"Progress: %s / %s  •  Workers: %s  •  Constant: %s  •  Balanced: %s  •  Failed: %s",
		accentStyle.Render(fmt.Sprint(len(cm.results))),
		accentStyle.Render(fmt.Sprint(cm.total)),
		accentStyle.Render(fmt.Sprint(cm.threads)),
		accentStyle.Render(fmt.Sprint(constant)),
		accentStyle.Render(fmt.Sprint(balanced)),
		accentStyle.Render(fmt.Sprint(failed)),
	))

	sections := []string{
		titleStyle.Render(title),
		summary,
		lipgloss.NewStyle().Padding(0, 2).Render(cm.progressBar.ViewAs(cm.percent())),
	}

	if len(cm.active) > 0 {
		sections = append(sections, cm.renderActive())
	}

	sections = append(sections, renderReportLines(cm.results, cm.visibleResults()))

	footer := "Press q to quit"
	if !cm.finished {
		footer = "Evaluating…  press q to quit"
	}

	sections = append(sections, footerStyle.Render(footer))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (cm classifyModel) renderActive() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Margin(1, 1, 1, 2)

	lines := make([]string, 0, len(cm.active))
	for _, oracle := range cm.active {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Render(oracle))
	}

	return box.Render(strings.Join(lines, "\n"))
}

// visibleResults keeps the newest results that fit under the header.
func (cm classifyModel) visibleResults() int {
	if cm.height == 0 {
		return len(cm.results)
	}

	reserved := 12 + len(cm.active)

	return max(cm.height-reserved, 1)
}

// renderReportLines renders the last limit reports, one coloured line each.
func renderReportLines(reports []m.Report, limit int) string {
	if len(reports) > limit {
		reports = reports[len(reports)-limit:]
	}

	nameWidth := 0
	for _, report := range reports {
		nameWidth = max(nameWidth, lipgloss.Width(report.Oracle))
	}

	lines := make([]string, 0, len(reports))

	for _, report := range reports {
		verdict := string(report.Verdict)
		detail := report.Memory

		if report.Failed() {
			verdict = errorLabel
			detail = report.Error
		}

		verdictStyle := lipgloss.NewStyle().Foreground(verdictColors[verdict]).Bold(true).Width(9)
		nameStyle := lipgloss.NewStyle().Width(nameWidth + 2)
		algorithmStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Width(15)

		lines = append(lines, "  "+
			nameStyle.Render(report.Oracle)+
			algorithmStyle.Render(string(report.Algorithm))+
			verdictStyle.Render(verdict)+
			lipgloss.NewStyle().Foreground(mutedColor).Render(detail))
	}

	return strings.Join(lines, "\n")
}
