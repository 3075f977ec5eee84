package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
)

const pollInterval = 200 * time.Millisecond

// AnalyzerModel drives the owner's analysis session: start, wait with a
// spinner, show the report, re-analyze.
type AnalyzerModel struct {
	deps Deps

	spinner spinner.Model
	status  analytics.Status
	err     error
}

func NewAnalyzerModel(deps Deps) AnalyzerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return AnalyzerModel{
		deps:    deps,
		spinner: s,
		status:  deps.Ledger.Analysis(deps.Owner),
	}
}

func (m AnalyzerModel) Title() string { return "Savings Analyzer" }

func (m AnalyzerModel) ShortHelp() string {
	switch m.status.State {
	case analytics.StateAnalyzing:
		return "x: cancel | Esc: back"
	case analytics.StateReady:
		return "a: re-analyze | Esc: back"
	}

	return "a: analyze | Esc: back"
}

func (m AnalyzerModel) Init() tea.Cmd {
	if m.status.State == analytics.StateAnalyzing {
		return tea.Batch(m.spinner.Tick, poll())
	}

	return nil
}

type pollMsg struct{}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

type analysisStartedMsg struct {
	err error
}

func (m AnalyzerModel) startCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return analysisStartedMsg{err: m.deps.Ledger.StartAnalysis(ctx, m.deps.Owner)}
	}
}

func (m AnalyzerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "a", "enter":
			if m.status.State == analytics.StateAnalyzing {
				return m, nil
			}

			m.err = nil

			return m, m.startCmd()
		case "x":
			m.deps.Ledger.CancelAnalysis(m.deps.Owner)
			m.status = m.deps.Ledger.Analysis(m.deps.Owner)

			return m, nil
		}

	case analysisStartedMsg:
		if msg.err != nil && !errors.Is(msg.err, analytics.ErrAnalysisInProgress) {
			m.err = msg.err
			return m, nil
		}

		m.status = m.deps.Ledger.Analysis(m.deps.Owner)

		return m, tea.Batch(m.spinner.Tick, poll())

	case pollMsg:
		m.status = m.deps.Ledger.Analysis(m.deps.Owner)
		if m.status.State == analytics.StateAnalyzing {
			return m, poll()
		}

		return m, nil

	case spinner.TickMsg:
		if m.status.State != analytics.StateAnalyzing {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m AnalyzerModel) View() string {
	var body string

	switch {
	case m.err != nil && !errors.Is(m.err, context.Canceled):
		body = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status.State == analytics.StateAnalyzing:
		body = m.spinner.View() + " Analyzing your spending patterns..."
	case m.status.State == analytics.StateReady && m.status.Report != nil:
		body = m.renderReport(*m.status.Report)
	default:
		body = "Analyze your expenses to find personalized savings opportunities.\n\n" +
			faintStyle.Render("Press a to start.")
	}

	return lipgloss.NewStyle().Padding(1).Render(
		panelStyle.Width(70).Render(titleStyle.Render("Savings Analyzer") + "\n\n" + body),
	)
}

func (m AnalyzerModel) renderReport(r analytics.Report) string {
	conv := m.deps.Currency

	if len(r.Insights) == 0 {
		return "No savings opportunities found. Your spending looks lean, or there is not enough data yet."
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Total potential savings: %s per month\n",
		activeStyle(conv.FormatFloat(r.TotalPotentialSavings)))

	for _, in := range r.Insights {
		fmt.Fprintf(&b, "\n%s  %s → %s  (save %s, %d%% confidence)\n",
			titleStyle.Render(in.Category),
			conv.FormatFloat(in.CurrentSpending),
			conv.FormatFloat(in.SuggestedBudget),
			activeStyle(conv.FormatFloat(in.PotentialSavings)),
			in.Confidence,
		)

		for _, tip := range in.Tips {
			fmt.Fprintf(&b, "  • %s\n", tip)
		}
	}

	return b.String()
}
