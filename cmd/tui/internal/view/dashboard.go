package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
)

const barWidth = 30

// DashboardModel shows the owner's current Summary.
type DashboardModel struct {
	deps Deps

	summary analytics.Summary
	loading bool
	err     error
}

func NewDashboardModel(deps Deps) DashboardModel {
	return DashboardModel{deps: deps, loading: true}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		m.loading = false
		m.summary, m.err = msg.summary, msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading summary...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	conv := m.deps.Currency
	s := m.summary

	if s.IsEmpty() {
		return lipgloss.NewStyle().Padding(2).Render("No expenses yet. Add one from the menu.")
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Total spent: "+conv.Format(s.Total)))

	b.WriteString(titleStyle.Render("By category") + "\n")
	for _, c := range s.Categories() {
		fmt.Fprintf(&b, "%-16s %s %s\n", c, bar(s.ByCategory[c], s.Total), conv.Format(s.ByCategory[c]))
	}

	b.WriteString("\n" + titleStyle.Render("By month") + "\n")

	peak := decimal.Zero
	for _, v := range s.ByMonth {
		peak = decimal.Max(peak, v)
	}

	for _, month := range s.Months() {
		fmt.Fprintf(&b, "%-16s %s %s\n", month, bar(s.ByMonth[month], peak), conv.Format(s.ByMonth[month]))
	}

	return lipgloss.NewStyle().Padding(1).Render(panelStyle.Render(b.String()))
}

func bar(part, whole decimal.Decimal) string {
	n := 0
	if whole.IsPositive() {
		n = int(part.Div(whole).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	}

	return activeStyle(strings.Repeat("█", n)) + strings.Repeat("░", barWidth-n)
}

type summaryMsg struct {
	summary analytics.Summary
	err     error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s, err := m.deps.Ledger.Summary(ctx, m.deps.Owner)

		return summaryMsg{summary: s, err: err}
	}
}
