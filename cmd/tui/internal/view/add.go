package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

type AddModel struct {
	deps Deps

	fields *expenseFields
	form   *huh.Form
	status string
	err    error
}

func NewAddModel(deps Deps) AddModel {
	return AddModel{deps: deps}
}

func (m AddModel) Title() string { return "Add Expense" }

func (m AddModel) ShortHelp() string {
	return "Navigate form | Esc: back"
}

func (m AddModel) Init() tea.Cmd {
	return m.loadCategoriesCmd()
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case addCategoriesMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.fields = newFields(m.deps.Currency, nil)
		m.form = newExpenseForm(m.fields, msg.categories, m.deps.Currency.Display)

		return m, m.form.Init()

	case addSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Added %s: %s", msg.expense.Description, m.deps.Currency.Format(msg.expense.Amount))
		}

		return m, m.loadCategoriesCmd()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	save := m.saveCmd()
	m.form = nil

	return m, save
}

func (m AddModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.form == nil {
		return lipgloss.NewStyle().Padding(2).Render("Loading categories...")
	}

	content := titleStyle.Render("Add Expense") + "\n\n" + m.form.View()
	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(panelStyle.Width(50).Render(content))
}

type addCategoriesMsg struct {
	categories []string
	err        error
}

func (m AddModel) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		categories, err := m.deps.Ledger.Categories(ctx, m.deps.Owner)

		return addCategoriesMsg{categories: categories, err: err}
	}
}

type addSavedMsg struct {
	expense *expense.Expense
	err     error
}

func (m AddModel) saveCmd() tea.Cmd {
	fields := *m.fields

	return func() tea.Msg {
		params, err := fields.params(m.deps.Owner, m.deps.Currency)
		if err != nil {
			return addSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		e, err := m.deps.Ledger.Add(ctx, params)

		return addSavedMsg{expense: e, err: err}
	}
}
