package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
	listStateDelete
)

type ListModel struct {
	deps Deps

	state      listState
	table      table.Model
	expenses   []*expense.Expense
	categories []string
	form       *huh.Form
	fields     *expenseFields
	confirm    *bool

	// Index into categories; -1 shows every category.
	categoryIdx int
	timeframe   Timeframe

	loading bool
	err     error
	status  string
}

func NewListModel(deps Deps) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 16},
		{Title: "Amount", Width: 14},
		{Title: "Description", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		deps:        deps,
		table:       t,
		categoryIdx: -1,
		loading:     true,
	}
}

func (m ListModel) Title() string { return "Expenses" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateEdit:
		return "Navigate form | Esc: cancel"
	case listStateDelete:
		return "Confirm deletion | Esc: cancel"
	}

	return "Esc: back | e: edit | x: delete | c: category | d: date | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.expenses = msg.expenses
		m.categories = msg.categories
		m.refreshTable()

		return m, nil

	case listSaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateEdit, listStateDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEdit()
		case "x":
			return m.enterDelete()
		case "d":
			m.timeframe = m.timeframe.Next()
			return m, m.loadCmd()
		case "c":
			m.categoryIdx++
			if m.categoryIdx >= len(m.categories) {
				m.categoryIdx = -1
			}

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) selected() *expense.Expense {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return nil
	}

	return m.expenses[idx]
}

func (m ListModel) enterEdit() (tea.Model, tea.Cmd) {
	e := m.selected()
	if e == nil {
		return m, nil
	}

	m.fields = newFields(m.deps.Currency, e)
	m.form = newExpenseForm(m.fields, m.categories, m.deps.Currency.Display)
	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) enterDelete() (tea.Model, tea.Cmd) {
	e := m.selected()
	if e == nil {
		return m, nil
	}

	m.confirm = new(false)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", e.Description)).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)
	m.state = listStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	save := m.saveCmd
	if m.state == listStateDelete {
		save = m.deleteCmd
	}

	cmd = save()
	m.state = listStateBrowse
	m.form = nil

	return m, cmd
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	label := "All"
	if m.categoryIdx >= 0 && m.categoryIdx < len(m.categories) {
		label = m.categories[m.categoryIdx]
	}

	header := fmt.Sprintf(
		"Filter: [c] Category: %s | [d] Date: %s | %d expenses",
		activeStyle(label),
		activeStyle(m.timeframe.String()),
		len(m.expenses),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != listStateBrowse && m.form != nil {
		title := "Edit Expense"
		if m.state == listStateDelete {
			title = "Delete Expense"
		}

		panel := panelStyle.Width(48).Render(title + "\n\n" + m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.expenses))
	for _, e := range m.expenses {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			e.Category,
			m.deps.Currency.Format(e.Amount),
			e.Description,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	expenses   []*expense.Expense
	categories []string
	err        error
}

func (m ListModel) loadCmd() tea.Cmd {
	var filter expense.ListFilter
	if m.categoryIdx >= 0 && m.categoryIdx < len(m.categories) {
		filter.Category = new(m.categories[m.categoryIdx])
	}

	if start, end, ok := m.timeframe.Range(time.Now()); ok {
		filter.StartDate, filter.EndDate = &start, &end
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		categories, err := m.deps.Ledger.Categories(ctx, m.deps.Owner)
		if err != nil {
			return loadListMsg{err: err}
		}

		es, err := m.deps.Ledger.Expenses(ctx, m.deps.Owner, filter)

		return loadListMsg{expenses: es, categories: categories, err: err}
	}
}

type listSaveMsg struct {
	status string
	err    error
}

func (m ListModel) saveCmd() tea.Cmd {
	e := m.selected()
	if e == nil {
		return nil
	}

	fields := *m.fields

	return func() tea.Msg {
		params, err := fields.params(m.deps.Owner, m.deps.Currency)
		if err != nil {
			return listSaveMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.deps.Ledger.Edit(ctx, m.deps.Owner, e.ID, params); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Expense updated."}
	}
}

func (m ListModel) deleteCmd() tea.Cmd {
	e := m.selected()
	if e == nil || m.confirm == nil || !*m.confirm {
		return func() tea.Msg { return listSaveMsg{} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.deps.Ledger.Remove(ctx, m.deps.Owner, e.ID); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Expense deleted."}
	}
}
