package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendlens/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/spendlens/internal/app"
	"github.com/MrJamesThe3rd/spendlens/internal/config"
	"github.com/MrJamesThe3rd/spendlens/internal/logging"
)

type model struct {
	deps view.Deps

	currentView View

	listView      view.ListModel
	addView       view.AddModel
	dashboardView view.DashboardModel
	analyzerView  view.AnalyzerModel
	importView    view.ImportModel
	chatView      view.ChatModel
}

type View int

const (
	ViewMenu      View = 0
	ViewList      View = 1
	ViewAdd       View = 2
	ViewDashboard View = 3
	ViewAnalyzer  View = 4
	ViewImport    View = 5
	ViewChat      View = 6
)

func initialModel(deps view.Deps) model {
	return model{
		deps:        deps,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.deps)

				return m, m.listView.Init()
			case "2":
				m.currentView = ViewAdd
				m.addView = view.NewAddModel(m.deps)

				return m, m.addView.Init()
			case "3":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.deps)

				return m, m.dashboardView.Init()
			case "4":
				m.currentView = ViewAnalyzer
				m.analyzerView = view.NewAnalyzerModel(m.deps)

				return m, m.analyzerView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.deps)

				return m, m.importView.Init()
			case "6":
				m.currentView = ViewChat
				m.chatView = view.NewChatModel(m.deps)

				return m, m.chatView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewAdd:
		var newModel tea.Model
		newModel, cmd = m.addView.Update(msg)
		m.addView = newModel.(view.AddModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewAnalyzer:
		var newModel tea.Model
		newModel, cmd = m.analyzerView.Update(msg)
		m.analyzerView = newModel.(view.AnalyzerModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewChat:
		var newModel tea.Model
		newModel, cmd = m.chatView.Update(msg)
		m.chatView = newModel.(view.ChatModel)
	}

	return m, cmd
}

func (m model) current() view.View {
	switch m.currentView {
	case ViewList:
		return m.listView
	case ViewAdd:
		return m.addView
	case ViewDashboard:
		return m.dashboardView
	case ViewAnalyzer:
		return m.analyzerView
	case ViewImport:
		return m.importView
	case ViewChat:
		return m.chatView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		return lipgloss.NewStyle().Padding(2).Render(
			"SpendLens (" + m.deps.Owner + ")\n\n" +
				"1. Expenses\n" +
				"2. Add Expense\n" +
				"3. Dashboard\n" +
				"4. Savings Analyzer\n" +
				"5. Import CSV\n" +
				"6. Assistant\n\n" +
				"q. Quit",
		)
	}

	v := m.current()
	if v == nil {
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.ShortHelp())

	return v.View() + "\n" + help
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to stderr at warn or above.
	logger, err := logging.New(os.Stderr, cfg.App.Name, "warn", cfg.Log.Format)
	if err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger)

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	deps := view.Deps{
		Ledger:    a.Ledger,
		Currency:  a.Currency,
		Importer:  a.Importer,
		Assistant: a.Assistant,
		Owner:     cfg.App.Owner,
	}

	p := tea.NewProgram(initialModel(deps), tea.WithAltScreen())

	_, runErr := p.Run()

	if err := a.Close(); err != nil {
		slog.Error("failed to close", "error", err)
	}

	if runErr != nil {
		slog.Error("failed to run TUI", "error", runErr)
		os.Exit(1)
	}
}
