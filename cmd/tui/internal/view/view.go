package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/spendlens/internal/assistant"
	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/importer"
	"github.com/MrJamesThe3rd/spendlens/internal/ledger"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Deps is what every screen needs to read and change one owner's expenses.
type Deps struct {
	Ledger    *ledger.Ledger
	Currency  currency.Converter
	Importer  *importer.Service
	Assistant *assistant.Service
	Owner     string
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
