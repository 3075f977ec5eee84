package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendlens/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

var importFormats = []string{importer.FormatAuto, "standard", "european"}

type ImportModel struct {
	deps Deps

	state        importState
	filePicker   filepicker.Model
	formatCursor int

	status string
	err    error
}

func NewImportModel(deps Deps) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		deps:       deps,
		filePicker: fp,
	}
}

func (m ImportModel) Title() string { return "Import Expenses" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateFormatSelect {
			return m.updateFormatSelect(msg)
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d expenses (%s, %s). Skipped %d rows, %d categorized by rules.",
			msg.imported, msg.result.Profile, msg.result.Charset, msg.result.Skipped, msg.result.Categorized)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateFormatSelect
		return m, nil
	case importStateResult:
		m.state = importStateFormatSelect
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case tea.KeyDown:
		if m.formatCursor < len(importFormats)-1 {
			m.formatCursor++
		}
	case tea.KeyEnter:
		m.state = importStateFilePick
		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	var body string

	switch m.state {
	case importStateFormatSelect:
		body = "Select CSV format:\n\n"
		for i, f := range importFormats {
			cursor := " "
			if i == m.formatCursor {
				cursor = ">"
			}

			body += fmt.Sprintf("%s %s\n", cursor, f)
		}
	case importStateFilePick:
		body = fmt.Sprintf("Pick a CSV file (%s):\n\n%s", importFormats[m.formatCursor], m.filePicker.View())
	case importStateImporting:
		body = m.status
	case importStateResult:
		body = m.status
		if m.err != nil {
			body = errorStyle.Render(m.status)
		}

		body += "\n\n" + faintStyle.Render("Esc to import another file")
	}

	return lipgloss.NewStyle().Padding(1).Render(titleStyle.Render("Import Expenses") + "\n\n" + body)
}

type importResultMsg struct {
	result   *importer.Result
	imported int
	err      error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	format := importFormats[m.formatCursor]

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: fmt.Errorf("failed to open file: %w", err)}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.deps.Importer.Parse(ctx, m.deps.Owner, f, format)
		if err != nil {
			return importResultMsg{err: err}
		}

		es, err := m.deps.Ledger.Import(ctx, m.deps.Owner, result.Entries)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result, imported: len(es)}
	}
}
