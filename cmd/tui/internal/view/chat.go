package view

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendlens/internal/assistant"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

const (
	replyTimeout = 30 * time.Second
	chatGreeting = "Hi! I'm your financial assistant. Ask me about saving money, analyzing your spending, or budgeting."
)

type chatLine struct {
	fromUser bool
	text     string
}

// ChatModel is a question and answer session with the spending assistant.
type ChatModel struct {
	deps Deps

	input   textinput.Model
	spinner spinner.Model
	lines   []chatLine
	waiting bool
}

func NewChatModel(deps Deps) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "How can I save money?"
	ti.CharLimit = 300
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	return ChatModel{
		deps:    deps,
		input:   ti,
		spinner: s,
		lines:   []chatLine{{text: chatGreeting}},
	}
}

func (m ChatModel) Title() string { return "Assistant" }

func (m ChatModel) ShortHelp() string { return "Enter: send | Esc: back" }

func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

type replyMsg struct {
	text string
}

func (m ChatModel) askCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()

		es, err := m.deps.Ledger.Expenses(ctx, m.deps.Owner, expense.ListFilter{})
		if err != nil {
			return replyMsg{text: "Sorry, I couldn't load your expenses: " + err.Error()}
		}

		return replyMsg{text: m.deps.Assistant.Reply(ctx, assistant.NewContext(es, m.deps.Currency), query)}
	}
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			query := strings.TrimSpace(m.input.Value())
			if query == "" || m.waiting {
				return m, nil
			}

			m.lines = append(m.lines, chatLine{fromUser: true, text: query})
			m.input.Reset()
			m.waiting = true

			return m, tea.Batch(m.spinner.Tick, m.askCmd(query))
		}

	case replyMsg:
		m.waiting = false
		m.lines = append(m.lines, chatLine{text: msg.text})

		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m ChatModel) View() string {
	var b strings.Builder

	userStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	botStyle := lipgloss.NewStyle().Width(70)

	for _, l := range m.lines {
		if l.fromUser {
			b.WriteString(userStyle.Render("You: ") + l.text + "\n\n")
			continue
		}

		b.WriteString(botStyle.Render(titleStyle.Render("Assistant: ")+l.text) + "\n\n")
	}

	if m.waiting {
		b.WriteString(m.spinner.View() + " Thinking...\n\n")
	}

	b.WriteString(m.input.View())

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}
