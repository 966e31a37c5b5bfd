// Package tui is the interactive chat surface: a bubbletea program driving a
// chat.Session against the OpenRouter client, with transcript rendering and
// on-demand markdown export.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/blossomz37/orchat/internal/catalog"
	"github.com/blossomz37/orchat/internal/chat"
	"github.com/blossomz37/orchat/internal/export"
	"github.com/blossomz37/orchat/pkg/openrouter"
)

type sendResultMsg struct {
	msg *openrouter.ResponseMessage
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}

// Model is the root bubbletea model for the chat TUI.
type Model struct {
	session   *chat.Session
	client    chat.Completer
	models    []catalog.Model
	modelIdx  int
	exportDir string

	input    textinput.Model
	spin     spinner.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	width  int
	height int
	status string
}

// New builds the TUI around an existing session. If the session has no model
// selected yet, the first catalog entry is used.
func New(session *chat.Session, client chat.Completer, cat *catalog.Catalog, exportDir string) Model {
	in := textinput.New()
	in.Placeholder = "Type a message"
	in.Prompt = "> "
	in.CharLimit = 0
	in.Width = 60
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		session:   session,
		client:    client,
		models:    cat.Models(),
		exportDir: exportDir,
		input:     in,
		spin:      sp,
		viewport:  viewport.New(80, 20),
		status:    "enter: send · tab: model · ctrl+e: export · ctrl+c: quit",
	}

	if sel, ok := session.Model(); ok {
		for i, md := range m.models {
			if md.ID == sel.ID {
				m.modelIdx = i
				break
			}
		}
	} else if len(m.models) > 0 {
		session.SelectModel(m.models[0])
	}

	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(78)); err == nil {
		m.renderer = r
	}

	m.refreshTranscript()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4
		m.input.Width = msg.Width - 4
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m, m.submit()
		case "tab":
			m.cycleModel()
			return m, nil
		case "ctrl+e":
			return m, m.exportTranscript()
		}

	case sendResultMsg:
		m.session.CompleteSend(msg.msg, msg.err)
		m.refreshTranscript()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("export failed: " + msg.err.Error())
		} else {
			m.status = "exported " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if m.session.Sending() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit begins a send cycle for the current input. Precondition failures
// (blank prompt, missing key, send in flight) are silent no-ops; the input is
// left untouched so nothing typed is lost.
func (m *Model) submit() tea.Cmd {
	req, err := m.session.BeginSend(m.input.Value())
	if err != nil {
		return nil
	}

	m.input.Reset()
	m.refreshTranscript()

	client := m.client
	outbound := *req
	call := func() tea.Msg {
		resp, err := client.Complete(context.Background(), outbound)
		return sendResultMsg{msg: resp, err: err}
	}
	return tea.Batch(m.spin.Tick, call)
}

// cycleModel selects the next catalog entry. Switching models mid-send is
// refused so the in-flight request and the session state stay consistent.
func (m *Model) cycleModel() {
	if m.session.Sending() || len(m.models) == 0 {
		return
	}
	m.modelIdx = (m.modelIdx + 1) % len(m.models)
	m.session.SelectModel(m.models[m.modelIdx])
}

func (m *Model) exportTranscript() tea.Cmd {
	tr := m.session.Transcript()
	dir := m.exportDir
	return func() tea.Msg {
		path, err := export.WriteFile(tr, dir, "md", nil)
		return exportDoneMsg{path: path, err: err}
	}
}

// refreshTranscript rebuilds the viewport content from the session state and
// keeps the view pinned to the newest turn.
func (m *Model) refreshTranscript() {
	var b strings.Builder
	for _, turn := range m.session.Transcript().All() {
		switch turn.Role {
		case chat.RoleUser:
			b.WriteString(userLabelStyle.Render("You") + "\n")
			b.WriteString(turn.Text + "\n")
		case chat.RoleAssistant:
			b.WriteString(assistantLabelStyle.Render("Assistant") + "\n")
			b.WriteString(m.renderMarkdown(turn.Text))
		}
		if n := len(turn.Images); n > 0 {
			noun := "images"
			if n == 1 {
				noun = "image"
			}
			b.WriteString(imageNoteStyle.Render(fmt.Sprintf("[%d %s attached — ctrl+e to export]", n, noun)) + "\n")
		}
		b.WriteString("\n")
	}
	if err := m.session.Err(); err != nil {
		b.WriteString(errorStyle.Render("error: "+err.Error()) + "\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMarkdown(text string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			return out
		}
	}
	return text + "\n"
}

// View renders the full screen.
func (m Model) View() string {
	model := "no model"
	if sel, ok := m.session.Model(); ok {
		model = fmt.Sprintf("%s (%s)", sel.Label, sel.Kind)
	}
	header := titleStyle.Render("orchat") + " " + statusStyle.Render(model)

	prompt := m.input.View()
	if m.session.Sending() {
		prompt = m.spin.View() + " waiting for " + model
	}

	return header + "\n" + m.viewport.View() + "\n" + prompt + "\n" + statusStyle.Render(m.status)
}

// Run starts the program on the alternate screen and blocks until exit.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
