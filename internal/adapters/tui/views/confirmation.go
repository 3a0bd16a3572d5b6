package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mxfind/internal/adapters/tui/styles"
	"mxfind/internal/domain"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ReplaceConfirmedMsg is sent when the user accepts a pending replace-all
type ReplaceConfirmedMsg struct {
	Request ReplaceAllRequestMsg
}

// maxPreviewDocuments caps the documents listed in the confirmation
const maxPreviewDocuments = 8

// ConfirmReplaceModel asks before replacing across every result
type ConfirmReplaceModel struct {
	ViewState
	Keys    ConfirmKeyMap
	pending ReplaceAllRequestMsg
}

// NewConfirmReplaceModel creates a new confirmation model with default keys
func NewConfirmReplaceModel() *ConfirmReplaceModel {
	return &ConfirmReplaceModel{Keys: DefaultConfirmKeys}
}

// SetRequest sets the replace-all waiting for confirmation
func (m *ConfirmReplaceModel) SetRequest(req ReplaceAllRequestMsg) {
	m.pending = req
	m.ClearMessage()
}

// Init initializes the confirmation view
func (m *ConfirmReplaceModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the confirmation view
func (m *ConfirmReplaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Cancel):
		return m, func() tea.Msg { return SwitchToResultsMsg{} }
	case key.Matches(keyMsg, m.Keys.Confirm):
		req := m.pending
		return m, func() tea.Msg { return ReplaceConfirmedMsg{Request: req} }
	}
	return m, nil
}

// View renders the confirmation view
func (m *ConfirmReplaceModel) View() string {
	req := m.pending
	v := NewViewBuilder()
	v.Title("Replace all")

	v.Line(fmt.Sprintf("%s %q  %s %q",
		styles.InputLabel.Render("Find:"), req.Term,
		styles.InputLabel.Render("Replace with:"), req.Replacement))
	v.BlankLine()
	v.Line(fmt.Sprintf("%d matches in %d documents will be changed:",
		domain.CountMatches(req.Results), len(req.Results)))

	for i, r := range req.Results {
		if i == maxPreviewDocuments {
			v.Muted(fmt.Sprintf("  ... and %d more", len(req.Results)-maxPreviewDocuments))
			break
		}
		v.Line(fmt.Sprintf("  %s  %s", r.DisplayName, styles.MutedText.Render(fmt.Sprintf("(%d)", len(r.Matches)))))
	}

	v.BlankLine()
	v.Line(RenderConfirmPrompt("Apply these changes?"))
	v.Message(m.Message, m.MessageErr)
	return v.String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
