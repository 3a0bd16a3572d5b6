package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mxfind/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToResultsMsg{}
			}
		}
	}

	return m, nil
}

// helpSection groups bindings under a heading; descriptions come from the
// bindings themselves so the help cannot drift from the keymap
type helpSection struct {
	title    string
	bindings []key.Binding
}

func helpSections() []helpSection {
	k := ResultsKeys
	return []helpSection{
		{"Fields", []key.Binding{k.Submit, k.NextField, k.Leave}},
		{"Results", []key.Binding{k.Up, k.Down, k.Collapse, k.Expand, k.Toggle, k.Top, k.Bottom, k.PrevPage, k.NextPage}},
		{"Actions", []key.Binding{k.Replace, k.ReplaceAll, k.Open, k.Copy, k.Search}},
		{"General", []key.Binding{k.Help, k.Quit}},
	}
}

// View renders the help view
func (m *HelpModel) View() string {
	v := NewViewBuilder()
	v.Title("mxfind Help")
	v.Subtitle("Find and replace across a project model")

	for _, section := range helpSections() {
		v.Line(styles.InputLabel.Render(section.title))
		var b strings.Builder
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(helpLine(h.Key, h.Desc))
		}
		v.Line(strings.TrimSuffix(b.String(), "\n"))
		v.BlankLine()
	}

	v.Muted("Matching is case-insensitive. Replace all asks before writing.")
	v.Help(HelpKeys.Close)
	return v.String()
}

func helpLine(keys, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(keys, 12)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if n := len([]rune(s)); n < length {
		return s + strings.Repeat(" ", length-n)
	}
	return s
}
