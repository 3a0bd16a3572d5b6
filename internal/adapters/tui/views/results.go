package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mxfind/internal/adapters/tui/styles"
	"mxfind/internal/domain"
)

// Focus is the part of the results view receiving keys
type Focus int

const (
	FocusSearch Focus = iota
	FocusReplace
	FocusResults
)

// ResultsKeyMap defines key bindings for the results view
type ResultsKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Collapse   key.Binding
	Expand     key.Binding
	Toggle     key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Replace    key.Binding
	ReplaceAll key.Binding
	Open       key.Binding
	Copy       key.Binding
	Search     key.Binding
	NextField  key.Binding
	Submit     key.Binding
	Leave      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var ResultsKeys = ResultsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Expand: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+f"),
		key.WithHelp("pgdn", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("pgup", "ctrl+b"),
		key.WithHelp("pgup", "prev page"),
	),
	Replace: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "replace"),
	),
	ReplaceAll: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "replace all"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy path"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "search"),
	),
	Leave: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "results"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// chromeLines is the height taken by everything but the result rows
const chromeLines = 14

// ResultsModel is the main view: search and replace fields over a
// collapsible tree of documents and their matches
type ResultsModel struct {
	ViewState
	searchInput  textinput.Model
	replaceInput textinput.Model
	spinner      spinner.Model
	paginator    *Paginator
	focus        Focus

	searching bool
	term      string
	results   []domain.SearchResult
	root      *domain.TreeNode
	rows      []*domain.TreeNode
}

// NewResultsModel creates the results view with the search field focused
func NewResultsModel() *ResultsModel {
	search := textinput.New()
	search.Placeholder = "Search names, captions, titles..."
	search.Prompt = "Find:    "
	search.Focus()

	replace := textinput.New()
	replace.Placeholder = "(empty removes the match)"
	replace.Prompt = "Replace: "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &ResultsModel{
		searchInput:  search,
		replaceInput: replace,
		spinner:      s,
		paginator:    NewPaginator(10),
		focus:        FocusSearch,
	}
}

// Init initializes the results view
func (m *ResultsModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the view dimensions and the page size
func (m *ResultsModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(max(height-chromeLines, 5))
}

// Term returns the term of the results on screen
func (m *ResultsModel) Term() string {
	return m.term
}

// Results returns the results on screen
func (m *ResultsModel) Results() []domain.SearchResult {
	return m.results
}

// Focused returns the part of the view receiving keys
func (m *ResultsModel) Focused() Focus {
	return m.focus
}

// Searching reports whether a search is running
func (m *ResultsModel) Searching() bool {
	return m.searching
}

// Update handles messages for the results view
func (m *ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.searching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case SearchDoneMsg:
		m.searching = false
		if msg.Err != nil {
			m.SetError(msg.Err)
			return m, nil
		}
		m.setResults(msg.Term, msg.Results)
		switch {
		case len(msg.Results) == 0:
			m.SetMessage(fmt.Sprintf("No matches for %q", msg.Term), false)
		case msg.Diagnostics > 0:
			m.SetMessage(fmt.Sprintf("Some documents could not be read (%d problems, see log)", msg.Diagnostics), true)
		default:
			m.ClearMessage()
		}
		if len(msg.Results) > 0 {
			m.setFocus(FocusResults)
		}
		return m, nil

	case StatusMsg:
		m.SetMessage(msg.Text, msg.IsErr)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.focus == FocusResults {
			return m.updateResults(msg)
		}
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m *ResultsModel) updateInputs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, ResultsKeys.Submit):
		return m, m.requestSearch()
	case key.Matches(msg, ResultsKeys.NextField):
		if m.focus == FocusSearch {
			m.setFocus(FocusReplace)
		} else if len(m.rows) > 0 {
			m.setFocus(FocusResults)
		} else {
			m.setFocus(FocusSearch)
		}
		return m, nil
	case key.Matches(msg, ResultsKeys.Leave):
		if len(m.rows) > 0 {
			m.setFocus(FocusResults)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == FocusSearch {
		m.searchInput, cmd = m.searchInput.Update(msg)
	} else {
		m.replaceInput, cmd = m.replaceInput.Update(msg)
	}
	return m, cmd
}

func (m *ResultsModel) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.ClearMessage()

	switch {
	case key.Matches(msg, ResultsKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, ResultsKeys.Up):
		m.paginator.CursorUp()

	case key.Matches(msg, ResultsKeys.Down):
		m.paginator.CursorDown()

	case key.Matches(msg, ResultsKeys.Top):
		m.paginator.Home()

	case key.Matches(msg, ResultsKeys.Bottom):
		m.paginator.End()

	case key.Matches(msg, ResultsKeys.NextPage):
		m.paginator.NextPage()

	case key.Matches(msg, ResultsKeys.PrevPage):
		m.paginator.PrevPage()

	case key.Matches(msg, ResultsKeys.Collapse):
		if row := m.selected(); row != nil {
			if row.Kind == domain.TreeMatch {
				m.selectRow(row.Parent)
			} else if row.IsExpanded {
				row.Collapse()
				m.refreshRows()
			}
		}

	case key.Matches(msg, ResultsKeys.Expand):
		if row := m.selected(); row != nil && row.Kind == domain.TreeDocument && !row.IsExpanded {
			row.Expand()
			m.refreshRows()
		}

	case key.Matches(msg, ResultsKeys.Toggle):
		if row := m.selected(); row != nil && row.Kind == domain.TreeDocument {
			row.Toggle()
			m.refreshRows()
		}

	case key.Matches(msg, ResultsKeys.Replace):
		if row := m.selected(); row != nil && row.Kind == domain.TreeMatch {
			req := ReplaceRequestMsg{
				Result:      *row.Result,
				Match:       *row.Match,
				Term:        m.term,
				Replacement: m.replaceInput.Value(),
			}
			return m, func() tea.Msg { return req }
		}
		m.SetMessage("Select a match to replace it", true)

	case key.Matches(msg, ResultsKeys.ReplaceAll):
		if len(m.results) > 0 {
			req := ReplaceAllRequestMsg{
				Results:     m.results,
				Term:        m.term,
				Replacement: m.replaceInput.Value(),
			}
			return m, func() tea.Msg { return req }
		}

	case key.Matches(msg, ResultsKeys.Open):
		if row := m.selected(); row != nil {
			id := row.Result.DocumentID
			return m, func() tea.Msg { return OpenDocumentRequestMsg{DocumentID: id} }
		}

	case key.Matches(msg, ResultsKeys.Copy):
		if row := m.selected(); row != nil {
			return m, copyToClipboard(rowPath(row))
		}

	case key.Matches(msg, ResultsKeys.Search):
		m.setFocus(FocusSearch)

	case key.Matches(msg, ResultsKeys.NextField):
		m.setFocus(FocusSearch)

	case key.Matches(msg, ResultsKeys.Help):
		return m, func() tea.Msg { return SwitchToHelpMsg{} }
	}

	return m, nil
}

func (m *ResultsModel) requestSearch() tea.Cmd {
	term := strings.TrimSpace(m.searchInput.Value())
	if term == "" {
		m.SetMessage("Type something to search for", true)
		return nil
	}
	m.searching = true
	m.ClearMessage()
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return SearchRequestMsg{Term: term} },
	)
}

// Refresh asks for the current term again, keeping the tree until results arrive
func (m *ResultsModel) Refresh() tea.Cmd {
	if m.term == "" {
		return nil
	}
	term := m.term
	m.searching = true
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return SearchRequestMsg{Term: term} },
	)
}

func (m *ResultsModel) setFocus(f Focus) {
	m.focus = f
	m.searchInput.Blur()
	m.replaceInput.Blur()
	switch f {
	case FocusSearch:
		m.searchInput.Focus()
	case FocusReplace:
		m.replaceInput.Focus()
	}
}

func (m *ResultsModel) setResults(term string, results []domain.SearchResult) {
	m.term = term
	m.results = results
	m.root = domain.BuildResultTree(results)
	m.paginator.Reset()
	m.refreshRows()
}

func (m *ResultsModel) refreshRows() {
	if m.root == nil {
		m.rows = nil
		return
	}
	m.rows = m.root.Flatten()
	m.paginator.SetTotal(len(m.rows))
}

func (m *ResultsModel) selected() *domain.TreeNode {
	cursor := m.paginator.Cursor()
	if cursor >= 0 && cursor < len(m.rows) {
		return m.rows[cursor]
	}
	return nil
}

func (m *ResultsModel) selectRow(target *domain.TreeNode) {
	for i, row := range m.rows {
		if row == target {
			m.paginator.SetCursor(i)
			return
		}
	}
}

// rowPath is the location copied for a row
func rowPath(row *domain.TreeNode) string {
	doc := row.Result.QualifiedName
	if doc == "" {
		doc = row.Result.DocumentName
	}
	if row.Kind != domain.TreeMatch {
		return doc
	}
	if p := row.Match.PathDisplay(); p != "" {
		return doc + domain.PathSeparator + p
	}
	return doc
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return StatusMsg{Text: "Copy failed: " + err.Error(), IsErr: true}
		}
		return StatusMsg{Text: "Copied " + text}
	}
}

// View renders the results view
func (m *ResultsModel) View() string {
	v := NewViewBuilder()
	v.Title("mxfind")

	v.Line(m.renderInput(m.searchInput, m.focus == FocusSearch))
	v.Line(m.renderInput(m.replaceInput, m.focus == FocusReplace))
	v.BlankLine()

	switch {
	case m.searching:
		v.Line(m.spinner.View() + " Searching...")
	case m.root == nil:
		v.Muted("Type a term and press enter")
	case len(m.rows) > 0:
		v.Line(styles.Subtitle.Render(fmt.Sprintf("%d matches in %d documents",
			domain.CountMatches(m.results), len(m.results))))
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderRow(m.rows[i], i == m.paginator.Cursor() && m.focus == FocusResults))
		}
		if m.paginator.TotalPages() > 1 {
			v.Muted(fmt.Sprintf("page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages()))
		}
	}

	v.Message(m.Message, m.MessageErr)

	if m.focus == FocusResults {
		k := ResultsKeys
		v.Help(k.Up, k.Down, k.Toggle, k.Replace, k.ReplaceAll, k.Open, k.Copy, k.Search, k.Help, k.Quit)
	} else {
		k := ResultsKeys
		v.Help(k.Submit, k.NextField, k.Leave)
	}
	return v.String()
}

func (m *ResultsModel) renderInput(in textinput.Model, focused bool) string {
	if focused {
		return styles.InputFocused.Render(in.View())
	}
	return styles.InputField.Render(in.View())
}

func (m *ResultsModel) renderRow(row *domain.TreeNode, selected bool) string {
	indent := strings.Repeat("  ", row.Depth())
	width := m.Width - 8 - len(indent)

	if row.Kind == domain.TreeDocument {
		prefix := styles.TreeCollapsed
		if row.IsExpanded {
			prefix = styles.TreeExpanded
		}
		r := row.Result
		text := fmt.Sprintf("%s  %s (%d)", r.DisplayName, r.CollectionLabel, len(r.Matches))
		if selected {
			return indent + styles.TreeBranch.Render(prefix) + styles.RowSelected.Render(Truncate(text, width))
		}
		return indent + styles.TreeBranch.Render(prefix) +
			styles.DocumentRow.Render(r.DisplayName) + "  " +
			styles.DocumentType.Render(fmt.Sprintf("%s (%d)", r.CollectionLabel, len(r.Matches)))
	}

	match := row.Match
	if selected {
		text := fmt.Sprintf("%s  %s  %s", match.KindLabel, match.Value, match.PathDisplay())
		return indent + styles.TreeLeaf + styles.RowSelected.Render(Truncate(text, width))
	}
	kind := styles.MatchRow.Foreground(styles.KindColor(string(match.Kind))).Render(match.KindLabel)
	return indent + styles.TreeLeaf + kind + "  " + Highlight(match.Value, m.term) + "  " +
		styles.MatchPath.Render(match.PathDisplay())
}
