package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"mxfind/internal/adapters/tui/views"
	"mxfind/internal/application"
	"mxfind/internal/application/commands"
	"mxfind/internal/domain"
	"mxfind/internal/ports"
)

var errMatchGone = errors.New("match no longer in the document, search again")

// ViewState represents the current view
type ViewState int

const (
	ViewResults ViewState = iota
	ViewConfirm
	ViewHelp
)

// documentLocator is implemented by hosts whose documents are files
type documentLocator interface {
	DocumentPath(documentID string) (string, bool)
}

// App is the main TUI application model
type App struct {
	host   ports.Host
	editor ports.EditorOpener
	logger *slog.Logger

	state   ViewState
	results *views.ResultsModel
	confirm *views.ConfirmReplaceModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. ed may be nil.
func NewApp(host ports.Host, ed ports.EditorOpener, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		host:    host,
		editor:  ed,
		logger:  logger,
		state:   ViewResults,
		results: views.NewResultsModel(),
		confirm: views.NewConfirmReplaceModel(),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.results.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.results.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}

	// View switching messages
	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToResultsMsg:
		a.state = ViewResults
		return a, nil

	// Requests from the views
	case views.SearchRequestMsg:
		return a, a.search(msg.Term)

	case views.ReplaceRequestMsg:
		return a, a.replaceMatch(msg)

	case views.ReplaceAllRequestMsg:
		a.confirm.SetRequest(msg)
		a.state = ViewConfirm
		return a, nil

	case views.ReplaceConfirmedMsg:
		a.state = ViewResults
		req := msg.Request
		return a, a.replace(commands.NewReplaceCommand(a.host, a.logger, req.Results, req.Term, req.Replacement))

	case views.ReplaceDoneMsg:
		a.state = ViewResults
		_, cmd := a.results.Update(replaceStatus(msg))
		if msg.Report != nil && len(msg.Report.Replacements) > 0 {
			return a, tea.Batch(cmd, a.results.Refresh())
		}
		return a, cmd

	case views.OpenDocumentRequestMsg:
		return a, a.openDocument(msg.DocumentID)

	case editorFinishedMsg:
		if msg.err != nil {
			_, cmd := a.results.Update(views.StatusMsg{Text: msg.err.Error(), IsErr: true})
			return a, cmd
		}
		return a, a.results.Refresh()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewResults:
		_, cmd = a.results.Update(msg)
	case ViewConfirm:
		_, cmd = a.confirm.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

func (a *App) search(term string) tea.Cmd {
	host, logger := a.host, a.logger
	return func() tea.Msg {
		report, err := commands.NewSearchCommand(host, logger, term).Execute(context.Background())
		if err != nil {
			return views.SearchDoneMsg{Term: term, Err: err}
		}
		return views.SearchDoneMsg{Term: term, Results: report.Results, Diagnostics: len(report.Diagnostics)}
	}
}

func (a *App) replace(cmd *commands.ReplaceCommand) tea.Cmd {
	return func() tea.Msg {
		report, err := cmd.Execute(context.Background())
		return views.ReplaceDoneMsg{Report: report, Err: err}
	}
}

// replaceMatch searches again and replaces the current copy of the requested match
func (a *App) replaceMatch(req views.ReplaceRequestMsg) tea.Cmd {
	host, logger := a.host, a.logger
	return func() tea.Msg {
		ctx := context.Background()
		found, err := commands.NewSearchCommand(host, logger, req.Term).Execute(ctx)
		if err != nil {
			return views.ReplaceDoneMsg{Err: err}
		}
		result, match, ok := domain.LocateMatch(found.Results, req.Result.DocumentID, req.Match.TargetID, req.Match.PropertyName)
		if !ok {
			return views.ReplaceDoneMsg{Err: errMatchGone}
		}
		report, err := commands.NewReplaceMatchCommand(host, logger, result, match, req.Term, req.Replacement).Execute(ctx)
		return views.ReplaceDoneMsg{Report: report, Err: err}
	}
}

// replaceStatus turns a replace outcome into the line shown under the results
func replaceStatus(msg views.ReplaceDoneMsg) views.StatusMsg {
	switch {
	case msg.Report == nil && msg.Err != nil:
		return views.StatusMsg{Text: msg.Err.Error(), IsErr: true}
	case msg.Report == nil:
		return views.StatusMsg{Text: "Nothing replaced", IsErr: true}
	case msg.Err != nil:
		return views.StatusMsg{Text: fmt.Sprintf("%s %v", msg.Report.Message, msg.Err), IsErr: true}
	default:
		return views.StatusMsg{Text: msg.Report.Message}
	}
}

type editorFinishedMsg struct{ err error }

// openDocument runs the editor in the foreground for file-backed hosts and
// asks the host otherwise
func (a *App) openDocument(documentID string) tea.Cmd {
	if loc, ok := a.host.(documentLocator); ok && a.editor != nil {
		path, found := loc.DocumentPath(documentID)
		if !found {
			return func() tea.Msg {
				return editorFinishedMsg{err: fmt.Errorf("%w: %s", application.ErrDocumentNotFound, documentID)}
			}
		}
		cmd, err := a.editor.Command(path)
		if err != nil {
			return func() tea.Msg {
				return editorFinishedMsg{err: err}
			}
		}
		return tea.ExecProcess(cmd, func(err error) tea.Msg {
			return editorFinishedMsg{err: err}
		})
	}

	host := a.host
	return func() tea.Msg {
		_, err := commands.NewOpenDocumentCommand(host, documentID).Execute(context.Background())
		if errors.Is(err, application.ErrEditorUnavailable) {
			err = fmt.Errorf("no editor configured: set $EDITOR")
		}
		return editorFinishedMsg{err: err}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewConfirm:
		return a.confirm.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.results.View()
	}
}
