package views

import "mxfind/internal/domain"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// SetError shows err, or clears the message when err is nil
func (s *ViewState) SetError(err error) {
	if err == nil {
		s.ClearMessage()
		return
	}
	s.SetMessage(err.Error(), true)
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Requests the views send to the app, which runs them against the host

// SearchRequestMsg asks for a search
type SearchRequestMsg struct {
	Term string
}

// ReplaceRequestMsg asks to replace the term inside one match
type ReplaceRequestMsg struct {
	Result      domain.SearchResult
	Match       domain.Match
	Term        string
	Replacement string
}

// ReplaceAllRequestMsg asks to replace the term in every listed result
type ReplaceAllRequestMsg struct {
	Results     []domain.SearchResult
	Term        string
	Replacement string
}

// OpenDocumentRequestMsg asks to open a document in the editor
type OpenDocumentRequestMsg struct {
	DocumentID string
}

// Results the app sends back

// SearchDoneMsg carries the outcome of a search
type SearchDoneMsg struct {
	Term        string
	Results     []domain.SearchResult
	Diagnostics int
	Err         error
}

// ReplaceDoneMsg carries the outcome of a replace
type ReplaceDoneMsg struct {
	Report *domain.ReplaceReport
	Err    error
}

// StatusMsg shows a one-line status in the current view
type StatusMsg struct {
	Text  string
	IsErr bool
}

// View switching
type SwitchToHelpMsg struct{}

type SwitchToResultsMsg struct{}
