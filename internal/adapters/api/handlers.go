package api

import (
	"errors"
	"net/http"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/go-chi/chi/v5"

	"mxfind/internal/application"
	"mxfind/internal/application/commands"
	"mxfind/internal/domain"
)

type searchResponse struct {
	Term        string                `json:"term"`
	MatchCount  int                   `json:"matchCount"`
	Results     []domain.SearchResult `json:"results"`
	Diagnostics []string              `json:"diagnostics,omitempty"`
}

// handleSearch runs a search for the q query parameter.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	report, err := commands.NewSearchCommand(s.host, s.log, term).Execute(r.Context())
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	resp := searchResponse{
		Term:       strings.TrimSpace(term),
		MatchCount: report.MatchCount(),
		Results:    report.Results,
	}
	if resp.Results == nil {
		resp.Results = []domain.SearchResult{}
	}
	for _, d := range report.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, d.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

type replaceRequest struct {
	Query       string `json:"query"`
	Replacement string `json:"replacement"`
	DocumentID  string `json:"documentId,omitempty"`
	TargetID    string `json:"targetId,omitempty"`
	Property    string `json:"property,omitempty"`
}

type replaceResponse struct {
	*domain.ReplaceReport
	Errors []string `json:"errors,omitempty"`
}

// handleReplace searches for the query and replaces either one match
// (targetId given) or every match, optionally within one document.
func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	var req replaceRequest
	if err := j.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := application.ValidateRequired("searchTerm", req.Query); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	report, err := commands.NewSearchCommand(s.host, s.log, req.Query).Execute(ctx)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	var cmd *commands.ReplaceCommand
	if req.TargetID != "" {
		result, match, ok := domain.LocateMatch(report.Results, req.DocumentID, req.TargetID, req.Property)
		if !ok {
			jsonError(w, "no match for the query on "+req.TargetID, http.StatusNotFound)
			return
		}
		cmd = commands.NewReplaceMatchCommand(s.host, s.log, result, match, req.Query, req.Replacement)
	} else {
		results := domain.FilterDocument(report.Results, req.DocumentID)
		cmd = commands.NewReplaceCommand(s.host, s.log, results, req.Query, req.Replacement)
	}

	rep, err := cmd.Execute(ctx)
	if rep == nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	resp := replaceResponse{ReplaceReport: rep}
	status := http.StatusOK
	if err != nil {
		resp.Errors = splitJoined(err)
		if !rep.Success {
			status = http.StatusConflict
		}
	}
	writeJSON(w, status, resp)
}

// handleOpenDocument opens a document in the host's editor.
func (s *Server) handleOpenDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	result, err := commands.NewOpenDocumentCommand(s.host, docID).Execute(r.Context())
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"documentId": result.DocumentID,
		"message":    result.Message,
	})
}

func statusFor(err error) int {
	var valErr *application.ValidationError
	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrEditorUnavailable):
		return http.StatusNotImplemented
	case errors.Is(err, application.ErrHostUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, application.ErrApplyFailed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// splitJoined unpacks an errors.Join result into its messages
func splitJoined(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	j.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
