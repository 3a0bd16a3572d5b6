package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mxfind/internal/application"
	"mxfind/internal/domain"
)

func searchAll(t *testing.T, s *scenario, term string) []domain.SearchResult {
	t.Helper()
	report, err := NewSearchCommand(s.host, nil, term).Execute(context.Background())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	return report.Results
}

func TestReplaceCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		wantErr bool
	}{
		{"valid", "customer", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewReplaceCommand(&fakeHost{}, nil, nil, tt.search, "client").Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if err != nil {
				var valErr *application.ValidationError
				if !errors.As(err, &valErr) || valErr.Field != "searchTerm" {
					t.Errorf("expected searchTerm ValidationError, got %v", err)
				}
			}
		})
	}
}

func TestReplaceCommand_ReplaceAll(t *testing.T) {
	s := newScenario([]string{"customerName", "customerId"}, nil)
	results := searchAll(t, s, "customer")

	report, err := NewReplaceCommand(s.host, nil, results, "Customer", "client").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Success {
		t.Errorf("expected success")
	}
	if report.Message != "Updated 2 items." {
		t.Errorf("expected Updated 2 items., got %q", report.Message)
	}
	if len(s.microflows.applyCalls) != 1 || len(s.microflows.applyCalls[0]) != 2 {
		t.Fatalf("expected one write carrying both changes, got %v", s.microflows.applyCalls)
	}

	unit := s.store.units["mf1"]
	for _, id := range []string{"mf1-cv0", "mf1-cv1"} {
		if got := unit.FindByID(id).String("variableName"); !strings.HasPrefix(got, "client") {
			t.Errorf("expected %s renamed, got %q", id, got)
		}
	}
	for _, r := range report.Replacements {
		if r.Kind != domain.KindDeclaredVariable || r.DocumentID != "mf1" || r.ModelKey != "microflows" {
			t.Errorf("unexpected replacement %+v", r)
		}
	}
}

func TestReplaceCommand_FailingDocumentIsIsolated(t *testing.T) {
	s := newScenario([]string{"customerName", "customerId"}, []string{"customerBox"})
	s.store.failApply["pg1"] = errLocked
	results := searchAll(t, s, "customer")
	if domain.CountMatches(results) != 3 {
		t.Fatalf("expected 3 matches across 2 documents, got %d", domain.CountMatches(results))
	}

	report, err := NewReplaceCommand(s.host, nil, results, "customer", "client").Execute(context.Background())

	if err == nil {
		t.Fatal("expected an error for the failing document")
	}
	var applyErr *application.ApplyError
	if !errors.As(err, &applyErr) {
		t.Fatalf("expected ApplyError, got %T", err)
	}
	if applyErr.DocumentID != "pg1" {
		t.Errorf("expected pg1 to fail, got %s", applyErr.DocumentID)
	}
	if !strings.Contains(err.Error(), "Admin / Home") || strings.Contains(err.Error(), "ACT_ProcessOrder") {
		t.Errorf("expected error to name only the page, got %q", err.Error())
	}
	if !errors.Is(err, errLocked) || !errors.Is(err, application.ErrApplyFailed) {
		t.Errorf("expected cause and ErrApplyFailed in chain, got %v", err)
	}

	if report == nil || !report.Success || len(report.Replacements) != 2 {
		t.Fatalf("expected the microflow replacements in the report, got %+v", report)
	}
	for _, r := range report.Replacements {
		if r.DocumentID != "mf1" {
			t.Errorf("unexpected replacement for %s", r.DocumentID)
		}
	}
	if got := s.store.units["pg1"].FindByID("pg1-w0").String("name"); got != "customerBox" {
		t.Errorf("expected page to stay untouched, got %q", got)
	}
}

func TestReplaceCommand_SingleMatch(t *testing.T) {
	s := newScenario([]string{"customerName", "customerId"}, nil)
	results := searchAll(t, s, "customer")
	target := results[0].Matches[0]

	report, err := NewReplaceMatchCommand(s.host, nil, results[0], target, "customer", "buyer").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Message != "Updated 1 item." || len(report.Replacements) != 1 {
		t.Fatalf("expected one replacement, got %+v", report)
	}
	if report.Replacements[0].TargetID != target.TargetID {
		t.Errorf("expected %s, got %s", target.TargetID, report.Replacements[0].TargetID)
	}
	if len(results[0].Matches) != 2 {
		t.Errorf("expected the caller's result to keep its matches")
	}
}

func TestReplaceCommand_NoOp(t *testing.T) {
	s := newScenario([]string{"customerName"}, nil)
	results := searchAll(t, s, "customer")

	report, err := NewReplaceCommand(s.host, nil, results, "customer", "customer").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Success || len(report.Replacements) != 0 {
		t.Errorf("expected no replacements, got %+v", report)
	}
	if report.Message != "No matches required changes." {
		t.Errorf("unexpected message %q", report.Message)
	}
	if len(s.microflows.applyCalls) != 0 {
		t.Errorf("expected no writes, got %d", len(s.microflows.applyCalls))
	}
}

func TestReplaceCommand_SubstitutionRoundTrip(t *testing.T) {
	s := newScenario([]string{"FooBarFoo"}, nil)
	results := searchAll(t, s, "foo")

	report, err := NewReplaceCommand(s.host, nil, results, "Foo", "Bar").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Replacements) != 1 || report.Replacements[0].NewValue != "BarBarBar" {
		t.Errorf("expected BarBarBar, got %+v", report.Replacements)
	}
}

func TestReplaceCommand_KeepsSurroundingWhitespace(t *testing.T) {
	s := newScenario([]string{"  customerName "}, nil)
	results := searchAll(t, s, "customer")
	if got := results[0].Matches[0].Value; got != "customerName" {
		t.Fatalf("expected trimmed display value, got %q", got)
	}

	report, err := NewReplaceCommand(s.host, nil, results, "customer", "buyer").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Replacements) != 1 {
		t.Fatalf("expected one replacement, got %+v", report.Replacements)
	}
	if got := report.Replacements[0].OldValue; got != "  customerName " {
		t.Errorf("expected stored old value, got %q", got)
	}

	cv := s.store.units["mf1"].FindByID("mf1-cv0")
	if got := cv.String("variableName"); got != "  buyerName " {
		t.Errorf("expected whitespace kept around the new value, got %q", got)
	}
}

func TestReplaceCommand_UnwritableModelIsSkipped(t *testing.T) {
	s := newScenario([]string{"customerName"}, nil)
	results := searchAll(t, s, "customer")
	s.host.access["microflows"] = readOnlyAccess{store: s.store}

	report, err := NewReplaceCommand(s.host, nil, results, "customer", "client").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Success || report.Skipped != 1 {
		t.Errorf("expected one skipped match, got %+v", report)
	}
	if got := s.store.units["mf1"].FindByID("mf1-cv0").String("variableName"); got != "customerName" {
		t.Errorf("expected variable untouched, got %q", got)
	}
}

func TestReplaceCommand_RootRenameUsesProjects(t *testing.T) {
	s := newScenario(nil, []string{"customerBox"})
	s.store.units["pg1"].Set("name", "CustomerHome")
	results := searchAll(t, s, "customer")

	report, err := NewReplaceCommand(s.host, nil, results, "customer", "Client").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Replacements) != 2 {
		t.Fatalf("expected 2 replacements, got %d", len(report.Replacements))
	}
	if len(s.project.applyCalls) != 1 || s.project.applyCalls[0][0].TargetID != "pg1" {
		t.Errorf("expected the page rename through projects, got %v", s.project.applyCalls)
	}
	if len(s.pages.applyCalls) != 1 || s.pages.applyCalls[0][0].TargetID != "pg1-w0" {
		t.Errorf("expected the widget rename through pages, got %v", s.pages.applyCalls)
	}
	if got := s.store.units["pg1"].String("name"); got != "ClientHome" {
		t.Errorf("expected ClientHome, got %q", got)
	}
}

func TestReplaceCommand_NoHost(t *testing.T) {
	_, err := NewReplaceCommand(nil, nil, nil, "a", "b").Execute(context.Background())
	if !errors.Is(err, application.ErrHostUnavailable) {
		t.Errorf("expected ErrHostUnavailable, got %v", err)
	}
}
