package domain

import "testing"

func TestLocateMatch(t *testing.T) {
	results := []SearchResult{
		{DocumentID: "d1", Matches: []Match{
			{TargetID: "a", PropertyName: "name"},
			{TargetID: "b", PropertyName: "caption"},
		}},
		{DocumentID: "d2", Matches: []Match{{TargetID: "a", PropertyName: "name"}}},
	}

	tests := []struct {
		name     string
		doc      string
		target   string
		property string
		wantDoc  string
		wantOK   bool
	}{
		{"exact", "d1", "b", "caption", "d1", true},
		{"any property", "d2", "a", "", "d2", true},
		{"wrong property", "d1", "b", "name", "", false},
		{"wrong document", "d3", "a", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m, ok := LocateMatch(results, tt.doc, tt.target, tt.property)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && (r.DocumentID != tt.wantDoc || m.TargetID != tt.target) {
				t.Errorf("expected %s/%s, got %s/%s", tt.wantDoc, tt.target, r.DocumentID, m.TargetID)
			}
		})
	}
}

func TestFilterDocument(t *testing.T) {
	results := []SearchResult{{DocumentID: "d1"}, {DocumentID: "d2"}, {DocumentID: "d1"}}

	if got := FilterDocument(results, ""); len(got) != 3 {
		t.Errorf("expected all results, got %d", len(got))
	}
	if got := FilterDocument(results, "d1"); len(got) != 2 {
		t.Errorf("expected 2 results, got %d", len(got))
	}
	if got := FilterDocument(results, "d9"); len(got) != 0 {
		t.Errorf("expected none, got %d", len(got))
	}
}

func TestMatch_ContextLabel(t *testing.T) {
	tests := []struct {
		name string
		m    Match
		want string
	}{
		{"path", Match{Path: []string{"Actions", "Create variable"}, Caption: "c"}, "Create variable"},
		{"caption", Match{Caption: "Order"}, "Order"},
		{"kind", Match{KindLabel: "Variable"}, "Variable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.ContextLabel(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
