package domain

import "testing"

func sampleResults() []SearchResult {
	return []SearchResult{
		{
			DocumentID:  "p1",
			DisplayName: "Web / Overview",
			Matches: []Match{
				{TargetID: "w2", PropertyName: "name", Path: []string{"Page", "Web", "Overview", "b"}},
				{TargetID: "w1", PropertyName: "name", Path: []string{"Page", "Web", "Overview", "a"}},
			},
		},
		{
			DocumentID:  "m1",
			DisplayName: "Sales / ACT_Save",
			Matches:     []Match{{TargetID: "cv1", PropertyName: "variableName"}},
		},
	}
}

func TestSortResults(t *testing.T) {
	results := sampleResults()

	SortResults(results)

	if results[0].DocumentID != "m1" {
		t.Errorf("expected Sales result first, got %s", results[0].DocumentID)
	}
	if results[1].Matches[0].TargetID != "w1" {
		t.Errorf("expected matches ordered by path, got %s first", results[1].Matches[0].TargetID)
	}
}

func TestCountMatches(t *testing.T) {
	if got := CountMatches(sampleResults()); got != 3 {
		t.Errorf("expected 3 matches, got %d", got)
	}
}

func TestResultTree(t *testing.T) {
	t.Run("flattens expanded documents with their matches", func(t *testing.T) {
		tree := BuildResultTree(sampleResults())

		rows := tree.Flatten()

		if len(rows) != 5 {
			t.Fatalf("expected 5 visible rows, got %d", len(rows))
		}
		if rows[0].Kind != TreeDocument || rows[1].Kind != TreeMatch {
			t.Errorf("expected document row followed by match row")
		}
		if rows[0].Depth() != 0 || rows[1].Depth() != 1 {
			t.Errorf("expected depths 0 and 1, got %d and %d", rows[0].Depth(), rows[1].Depth())
		}
		if rows[1].Result.DocumentID != "p1" {
			t.Errorf("expected match row to point at its result, got %s", rows[1].Result.DocumentID)
		}
	})

	t.Run("collapsed documents hide their matches", func(t *testing.T) {
		tree := BuildResultTree(sampleResults())
		tree.Children[0].Collapse()

		rows := tree.Flatten()

		if len(rows) != 3 {
			t.Fatalf("expected 3 visible rows, got %d", len(rows))
		}

		tree.Children[0].Toggle()
		if !tree.Children[0].IsExpanded {
			t.Errorf("expected toggle to expand the document again")
		}
	})
}
