package domain

import (
	"errors"
	"testing"
)

func cyclicDocument() (*Node, *Node, *Node) {
	a := NewNode("Microflows$Microflow", "doc", P("name", "Flow"))
	b := NewNode("Microflows$ActionActivity", "act", P("caption", "Act"))
	a.Set("objects", []any{b, "scalar"})
	b.Set("back", a)
	return a, a, b
}

func TestNode_GetAndSet(t *testing.T) {
	n := NewNode("Pages$Page", "p1", P("name", "Home"))

	if n.String("name") != "Home" {
		t.Errorf("expected Home, got %q", n.String("name"))
	}
	if n.String("missing") != "" {
		t.Errorf("expected empty string for missing property")
	}

	n.Set("name", "Start")
	n.Set("title", "Welcome")

	if n.String("name") != "Start" {
		t.Errorf("expected Start, got %q", n.String("name"))
	}
	if len(n.Props) != 2 || n.Props[1].Name != "title" {
		t.Errorf("expected title appended after name, got %+v", n.Props)
	}
}

func TestNode_FindByID(t *testing.T) {
	root, a, b := cyclicDocument()

	if got := root.FindByID("doc"); got != a {
		t.Errorf("expected root itself, got %+v", got)
	}
	if got := root.FindByID("act"); got != b {
		t.Errorf("expected nested activity, got %+v", got)
	}
	if got := root.FindByID("missing"); got != nil {
		t.Errorf("expected nil for missing id, got %+v", got)
	}
}

func TestNode_ApplyChanges(t *testing.T) {
	t.Run("applies every change", func(t *testing.T) {
		root, _, b := cyclicDocument()
		err := root.ApplyChanges([]Change{
			SetProperty("doc", "doc", "name", "Renamed"),
			SetProperty("doc", "act", "caption", "Go"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if root.String("name") != "Renamed" || b.String("caption") != "Go" {
			t.Errorf("expected both properties updated, got %q and %q", root.String("name"), b.String("caption"))
		}
	})

	t.Run("missing target leaves document untouched", func(t *testing.T) {
		root, _, _ := cyclicDocument()
		err := root.ApplyChanges([]Change{
			SetProperty("doc", "doc", "name", "Renamed"),
			SetProperty("doc", "ghost", "name", "Boo"),
		})
		if !errors.Is(err, ErrTargetNotFound) {
			t.Fatalf("expected ErrTargetNotFound, got %v", err)
		}
		if root.String("name") != "Flow" {
			t.Errorf("expected name to stay Flow, got %q", root.String("name"))
		}
	})

	t.Run("rejects unsupported change types", func(t *testing.T) {
		root, _, _ := cyclicDocument()
		err := root.ApplyChanges([]Change{{Type: "delete", TargetID: "doc", PropertyName: "name"}})
		if !errors.Is(err, ErrUnsupportedChange) {
			t.Errorf("expected ErrUnsupportedChange, got %v", err)
		}
	})
}

func TestGroupByDocument(t *testing.T) {
	order, groups := GroupByDocument([]Change{
		SetProperty("b", "1", "name", "x"),
		SetProperty("a", "2", "name", "y"),
		SetProperty("b", "3", "name", "z"),
	})

	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Errorf("expected first-seen order [b a], got %v", order)
	}
	if len(groups["b"]) != 2 {
		t.Errorf("expected 2 changes for b, got %d", len(groups["b"]))
	}
}

func TestSearchResultKey(t *testing.T) {
	tests := []struct {
		result SearchResult
		want   string
	}{
		{SearchResult{DocumentID: "1", CollectionKey: "pages", ModelKey: "pages"}, "pages::1"},
		{SearchResult{DocumentID: "1", ModelKey: ProjectsKey}, "projects::1"},
		{SearchResult{DocumentID: "1"}, "doc::1"},
	}

	for _, tt := range tests {
		if got := tt.result.Key(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestMatchPathDisplay(t *testing.T) {
	m := Match{Path: []string{"Microflow", "MyModule", "ACT_Save"}}
	if got := m.PathDisplay(); got != "Microflow › MyModule › ACT_Save" {
		t.Errorf("unexpected path display %q", got)
	}
	if got := m.ContextLabel(); got != "ACT_Save" {
		t.Errorf("expected ACT_Save, got %q", got)
	}
}
