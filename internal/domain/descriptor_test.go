package domain

import "testing"

func TestResolveDescriptor(t *testing.T) {
	tests := []struct {
		typeTag        string
		wantCollection string
		wantModel      string
		wantEnumerable bool
	}{
		{"Microflows$Microflow", "microflows", "microflows", true},
		{"Microflows$Rule", "microflowRules", ProjectsKey, false},
		{"Pages$Page", "pages", "pages", true},
		{"Pages$Snippet", "snippets", "snippets", true},
		{"Pages$BuildingBlock", "buildingBlocks", "buildingBlocks", true},
		{"DomainModels$DomainModel", "domainModels", "domainModels", true},
		{"Projects$ModuleSettings", "moduleSettings", "moduleSettings", true},
		{"Nanoflows$Nanoflow", "nanoflows", ProjectsKey, false},
		{"Mappings$ImportMapping", "importMappings", ProjectsKey, false},
		{"DataServices$ConsumedODataService", "odataServices", ProjectsKey, false},
	}

	for _, tt := range tests {
		t.Run(tt.typeTag, func(t *testing.T) {
			d := ResolveDescriptor(tt.typeTag)
			if d.CollectionKey != tt.wantCollection {
				t.Errorf("expected collection %q, got %q", tt.wantCollection, d.CollectionKey)
			}
			if d.ModelKey != tt.wantModel {
				t.Errorf("expected model %q, got %q", tt.wantModel, d.ModelKey)
			}
			if d.Enumerable != tt.wantEnumerable {
				t.Errorf("expected enumerable %v, got %v", tt.wantEnumerable, d.Enumerable)
			}
		})
	}
}

func TestResolveDescriptor_Fallback(t *testing.T) {
	d := ResolveDescriptor("Custom$Thing Type")

	if d.CollectionKey != "projects:custom$thing-type" {
		t.Errorf("expected sanitized key, got %q", d.CollectionKey)
	}
	if d.ModelKey != ProjectsKey {
		t.Errorf("expected model %q, got %q", ProjectsKey, d.ModelKey)
	}
	if d.Label != "Thing Type" {
		t.Errorf("expected label Thing Type, got %q", d.Label)
	}
	if len(d.Prefixes) != 1 || d.Prefixes[0] != "Custom$Thing Type" {
		t.Errorf("expected exact type tag as prefix, got %v", d.Prefixes)
	}
}

func TestDescriptors_AllReachable(t *testing.T) {
	for _, d := range Descriptors() {
		for _, prefix := range d.Prefixes {
			if got := ResolveDescriptor(prefix).CollectionKey; got != d.CollectionKey {
				t.Errorf("prefix %q resolves to %q, expected %q", prefix, got, d.CollectionKey)
			}
		}
	}
}

func TestEnumerableDescriptors(t *testing.T) {
	got := EnumerableDescriptors()
	if len(got) != 7 {
		t.Fatalf("expected 7 enumerable collections, got %d", len(got))
	}
	for _, d := range got {
		if d.ModelKey != d.CollectionKey {
			t.Errorf("expected %s to own its model key, got %s", d.CollectionKey, d.ModelKey)
		}
	}
}

func TestDescriptorByKey(t *testing.T) {
	if d, ok := DescriptorByKey("pages"); !ok || d.Label != "Page" {
		t.Errorf("expected pages descriptor, got %+v (found=%v)", d, ok)
	}
	if _, ok := DescriptorByKey("missing"); ok {
		t.Error("expected missing key to be absent")
	}
}
