package project

import (
	"errors"
	"testing"
)

func TestCheckSchemaVersion(t *testing.T) {
	tests := []struct {
		name    string
		version int
		wantErr error
	}{
		{"current version", SchemaVersion, nil},
		{"minimum version", MinSchemaVersion, nil},
		{"future version", SchemaVersion + 1, ErrSchemaTooNew},
		{"ancient version", MinSchemaVersion - 1, ErrSchemaTooOld},
		{"zero", 0, ErrSchemaTooOld},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSchemaVersion(tt.version)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewProject(t *testing.T) {
	p := New("Test Layout")
	if p.ID == "" {
		t.Error("project id not generated")
	}
	if p.SchemaVersion != SchemaVersion {
		t.Errorf("schema_version = %d, want %d", p.SchemaVersion, SchemaVersion)
	}
	if len(p.Pages) != 1 {
		t.Fatalf("new project has %d pages, want 1", len(p.Pages))
	}
	if p.Pages[0].Widgets == nil {
		t.Error("first page widgets slice is nil")
	}
}

func TestAllWidgetsOrderAndLookup(t *testing.T) {
	p := &Project{
		Pages: []Page{
			{ID: "p1", Widgets: []Widget{{ID: "w1"}, {ID: "w2"}}},
			{ID: "p2", Widgets: []Widget{{ID: "w3"}}},
		},
	}

	all := p.AllWidgets()
	if len(all) != 3 {
		t.Fatalf("got %d widgets, want 3", len(all))
	}
	for i, want := range []string{"w1", "w2", "w3"} {
		if all[i].ID != want {
			t.Errorf("widget[%d] = %q, want %q", i, all[i].ID, want)
		}
	}

	if w := p.FindWidget("w3"); w == nil || w.ID != "w3" {
		t.Error("FindWidget(w3) failed")
	}
	if w := p.FindWidget("missing"); w != nil {
		t.Error("FindWidget(missing) should return nil")
	}

	// AllWidgets returns pointers into the project so edits stick.
	all[0].EntityID = "light.kitchen"
	if p.Pages[0].Widgets[0].EntityID != "light.kitchen" {
		t.Error("AllWidgets did not alias project storage")
	}
}
