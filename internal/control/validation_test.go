package control

import (
	"strings"
	"testing"

	"github.com/esphome-dash/designer-core/internal/binding"
)

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Definition)
		wantErr string
	}{
		{"valid", func(*Definition) {}, ""},
		{"missing id", func(d *Definition) { d.ID = "" }, "id is required"},
		{"missing name", func(d *Definition) { d.Name = "" }, "name is required"},
		{"nil parameters", func(d *Definition) { d.Parameters = nil }, "parameters list is required"},
		{
			"duplicate parameter ids",
			func(d *Definition) { d.Parameters = append(d.Parameters, d.Parameters[0]) },
			"duplicate parameter id",
		},
		{
			"select without options",
			func(d *Definition) {
				d.Parameters = append(d.Parameters, binding.ControlParameter{
					ID: "mode", Name: "Mode", Type: binding.ParamSelect,
				})
			},
			"has no options",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := testDefinition()
			tt.mutate(def)

			res := ValidateDefinition(def)
			if tt.wantErr == "" {
				if !res.Valid {
					t.Fatalf("unexpected errors: %v", res.Errors)
				}
				return
			}
			if res.Valid {
				t.Fatal("expected validation failure")
			}
			if !containsError(res.Errors, tt.wantErr) {
				t.Errorf("errors = %v, want one containing %q", res.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidateParameterValues(t *testing.T) {
	minV, maxV := 0.0, 100.0
	def := &Definition{
		ID: "d", Name: "D",
		Parameters: []binding.ControlParameter{
			{ID: "entity", Name: "Entity", Type: binding.ParamEntity, Required: true,
				DomainConstraint: &binding.DomainConstraint{Domains: []string{"light"}}},
			{ID: "level", Name: "Level", Type: binding.ParamNumber, Min: &minV, Max: &maxV},
			{ID: "mode", Name: "Mode", Type: binding.ParamSelect, Options: []string{"a", "b"}},
		},
	}

	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{"valid", map[string]any{"entity": "light.x", "level": 50, "mode": "a"}, ""},
		{"required unset", map[string]any{}, "is not set"},
		{"entity without dot", map[string]any{"entity": "lightx"}, "must be an entity id"},
		{"entity wrong domain", map[string]any{"entity": "switch.x"}, "outside allowed domains"},
		{"number too low", map[string]any{"entity": "light.x", "level": -1}, "below minimum"},
		{"number too high", map[string]any{"entity": "light.x", "level": 250}, "above maximum"},
		{"number not numeric", map[string]any{"entity": "light.x", "level": "lots"}, "must be numeric"},
		{"select outside options", map[string]any{"entity": "light.x", "mode": "c"}, "is not one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateParameterValues(def, tt.values)
			if tt.wantErr == "" {
				if !res.Valid {
					t.Fatalf("unexpected errors: %v", res.Errors)
				}
				return
			}
			if res.Valid || !containsError(res.Errors, tt.wantErr) {
				t.Errorf("errors = %v, want one containing %q", res.Errors, tt.wantErr)
			}
		})
	}
}

func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestBuiltinsAreValid(t *testing.T) {
	for _, d := range Builtins() {
		if res := ValidateDefinition(d); !res.Valid {
			t.Errorf("builtin %q invalid: %v", d.ID, res.Errors)
		}
		if !d.Builtin {
			t.Errorf("builtin %q not flagged", d.ID)
		}
	}
}
