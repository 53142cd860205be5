package control

import (
	"fmt"
	"strings"

	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
)

// Validation constants.
const (
	maxNameLength      = 100
	maxParameters      = 30
	maxTemplateWidgets = 20
)

// ValidationResult is the structured outcome of validating a definition or
// a set of bound parameter values. Validation never panics and never
// aborts binding evaluation; it is a construct-time check.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func (r *ValidationResult) addf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) finish() ValidationResult {
	r.Valid = len(r.Errors) == 0
	return *r
}

// ValidateDefinition checks a control definition's structural requirements:
// id, name, a parameter list with unique ids, and sane bounds.
func ValidateDefinition(d *Definition) ValidationResult {
	var res ValidationResult
	if d == nil {
		res.addf("definition is missing")
		return res.finish()
	}

	if d.ID == "" {
		res.addf("id is required")
	}
	if d.Name == "" {
		res.addf("name is required")
	} else if len(d.Name) > maxNameLength {
		res.addf("name exceeds %d characters", maxNameLength)
	}
	if d.Parameters == nil {
		res.addf("parameters list is required")
	}
	if len(d.Parameters) > maxParameters {
		res.addf("exceeds maximum of %d parameters", maxParameters)
	}
	if len(d.Template.Widgets) > maxTemplateWidgets {
		res.addf("template exceeds maximum of %d widgets", maxTemplateWidgets)
	}

	seen := make(map[string]bool, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.ID == "" {
			res.addf("parameter with empty id")
			continue
		}
		if seen[p.ID] {
			res.addf("duplicate parameter id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Name == "" {
			res.addf("parameter %q has no name", p.ID)
		}
		if p.Type == binding.ParamSelect && len(p.Options) == 0 {
			res.addf("select parameter %q has no options", p.ID)
		}
	}
	return res.finish()
}

// ValidateParameterValues checks bound values against a definition's
// schema: required parameters set, numbers within declared bounds, entity
// references shaped like entity ids, select values among the options.
func ValidateParameterValues(d *Definition, values map[string]any) ValidationResult {
	var res ValidationResult

	for _, p := range d.Parameters {
		v, present := values[p.ID]
		if !present || v == nil || v == "" {
			if p.Required && p.DefaultValue == nil {
				res.addf("required parameter %q is not set", p.ID)
			}
			continue
		}

		switch p.Type {
		case binding.ParamEntity:
			id, ok := v.(string)
			if !ok || !strings.Contains(id, ".") {
				res.addf("parameter %q must be an entity id (domain.object)", p.ID)
				continue
			}
			if p.DomainConstraint != nil && !domainAllowed(entity.Domain(id), p.DomainConstraint.Domains) {
				res.addf("parameter %q entity %q is outside allowed domains %v",
					p.ID, id, p.DomainConstraint.Domains)
			}
		case binding.ParamNumber:
			f, ok := entity.ToFloat(v)
			if !ok {
				res.addf("parameter %q must be numeric", p.ID)
				continue
			}
			if p.Min != nil && f < *p.Min {
				res.addf("parameter %q value %v is below minimum %v", p.ID, f, *p.Min)
			}
			if p.Max != nil && f > *p.Max {
				res.addf("parameter %q value %v is above maximum %v", p.ID, f, *p.Max)
			}
		case binding.ParamSelect:
			s, _ := v.(string)
			if !optionAllowed(s, p.Options) {
				res.addf("parameter %q value %q is not one of %v", p.ID, s, p.Options)
			}
		}
	}
	return res.finish()
}

func domainAllowed(domain string, allowed []string) bool {
	for _, d := range allowed {
		if d == domain {
			return true
		}
	}
	return false
}

func optionAllowed(value string, options []string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
