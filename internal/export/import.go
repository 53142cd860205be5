package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/esphome-dash/designer-core/internal/project"
)

// ParseSnippet reconstructs a layout from a pasted snippet. The text must
// be valid YAML, must look like a designer-generated snippet, and must
// carry at least one page marker.
func ParseSnippet(text string) (*project.Project, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidYAML
	}

	// Validate the YAML body first; markers live in comments, so the
	// document itself must still parse as an ESPHome fragment. Decoding
	// into a Node tolerates ESPHome's custom !lambda tags.
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	schema, pages, err := scanMarkers(text)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		if !looksLikeSnippet(doc) {
			return nil, ErrUnrecognizedStructure
		}
		return nil, ErrNoPages
	}

	if err := project.CheckSchemaVersion(schema); err != nil {
		return nil, err
	}

	p := project.New("Imported layout")
	p.SchemaVersion = schema
	p.Pages = pages
	return p, nil
}

// scanMarkers extracts the schema version and the page/widget markers in
// order. Widgets attach to the most recent page marker.
func scanMarkers(text string) (int, []project.Page, error) {
	schema := project.SchemaVersion
	var pages []project.Page

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, markerSchema):
			v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, markerSchema)))
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad schema marker", ErrUnrecognizedStructure)
			}
			schema = v

		case strings.HasPrefix(line, markerPage):
			var meta struct {
				ID   string `json:"id"`
				Name string `json:"name"`
				Icon string `json:"icon"`
			}
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, markerPage)), &meta); err != nil {
				return 0, nil, fmt.Errorf("%w: bad page marker", ErrUnrecognizedStructure)
			}
			pages = append(pages, project.Page{
				ID: meta.ID, Name: meta.Name, Icon: meta.Icon, Widgets: []project.Widget{},
			})

		case strings.HasPrefix(line, markerWidget):
			if len(pages) == 0 {
				return 0, nil, fmt.Errorf("%w: widget marker before any page", ErrUnrecognizedStructure)
			}
			var w project.Widget
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, markerWidget)), &w); err != nil {
				return 0, nil, fmt.Errorf("%w: bad widget marker", ErrUnrecognizedStructure)
			}
			last := &pages[len(pages)-1]
			last.Widgets = append(last.Widgets, w)

		case strings.HasPrefix(line, markerControl):
			if len(pages) == 0 {
				return 0, nil, fmt.Errorf("%w: control marker before any page", ErrUnrecognizedStructure)
			}
			var inst project.ControlInstance
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, markerControl)), &inst); err != nil {
				return 0, nil, fmt.Errorf("%w: bad control marker", ErrUnrecognizedStructure)
			}
			last := &pages[len(pages)-1]
			last.Controls = append(last.Controls, inst)
		}
	}
	return schema, pages, nil
}

// looksLikeSnippet reports whether a markerless document at least carries
// the sections our generator emits, distinguishing "recognised but empty"
// from arbitrary YAML.
func looksLikeSnippet(doc yaml.Node) bool {
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return false
	}
	known := map[string]bool{"sensor": true, "text_sensor": true, "binary_sensor": true, "script": true}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if known[root.Content[i].Value] {
			return true
		}
	}
	return false
}
