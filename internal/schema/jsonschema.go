package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchema exports a section as a draft 2020-12 object schema. Archives
// carry their section reference in m_def, which is allowed alongside the
// quantities.
func (s Section) JSONSchema() map[string]any {
	props := map[string]any{
		"m_def": map[string]any{"type": "string"},
	}
	for _, q := range s.Quantities {
		props[q.Name] = quantitySchema(q)
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"title":                s.Name,
		"description":          s.Description,
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

func quantitySchema(q Quantity) map[string]any {
	var item map[string]any
	switch q.Type {
	case TypeInt:
		item = map[string]any{"type": "integer"}
	case TypeEnum:
		enum := make([]any, len(q.Enum))
		for i, v := range q.Enum {
			enum[i] = v
		}
		item = map[string]any{"type": "string", "enum": enum}
	default:
		item = map[string]any{"type": "string"}
	}
	if q.IsList() {
		return map[string]any{"type": "array", "items": item, "description": q.Description}
	}
	item["description"] = q.Description
	return item
}

type Issue struct {
	Location string
	Message  string
}

// ValidationError lists every place an archive disagrees with the schema.
type ValidationError struct {
	Section string
	Issues  []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		loc := issue.Location
		if loc == "" {
			loc = "#"
		} else if !strings.HasPrefix(loc, "#") {
			loc = "#" + loc
		}
		parts = append(parts, fmt.Sprintf("%s: %s", loc, issue.Message))
	}
	return fmt.Sprintf("%s: %s", e.Section, strings.Join(parts, "; "))
}

func (s Section) compile() (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	url := s.Name + ".json"
	if err := compiler.AddResource(url, bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// Validate checks a decoded document (JSON-compatible values) against the
// section schema.
func (s Section) Validate(doc any) error {
	compiled, err := s.compile()
	if err != nil {
		return fmt.Errorf("compile %s schema: %w", s.Name, err)
	}
	if err := compiled.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ValidationError{Section: s.Name, Issues: collectIssues(verr)}
		}
		return err
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, c := range node.Causes {
			walk(c)
		}
	}
	walk(err)
	return issues
}
