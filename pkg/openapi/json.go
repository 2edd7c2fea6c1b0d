package openapi

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Content types for the two serialized forms of a spec.
const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeYAML = "application/yaml; charset=utf-8"
)

// MarshalJSON serializes the spec to indented JSON bytes.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// MarshalYAML serializes the spec to YAML. The document is routed through its
// JSON form so field names and omitempty rules match MarshalJSON exactly.
func MarshalYAML(spec *Spec) ([]byte, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode spec: %w", err)
	}

	return yaml.Marshal(doc)
}
