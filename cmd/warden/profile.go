package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/warden/risk"
)

// loadProfile reads a system profile from a YAML or JSON file.
// The format is chosen by extension; anything other than .json is read as YAML.
func loadProfile(path string) (risk.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return risk.Profile{}, err
	}

	var p risk.Profile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return risk.Profile{}, fmt.Errorf("%s: %w", path, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return risk.Profile{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return risk.Profile{}, fmt.Errorf("%s: profile name is required", path)
	}
	return p, nil
}
