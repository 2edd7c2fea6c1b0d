// Package annex generates EU AI Act Annex IV technical documentation from a
// system profile and its classification. Generation is string interpolation
// only: the same inputs always yield byte-identical sections.
package annex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JaimeStill/warden/risk"
)

// DraftVersion is the version stamped on every generated document.
const DraftVersion = "1.0.0-draft"

var (
	ErrUnknownFormat  = errors.New("unknown document format")
	ErrInvalidStatus  = errors.New("invalid section status")
	ErrSectionMissing = errors.New("section not found")
)

// SectionStatus reports how much of a section could be filled in.
type SectionStatus string

const (
	StatusComplete SectionStatus = "complete"
	StatusPartial  SectionStatus = "partial"
	StatusMissing  SectionStatus = "missing"
)

// ParseSectionStatus parses a section status label case-insensitively.
func ParseSectionStatus(s string) (SectionStatus, error) {
	status := SectionStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case StatusComplete, StatusPartial, StatusMissing:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Section is one numbered part of an Annex IV document.
type Section struct {
	Number          int           `json:"number"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	RequiredContent []string      `json:"required_content"`
	Content         string        `json:"content"`
	Status          SectionStatus `json:"status"`
	NeedsEvidence   bool          `json:"needs_evidence"`
}

// Document is a generated Annex IV report.
type Document struct {
	SystemID     string    `json:"system_id,omitempty"`
	SystemName   string    `json:"system_name"`
	Version      string    `json:"version"`
	Tier         risk.Tier `json:"tier"`
	RulesVersion string    `json:"rules_version"`
	Sections     []Section `json:"sections"`
	Completeness int       `json:"completeness"`
}

// Section returns a pointer to the numbered section.
func (d *Document) Section(number int) (*Section, error) {
	for i := range d.Sections {
		if d.Sections[i].Number == number {
			return &d.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrSectionMissing, number)
}

// Recompute refreshes the completeness percentage after sections change.
func (d *Document) Recompute() {
	d.Completeness = Completeness(d.Sections)
}

// Completeness is round(100 × (complete + 0.5 × partial) / total),
// rounding half up. An empty section list is 0.
func Completeness(sections []Section) int {
	n := len(sections)
	if n == 0 {
		return 0
	}

	halves := 0
	for _, s := range sections {
		switch s.Status {
		case StatusComplete:
			halves += 2
		case StatusPartial:
			halves++
		}
	}

	// 100 × halves / (2n), rounded half up.
	return (100*halves + n) / (2 * n)
}
