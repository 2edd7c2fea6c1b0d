// Package documents stores Annex IV technical documentation generated for
// registered systems. Generated sections can be edited by hand; every edit
// recomputes completeness and is audited as a per-section diff.
package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/annex"
	"github.com/JaimeStill/warden/risk"
)

// Status is a document review label. Labels carry no transition rules.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusReview    Status = "REVIEW"
	StatusApproved  Status = "APPROVED"
	StatusPublished Status = "PUBLISHED"
)

// ParseStatus parses a document status label case-insensitively.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case StatusDraft, StatusReview, StatusApproved, StatusPublished:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Document is a stored Annex IV document for one system.
type Document struct {
	ID           uuid.UUID       `json:"id"`
	SystemID     uuid.UUID       `json:"system_id"`
	OwnerID      string          `json:"owner_id"`
	SystemName   string          `json:"system_name"`
	Version      string          `json:"version"`
	Tier         risk.Tier       `json:"tier"`
	RulesVersion string          `json:"rules_version"`
	Sections     []annex.Section `json:"sections"`
	Completeness int             `json:"completeness"`
	Status       Status          `json:"status"`
	ExportKey    *string         `json:"export_key"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Summary is a Document without its section bodies.
type Summary struct {
	ID           uuid.UUID `json:"id"`
	SystemID     uuid.UUID `json:"system_id"`
	SystemName   string    `json:"system_name"`
	Version      string    `json:"version"`
	Tier         risk.Tier `json:"tier"`
	Completeness int       `json:"completeness"`
	Status       Status    `json:"status"`
	ExportKey    *string   `json:"export_key"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summarize drops the section bodies from d.
func Summarize(d Document) Summary {
	return Summary{
		ID:           d.ID,
		SystemID:     d.SystemID,
		SystemName:   d.SystemName,
		Version:      d.Version,
		Tier:         d.Tier,
		Completeness: d.Completeness,
		Status:       d.Status,
		ExportKey:    d.ExportKey,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Annex returns the document content in the form the renderers accept.
func (d *Document) Annex() annex.Document {
	return annex.Document{
		SystemID:     d.SystemID.String(),
		SystemName:   d.SystemName,
		Version:      d.Version,
		Tier:         d.Tier,
		RulesVersion: d.RulesVersion,
		Sections:     d.Sections,
		Completeness: d.Completeness,
	}
}

// SectionCommand edits one section. Nil fields are left unchanged.
type SectionCommand struct {
	Content *string `json:"content,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// Apply writes the edit onto the numbered section of doc and recomputes
// completeness. doc is left untouched when the edit is invalid.
func (c *SectionCommand) Apply(doc *annex.Document, number int) error {
	if c.Content == nil && c.Status == nil {
		return fmt.Errorf("%w: content or status is required", ErrInvalidInput)
	}

	section, err := doc.Section(number)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSectionNotFound, err)
	}

	var status annex.SectionStatus
	if c.Status != nil {
		if status, err = annex.ParseSectionStatus(*c.Status); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	if c.Content != nil {
		section.Content = *c.Content
	}
	if c.Status != nil {
		section.Status = status
	}

	doc.Recompute()
	return nil
}

// StatusCommand moves a document to a new review label.
type StatusCommand struct {
	Status string `json:"status"`
}

// Export is a rendered document.
type Export struct {
	Key         string
	Filename    string
	ContentType string
	Data        []byte
}

func exportPrefix(id uuid.UUID) string {
	return fmt.Sprintf("exports/%s/", id)
}

func exportKey(id uuid.UUID, ext string) string {
	return exportPrefix(id) + "annex-iv" + ext
}
