// Package conformity tracks conformity assessment checklists for registered
// systems. Checklists are recorded here, not evaluated: reviewers mark each
// requirement and the score follows from the marks.
package conformity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/risk"
)

// RequirementStatus is the reviewer's mark on one checklist item.
type RequirementStatus string

const (
	RequirementPass        RequirementStatus = "PASS"
	RequirementFail        RequirementStatus = "FAIL"
	RequirementPartial     RequirementStatus = "PARTIAL"
	RequirementNotAssessed RequirementStatus = "NOT_ASSESSED"
)

// ParseRequirementStatus parses a mark case-insensitively, accepting "-" and " " for "_".
func ParseRequirementStatus(s string) (RequirementStatus, error) {
	v := RequirementStatus(normalizeLabel(s))
	switch v {
	case RequirementPass, RequirementFail, RequirementPartial, RequirementNotAssessed:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// AssessmentType names who carried out the assessment.
type AssessmentType string

const (
	TypeInternal     AssessmentType = "INTERNAL"
	TypeThirdParty   AssessmentType = "THIRD_PARTY"
	TypeNotifiedBody AssessmentType = "NOTIFIED_BODY"
)

// ParseAssessmentType parses an assessment type; empty input is INTERNAL.
func ParseAssessmentType(s string) (AssessmentType, error) {
	if strings.TrimSpace(s) == "" {
		return TypeInternal, nil
	}
	v := AssessmentType(normalizeLabel(s))
	switch v {
	case TypeInternal, TypeThirdParty, TypeNotifiedBody:
		return v, nil
	}
	return "", fmt.Errorf("%w: assessment_type %q", ErrInvalidInput, s)
}

// Outcome summarizes a checklist. It is derived from the marks and not stored.
type Outcome string

const (
	OutcomeConformant    Outcome = "CONFORMANT"
	OutcomeNonConformant Outcome = "NON_CONFORMANT"
	OutcomeInProgress    Outcome = "IN_PROGRESS"
)

// Requirement is one checklist item.
type Requirement struct {
	ID          string            `json:"id"`
	Article     string            `json:"article"`
	Requirement string            `json:"requirement"`
	Status      RequirementStatus `json:"status"`
	Evidence    string            `json:"evidence"`
	Notes       string            `json:"notes"`
}

// Assessment is a conformity checklist for one system.
type Assessment struct {
	ID             uuid.UUID      `json:"id"`
	SystemID       uuid.UUID      `json:"system_id"`
	Assessor       string         `json:"assessor"`
	AssessmentType AssessmentType `json:"assessment_type"`
	Requirements   []Requirement  `json:"requirements"`
	Score          int            `json:"score"`
	Outcome        Outcome        `json:"outcome"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Requirement returns a pointer to the item with the given id.
func (a *Assessment) Requirement(id string) (*Requirement, error) {
	for i := range a.Requirements {
		if a.Requirements[i].ID == id {
			return &a.Requirements[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRequirementNotFound, id)
}

// Seed returns a fresh checklist built from the HIGH-tier obligation templates.
func Seed() []Requirement {
	obligations := risk.ObligationsFor(risk.TierHigh)
	out := make([]Requirement, 0, len(obligations))
	for _, o := range obligations {
		out = append(out, Requirement{
			ID:          o.ID,
			Article:     o.Article,
			Requirement: o.Title + ": " + o.Description,
			Status:      RequirementNotAssessed,
		})
	}
	return out
}

// Score is round(100 × (pass + 0.5 × partial) / total), rounding half up.
// An empty checklist scores 0.
func Score(reqs []Requirement) int {
	n := len(reqs)
	if n == 0 {
		return 0
	}

	halves := 0
	for _, r := range reqs {
		switch r.Status {
		case RequirementPass:
			halves += 2
		case RequirementPartial:
			halves++
		}
	}
	return (100*halves + n) / (2 * n)
}

// Evaluate derives the outcome: any FAIL is non-conformant, all PASS is
// conformant, anything else is still in progress.
func Evaluate(reqs []Requirement) Outcome {
	if len(reqs) == 0 {
		return OutcomeInProgress
	}

	passed := 0
	for _, r := range reqs {
		switch r.Status {
		case RequirementFail:
			return OutcomeNonConformant
		case RequirementPass:
			passed++
		}
	}
	if passed == len(reqs) {
		return OutcomeConformant
	}
	return OutcomeInProgress
}

// CreateCommand starts a new checklist for a system.
type CreateCommand struct {
	Assessor       string `json:"assessor"`
	AssessmentType string `json:"assessment_type,omitempty"`
}

// Validate checks the assessor and normalizes the assessment type.
func (c *CreateCommand) Validate() (AssessmentType, error) {
	c.Assessor = strings.TrimSpace(c.Assessor)
	if c.Assessor == "" {
		return "", fmt.Errorf("%w: assessor is required", ErrInvalidInput)
	}
	return ParseAssessmentType(c.AssessmentType)
}

// RequirementCommand marks one checklist item. Nil fields are left unchanged.
type RequirementCommand struct {
	Status   *string `json:"status,omitempty"`
	Evidence *string `json:"evidence,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// Apply writes the mark onto the identified requirement and refreshes
// score and outcome. a is left untouched when the command is invalid.
func (c *RequirementCommand) Apply(a *Assessment, requirementID string) error {
	if c.Status == nil && c.Evidence == nil && c.Notes == nil {
		return fmt.Errorf("%w: status, evidence or notes is required", ErrInvalidInput)
	}

	req, err := a.Requirement(requirementID)
	if err != nil {
		return err
	}

	var status RequirementStatus
	if c.Status != nil {
		if status, err = ParseRequirementStatus(*c.Status); err != nil {
			return err
		}
	}

	if c.Status != nil {
		req.Status = status
	}
	if c.Evidence != nil {
		req.Evidence = *c.Evidence
	}
	if c.Notes != nil {
		req.Notes = *c.Notes
	}

	a.Score = Score(a.Requirements)
	a.Outcome = Evaluate(a.Requirements)
	return nil
}

func normalizeLabel(s string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s)))
}
