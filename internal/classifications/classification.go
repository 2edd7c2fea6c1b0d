// Package classifications stores classifier runs against registered systems.
// Each run is an immutable record of the tier, score and reasoning the risk
// tables produced at that time; reviewers sign off on a run by validating it.
package classifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/risk"
)

// Metric origins for classifier runs.
const (
	OriginStored  = "stored"
	OriginPreview = "preview"
)

// Classification is one persisted classifier run for a system.
type Classification struct {
	ID           uuid.UUID            `json:"id"`
	SystemID     uuid.UUID            `json:"system_id"`
	Tier         risk.Tier            `json:"tier"`
	Score        int                  `json:"score"`
	Confidence   int                  `json:"confidence"`
	Reasoning    []risk.Factor        `json:"reasoning"`
	Articles     []string             `json:"articles"`
	Obligations  []risk.Obligation    `json:"obligations"`
	Colorado     risk.ColoradoMapping `json:"colorado"`
	PolicyReview *risk.PolicyReview   `json:"policy_review,omitempty"`
	RulesVersion string               `json:"rules_version"`
	ClassifiedBy string               `json:"classified_by"`
	ClassifiedAt time.Time            `json:"classified_at"`
	ValidatedBy  *string              `json:"validated_by"`
	ValidatedAt  *time.Time           `json:"validated_at"`
}

// Result returns the classifier output the record was built from.
func (c *Classification) Result() risk.Result {
	return risk.Result{
		Tier:         c.Tier,
		Score:        c.Score,
		Confidence:   c.Confidence,
		Reasoning:    c.Reasoning,
		Articles:     c.Articles,
		Obligations:  c.Obligations,
		Colorado:     c.Colorado,
		PolicyReview: c.PolicyReview,
		RulesVersion: c.RulesVersion,
	}
}

// Validated reports whether a reviewer has signed off on the run.
func (c *Classification) Validated() bool {
	return c.ValidatedAt != nil
}

// ValidateCommand records reviewer sign-off on a classification.
type ValidateCommand struct {
	ValidatedBy string `json:"validated_by"`
}

// Validate checks that a reviewer is named.
func (c *ValidateCommand) Validate() error {
	c.ValidatedBy = strings.TrimSpace(c.ValidatedBy)
	if c.ValidatedBy == "" {
		return fmt.Errorf("%w: validated_by is required", ErrInvalidInput)
	}
	return nil
}

// PreviewCommand is a profile classified without being stored.
type PreviewCommand struct {
	risk.Profile
}

// Validate checks that the profile carries enough text to classify.
func (c *PreviewCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Purpose) == "" && strings.TrimSpace(c.Description) == "" {
		return fmt.Errorf("%w: purpose or description is required", ErrInvalidInput)
	}
	return nil
}
