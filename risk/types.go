package risk

import (
	"fmt"
	"strings"
)

// Tier is an EU AI Act style risk classification bucket.
// Tiers are totally ordered: UNACCEPTABLE > HIGH > LIMITED > MINIMAL.
type Tier string

// Risk tiers.
const (
	TierUnacceptable Tier = "UNACCEPTABLE"
	TierHigh         Tier = "HIGH"
	TierLimited      Tier = "LIMITED"
	TierMinimal      Tier = "MINIMAL"
)

// Tiers lists every tier from most to least severe.
var Tiers = []Tier{TierUnacceptable, TierHigh, TierLimited, TierMinimal}

// Rank returns the position of t in the tier ordering (MINIMAL = 1, UNACCEPTABLE = 4).
// Unknown tiers rank 0.
func (t Tier) Rank() int {
	switch t {
	case TierUnacceptable:
		return 4
	case TierHigh:
		return 3
	case TierLimited:
		return 2
	case TierMinimal:
		return 1
	}
	return 0
}

// AtLeast reports whether t is as severe as or more severe than other.
func (t Tier) AtLeast(other Tier) bool {
	return t.Rank() >= other.Rank()
}

// Valid reports whether t is one of the four defined tiers.
func (t Tier) Valid() bool {
	return t.Rank() > 0
}

// ParseTier parses a tier label case-insensitively.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
	return t, nil
}

// Highest returns the most severe of the given tiers, or MINIMAL when none are given.
func Highest(tiers ...Tier) Tier {
	highest := TierMinimal
	for _, t := range tiers {
		if t.Rank() > highest.Rank() {
			highest = t
		}
	}
	return highest
}

// Priority ranks how urgently an obligation must be addressed.
type Priority string

// Obligation priorities.
const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// ParsePriority parses a priority label case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Jurisdiction identifies the regulatory regime an obligation belongs to.
type Jurisdiction string

// Supported jurisdictions.
const (
	JurisdictionEU       Jurisdiction = "EU_AI_ACT"
	JurisdictionColorado Jurisdiction = "COLORADO_AI_ACT"
)

// Profile describes the AI system being classified.
// Domain and DataCategories are read against closed vocabularies; anything
// unrecognized falls back to the lowest-risk bucket.
type Profile struct {
	ID                      string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name                    string   `json:"name" yaml:"name"`
	Description             string   `json:"description" yaml:"description"`
	Purpose                 string   `json:"purpose" yaml:"purpose"`
	Domain                  string   `json:"domain" yaml:"domain"`
	Deployer                string   `json:"deployer,omitempty" yaml:"deployer,omitempty"`
	DataCategories          []string `json:"data_categories,omitempty" yaml:"data_categories,omitempty"`
	DataInputs              []string `json:"data_inputs,omitempty" yaml:"data_inputs,omitempty"`
	OutputType              string   `json:"output_type,omitempty" yaml:"output_type,omitempty"`
	AffectedPersons         string   `json:"affected_persons" yaml:"affected_persons"`
	AutonomyLevel           string   `json:"autonomy_level" yaml:"autonomy_level"`
	ModelType               string   `json:"model_type,omitempty" yaml:"model_type,omitempty"`
	TrainingDataDescription string   `json:"training_data_description,omitempty" yaml:"training_data_description,omitempty"`
}

// Factor is one weighted contribution to the aggregate score.
type Factor struct {
	Factor      string  `json:"factor"`
	Weight      float64 `json:"weight"`
	Score       int     `json:"score"`
	Explanation string  `json:"explanation"`
}

// Obligation is a fixed compliance requirement tied to a tier and an article.
type Obligation struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Article      string       `json:"article"`
	Description  string       `json:"description"`
	Priority     Priority     `json:"priority"`
	Jurisdiction Jurisdiction `json:"jurisdiction"`
}

// ColoradoMapping reports whether the system is in scope of the Colorado AI Act.
type ColoradoMapping struct {
	Applicable  bool         `json:"applicable"`
	Reason      string       `json:"reason"`
	Obligations []Obligation `json:"obligations,omitempty"`
}

// PolicyReview is attached when the annex-membership policy assigns a
// different tier than the score thresholds. The score tier remains the result tier.
type PolicyReview struct {
	ScoreTier Tier   `json:"score_tier"`
	AnnexTier Tier   `json:"annex_tier"`
	Reason    string `json:"reason"`
}

// Result is the output of Classify.
type Result struct {
	Tier         Tier            `json:"tier"`
	Score        int             `json:"score"`
	Confidence   int             `json:"confidence"`
	Reasoning    []Factor        `json:"reasoning"`
	Articles     []string        `json:"articles"`
	Obligations  []Obligation    `json:"obligations"`
	Colorado     ColoradoMapping `json:"colorado"`
	PolicyReview *PolicyReview   `json:"policy_review,omitempty"`
	RulesVersion string          `json:"rules_version"`
}

// Prohibited reports whether the result came from the prohibited-practice check.
func (r *Result) Prohibited() bool {
	return r.Tier == TierUnacceptable
}

// NeedsReview reports whether the two tier policies disagreed.
func (r *Result) NeedsReview() bool {
	return r.PolicyReview != nil
}
