// Package systems implements the registry of AI systems under assessment.
// Registering or changing a system's classifier inputs runs the risk
// classifier and stores the resulting tier and score on the record.
package systems

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/risk"
)

// ComplianceStatus is the owner-reported compliance label for a system.
// Labels carry no transition rules.
type ComplianceStatus string

const (
	StatusCompliant     ComplianceStatus = "COMPLIANT"
	StatusPartial       ComplianceStatus = "PARTIAL"
	StatusNonCompliant  ComplianceStatus = "NON_COMPLIANT"
	StatusPendingReview ComplianceStatus = "PENDING_REVIEW"
	StatusExempt        ComplianceStatus = "EXEMPT"
)

// ComplianceStatuses lists every compliance label.
var ComplianceStatuses = []ComplianceStatus{
	StatusCompliant,
	StatusPartial,
	StatusNonCompliant,
	StatusPendingReview,
	StatusExempt,
}

// ParseComplianceStatus parses a label case-insensitively, accepting "-" for "_".
func ParseComplianceStatus(s string) (ComplianceStatus, error) {
	v := ComplianceStatus(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	for _, status := range ComplianceStatuses {
		if v == status {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// AISystem is a registered AI system and its latest risk assessment.
// RiskTier and RiskScore are nil only for records created before classification existed.
//
// Domain and DataCategories hold the owner's text, which the classifier
// matches against. NormalizedDomain and NormalizedDataCategories carry the
// same values mapped onto the closed vocabularies and are never stored.
type AISystem struct {
	ID                       uuid.UUID           `json:"id"`
	OwnerID                  string              `json:"owner_id"`
	Name                     string              `json:"name"`
	Description              string              `json:"description"`
	Purpose                  string              `json:"purpose"`
	Domain                   string              `json:"domain"`
	NormalizedDomain         risk.Domain         `json:"normalized_domain"`
	Deployer                 string              `json:"deployer"`
	DataCategories           []string            `json:"data_categories"`
	NormalizedDataCategories []risk.DataCategory `json:"normalized_data_categories"`
	DataInputs               []string            `json:"data_inputs"`
	OutputType               string              `json:"output_type"`
	AffectedPersons          string              `json:"affected_persons"`
	AutonomyLevel            string              `json:"autonomy_level"`
	ModelType                string              `json:"model_type"`
	TrainingDataDescription  string              `json:"training_data_description"`
	RiskTier                 *risk.Tier          `json:"risk_tier"`
	RiskScore                *int                `json:"risk_score"`
	ComplianceStatus         ComplianceStatus    `json:"compliance_status"`
	CreatedAt                time.Time           `json:"created_at"`
	UpdatedAt                time.Time           `json:"updated_at"`
}

// Normalize fills the vocabulary fields from Domain and DataCategories.
func (s *AISystem) Normalize() {
	s.NormalizedDomain = risk.NormalizeDomain(s.Domain)
	s.NormalizedDataCategories = risk.NormalizeDataCategories(s.DataCategories)
}

// Profile returns the classifier input for the system.
func (s *AISystem) Profile() risk.Profile {
	return risk.Profile{
		ID:                      s.ID.String(),
		Name:                    s.Name,
		Description:             s.Description,
		Purpose:                 s.Purpose,
		Domain:                  s.Domain,
		Deployer:                s.Deployer,
		DataCategories:          s.DataCategories,
		DataInputs:              s.DataInputs,
		OutputType:              s.OutputType,
		AffectedPersons:         s.AffectedPersons,
		AutonomyLevel:           s.AutonomyLevel,
		ModelType:               s.ModelType,
		TrainingDataDescription: s.TrainingDataDescription,
	}
}

// CreateCommand registers a new system. OwnerID and Name are required.
type CreateCommand struct {
	OwnerID                 string   `json:"owner_id"`
	Name                    string   `json:"name"`
	Description             string   `json:"description"`
	Purpose                 string   `json:"purpose"`
	Domain                  string   `json:"domain"`
	Deployer                string   `json:"deployer"`
	DataCategories          []string `json:"data_categories"`
	DataInputs              []string `json:"data_inputs"`
	OutputType              string   `json:"output_type"`
	AffectedPersons         string   `json:"affected_persons"`
	AutonomyLevel           string   `json:"autonomy_level"`
	ModelType               string   `json:"model_type"`
	TrainingDataDescription string   `json:"training_data_description"`
}

// Validate checks required fields.
func (c *CreateCommand) Validate() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return fmt.Errorf("%w: owner_id required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	return nil
}

func (c *CreateCommand) system() AISystem {
	return AISystem{
		OwnerID:                 strings.TrimSpace(c.OwnerID),
		Name:                    strings.TrimSpace(c.Name),
		Description:             c.Description,
		Purpose:                 c.Purpose,
		Domain:                  c.Domain,
		Deployer:                c.Deployer,
		DataCategories:          orEmpty(c.DataCategories),
		DataInputs:              orEmpty(c.DataInputs),
		OutputType:              c.OutputType,
		AffectedPersons:         c.AffectedPersons,
		AutonomyLevel:           c.AutonomyLevel,
		ModelType:               c.ModelType,
		TrainingDataDescription: c.TrainingDataDescription,
		ComplianceStatus:        StatusPendingReview,
	}
}

// UpdateCommand changes a system. Nil fields are left unchanged.
type UpdateCommand struct {
	Name                    *string   `json:"name,omitempty"`
	Description             *string   `json:"description,omitempty"`
	Purpose                 *string   `json:"purpose,omitempty"`
	Domain                  *string   `json:"domain,omitempty"`
	Deployer                *string   `json:"deployer,omitempty"`
	DataCategories          *[]string `json:"data_categories,omitempty"`
	DataInputs              *[]string `json:"data_inputs,omitempty"`
	OutputType              *string   `json:"output_type,omitempty"`
	AffectedPersons         *string   `json:"affected_persons,omitempty"`
	AutonomyLevel           *string   `json:"autonomy_level,omitempty"`
	ModelType               *string   `json:"model_type,omitempty"`
	TrainingDataDescription *string   `json:"training_data_description,omitempty"`
	ComplianceStatus        *string   `json:"compliance_status,omitempty"`
}

// Apply writes the set fields onto s and reports whether any classifier
// input changed.
func (c *UpdateCommand) Apply(s *AISystem) (bool, error) {
	before := s.Profile()

	if c.Name != nil {
		name := strings.TrimSpace(*c.Name)
		if name == "" {
			return false, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		s.Name = name
	}
	if c.ComplianceStatus != nil {
		status, err := ParseComplianceStatus(*c.ComplianceStatus)
		if err != nil {
			return false, err
		}
		s.ComplianceStatus = status
	}

	set(&s.Description, c.Description)
	set(&s.Purpose, c.Purpose)
	set(&s.Domain, c.Domain)
	set(&s.Deployer, c.Deployer)
	set(&s.OutputType, c.OutputType)
	set(&s.AffectedPersons, c.AffectedPersons)
	set(&s.AutonomyLevel, c.AutonomyLevel)
	set(&s.ModelType, c.ModelType)
	set(&s.TrainingDataDescription, c.TrainingDataDescription)
	if c.DataCategories != nil {
		s.DataCategories = orEmpty(*c.DataCategories)
	}
	if c.DataInputs != nil {
		s.DataInputs = orEmpty(*c.DataInputs)
	}

	return inputsChanged(before, s.Profile()), nil
}

// Summary counts systems by risk tier and compliance status.
// Systems without a tier are counted under "UNCLASSIFIED".
type Summary struct {
	Total        int            `json:"total"`
	ByTier       map[string]int `json:"by_tier"`
	ByCompliance map[string]int `json:"by_compliance"`
}

const unclassified = "UNCLASSIFIED"

func newSummary() Summary {
	s := Summary{
		ByTier:       make(map[string]int, len(risk.Tiers)+1),
		ByCompliance: make(map[string]int, len(ComplianceStatuses)),
	}
	for _, t := range risk.Tiers {
		s.ByTier[string(t)] = 0
	}
	s.ByTier[unclassified] = 0
	for _, c := range ComplianceStatuses {
		s.ByCompliance[string(c)] = 0
	}
	return s
}

func (s *Summary) add(tier, compliance string, n int) {
	s.Total += n
	s.ByTier[tier] += n
	s.ByCompliance[compliance] += n
}

// inputsChanged compares the fields the classifier reads.
func inputsChanged(a, b risk.Profile) bool {
	return a.Description != b.Description ||
		a.Purpose != b.Purpose ||
		a.Domain != b.Domain ||
		a.AffectedPersons != b.AffectedPersons ||
		a.AutonomyLevel != b.AutonomyLevel ||
		a.TrainingDataDescription != b.TrainingDataDescription ||
		!slices.Equal(a.DataCategories, b.DataCategories) ||
		!slices.Equal(a.DataInputs, b.DataInputs)
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
