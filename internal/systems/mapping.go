package systems

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
	"github.com/JaimeStill/warden/risk"
)

var projection = query.
	NewProjectionMap("public", "systems", "s").
	Project("id", "ID").
	Project("owner_id", "OwnerID").
	Project("name", "Name").
	Project("description", "Description").
	Project("purpose", "Purpose").
	Project("domain", "Domain").
	Project("deployer", "Deployer").
	Project("data_categories", "DataCategories").
	Project("data_inputs", "DataInputs").
	Project("output_type", "OutputType").
	Project("affected_persons", "AffectedPersons").
	Project("autonomy_level", "AutonomyLevel").
	Project("model_type", "ModelType").
	Project("training_data_description", "TrainingDataDescription").
	Project("risk_tier", "RiskTier").
	Project("risk_score", "RiskScore").
	Project("compliance_status", "ComplianceStatus").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

const returning = `id, owner_id, name, description, purpose, domain, deployer,
	data_categories, data_inputs, output_type, affected_persons, autonomy_level,
	model_type, training_data_description, risk_tier, risk_score,
	compliance_status, created_at, updated_at`

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional exact-match criteria for system queries.
type Filters struct {
	OwnerID          *string `json:"owner_id,omitempty"`
	Domain           *string `json:"domain,omitempty"`
	RiskTier         *string `json:"risk_tier,omitempty"`
	ComplianceStatus *string `json:"compliance_status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("OwnerID", f.OwnerID).
		WhereEquals("Domain", f.Domain).
		WhereEquals("RiskTier", f.RiskTier).
		WhereEquals("ComplianceStatus", f.ComplianceStatus)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Tier and status labels are normalized; unrecognized labels are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("owner_id"); v != "" {
		f.OwnerID = &v
	}
	if v := values.Get("domain"); v != "" {
		f.Domain = &v
	}
	if v := values.Get("risk_tier"); v != "" {
		if t, err := risk.ParseTier(v); err == nil {
			tier := string(t)
			f.RiskTier = &tier
		}
	}
	if v := values.Get("compliance_status"); v != "" {
		if s, err := ParseComplianceStatus(v); err == nil {
			status := string(s)
			f.ComplianceStatus = &status
		}
	}

	return f
}

func scanSystem(s repository.Scanner) (AISystem, error) {
	var sys AISystem
	var categories, inputs []byte
	var tier *string

	err := s.Scan(
		&sys.ID,
		&sys.OwnerID,
		&sys.Name,
		&sys.Description,
		&sys.Purpose,
		&sys.Domain,
		&sys.Deployer,
		&categories,
		&inputs,
		&sys.OutputType,
		&sys.AffectedPersons,
		&sys.AutonomyLevel,
		&sys.ModelType,
		&sys.TrainingDataDescription,
		&tier,
		&sys.RiskScore,
		&sys.ComplianceStatus,
		&sys.CreatedAt,
		&sys.UpdatedAt,
	)
	if err != nil {
		return sys, err
	}

	if tier != nil {
		t := risk.Tier(*tier)
		sys.RiskTier = &t
	}

	if sys.DataCategories, err = unmarshalList(categories); err != nil {
		return sys, fmt.Errorf("unmarshal data_categories: %w", err)
	}
	if sys.DataInputs, err = unmarshalList(inputs); err != nil {
		return sys, fmt.Errorf("unmarshal data_inputs: %w", err)
	}
	sys.Normalize()

	return sys, nil
}

func unmarshalList(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
