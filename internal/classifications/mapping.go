package classifications

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
	"github.com/JaimeStill/warden/risk"
)

var projection = query.
	NewProjectionMap("public", "classifications", "c").
	Project("id", "ID").
	Project("system_id", "SystemID").
	Project("tier", "Tier").
	Project("score", "Score").
	Project("confidence", "Confidence").
	Project("reasoning", "Reasoning").
	Project("articles", "Articles").
	Project("obligations", "Obligations").
	Project("colorado", "Colorado").
	Project("policy_review", "PolicyReview").
	Project("rules_version", "RulesVersion").
	Project("classified_by", "ClassifiedBy").
	Project("classified_at", "ClassifiedAt").
	Project("validated_by", "ValidatedBy").
	Project("validated_at", "ValidatedAt")

const returning = `id, system_id, tier, score, confidence, reasoning, articles,
	obligations, colorado, policy_review, rules_version, classified_by,
	classified_at, validated_by, validated_at`

var defaultSort = query.SortField{
	Field:      "ClassifiedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for classification queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	SystemID     *uuid.UUID `json:"system_id,omitempty"`
	Tier         *string    `json:"tier,omitempty"`
	RulesVersion *string    `json:"rules_version,omitempty"`
	ValidatedBy  *string    `json:"validated_by,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SystemID", f.SystemID).
		WhereEquals("Tier", f.Tier).
		WhereEquals("RulesVersion", f.RulesVersion).
		WhereEquals("ValidatedBy", f.ValidatedBy)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// An unrecognized tier or malformed system_id is ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("system_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			f.SystemID = &id
		}
	}

	if t := values.Get("tier"); t != "" {
		if tier, err := risk.ParseTier(t); err == nil {
			v := string(tier)
			f.Tier = &v
		}
	}

	if v := values.Get("rules_version"); v != "" {
		f.RulesVersion = &v
	}

	if v := values.Get("validated_by"); v != "" {
		f.ValidatedBy = &v
	}

	return f
}

// encoded holds the JSONB columns of a classification.
type encoded struct {
	reasoning    []byte
	articles     []byte
	obligations  []byte
	colorado     []byte
	policyReview []byte
}

func encode(res risk.Result) (encoded, error) {
	var e encoded
	var err error

	if e.reasoning, err = json.Marshal(res.Reasoning); err != nil {
		return e, fmt.Errorf("marshal reasoning: %w", err)
	}
	if e.articles, err = json.Marshal(res.Articles); err != nil {
		return e, fmt.Errorf("marshal articles: %w", err)
	}
	if e.obligations, err = json.Marshal(res.Obligations); err != nil {
		return e, fmt.Errorf("marshal obligations: %w", err)
	}
	if e.colorado, err = json.Marshal(res.Colorado); err != nil {
		return e, fmt.Errorf("marshal colorado: %w", err)
	}
	if res.PolicyReview != nil {
		if e.policyReview, err = json.Marshal(res.PolicyReview); err != nil {
			return e, fmt.Errorf("marshal policy_review: %w", err)
		}
	}

	return e, nil
}

func scanClassification(s repository.Scanner) (Classification, error) {
	var c Classification
	var e encoded

	err := s.Scan(
		&c.ID,
		&c.SystemID,
		&c.Tier,
		&c.Score,
		&c.Confidence,
		&e.reasoning,
		&e.articles,
		&e.obligations,
		&e.colorado,
		&e.policyReview,
		&c.RulesVersion,
		&c.ClassifiedBy,
		&c.ClassifiedAt,
		&c.ValidatedBy,
		&c.ValidatedAt,
	)
	if err != nil {
		return c, err
	}

	if err := json.Unmarshal(e.reasoning, &c.Reasoning); err != nil {
		return c, fmt.Errorf("unmarshal reasoning: %w", err)
	}
	if err := json.Unmarshal(e.articles, &c.Articles); err != nil {
		return c, fmt.Errorf("unmarshal articles: %w", err)
	}
	if err := json.Unmarshal(e.obligations, &c.Obligations); err != nil {
		return c, fmt.Errorf("unmarshal obligations: %w", err)
	}
	if err := json.Unmarshal(e.colorado, &c.Colorado); err != nil {
		return c, fmt.Errorf("unmarshal colorado: %w", err)
	}
	if len(e.policyReview) > 0 {
		c.PolicyReview = &risk.PolicyReview{}
		if err := json.Unmarshal(e.policyReview, c.PolicyReview); err != nil {
			return c, fmt.Errorf("unmarshal policy_review: %w", err)
		}
	}

	if c.Articles == nil {
		c.Articles = []string{}
	}
	if c.Obligations == nil {
		c.Obligations = []risk.Obligation{}
	}

	return c, nil
}
