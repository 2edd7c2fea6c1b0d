package documents

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/warden/annex"
	"github.com/JaimeStill/warden/internal/classifications"
	"github.com/JaimeStill/warden/risk"
)

func screener() risk.Profile {
	return risk.Profile{
		Name:            "Resume Screener",
		Domain:          "hiring",
		AutonomyLevel:   "fully_autonomous",
		AffectedPersons: "job applicants",
		DataInputs:      []string{"resumes", "demographic data"},
	}
}

func saved(r risk.Result) *classifications.Classification {
	return &classifications.Classification{
		ID:           uuid.New(),
		Tier:         r.Tier,
		Score:        r.Score,
		Confidence:   r.Confidence,
		Reasoning:    r.Reasoning,
		Articles:     r.Articles,
		Obligations:  r.Obligations,
		RulesVersion: r.RulesVersion,
		ClassifiedBy: "reviewer",
	}
}

func TestResultForUsesCurrentStoredRun(t *testing.T) {
	p := screener()
	stored := saved(risk.Classify(p))

	result, source := resultFor(p, stored)
	assert.Equal(t, sourceStored, source)
	assert.Equal(t, risk.TierHigh, result.Tier)
	assert.Equal(t, 71, result.Score)
}

func TestResultForWithoutStoredRun(t *testing.T) {
	result, source := resultFor(screener(), nil)
	assert.Equal(t, sourceLive, source)
	assert.Equal(t, risk.TierHigh, result.Tier)
}

func TestResultForReclassifiesEditedProfile(t *testing.T) {
	stored := saved(risk.Classify(screener()))

	edited := screener()
	edited.Domain = "other"
	edited.AutonomyLevel = "human_in_command"

	result, source := resultFor(edited, stored)
	assert.Equal(t, sourceLive, source)
	assert.Equal(t, risk.TierMinimal, result.Tier)
	assert.Equal(t, risk.Classify(edited), result)

	doc := annex.Generate(edited, result)
	assert.Equal(t, risk.TierMinimal, doc.Tier)
}

func TestResultForReclassifiesOldRules(t *testing.T) {
	p := screener()
	stored := saved(risk.Classify(p))
	stored.RulesVersion = "2023.0"

	_, source := resultFor(p, stored)
	assert.Equal(t, sourceLive, source)
}
