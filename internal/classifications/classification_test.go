package classifications_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/internal/classifications"
	"github.com/JaimeStill/warden/risk"
)

func TestResult(t *testing.T) {
	res := risk.Classify(risk.Profile{
		Name:            "Loan scorer",
		Purpose:         "Approve or decline consumer credit applications",
		Domain:          "credit",
		AffectedPersons: "applicants",
		AutonomyLevel:   "fully-autonomous",
		DataCategories:  []string{"financial", "personal"},
	})

	c := classifications.Classification{
		Tier:         res.Tier,
		Score:        res.Score,
		Confidence:   res.Confidence,
		Reasoning:    res.Reasoning,
		Articles:     res.Articles,
		Obligations:  res.Obligations,
		Colorado:     res.Colorado,
		PolicyReview: res.PolicyReview,
		RulesVersion: res.RulesVersion,
	}

	assert.Equal(t, res, c.Result())
	assert.False(t, c.Validated())

	now := time.Now()
	c.ValidatedAt = &now
	assert.True(t, c.Validated())
}

func TestValidateCommand(t *testing.T) {
	cmd := classifications.ValidateCommand{ValidatedBy: "  reviewer@example.com "}
	require.NoError(t, cmd.Validate())
	assert.Equal(t, "reviewer@example.com", cmd.ValidatedBy)

	empty := classifications.ValidateCommand{ValidatedBy: " "}
	assert.ErrorIs(t, empty.Validate(), classifications.ErrInvalidInput)
}

func TestPreviewCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile risk.Profile
		wantErr bool
	}{
		{"purpose only", risk.Profile{Name: "bot", Purpose: "answer questions"}, false},
		{"description only", risk.Profile{Name: "bot", Description: "chat assistant"}, false},
		{"missing name", risk.Profile{Purpose: "answer questions"}, true},
		{"no text", risk.Profile{Name: "bot"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := classifications.PreviewCommand{Profile: tt.profile}
			err := cmd.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, classifications.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	id := uuid.New()

	f := classifications.FiltersFromQuery(url.Values{
		"system_id":     {id.String()},
		"tier":          {"limited"},
		"rules_version": {"2024.1"},
		"validated_by":  {"dana"},
	})

	require.NotNil(t, f.SystemID)
	assert.Equal(t, id, *f.SystemID)
	assert.Equal(t, "LIMITED", *f.Tier)
	assert.Equal(t, "2024.1", *f.RulesVersion)
	assert.Equal(t, "dana", *f.ValidatedBy)

	bad := classifications.FiltersFromQuery(url.Values{
		"system_id": {"abc"},
		"tier":      {"severe"},
	})
	assert.Nil(t, bad.SystemID)
	assert.Nil(t, bad.Tier)
}
