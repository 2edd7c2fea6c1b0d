package systems_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/internal/systems"
	"github.com/JaimeStill/warden/risk"
)

func ptr[T any](v T) *T { return &v }

func TestParseComplianceStatus(t *testing.T) {
	tests := []struct {
		in   string
		want systems.ComplianceStatus
		ok   bool
	}{
		{"COMPLIANT", systems.StatusCompliant, true},
		{"non-compliant", systems.StatusNonCompliant, true},
		{" pending_review ", systems.StatusPendingReview, true},
		{"exempt", systems.StatusExempt, true},
		{"approved", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := systems.ParseComplianceStatus(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, systems.ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateCommandValidate(t *testing.T) {
	assert.NoError(t, (&systems.CreateCommand{OwnerID: "o", Name: "n"}).Validate())
	assert.ErrorIs(t, (&systems.CreateCommand{Name: "n"}).Validate(), systems.ErrInvalidInput)
	assert.ErrorIs(t, (&systems.CreateCommand{OwnerID: "o", Name: "  "}).Validate(), systems.ErrInvalidInput)
}

func TestUpdateCommandApply(t *testing.T) {
	base := func() systems.AISystem {
		return systems.AISystem{
			Name:           "Resume screener",
			Domain:         "hiring",
			AutonomyLevel:  "human-in-loop",
			DataCategories: []string{"personal"},
			DataInputs:     []string{},
		}
	}

	tests := []struct {
		name    string
		cmd     systems.UpdateCommand
		changed bool
	}{
		{"rename only", systems.UpdateCommand{Name: ptr("Screener v2")}, false},
		{"deployer only", systems.UpdateCommand{Deployer: ptr("Acme")}, false},
		{"compliance only", systems.UpdateCommand{ComplianceStatus: ptr("partial")}, false},
		{"domain", systems.UpdateCommand{Domain: ptr("credit")}, true},
		{"autonomy", systems.UpdateCommand{AutonomyLevel: ptr("fully-autonomous")}, true},
		{"data categories", systems.UpdateCommand{DataCategories: &[]string{"personal", "biometric"}}, true},
		{"same domain", systems.UpdateCommand{Domain: ptr("hiring")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			changed, err := tt.cmd.Apply(&s)
			require.NoError(t, err)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestUpdateCommandApplyErrors(t *testing.T) {
	s := systems.AISystem{Name: "x"}

	_, err := (&systems.UpdateCommand{Name: ptr(" ")}).Apply(&s)
	assert.ErrorIs(t, err, systems.ErrInvalidInput)

	_, err = (&systems.UpdateCommand{ComplianceStatus: ptr("done")}).Apply(&s)
	assert.ErrorIs(t, err, systems.ErrInvalidStatus)
	assert.Equal(t, "x", s.Name)
}

func TestProfile(t *testing.T) {
	s := systems.AISystem{
		Name:            "Chat assistant",
		Domain:          "customer-service",
		AffectedPersons: "customers",
		DataInputs:      []string{"chat transcripts"},
	}

	p := s.Profile()
	assert.Equal(t, "Chat assistant", p.Name)
	assert.Equal(t, "customer-service", p.Domain)
	assert.Equal(t, []string{"chat transcripts"}, p.DataInputs)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		domain     string
		categories []string
		wantDomain risk.Domain
		wantData   []risk.DataCategory
	}{
		{"vocabulary", "hiring", []string{"personal"}, risk.DomainHiring, []risk.DataCategory{risk.DataPersonal}},
		{"loose text", "Law Enforcement", []string{"Health", "health", "sensitive personal"}, risk.DomainLawEnforcement, []risk.DataCategory{risk.DataHealth, risk.DataSensitivePersonal}},
		{"unrecognized", "internal analytics", []string{"telemetry"}, risk.DomainOther, []risk.DataCategory{risk.DataNonPersonal}},
		{"empty", "", []string{}, risk.DomainOther, []risk.DataCategory{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := systems.AISystem{Domain: tt.domain, DataCategories: tt.categories}
			s.Normalize()

			assert.Equal(t, tt.wantDomain, s.NormalizedDomain)
			assert.Equal(t, tt.wantData, s.NormalizedDataCategories)
			assert.Equal(t, tt.domain, s.Domain)
			assert.Equal(t, tt.categories, s.DataCategories)
		})
	}
}

func TestNormalizedFieldsEncoded(t *testing.T) {
	s := systems.AISystem{Domain: "Credit", DataCategories: []string{"Financial"}}
	s.Normalize()

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Credit", got["domain"])
	assert.Equal(t, "credit", got["normalized_domain"])
	assert.Equal(t, []any{"financial"}, got["normalized_data_categories"])
}
