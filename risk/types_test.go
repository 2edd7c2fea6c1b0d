package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/risk"
)

func TestTierOrdering(t *testing.T) {
	assert.True(t, risk.TierUnacceptable.AtLeast(risk.TierHigh))
	assert.True(t, risk.TierHigh.AtLeast(risk.TierLimited))
	assert.True(t, risk.TierLimited.AtLeast(risk.TierMinimal))
	assert.True(t, risk.TierHigh.AtLeast(risk.TierHigh))
	assert.False(t, risk.TierMinimal.AtLeast(risk.TierLimited))
	assert.False(t, risk.Tier("bogus").Valid())
}

func TestParseTier(t *testing.T) {
	tier, err := risk.ParseTier(" high ")
	require.NoError(t, err)
	assert.Equal(t, risk.TierHigh, tier)

	_, err = risk.ParseTier("severe")
	assert.ErrorIs(t, err, risk.ErrInvalidTier)
}

func TestParsePriority(t *testing.T) {
	p, err := risk.ParsePriority("critical")
	require.NoError(t, err)
	assert.Equal(t, risk.PriorityCritical, p)

	_, err = risk.ParsePriority("urgent")
	assert.ErrorIs(t, err, risk.ErrInvalidPriority)
}

func TestHighest(t *testing.T) {
	assert.Equal(t, risk.TierMinimal, risk.Highest())
	assert.Equal(t, risk.TierHigh, risk.Highest(risk.TierLimited, risk.TierHigh, risk.TierMinimal))
	assert.Equal(t, risk.TierUnacceptable, risk.Highest(risk.TierHigh, risk.TierUnacceptable))
}

func TestNormalizeDomain(t *testing.T) {
	tests := map[string]risk.Domain{
		"hiring":                  risk.DomainHiring,
		"Law Enforcement":         risk.DomainLawEnforcement,
		"law_enforcement":         risk.DomainLawEnforcement,
		"CRITICAL-INFRASTRUCTURE": risk.DomainCriticalInfrastructure,
		"internal_analytics":      risk.DomainOther,
		"":                        risk.DomainOther,
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, risk.NormalizeDomain(in))
		})
	}
}

func TestNormalizeDataCategories(t *testing.T) {
	got := risk.NormalizeDataCategories([]string{"Health", "health", "sensitive personal", "telemetry"})
	assert.Equal(t, []risk.DataCategory{
		risk.DataHealth,
		risk.DataSensitivePersonal,
		risk.DataNonPersonal,
	}, got)
}

func TestNormalizeAutonomy(t *testing.T) {
	level, ok := risk.NormalizeAutonomy("Human_In_Loop")
	assert.True(t, ok)
	assert.Equal(t, risk.AutonomyHumanInLoop, level)

	_, ok = risk.NormalizeAutonomy("autopilot")
	assert.False(t, ok)
}

func TestAnnexTier(t *testing.T) {
	assert.Equal(t, risk.TierHigh, risk.AnnexTier(risk.Profile{Domain: "biometric"}))
	assert.Equal(t, risk.TierLimited, risk.AnnexTier(risk.Profile{Domain: "content generation"}))
	assert.Equal(t, risk.TierMinimal, risk.AnnexTier(risk.Profile{Domain: "marketing"}))
}

func TestSnapshot(t *testing.T) {
	s := risk.Snapshot()

	assert.Equal(t, risk.RulesVersion, s.Version)
	assert.Len(t, s.Domains, len(risk.DomainRules))
	assert.Len(t, s.Prohibited, 7)
	assert.Len(t, s.Transparency, 4)
	assert.Len(t, s.Autonomy, 4)
	assert.Len(t, s.Obligations[risk.TierHigh], 8)
	assert.Empty(t, s.Obligations[risk.TierMinimal])
	assert.Len(t, s.Colorado, 5)

	s.Domains[0].Articles[0] = "changed"
	assert.NotEqual(t, "changed", risk.DomainRules[0].Articles[0])
}
