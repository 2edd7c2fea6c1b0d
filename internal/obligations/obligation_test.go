package obligations_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/internal/obligations"
	"github.com/JaimeStill/warden/risk"
)

func ptr[T any](v T) *T { return &v }

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]obligations.Status{
		"not_started":  obligations.StatusNotStarted,
		"in-progress":  obligations.StatusInProgress,
		"Under Review": obligations.StatusUnderReview,
		"COMPLETED":    obligations.StatusCompleted,
		"overdue":      obligations.StatusOverdue,
	} {
		got, err := obligations.ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := obligations.ParseStatus("waived")
	assert.ErrorIs(t, err, obligations.ErrInvalidStatus)
}

func TestUpdateCommandApply(t *testing.T) {
	o := obligations.SystemObligation{Status: obligations.StatusNotStarted, Assignee: ptr("dana")}

	cmd := obligations.UpdateCommand{
		Status:  ptr("in-progress"),
		DueDate: ptr("2026-08-02"),
		Notes:   ptr("risk register drafted"),
	}
	require.NoError(t, cmd.Apply(&o))

	assert.Equal(t, obligations.StatusInProgress, o.Status)
	require.NotNil(t, o.DueDate)
	assert.Equal(t, time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), *o.DueDate)
	assert.Equal(t, "dana", *o.Assignee)
	assert.Equal(t, "risk register drafted", o.Notes)

	require.NoError(t, (&obligations.UpdateCommand{Assignee: ptr(""), DueDate: ptr("")}).Apply(&o))
	assert.Nil(t, o.Assignee)
	assert.Nil(t, o.DueDate)
}

func TestUpdateCommandApplyErrors(t *testing.T) {
	o := obligations.SystemObligation{Status: obligations.StatusNotStarted}

	assert.ErrorIs(t, (&obligations.UpdateCommand{Status: ptr("done")}).Apply(&o), obligations.ErrInvalidStatus)
	assert.ErrorIs(t, (&obligations.UpdateCommand{DueDate: ptr("02/08/2026")}).Apply(&o), obligations.ErrInvalidInput)
	assert.Equal(t, obligations.StatusNotStarted, o.Status)
}

func TestFromResult(t *testing.T) {
	high := risk.Classify(risk.Profile{
		Name:            "Resume screener",
		Purpose:         "Rank job applicants for interview",
		Domain:          "hiring",
		AffectedPersons: "job applicants",
		AutonomyLevel:   "fully-autonomous",
		DataCategories:  []string{"personal", "employment"},
	})
	require.Equal(t, risk.TierHigh, high.Tier)
	require.True(t, high.Colorado.Applicable)

	got := obligations.FromResult(high)
	assert.Len(t, got, len(high.Obligations)+len(high.Colorado.Obligations))
	assert.Equal(t, high.Obligations[0].ID, got[0].ID)
	assert.Equal(t, risk.JurisdictionColorado, got[len(got)-1].Jurisdiction)

	minimal := risk.Result{Tier: risk.TierMinimal, Obligations: risk.ObligationsFor(risk.TierMinimal)}
	assert.Empty(t, obligations.FromResult(minimal))
}

func TestSummarize(t *testing.T) {
	items := []obligations.SystemObligation{
		{Status: obligations.StatusCompleted},
		{Status: obligations.StatusCompleted},
		{Status: obligations.StatusInProgress},
	}

	p := obligations.Summarize(items)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 2, p.ByStatus[obligations.StatusCompleted])
	assert.Equal(t, 0, p.ByStatus[obligations.StatusOverdue])
	assert.Equal(t, 67, p.Percent)

	assert.Zero(t, obligations.Summarize(nil).Percent)
}
