package businessflow_test

import (
	"testing"

	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/amirphl/Susanoo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, raw *models.AdvertisementSpec) []models.Clause {
	t.Helper()
	spec, err := businessflow.ParseAudienceSpec(raw)
	require.NoError(t, err)
	return businessflow.CompileAudienceClauses(spec)
}

func TestCompileAudienceClauses_AllAny(t *testing.T) {
	raw := validSpec()
	raw.TargetAudience = map[string]any{
		"outreach": "email",
	}

	clauses := compile(t, raw)

	// Interests overlap plus channel eligibility, nothing else
	require.Len(t, clauses, 2)
	assert.Equal(t, models.ClauseOpOverlaps, clauses[0].Op)
	assert.Equal(t, "interests", clauses[0].Column)
	assert.Equal(t, []string{"sports", "travel"}, clauses[0].Values)
	assert.Equal(t, models.ClauseOpNotDisabled, clauses[1].Op)
	assert.Equal(t, "outreach_email_disabled", clauses[1].Column)
}

func TestCompileAudienceClauses_Ordering(t *testing.T) {
	raw := validSpec()
	raw.TargetAudience = map[string]any{
		"religion": []any{"none"},
		"gender":   []any{"female"},
		"min_age":  float64(25),
		"max_age":  float64(40),
		"outreach": "sms",
	}

	clauses := compile(t, raw)
	require.Len(t, clauses, 6)

	// Interests first, demographics in canonical order, age pair, eligibility last
	assert.Equal(t, models.ClauseOpOverlaps, clauses[0].Op)
	assert.Equal(t, "gender", clauses[1].Column)
	assert.Equal(t, "religion", clauses[2].Column)
	assert.Equal(t, models.ClauseOpGTE, clauses[3].Op)
	assert.Equal(t, 25, clauses[3].Bound)
	assert.Equal(t, models.ClauseOpLTE, clauses[4].Op)
	assert.Equal(t, 40, clauses[4].Bound)
	assert.Equal(t, "outreach_sms_disabled", clauses[5].Column)
}

func TestCompileAudienceClauses_AgePairRequiresBothBounds(t *testing.T) {
	raw := validSpec()
	raw.TargetAudience = map[string]any{
		"min_age":  float64(30),
		"outreach": "email",
	}

	clauses := compile(t, raw)
	for _, c := range clauses {
		assert.NotEqual(t, models.ClauseOpGTE, c.Op)
		assert.NotEqual(t, models.ClauseOpLTE, c.Op)
	}
}

func TestCompileAudienceClauses_UnknownChannelHasNoEligibilityClause(t *testing.T) {
	raw := validSpec()
	raw.TargetAudience = map[string]any{
		"outreach": "fax",
	}

	clauses := compile(t, raw)
	require.Len(t, clauses, 1)
	assert.Equal(t, models.ClauseOpOverlaps, clauses[0].Op)
}

func TestCompileAudienceClauses_Deterministic(t *testing.T) {
	raw := validSpec()
	raw.TargetAudience = map[string]any{
		"location":  []any{"berlin"},
		"politics":  []any{"moderate"},
		"ethnicity": []any{"asian"},
		"outreach":  "push",
	}

	first := compile(t, raw)
	second := compile(t, raw)
	assert.Equal(t, first, second)

	// Canonical dimension order regardless of map iteration
	assert.Equal(t, "ethnicity", first[1].Column)
	assert.Equal(t, "location", first[2].Column)
	assert.Equal(t, "politics", first[3].Column)
}
