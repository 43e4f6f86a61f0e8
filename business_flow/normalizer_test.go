package businessflow_test

import (
	"encoding/json"
	"testing"

	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() *models.AdvertisementSpec {
	return &models.AdvertisementSpec{
		Name:        "Test",
		ActionTitle: "Act",
		Description: "Desc",
		Categories:  []string{"sports", "travel"},
		TargetAudience: map[string]any{
			"gender":   []any{"female"},
			"location": []any{"berlin", "hamburg"},
			"min_age":  float64(25),
			"max_age":  float64(40),
			"outreach": "email",
		},
		TargetUserCount: utils.ToPtr(100),
	}
}

func TestParseAudienceSpec_Valid(t *testing.T) {
	spec, err := businessflow.ParseAudienceSpec(validSpec())
	require.NoError(t, err)

	assert.Equal(t, []string{"sports", "travel"}, spec.Interests)
	assert.Equal(t, 100, spec.TargetUserCount)
	assert.Equal(t, models.OutreachChannelEmail, spec.Channel)
	assert.Equal(t, 25, spec.MinAge)
	assert.Equal(t, 40, spec.MaxAge)

	gender := spec.Dimension(models.DimensionGender)
	assert.True(t, gender.Constrained())
	assert.Equal(t, []string{"female"}, gender.Values)

	// Unmentioned axes default to unconstrained
	assert.False(t, spec.Dimension(models.DimensionReligion).Constrained())
}

func TestParseAudienceSpec_NilSpec(t *testing.T) {
	_, err := businessflow.ParseAudienceSpec(nil)
	assert.True(t, businessflow.IsInvalidSpec(err))
}

func TestParseAudienceSpec_MissingTargetAudience(t *testing.T) {
	raw := validSpec()
	raw.TargetAudience = nil

	_, err := businessflow.ParseAudienceSpec(raw)
	require.Error(t, err)
	assert.True(t, businessflow.IsInvalidSpec(err))
	assert.ErrorIs(t, err, businessflow.ErrTargetAudienceRequired)
}

func TestParseAudienceSpec_EmptyCategories(t *testing.T) {
	raw := validSpec()
	raw.Categories = []string{}

	_, err := businessflow.ParseAudienceSpec(raw)
	assert.ErrorIs(t, err, businessflow.ErrCategoriesRequired)
}

func TestParseAudienceSpec_TargetUserCount(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		raw := validSpec()
		raw.TargetUserCount = nil
		_, err := businessflow.ParseAudienceSpec(raw)
		assert.ErrorIs(t, err, businessflow.ErrTargetUserCountRequired)
	})

	t.Run("negative", func(t *testing.T) {
		raw := validSpec()
		raw.TargetUserCount = utils.ToPtr(-1)
		_, err := businessflow.ParseAudienceSpec(raw)
		assert.ErrorIs(t, err, businessflow.ErrTargetUserCountNegative)
	})

	t.Run("zero is allowed", func(t *testing.T) {
		raw := validSpec()
		raw.TargetUserCount = utils.ToPtr(0)
		spec, err := businessflow.ParseAudienceSpec(raw)
		require.NoError(t, err)
		assert.Equal(t, 0, spec.TargetUserCount)
	})
}

func TestParseAudienceSpec_DimensionForms(t *testing.T) {
	t.Run("bare Any string", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["gender"] = "Any"
		spec, err := businessflow.ParseAudienceSpec(raw)
		require.NoError(t, err)
		assert.False(t, spec.Dimension(models.DimensionGender).Constrained())
	})

	t.Run("scalar becomes one-element set", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["gender"] = "male"
		spec, err := businessflow.ParseAudienceSpec(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"male"}, spec.Dimension(models.DimensionGender).Values)
	})

	t.Run("collection with Any first is unconstrained", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["location"] = []any{"Any"}
		spec, err := businessflow.ParseAudienceSpec(raw)
		require.NoError(t, err)
		assert.False(t, spec.Dimension(models.DimensionLocation).Constrained())
	})

	t.Run("string slice", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["location"] = []string{"berlin"}
		spec, err := businessflow.ParseAudienceSpec(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"berlin"}, spec.Dimension(models.DimensionLocation).Values)
	})

	t.Run("empty collection rejected", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["location"] = []any{}
		_, err := businessflow.ParseAudienceSpec(raw)
		assert.ErrorIs(t, err, businessflow.ErrDimensionEmpty)
	})

	t.Run("non-string member rejected", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["location"] = []any{"berlin", 7}
		_, err := businessflow.ParseAudienceSpec(raw)
		assert.ErrorIs(t, err, businessflow.ErrDimensionMalformed)
	})

	t.Run("unexpected type rejected", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["location"] = 42
		_, err := businessflow.ParseAudienceSpec(raw)
		assert.ErrorIs(t, err, businessflow.ErrDimensionMalformed)
	})
}

func TestParseAudienceSpec_AgeBounds(t *testing.T) {
	t.Run("missing bounds fall back to defaults", func(t *testing.T) {
		raw := validSpec()
		delete(raw.TargetAudience, "min_age")
		delete(raw.TargetAudience, "max_age")
		spec, err := businessflow.ParseAudienceSpec(raw)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultMinAge, spec.MinAge)
		assert.Equal(t, models.DefaultMaxAge, spec.MaxAge)
		assert.False(t, spec.AgeConstraintActive())
	})

	t.Run("json.Number accepted", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["min_age"] = json.Number("21")
		spec, err := businessflow.ParseAudienceSpec(raw)
		require.NoError(t, err)
		assert.Equal(t, 21, spec.MinAge)
	})

	t.Run("int accepted", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["max_age"] = 55
		spec, err := businessflow.ParseAudienceSpec(raw)
		require.NoError(t, err)
		assert.Equal(t, 55, spec.MaxAge)
	})

	t.Run("fractional rejected", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["min_age"] = 25.5
		_, err := businessflow.ParseAudienceSpec(raw)
		assert.ErrorIs(t, err, businessflow.ErrAgeBoundMalformed)
	})

	t.Run("non-numeric rejected", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["max_age"] = "forty"
		_, err := businessflow.ParseAudienceSpec(raw)
		assert.ErrorIs(t, err, businessflow.ErrAgeBoundMalformed)
	})
}

func TestParseAudienceSpec_AgeConstraintAsymmetry(t *testing.T) {
	// The age pair only activates when both bounds differ from their defaults
	raw := validSpec()
	raw.TargetAudience["min_age"] = float64(25)
	raw.TargetAudience["max_age"] = float64(models.DefaultMaxAge)

	spec, err := businessflow.ParseAudienceSpec(raw)
	require.NoError(t, err)
	assert.Equal(t, 25, spec.MinAge)
	assert.False(t, spec.AgeConstraintActive())
}

func TestParseAudienceSpec_Channel(t *testing.T) {
	t.Run("top-level fallback", func(t *testing.T) {
		raw := validSpec()
		delete(raw.TargetAudience, "outreach")
		raw.Outreach = "sms"
		spec, err := businessflow.ParseAudienceSpec(raw)
		require.NoError(t, err)
		assert.Equal(t, models.OutreachChannelSMS, spec.Channel)
	})

	t.Run("missing everywhere rejected", func(t *testing.T) {
		raw := validSpec()
		delete(raw.TargetAudience, "outreach")
		raw.Outreach = ""
		_, err := businessflow.ParseAudienceSpec(raw)
		assert.ErrorIs(t, err, businessflow.ErrOutreachRequired)
	})

	t.Run("unknown channel preserved", func(t *testing.T) {
		raw := validSpec()
		raw.TargetAudience["outreach"] = "carrier-pigeon"
		spec, err := businessflow.ParseAudienceSpec(raw)
		require.NoError(t, err)
		assert.Equal(t, models.OutreachChannel("carrier-pigeon"), spec.Channel)
		assert.False(t, spec.Channel.Valid())
	})
}

func TestParseAudienceSpec_Pure(t *testing.T) {
	raw := validSpec()
	first, err := businessflow.ParseAudienceSpec(raw)
	require.NoError(t, err)
	second, err := businessflow.ParseAudienceSpec(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
