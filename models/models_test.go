package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaLocation_UnmarshalJSON(t *testing.T) {
	t.Run("single string", func(t *testing.T) {
		var m MediaLocation
		require.NoError(t, json.Unmarshal([]byte(`"https://cdn.example.com/a.png"`), &m))
		assert.Equal(t, MediaLocation{"https://cdn.example.com/a.png"}, m)
	})

	t.Run("list", func(t *testing.T) {
		var m MediaLocation
		require.NoError(t, json.Unmarshal([]byte(`["a.png","b.png"]`), &m))
		assert.Equal(t, MediaLocation{"a.png", "b.png"}, m)
	})

	t.Run("invalid", func(t *testing.T) {
		var m MediaLocation
		assert.Error(t, json.Unmarshal([]byte(`{"url":"a.png"}`), &m))
	})
}

func TestOutreachChannel(t *testing.T) {
	assert.True(t, OutreachChannelPush.Valid())
	assert.True(t, OutreachChannelEmail.Valid())
	assert.True(t, OutreachChannelSMS.Valid())
	assert.False(t, OutreachChannel("fax").Valid())
	assert.False(t, OutreachChannel("").Valid())

	assert.Equal(t, "outreach_push_disabled", OutreachChannelPush.DisabledColumn())
	assert.Equal(t, "outreach_email_disabled", OutreachChannelEmail.DisabledColumn())
	assert.Equal(t, "outreach_sms_disabled", OutreachChannelSMS.DisabledColumn())
	assert.Equal(t, "", OutreachChannel("fax").DisabledColumn())
}

func TestAudienceSpec_DimensionDefaultsToAny(t *testing.T) {
	spec := &AudienceSpec{Dimensions: map[DimensionName]Dimension{
		DimensionGender: ConstrainedDimension("female"),
	}}

	assert.True(t, spec.Dimension(DimensionGender).Constrained())
	assert.False(t, spec.Dimension(DimensionReligion).Constrained())
}

func TestAudienceSpec_AgeConstraintActive(t *testing.T) {
	cases := []struct {
		name   string
		min    int
		max    int
		active bool
	}{
		{"both default", DefaultMinAge, DefaultMaxAge, false},
		{"only min set", 25, DefaultMaxAge, false},
		{"only max set", DefaultMinAge, 40, false},
		{"both set", 25, 40, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := &AudienceSpec{MinAge: tc.min, MaxAge: tc.max}
			assert.Equal(t, tc.active, spec.AgeConstraintActive())
		})
	}
}

func TestUser_ChannelDisabled(t *testing.T) {
	u := &User{OutreachEmailDisabled: true}

	assert.True(t, u.ChannelDisabled(OutreachChannelEmail))
	assert.False(t, u.ChannelDisabled(OutreachChannelSMS))
	assert.False(t, u.ChannelDisabled(OutreachChannelPush))

	// Unknown channels are never deliverable
	assert.True(t, u.ChannelDisabled(OutreachChannel("fax")))
}

func TestAdvertisement_Served(t *testing.T) {
	ad := &Advertisement{}
	assert.False(t, ad.Served())

	count := int64(0)
	ad.EngagedUserCount = &count
	assert.True(t, ad.Served())
}
