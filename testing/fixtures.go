package testing

import (
	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserOption mutates a fixture user
type UserOption func(*models.User)

func WithAge(age int) UserOption {
	return func(u *models.User) { u.Age = age }
}

func WithProfile(name models.DimensionName, value string) UserOption {
	return func(u *models.User) {
		switch name {
		case models.DimensionEthnicity:
			u.Ethnicity = value
		case models.DimensionGender:
			u.Gender = value
		case models.DimensionHomeOwnership:
			u.HomeOwnership = value
		case models.DimensionIncome:
			u.Income = value
		case models.DimensionLocation:
			u.Location = value
		case models.DimensionPolitics:
			u.Politics = value
		case models.DimensionRelationship:
			u.Relationship = value
		case models.DimensionReligion:
			u.Religion = value
		case models.DimensionSexuality:
			u.Sexuality = value
		}
	}
}

func WithPhone(phone string) UserOption {
	return func(u *models.User) { u.PhoneNumber = utils.ToPtr(phone) }
}

func WithoutEmail() UserOption {
	return func(u *models.User) { u.EmailAddress = "" }
}

func WithChannelDisabled(channel models.OutreachChannel) UserOption {
	return func(u *models.User) {
		switch channel {
		case models.OutreachChannelPush:
			u.OutreachPushDisabled = true
		case models.OutreachChannelEmail:
			u.OutreachEmailDisabled = true
		case models.OutreachChannelSMS:
			u.OutreachSMSDisabled = true
		}
	}
}

// NewTestUser builds a fixture user with sensible defaults: age 30, a phone
// number, every channel enabled.
func NewTestUser(id int64, interests ...string) *models.User {
	u := &models.User{
		ID:           id,
		UID:          uuid.New().String(),
		EmailAddress: uuid.New().String() + "@test.local",
		PhoneNumber:  utils.ToPtr("9890000000"),
		Interests:    pq.StringArray(interests),
		Age:          30,
	}
	return u
}

// NewTestUserWith builds a fixture user and applies options
func NewTestUserWith(id int64, interests []string, opts ...UserOption) *models.User {
	u := NewTestUser(id, interests...)
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// NewTestSpec builds an advertisement spec with the given targeting criteria
func NewTestSpec(categories []string, audience map[string]any, targetUserCount int) models.AdvertisementSpec {
	return models.AdvertisementSpec{
		Name:            "Test Advertisement",
		ActionTitle:     "Act now",
		Description:     "Test description",
		Categories:      categories,
		TargetAudience:  audience,
		TargetUserCount: utils.ToPtr(targetUserCount),
	}
}

// NewTestAdvertisement wraps a spec in an advertisement with a fresh UUID
func NewTestAdvertisement(spec models.AdvertisementSpec) *models.Advertisement {
	return &models.Advertisement{
		UUID:      uuid.New(),
		Spec:      spec,
		CreatedAt: utils.UTCNow(),
	}
}
