package models

import (
	"time"

	"github.com/lib/pq"
)

// User represents a registered end user eligible for advertisement outreach.
// The profile attributes are stored as flat columns so targeting clauses can be
// pushed down to the database; interests is a PostgreSQL TEXT[] with a GIN
// index for overlap queries.
//
// Users are owned and mutated by the account system; this service only reads
// them and never creates, updates, or deletes a row.
type User struct {
	ID  int64  `gorm:"primaryKey;autoIncrement;type:bigserial" json:"id"`
	UID string `gorm:"size:255;not null;uniqueIndex:uk_users_uid" json:"uid"`

	EmailAddress string  `gorm:"size:320;not null;index:idx_users_email_address" json:"email_address"`
	PhoneNumber  *string `gorm:"size:20;index:idx_users_phone_number" json:"phone_number,omitempty"`

	// Data profile
	Interests     pq.StringArray `gorm:"type:text[];not null;default:'{}';index:idx_users_interests_gin,using:gin" json:"interests"`
	Ethnicity     string         `gorm:"size:64" json:"ethnicity"`
	Gender        string         `gorm:"size:64" json:"gender"`
	HomeOwnership string         `gorm:"size:64" json:"home_ownership"`
	Income        string         `gorm:"size:64" json:"income"`
	Location      string         `gorm:"size:128;index:idx_users_location" json:"location"`
	Politics      string         `gorm:"size:64" json:"politics"`
	Relationship  string         `gorm:"size:64" json:"relationship"`
	Religion      string         `gorm:"size:64" json:"religion"`
	Sexuality     string         `gorm:"size:64" json:"sexuality"`
	Age           int            `gorm:"not null;index:idx_users_age" json:"age"`

	// Per-channel opt-out flags
	OutreachPushDisabled  bool `gorm:"not null;default:false" json:"outreach_push_disabled"`
	OutreachEmailDisabled bool `gorm:"not null;default:false" json:"outreach_email_disabled"`
	OutreachSMSDisabled   bool `gorm:"column:outreach_sms_disabled;not null;default:false" json:"outreach_sms_disabled"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// ProfileValue returns the user's value for the given demographic axis
func (u *User) ProfileValue(name DimensionName) string {
	switch name {
	case DimensionEthnicity:
		return u.Ethnicity
	case DimensionGender:
		return u.Gender
	case DimensionHomeOwnership:
		return u.HomeOwnership
	case DimensionIncome:
		return u.Income
	case DimensionLocation:
		return u.Location
	case DimensionPolitics:
		return u.Politics
	case DimensionRelationship:
		return u.Relationship
	case DimensionReligion:
		return u.Religion
	case DimensionSexuality:
		return u.Sexuality
	default:
		return ""
	}
}

// ChannelDisabled reports whether the user opted out of the given channel
func (u *User) ChannelDisabled(channel OutreachChannel) bool {
	switch channel {
	case OutreachChannelPush:
		return u.OutreachPushDisabled
	case OutreachChannelEmail:
		return u.OutreachEmailDisabled
	case OutreachChannelSMS:
		return u.OutreachSMSDisabled
	default:
		return true
	}
}

// DimensionColumn maps a demographic axis to its users table column
func DimensionColumn(name DimensionName) string {
	// Column names match DimensionName values one-to-one
	return string(name)
}
