package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaLocation tolerates both a single URL string and a list of URLs; legacy
// payloads carry either form.
type MediaLocation []string

// UnmarshalJSON implements json.Unmarshaler for MediaLocation
func (m *MediaLocation) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = MediaLocation{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("media_location must be a string or a list of strings")
	}
	*m = MediaLocation(list)
	return nil
}

// AdvertisementSpec is the JSON specification of an advertisement as received
// at intake. TargetAudience stays an untyped map here; the criteria normalizer
// turns it into an AudienceSpec at serve time.
type AdvertisementSpec struct {
	Name        string        `json:"name"`
	ActionTitle string        `json:"action_title"`
	Description string        `json:"description"`
	MediaLoc    MediaLocation `json:"media_location"`
	MediaType   string        `json:"media_type"`
	TargetURL   string        `json:"target_url"`

	Categories      []string       `json:"categories"`
	Outreach        string         `json:"outreach"`
	TargetAudience  map[string]any `json:"target_audience"`
	TargetUserCount *int           `json:"target_user_count"`
}

// Value implements the driver.Valuer interface for AdvertisementSpec
func (s AdvertisementSpec) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for AdvertisementSpec
func (s *AdvertisementSpec) Scan(value any) error {
	if value == nil {
		*s = AdvertisementSpec{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AdvertisementSpec", value)
	}

	return json.Unmarshal(bytes, s)
}

// Advertisement represents an advertisement record. EngagedUserCount stays nil
// until the audience resolution pipeline serves the record; this service is
// its only writer.
type Advertisement struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	UUID             uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uk_advertisements_uuid" json:"uuid"`
	AdvertiserID     *uint             `gorm:"index:idx_advertisements_advertiser_id" json:"advertiser_id,omitempty"`
	Spec             AdvertisementSpec `gorm:"type:jsonb;not null" json:"spec"`
	EngagedUserCount *int64            `gorm:"index:idx_advertisements_engaged_user_count" json:"engaged_user_count,omitempty"`
	CreatedAt        time.Time         `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_advertisements_created_at" json:"created_at"`
	UpdatedAt        *time.Time        `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (Advertisement) TableName() string {
	return "advertisements"
}

// BeforeCreate is called before creating a new record
func (a *Advertisement) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (a *Advertisement) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	a.UpdatedAt = &now
	return nil
}

// Served reports whether the resolution pipeline already wrote an engagement count
func (a *Advertisement) Served() bool {
	return a.EngagedUserCount != nil
}

// AdvertisementFilter represents filter criteria for advertisement queries
type AdvertisementFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	AdvertiserID  *uint      `json:"advertiser_id,omitempty"`
	Unserved      *bool      `json:"unserved,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
