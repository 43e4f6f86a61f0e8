package models

import (
	"time"

	"github.com/lib/pq"
)

// ServedAdvertisement records one completed audience resolution for an
// advertisement. The unique advertisement_id index is the guard that keeps
// redelivered creation events from dispatching twice; correlation_id ties the
// row to the worker invocation that produced it.
type ServedAdvertisement struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	AdvertisementID  uint          `gorm:"not null;uniqueIndex:uk_served_advertisements_advertisement_id" json:"advertisement_id"`
	CorrelationID    string        `gorm:"type:varchar(128);not null;uniqueIndex:uk_served_advertisements_correlation_id" json:"correlation_id"`
	Channel          string        `gorm:"size:16;not null" json:"channel"`
	AudienceIDs      pq.Int64Array `gorm:"type:bigint[];not null;default:'{}'" json:"audience_ids"`
	EngagedUserCount int64         `gorm:"not null" json:"engaged_user_count"`
	CreatedAt        time.Time     `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (ServedAdvertisement) TableName() string { return "served_advertisements" }
