package dto

import "github.com/amirphl/Susanoo/models"

// CreateAdvertisementRequest represents the advertisement intake payload.
// TargetAudience stays an untyped map on the wire; the business flow
// normalizes and validates it.
type CreateAdvertisementRequest struct {
	Name        string               `json:"name" validate:"required,min=1,max=255" example:"Summer Sale"`
	ActionTitle string               `json:"action_title" validate:"required,min=1,max=255" example:"Shop now"`
	Description string               `json:"description" validate:"required,min=1,max=2048" example:"Up to 50% off selected items"`
	MediaLoc    models.MediaLocation `json:"media_location" validate:"omitempty" example:"https://cdn.example.com/banner.png"`
	MediaType   string               `json:"media_type" validate:"omitempty,oneof=image video" example:"image"`
	TargetURL   string               `json:"target_url" validate:"omitempty,url" example:"https://shop.example.com/sale"`

	Categories      []string       `json:"categories" validate:"required,min=1,dive,min=1" example:"fashion"`
	Outreach        string         `json:"outreach" validate:"omitempty,max=16" example:"email"`
	TargetAudience  map[string]any `json:"target_audience" validate:"required,min=1"`
	TargetUserCount *int           `json:"target_user_count" validate:"required,min=0" example:"1000"`

	// AdvertiserID is filled from the access token, never from the body
	AdvertiserID *uint `json:"-"`
}

// CreateAdvertisementResponse represents the successful intake response
type CreateAdvertisementResponse struct {
	UUID      string `json:"uuid"`
	CreatedAt string `json:"created_at"`
}

// AdvertisementResponse represents one advertisement in API responses
type AdvertisementResponse struct {
	UUID             string               `json:"uuid"`
	Name             string               `json:"name"`
	ActionTitle      string               `json:"action_title"`
	Description      string               `json:"description"`
	MediaLocation    models.MediaLocation `json:"media_location,omitempty"`
	MediaType        string               `json:"media_type,omitempty"`
	TargetURL        string               `json:"target_url,omitempty"`
	Categories       []string             `json:"categories"`
	Outreach         string               `json:"outreach,omitempty"`
	TargetAudience   map[string]any       `json:"target_audience"`
	TargetUserCount  *int                 `json:"target_user_count"`
	EngagedUserCount *int64               `json:"engaged_user_count,omitempty"`
	CreatedAt        string               `json:"created_at"`
}
