package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Susanoo/app/dto"
	"github.com/amirphl/Susanoo/app/services"
	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/repository"
	"gorm.io/gorm"
)

// ClientMetadata contains client information for audit purposes
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

// NewClientMetadata creates client metadata from request information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// AdvertisementFlow handles advertisement intake and retrieval
type AdvertisementFlow interface {
	CreateAdvertisement(ctx context.Context, req *dto.CreateAdvertisementRequest, metadata *ClientMetadata) (*dto.CreateAdvertisementResponse, error)
	GetAdvertisement(ctx context.Context, advertisementUUID string) (*dto.AdvertisementResponse, error)
}

// AdvertisementFlowImpl implements the advertisement intake business flow
type AdvertisementFlowImpl struct {
	adRepo     repository.AdvertisementRepository
	eventQueue services.EventQueue
	db         *gorm.DB
	logger     *log.Logger
}

// NewAdvertisementFlow creates a new advertisement flow instance
func NewAdvertisementFlow(
	adRepo repository.AdvertisementRepository,
	eventQueue services.EventQueue,
	db *gorm.DB,
	logger *log.Logger,
) AdvertisementFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &AdvertisementFlowImpl{
		adRepo:     adRepo,
		eventQueue: eventQueue,
		db:         db,
		logger:     logger,
	}
}

// CreateAdvertisement persists a new advertisement and publishes its creation
// event for the resolution worker. The targeting criteria are checked at
// intake with the same normalizer the worker uses, so a payload that would
// fail resolution is rejected before it is stored.
func (f *AdvertisementFlowImpl) CreateAdvertisement(ctx context.Context, req *dto.CreateAdvertisementRequest, metadata *ClientMetadata) (*dto.CreateAdvertisementResponse, error) {
	spec := models.AdvertisementSpec{
		Name:            req.Name,
		ActionTitle:     req.ActionTitle,
		Description:     req.Description,
		MediaLoc:        req.MediaLoc,
		MediaType:       req.MediaType,
		TargetURL:       req.TargetURL,
		Categories:      req.Categories,
		Outreach:        req.Outreach,
		TargetAudience:  req.TargetAudience,
		TargetUserCount: req.TargetUserCount,
	}

	if _, err := ParseAudienceSpec(&spec); err != nil {
		return nil, NewBusinessError("SPEC_VALIDATION_FAILED", "Targeting criteria validation failed", err)
	}

	ad := &models.Advertisement{
		AdvertiserID: req.AdvertiserID,
		Spec:         spec,
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		return f.adRepo.Save(txCtx, ad)
	})
	if err != nil {
		return nil, NewBusinessError("ADVERTISEMENT_SAVE_FAILED", "Failed to save advertisement", err)
	}

	// Publish after commit. A lost event is recovered by the worker's
	// periodic scan for unserved advertisements.
	if err := f.eventQueue.PublishCreated(ctx, ad.UUID.String()); err != nil {
		f.logger.Printf("intake: failed to publish creation event for %s: %v", ad.UUID, err)
	}

	if metadata != nil {
		f.logger.Printf("intake: advertisement %s created from %s", ad.UUID, metadata.IPAddress)
	}

	return &dto.CreateAdvertisementResponse{
		UUID:      ad.UUID.String(),
		CreatedAt: ad.CreatedAt.Format(time.RFC3339),
	}, nil
}

// GetAdvertisement returns one advertisement by its public identifier
func (f *AdvertisementFlowImpl) GetAdvertisement(ctx context.Context, advertisementUUID string) (*dto.AdvertisementResponse, error) {
	ad, err := f.adRepo.ByUUID(ctx, advertisementUUID)
	if err != nil {
		return nil, NewBusinessError("ADVERTISEMENT_LOOKUP_FAILED", "Failed to lookup advertisement", err)
	}
	if ad == nil {
		return nil, NewBusinessError("ADVERTISEMENT_NOT_FOUND", "Advertisement not found", ErrAdvertisementNotFound)
	}

	resp := &dto.AdvertisementResponse{
		UUID:             ad.UUID.String(),
		Name:             ad.Spec.Name,
		ActionTitle:      ad.Spec.ActionTitle,
		Description:      ad.Spec.Description,
		MediaLocation:    ad.Spec.MediaLoc,
		MediaType:        ad.Spec.MediaType,
		TargetURL:        ad.Spec.TargetURL,
		Categories:       ad.Spec.Categories,
		Outreach:         ad.Spec.Outreach,
		TargetAudience:   ad.Spec.TargetAudience,
		TargetUserCount:  ad.Spec.TargetUserCount,
		EngagedUserCount: ad.EngagedUserCount,
		CreatedAt:        ad.CreatedAt.Format(time.RFC3339),
	}
	return resp, nil
}
