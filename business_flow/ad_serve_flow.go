package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdServeFlow resolves the audience for a newly created advertisement and
// records the engagement count.
type AdServeFlow interface {
	ServeAdvertisement(ctx context.Context, advertisementUUID string, correlationID string) (*AdServeResult, error)
}

// AdServeResult summarizes one serve attempt
type AdServeResult struct {
	AdvertisementID   uint                   `json:"advertisement_id"`
	AdvertisementUUID string                 `json:"advertisement_uuid"`
	Channel           models.OutreachChannel `json:"channel"`
	MatchedUserCount  int                    `json:"matched_user_count"`
	EngagedUserCount  int64                  `json:"engaged_user_count"`
	Replayed          bool                   `json:"replayed"`
}

// AdServeFlowImpl implements the audience resolution business flow
type AdServeFlowImpl struct {
	adRepo      repository.AdvertisementRepository
	userRepo    repository.UserRepository
	servedRepo  repository.ServedAdvertisementRepository
	dispatchers map[models.OutreachChannel]OutreachDispatcher
	db          *gorm.DB
	logger      *log.Logger
}

// NewAdServeFlow creates a new audience resolution flow instance
func NewAdServeFlow(
	adRepo repository.AdvertisementRepository,
	userRepo repository.UserRepository,
	servedRepo repository.ServedAdvertisementRepository,
	dispatchers map[models.OutreachChannel]OutreachDispatcher,
	db *gorm.DB,
	logger *log.Logger,
) AdServeFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &AdServeFlowImpl{
		adRepo:      adRepo,
		userRepo:    userRepo,
		servedRepo:  servedRepo,
		dispatchers: dispatchers,
		db:          db,
		logger:      logger,
	}
}

// ServeAdvertisement runs the full pipeline for one advertisement: load,
// normalize the targeting criteria, compile the filter clauses, resolve the
// audience, dispatch over the requested channel, and persist the engagement
// count. Redelivered events replay the recorded count without dispatching
// again.
func (f *AdServeFlowImpl) ServeAdvertisement(ctx context.Context, advertisementUUID string, correlationID string) (*AdServeResult, error) {
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	ad, err := f.adRepo.ByUUID(ctx, advertisementUUID)
	if err != nil {
		serveFailuresTotal.WithLabelValues("load").Inc()
		return nil, NewBusinessError("ADVERTISEMENT_LOOKUP_FAILED", "Failed to lookup advertisement", err)
	}
	if ad == nil {
		return nil, NewBusinessError("ADVERTISEMENT_NOT_FOUND", "Advertisement not found", ErrAdvertisementNotFound)
	}

	// Redelivery guard: a recorded resolution wins over everything else.
	served, err := f.servedRepo.ByAdvertisementID(ctx, ad.ID)
	if err != nil {
		serveFailuresTotal.WithLabelValues("load").Inc()
		return nil, NewBusinessError("SERVED_LOOKUP_FAILED", "Failed to lookup prior resolution", err)
	}
	if served != nil {
		f.logger.Printf("serve: advertisement %s already resolved (correlation %s), replaying count %d",
			advertisementUUID, served.CorrelationID, served.EngagedUserCount)
		if err := f.adRepo.UpdateEngagedUserCount(ctx, ad.ID, served.EngagedUserCount); err != nil {
			serveFailuresTotal.WithLabelValues("write").Inc()
			return nil, NewBusinessError("ENGAGEMENT_WRITE_FAILED", "Failed to rewrite engagement count", fmt.Errorf("%w: %w", ErrWriteFailed, err))
		}
		return &AdServeResult{
			AdvertisementID:   ad.ID,
			AdvertisementUUID: advertisementUUID,
			Channel:           models.OutreachChannel(served.Channel),
			MatchedUserCount:  len(served.AudienceIDs),
			EngagedUserCount:  served.EngagedUserCount,
			Replayed:          true,
		}, nil
	}

	spec, err := ParseAudienceSpec(&ad.Spec)
	if err != nil {
		serveFailuresTotal.WithLabelValues("normalize").Inc()
		return nil, NewBusinessError("SPEC_VALIDATION_FAILED", "Targeting criteria validation failed", err)
	}

	// An unrecognized channel short-circuits before the store is queried;
	// the advertisement still gets its zero count recorded.
	if !spec.Channel.Valid() {
		f.logger.Printf("serve: advertisement %s requests unsupported channel %q, recording zero engagement",
			advertisementUUID, spec.Channel)
		if err := f.recordResolution(ctx, ad, spec.Channel, nil, 0, correlationID); err != nil {
			return nil, err
		}
		return &AdServeResult{
			AdvertisementID:   ad.ID,
			AdvertisementUUID: advertisementUUID,
			Channel:           spec.Channel,
			MatchedUserCount:  0,
			EngagedUserCount:  0,
		}, nil
	}

	clauses := CompileAudienceClauses(spec)

	users, err := f.userRepo.ByClauses(ctx, clauses, spec.TargetUserCount)
	if err != nil {
		serveFailuresTotal.WithLabelValues("resolve").Inc()
		return nil, NewBusinessError("AUDIENCE_RESOLUTION_FAILED", "Audience resolution failed", fmt.Errorf("%w: %w", ErrResolutionFailed, err))
	}

	dispatcher, ok := f.dispatchers[spec.Channel]
	if !ok {
		serveFailuresTotal.WithLabelValues("dispatch").Inc()
		return nil, NewBusinessError("DISPATCHER_MISSING", fmt.Sprintf("No dispatcher registered for channel %s", spec.Channel), nil)
	}

	engaged := dispatcher.Dispatch(ctx, ad, users)

	if err := f.recordResolution(ctx, ad, spec.Channel, users, engaged, correlationID); err != nil {
		return nil, err
	}

	adsServedTotal.WithLabelValues(spec.Channel.String()).Inc()
	engagedUsersTotal.WithLabelValues(spec.Channel.String()).Add(float64(engaged))

	f.logger.Printf("serve: advertisement %s resolved %d users, engaged %d over %s (correlation %s)",
		advertisementUUID, len(users), engaged, spec.Channel, correlationID)

	return &AdServeResult{
		AdvertisementID:   ad.ID,
		AdvertisementUUID: advertisementUUID,
		Channel:           spec.Channel,
		MatchedUserCount:  len(users),
		EngagedUserCount:  engaged,
	}, nil
}

// recordResolution persists the resolution record and the engagement count in
// one transaction so a crash can never leave the count without its guard row.
func (f *AdServeFlowImpl) recordResolution(
	ctx context.Context,
	ad *models.Advertisement,
	channel models.OutreachChannel,
	users []*models.User,
	engaged int64,
	correlationID string,
) error {
	audienceIDs := make([]int64, 0, len(users))
	for _, u := range users {
		audienceIDs = append(audienceIDs, u.ID)
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		record := &models.ServedAdvertisement{
			AdvertisementID:  ad.ID,
			CorrelationID:    correlationID,
			Channel:          channel.String(),
			AudienceIDs:      audienceIDs,
			EngagedUserCount: engaged,
		}
		if err := f.servedRepo.Save(txCtx, record); err != nil {
			return err
		}
		return f.adRepo.UpdateEngagedUserCount(txCtx, ad.ID, engaged)
	})
	if err != nil {
		serveFailuresTotal.WithLabelValues("write").Inc()
		return NewBusinessError("ENGAGEMENT_WRITE_FAILED", "Failed to record engagement count", fmt.Errorf("%w: %w", ErrWriteFailed, err))
	}
	return nil
}
