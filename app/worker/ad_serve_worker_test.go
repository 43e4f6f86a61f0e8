package worker

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/amirphl/Susanoo/app/services"
	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/amirphl/Susanoo/models"
	sustesting "github.com/amirphl/Susanoo/testing"
	"github.com/amirphl/Susanoo/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workerFixture struct {
	ads    *sustesting.FakeAdvertisementRepository
	served *sustesting.FakeServedAdvertisementRepository
	email  *services.MockEmailSender
	queue  *services.MockEventQueue
	worker *AdServeWorker
}

func newWorkerFixture(users []*models.User, ads ...*models.Advertisement) *workerFixture {
	f := &workerFixture{
		ads:    sustesting.NewFakeAdvertisementRepository(ads...),
		served: sustesting.NewFakeServedAdvertisementRepository(),
		email:  services.NewMockEmailSender(),
		queue:  services.NewMockEventQueue(),
	}
	dispatchers := businessflow.NewDispatcherRegistry(
		services.NewMockPushSender(), f.email, services.NewMockSMSSender(), log.Default())
	flow := businessflow.NewAdServeFlow(
		f.ads, sustesting.NewFakeUserRepository(users...), f.served, dispatchers, nil, log.Default())

	f.worker = NewAdServeWorker(flow, f.queue, f.ads, log.Default(), Config{
		PollTimeout:  10 * time.Millisecond,
		ScanInterval: time.Hour,
		ScanLookback: 24 * time.Hour,
		ScanGrace:    30 * time.Second,
		ScanBatch:    10,
	})
	return f
}

func agedAd(spec models.AdvertisementSpec) *models.Advertisement {
	ad := sustesting.NewTestAdvertisement(spec)
	ad.CreatedAt = utils.UTCNow().Add(-2 * time.Minute)
	return ad
}

func TestWorker_ServesQueuedEvent(t *testing.T) {
	ad := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		10,
	))
	f := newWorkerFixture([]*models.User{sustesting.NewTestUser(1, "sports")}, ad)

	require.NoError(t, f.queue.PublishCreated(context.Background(), ad.UUID.String()))
	event, err := f.queue.ConsumeCreated(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, event)

	f.worker.serveOne(context.Background(), event.AdvertisementUUID, event.CorrelationID)

	stored, err := f.ads.ByID(context.Background(), ad.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EngagedUserCount)
	assert.Equal(t, int64(1), *stored.EngagedUserCount)
	assert.Len(t, f.email.Sent(), 1)
}

func TestWorker_BackstopScanServesUnserved(t *testing.T) {
	missed := agedAd(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		10,
	))
	f := newWorkerFixture([]*models.User{sustesting.NewTestUser(1, "sports")}, missed)

	f.worker.scanOnce(context.Background())

	stored, err := f.ads.ByID(context.Background(), missed.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EngagedUserCount)
	assert.Equal(t, int64(1), *stored.EngagedUserCount)
}

func TestWorker_BackstopScanSkipsFreshAndServed(t *testing.T) {
	fresh := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		10,
	))
	alreadyServed := agedAd(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		10,
	))
	f := newWorkerFixture([]*models.User{sustesting.NewTestUser(1, "sports")}, fresh, alreadyServed)
	require.NoError(t, f.ads.UpdateEngagedUserCount(context.Background(), alreadyServed.ID, 5))

	f.worker.scanOnce(context.Background())

	// The fresh advertisement stays untouched until its grace period passes
	stored, err := f.ads.ByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.EngagedUserCount)

	// The served one keeps its count and is not dispatched again
	assert.Empty(t, f.email.Sent())
}

func TestWorker_ScanRedeliveryIsIdempotent(t *testing.T) {
	ad := agedAd(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		10,
	))
	f := newWorkerFixture([]*models.User{sustesting.NewTestUser(1, "sports")}, ad)

	f.worker.scanOnce(context.Background())
	f.worker.serveOne(context.Background(), ad.UUID.String(), "redelivered")

	assert.Len(t, f.email.Sent(), 1)
	require.Len(t, f.served.Records(), 1)
}

func TestWorker_StartStop(t *testing.T) {
	f := newWorkerFixture(nil)

	stop := f.worker.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	stop()
}
