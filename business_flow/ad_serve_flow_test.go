package businessflow_test

import (
	"context"
	"errors"
	"log"
	"testing"

	"github.com/amirphl/Susanoo/app/services"
	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/amirphl/Susanoo/models"
	sustesting "github.com/amirphl/Susanoo/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serveFixture struct {
	users  *sustesting.FakeUserRepository
	ads    *sustesting.FakeAdvertisementRepository
	served *sustesting.FakeServedAdvertisementRepository
	push   *services.MockPushSender
	email  *services.MockEmailSender
	sms    *services.MockSMSSender
	flow   businessflow.AdServeFlow
}

func newServeFixture(users []*models.User, ads ...*models.Advertisement) *serveFixture {
	f := &serveFixture{
		users:  sustesting.NewFakeUserRepository(users...),
		ads:    sustesting.NewFakeAdvertisementRepository(ads...),
		served: sustesting.NewFakeServedAdvertisementRepository(),
		push:   services.NewMockPushSender(),
		email:  services.NewMockEmailSender(),
		sms:    services.NewMockSMSSender(),
	}
	dispatchers := businessflow.NewDispatcherRegistry(f.push, f.email, f.sms, log.Default())
	f.flow = businessflow.NewAdServeFlow(f.ads, f.users, f.served, dispatchers, nil, log.Default())
	return f
}

func (f *serveFixture) adCount(t *testing.T, ad *models.Advertisement) *int64 {
	t.Helper()
	stored, err := f.ads.ByID(context.Background(), ad.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	return stored.EngagedUserCount
}

func TestServeAdvertisement_EmailHappyPath(t *testing.T) {
	users := []*models.User{
		sustesting.NewTestUser(1, "sports"),
		sustesting.NewTestUser(2, "sports", "travel"),
		sustesting.NewTestUser(3, "music"),
	}
	ad := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		10,
	))
	f := newServeFixture(users, ad)

	result, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "corr-1")
	require.NoError(t, err)

	assert.Equal(t, models.OutreachChannelEmail, result.Channel)
	assert.Equal(t, 2, result.MatchedUserCount)
	assert.Equal(t, int64(2), result.EngagedUserCount)
	assert.False(t, result.Replayed)
	assert.Len(t, f.email.Sent(), 2)

	count := f.adCount(t, ad)
	require.NotNil(t, count)
	assert.Equal(t, int64(2), *count)

	records := f.served.Records()
	require.Len(t, records, 1)
	assert.Equal(t, ad.ID, records[0].AdvertisementID)
	assert.Equal(t, "corr-1", records[0].CorrelationID)
	assert.Equal(t, []int64{1, 2}, []int64(records[0].AudienceIDs))
}

func TestServeAdvertisement_TruncatesToTargetUserCount(t *testing.T) {
	users := []*models.User{
		sustesting.NewTestUser(1, "sports"),
		sustesting.NewTestUser(2, "sports"),
		sustesting.NewTestUser(3, "sports"),
	}
	ad := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		2,
	))
	f := newServeFixture(users, ad)

	result, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.MatchedUserCount)
	assert.Equal(t, int64(2), result.EngagedUserCount)
}

func TestServeAdvertisement_AgeBoundsInclusive(t *testing.T) {
	users := []*models.User{
		sustesting.NewTestUserWith(1, []string{"sports"}, sustesting.WithAge(24)),
		sustesting.NewTestUserWith(2, []string{"sports"}, sustesting.WithAge(25)),
		sustesting.NewTestUserWith(3, []string{"sports"}, sustesting.WithAge(40)),
		sustesting.NewTestUserWith(4, []string{"sports"}, sustesting.WithAge(41)),
	}
	ad := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{
			"min_age":  float64(25),
			"max_age":  float64(40),
			"outreach": "email",
		},
		10,
	))
	f := newServeFixture(users, ad)

	result, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.MatchedUserCount)
}

func TestServeAdvertisement_OptedOutUsersExcluded(t *testing.T) {
	users := []*models.User{
		sustesting.NewTestUser(1, "sports"),
		sustesting.NewTestUserWith(2, []string{"sports"},
			sustesting.WithChannelDisabled(models.OutreachChannelEmail)),
	}
	ad := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		10,
	))
	f := newServeFixture(users, ad)

	result, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.MatchedUserCount)
}

func TestServeAdvertisement_PushRecordsZero(t *testing.T) {
	users := []*models.User{
		sustesting.NewTestUser(1, "sports"),
		sustesting.NewTestUser(2, "sports"),
	}
	ad := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "push"},
		10,
	))
	f := newServeFixture(users, ad)

	result, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "")
	require.NoError(t, err)

	// Users are contacted but the recorded engagement stays zero
	assert.Len(t, f.push.Sent(), 2)
	assert.Equal(t, int64(0), result.EngagedUserCount)

	count := f.adCount(t, ad)
	require.NotNil(t, count)
	assert.Equal(t, int64(0), *count)
}

func TestServeAdvertisement_UnknownChannelShortCircuits(t *testing.T) {
	users := []*models.User{sustesting.NewTestUser(1, "sports")}
	ad := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "fax"},
		10,
	))
	f := newServeFixture(users, ad)

	result, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "")
	require.NoError(t, err)

	// The store is never queried and nothing is dispatched, but the zero
	// count is still written
	assert.Equal(t, 0, f.users.QueryCount())
	assert.Empty(t, f.push.Sent())
	assert.Empty(t, f.email.Sent())
	assert.Empty(t, f.sms.Sent())
	assert.Equal(t, int64(0), result.EngagedUserCount)

	count := f.adCount(t, ad)
	require.NotNil(t, count)
	assert.Equal(t, int64(0), *count)
}

func TestServeAdvertisement_ZeroTargetUserCount(t *testing.T) {
	users := []*models.User{sustesting.NewTestUser(1, "sports")}
	ad := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		0,
	))
	f := newServeFixture(users, ad)

	result, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "")
	require.NoError(t, err)

	assert.Equal(t, 0, result.MatchedUserCount)
	assert.Equal(t, int64(0), result.EngagedUserCount)
	assert.Empty(t, f.email.Sent())
}

func TestServeAdvertisement_InvalidSpecWritesNothing(t *testing.T) {
	ad := sustesting.NewTestAdvertisement(models.AdvertisementSpec{
		Name:       "broken",
		Categories: []string{"sports"},
		// no target_audience
	})
	f := newServeFixture(nil, ad)

	_, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "")
	require.Error(t, err)
	assert.True(t, businessflow.IsInvalidSpec(err))

	assert.Equal(t, 0, f.users.QueryCount())
	assert.Nil(t, f.adCount(t, ad))
	assert.Empty(t, f.served.Records())
}

func TestServeAdvertisement_NotFound(t *testing.T) {
	f := newServeFixture(nil)

	_, err := f.flow.ServeAdvertisement(context.Background(), "00000000-0000-0000-0000-000000000001", "")
	require.Error(t, err)
	assert.True(t, businessflow.IsAdvertisementNotFound(err))
}

func TestServeAdvertisement_RedeliveryReplaysWithoutDispatch(t *testing.T) {
	users := []*models.User{
		sustesting.NewTestUser(1, "sports"),
		sustesting.NewTestUser(2, "sports"),
	}
	ad := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		10,
	))
	f := newServeFixture(users, ad)

	first, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "corr-1")
	require.NoError(t, err)
	require.Equal(t, int64(2), first.EngagedUserCount)

	second, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "corr-2")
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, int64(2), second.EngagedUserCount)

	// No second dispatch, no second resolution record
	assert.Len(t, f.email.Sent(), 2)
	require.Len(t, f.served.Records(), 1)
	assert.Equal(t, "corr-1", f.served.Records()[0].CorrelationID)

	count := f.adCount(t, ad)
	require.NotNil(t, count)
	assert.Equal(t, int64(2), *count)
}

func TestServeAdvertisement_ResolutionFailure(t *testing.T) {
	ad := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		10,
	))
	f := newServeFixture(nil, ad)
	f.users.Err = errors.New("connection refused")

	_, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "")
	require.Error(t, err)
	assert.True(t, businessflow.IsResolutionFailed(err))
	assert.Nil(t, f.adCount(t, ad))
}

func TestServeAdvertisement_WriteFailure(t *testing.T) {
	ad := sustesting.NewTestAdvertisement(sustesting.NewTestSpec(
		[]string{"sports"},
		map[string]any{"outreach": "email"},
		10,
	))
	f := newServeFixture([]*models.User{sustesting.NewTestUser(1, "sports")}, ad)
	f.served.SaveErr = errors.New("disk full")

	_, err := f.flow.ServeAdvertisement(context.Background(), ad.UUID.String(), "")
	require.Error(t, err)
	assert.True(t, businessflow.IsWriteFailed(err))
}
