// Package testing provides in-memory repository implementations and fixtures
// for testing the audience resolution system without PostgreSQL.
package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
)

// FakeUserRepository evaluates filter clauses in memory over a fixed user set.
// Clause semantics mirror the SQL the real repository generates: every clause
// must match (logical AND), users come back in insertion order, and the limit
// truncates the result.
type FakeUserRepository struct {
	mu    sync.Mutex
	Users []*models.User

	Err     error
	Queries [][]models.Clause
}

func NewFakeUserRepository(users ...*models.User) *FakeUserRepository {
	return &FakeUserRepository{Users: users}
}

func (r *FakeUserRepository) ByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.ID == int64(id) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *FakeUserRepository) ByClauses(ctx context.Context, clauses []models.Clause, limit int) ([]*models.User, error) {
	if limit <= 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	r.Queries = append(r.Queries, clauses)

	var matched []*models.User
	for _, u := range r.Users {
		ok, err := matches(u, clauses)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, u)
			if len(matched) == limit {
				break
			}
		}
	}
	return matched, nil
}

func (r *FakeUserRepository) CountByClauses(ctx context.Context, clauses []models.Clause) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return 0, r.Err
	}

	var count int64
	for _, u := range r.Users {
		ok, err := matches(u, clauses)
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// QueryCount reports how many times ByClauses reached the store
func (r *FakeUserRepository) QueryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Queries)
}

func matches(u *models.User, clauses []models.Clause) (bool, error) {
	for _, c := range clauses {
		switch c.Op {
		case models.ClauseOpOverlaps:
			if !overlaps(u.Interests, c.Values) {
				return false, nil
			}
		case models.ClauseOpIn:
			if !contains(c.Values, u.ProfileValue(models.DimensionName(c.Column))) {
				return false, nil
			}
		case models.ClauseOpGTE:
			if u.Age < c.Bound {
				return false, nil
			}
		case models.ClauseOpLTE:
			if u.Age > c.Bound {
				return false, nil
			}
		case models.ClauseOpNotDisabled:
			if disabledFlag(u, c.Column) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported clause op %q", c.Op)
		}
	}
	return true, nil
}

func overlaps(have []string, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func disabledFlag(u *models.User, column string) bool {
	switch column {
	case "outreach_push_disabled":
		return u.OutreachPushDisabled
	case "outreach_email_disabled":
		return u.OutreachEmailDisabled
	case "outreach_sms_disabled":
		return u.OutreachSMSDisabled
	default:
		return true
	}
}

// FakeAdvertisementRepository keeps advertisements in memory
type FakeAdvertisementRepository struct {
	mu     sync.Mutex
	ads    []*models.Advertisement
	nextID uint

	SaveErr   error
	UpdateErr error
}

func NewFakeAdvertisementRepository(ads ...*models.Advertisement) *FakeAdvertisementRepository {
	repo := &FakeAdvertisementRepository{nextID: 1}
	for _, ad := range ads {
		_ = repo.Save(context.Background(), ad)
	}
	return repo
}

func (r *FakeAdvertisementRepository) ByID(ctx context.Context, id uint) (*models.Advertisement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ad := range r.ads {
		if ad.ID == id {
			return ad, nil
		}
	}
	return nil, nil
}

func (r *FakeAdvertisementRepository) ByUUID(ctx context.Context, id string) (*models.Advertisement, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ad := range r.ads {
		if ad.UUID == parsed {
			return ad, nil
		}
	}
	return nil, nil
}

func (r *FakeAdvertisementRepository) Save(ctx context.Context, ad *models.Advertisement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.SaveErr != nil {
		return r.SaveErr
	}
	if ad.ID == 0 {
		ad.ID = r.nextID
		r.nextID++
	}
	if ad.UUID == uuid.Nil {
		ad.UUID = uuid.New()
	}
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = utils.UTCNow()
	}
	r.ads = append(r.ads, ad)
	return nil
}

func (r *FakeAdvertisementRepository) ByFilter(ctx context.Context, filter models.AdvertisementFilter, orderBy string, limit, offset int) ([]*models.Advertisement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Advertisement
	for _, ad := range r.ads {
		if filter.ID != nil && ad.ID != *filter.ID {
			continue
		}
		if filter.UUID != nil && ad.UUID != *filter.UUID {
			continue
		}
		if filter.Unserved != nil && *filter.Unserved && ad.Served() {
			continue
		}
		if filter.CreatedAfter != nil && ad.CreatedAt.Before(*filter.CreatedAfter) {
			continue
		}
		if filter.CreatedBefore != nil && ad.CreatedAt.After(*filter.CreatedBefore) {
			continue
		}
		result = append(result, ad)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *FakeAdvertisementRepository) UpdateEngagedUserCount(ctx context.Context, advertisementID uint, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	for _, ad := range r.ads {
		if ad.ID == advertisementID {
			ad.EngagedUserCount = utils.ToPtr(count)
			now := utils.UTCNow()
			ad.UpdatedAt = &now
			return nil
		}
	}
	return fmt.Errorf("advertisement %d not found", advertisementID)
}

// FakeServedAdvertisementRepository keeps resolution records in memory and
// enforces the one-record-per-advertisement constraint.
type FakeServedAdvertisementRepository struct {
	mu      sync.Mutex
	records []*models.ServedAdvertisement
	nextID  uint

	SaveErr error
}

func NewFakeServedAdvertisementRepository() *FakeServedAdvertisementRepository {
	return &FakeServedAdvertisementRepository{nextID: 1}
}

func (r *FakeServedAdvertisementRepository) ByAdvertisementID(ctx context.Context, advertisementID uint) (*models.ServedAdvertisement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.AdvertisementID == advertisementID {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *FakeServedAdvertisementRepository) Save(ctx context.Context, served *models.ServedAdvertisement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.SaveErr != nil {
		return r.SaveErr
	}
	for _, rec := range r.records {
		if rec.AdvertisementID == served.AdvertisementID {
			return fmt.Errorf("duplicate resolution record for advertisement %d", served.AdvertisementID)
		}
	}
	served.ID = r.nextID
	r.nextID++
	if served.CreatedAt.IsZero() {
		served.CreatedAt = utils.UTCNow()
	}
	r.records = append(r.records, served)
	return nil
}

// Records returns a copy of the stored resolution records
func (r *FakeServedAdvertisementRepository) Records() []*models.ServedAdvertisement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.ServedAdvertisement(nil), r.records...)
}
