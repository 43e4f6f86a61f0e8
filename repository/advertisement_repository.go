package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/utils"
	uuidlib "github.com/google/uuid"
	"gorm.io/gorm"
)

// AdvertisementRepositoryImpl implements AdvertisementRepository
type AdvertisementRepositoryImpl struct {
	*BaseRepository[models.Advertisement]
}

func NewAdvertisementRepository(db *gorm.DB) AdvertisementRepository {
	return &AdvertisementRepositoryImpl{BaseRepository: NewBaseRepository[models.Advertisement](db)}
}

func (r *AdvertisementRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Advertisement, error) {
	parsed, err := uuidlib.Parse(uuid)
	if err != nil {
		return nil, fmt.Errorf("invalid advertisement UUID: %w", err)
	}

	db := r.getDB(ctx)
	var ad models.Advertisement
	if err := db.Where("uuid = ?", parsed).Last(&ad).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find advertisement by UUID %s: %w", uuid, err)
	}
	return &ad, nil
}

func (r *AdvertisementRepositoryImpl) applyFilter(db *gorm.DB, f models.AdvertisementFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.AdvertiserID != nil {
		db = db.Where("advertiser_id = ?", *f.AdvertiserID)
	}
	if f.Unserved != nil {
		if *f.Unserved {
			db = db.Where("engaged_user_count IS NULL")
		} else {
			db = db.Where("engaged_user_count IS NOT NULL")
		}
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *AdvertisementRepositoryImpl) ByFilter(ctx context.Context, filter models.AdvertisementFilter, orderBy string, limit, offset int) ([]*models.Advertisement, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Advertisement{}), filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Advertisement
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find advertisements by filter: %w", err)
	}
	return rows, nil
}

// UpdateEngagedUserCount writes the engagement result back onto the record as
// a single-field partial update.
func (r *AdvertisementRepositoryImpl) UpdateEngagedUserCount(ctx context.Context, advertisementID uint, count int64) error {
	db := r.getDB(ctx)

	result := db.Model(&models.Advertisement{}).
		Where("id = ?", advertisementID).
		Updates(map[string]any{
			"engaged_user_count": count,
			"updated_at":         utils.UTCNow(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update engaged_user_count for advertisement %d: %w", advertisementID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("advertisement %d not found for engaged_user_count update", advertisementID)
	}
	return nil
}
