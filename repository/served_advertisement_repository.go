package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/Susanoo/models"
	"gorm.io/gorm"
)

// ServedAdvertisementRepositoryImpl implements ServedAdvertisementRepository
type ServedAdvertisementRepositoryImpl struct {
	*BaseRepository[models.ServedAdvertisement]
}

func NewServedAdvertisementRepository(db *gorm.DB) ServedAdvertisementRepository {
	return &ServedAdvertisementRepositoryImpl{BaseRepository: NewBaseRepository[models.ServedAdvertisement](db)}
}

func (r *ServedAdvertisementRepositoryImpl) ByAdvertisementID(ctx context.Context, advertisementID uint) (*models.ServedAdvertisement, error) {
	db := r.getDB(ctx)
	var served models.ServedAdvertisement
	if err := db.Where("advertisement_id = ?", advertisementID).Last(&served).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find served advertisement by advertisement ID %d: %w", advertisementID, err)
	}
	return &served, nil
}
