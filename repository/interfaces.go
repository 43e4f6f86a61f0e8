// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Susanoo/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// UserRepository defines read-only operations over the user population. The
// resolution pipeline never mutates users.
type UserRepository interface {
	ByID(ctx context.Context, id uint) (*models.User, error)

	// ByClauses evaluates the ordered clause list as a logical AND and returns
	// at most limit users in the store's native order. A limit of zero yields
	// an empty result without touching the store.
	ByClauses(ctx context.Context, clauses []models.Clause, limit int) ([]*models.User, error)

	CountByClauses(ctx context.Context, clauses []models.Clause) (int64, error)
}

// AdvertisementRepository defines operations for advertisements
type AdvertisementRepository interface {
	ByID(ctx context.Context, id uint) (*models.Advertisement, error)
	ByUUID(ctx context.Context, uuid string) (*models.Advertisement, error)
	Save(ctx context.Context, ad *models.Advertisement) error
	ByFilter(ctx context.Context, filter models.AdvertisementFilter, orderBy string, limit, offset int) ([]*models.Advertisement, error)

	// UpdateEngagedUserCount performs the single-field partial update that
	// ends a resolution run. It overwrites unconditionally.
	UpdateEngagedUserCount(ctx context.Context, advertisementID uint, count int64) error
}

// ServedAdvertisementRepository defines operations for resolution-attempt records
type ServedAdvertisementRepository interface {
	ByAdvertisementID(ctx context.Context, advertisementID uint) (*models.ServedAdvertisement, error)
	Save(ctx context.Context, served *models.ServedAdvertisement) error
}
