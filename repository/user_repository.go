package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Susanoo/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements UserRepository
type UserRepositoryImpl struct {
	*BaseRepository[models.User]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{BaseRepository: NewBaseRepository[models.User](db)}
}

// applyClauses translates the compiled clause list into WHERE conditions.
// Clause columns come from the compiler's closed column set, never from user
// input, so interpolating them into the condition string is safe.
func (r *UserRepositoryImpl) applyClauses(db *gorm.DB, clauses []models.Clause) (*gorm.DB, error) {
	for _, c := range clauses {
		if c.Column == "" {
			return nil, fmt.Errorf("clause with empty column")
		}
		switch c.Op {
		case models.ClauseOpOverlaps:
			db = db.Where(fmt.Sprintf("%s && ?", c.Column), pq.StringArray(c.Values))
		case models.ClauseOpIn:
			db = db.Where(fmt.Sprintf("%s IN ?", c.Column), c.Values)
		case models.ClauseOpGTE:
			db = db.Where(fmt.Sprintf("%s >= ?", c.Column), c.Bound)
		case models.ClauseOpLTE:
			db = db.Where(fmt.Sprintf("%s <= ?", c.Column), c.Bound)
		case models.ClauseOpNotDisabled:
			db = db.Where(fmt.Sprintf("%s = FALSE", c.Column))
		default:
			return nil, fmt.Errorf("unsupported clause op: %s", c.Op)
		}
	}
	return db, nil
}

func (r *UserRepositoryImpl) ByClauses(ctx context.Context, clauses []models.Clause, limit int) ([]*models.User, error) {
	if limit <= 0 {
		return nil, nil
	}

	db := r.getDB(ctx)
	query, err := r.applyClauses(db.Model(&models.User{}), clauses)
	if err != nil {
		return nil, err
	}

	var rows []*models.User
	if err := query.Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find users by clauses: %w", err)
	}
	return rows, nil
}

func (r *UserRepositoryImpl) CountByClauses(ctx context.Context, clauses []models.Clause) (int64, error) {
	db := r.getDB(ctx)
	query, err := r.applyClauses(db.Model(&models.User{}), clauses)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users by clauses: %w", err)
	}
	return count, nil
}

func (r *UserRepositoryImpl) ByID(ctx context.Context, id uint) (*models.User, error) {
	return r.BaseRepository.ByID(ctx, id)
}
