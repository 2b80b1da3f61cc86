package users

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/andresreyes/spotlists-backend/pkg/db/models"
)

// Repository encapsulates user persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a user by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUID loads a user by external subject id.
func (r *Repository) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "uid = ?", uid).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail loads a user by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user row.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update persists the provided column changes and reloads the row.
func (r *Repository) Update(ctx context.Context, id int64, changes map[string]any) (*models.User, error) {
	if len(changes) > 0 {
		changes["updated_at"] = time.Now().UTC()
		if err := r.db.WithContext(ctx).
			Model(&models.User{}).
			Where("id = ?", id).
			Updates(changes).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Archive soft-deletes a user by flipping is_archived.
func (r *Repository) Archive(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_archived": true, "updated_at": time.Now().UTC()}).
		Error
}

// ListPublic returns publicly visible users ordered by id, plus the total count.
func (r *Repository) ListPublic(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	const visibleClause = "is_private = ? AND is_banned = ? AND is_archived = ?"

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where(visibleClause, false, false, false).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.User
	if err := r.db.WithContext(ctx).
		Where(visibleClause, false, false, false).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
