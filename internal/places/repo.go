package places

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/andresreyes/spotlists-backend/pkg/db/models"
)

const visibleClause = "is_operational = ? AND is_archived = ? AND is_approved = ? AND is_flagged = ?"

// Repository encapsulates place persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a place repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a place by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Place, error) {
	var place models.Place
	if err := r.db.WithContext(ctx).First(&place, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &place, nil
}

// ListVisible returns listable places ordered by id, plus the total count.
func (r *Repository) ListVisible(ctx context.Context, offset, limit int) ([]models.Place, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Place{}).
		Where(visibleClause, true, false, true, false).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Place
	if err := r.db.WithContext(ctx).
		Where(visibleClause, true, false, true, false).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// UpsertByProviderID inserts a place keyed on the provider id, refreshing the
// volatile provider fields when the row already exists.
func (r *Repository) UpsertByProviderID(ctx context.Context, place *models.Place) error {
	var existing models.Place
	err := r.db.WithContext(ctx).First(&existing, "google_places_id = ?", place.GooglePlacesID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(place).Error
	}
	if err != nil {
		return err
	}

	changes := map[string]any{
		"name":           place.Name,
		"address":        place.Address,
		"city":           place.City,
		"state":          place.State,
		"zip":            place.Zip,
		"lat":            place.Lat,
		"lng":            place.Lng,
		"ratings_count":  place.RatingsCount,
		"is_operational": place.IsOperational,
		"updated_at":     time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Place{}).
		Where("id = ?", existing.ID).
		Updates(changes).Error; err != nil {
		return err
	}

	place.ID = existing.ID
	return nil
}
