package lists

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/andresreyes/spotlists-backend/internal/places"
	"github.com/andresreyes/spotlists-backend/pkg/db/models"
)

const (
	listPublicClause  = "lists.is_private = ? AND lists.is_flagged = ?"
	ownerPublicClause = "users.is_private = ? AND users.is_banned = ? AND users.is_archived = ?"
	placePublicClause = "places.is_operational = ? AND places.is_archived = ? AND places.is_approved = ? AND places.is_flagged = ?"
)

// Repository encapsulates list and list-entry persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a list repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a list by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.List, error) {
	var list models.List
	if err := r.db.WithContext(ctx).First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// Create inserts a new list row.
func (r *Repository) Create(ctx context.Context, list *models.List) error {
	return r.db.WithContext(ctx).Create(list).Error
}

// Update persists the provided column changes and reloads the row.
func (r *Repository) Update(ctx context.Context, id int64, changes map[string]any) (*models.List, error) {
	if len(changes) > 0 {
		changes["updated_at"] = time.Now().UTC()
		if err := r.db.WithContext(ctx).
			Model(&models.List{}).
			Where("id = ?", id).
			Updates(changes).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// DeleteCascade removes the list and all of its entries in one transaction.
func (r *Repository) DeleteCascade(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&models.ListPlace{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.List{}).Error
	})
}

// ListPublic returns lists visible to a generic reader, plus the total count.
// A list qualifies when it is neither private nor flagged and its owner is
// publicly visible.
func (r *Repository) ListPublic(ctx context.Context, offset, limit int) ([]models.List, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.List{}).
		Joins("JOIN users ON users.id = lists.user_id").
		Where(listPublicClause, false, false).
		Where(ownerPublicClause, false, false, false).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.List
	if err := r.db.WithContext(ctx).
		Model(&models.List{}).
		Joins("JOIN users ON users.id = lists.user_id").
		Where(listPublicClause, false, false).
		Where(ownerPublicClause, false, false, false).
		Order("lists.id ASC").Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// ListByOwner returns a user's lists. When includePrivate is false only
// public, unflagged lists are returned; flagged lists are always excluded.
func (r *Repository) ListByOwner(ctx context.Context, userID int64, includePrivate bool, offset, limit int) ([]models.List, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Model(&models.List{}).
			Where("user_id = ? AND is_flagged = ?", userID, false)
		if !includePrivate {
			q = q.Where("is_private = ?", false)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.List
	if err := scope().Order("id ASC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

type itemRecord struct {
	ID          int64
	ListID      int64
	PlaceID     int64
	Position    *int
	IsCompleted bool
	CreatedAt   time.Time

	PlaceProviderID string
	PlaceName       string
	PlaceAddress    string
	PlaceCity       string
	PlaceState      string
	PlaceZip        string
	PlaceLat        float64
	PlaceLng        float64
	PlaceRecs       int
	PlaceRatings    int
	PlaceOpen       bool
	PlaceCreatedAt  time.Time
	PlaceUpdatedAt  time.Time
}

func (rec itemRecord) toDTO() ListItemDTO {
	return ListItemDTO{
		ID:          rec.ID,
		ListID:      rec.ListID,
		PlaceID:     rec.PlaceID,
		Position:    rec.Position,
		IsCompleted: rec.IsCompleted,
		CreatedAt:   rec.CreatedAt,
		Place: places.PlaceDTO{
			ID:              rec.PlaceID,
			GooglePlacesID:  rec.PlaceProviderID,
			Name:            rec.PlaceName,
			Address:         rec.PlaceAddress,
			City:            rec.PlaceCity,
			State:           rec.PlaceState,
			Zip:             rec.PlaceZip,
			Lat:             rec.PlaceLat,
			Lng:             rec.PlaceLng,
			Recommendations: rec.PlaceRecs,
			RatingsCount:    rec.PlaceRatings,
			IsOperational:   rec.PlaceOpen,
			CreatedAt:       rec.PlaceCreatedAt,
			UpdatedAt:       rec.PlaceUpdatedAt,
		},
	}
}

// Items returns the entries of a list joined with their place records,
// filtered down to places a generic reader may see.
func (r *Repository) Items(ctx context.Context, listID int64) ([]ListItemDTO, error) {
	selectColumns := []string{
		"list_places.id AS id",
		"list_places.list_id AS list_id",
		"list_places.place_id AS place_id",
		"list_places.position AS position",
		"list_places.is_completed AS is_completed",
		"list_places.created_at AS created_at",
		"places.google_places_id AS place_provider_id",
		"places.name AS place_name",
		"places.address AS place_address",
		"places.city AS place_city",
		"places.state AS place_state",
		"places.zip AS place_zip",
		"places.lat AS place_lat",
		"places.lng AS place_lng",
		"places.recommendations AS place_recs",
		"places.ratings_count AS place_ratings",
		"places.is_operational AS place_open",
		"places.created_at AS place_created_at",
		"places.updated_at AS place_updated_at",
	}

	var records []itemRecord
	if err := r.db.WithContext(ctx).
		Table("list_places").
		Select(selectColumns).
		Joins("JOIN places ON places.id = list_places.place_id").
		Where("list_places.list_id = ?", listID).
		Where(placePublicClause, true, false, true, false).
		Order("list_places.position ASC").
		Order("list_places.created_at ASC").
		Scan(&records).Error; err != nil {
		return nil, err
	}

	items := make([]ListItemDTO, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.toDTO())
	}
	return items, nil
}

// AddItem inserts a list entry. Uniqueness of (list_id, place_id) is
// enforced by the database.
func (r *Repository) AddItem(ctx context.Context, item *models.ListPlace) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// RemoveItem deletes the list entry if it exists.
func (r *Repository) RemoveItem(ctx context.Context, listID, placeID int64) error {
	return r.db.WithContext(ctx).
		Where("list_id = ? AND place_id = ?", listID, placeID).
		Delete(&models.ListPlace{}).
		Error
}
