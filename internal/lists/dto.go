package lists

import (
	"time"

	"github.com/andresreyes/spotlists-backend/internal/places"
	"github.com/andresreyes/spotlists-backend/pkg/db/models"
)

// ListDTO is the public projection of a list record.
type ListDTO struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	IsPrivate bool      `json:"is_private"`
	IsOrdered bool      `json:"is_ordered"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListItemDTO is a place entry within a list.
type ListItemDTO struct {
	ID          int64           `json:"id"`
	ListID      int64           `json:"list_id"`
	PlaceID     int64           `json:"place_id"`
	Position    *int            `json:"position"`
	IsCompleted bool            `json:"is_completed"`
	CreatedAt   time.Time       `json:"created_at"`
	Place       places.PlaceDTO `json:"place"`
}

// ListWithPlacesDTO is the detail view of a list including its places.
type ListWithPlacesDTO struct {
	ListDTO
	Places []ListItemDTO `json:"places"`
}

// CreateListInput carries the list creation payload.
type CreateListInput struct {
	Name      string `json:"name" validate:"required"`
	IsPrivate bool   `json:"is_private"`
	IsOrdered bool   `json:"is_ordered"`
}

// UpdateListInput carries the mutable fields of a list. The moderation flag
// is not settable by owners and is absent here on purpose.
type UpdateListInput struct {
	Name      *string `json:"name"`
	IsPrivate *bool   `json:"is_private"`
	IsOrdered *bool   `json:"is_ordered"`
}

// Empty reports whether the payload carries no mutable fields.
func (in UpdateListInput) Empty() bool {
	return in.Name == nil && in.IsPrivate == nil && in.IsOrdered == nil
}

// AddPlaceInput carries the add-place-to-list payload.
type AddPlaceInput struct {
	PlaceID  int64 `json:"place_id" validate:"required"`
	Position *int  `json:"position"`
}

func toDTO(list *models.List) ListDTO {
	return ListDTO{
		ID:        list.ID,
		UserID:    list.UserID,
		Name:      list.Name,
		IsPrivate: list.IsPrivate,
		IsOrdered: list.IsOrdered,
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
}

func toDTOs(rows []models.List) []ListDTO {
	dtos := make([]ListDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toDTO(&rows[i]))
	}
	return dtos
}
