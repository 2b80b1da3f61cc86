package lists

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/andresreyes/spotlists-backend/internal/places"
	"github.com/andresreyes/spotlists-backend/pkg/db"
	"github.com/andresreyes/spotlists-backend/pkg/db/models"
	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
	"github.com/andresreyes/spotlists-backend/pkg/visibility"
)

const (
	msgListNotFound   = "List Not Found"
	msgUserNotFound   = "User not found"
	msgPlaceNotFound  = "Place not found"
	msgUnauthorized   = "Unauthorized"
	msgBadRequest     = "Bad Request"
	msgMissingFields  = "Missing required fields"
	msgPlaceInList    = "Place already in list"
	itemUniqueIndex   = "idx_list_places_list_place"
)

// Store is the persistence surface the list service depends on.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.List, error)
	Create(ctx context.Context, list *models.List) error
	Update(ctx context.Context, id int64, changes map[string]any) (*models.List, error)
	DeleteCascade(ctx context.Context, id int64) error
	ListPublic(ctx context.Context, offset, limit int) ([]models.List, int64, error)
	ListByOwner(ctx context.Context, userID int64, includePrivate bool, offset, limit int) ([]models.List, int64, error)
	Items(ctx context.Context, listID int64) ([]ListItemDTO, error)
	AddItem(ctx context.Context, item *models.ListPlace) error
	RemoveItem(ctx context.Context, listID, placeID int64) error
}

// OwnerSource loads list owners for visibility checks.
type OwnerSource interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// PlaceSource loads places for add-to-list validation.
type PlaceSource interface {
	FindByID(ctx context.Context, id int64) (*models.Place, error)
}

// ServiceParams groups dependencies for the list service.
type ServiceParams struct {
	Repo   Store
	Users  OwnerSource
	Places PlaceSource
}

// Service exposes business rules for list management.
type Service interface {
	List(ctx context.Context, offset, limit int) ([]ListDTO, int64, error)
	Get(ctx context.Context, requestor visibility.Requestor, id int64) (ListWithPlacesDTO, error)
	Create(ctx context.Context, requestor visibility.Requestor, in CreateListInput) (ListDTO, error)
	Update(ctx context.Context, requestor visibility.Requestor, id int64, in UpdateListInput) (ListDTO, error)
	Delete(ctx context.Context, requestor visibility.Requestor, id int64) error
	UserLists(ctx context.Context, requestor visibility.Requestor, userID int64, offset, limit int) ([]ListDTO, int64, error)
	AddPlace(ctx context.Context, requestor visibility.Requestor, listID int64, in AddPlaceInput) (ListItemDTO, error)
	RemovePlace(ctx context.Context, requestor visibility.Requestor, listID, placeID int64) error
}

type service struct {
	repo   Store
	users  OwnerSource
	places PlaceSource
}

// NewService builds a list service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list repo is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner source is required")
	}
	if params.Places == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "place source is required")
	}
	return &service{
		repo:   params.Repo,
		users:  params.Users,
		places: params.Places,
	}, nil
}

// List returns publicly visible lists plus the total count.
func (s *service) List(ctx context.Context, offset, limit int) ([]ListDTO, int64, error) {
	rows, total, err := s.repo.ListPublic(ctx, offset, limit)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list lists")
	}
	return toDTOs(rows), total, nil
}

// Get returns a list with its places if the requestor may see it. All
// visibility failures are reported as not-found.
func (s *service) Get(ctx context.Context, requestor visibility.Requestor, id int64) (ListWithPlacesDTO, error) {
	list, err := s.loadList(ctx, id)
	if err != nil {
		return ListWithPlacesDTO{}, err
	}

	owner, err := s.loadOwner(ctx, list.UserID)
	if err != nil {
		return ListWithPlacesDTO{}, err
	}

	if !visibility.CanReadList(requestor, list, owner).Allowed() {
		return ListWithPlacesDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, msgListNotFound)
	}

	items, err := s.repo.Items(ctx, id)
	if err != nil {
		return ListWithPlacesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load list places")
	}

	return ListWithPlacesDTO{ListDTO: toDTO(list), Places: items}, nil
}

// Create makes a new list owned by the requestor.
func (s *service) Create(ctx context.Context, requestor visibility.Requestor, in CreateListInput) (ListDTO, error) {
	if requestor.IsAnonymous() {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, msgUnauthorized)
	}
	if strings.TrimSpace(in.Name) == "" {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, msgMissingFields)
	}

	list := models.List{
		UserID:    requestor.ID(),
		Name:      in.Name,
		IsPrivate: in.IsPrivate,
		IsOrdered: in.IsOrdered,
	}
	if err := s.repo.Create(ctx, &list); err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create list")
	}

	return toDTO(&list), nil
}

// Update applies the mutable fields of an owned list.
func (s *service) Update(ctx context.Context, requestor visibility.Requestor, id int64, in UpdateListInput) (ListDTO, error) {
	list, err := s.requireOwned(ctx, requestor, id)
	if err != nil {
		return ListDTO{}, err
	}
	if in.Empty() {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, msgBadRequest)
	}

	updated, err := s.repo.Update(ctx, list.ID, listChanges(in))
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update list")
	}

	return toDTO(updated), nil
}

// Delete removes an owned list and its entries.
func (s *service) Delete(ctx context.Context, requestor visibility.Requestor, id int64) error {
	list, err := s.requireOwned(ctx, requestor, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCascade(ctx, list.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete list")
	}
	return nil
}

// UserLists returns a user's lists subject to visibility. The owner sees all
// of their own lists; everyone else sees only the public subset of a visible
// user, and an invisible user is indistinguishable from a missing one.
func (s *service) UserLists(ctx context.Context, requestor visibility.Requestor, userID int64, offset, limit int) ([]ListDTO, int64, error) {
	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, msgUserNotFound)
		}
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if !visibility.CanListUserLists(requestor, target).Allowed() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, msgUserNotFound)
	}

	rows, total, err := s.repo.ListByOwner(ctx, userID, requestor.Is(userID), offset, limit)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user lists")
	}
	return toDTOs(rows), total, nil
}

// AddPlace appends a place to an owned list.
func (s *service) AddPlace(ctx context.Context, requestor visibility.Requestor, listID int64, in AddPlaceInput) (ListItemDTO, error) {
	list, err := s.requireOwned(ctx, requestor, listID)
	if err != nil {
		return ListItemDTO{}, err
	}
	if in.PlaceID <= 0 {
		return ListItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, msgMissingFields)
	}

	place, err := s.places.FindByID(ctx, in.PlaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ListItemDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, msgPlaceNotFound)
		}
		return ListItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load place")
	}
	if !visibility.CanReadPlace(place).Allowed() {
		return ListItemDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, msgPlaceNotFound)
	}

	item := models.ListPlace{
		ListID:   list.ID,
		PlaceID:  place.ID,
		Position: in.Position,
	}
	if err := s.repo.AddItem(ctx, &item); err != nil {
		if db.IsUniqueViolation(err, itemUniqueIndex) {
			return ListItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgPlaceInList)
		}
		return ListItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add list place")
	}

	return ListItemDTO{
		ID:          item.ID,
		ListID:      item.ListID,
		PlaceID:     item.PlaceID,
		Position:    item.Position,
		IsCompleted: item.IsCompleted,
		CreatedAt:   item.CreatedAt,
		Place:       placeDTO(place),
	}, nil
}

// RemovePlace drops a place from an owned list. Removing an absent entry is
// not an error.
func (s *service) RemovePlace(ctx context.Context, requestor visibility.Requestor, listID, placeID int64) error {
	list, err := s.requireOwned(ctx, requestor, listID)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveItem(ctx, list.ID, placeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove list place")
	}
	return nil
}

func (s *service) loadList(ctx context.Context, id int64) (*models.List, error) {
	list, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgListNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load list")
	}
	return list, nil
}

func (s *service) loadOwner(ctx context.Context, userID int64) (*models.User, error) {
	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// orphaned list; mask it
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgListNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load list owner")
	}
	return owner, nil
}

// requireOwned loads a list and masks both missing and non-owned lists as
// not-found.
func (s *service) requireOwned(ctx context.Context, requestor visibility.Requestor, id int64) (*models.List, error) {
	list, err := s.loadList(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibility.CanWriteList(requestor, list).Allowed() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgListNotFound)
	}
	return list, nil
}

// listChanges maps the payload onto an explicit allowlist of mutable columns.
func listChanges(in UpdateListInput) map[string]any {
	changes := map[string]any{}
	if in.Name != nil {
		changes["name"] = *in.Name
	}
	if in.IsPrivate != nil {
		changes["is_private"] = *in.IsPrivate
	}
	if in.IsOrdered != nil {
		changes["is_ordered"] = *in.IsOrdered
	}
	return changes
}

func placeDTO(place *models.Place) places.PlaceDTO {
	return places.PlaceDTO{
		ID:              place.ID,
		GooglePlacesID:  place.GooglePlacesID,
		Name:            place.Name,
		Address:         place.Address,
		City:            place.City,
		State:           place.State,
		Zip:             place.Zip,
		Lat:             place.Lat,
		Lng:             place.Lng,
		Recommendations: place.Recommendations,
		RatingsCount:    place.RatingsCount,
		IsOperational:   place.IsOperational,
		CreatedAt:       place.CreatedAt,
		UpdatedAt:       place.UpdatedAt,
	}
}
