package places

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/andresreyes/spotlists-backend/pkg/db/models"
	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
	"github.com/andresreyes/spotlists-backend/pkg/placeprovider"
	"github.com/andresreyes/spotlists-backend/pkg/visibility"
)

const msgPlaceNotFound = "Place not found"

// Store is the persistence surface the place service depends on.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Place, error)
	ListVisible(ctx context.Context, offset, limit int) ([]models.Place, int64, error)
	UpsertByProviderID(ctx context.Context, place *models.Place) error
}

// ServiceParams groups dependencies for the place service.
type ServiceParams struct {
	Repo Store
}

// Service exposes read access to the place catalog.
type Service interface {
	Get(ctx context.Context, id int64) (PlaceDTO, error)
	List(ctx context.Context, offset, limit int) ([]PlaceDTO, int64, error)
	ImportRecord(ctx context.Context, record placeprovider.PlaceRecord) (PlaceDTO, error)
}

type service struct {
	repo Store
}

// NewService builds a place service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "place repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// Get returns a place by id. Archived, unapproved, and flagged places are
// indistinguishable from missing ones.
func (s *service) Get(ctx context.Context, id int64) (PlaceDTO, error) {
	place, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PlaceDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, msgPlaceNotFound)
		}
		return PlaceDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load place")
	}

	if !visibility.CanReadPlace(place).Allowed() {
		return PlaceDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, msgPlaceNotFound)
	}

	return toDTO(place), nil
}

// List returns listable places plus the total count.
func (s *service) List(ctx context.Context, offset, limit int) ([]PlaceDTO, int64, error) {
	rows, total, err := s.repo.ListVisible(ctx, offset, limit)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list places")
	}
	return toDTOs(rows), total, nil
}

// ImportRecord upserts a provider record into the catalog. Moderation flags
// are never touched here; upserts only refresh the provider-owned fields.
func (s *service) ImportRecord(ctx context.Context, record placeprovider.PlaceRecord) (PlaceDTO, error) {
	if record.ProviderID == "" || record.Name == "" {
		return PlaceDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "provider id and name are required")
	}

	place := models.Place{
		GooglePlacesID: record.ProviderID,
		Name:           record.Name,
		Address:        record.Address,
		City:           record.City,
		State:          record.State,
		Zip:            record.Zip,
		Lat:            record.Lat,
		Lng:            record.Lng,
		RatingsCount:   int(record.RatingsCount),
		IsOperational:  record.IsOperational,
	}

	if err := s.repo.UpsertByProviderID(ctx, &place); err != nil {
		return PlaceDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert place")
	}

	return toDTO(&place), nil
}
