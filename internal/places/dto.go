package places

import (
	"time"

	"github.com/andresreyes/spotlists-backend/pkg/db/models"
)

// PlaceDTO is the public projection of a place record.
type PlaceDTO struct {
	ID              int64     `json:"id"`
	GooglePlacesID  string    `json:"google_places_id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	Zip             string    `json:"zip"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	Recommendations int       `json:"recommendations"`
	RatingsCount    int       `json:"ratings_count"`
	IsOperational   bool      `json:"is_operational"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toDTO(place *models.Place) PlaceDTO {
	return PlaceDTO{
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

func toDTOs(rows []models.Place) []PlaceDTO {
	dtos := make([]PlaceDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toDTO(&rows[i]))
	}
	return dtos
}
