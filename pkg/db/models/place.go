package models

import "time"

// Place is a point of interest imported from the external place provider.
// Moderation happens by flipping the boolean flags; only operational,
// approved, unflagged, non-archived places are ever shown to readers.
type Place struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	GooglePlacesID  string     `gorm:"column:google_places_id;type:text;not null;uniqueIndex" json:"google_places_id"`
	Name            string     `gorm:"type:text;not null" json:"name"`
	Address         string     `gorm:"type:text;not null" json:"address"`
	City            string     `gorm:"type:text;not null" json:"city"`
	State           string     `gorm:"type:text;not null" json:"state"`
	Zip             string     `gorm:"type:text;not null" json:"zip"`
	Lat             float64    `gorm:"not null" json:"lat"`
	Lng             float64    `gorm:"not null" json:"lng"`
	Recommendations int        `gorm:"not null;default:0" json:"recommendations"`
	RatingsCount    int        `gorm:"column:ratings_count;not null;default:0" json:"ratings_count"`
	IsOperational   bool       `gorm:"column:is_operational;not null" json:"is_operational"`
	IsArchived      bool       `gorm:"column:is_archived;not null;default:false" json:"is_archived"`
	IsApproved      bool       `gorm:"column:is_approved;not null;default:true" json:"is_approved"`
	IsFlagged       bool       `gorm:"column:is_flagged;not null;default:false" json:"is_flagged"`
	ArchivedAt      *time.Time `gorm:"column:archived_at" json:"archived_at,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
