package models

import "time"

// ListPlace links a place into a list. The (list_id, place_id) pair is
// unique: a place appears at most once per list.
type ListPlace struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ListID      int64     `gorm:"column:list_id;not null;uniqueIndex:idx_list_places_list_place" json:"list_id"`
	PlaceID     int64     `gorm:"column:place_id;not null;uniqueIndex:idx_list_places_list_place" json:"place_id"`
	Position    *int      `gorm:"column:position" json:"position,omitempty"`
	IsCompleted bool      `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName keeps the historical join-table name.
func (ListPlace) TableName() string {
	return "list_places"
}
