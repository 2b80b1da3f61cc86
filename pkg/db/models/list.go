package models

import "time"

// List is a user-curated collection of places. Exactly one owner; is_flagged
// is a moderation-only field and is never settable by the owner.
type List struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	IsPrivate bool      `gorm:"column:is_private;not null;default:false" json:"is_private"`
	IsOrdered bool      `gorm:"column:is_ordered;not null;default:false" json:"is_ordered"`
	IsFlagged bool      `gorm:"column:is_flagged;not null;default:false" json:"is_flagged"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
