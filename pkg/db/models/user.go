package models

import "time"

// User represents the canonical identity entity. Accounts are never hard
// deleted; archiving preserves referential integrity of owned lists.
type User struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UID         string     `gorm:"column:uid;type:text;not null;uniqueIndex" json:"uid"`
	Email       string     `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Name        string     `gorm:"type:text;not null" json:"name"`
	DisplayName string     `gorm:"column:display_name;type:text;not null" json:"display_name"`
	Location    *string    `gorm:"type:text" json:"location,omitempty"`
	Timezone    *string    `gorm:"type:text" json:"timezone,omitempty"`
	Bio         *string    `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL   *string    `gorm:"column:avatar_url;type:text" json:"avatar_url,omitempty"`
	IsPrivate   bool       `gorm:"column:is_private;not null;default:false" json:"is_private"`
	IsBanned    bool       `gorm:"column:is_banned;not null;default:false" json:"is_banned"`
	IsArchived  bool       `gorm:"column:is_archived;not null;default:false" json:"is_archived"`
	IsAdmin     bool       `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
