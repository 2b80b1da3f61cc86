package users

import (
	"time"

	"github.com/andresreyes/spotlists-backend/pkg/db/models"
)

// UserDTO is the public projection of a user record.
type UserDTO struct {
	ID          int64      `json:"id"`
	UID         string     `json:"uid"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
	Location    *string    `json:"location"`
	Timezone    *string    `json:"timezone"`
	Bio         *string    `json:"bio"`
	AvatarURL   *string    `json:"avatar_url"`
	IsPrivate   bool       `json:"is_private"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateUserInput carries the registration payload.
type CreateUserInput struct {
	UID         string  `json:"uid" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Name        string  `json:"name" validate:"required"`
	DisplayName string  `json:"display_name"`
	Location    *string `json:"location"`
	Timezone    *string `json:"timezone"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	IsPrivate   *bool   `json:"is_private"`
}

// UpdateUserInput carries the mutable fields of a user record. Only the
// fields present in the payload are applied.
type UpdateUserInput struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Location    *string `json:"location"`
	Timezone    *string `json:"timezone"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	IsPrivate   *bool   `json:"is_private"`
}

// Empty reports whether the payload carries no mutable fields.
func (in UpdateUserInput) Empty() bool {
	return in.Name == nil &&
		in.DisplayName == nil &&
		in.Email == nil &&
		in.Location == nil &&
		in.Timezone == nil &&
		in.Bio == nil &&
		in.AvatarURL == nil &&
		in.IsPrivate == nil
}

func toDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		UID:         user.UID,
		Email:       user.Email,
		Name:        user.Name,
		DisplayName: user.DisplayName,
		Location:    user.Location,
		Timezone:    user.Timezone,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		IsPrivate:   user.IsPrivate,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func toDTOs(rows []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toDTO(&rows[i]))
	}
	return dtos
}
