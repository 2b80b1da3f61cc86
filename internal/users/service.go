package users

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/andresreyes/spotlists-backend/pkg/db"
	"github.com/andresreyes/spotlists-backend/pkg/db/models"
	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
	"github.com/andresreyes/spotlists-backend/pkg/visibility"
)

const (
	msgUserNotFound     = "User not found"
	msgUnauthorized     = "Unauthorized"
	msgBadRequest       = "Bad Request"
	msgMissingFields    = "Missing required fields"
	msgInvalidEmail     = "Invalid email address"
	msgUIDAlreadyInUse  = "Uid already in use"
	msgEmailAlreadyUsed = "Email already in use"
)

// Store is the persistence surface the user service depends on.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id int64, changes map[string]any) (*models.User, error)
	Archive(ctx context.Context, id int64) error
	ListPublic(ctx context.Context, offset, limit int) ([]models.User, int64, error)
}

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	Repo Store
}

// Service exposes business rules for user management.
type Service interface {
	Register(ctx context.Context, in CreateUserInput) (UserDTO, error)
	Get(ctx context.Context, requestor visibility.Requestor, id int64) (UserDTO, error)
	List(ctx context.Context, offset, limit int) ([]UserDTO, int64, error)
	Update(ctx context.Context, requestor visibility.Requestor, id int64, in UpdateUserInput) (UserDTO, error)
	Delete(ctx context.Context, requestor visibility.Requestor, id int64) error
}

type service struct {
	repo     Store
	validate *validator.Validate
}

// NewService builds a user service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{
		repo:     params.Repo,
		validate: validator.New(),
	}, nil
}

// Register creates a local user record for a provider subject.
func (s *service) Register(ctx context.Context, in CreateUserInput) (UserDTO, error) {
	if err := s.validate.Struct(in); err != nil {
		return UserDTO{}, registrationValidationError(err)
	}

	if _, err := s.repo.FindByUID(ctx, in.UID); err == nil {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeConflict, msgUIDAlreadyInUse)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check uid uniqueness")
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeConflict, msgEmailAlreadyUsed)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email uniqueness")
	}

	user := models.User{
		UID:         in.UID,
		Email:       in.Email,
		Name:        in.Name,
		DisplayName: in.DisplayName,
		Location:    in.Location,
		Timezone:    in.Timezone,
		Bio:         in.Bio,
		AvatarURL:   in.AvatarURL,
	}
	if in.DisplayName == "" {
		user.DisplayName = in.Name
	}
	if in.IsPrivate != nil {
		user.IsPrivate = *in.IsPrivate
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		// concurrent registration can slip past the pre-checks
		switch {
		case db.IsUniqueViolation(err, "idx_users_uid"):
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgUIDAlreadyInUse)
		case db.IsUniqueViolation(err, "idx_users_email"):
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgEmailAlreadyUsed)
		default:
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
	}

	return toDTO(&user), nil
}

// Get returns a user if the requestor may see it.
func (s *service) Get(ctx context.Context, requestor visibility.Requestor, id int64) (UserDTO, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}

	switch visibility.CanReadUser(requestor, user) {
	case visibility.Visible:
		return toDTO(user), nil
	case visibility.Forbidden:
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, msgUnauthorized)
	default:
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, msgUserNotFound)
	}
}

// List returns publicly visible users plus the total count.
func (s *service) List(ctx context.Context, offset, limit int) ([]UserDTO, int64, error) {
	rows, total, err := s.repo.ListPublic(ctx, offset, limit)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return toDTOs(rows), total, nil
}

// Update applies the mutable fields of a user's own record.
func (s *service) Update(ctx context.Context, requestor visibility.Requestor, id int64, in UpdateUserInput) (UserDTO, error) {
	if !requestor.Is(id) {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, msgUnauthorized)
	}
	if in.Empty() {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, msgBadRequest)
	}
	if err := s.validate.Struct(in); err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgInvalidEmail)
	}

	if in.Email != nil {
		existing, err := s.repo.FindByEmail(ctx, *in.Email)
		switch {
		case err == nil && existing.ID != id:
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeConflict, msgEmailAlreadyUsed)
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email uniqueness")
		}
	}

	updated, err := s.repo.Update(ctx, id, userChanges(in))
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgEmailAlreadyUsed)
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	return toDTO(updated), nil
}

// Delete archives a user's own record.
func (s *service) Delete(ctx context.Context, requestor visibility.Requestor, id int64) error {
	if !requestor.Is(id) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, msgUnauthorized)
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "archive user")
	}
	return nil
}

func (s *service) loadUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgUserNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// userChanges maps the payload onto an explicit allowlist of mutable columns.
func userChanges(in UpdateUserInput) map[string]any {
	changes := map[string]any{}
	if in.Name != nil {
		changes["name"] = *in.Name
	}
	if in.DisplayName != nil {
		changes["display_name"] = *in.DisplayName
	}
	if in.Email != nil {
		changes["email"] = *in.Email
	}
	if in.Location != nil {
		changes["location"] = *in.Location
	}
	if in.Timezone != nil {
		changes["timezone"] = *in.Timezone
	}
	if in.Bio != nil {
		changes["bio"] = *in.Bio
	}
	if in.AvatarURL != nil {
		changes["avatar_url"] = *in.AvatarURL
	}
	if in.IsPrivate != nil {
		changes["is_private"] = *in.IsPrivate
	}
	return changes
}

func registrationValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == "email" {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgInvalidEmail)
			}
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgMissingFields)
}
