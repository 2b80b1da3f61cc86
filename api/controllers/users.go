package controllers

import (
	"net/http"

	"github.com/andresreyes/spotlists-backend/api/middleware"
	"github.com/andresreyes/spotlists-backend/api/responses"
	"github.com/andresreyes/spotlists-backend/api/validators"
	"github.com/andresreyes/spotlists-backend/internal/lists"
	"github.com/andresreyes/spotlists-backend/internal/users"
	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
	"github.com/andresreyes/spotlists-backend/pkg/logger"
	"github.com/andresreyes/spotlists-backend/pkg/pagination"
)

// UsersList returns the paginated directory of publicly visible users.
func UsersList(svc users.Service, baseURL string, defaultLimit int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		pageRaw, limitRaw := validators.PageQuery(r)
		page, limit := pagination.Normalize(pageRaw, limitRaw, defaultLimit)

		rows, total, err := svc.List(ctx, pagination.Offset(page, limit), limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagination.NewPage(baseURL+r.URL.Path, page, limit, total, rows))
	}
}

// UsersGet returns a single user subject to visibility.
func UsersGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Get(ctx, middleware.RequestorFromContext(ctx), id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// UsersCreate registers a new user.
func UsersCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var payload users.CreateUserInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Register(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UsersUpdate applies partial updates to the requestor's own record.
func UsersUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload users.UpdateUserInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Update(ctx, middleware.RequestorFromContext(ctx), id, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// UsersDelete archives the requestor's own record.
func UsersDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, middleware.RequestorFromContext(ctx), id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

// UserListsIndex returns the paginated lists owned by a user, subject to
// visibility of both the user and the lists.
func UserListsIndex(svc lists.Service, baseURL string, defaultLimit int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "list service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pageRaw, limitRaw := validators.PageQuery(r)
		page, limit := pagination.Normalize(pageRaw, limitRaw, defaultLimit)

		rows, total, err := svc.UserLists(ctx, middleware.RequestorFromContext(ctx), id, pagination.Offset(page, limit), limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagination.NewPage(baseURL+r.URL.Path, page, limit, total, rows))
	}
}
