package controllers

import (
	"net/http"

	"github.com/andresreyes/spotlists-backend/api/middleware"
	"github.com/andresreyes/spotlists-backend/api/responses"
	"github.com/andresreyes/spotlists-backend/api/validators"
	"github.com/andresreyes/spotlists-backend/internal/lists"
	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
	"github.com/andresreyes/spotlists-backend/pkg/logger"
	"github.com/andresreyes/spotlists-backend/pkg/pagination"
)

// ListsList returns the paginated public list directory.
func ListsList(svc lists.Service, baseURL string, defaultLimit int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "list service unavailable"))
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

// ListsGet returns a list with its places, subject to visibility.
func ListsGet(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
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

		dto, err := svc.Get(ctx, middleware.RequestorFromContext(ctx), id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ListsCreate makes a new list owned by the requestor.
func ListsCreate(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "list service unavailable"))
			return
		}

		var payload lists.CreateListInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Create(ctx, middleware.RequestorFromContext(ctx), payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ListsUpdate applies partial updates to an owned list.
func ListsUpdate(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload lists.UpdateListInput
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

// ListsDelete removes an owned list and its entries.
func ListsDelete(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Delete(ctx, middleware.RequestorFromContext(ctx), id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

// ListsAddPlace appends a place to an owned list.
func ListsAddPlace(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload lists.AddPlaceInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.AddPlace(ctx, middleware.RequestorFromContext(ctx), id, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ListsRemovePlace drops a place from an owned list.
func ListsRemovePlace(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "list service unavailable"))
			return
		}

		listID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		placeID, err := validators.ParseIDParam(r, "placeId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.RemovePlace(ctx, middleware.RequestorFromContext(ctx), listID, placeID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
