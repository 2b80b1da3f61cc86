package controllers

import (
	"net/http"

	"github.com/andresreyes/spotlists-backend/api/responses"
	"github.com/andresreyes/spotlists-backend/api/validators"
	"github.com/andresreyes/spotlists-backend/internal/places"
	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
	"github.com/andresreyes/spotlists-backend/pkg/logger"
	"github.com/andresreyes/spotlists-backend/pkg/pagination"
)

// PlacesList returns the paginated place catalog.
func PlacesList(svc places.Service, baseURL string, defaultLimit int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "place service unavailable"))
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

// PlacesGet returns a single place. Hidden places are indistinguishable
// from missing ones.
func PlacesGet(svc places.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "place service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
