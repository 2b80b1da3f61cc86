package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
)

// ParseIDParam extracts a positive numeric URL parameter.
func ParseIDParam(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Bad Request").
			WithDetails(map[string]any{"param": key})
	}
	return value, nil
}

// PageQuery returns the raw page and limit query values. Normalization is
// centralized in the pagination package; this only plucks the strings.
func PageQuery(r *http.Request) (pageRaw, limitRaw string) {
	q := r.URL.Query()
	return q.Get("page"), q.Get("limit")
}
