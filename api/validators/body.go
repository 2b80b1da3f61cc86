package validators

import (
	"encoding/json"
	"io"
	"net/http"

	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
)

// DecodeJSONBody parses the request body into dest. Unknown fields are
// dropped rather than rejected; field-level validation belongs to the
// services, which own the public error messages.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Bad Request")
	}
	return nil
}
