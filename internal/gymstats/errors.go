// Package gymstats holds what the workout and template handlers share.
package gymstats

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/fitnesstracker/internal/access"
	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/gymstats/exercises"
	"github.com/2beens/fitnesstracker/internal/users"
	"github.com/2beens/fitnesstracker/pkg"

	log "github.com/sirupsen/logrus"
)

// WriteServiceError maps a workout or template service error to a response.
// Errors matching one of validationErrs are shown to the client as they are.
func WriteServiceError(w http.ResponseWriter, err error, resource string, validationErrs ...error) {
	switch {
	case errors.Is(err, docstore.ErrInvalidID):
		pkg.WriteErrorResponse(w, http.StatusBadRequest, "Invalid "+resource+" ID format")
		return
	case errors.Is(err, access.ErrNotFound):
		pkg.WriteErrorResponse(w, http.StatusNotFound, capitalize(resource)+" not found")
		return
	case errors.Is(err, exercises.ErrInvalidExercise):
		pkg.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, vErr := range validationErrs {
		if errors.Is(err, vErr) {
			pkg.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	log.Errorf("%s request failed: %s", resource, err)
	pkg.WriteErrorResponse(w, http.StatusInternalServerError, "internal server error")
}

// RequestUser returns the authenticated user set by the auth middleware, or
// answers 401 and returns false.
func RequestUser(w http.ResponseWriter, r *http.Request) (*users.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		pkg.WriteUnauthorized(w, "Not authenticated")
		return nil, false
	}
	return user, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

var ErrBadPayload = errors.New("invalid request body")

// DecodeJSON reads a JSON request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, pkg.ContentType.JSON) {
		return fmt.Errorf("%w: invalid content type", ErrBadPayload)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s", ErrBadPayload, err)
	}
	return nil
}
