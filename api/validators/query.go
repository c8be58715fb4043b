package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
)

// IntRange bounds an optional integer query parameter. Default applies when
// the parameter is absent or blank.
type IntRange struct {
	Default int
	Min     int
	Max     int
}

func QueryInt(r *http.Request, key string, rng IntRange) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return rng.Default, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Field(pkgerrors.CodeValidation, key, "must be a whole number")
	}
	if value < rng.Min || value > rng.Max {
		return 0, pkgerrors.Field(pkgerrors.CodeValidation, key, fmt.Sprintf("must be between %d and %d", rng.Min, rng.Max))
	}
	return value, nil
}

// PathUUID reads the chi route parameter name as a uuid.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.Field(pkgerrors.CodeValidation, name, "is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.Field(pkgerrors.CodeValidation, name, "must be a valid id")
	}
	return id, nil
}
