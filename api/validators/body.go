package validators

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/validate"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

// DecodeJSONBody reads exactly one JSON object into dest, rejecting unknown
// fields and trailing data, then runs its validate tags.
func DecodeJSONBody(r *http.Request, dest any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must contain a single JSON object")
	}
	return validate.Struct(dest, "validation failed")
}

func decodeError(err error) error {
	var (
		tooLarge  *http.MaxBytesError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return pkgerrors.New(pkgerrors.CodeValidation, "request body required")
	case errors.As(err, &tooLarge):
		return pkgerrors.Newf(pkgerrors.CodeValidation, "request body exceeds %d bytes", tooLarge.Limit)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body is not valid JSON")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return pkgerrors.Field(pkgerrors.CodeValidation, typeErr.Field, "has the wrong type")
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return pkgerrors.Field(pkgerrors.CodeValidation, strings.Trim(field, `"`), "is not allowed")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
}
