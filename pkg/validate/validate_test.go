package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
)

type sample struct {
	Name    string  `json:"name" validate:"required,max=5"`
	Qty     int     `json:"qty" validate:"min=1,max=10"`
	Pin     string  `json:"pin" validate:"omitempty,pincode"`
	Phone   string  `json:"phone" validate:"omitempty,phone"`
	Method  string  `json:"method" validate:"omitempty,oneof=cod upi"`
	Product string  `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Hidden  *string `json:"-" validate:"omitempty,max=1"`
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
	d, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	return d
}

func TestStructValid(t *testing.T) {
	ok := sample{Name: "asha", Qty: 2, Pin: "700016", Phone: "+919830012345", Method: "upi", Product: "6f1c2a52-0d4e-4b8e-9a57-1d2f3c4b5a61"}
	assert.NoError(t, Struct(ok, "bad sample"))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Name: "toolong", Qty: 0, Pin: "070016", Phone: "98300-123", Method: "card", Product: "p-1"}, "bad sample")

	assert.Equal(t, "bad sample", pkgerrors.As(err).Message())
	assert.Equal(t, map[string]string{
		"name":       "must be at most 5 characters",
		"qty":        "must be at least 1",
		"pin":        "must be a 6 digit PIN code",
		"phone":      "must be 10 to 15 digits",
		"method":     "must be one of cod, upi",
		"product_id": "must be a valid id",
	}, details(t, err))
}

func TestStructRequired(t *testing.T) {
	d := details(t, Struct(sample{Qty: 1}, "bad sample"))
	assert.Equal(t, "is required", d["name"])
}

func TestPincodeRejectsNonDigits(t *testing.T) {
	for _, pin := range []string{"70A016", "70001", "7000161", "000000"} {
		d := details(t, Struct(sample{Name: "a", Qty: 1, Pin: pin}, "bad"))
		assert.Contains(t, d, "pin", pin)
	}
}
