package address

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

func setupAddressTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.Exec(`
CREATE TABLE saved_addresses (
  id TEXT PRIMARY KEY,
  shopper_id TEXT NOT NULL,
  full_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  line1 TEXT NOT NULL,
  line2 TEXT,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return conn
}

func newAddressService(t *testing.T) Service {
	t.Helper()
	conn := setupAddressTestDB(t)
	svc, err := NewService(NewRepository(conn), db.Wrap(conn))
	require.NoError(t, err)
	return svc
}

func sampleAddress(postal string) types.ShippingAddress {
	return types.ShippingAddress{
		FullName:   " Meera Sen ",
		Phone:      "9876543210",
		Line1:      "4 Lake Road",
		City:       "Kolkata",
		State:      "West Bengal",
		PostalCode: postal,
	}
}

func TestCreateFirstAddressBecomesDefault(t *testing.T) {
	svc := newAddressService(t)
	ctx := context.Background()
	shopper := uuid.New()

	first, err := svc.Create(ctx, shopper, CreateInput{Address: sampleAddress("700029")})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "Meera Sen", first.FullName)

	second, err := svc.Create(ctx, shopper, CreateInput{Address: sampleAddress("560001")})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	code, err := svc.DefaultPostalCode(ctx, shopper)
	require.NoError(t, err)
	assert.Equal(t, "700029", code)
}

func TestCreateMakeDefaultMovesFlag(t *testing.T) {
	svc := newAddressService(t)
	ctx := context.Background()
	shopper := uuid.New()

	_, err := svc.Create(ctx, shopper, CreateInput{Address: sampleAddress("700029")})
	require.NoError(t, err)
	moved, err := svc.Create(ctx, shopper, CreateInput{Address: sampleAddress("560001"), MakeDefault: true})
	require.NoError(t, err)
	assert.True(t, moved.IsDefault)

	list, err := svc.List(ctx, shopper)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, moved.ID, list[0].ID)
	assert.False(t, list[1].IsDefault)

	code, err := svc.DefaultPostalCode(ctx, shopper)
	require.NoError(t, err)
	assert.Equal(t, "560001", code)
}

func TestCreateRejectsInvalidAddress(t *testing.T) {
	svc := newAddressService(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{Address: sampleAddress("7000")})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetIsShopperScoped(t *testing.T) {
	svc := newAddressService(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, CreateInput{Address: sampleAddress("700029")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "700029", got.Shipping().PostalCode)

	_, err = svc.Get(ctx, uuid.New(), created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDefaultPostalCodeWithoutAddresses(t *testing.T) {
	svc := newAddressService(t)
	code, err := svc.DefaultPostalCode(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, code)
}
