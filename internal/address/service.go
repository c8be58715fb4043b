package address

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type CreateInput struct {
	Address     types.ShippingAddress
	MakeDefault bool
}

type Service interface {
	List(ctx context.Context, shopperID uuid.UUID) ([]models.SavedAddress, error)
	Get(ctx context.Context, shopperID, addressID uuid.UUID) (*models.SavedAddress, error)
	Create(ctx context.Context, shopperID uuid.UUID, input CreateInput) (*models.SavedAddress, error)
	DefaultPostalCode(ctx context.Context, shopperID uuid.UUID) (string, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, shopperID uuid.UUID) ([]models.SavedAddress, error) {
	rows, err := s.repo.ListByShopper(ctx, shopperID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, shopperID, addressID uuid.UUID) (*models.SavedAddress, error) {
	row, err := s.repo.FindByID(ctx, shopperID, addressID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return row, nil
}

// Create validates and stores the address. The shopper's first address always
// becomes the default.
func (s *service) Create(ctx context.Context, shopperID uuid.UUID, input CreateInput) (*models.SavedAddress, error) {
	addr := input.Address.Normalize()
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	row := &models.SavedAddress{
		ID:         uuid.New(),
		ShopperID:  shopperID,
		FullName:   addr.FullName,
		Phone:      addr.Phone,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.CountByShopper(ctx, shopperID)
		if err != nil {
			return err
		}
		row.IsDefault = count == 0 || input.MakeDefault
		if row.IsDefault && count > 0 {
			if err := repo.ClearDefault(ctx, shopperID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, row)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return row, nil
}

// DefaultPostalCode returns "" when the shopper has no default address.
func (s *service) DefaultPostalCode(ctx context.Context, shopperID uuid.UUID) (string, error) {
	row, err := s.repo.FindDefault(ctx, shopperID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default address")
	}
	if row == nil {
		return "", nil
	}
	return row.PostalCode, nil
}
