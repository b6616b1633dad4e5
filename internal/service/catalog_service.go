package service

import (
	"context"
	"fmt"

	"go-quote-pricing/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService exposes the read-only catalog plus a create hook used by seeding and imports.
type CatalogService interface {
	CreateProduct(ctx context.Context, req *model.CatalogProduct, actor Actor) error
	ListByCategory(ctx context.Context, category model.Category) ([]model.CatalogProduct, error)
}

type catalogService struct {
	stores PricingStores
	log    *zap.Logger
}

func NewCatalogService(stores PricingStores, log *zap.Logger) CatalogService {
	return &catalogService{stores: stores, log: log.Named("catalog")}
}

func (s *catalogService) CreateProduct(ctx context.Context, req *model.CatalogProduct, actor Actor) error {
	if err := validateInput(req); err != nil {
		return err
	}
	if req.RetailPrice.IsNegative() || req.PurchasePrice.IsNegative() || req.SellingPrice.IsNegative() {
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidArgument)
	}
	for _, v := range []decimal.Decimal{req.RetailPrice, req.PurchasePrice, req.SellingPrice, req.QuantityConverter} {
		if !model.AmountFits(v) {
			return fmt.Errorf("%w: %s is out of range", ErrInvalidArgument, v)
		}
	}
	if req.QuantityConverter.IsZero() {
		req.QuantityConverter = decimal.NewFromInt(1)
	}
	if !req.QuantityConverter.IsPositive() {
		return fmt.Errorf("%w: quantity_converter must be positive", ErrInvalidArgument)
	}

	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	if err := s.stores.Catalog.Create(ctx, req); err != nil {
		return fmt.Errorf("create catalog product: %w", err)
	}
	s.log.Info("catalog product created",
		zap.String("product_id", req.ID.String()),
		zap.String("category", string(req.Category)),
		zap.String("mapper_key", req.MapperKey),
	)
	return nil
}

func (s *catalogService) ListByCategory(ctx context.Context, category model.Category) ([]model.CatalogProduct, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, category)
	}
	return s.stores.Catalog.FindByCategory(ctx, category)
}
