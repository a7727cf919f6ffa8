package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lachabroderie/shop-api/internal/domain/models"
	"github.com/lachabroderie/shop-api/internal/storage"
)

// CatalogService exposes the product catalog: public reads plus the admin
// mutations behind the session check.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type catalogService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage) CatalogService {
	return &catalogService{log: log, productRepo: productRepo}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "service.CatalogService.ListProducts"

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get product", slog.String("op", op), slog.Int64("id", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	const op = "service.CatalogService.CreateProduct"
	logger := s.log.With(slog.String("op", op), slog.String("name", product.Name))

	created, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product created", slog.Int64("id", created.ID))
	return created, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	const op = "service.CatalogService.UpdateProduct"

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		s.log.Error("failed to update product", slog.String("op", op), slog.Int64("id", product.ID), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	const op = "service.CatalogService.DeleteProduct"

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		s.log.Error("failed to delete product", slog.String("op", op), slog.Int64("id", id), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("product deleted", slog.String("op", op), slog.Int64("id", id))
	return nil
}
