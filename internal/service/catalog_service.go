package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/festivalops/offer-api/internal/domain"
	"github.com/festivalops/offer-api/internal/mapper"
	"github.com/festivalops/offer-api/internal/pricing"
	"github.com/festivalops/offer-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogService handles business logic for products and category settings
type CatalogService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategorySettingRepository
	catalogRepo  *repository.CatalogRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(
	productRepo *repository.ProductRepository,
	categoryRepo *repository.CategorySettingRepository,
	catalogRepo *repository.CatalogRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		catalogRepo:  catalogRepo,
		logger:       logger,
	}
}

// ListProducts returns products ordered for display
func (s *CatalogService) ListProducts(ctx context.Context, category string, activeOnly bool) ([]domain.ProductDTO, error) {
	products, err := s.productRepo.List(ctx, category, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	dtos := make([]domain.ProductDTO, len(products))
	for i := range products {
		dtos[i] = mapper.ToProductDTO(&products[i])
	}
	return dtos, nil
}

// GetProduct returns a product by id
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

// CreateProduct adds a product to the catalog
func (s *CatalogService) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.ProductDTO, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product := &domain.Product{}
	mapper.ApplyProductRequest(product, req)

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("category", product.Category),
		zap.String("key_figure", string(product.KeyFigure)),
	)

	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

// UpdateProduct replaces the editable fields of a product
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req domain.UpdateProductRequest) (*domain.ProductDTO, error) {
	if err := validateProductRequest(req.CreateProductRequest); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	mapper.ApplyProductRequest(product, req.CreateProductRequest)

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.Error(err), zap.String("product_id", id.String()))
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

// DeleteProduct removes a product. Offer lines referencing it are kept and
// pass through derivation unchanged.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// ListCategorySettings returns every explicit category setting
func (s *CatalogService) ListCategorySettings(ctx context.Context) ([]domain.CategorySettingDTO, error) {
	settings, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list category settings: %w", err)
	}
	dtos := make([]domain.CategorySettingDTO, len(settings))
	for i := range settings {
		dtos[i] = mapper.ToCategorySettingDTO(&settings[i])
	}
	return dtos, nil
}

// UpsertCategorySetting creates or replaces the setting of a category
func (s *CatalogService) UpsertCategorySetting(ctx context.Context, category string, req domain.UpsertCategorySettingRequest) (*domain.CategorySettingDTO, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if !pricing.CalculationType(req.CalculationType).IsValid() {
		return nil, fmt.Errorf("%w: unknown calculation type %q", ErrInvalidInput, req.CalculationType)
	}

	setting := &domain.CategorySetting{
		Category:        category,
		CalculationType: req.CalculationType,
		IsArchived:      req.IsArchived,
		DisplayOrder:    req.DisplayOrder,
	}
	if err := s.categoryRepo.Upsert(ctx, setting); err != nil {
		s.logger.Error("Failed to save category setting", zap.Error(err), zap.String("category", category))
		return nil, fmt.Errorf("failed to save category setting: %w", err)
	}

	saved, err := s.categoryRepo.Get(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to reload category setting: %w", err)
	}

	s.logger.Info("Category setting saved",
		zap.String("category", category),
		zap.String("calculation_type", string(saved.CalculationType)),
		zap.Bool("archived", saved.IsArchived),
	)

	dto := mapper.ToCategorySettingDTO(saved)
	return &dto, nil
}

// Snapshot returns the current catalog in engine form
func (s *CatalogService) Snapshot(ctx context.Context) (pricing.Catalog, error) {
	snap, err := s.catalogRepo.Snapshot(ctx)
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		return pricing.Catalog{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	return mapper.ToCatalog(snap.Products, snap.Categories), nil
}

func validateProductRequest(req domain.CreateProductRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		return fmt.Errorf("%w: name and category are required", ErrInvalidInput)
	}
	if req.KeyFigure != "" && !pricing.KeyFigure(req.KeyFigure).IsValid() {
		return fmt.Errorf("%w: unknown key figure %q", ErrInvalidInput, req.KeyFigure)
	}
	if req.DefaultQuantity < 0 || req.DefaultPrice < 0 || req.CostBasis < 0 || req.KeyFigureMultiplier < 0 {
		return fmt.Errorf("%w: quantities and prices must not be negative", ErrInvalidInput)
	}
	return nil
}
