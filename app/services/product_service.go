package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/productapi/app/models"
	"github.com/shashiranjanraj/productapi/app/repositories"
	"github.com/shashiranjanraj/productapi/pkg/logger"
)

// ProductService owns the product timestamps: created_at is stamped once,
// latest_update on creation and on every edit.
type ProductService struct {
	repo repositories.ProductRepository
	now  func() time.Time
}

func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (s *ProductService) WithClock(now func() time.Time) *ProductService {
	s.now = now
	return s
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.All(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stamps created_at and latest_update with the same instant and
// inserts the product.
func (s *ProductService) Create(ctx context.Context, product models.Product) (models.Product, error) {
	stamp := s.timestamp()
	product.CreatedAt = stamp
	product.LatestUpdate = stamp

	if err := s.repo.Create(ctx, &product); err != nil {
		return models.Product{}, err
	}

	logger.WithCtx(ctx).Info("product created", "product_id", product.ID.Hex())
	return product, nil
}

// Apply writes changes onto an already loaded product and advances
// latest_update. The new latest_update is always strictly after the stored one.
func (s *ProductService) Apply(ctx context.Context, product models.Product, changes models.ProductChanges) (models.Product, error) {
	changes.Apply(&product)

	stamp := s.timestamp()
	if !stamp.After(product.LatestUpdate) {
		stamp = product.LatestUpdate.Add(time.Millisecond)
	}
	product.LatestUpdate = stamp

	if err := s.repo.Update(ctx, product); err != nil {
		return models.Product{}, err
	}

	logger.WithCtx(ctx).Info("product updated", "product_id", product.ID.Hex())
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("product deleted", "product_id", id)
	return nil
}

// timestamp is the current time at the millisecond precision BSON dates keep.
func (s *ProductService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
