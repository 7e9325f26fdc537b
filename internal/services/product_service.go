package services

import (
	"context"
	"fmt"

	"productapi/internal/models"
	"productapi/internal/repositories"

	"github.com/rs/zerolog"
)

// Product lifecycle event types.
const (
	EventProductCreated             = "product.created"
	EventProductUpdated             = "product.updated"
	EventProductAvailabilityToggled = "product.availability_toggled"
	EventProductDeleted             = "product.deleted"
)

// EventPublisher announces product lifecycle changes to other systems.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, eventType string, product models.Product) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
	logger zerolog.Logger
}

// NewProductService creates a new ProductService. events may be nil, in
// which case no lifecycle events are published.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
		logger: logger.With().Str("component", "product-service").Logger(),
	}
}

// ListProducts retrieves all products, newest first.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx, repositories.SortDescending)
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	if id < 1 {
		return models.Product{}, fmt.Errorf("product with ID %d: %w", id, repositories.ErrProductNotFound)
	}
	return s.repo.GetByID(ctx, uint(id))
}

// CreateProduct creates a new, available product.
func (s *ProductService) CreateProduct(ctx context.Context, name string, price float64) (models.Product, error) {
	product, err := s.repo.Create(ctx, models.NewProductFields(name, price))
	if err != nil {
		return models.Product{}, err
	}
	s.publish(ctx, EventProductCreated, product)
	return product, nil
}

// UpdateProduct replaces every mutable field of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, fields models.ProductFields) (models.Product, error) {
	current, err := s.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	updated, err := s.repo.Persist(ctx, current.WithFields(fields))
	if err != nil {
		return models.Product{}, err
	}
	s.publish(ctx, EventProductUpdated, updated)
	return updated, nil
}

// ToggleAvailability flips the availability of an existing product. Calling
// it twice restores the original value.
func (s *ProductService) ToggleAvailability(ctx context.Context, id int64) (models.Product, error) {
	current, err := s.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	updated, err := s.repo.Persist(ctx, current.WithAvailabilityToggled())
	if err != nil {
		return models.Product{}, err
	}
	s.publish(ctx, EventProductAvailabilityToggled, updated)
	return updated, nil
}

// DeleteProduct permanently removes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	current, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Remove(ctx, current); err != nil {
		return err
	}
	s.publish(ctx, EventProductDeleted, current)
	return nil
}

// publish is best effort: the change is already stored, so a failure is
// only logged.
func (s *ProductService) publish(ctx context.Context, eventType string, product models.Product) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProductEvent(ctx, eventType, product); err != nil {
		s.logger.Warn().Err(err).
			Str("event", eventType).
			Uint("product_id", product.ID).
			Msg("failed to publish product event")
	}
}
