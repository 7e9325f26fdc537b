package repositories

import (
	"context"
	"errors"
	"fmt"

	"productapi/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves all products ordered by ID.
func (r *GORMProductRepository) List(ctx context.Context, order SortDirection) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Order("id " + string(order)).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
		}
		return models.Product{}, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return product, nil
}

// Create inserts a new product. The database assigns the ID and timestamps.
func (r *GORMProductRepository) Create(ctx context.Context, fields models.ProductFields) (models.Product, error) {
	product := models.Product{}.WithFields(fields)
	if err := r.db.WithContext(ctx).Create(&product).Error; err != nil {
		return models.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Persist writes every mutable field of product and returns the stored row.
// Save is avoided on purpose: it upserts when the row has disappeared.
func (r *GORMProductRepository) Persist(ctx context.Context, product models.Product) (models.Product, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{ID: product.ID}).
		Select("name", "price", "availability", "updated_at").
		Updates(&models.Product{
			Name:         product.Name,
			Price:        product.Price,
			Availability: product.Availability,
		})
	if res.Error != nil {
		return models.Product{}, fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Product{}, fmt.Errorf("product with ID %d: %w", product.ID, ErrProductNotFound)
	}
	return r.GetByID(ctx, product.ID)
}

// Remove permanently deletes product.
func (r *GORMProductRepository) Remove(ctx context.Context, product models.Product) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, product.ID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductNotFound)
	}
	return nil
}

// Ping checks that the underlying database is reachable.
func (r *GORMProductRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
