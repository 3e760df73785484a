package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d4t4cr0c/catalog-api/internal/models"
	"github.com/d4t4cr0c/catalog-api/internal/transport"
)

// ListLimit caps every listing, with or without a search term.
const ListLimit = 100

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns the newest products first, optionally filtered by a
// case-insensitive substring match on title or author. An empty term means
// no text filter.
func (r *GormRepo) ListProducts(ctx context.Context, term string) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if term != "" {
		pat := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", pat, pat)
	}

	items := make([]models.Product, 0)
	if err := q.Order("created_at DESC").Limit(ListLimit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

func (r *GormRepo) PatchProduct(ctx context.Context, req transport.UpdateProductRequest, id uuid.UUID) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		prod.CategoryID = *req.CategoryID
	}
	if req.Category != nil {
		prod.Category = *req.Category
	}
	if req.Title != nil {
		prod.Title = *req.Title
	}
	if req.Subtitle != nil {
		prod.Subtitle = *req.Subtitle
	}
	if req.Author != nil {
		prod.Author = *req.Author
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.ISBN != nil {
		prod.ISBN = *req.ISBN
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.BasePrice != nil {
		prod.BasePrice = *req.BasePrice
	}
	if req.Currency != nil {
		prod.Currency = *req.Currency
	}
	if req.Quantity != nil {
		prod.Quantity = *req.Quantity
	}

	if err := r.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Ping is the health probe: an existence check via a count query.
func (r *GormRepo) Ping(ctx context.Context) error {
	var total int64
	return r.DB.WithContext(ctx).Model(&models.Product{}).Limit(1).Count(&total).Error
}
