package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/d4t4cr0c/catalog-api/internal/events"
	"github.com/d4t4cr0c/catalog-api/internal/logging"
	"github.com/d4t4cr0c/catalog-api/internal/models"
	"github.com/d4t4cr0c/catalog-api/internal/repo"
	"github.com/d4t4cr0c/catalog-api/internal/sanitize"
	"github.com/d4t4cr0c/catalog-api/internal/search"
	"github.com/d4t4cr0c/catalog-api/internal/transport"
)

var ErrValidation = errors.New("validation failed")

const defaultCurrency = "USD"

// CatalogService owns all product semantics: sanitization, field
// validation, persistence, and the best-effort event/index side effects.
// Producer and Index may be nil when the deployment runs without Kafka or
// Elasticsearch.
type CatalogService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
	Index    *search.Index
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

// ListProducts lists the catalog, optionally filtered by a search term. A
// term the sanitizer rejects applies no text filter: the result is the full
// listing, not an error. When an index is configured it serves filtered
// queries, falling back to the repository on failure.
func (s *CatalogService) ListProducts(ctx context.Context, rawTerm string) ([]models.Product, error) {
	term := ""
	if rawTerm != "" {
		if clean, ok := sanitize.SearchTerm(rawTerm); ok {
			term = clean
		} else {
			logging.FromContext(ctx).Warn("search term rejected", "term", rawTerm)
		}
	}

	if s.Index != nil && term != "" {
		items, err := s.Index.Search(ctx, term, repo.ListLimit)
		if err == nil {
			return items, nil
		}
		logging.FromContext(ctx).Warn("index search failed, falling back to repo", "error", err)
	}

	return s.Repo.ListProducts(ctx, term)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	prod := models.Product{
		CategoryID:  sanitize.String(req.CategoryID, sanitize.MaxCodeLen),
		Category:    sanitize.String(req.Category, sanitize.MaxCodeLen),
		Title:       sanitize.String(req.Title, sanitize.MaxTitleLen),
		Subtitle:    sanitize.String(req.Subtitle, sanitize.MaxTitleLen),
		Author:      sanitize.String(req.Author, sanitize.MaxAuthorLen),
		Description: sanitize.HTML(req.Description, sanitize.MaxDescriptionLen),
		ISBN:        sanitize.String(req.ISBN, sanitize.MaxCodeLen),
		Currency:    sanitize.String(req.Currency, 8),
	}

	if prod.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if prod.Author == "" {
		return nil, fmt.Errorf("%w: author is required", ErrValidation)
	}

	price, ok := sanitize.Number(req.Price)
	if !ok || price <= 0 {
		return nil, fmt.Errorf("%w: price must be a positive number", ErrValidation)
	}
	prod.Price = price

	prod.BasePrice = price
	if req.BasePrice != 0 {
		base, ok := sanitize.Number(req.BasePrice)
		if !ok {
			return nil, fmt.Errorf("%w: base_price is invalid", ErrValidation)
		}
		prod.BasePrice = base
	}

	prod.Quantity = 1
	if req.Quantity != nil {
		qty, ok := sanitize.Integer(*req.Quantity)
		if !ok {
			return nil, fmt.Errorf("%w: available_quantity must be a non-negative integer", ErrValidation)
		}
		prod.Quantity = qty
	}

	if prod.Currency == "" {
		prod.Currency = defaultCurrency
	}

	created, err := s.Repo.CreateProduct(ctx, &prod)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeProductCreated, created)
	s.reindex(ctx, created)
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (*models.Product, error) {
	clean, err := sanitizeUpdate(req)
	if err != nil {
		return nil, err
	}

	prod, err := s.Repo.PatchProduct(ctx, clean, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeProductUpdated, prod)
	s.reindex(ctx, prod)
	return prod, nil
}

// DeleteProduct checks existence first so a missing id maps to not-found
// without a delete ever being issued.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.TypeProductDeleted, prod)
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("index delete failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) Health(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}

func sanitizeUpdate(req transport.UpdateProductRequest) (transport.UpdateProductRequest, error) {
	clean := transport.UpdateProductRequest{}

	cleanStr := func(p *string, max int) *string {
		if p == nil {
			return nil
		}
		v := sanitize.String(*p, max)
		return &v
	}

	clean.CategoryID = cleanStr(req.CategoryID, sanitize.MaxCodeLen)
	clean.Category = cleanStr(req.Category, sanitize.MaxCodeLen)
	clean.Subtitle = cleanStr(req.Subtitle, sanitize.MaxTitleLen)
	clean.ISBN = cleanStr(req.ISBN, sanitize.MaxCodeLen)
	clean.Currency = cleanStr(req.Currency, 8)

	if req.Title != nil {
		v := sanitize.String(*req.Title, sanitize.MaxTitleLen)
		if v == "" {
			return clean, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		clean.Title = &v
	}
	if req.Author != nil {
		v := sanitize.String(*req.Author, sanitize.MaxAuthorLen)
		if v == "" {
			return clean, fmt.Errorf("%w: author cannot be empty", ErrValidation)
		}
		clean.Author = &v
	}
	if req.Description != nil {
		v := sanitize.HTML(*req.Description, sanitize.MaxDescriptionLen)
		clean.Description = &v
	}
	if req.Price != nil {
		v, ok := sanitize.Number(*req.Price)
		if !ok || v <= 0 {
			return clean, fmt.Errorf("%w: price must be a positive number", ErrValidation)
		}
		clean.Price = &v
	}
	if req.BasePrice != nil {
		v, ok := sanitize.Number(*req.BasePrice)
		if !ok {
			return clean, fmt.Errorf("%w: base_price is invalid", ErrValidation)
		}
		clean.BasePrice = &v
	}
	if req.Quantity != nil {
		v, ok := sanitize.Integer(*req.Quantity)
		if !ok {
			return clean, fmt.Errorf("%w: available_quantity must be a non-negative integer", ErrValidation)
		}
		clean.Quantity = &v
	}

	return clean, nil
}

func (s *CatalogService) publish(ctx context.Context, eventType string, prod *models.Product) {
	if s.Producer == nil {
		return
	}
	event := map[string]any{
		"type":       eventType,
		"product_id": prod.ID.String(),
		"title":      prod.Title,
	}
	if err := s.Producer.PublishEvent(ctx, prod.ID.String(), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "type", eventType, "error", err)
	}
}

func (s *CatalogService) reindex(ctx context.Context, prod *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Warn("index update failed", "product_id", prod.ID, "error", err)
	}
}
