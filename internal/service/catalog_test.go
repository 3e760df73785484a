package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d4t4cr0c/catalog-api/internal/models"
	"github.com/d4t4cr0c/catalog-api/internal/repo"
	"github.com/d4t4cr0c/catalog-api/internal/transport"
)

func newTestService(t *testing.T) *CatalogService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return &CatalogService{Repo: &repo.GormRepo{DB: db}}
}

func TestCreateProductDefaults(t *testing.T) {
	svc := newTestService(t)

	prod, err := svc.CreateProduct(context.Background(), transport.CreateProductRequest{
		Title:  "Defaults",
		Author: "Author",
		Price:  9.99,
	})
	require.NoError(t, err)
	require.Equal(t, 9.99, prod.BasePrice, "base_price defaults to price")
	require.Equal(t, "USD", prod.Currency)
	require.Equal(t, 1, prod.Quantity)
}

func TestCreateProductKeepsExplicitBasePrice(t *testing.T) {
	svc := newTestService(t)

	qty := 7
	prod, err := svc.CreateProduct(context.Background(), transport.CreateProductRequest{
		Title:     "Discounted",
		Author:    "Author",
		Price:     9.99,
		BasePrice: 14.99,
		Currency:  "EUR",
		Quantity:  &qty,
	})
	require.NoError(t, err)
	require.Equal(t, 14.99, prod.BasePrice)
	require.Equal(t, "EUR", prod.Currency)
	require.Equal(t, 7, prod.Quantity)
}

func TestCreateProductSanitizesFields(t *testing.T) {
	svc := newTestService(t)

	prod, err := svc.CreateProduct(context.Background(), transport.CreateProductRequest{
		Title:       `<b>Spiked"; Title</b>`,
		Author:      "O'Malley",
		Description: `nice read <script>alert(1)</script> javascript:void(0)`,
		Price:       5,
	})
	require.NoError(t, err)
	require.NotContains(t, prod.Title, "<")
	require.NotContains(t, prod.Title, `"`)
	require.NotContains(t, prod.Title, ";")
	require.Equal(t, "OMalley", prod.Author)
	require.NotContains(t, prod.Description, "<script>")
	require.NotContains(t, prod.Description, "javascript:")
}

func TestUpdateProductRejectsNegativeQuantity(t *testing.T) {
	svc := newTestService(t)
	prod, err := svc.CreateProduct(context.Background(), transport.CreateProductRequest{
		Title: "Q", Author: "A", Price: 5,
	})
	require.NoError(t, err)

	qty := -3
	_, err = svc.UpdateProduct(context.Background(), prod.ID, transport.UpdateProductRequest{Quantity: &qty})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProductRejectsEmptyTitle(t *testing.T) {
	svc := newTestService(t)
	prod, err := svc.CreateProduct(context.Background(), transport.CreateProductRequest{
		Title: "Kept", Author: "A", Price: 5,
	})
	require.NoError(t, err)

	empty := "   "
	_, err = svc.UpdateProduct(context.Background(), prod.ID, transport.UpdateProductRequest{Title: &empty})
	require.ErrorIs(t, err, ErrValidation)

	got, err := svc.GetProduct(context.Background(), prod.ID)
	require.NoError(t, err)
	require.Equal(t, "Kept", got.Title)
}

func TestListProductsCapsResults(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < repo.ListLimit+20; i++ {
		_, err := svc.CreateProduct(context.Background(), transport.CreateProductRequest{
			Title: "Bulk", Author: "A", Price: 1,
		})
		require.NoError(t, err)
	}

	items, err := svc.ListProducts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, repo.ListLimit)
}
