package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	"app/internal/infra/csvstore"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newProductUC(t *testing.T) *ProductUsecase {
	t.Helper()
	store, err := csvstore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	for _, p := range []model.Product{
		{Name: "Coffee Mug", Category: "kitchen", Price: 9.99, Description: "ceramic"},
		{Name: "Tea Pot", Category: "kitchen", Price: 24.50},
		{Name: "Desk Lamp", Category: "office", Price: 39.00, Description: "LED lamp"},
	} {
		_, _, err := store.CreateProduct(ctx, p)
		require.NoError(t, err)
	}
	return NewProductUsecase(store)
}

func TestListFilters(t *testing.T) {
	uc := newProductUC(t)
	ctx := context.Background()

	all, err := uc.List(ctx, ListProductsInput{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	//検索は名前と説明の両方に効く、大文字小文字無視
	byQ, err := uc.List(ctx, ListProductsInput{Q: "mug"})
	require.NoError(t, err)
	require.Len(t, byQ, 1)
	require.Equal(t, "Coffee Mug", byQ[0].Name)

	byDesc, err := uc.List(ctx, ListProductsInput{Q: "led"})
	require.NoError(t, err)
	require.Len(t, byDesc, 1)

	byCat, err := uc.List(ctx, ListProductsInput{Category: "KITCHEN"})
	require.NoError(t, err)
	require.Len(t, byCat, 2)

	min, max := 10.0, 30.0
	byPrice, err := uc.List(ctx, ListProductsInput{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, byPrice, 1)
	require.Equal(t, "Tea Pot", byPrice[0].Name)
}

func TestListValidatesPriceRange(t *testing.T) {
	uc := newProductUC(t)
	ctx := context.Background()

	min, max := 30.0, 10.0
	_, err := uc.List(ctx, ListProductsInput{MinPrice: &min, MaxPrice: &max})
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Status)

	neg := -1.0
	_, err = uc.List(ctx, ListProductsInput{MinPrice: &neg})
	he, _ = AsHTTPError(err)
	require.Equal(t, http.StatusBadRequest, he.Status)
}

func TestCategories(t *testing.T) {
	uc := newProductUC(t)

	cats, err := uc.Categories(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"kitchen", "office"}, cats)
}

func TestGetNotFound(t *testing.T) {
	uc := newProductUC(t)

	_, err := uc.Get(context.Background(), 999)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Status)
}
