package usecase

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"app/internal/domain/model"
	"app/internal/repository"
)

// 公開カタログの読み取り。
type ProductUsecase struct {
	store repository.Store
}

// DI
func NewProductUsecase(store repository.Store) *ProductUsecase {
	return &ProductUsecase{store: store}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Q        string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if len(in.Q) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return nil, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}

	products, err := u.store.GetAllProducts(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	q := strings.ToLower(strings.TrimSpace(in.Q))
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if in.Category != "" && !strings.EqualFold(p.Category, in.Category) {
			continue
		}
		if in.MinPrice != nil && p.Price < *in.MinPrice {
			continue
		}
		if in.MaxPrice != nil && p.Price > *in.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// カテゴリ一覧（重複なし、辞書順）。
func (u *ProductUsecase) Categories(ctx context.Context) ([]string, error) {
	products, err := u.store.GetAllProducts(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.store.GetProductByID(ctx, id)
	if err == repository.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return p, nil
}
