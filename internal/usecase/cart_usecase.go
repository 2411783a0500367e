package usecase

import (
	"context"
	"net/http"

	"app/internal/repository"
	"app/internal/session"
)

// カートの表示行。価格は現在のカタログ価格。
type CartLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

type CartView struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

type CartUsecase struct {
	store repository.Store
	carts *session.Manager
}

// DI
func NewCartUsecase(store repository.Store, carts *session.Manager) *CartUsecase {
	return &CartUsecase{store: store, carts: carts}
}

// View はカタログから消えた商品を黙って飛ばす。
func (u *CartUsecase) View(ctx context.Context, cartID string) (CartView, error) {
	view := CartView{Items: []CartLine{}}
	for _, item := range u.carts.Get(cartID) {
		p, err := u.store.GetProductByID(ctx, item.ProductID)
		if err == repository.ErrNotFound {
			u.carts.Remove(cartID, item.ProductID)
			continue
		}
		if err != nil {
			return CartView{}, NewHTTPError(http.StatusInternalServerError, "store error")
		}
		line := CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  item.Quantity,
			Subtotal:  p.Price * float64(item.Quantity),
		}
		view.Items = append(view.Items, line)
		view.Total += line.Subtotal
	}
	return view, nil
}

func (u *CartUsecase) Add(ctx context.Context, cartID string, productID, quantity int64) (CartView, error) {
	if quantity <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
	}

	p, err := u.store.GetProductByID(ctx, productID)
	if err == repository.ErrNotFound {
		return CartView{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	u.carts.Add(cartID, p.ID, quantity)
	return u.View(ctx, cartID)
}

func (u *CartUsecase) Update(ctx context.Context, cartID string, productID, quantity int64) (CartView, error) {
	if quantity < 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 0")
	}
	u.carts.SetQuantity(cartID, productID, quantity)
	return u.View(ctx, cartID)
}

func (u *CartUsecase) Remove(ctx context.Context, cartID string, productID int64) (CartView, error) {
	u.carts.Remove(cartID, productID)
	return u.View(ctx, cartID)
}
