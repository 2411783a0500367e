package repository

import (
	"context"

	"app/internal/domain/model"
)

// 商品の永続化だけを約束。
type ProductStore interface {
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int64) (model.Product, error)

	CreateProduct(ctx context.Context, p model.Product) (int64, Outcome, error)
	UpdateProduct(ctx context.Context, p model.Product) (Outcome, error)
	DeleteProduct(ctx context.Context, id int64) (Outcome, error)

	//20枚を超える追加は何もしない
	AddProductImage(ctx context.Context, id int64, filename string) (Outcome, error)
	RemoveProductImage(ctx context.Context, id int64, filename string) (Outcome, error)
}
