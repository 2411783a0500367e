package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderStore interface {
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	GetOrderByID(ctx context.Context, id int64) (model.Order, error)
	GetOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error)

	//決済プロバイダの戻りURLからの突き合わせ用
	GetOrderByProviderID(ctx context.Context, providerID string) (model.Order, error)

	CreateOrder(ctx context.Context, o model.Order) (int64, Outcome, error)

	//statusが集合にないものはErrInvalidStatusで拒否。保存値は変えない。
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (Outcome, error)

	DeleteOrder(ctx context.Context, id int64) (Outcome, error)
}
