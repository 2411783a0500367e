package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	"app/internal/infra/csvstore"
	"app/internal/infra/hybrid"
	"app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newAdminUC(t *testing.T) (*AdminUsecase, repository.Store) {
	t.Helper()
	csv, err := csvstore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	coord := hybrid.New(csv, nil, zerolog.Nop())
	return NewAdminUsecase(coord, coord, zerolog.Nop()), coord
}

func TestAdminProductLifecycle(t *testing.T) {
	uc, store := newAdminUC(t)
	ctx := context.Background()

	p, err := uc.CreateProduct(ctx, 1, ProductInput{Name: "Mug", Category: "kitchen", Price: 9.99, Stock: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), p.ID)

	p, err = uc.UpdateProduct(ctx, 1, p.ID, ProductInput{Name: "Big Mug", Category: "kitchen", Price: 12.5, Stock: 8})
	require.NoError(t, err)
	require.Equal(t, "Big Mug", p.Name)

	p, err = uc.AddProductImage(ctx, 1, p.ID, "front.jpg")
	require.NoError(t, err)
	require.Equal(t, []string{"front.jpg"}, p.Images)

	p, err = uc.RemoveProductImage(ctx, 1, p.ID, "front.jpg")
	require.NoError(t, err)
	require.Empty(t, p.Images)

	require.NoError(t, uc.DeleteProduct(ctx, 1, p.ID))
	_, err = store.GetProductByID(ctx, p.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	//一連の操作が監査に残る
	logs, err := store.GetAuditLogs(ctx, repository.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 5)
	require.Equal(t, model.AuditProductCreated, logs[0].EventType)
	require.Equal(t, model.AuditProductDeleted, logs[4].EventType)
}

func TestAdminCreateProductValidation(t *testing.T) {
	uc, _ := newAdminUC(t)
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, 1, ProductInput{Name: " ", Price: 1})
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Status)

	_, err = uc.CreateProduct(ctx, 1, ProductInput{Name: "Mug", Price: -1})
	he, _ = AsHTTPError(err)
	require.Equal(t, http.StatusBadRequest, he.Status)
}

func TestAdminOrderStatusSequence(t *testing.T) {
	uc, store := newAdminUC(t)
	ctx := context.Background()

	userID := int64(7)
	oid, _, err := store.CreateOrder(ctx, model.Order{UserID: &userID, Total: 19.98})
	require.NoError(t, err)

	for _, status := range []model.OrderStatus{
		model.OrderStatusPaid,
		model.OrderStatusInProcessing,
		model.OrderStatusShipped,
		model.OrderStatusDelivered,
	} {
		order, err := uc.UpdateOrderStatus(ctx, 1, oid, status)
		require.NoError(t, err)
		require.Equal(t, status, order.Status)
	}

	//未知のステータスは拒否、保存値は変わらない
	_, err = uc.UpdateOrderStatus(ctx, 1, oid, model.OrderStatus("refunded"))
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Status)

	order, err := store.GetOrderByID(ctx, oid)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusDelivered, order.Status)
}

func TestAdminStorageStatusAndClear(t *testing.T) {
	uc, _ := newAdminUC(t)
	ctx := context.Background()

	st := uc.StorageStatus(ctx)
	require.Equal(t, "healthy", st.Health)
	require.Empty(t, st.Fallbacks)

	uc.ClearFallbacks(ctx, 1)
	require.Empty(t, uc.StorageStatus(ctx).Fallbacks)
}
