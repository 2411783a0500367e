package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/infra/csvstore"
	"app/internal/payment"
	"app/internal/repository"
	"app/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	captureErr error
	captured   []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) CreateCheckout(ctx context.Context, ref string, items []model.OrderItem, total float64, successURL, cancelURL string) (payment.CheckoutSession, error) {
	return payment.CheckoutSession{ProviderID: "sess_123", RedirectURL: "https://pay.example/sess_123"}, nil
}

func (f *fakeProvider) Capture(ctx context.Context, providerID string) error {
	if f.captureErr != nil {
		return f.captureErr
	}
	f.captured = append(f.captured, providerID)
	return nil
}

func newOrderUC(t *testing.T, provider payment.Client) (*OrderUsecase, repository.Store, *session.Manager) {
	t.Helper()
	store, err := csvstore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	carts := session.NewManager()
	cfg := config.Config{JWTSecret: "x", AppBaseURL: "http://localhost:8080"}
	uc := NewOrderUsecase(cfg, store, carts, map[string]payment.Client{"fake": provider}, nil, zerolog.Nop())
	return uc, store, carts
}

func customerFixture() model.Customer {
	return model.Customer{Name: "Maria", Email: "maria@example.com", Address: "Hauptstr. 1", City: "Berlin", Zip: "10115", Country: "DE"}
}

func TestCheckoutCreatesPendingOrderWithSnapshot(t *testing.T) {
	provider := &fakeProvider{}
	uc, store, carts := newOrderUC(t, provider)
	ctx := context.Background()

	pid, _, err := store.CreateProduct(ctx, model.Product{Name: "Mug", Price: 9.99})
	require.NoError(t, err)

	cartID := carts.NewCartID()
	carts.Add(cartID, pid, 2)

	out, err := uc.Checkout(ctx, 1, cartID, CheckoutInput{Customer: customerFixture(), Provider: "fake"})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/sess_123", out.RedirectURL)

	order, err := store.GetOrderByID(ctx, out.OrderID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPending, order.Status)
	require.Equal(t, 19.98, order.Total)
	require.Equal(t, "fake", order.PaymentProvider)
	require.Equal(t, "sess_123", order.ProviderID)
	require.Len(t, order.Items, 1)
	require.Equal(t, int64(2), order.Items[0].Quantity)
	require.NotNil(t, order.UserID)
	require.Equal(t, int64(1), *order.UserID)

	//確定までカートは残る
	require.Len(t, carts.Get(cartID), 1)
}

func TestCheckoutRejectsEmptyCartAndUnknownProvider(t *testing.T) {
	uc, _, carts := newOrderUC(t, &fakeProvider{})
	ctx := context.Background()

	cartID := carts.NewCartID()
	_, err := uc.Checkout(ctx, 1, cartID, CheckoutInput{Customer: customerFixture(), Provider: "fake"})
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Status)

	_, err = uc.Checkout(ctx, 1, cartID, CheckoutInput{Customer: customerFixture(), Provider: "bitcoin"})
	he, _ = AsHTTPError(err)
	require.Equal(t, http.StatusBadRequest, he.Status)
}

func TestConfirmMarksPaidAndClearsCart(t *testing.T) {
	provider := &fakeProvider{}
	uc, store, carts := newOrderUC(t, provider)
	ctx := context.Background()

	pid, _, err := store.CreateProduct(ctx, model.Product{Name: "Mug", Price: 9.99})
	require.NoError(t, err)

	cartID := carts.NewCartID()
	carts.Add(cartID, pid, 1)

	out, err := uc.Checkout(ctx, 1, cartID, CheckoutInput{Customer: customerFixture(), Provider: "fake"})
	require.NoError(t, err)

	order, err := uc.Confirm(ctx, "sess_123", cartID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPaid, order.Status)
	require.Equal(t, []string{"sess_123"}, provider.captured)
	require.Empty(t, carts.Get(cartID))

	stored, err := store.GetOrderByID(ctx, out.OrderID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPaid, stored.Status)

	//再訪は状態を変えず同じ注文を返す
	again, err := uc.Confirm(ctx, "sess_123", cartID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPaid, again.Status)
	require.Len(t, provider.captured, 1)

	//payment_initiatedとpayment_completedが残る
	logs, err := store.GetAuditLogs(ctx, repository.AuditQuery{})
	require.NoError(t, err)
	var initiated, completed bool
	for _, e := range logs {
		switch e.EventType {
		case model.AuditPaymentInitiated:
			initiated = true
		case model.AuditPaymentCompleted:
			completed = true
		}
	}
	require.True(t, initiated)
	require.True(t, completed)
}

func TestConfirmCaptureFailure(t *testing.T) {
	provider := &fakeProvider{captureErr: errors.New("declined")}
	uc, store, carts := newOrderUC(t, provider)
	ctx := context.Background()

	pid, _, err := store.CreateProduct(ctx, model.Product{Name: "Mug", Price: 9.99})
	require.NoError(t, err)

	cartID := carts.NewCartID()
	carts.Add(cartID, pid, 1)

	out, err := uc.Checkout(ctx, 1, cartID, CheckoutInput{Customer: customerFixture(), Provider: "fake"})
	require.NoError(t, err)

	_, err = uc.Confirm(ctx, "sess_123", cartID)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadGateway, he.Status)

	//注文はpendingのまま、カートも残る
	order, err := store.GetOrderByID(ctx, out.OrderID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPending, order.Status)
	require.Len(t, carts.Get(cartID), 1)
}

func TestGetMineHidesForeignOrders(t *testing.T) {
	uc, store, _ := newOrderUC(t, &fakeProvider{})
	ctx := context.Background()

	owner := int64(1)
	oid, _, err := store.CreateOrder(ctx, model.Order{UserID: &owner, Total: 5})
	require.NoError(t, err)

	_, err = uc.GetMine(ctx, 2, oid)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Status)

	order, err := uc.GetMine(ctx, 1, oid)
	require.NoError(t, err)
	require.Equal(t, oid, order.ID)
}
