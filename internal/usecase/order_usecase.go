package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/mailer"
	"app/internal/payment"
	"app/internal/repository"
	"app/internal/session"

	"github.com/rs/zerolog"
)

type OrderUsecase struct {
	cfg       config.Config
	store     repository.Store
	carts     *session.Manager
	providers map[string]payment.Client
	mail      *mailer.Mailer
	log       zerolog.Logger
}

// DI
func NewOrderUsecase(
	cfg config.Config,
	store repository.Store,
	carts *session.Manager,
	providers map[string]payment.Client,
	mail *mailer.Mailer,
	log zerolog.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		cfg:       cfg,
		store:     store,
		carts:     carts,
		providers: providers,
		mail:      mail,
		log:       log.With().Str("component", "checkout").Logger(),
	}
}

type CheckoutInput struct {
	Customer model.Customer `json:"customer"`
	Provider string         `json:"provider"`
}

type CheckoutOutput struct {
	OrderID     int64  `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
}

// Checkout は決済セッションを先に作り、そのprovider_idを持った
// 注文をpendingで保存する。カートは支払い確定まで消さない。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64, cartID string, in CheckoutInput) (CheckoutOutput, error) {
	if strings.TrimSpace(in.Customer.Name) == "" || strings.TrimSpace(in.Customer.Address) == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "customer name and address required")
	}

	client, ok := u.providers[in.Provider]
	if !ok {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "unknown payment provider")
	}

	//カートを注文明細のスナップショットに固める
	items, total, err := u.snapshot(ctx, cartID)
	if err != nil {
		return CheckoutOutput{}, err
	}
	if len(items) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	successURL := u.cfg.AppBaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := u.cfg.AppBaseURL + "/checkout/cancel"

	sess, err := client.CreateCheckout(ctx, cartID, items, total, successURL, cancelURL)
	if err != nil {
		u.audit(ctx, model.AuditEntry{
			EventType: model.AuditPaymentFailed,
			UserID:    &userID,
			Action:    "checkout session creation failed",
			Details:   map[string]any{"provider": client.Name()},
			Status:    model.AuditStatusFailure,
		})
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment provider unavailable")
	}

	order := model.Order{
		UserID:          &userID,
		Items:           items,
		Total:           total,
		Customer:        in.Customer,
		Status:          model.OrderStatusPending,
		PaymentProvider: client.Name(),
		ProviderID:      sess.ProviderID,
		CreatedAt:       time.Now(),
	}

	orderID, _, err := u.store.CreateOrder(ctx, order)
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	u.audit(ctx, model.AuditEntry{
		EventType:    model.AuditOrderCreated,
		UserID:       &userID,
		Action:       "order created",
		ResourceType: "order",
		ResourceID:   formatID(orderID),
		Details:      map[string]any{"total": total, "provider": client.Name()},
	})
	u.audit(ctx, model.AuditEntry{
		EventType:    model.AuditPaymentInitiated,
		UserID:       &userID,
		Action:       "payment initiated",
		ResourceType: "order",
		ResourceID:   formatID(orderID),
		Details:      map[string]any{"provider": client.Name(), "provider_id": sess.ProviderID},
		Status:       model.AuditStatusPending,
	})

	return CheckoutOutput{OrderID: orderID, RedirectURL: sess.RedirectURL}, nil
}

// Confirm は決済プロバイダからの戻りで呼ばれる。
// 支払いを確定できたら注文をpaidにしてカートを空にする。
func (u *OrderUsecase) Confirm(ctx context.Context, providerID, cartID string) (model.Order, error) {
	if providerID == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "session_id required")
	}

	order, err := u.store.GetOrderByProviderID(ctx, providerID)
	if err == repository.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	//paid済みの再訪は何もしないで返す
	if order.Status != model.OrderStatusPending {
		return order, nil
	}

	client, ok := u.providers[order.PaymentProvider]
	if !ok {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "unknown payment provider")
	}

	if err := client.Capture(ctx, providerID); err != nil {
		u.audit(ctx, model.AuditEntry{
			EventType:    model.AuditPaymentFailed,
			UserID:       order.UserID,
			Action:       "payment capture failed",
			ResourceType: "order",
			ResourceID:   formatID(order.ID),
			Details:      map[string]any{"provider": order.PaymentProvider},
			Status:       model.AuditStatusFailure,
		})
		return model.Order{}, NewHTTPError(http.StatusBadGateway, "payment not completed")
	}

	if _, err := u.store.UpdateOrderStatus(ctx, order.ID, model.OrderStatusPaid); err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	order.Status = model.OrderStatusPaid

	u.audit(ctx, model.AuditEntry{
		EventType:    model.AuditPaymentCompleted,
		UserID:       order.UserID,
		Action:       "payment completed",
		ResourceType: "order",
		ResourceID:   formatID(order.ID),
		Details:      map[string]any{"provider": order.PaymentProvider, "total": order.Total},
	})

	u.carts.Clear(cartID)
	u.mail.SendOrderConfirmation(order.Customer.Email, order.ID, order.Total)

	return order, nil
}

// 自分の注文一覧。
func (u *OrderUsecase) ListMine(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := u.store.GetOrdersByUser(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return orders, nil
}

func (u *OrderUsecase) GetMine(ctx context.Context, userID, orderID int64) (model.Order, error) {
	order, err := u.store.GetOrderByID(ctx, orderID)
	if err == repository.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	//他人の注文は存在を漏らさない
	if order.UserID == nil || *order.UserID != userID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return order, nil
}

func (u *OrderUsecase) snapshot(ctx context.Context, cartID string) ([]model.OrderItem, float64, error) {
	var items []model.OrderItem
	var total float64
	for _, line := range u.carts.Get(cartID) {
		p, err := u.store.GetProductByID(ctx, line.ProductID)
		if err == repository.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, 0, NewHTTPError(http.StatusInternalServerError, "store error")
		}
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
		})
		total += p.Price * float64(line.Quantity)
	}
	return items, total, nil
}

func (u *OrderUsecase) audit(ctx context.Context, e model.AuditEntry) {
	if _, err := u.store.LogAudit(ctx, e); err != nil {
		u.log.Error().Err(err).Str("event", string(e.EventType)).Msg("audit write failed")
	}
}
