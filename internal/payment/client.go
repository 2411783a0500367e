package payment

import (
	"context"

	"app/internal/domain/model"
)

// 決済プロバイダが払い出したセッション。
type CheckoutSession struct {
	ProviderID  string
	RedirectURL string
}

// Client は外部決済プロバイダの最小の面。
type Client interface {
	Name() string

	//チェックアウトセッションを作る。注文はセッション作成後に
	//provider_id付きで保存されるため、参照にはカートIDを渡す。
	//successURLには{CHECKOUT_SESSION_ID}プレースホルダを含められる。
	CreateCheckout(ctx context.Context, ref string, items []model.OrderItem, total float64, successURL, cancelURL string) (CheckoutSession, error)

	//戻りURLで受けたセッションの決済を確定させる
	Capture(ctx context.Context, providerID string) error
}
