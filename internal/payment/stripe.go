package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"app/internal/domain/model"
)

// Stripe Checkout Sessions APIの薄いクライアント。
type StripeClient struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewStripeClient(secretKey, baseURL string) *StripeClient {
	return &StripeClient{
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *StripeClient) Name() string { return "stripe" }

func (c *StripeClient) CreateCheckout(ctx context.Context, ref string, items []model.OrderItem, total float64, successURL, cancelURL string) (CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("client_reference_id", ref)
	for i, it := range items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", "eur")
		form.Set(prefix+"[price_data][product_data][name]", it.Name)
		//Stripeはセント単位
		form.Set(prefix+"[price_data][unit_amount]", fmt.Sprintf("%d", int64(it.Price*100+0.5)))
		form.Set(prefix+"[quantity]", fmt.Sprintf("%d", it.Quantity))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return CheckoutSession{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return CheckoutSession{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CheckoutSession{}, fmt.Errorf("stripe checkout: status %d", resp.StatusCode)
	}

	var body struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return CheckoutSession{}, err
	}

	return CheckoutSession{ProviderID: body.ID, RedirectURL: body.URL}, nil
}

// Capture はセッションの支払い状態を確認する。
// Stripe Checkoutは戻り時点で決済済みなので照会のみ。
func (c *StripeClient) Capture(ctx context.Context, providerID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/checkout/sessions/"+url.PathEscape(providerID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stripe session lookup: status %d", resp.StatusCode)
	}

	var body struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if body.PaymentStatus != "paid" && body.PaymentStatus != "no_payment_required" {
		return fmt.Errorf("stripe session not paid: %s", body.PaymentStatus)
	}
	return nil
}

var _ Client = (*StripeClient)(nil)
