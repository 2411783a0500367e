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

// PayPal Orders v2 APIの薄いクライアント。
type PayPalClient struct {
	clientID string
	secret   string
	baseURL  string
	http     *http.Client
}

func NewPayPalClient(clientID, secret, baseURL string) *PayPalClient {
	return &PayPalClient{
		clientID: clientID,
		secret:   secret,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *PayPalClient) Name() string { return "paypal" }

func (c *PayPalClient) token(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token: status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.AccessToken, nil
}

func (c *PayPalClient) CreateCheckout(ctx context.Context, ref string, items []model.OrderItem, total float64, successURL, cancelURL string) (CheckoutSession, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return CheckoutSession{}, err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"reference_id": ref,
			"amount": map[string]any{
				"currency_code": "EUR",
				"value":         fmt.Sprintf("%.2f", total),
			},
		}},
		"application_context": map[string]any{
			"return_url": successURL,
			"cancel_url": cancelURL,
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return CheckoutSession{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/checkout/orders", strings.NewReader(string(raw)))
	if err != nil {
		return CheckoutSession{}, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return CheckoutSession{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return CheckoutSession{}, fmt.Errorf("paypal create order: status %d", resp.StatusCode)
	}

	var body struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return CheckoutSession{}, err
	}

	redirect := ""
	for _, l := range body.Links {
		if l.Rel == "approve" {
			redirect = l.Href
		}
	}

	return CheckoutSession{ProviderID: body.ID, RedirectURL: redirect}, nil
}

func (c *PayPalClient) Capture(ctx context.Context, providerID string) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/checkout/orders/"+url.PathEscape(providerID)+"/capture", strings.NewReader("{}"))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("paypal capture: status %d", resp.StatusCode)
	}
	return nil
}

var _ Client = (*PayPalClient)(nil)
