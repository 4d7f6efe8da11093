// Package processor is the HTTP client for the external payment processor's
// checkout API. Webhook verification lives in internal/payments; this client
// only opens sessions.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Client opens hosted checkout sessions with the processor.
type Client interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSessionResponse, error)
}

type CheckoutSessionRequest struct {
	PriceRef      string            `json:"price_ref"`
	AmountCents   int64             `json:"amount_cents"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	Metadata      map[string]string `json:"metadata"`
}

type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
	Status    string `json:"status"`
}

// HTTPClient is the production implementation, authenticating with a
// bearer API key.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *HTTPClient) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSessionResponse, error) {
	bodyBytes, _ := json.Marshal(req)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v1/checkout/sessions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	log.Printf("[PROCESSOR] POST /v1/checkout/sessions price_ref=%s order=%s", req.PriceRef, req.Metadata["order_number"])
	resp, err := p.client.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("[PROCESSOR] session create failed status=%d body=%s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("checkout session api: %d", resp.StatusCode)
	}
	var out CheckoutSessionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if out.SessionID == "" {
		return nil, fmt.Errorf("checkout session api: empty session id")
	}
	return &out, nil
}
