package processor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("authorization = %q", got)
		}
		var req CheckoutSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Metadata["order_number"] != "ord_o1" {
			t.Errorf("metadata = %v", req.Metadata)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CheckoutSessionResponse{
			SessionID: "cs_1",
			URL:       "https://pay.example.com/cs_1",
			Status:    "open",
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sk_test")
	resp, err := c.CreateCheckoutSession(context.Background(), CheckoutSessionRequest{
		PriceRef:    "price_std",
		AmountCents: 2000,
		Currency:    "EUR",
		Metadata:    map[string]string{"order_number": "ord_o1"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.SessionID != "cs_1" || resp.URL == "" {
		t.Fatalf("bad response: %+v", resp)
	}
}

func TestCreateCheckoutSessionAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sk_test")
	if _, err := c.CreateCheckoutSession(context.Background(), CheckoutSessionRequest{}); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}

func TestCreateCheckoutSessionEmptySessionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CheckoutSessionResponse{URL: "https://pay.example.com/x"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sk_test")
	if _, err := c.CreateCheckoutSession(context.Background(), CheckoutSessionRequest{}); err == nil {
		t.Fatal("expected error when the processor returns no session id")
	}
}
