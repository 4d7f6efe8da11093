package processor

import (
	"context"

	"github.com/google/uuid"
)

// StubClient fakes the processor for local development: every session is
// created instantly with a synthetic id and a placeholder redirect URL.
type StubClient struct {
	CheckoutBase string
}

func NewStubClient() *StubClient {
	return &StubClient{CheckoutBase: "https://checkout.invalid/session"}
}

func (s *StubClient) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSessionResponse, error) {
	id := "cs_stub_" + uuid.New().String()
	return &CheckoutSessionResponse{
		SessionID: id,
		URL:       s.CheckoutBase + "/" + id,
		Status:    "open",
	}, nil
}
