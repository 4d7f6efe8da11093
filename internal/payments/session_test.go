package payments

import (
	"context"
	"errors"
	"sync"
	"testing"

	"plume/config"
	"plume/internal/domain"
	"plume/internal/models"
	"plume/pkg/processor"
)

type fakeProcessor struct {
	mu       sync.Mutex
	calls    int
	fail     bool
	lastMeta map[string]string
}

func (p *fakeProcessor) CreateCheckoutSession(ctx context.Context, req processor.CheckoutSessionRequest) (*processor.CheckoutSessionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastMeta = req.Metadata
	if p.fail {
		return nil, errors.New("processor 503")
	}
	return &processor.CheckoutSessionResponse{SessionID: "cs_new", URL: "https://checkout.example.com/cs_new"}, nil
}

func procCfg() *config.ProcessorConfig {
	return &config.ProcessorConfig{
		SuccessURL: "https://plume.example.com/ok",
		CancelURL:  "https://plume.example.com/ko",
	}
}

func unpricedOrder() *models.Order {
	return &models.Order{
		ID:          1,
		Number:      "ord_o1",
		OwnerID:     42,
		AmountCents: 2000,
		Currency:    "EUR",
		Status:      domain.OrderPending,
	}
}

func TestCreateCheckoutSessionBindsOrder(t *testing.T) {
	store := newMemStore(unpricedOrder())
	proc := &fakeProcessor{}
	s := NewSessionInitiator(store, proc, &recordSink{}, procCfg())

	sess, err := s.CreateCheckoutSession(context.Background(), 1, "price_std", Requester{UserID: 42, Email: "client@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.SessionID != "cs_new" || sess.URL == "" {
		t.Fatalf("bad session: %+v", sess)
	}
	o := store.get(1)
	if o.PaymentStatus != domain.PaymentUnpaid {
		t.Fatalf("payment status = %q, want UNPAID", o.PaymentStatus)
	}
	if o.ProcessorSessionID == nil || *o.ProcessorSessionID != "cs_new" {
		t.Fatalf("session id not bound: %+v", o)
	}
	if proc.lastMeta["order_number"] != "ord_o1" {
		t.Fatalf("order number missing from session metadata: %v", proc.lastMeta)
	}
}

func TestCreateCheckoutSessionRejectsForeignOrder(t *testing.T) {
	store := newMemStore(unpricedOrder())
	proc := &fakeProcessor{}
	s := NewSessionInitiator(store, proc, &recordSink{}, procCfg())

	// Wrong owner and missing order must be indistinguishable.
	if _, err := s.CreateCheckoutSession(context.Background(), 1, "price_std", Requester{UserID: 7}); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign order: expected ErrOrderNotFound, got %v", err)
	}
	if _, err := s.CreateCheckoutSession(context.Background(), 99, "price_std", Requester{UserID: 42}); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order: expected ErrOrderNotFound, got %v", err)
	}
	if proc.calls != 0 {
		t.Fatalf("processor must not be called, got %d calls", proc.calls)
	}
}

func TestCreateCheckoutSessionRejectsPaidOrder(t *testing.T) {
	o := unpricedOrder()
	o.PaymentStatus = domain.PaymentPaid
	store := newMemStore(o)
	proc := &fakeProcessor{}
	s := NewSessionInitiator(store, proc, &recordSink{}, procCfg())

	_, err := s.CreateCheckoutSession(context.Background(), 1, "price_std", Requester{UserID: 42})
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
	if proc.calls != 0 {
		t.Fatalf("no processor call may happen for a paid order, got %d", proc.calls)
	}
}

func TestCreateCheckoutSessionRejectsBoundSession(t *testing.T) {
	o := unpricedOrder()
	sid := "cs_old"
	o.ProcessorSessionID = &sid
	o.PaymentStatus = domain.PaymentUnpaid
	store := newMemStore(o)
	proc := &fakeProcessor{}
	s := NewSessionInitiator(store, proc, &recordSink{}, procCfg())

	_, err := s.CreateCheckoutSession(context.Background(), 1, "price_std", Requester{UserID: 42})
	if !errors.Is(err, ErrSessionConflict) {
		t.Fatalf("expected ErrSessionConflict, got %v", err)
	}
	if proc.calls != 0 {
		t.Fatalf("no processor call for an already bound order, got %d", proc.calls)
	}
}

func TestCreateCheckoutSessionProcessorFailure(t *testing.T) {
	store := newMemStore(unpricedOrder())
	s := NewSessionInitiator(store, &fakeProcessor{fail: true}, &recordSink{}, procCfg())

	_, err := s.CreateCheckoutSession(context.Background(), 1, "price_std", Requester{UserID: 42})
	if !errors.Is(err, ErrSessionCreation) {
		t.Fatalf("expected ErrSessionCreation, got %v", err)
	}
	o := store.get(1)
	if o.PaymentStatus != domain.PaymentUnset || o.ProcessorSessionID != nil {
		t.Fatalf("order must stay untouched after processor failure: %+v", o)
	}
}

func TestConcurrentCheckoutsBindAtMostOne(t *testing.T) {
	store := newMemStore(unpricedOrder())
	s := NewSessionInitiator(store, &fakeProcessor{}, &recordSink{}, procCfg())

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateCheckoutSession(context.Background(), 1, "price_std", Requester{UserID: 42})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSessionConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("exactly one checkout may bind a session, got %d", ok)
	}
	o := store.get(1)
	if o.ProcessorSessionID == nil || o.PaymentStatus != domain.PaymentUnpaid {
		t.Fatalf("winner's bind missing: %+v", o)
	}
}
