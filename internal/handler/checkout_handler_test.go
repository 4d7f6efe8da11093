package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"plume/config"
	"plume/internal/audit"
	"plume/internal/domain"
	"plume/internal/models"
	"plume/internal/payments"
	"plume/pkg/processor"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type fakeUsers struct {
	users map[uint]*models.User
}

func (f *fakeUsers) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

type countingProcessor struct {
	mu    sync.Mutex
	calls int
}

func (p *countingProcessor) CreateCheckoutSession(ctx context.Context, req processor.CheckoutSessionRequest) (*processor.CheckoutSessionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return &processor.CheckoutSessionResponse{SessionID: "cs_new", URL: "https://pay.example.com/cs_new", Status: "open"}, nil
}

func (p *countingProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type checkoutFixture struct {
	router *gin.Engine
	store  *webhookOrderStore
	rows   *auditRows
	sink   *audit.Sink
	proc   *countingProcessor
}

func newCheckoutFixture(t *testing.T, order *models.Order, caller *models.User) *checkoutFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &webhookOrderStore{order: order}
	rows := &auditRows{}
	sink := audit.NewSink(rows, 64)
	proc := &countingProcessor{}
	initiator := payments.NewSessionInitiator(store, proc, sink, &config.ProcessorConfig{
		SuccessURL: "https://plume.example.com/checkout/success",
		CancelURL:  "https://plume.example.com/checkout/cancel",
	})
	users := &fakeUsers{users: map[uint]*models.User{caller.ID: caller}}
	h := NewCheckoutHandler(initiator, users, sink)

	r := gin.New()
	r.POST("/api/v1/orders/:id/checkout", func(c *gin.Context) {
		c.Set("user_id", caller.ID)
		c.Next()
	}, h.Create)
	return &checkoutFixture{router: r, store: store, rows: rows, sink: sink, proc: proc}
}

func (f *checkoutFixture) post(t *testing.T, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func unpaidOrder() *models.Order {
	return &models.Order{
		ID:          1,
		Number:      "ord_o1",
		OwnerID:     42,
		AmountCents: 2000,
		Currency:    "EUR",
		Status:      domain.OrderPending,
	}
}

func activeCaller() *models.User {
	return &models.User{ID: 42, Email: "client@example.com", Role: domain.RoleClient, Active: true}
}

func TestCheckoutCreatesAndBindsSession(t *testing.T) {
	f := newCheckoutFixture(t, unpaidOrder(), activeCaller())

	w := f.post(t, "/api/v1/orders/1/checkout", []byte(`{"price_ref":"price_std"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if f.proc.count() != 1 {
		t.Fatalf("processor calls = %d, want 1", f.proc.count())
	}
	o := f.store.order
	if o.ProcessorSessionID == nil || *o.ProcessorSessionID != "cs_new" {
		t.Fatalf("session not bound to order: %+v", o.ProcessorSessionID)
	}
	if o.PaymentStatus != domain.PaymentUnpaid {
		t.Fatalf("payment status = %q, want %q", o.PaymentStatus, domain.PaymentUnpaid)
	}
}

func TestCheckoutInactiveAccountRejectedBeforeBodyParsing(t *testing.T) {
	caller := activeCaller()
	caller.Active = false
	f := newCheckoutFixture(t, unpaidOrder(), caller)

	// The body is missing price_ref on purpose: an inactive account must
	// see 401 before the payload is ever looked at.
	w := f.post(t, "/api/v1/orders/1/checkout", []byte(`{}`))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if f.proc.count() != 0 {
		t.Fatalf("processor calls = %d, want 0", f.proc.count())
	}
	f.sink.Close()
	if f.rows.countAction("CHECKOUT_UNAUTHORIZED") != 1 {
		t.Fatal("expected an unauthorized-checkout audit entry")
	}
}

func TestCheckoutMissingPriceRefRejectedForActiveAccount(t *testing.T) {
	f := newCheckoutFixture(t, unpaidOrder(), activeCaller())

	w := f.post(t, "/api/v1/orders/1/checkout", []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if f.proc.count() != 0 {
		t.Fatalf("processor calls = %d, want 0", f.proc.count())
	}
}

func TestCheckoutPaidOrderRejected(t *testing.T) {
	o := unpaidOrder()
	o.PaymentStatus = domain.PaymentPaid
	f := newCheckoutFixture(t, o, activeCaller())

	w := f.post(t, "/api/v1/orders/1/checkout", []byte(`{"price_ref":"price_std"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
	if f.proc.count() != 0 {
		t.Fatalf("processor calls = %d, want 0", f.proc.count())
	}
}
