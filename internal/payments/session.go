package payments

import (
	"context"
	"errors"
	"fmt"
	"log"

	"plume/config"
	"plume/internal/audit"
	"plume/internal/domain"
	"plume/pkg/processor"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrAlreadyPaid     = errors.New("order already paid")
	ErrSessionConflict = errors.New("checkout session already bound")
	ErrSessionCreation = errors.New("payment session creation failed")
)

// Requester is the authenticated caller of checkout creation. The webhook
// path never carries one.
type Requester struct {
	UserID uint
	Email  string
	IP     string
}

type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// SessionInitiator opens checkout sessions against the processor and binds
// them to orders.
type SessionInitiator struct {
	store     OrderStore
	processor processor.Client
	sink      AuditSink
	cfg       *config.ProcessorConfig
}

func NewSessionInitiator(store OrderStore, proc processor.Client, sink AuditSink, cfg *config.ProcessorConfig) *SessionInitiator {
	return &SessionInitiator{store: store, processor: proc, sink: sink, cfg: cfg}
}

// CreateCheckoutSession opens a processor session for the order and binds
// the returned session id. The bind is a compare-and-set: of two concurrent
// calls for the same order at most one succeeds, the loser observes
// ErrSessionConflict and its processor session is left to expire.
func (s *SessionInitiator) CreateCheckoutSession(ctx context.Context, orderID uint, priceRef string, req Requester) (*CheckoutSession, error) {
	order, err := s.store.GetByIDForOwner(orderID, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentPaid {
		s.sink.Record(audit.Entry{
			UserID:     &req.UserID,
			Actor:      "user",
			Action:     domain.ActionCheckoutDenied,
			Resource:   "order",
			ResourceID: order.Number,
			Severity:   domain.SeverityInfo,
			IP:         req.IP,
			Details:    "checkout attempted on paid order",
		})
		return nil, ErrAlreadyPaid
	}
	if order.ProcessorSessionID != nil {
		return nil, ErrSessionConflict
	}

	sess, err := s.processor.CreateCheckoutSession(ctx, processor.CheckoutSessionRequest{
		PriceRef:      priceRef,
		AmountCents:   order.AmountCents,
		Currency:      order.Currency,
		CustomerEmail: req.Email,
		SuccessURL:    s.cfg.SuccessURL,
		CancelURL:     s.cfg.CancelURL,
		// Metadata is the fallback correlation channel for webhook events;
		// the session id stays the primary reconciliation key.
		Metadata: map[string]string{
			"order_number": order.Number,
			"email":        req.Email,
		},
	})
	if err != nil {
		log.Printf("[CHECKOUT] processor session create failed order=%s: %v", order.Number, err)
		return nil, fmt.Errorf("%w: %v", ErrSessionCreation, err)
	}

	claimed, err := s.store.ClaimCheckoutSession(order.ID, sess.SessionID, priceRef)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Lost the race against a concurrent checkout or a webhook; the
		// session just opened is abandoned and expires processor-side.
		log.Printf("[CHECKOUT] session bind lost race order=%s session=%s", order.Number, sess.SessionID)
		return nil, ErrSessionConflict
	}

	s.sink.Record(audit.Entry{
		UserID:     &req.UserID,
		Actor:      "user",
		Action:     domain.ActionCheckoutSession,
		Resource:   "order",
		ResourceID: order.Number,
		Severity:   domain.SeverityInfo,
		IP:         req.IP,
		Details:    fmt.Sprintf("session=%s amount=%d %s", sess.SessionID, order.AmountCents, order.Currency),
	})
	return &CheckoutSession{SessionID: sess.SessionID, URL: sess.URL}, nil
}
