package payments

import (
	"errors"
	"fmt"
	"log"

	"plume/internal/audit"
	"plume/internal/domain"

	"gorm.io/gorm"
)

// ErrStoreFailure marks transient storage errors; the webhook handler maps
// it to a 500 so the processor redelivers.
var ErrStoreFailure = errors.New("order store update failed")

// Source describes where a webhook delivery came from, for audit entries.
type Source struct {
	IP        string
	UserAgent string
}

// Reconciler applies classified webhook events to order state. The
// idempotency key is the order's payment status itself: mutations are
// compare-and-set, and side effects fire only when a CAS actually changed
// the row, so redeliveries and racing duplicate deliveries produce exactly
// one dispatch.
type Reconciler struct {
	store      OrderStore
	dispatcher *Dispatcher
	sink       AuditSink
}

func NewReconciler(store OrderStore, dispatcher *Dispatcher, sink AuditSink) *Reconciler {
	return &Reconciler{store: store, dispatcher: dispatcher, sink: sink}
}

// Apply runs one event through the transition table. A nil error means the
// delivery is acknowledged; ErrOrderNotFound and ErrStoreFailure are the
// only retryable outcomes.
func (r *Reconciler) Apply(ev Event, src Source) error {
	switch e := ev.(type) {
	case SessionCompleted:
		return r.applySessionCompleted(e, src)
	case PaymentFailed:
		return r.applyPaymentFailed(e, src)
	case InvoicePaid:
		r.sink.Record(audit.Entry{
			Actor:      "processor",
			Action:     domain.ActionInvoicePaid,
			Resource:   "processor_invoice",
			ResourceID: e.InvoiceID,
			Severity:   domain.SeverityInfo,
			IP:         src.IP,
			UserAgent:  src.UserAgent,
			Details:    fmt.Sprintf("event=%s amount_paid=%d", e.ID, e.AmountPaid),
		})
		return nil
	case InvoicePaymentFailed:
		r.sink.Record(audit.Entry{
			Actor:      "processor",
			Action:     domain.ActionInvoicePaymentFailed,
			Resource:   "processor_invoice",
			ResourceID: e.InvoiceID,
			Severity:   domain.SeverityHigh,
			IP:         src.IP,
			UserAgent:  src.UserAgent,
			Details:    fmt.Sprintf("event=%s amount_due=%d", e.ID, e.AmountDue),
		})
		return nil
	case Unrecognized:
		log.Printf("[WEBHOOK] unrecognized event type=%q id=%s, acknowledging", e.RawType, e.ID)
		r.sink.Record(audit.Entry{
			Actor:      "processor",
			Action:     domain.ActionWebhookUnrecognized,
			Resource:   "webhook_event",
			ResourceID: e.ID,
			Severity:   domain.SeverityInfo,
			IP:         src.IP,
			UserAgent:  src.UserAgent,
			Details:    "type=" + e.RawType,
		})
		return nil
	default:
		// The event set is closed; reaching this is a programming error.
		return fmt.Errorf("unhandled event type %T", ev)
	}
}

func (r *Reconciler) applySessionCompleted(e SessionCompleted, src Source) error {
	order, err := r.store.GetBySessionID(e.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The session bind may not be visible yet; a 404 makes the
			// processor retry the delivery.
			log.Printf("[WEBHOOK] no order for session=%s event=%s", e.SessionID, e.ID)
			return ErrOrderNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if e.OrderNumber != "" && e.OrderNumber != order.Number {
		log.Printf("[WEBHOOK] metadata order mismatch: session=%s bound=%s metadata=%s", e.SessionID, order.Number, e.OrderNumber)
	}
	if e.AmountTotal != 0 && e.AmountTotal != order.AmountCents {
		log.Printf("[WEBHOOK] amount mismatch order=%s expected=%d got=%d", order.Number, order.AmountCents, e.AmountTotal)
	}

	changed, err := r.store.MarkPaid(order.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if !changed {
		// Redelivery of an already-applied payment: acknowledge without
		// re-triggering invoice or notifications.
		log.Printf("[WEBHOOK] order=%s already paid, event=%s is a no-op", order.Number, e.ID)
		return nil
	}

	log.Printf("[WEBHOOK] order=%s marked paid, session=%s event=%s", order.Number, e.SessionID, e.ID)
	r.sink.Record(audit.Entry{
		UserID:     &order.OwnerID,
		Actor:      "processor",
		Action:     domain.ActionPaymentCreate,
		Resource:   "order",
		ResourceID: order.Number,
		Severity:   domain.SeverityInfo,
		IP:         src.IP,
		UserAgent:  src.UserAgent,
		Details:    fmt.Sprintf("event=%s session=%s amount=%d %s", e.ID, e.SessionID, e.AmountTotal, e.Currency),
	})
	r.dispatcher.PaymentSucceeded(order)
	return nil
}

func (r *Reconciler) applyPaymentFailed(e PaymentFailed, src Source) error {
	if e.OrderNumber == "" {
		log.Printf("[WEBHOOK] payment failed event=%s carries no order metadata, acknowledging", e.ID)
		return nil
	}
	order, err := r.store.GetByNumber(e.OrderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to act on; retrying would not help, so acknowledge.
			log.Printf("[WEBHOOK] payment failed for unknown order=%s event=%s", e.OrderNumber, e.ID)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	changed, err := r.store.ConditionalUpdatePaymentStatus(order.ID, domain.PaymentUnpaid, domain.PaymentFailed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if !changed {
		// Already terminal: either a redelivered failure or a success that
		// must never be overwritten.
		log.Printf("[WEBHOOK] order=%s payment status unchanged by failure event=%s", order.Number, e.ID)
		return nil
	}

	log.Printf("[WEBHOOK] order=%s marked payment failed: %s", order.Number, e.Reason)
	r.sink.Record(audit.Entry{
		UserID:     &order.OwnerID,
		Actor:      "processor",
		Action:     domain.ActionPaymentFailed,
		Resource:   "order",
		ResourceID: order.Number,
		Severity:   domain.SeverityHigh,
		IP:         src.IP,
		UserAgent:  src.UserAgent,
		Details:    fmt.Sprintf("event=%s intent=%s reason=%s", e.ID, e.IntentID, e.Reason),
	})
	return nil
}
