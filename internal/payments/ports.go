// Package payments holds the payment session lifecycle and webhook
// reconciliation engine: session initiation, signature verification, event
// classification, the reconciliation state machine, and side-effect
// dispatch. All durable state lives behind the OrderStore; this package
// keeps no state of its own.
package payments

import (
	"context"

	"plume/internal/audit"
	"plume/internal/models"
)

// OrderStore is the slice of the order repository the payment engine
// consumes. Every mutation is a guarded conditional update; the engine
// never does read-modify-write on order rows.
type OrderStore interface {
	GetByIDForOwner(id, ownerID uint) (*models.Order, error)
	GetBySessionID(sessionID string) (*models.Order, error)
	GetByNumber(number string) (*models.Order, error)
	ClaimCheckoutSession(id uint, sessionID, priceRef string) (bool, error)
	MarkPaid(id uint) (bool, error)
	ConditionalUpdatePaymentStatus(id uint, expected, next string) (bool, error)
}

// AuditSink records fire-and-forget audit entries; implementations must
// never block or surface failures.
type AuditSink interface {
	Record(e audit.Entry)
}

// InvoiceGenerator produces the invoice for a paid order, exactly once per
// order even under concurrent calls.
type InvoiceGenerator interface {
	Generate(ctx context.Context, o *models.Order) (*models.Invoice, error)
}

// Notifier delivers best-effort notifications to a user or to all staff.
// Implementations must honor ctx so a stalled delivery is cut off at the
// dispatcher's timeout.
type Notifier interface {
	Notify(ctx context.Context, userID uint, event, title, body string, data map[string]interface{}) error
	NotifyStaff(ctx context.Context, event, title, body string, data map[string]interface{}) error
}
