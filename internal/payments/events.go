package payments

import (
	"encoding/json"
	"errors"
)

// Wire-level event types pushed by the processor. The processor adds new
// types over time without warning; anything else classifies as Unrecognized.
const (
	typeSessionCompleted     = "checkout.session.completed"
	typePaymentFailed        = "payment_intent.payment_failed"
	typeInvoicePaid          = "invoice.paid"
	typeInvoicePaymentFailed = "invoice.payment_failed"
)

var ErrMalformedEvent = errors.New("malformed webhook event")

// Event is the closed set of webhook events the reconciler understands.
// The unexported marker keeps the set closed to this package.
type Event interface {
	EventID() string
	Kind() string
	isEvent()
}

type SessionCompleted struct {
	ID            string
	SessionID     string
	AmountTotal   int64
	Currency      string
	OrderNumber   string // metadata cross-check, session id stays the canonical key
	CustomerEmail string
}

type PaymentFailed struct {
	ID          string
	IntentID    string
	OrderNumber string // canonical key for failure events
	Reason      string
}

type InvoicePaid struct {
	ID         string
	InvoiceID  string
	AmountPaid int64
}

type InvoicePaymentFailed struct {
	ID        string
	InvoiceID string
	AmountDue int64
}

type Unrecognized struct {
	ID      string
	RawType string
}

func (e SessionCompleted) EventID() string     { return e.ID }
func (e PaymentFailed) EventID() string        { return e.ID }
func (e InvoicePaid) EventID() string          { return e.ID }
func (e InvoicePaymentFailed) EventID() string { return e.ID }
func (e Unrecognized) EventID() string         { return e.ID }

func (SessionCompleted) Kind() string     { return typeSessionCompleted }
func (PaymentFailed) Kind() string        { return typePaymentFailed }
func (InvoicePaid) Kind() string          { return typeInvoicePaid }
func (InvoicePaymentFailed) Kind() string { return typeInvoicePaymentFailed }
func (e Unrecognized) Kind() string       { return e.RawType }

func (SessionCompleted) isEvent()     {}
func (PaymentFailed) isEvent()        {}
func (InvoicePaid) isEvent()          {}
func (InvoicePaymentFailed) isEvent() {}
func (Unrecognized) isEvent()         {}

// envelope is the processor's webhook wire format.
type envelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type sessionObject struct {
	ID            string            `json:"id"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

type intentObject struct {
	ID               string            `json:"id"`
	Metadata         map[string]string `json:"metadata"`
	LastPaymentError struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

type invoiceObject struct {
	ID         string `json:"id"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
}

// Classify parses a verified payload into a typed event. Callers must have
// verified the signature first; Classify trusts its input's origin, not its
// shape.
func Classify(payload []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, ErrMalformedEvent
	}
	if env.Type == "" {
		return nil, ErrMalformedEvent
	}
	switch env.Type {
	case typeSessionCompleted:
		var obj sessionObject
		if err := json.Unmarshal(env.Data.Object, &obj); err != nil || obj.ID == "" {
			return nil, ErrMalformedEvent
		}
		return SessionCompleted{
			ID:            env.ID,
			SessionID:     obj.ID,
			AmountTotal:   obj.AmountTotal,
			Currency:      obj.Currency,
			OrderNumber:   obj.Metadata["order_number"],
			CustomerEmail: obj.CustomerEmail,
		}, nil
	case typePaymentFailed:
		var obj intentObject
		if err := json.Unmarshal(env.Data.Object, &obj); err != nil || obj.ID == "" {
			return nil, ErrMalformedEvent
		}
		reason := obj.LastPaymentError.Message
		if reason == "" {
			reason = obj.LastPaymentError.Code
		}
		return PaymentFailed{
			ID:          env.ID,
			IntentID:    obj.ID,
			OrderNumber: obj.Metadata["order_number"],
			Reason:      reason,
		}, nil
	case typeInvoicePaid:
		var obj invoiceObject
		if err := json.Unmarshal(env.Data.Object, &obj); err != nil || obj.ID == "" {
			return nil, ErrMalformedEvent
		}
		return InvoicePaid{ID: env.ID, InvoiceID: obj.ID, AmountPaid: obj.AmountPaid}, nil
	case typeInvoicePaymentFailed:
		var obj invoiceObject
		if err := json.Unmarshal(env.Data.Object, &obj); err != nil || obj.ID == "" {
			return nil, ErrMalformedEvent
		}
		return InvoicePaymentFailed{ID: env.ID, InvoiceID: obj.ID, AmountDue: obj.AmountDue}, nil
	default:
		return Unrecognized{ID: env.ID, RawType: env.Type}, nil
	}
}
