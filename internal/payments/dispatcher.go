package payments

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"plume/internal/audit"
	"plume/internal/domain"
	"plume/internal/models"
)

// Dispatcher runs post-payment side effects. Each effect gets its own
// goroutine and timeout; one failing never blocks the others, the order
// mutation, or the webhook acknowledgment. Every attempt is audited with
// enough context for manual reconciliation.
type Dispatcher struct {
	invoices InvoiceGenerator
	notifier Notifier
	sink     AuditSink
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(invoices InvoiceGenerator, notifier Notifier, sink AuditSink, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{invoices: invoices, notifier: notifier, sink: sink, timeout: timeout}
}

// PaymentSucceeded dispatches invoice generation plus client and staff
// notifications for a freshly paid order. Callers must only invoke this
// when the paid transition actually happened (the CAS changed the row).
func (d *Dispatcher) PaymentSucceeded(order *models.Order) {
	o := *order // detach from the caller's row

	d.run(func(ctx context.Context) {
		inv, err := d.invoices.Generate(ctx, &o)
		if err != nil {
			log.Printf("[DISPATCH] invoice generation failed order=%s: %v", o.Number, err)
			d.sink.Record(audit.Entry{
				UserID:     &o.OwnerID,
				Actor:      "system",
				Action:     domain.ActionInvoiceGenerateFailed,
				Resource:   "order",
				ResourceID: o.Number,
				Severity:   domain.SeverityHigh,
				Details:    fmt.Sprintf("session=%s amount=%d err=%v", sessionRef(&o), o.AmountCents, err),
			})
			return
		}
		d.sink.Record(audit.Entry{
			UserID:     &o.OwnerID,
			Actor:      "system",
			Action:     domain.ActionInvoiceGenerated,
			Resource:   "invoice",
			ResourceID: inv.Number,
			Severity:   domain.SeverityInfo,
			Details:    fmt.Sprintf("order=%s session=%s amount=%d", o.Number, sessionRef(&o), o.AmountCents),
		})
	})

	d.run(func(ctx context.Context) {
		err := d.notifier.Notify(ctx, o.OwnerID, "payment.confirmed", "Payment received",
			fmt.Sprintf("Your payment for order %s was received. Work starts now.", o.Number),
			map[string]interface{}{"order_id": o.ID, "order_number": o.Number, "amount_cents": o.AmountCents})
		d.auditNotify(&o, "client", err)
	})

	d.run(func(ctx context.Context) {
		err := d.notifier.NotifyStaff(ctx, "order.paid", "Order paid",
			fmt.Sprintf("Order %s is paid and ready for correction.", o.Number),
			map[string]interface{}{"order_id": o.ID, "order_number": o.Number, "amount_cents": o.AmountCents})
		d.auditNotify(&o, "staff", err)
	})
}

func (d *Dispatcher) auditNotify(o *models.Order, recipient string, err error) {
	action := domain.ActionNotifyDispatched
	severity := domain.SeverityInfo
	details := fmt.Sprintf("recipient=%s order=%s session=%s amount=%d", recipient, o.Number, sessionRef(o), o.AmountCents)
	if err != nil {
		log.Printf("[DISPATCH] %s notification failed order=%s: %v", recipient, o.Number, err)
		action = domain.ActionNotifyFailed
		severity = domain.SeverityHigh
		details += " err=" + err.Error()
	}
	d.sink.Record(audit.Entry{
		UserID:     &o.OwnerID,
		Actor:      "system",
		Action:     action,
		Resource:   "order",
		ResourceID: o.Number,
		Severity:   severity,
		Details:    details,
	})
}

func (d *Dispatcher) run(fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until all in-flight side effects finish. Used on shutdown
// and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func sessionRef(o *models.Order) string {
	if o.ProcessorSessionID == nil {
		return ""
	}
	return *o.ProcessorSessionID
}
