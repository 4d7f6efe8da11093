package handler

import (
	"errors"
	"io"
	"net/http"

	"plume/internal/audit"
	"plume/internal/domain"
	"plume/internal/payments"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the processor's hex HMAC-SHA256 of the raw body.
const SignatureHeader = "X-Processor-Signature"

type PaymentWebhookHandler struct {
	verifier   *payments.Verifier
	reconciler *payments.Reconciler
	sink       *audit.Sink
}

func NewPaymentWebhookHandler(verifier *payments.Verifier, reconciler *payments.Reconciler, sink *audit.Sink) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{verifier: verifier, reconciler: reconciler, sink: sink}
}

// Handle processes one webhook delivery: verify over the raw bytes,
// classify, reconcile, acknowledge. Only the verify/classify/mutate steps
// run synchronously; side effects are dispatched and the response returned
// before they finish.
// POST /api/v1/payments/webhook
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	sig := c.GetHeader(SignatureHeader)
	if err := h.verifier.Verify(body, sig); err != nil {
		// Forged payment confirmations land here; always audited, never
		// silently passed through.
		h.sink.Record(audit.Entry{
			Actor:     "processor",
			Action:    domain.ActionWebhookRejected,
			Resource:  "webhook_event",
			Severity:  domain.SeverityCritical,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Details:   "missing or invalid signature",
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	ev, err := payments.Classify(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
		return
	}

	err = h.reconciler.Apply(ev, payments.Source{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true, "event_id": ev.EventID(), "event_type": ev.Kind()})
	case errors.Is(err, payments.ErrOrderNotFound):
		// Non-2xx makes the processor redeliver, which is what we want for
		// a completion event that raced the session bind.
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
	}
}
