package domain

const (
	RoleClient = "CLIENT"
	RoleEditor = "EDITOR"
	RoleAdmin  = "ADMIN"
)

// Payment status of an order. PaymentUnset is the zero value before a
// checkout session has ever been opened.
const (
	PaymentUnset  = ""
	PaymentUnpaid = "UNPAID"
	PaymentPaid   = "PAID"
	PaymentFailed = "FAILED"
)

// Fulfillment status of an order. The payment path only ever moves
// PENDING -> IN_PROGRESS; the rest is staff-driven.
const (
	OrderPending    = "PENDING"
	OrderInProgress = "IN_PROGRESS"
	OrderCompleted  = "COMPLETED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
)

const (
	ServiceCorrection   = "CORRECTION"
	ServiceProofreading = "PROOFREADING"
	ServiceEditing      = "EDITING"
)

const (
	AttachmentManuscript = "MANUSCRIPT"
	AttachmentCorrected  = "CORRECTED"
)

// Audit severities.
const (
	SeverityInfo     = "INFO"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Audit actions recorded by the payment path.
const (
	ActionPaymentCreate         = "PAYMENT_CREATE"
	ActionPaymentFailed         = "COMMAND_PAYMENT_FAILED"
	ActionCheckoutSession       = "CHECKOUT_SESSION_CREATED"
	ActionCheckoutDenied        = "CHECKOUT_DENIED"
	ActionWebhookRejected       = "WEBHOOK_SIGNATURE_REJECTED"
	ActionWebhookUnrecognized   = "WEBHOOK_UNRECOGNIZED_EVENT"
	ActionInvoicePaid           = "PROCESSOR_INVOICE_PAID"
	ActionInvoicePaymentFailed  = "PROCESSOR_INVOICE_PAYMENT_FAILED"
	ActionInvoiceGenerated      = "INVOICE_GENERATED"
	ActionInvoiceGenerateFailed = "INVOICE_GENERATE_FAILED"
	ActionNotifyDispatched      = "NOTIFY_DISPATCHED"
	ActionNotifyFailed          = "NOTIFY_FAILED"
)
