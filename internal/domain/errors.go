package domain

import "fmt"

// ValidationError reports a caller-fixable input problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing resource. It is never used to paper over
// authorization failures.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a wrong-state operation. CurrentStatus carries the
// status the caller raced against so they can react.
type ConflictError struct {
	Resource      string
	CurrentStatus string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s is in status %q", e.Resource, e.CurrentStatus)
}

// AuthorizationError reports that the caller may not perform the action. It is
// checked before any resource detail is read so non-participants learn nothing.
type AuthorizationError struct {
	Action string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not allowed to %s", e.Action)
}

// PaymentNotReadyError reports that the lister cannot yet receive funds. It
// always carries a remediation URL, never a bare failure.
type PaymentNotReadyError struct {
	ListerEmail    string
	RemediationURL string
}

func (e *PaymentNotReadyError) Error() string {
	return fmt.Sprintf("lister %s is not ready to receive payments", e.ListerEmail)
}

// UpstreamError reports a payment-processor failure. Retryable, and surfaced
// distinctly from validation/conflict errors.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("payment processor %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// WebhookVerificationError rejects an inbound event whose signature did not
// verify. The wrapped error is logged without payload or secret detail.
type WebhookVerificationError struct {
	Err error
}

func (e *WebhookVerificationError) Error() string {
	return "webhook signature verification failed"
}

func (e *WebhookVerificationError) Unwrap() error { return e.Err }
