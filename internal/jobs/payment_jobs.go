package jobs

import (
	"context"
	"time"

	"rentonomic-backend/internal/logger"
)

// ReconcilePayments sweeps rentals stuck in payment_initiated and asks the
// processor what became of their checkout sessions. A paid or expired session
// is driven through the same idempotent transitions as a webhook delivery, so
// a missed webhook heals on the next sweep.
func (jr *JobRunner) ReconcilePayments() {
	jr.runWithRecovery("ReconcilePayments", func() {
		ctx := context.Background()

		staleAfter := time.Duration(jr.config.Scheduler.StaleAfterMinutes) * time.Minute
		cutoff := time.Now().UTC().Add(-staleAfter)

		rentals, err := jr.store.Rentals().ListStalePaymentInitiated(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale pending payments", "error", err)
			return
		}
		if len(rentals) == 0 {
			return
		}
		logger.Info("Reconciling stale pending payments", "count", len(rentals))

		for _, rt := range rentals {
			state, err := jr.processor.GetCheckoutSession(ctx, rt.CheckoutSessionID)
			if err != nil {
				logger.Error("Failed to fetch checkout session",
					"rental_id", rt.ID, "session_id", rt.CheckoutSessionID, "error", err)
				continue
			}
			if err := jr.webhooks.ApplySessionOutcome(ctx, state); err != nil {
				logger.Error("Failed to apply session outcome",
					"rental_id", rt.ID, "session_id", rt.CheckoutSessionID, "error", err)
			}
		}
	})
}
