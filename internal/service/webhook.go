package service

import (
	"context"
	"errors"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/logger"
	"rentonomic-backend/internal/payment"
	"rentonomic-backend/internal/repository"
)

const paymentConfirmedBody = "Payment confirmed. Messaging unlocked."

type webhookService struct {
	store     repository.Store
	processor payment.Client
	emailSvc  EmailService
}

func NewWebhookService(store repository.Store, processor payment.Client, emailSvc EmailService) WebhookService {
	return &webhookService{
		store:     store,
		processor: processor,
		emailSvc:  emailSvc,
	}
}

func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.processor.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		return err
	}

	switch event.Kind {
	case payment.EventCheckoutCompleted:
		return s.applyPaid(ctx, event.SessionID, event.PaymentRef)
	case payment.EventCheckoutExpired:
		return s.applyTerminal(ctx, event.SessionID, domain.RentalStatusExpired)
	case payment.EventCheckoutPaymentFailed:
		return s.applyTerminal(ctx, event.SessionID, domain.RentalStatusFailed)
	default:
		logger.Debug("ignoring unhandled webhook event", "type", event.Type)
		return nil
	}
}

func (s *webhookService) ApplySessionOutcome(ctx context.Context, state payment.SessionState) error {
	switch {
	case state.Paid:
		return s.applyPaid(ctx, state.ID, state.PaymentRef)
	case state.Expired:
		return s.applyTerminal(ctx, state.ID, domain.RentalStatusExpired)
	default:
		return nil
	}
}

// applyPaid marks the rental paid, unlocks messaging via the rental row itself
// and posts the system message, all in one transaction keyed on the session
// id. Delivered twice, the second run observes status paid and does nothing.
func (s *webhookService) applyPaid(ctx context.Context, sessionID, paymentRef string) error {
	var (
		rt      *domain.Rental
		applied bool
	)
	err := s.store.WithinTx(ctx, func(txs repository.Store) error {
		var err error
		rt, err = txs.Rentals().GetBySessionIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if rt.Status == domain.RentalStatusPaid {
			return nil
		}

		ok, err := txs.Rentals().MarkPaid(ctx, rt.ID, paymentRef)
		if err != nil {
			return err
		}
		if !ok {
			// Not payment_initiated and not paid: a terminal state won the race.
			logger.Warn("payment event for rental not awaiting payment",
				"rental_id", rt.ID, "status", rt.Status, "session_id", sessionID)
			return nil
		}

		thread, err := txs.Threads().Ensure(ctx, rt.ListingID, rt.RenterEmail, rt.ListerEmail)
		if err != nil {
			return err
		}
		if err := txs.Threads().InsertMessage(ctx, &domain.Message{
			ThreadID:    thread.ID,
			SenderEmail: domain.SystemSender,
			Body:        paymentConfirmedBody,
			System:      true,
		}); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			// No rental references this session. Accept and ignore so the
			// processor stops retrying.
			logger.Info("payment event for unknown checkout session", "session_id", sessionID)
			return nil
		}
		return err
	}

	// Notifications go out only on the run that performed the transition, and
	// only after commit.
	if applied {
		if listing, lerr := s.store.Listings().GetByID(ctx, rt.ListingID); lerr == nil {
			_ = s.emailSvc.SendPaymentConfirmedNotification(ctx, rt.RenterEmail, listing.Name, rt.Pricing.RenterTotalPence)
			_ = s.emailSvc.SendPaymentConfirmedNotification(ctx, rt.ListerEmail, listing.Name, rt.Pricing.RenterTotalPence)
		}
	}
	return nil
}

func (s *webhookService) applyTerminal(ctx context.Context, sessionID string, to domain.RentalStatus) error {
	err := s.store.WithinTx(ctx, func(txs repository.Store) error {
		rt, err := txs.Rentals().GetBySessionIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if rt.Status.IsTerminal() {
			return nil
		}
		ok, err := txs.Rentals().UpdateStatusIf(ctx, rt.ID, domain.RentalStatusPaymentInitiated, to)
		if err != nil {
			return err
		}
		if !ok {
			logger.Warn("terminal payment event for rental not awaiting payment",
				"rental_id", rt.ID, "status", rt.Status, "session_id", sessionID)
		}
		return nil
	})
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		logger.Info("payment event for unknown checkout session", "session_id", sessionID)
		return nil
	}
	return err
}
