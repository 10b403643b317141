package service

import (
	"context"
	"errors"
	"fmt"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/payment"
	"rentonomic-backend/internal/repository"
)

type accountService struct {
	store        repository.Store
	processor    payment.Client
	frontendBase string
}

func NewAccountService(store repository.Store, processor payment.Client, frontendBase string) AccountService {
	return &accountService{
		store:        store,
		processor:    processor,
		frontendBase: frontendBase,
	}
}

func (s *accountService) Ready(ctx context.Context, listerEmail string) (*domain.ConnectedAccount, error) {
	acct, err := s.ensureAccount(ctx, listerEmail)
	if err != nil {
		return nil, err
	}

	// Always re-check live flags: a previously-ready account can fall out of
	// readiness when processor-side requirements change.
	readiness, err := s.processor.GetAccountReadiness(ctx, acct.AccountID)
	if err != nil {
		return nil, err
	}

	acct.ChargesEnabled = readiness.ChargesEnabled
	acct.PayoutsEnabled = readiness.PayoutsEnabled
	acct.DetailsSubmitted = readiness.DetailsSubmitted
	if err := s.store.Accounts().Upsert(ctx, acct); err != nil {
		return nil, err
	}

	if !acct.Ready() {
		url, err := s.onboardingLink(ctx, acct.AccountID)
		if err != nil {
			return nil, err
		}
		return nil, &domain.PaymentNotReadyError{ListerEmail: listerEmail, RemediationURL: url}
	}
	return acct, nil
}

func (s *accountService) OnboardingLink(ctx context.Context, listerEmail string) (string, error) {
	acct, err := s.ensureAccount(ctx, listerEmail)
	if err != nil {
		return "", err
	}
	return s.onboardingLink(ctx, acct.AccountID)
}

// ensureAccount returns the lister's connected account, creating one with the
// processor on first use.
func (s *accountService) ensureAccount(ctx context.Context, listerEmail string) (*domain.ConnectedAccount, error) {
	acct, err := s.store.Accounts().GetByEmail(ctx, listerEmail)
	if err == nil {
		return acct, nil
	}
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}

	accountID, err := s.processor.CreateConnectedAccount(ctx, listerEmail)
	if err != nil {
		return nil, err
	}
	acct = &domain.ConnectedAccount{
		ListerEmail: listerEmail,
		AccountID:   accountID,
	}
	if err := s.store.Accounts().Upsert(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

func (s *accountService) onboardingLink(ctx context.Context, accountID string) (string, error) {
	refreshURL := fmt.Sprintf("%s/dashboard.html?onboarding=refresh", s.frontendBase)
	returnURL := fmt.Sprintf("%s/dashboard.html?onboarding=return", s.frontendBase)
	return s.processor.CreateOnboardingLink(ctx, accountID, refreshURL, returnURL)
}
