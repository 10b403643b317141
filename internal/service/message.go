package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/repository"
	"rentonomic-backend/internal/utils"
)

const maxMessageLength = 5000

type messageService struct {
	store repository.Store
}

func NewMessageService(store repository.Store) MessageService {
	return &messageService{store: store}
}

func (s *messageService) ListThreads(ctx context.Context, actor domain.Actor) ([]domain.MessageThread, error) {
	threads, err := s.store.Threads().ListByParticipant(ctx, actor.Email)
	if err != nil {
		return nil, err
	}
	for i := range threads {
		if !threads[i].Unlocked {
			maskThreadCounterpart(&threads[i], actor.Email)
		}
	}
	return threads, nil
}

func (s *messageService) ReadMessages(ctx context.Context, actor domain.Actor, threadID uuid.UUID) (*domain.MessageThread, []domain.Message, error) {
	thread, err := s.store.Threads().GetByID(ctx, threadID)
	if err != nil {
		return nil, nil, err
	}
	if !thread.HasParticipant(actor.Email) && !actor.Admin {
		return nil, nil, &domain.AuthorizationError{Action: "read this conversation"}
	}

	msgs, err := s.store.Threads().ListMessages(ctx, threadID)
	if err != nil {
		return nil, nil, err
	}

	// Stored bodies are raw; while the thread is locked they pass through the
	// redactor on the way out and the counterpart's email is masked.
	if !thread.Unlocked {
		for i := range msgs {
			if msgs[i].System {
				continue
			}
			msgs[i].Body = utils.RedactContactDetails(msgs[i].Body)
			if msgs[i].SenderEmail != actor.Email {
				msgs[i].SenderEmail = utils.MaskEmail(msgs[i].SenderEmail)
			}
		}
		maskThreadCounterpart(thread, actor.Email)
	}
	return thread, msgs, nil
}

func (s *messageService) PostMessage(ctx context.Context, actor domain.Actor, threadID uuid.UUID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &domain.ValidationError{Field: "body", Reason: "must not be empty"}
	}
	if len(body) > maxMessageLength {
		return nil, &domain.ValidationError{Field: "body", Reason: "too long"}
	}

	thread, err := s.store.Threads().GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(actor.Email) {
		return nil, &domain.AuthorizationError{Action: "post to this conversation"}
	}

	// Posting is allowed while locked; the body is stored verbatim and only
	// redacted when served to a locked reader.
	msg := &domain.Message{
		ThreadID:    threadID,
		SenderEmail: actor.Email,
		Body:        body,
	}
	if err := s.store.Threads().InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	if !thread.Unlocked {
		out := *msg
		out.Body = utils.RedactContactDetails(out.Body)
		return &out, nil
	}
	return msg, nil
}

func maskThreadCounterpart(t *domain.MessageThread, viewerEmail string) {
	if t.RenterEmail != viewerEmail {
		t.RenterEmail = utils.MaskEmail(t.RenterEmail)
	}
	if t.ListerEmail != viewerEmail {
		t.ListerEmail = utils.MaskEmail(t.ListerEmail)
	}
}
