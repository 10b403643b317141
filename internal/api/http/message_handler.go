package http

import (
	"net/http"

	"github.com/google/uuid"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/service"
)

type MessageHandler struct {
	messages service.MessageService
}

func NewMessageHandler(messages service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.messages.ListThreads(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

type threadMessagesResponse struct {
	Thread   *domain.MessageThread `json:"thread"`
	Messages []domain.Message      `json:"messages"`
}

func (h *MessageHandler) ReadMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	thread, msgs, err := h.messages.ReadMessages(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, threadMessagesResponse{Thread: thread, Messages: msgs})
}

type postMessageRequest struct {
	ThreadID string `json:"thread_id"`
	Body     string `json:"body"`
}

func (h *MessageHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	threadID, err := uuid.Parse(req.ThreadID)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "thread_id", Reason: "must be a uuid"})
		return
	}
	msg, err := h.messages.PostMessage(r.Context(), actorFrom(r), threadID, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
