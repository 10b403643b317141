package domain

import (
	"time"

	"github.com/google/uuid"
)

// SystemSender is the sender identity recorded on platform-generated messages.
const SystemSender = "system@rentonomic"

// MessageThread is the single conversation channel between a renter and a
// lister about one listing. Threads are created at most once per
// (listing, renter, lister) triple and reused across repeat rental requests.
type MessageThread struct {
	ID          uuid.UUID `json:"id"`
	ListingID   uuid.UUID `json:"listing_id"`
	RenterEmail string    `json:"renter_email"`
	ListerEmail string    `json:"lister_email"`
	// Unlocked is derived on read from the associated rental's status, never
	// stored: a thread is unlocked exactly while a rental for its triple is
	// paid.
	Unlocked  bool      `json:"unlocked"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *MessageThread) HasParticipant(email string) bool {
	return email == t.RenterEmail || email == t.ListerEmail
}

// Message bodies are stored raw and never mutated; redaction is applied at
// serve time while the thread is locked.
type Message struct {
	ID          uuid.UUID `json:"id"`
	ThreadID    uuid.UUID `json:"thread_id"`
	SenderEmail string    `json:"sender_email"`
	Body        string    `json:"body"`
	System      bool      `json:"system"`
	CreatedAt   time.Time `json:"created_at"`
}
