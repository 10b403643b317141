package domain

import (
	"time"

	"github.com/google/uuid"
)

type Listing struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	// Location holds the outward postcode only; normalization happens upstream.
	Location         string     `json:"location"`
	PricePerDayPence int64      `json:"price_per_day_pence"`
	ImageURL         string     `json:"image_url"`
	OwnerEmail       string     `json:"owner_email"`
	CreatedAt        time.Time  `json:"created_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

func (l *Listing) Active() bool {
	return l.DeletedAt == nil
}
