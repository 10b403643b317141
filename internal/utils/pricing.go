package utils

import (
	"fmt"
	"time"
)

// Quote is a rental price breakdown in minor currency units (pence).
// RenterTotalPence == BaseTotalPence + PlatformFeePence always holds exactly;
// the fee is derived by subtraction after rounding the renter total, so no
// residual unit can drift between the three figures.
type Quote struct {
	BaseTotalPence   int64
	RenterTotalPence int64
	PlatformFeePence int64
}

const dateLayout = "2006-01-02"

// RentalDays returns the chargeable duration for a yyyy-mm-dd date range,
// counting both the start and the end day. End must be on/after start.
func RentalDays(startDate, endDate string) (int64, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date %q: expected yyyy-mm-dd", startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date %q: expected yyyy-mm-dd", endDate)
	}
	if end.Before(start) {
		return 0, fmt.Errorf("end date must be on/after start date")
	}
	return int64(end.Sub(start).Hours()/24) + 1, nil
}

// Price computes the rental totals. basePerDayPence and days are integers,
// feeBps is the platform fee rate in basis points (1000 = 10%). The renter
// total is rounded half-up to the nearest penny; the platform fee is whatever
// remains above the base total.
func Price(basePerDayPence int64, days int64, feeBps int64) (Quote, error) {
	if basePerDayPence < 0 {
		return Quote{}, fmt.Errorf("base price must be >= 0")
	}
	if days < 1 {
		return Quote{}, fmt.Errorf("duration must be at least 1 day")
	}
	if feeBps < 0 {
		return Quote{}, fmt.Errorf("fee rate must be >= 0")
	}

	baseTotal := basePerDayPence * days
	renterTotal := (baseTotal*(10000+feeBps) + 5000) / 10000

	return Quote{
		BaseTotalPence:   baseTotal,
		RenterTotalPence: renterTotal,
		PlatformFeePence: renterTotal - baseTotal,
	}, nil
}
