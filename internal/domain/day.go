package domain

import "time"

// Day is one calendar day of a trip's itinerary.
//
// Date is day-granular (midnight UTC); within a trip no two days may share
// the same date — the database enforces unique(trip_id, date) and the
// schedule service never commits a state that violates it.
//
// Items is populated when the day is loaded through DayRepo.ListByTripID and
// is ordered by start time ascending.
type Day struct {
	ID     int64     `json:"id"`
	TripID int64     `json:"trip_id"`
	Date   time.Time `json:"date"`
	Items  []Item    `json:"items"`
}
