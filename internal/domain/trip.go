// Package domain contains the core data types for the Voyage CMS backend.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Trip is the top-level aggregate: a titled itinerary identified publicly by
// its slug. Days belong to a trip and carry the actual schedule.
type Trip struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TripSummary is the list-view projection of a trip. StartDate and EndDate
// are derived from the trip's first and last day; both are nil for a trip
// with no days yet.
type TripSummary struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// TripDetail is a trip together with its full day/item schedule, ordered by
// date ascending and item start time ascending. It is what every schedule
// mutation returns so the caller always sees a consistent view.
type TripDetail struct {
	Trip
	Days []Day `json:"days"`
}
