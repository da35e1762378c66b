package domain

import "time"

// Item is a single scheduled entry within a day: a titled block of time with
// optional free-text details. StartTime falls on the owning day's date;
// EndTime is nil for open-ended entries and never precedes StartTime.
type Item struct {
	ID        int64      `json:"id"`
	DayID     int64      `json:"day_id"`
	Title     string     `json:"title"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Location  string     `json:"location,omitempty"`
	Parking   string     `json:"parking,omitempty"`
	Contact   string     `json:"contact,omitempty"`
	Memo      string     `json:"memo,omitempty"`
}
