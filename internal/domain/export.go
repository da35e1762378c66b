package domain

// ExportRow is a single row in a trip's itinerary export: a flat,
// denormalized view with one row per item and the day date repeated for every
// item of that day. A day with no items yields one row with empty item fields.
type ExportRow struct {
	DayDate   string `json:"day_date"` // "2006-01-02"
	ItemTitle string `json:"item_title"`
	StartTime string `json:"start_time"` // "15:04"
	EndTime   string `json:"end_time"`   // empty when open-ended
	Location  string `json:"location"`
	Parking   string `json:"parking"`
	Contact   string `json:"contact"`
	Memo      string `json:"memo"`
}
