package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end time before start time).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidDate is returned when a date or wall-clock time string does not
// parse ("2006-01-02" for dates, "15:04" for times). No mutation is attempted.
// Handlers should map this to HTTP 422.
var ErrInvalidDate = errors.New("invalid date")

// ErrDuplicateDate is returned when creating a day with an explicit date, or
// moving a day to a date, that an existing sibling day already occupies.
// No mutation is attempted. Handlers should map this to HTTP 409 Conflict.
var ErrDuplicateDate = errors.New("duplicate date")

// ErrDuplicateSlug is returned when a trip's slug collides with another
// trip's slug. Handlers should map this to HTTP 409 Conflict.
var ErrDuplicateSlug = errors.New("duplicate slug")

// ErrSaveFailed is the catch-all for a transaction that could not commit.
// The stored state is exactly as it was before the operation began; partial
// writes are never observable. Handlers should map this to HTTP 500.
var ErrSaveFailed = errors.New("save failed")
