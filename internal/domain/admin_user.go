package domain

import "time"

// AdminUser is an account allowed into the authoring console. Only accounts
// already present in this table can log in; there is no self-registration.
type AdminUser struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
