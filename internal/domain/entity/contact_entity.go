package entity

import "time"

// Contact is an address-book entry owned by a single user.
type Contact struct {
	ID             string
	OwnerID        string
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       time.Time
	AdditionalData *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
