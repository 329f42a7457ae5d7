package domain

import "time"

// User is a hotel guest account, identified by room number.
type User struct {
	ID           string    `json:"_id"`
	LastName     string    `json:"lastName"`
	RoomNumber   string    `json:"roomNumber"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}
