package domain

import "time"

// User is a registered account, persisted by the auth layer
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Color        string    `json:"color"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the verified display identity handed to clients after
// login. It is all the relay ever learns about a user.
type Identity struct {
	Username string `json:"username"`
	Color    string `json:"color"`
}
