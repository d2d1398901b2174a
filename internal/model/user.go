package model

import "time"

// Auth providers.
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// User is an authenticated account. Anonymous identities never get a row
// here; they exist only inside their token.
type User struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Picture      string    `json:"picture,omitempty"`
	GoogleID     string    `json:"-"`
	AuthProvider string    `json:"authProvider"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
