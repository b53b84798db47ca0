package model

import "time"

// Subject is the verified identity carried by a session token.
type Subject struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type IssuedToken struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   Account   `json:"user"`
}

type LoginData struct {
	User      Account   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AccountList struct {
	Users []Account `json:"users"`
}
