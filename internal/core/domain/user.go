package domain

import "time"

// User represents a user of the application in the domain.
type User struct {
	UserID       string `json:"userID"` // Primary Key (e.g., UUID)
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete

	// Refresh token details, stored hashed.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// GoogleUserInfo holds the subset of the Google userinfo payload we consume
// during OAuth sign-in.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
