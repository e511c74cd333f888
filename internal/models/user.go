package models

import (
	"database/sql"
	"time"
)

// User represents a user row, including credentials for authentication.
type User struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	Name         string `db:"name"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	// Refresh token fields; only the hash is ever stored.
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
