package model

import "time"

// User represents a row of the `users` table.  Guests registered by
// phone only may have no email and no password; such accounts cannot
// log in but can still be the target of admin-made reservations.
//
// Fields:
//  ID           – primary key identifier.
//  FirstName    – optional first name.
//  LastName     – last name, always present.
//  Email        – unique email address, nil for phone-only guests.
//  Phone        – unique phone number.
//  PasswordHash – bcrypt hash, nil when no password was set.
//  Role         – "guest" or "admin".
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	FirstName    *string   // users.first_name (nullable)
	LastName     string    // users.last_name
	Email        *string   // users.email (nullable)
	Phone        string    // users.phone
	PasswordHash *string   // users.password_hash (nullable)
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Roles accepted by the role column and the JWT "role" claim.
const (
	RoleGuest = "guest"
	RoleAdmin = "admin"
)

// RefreshToken models an entry in the `refresh_tokens` table.  Only
// the SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
