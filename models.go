package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. The credential hash stays empty until the
// account is confirmed; Username and Email are unique and case-sensitive.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"password_hash,omitempty"`
	Confirmed     bool       `bun:"is_confirmed" json:"is_confirmed,omitempty"`
	RegisteredAt  *time.Time `bun:"registered_at,nullzero,default:current_timestamp" json:"registered_at,omitempty"`
	ConfirmedAt   *time.Time `bun:"confirmed_at,nullzero" json:"confirmed_at,omitempty"`
}

// Sanitize returns a copy of the user with the credential hash stripped.
// Anything handed outward goes through here.
func (u *User) Sanitize() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.PasswordHash = ""
	return &out
}

// Confirmation links an unconfirmed account to its activation step. The key
// is the lookup authority; Email selects which confirmations a delete by
// email removes.
type Confirmation struct {
	bun.BaseModel `bun:"table:user_confirmations,alias:ucf"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Key           string    `bun:"confirmation_key,notnull,unique" json:"confirmation_key,omitempty"`
	Email         string    `bun:"email,notnull" json:"email,omitempty"`
	ExpiresAt     time.Time `bun:"expires_at,notnull" json:"expires_at,omitempty"`
}

// ExpiredAt reports whether the confirmation is no longer usable at the
// given instant. A confirmation is invalid strictly at or after ExpiresAt.
func (c *Confirmation) ExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
