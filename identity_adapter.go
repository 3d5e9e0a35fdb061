package accounts

// UserIdentity adapts a User into the Identity interface for token issuance.
// The wrapped record is sanitized on construction so the credential hash can
// never leak outward.
type UserIdentity struct {
	user *User
}

// NewIdentityFromUser returns an Identity adapter for the provided user.
func NewIdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user.Sanitize()}
}

// ID returns the user's ID as a string.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID.String()
}

// Username returns the user's username.
func (u UserIdentity) Username() string {
	if u.user == nil {
		return ""
	}
	return u.user.Username
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}

// Account returns the sanitized account record backing the identity.
func (u UserIdentity) Account() *User {
	return u.user
}

// accountAwareIdentity lets the token service enrich claims with account
// fields when the identity carries them.
type accountAwareIdentity interface {
	Account() *User
}

var _ Identity = UserIdentity{}
var _ accountAwareIdentity = UserIdentity{}
