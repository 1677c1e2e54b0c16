package webauth

import (
	"errors"
	"time"
)

// ErrAccountNotFound is returned by stores when no account matches a lookup.
var ErrAccountNotFound = errors.New("account not found")

// Account is a registered user's durable credential record.
//
// ConfirmationToken is present only while the account is unconfirmed and is
// cleared exactly once, when ConfirmedAt is stamped. ResetToken and ResetAt
// are set and cleared together; outside the reset window the token is treated
// as absent even if still stored.
type Account struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`

	// One-time value proving control of the registration email
	ConfirmationToken string     `json:"confirmation_token"`
	ConfirmedAt       *time.Time `json:"confirmed_at"`

	// Durable per-account secret backing remember-me cookies
	RememberToken string `json:"remember_token"`

	ResetToken string     `json:"reset_token"`
	ResetAt    *time.Time `json:"reset_at"`
}

// Confirmed reports whether the account has completed email confirmation.
func (a *Account) Confirmed() bool {
	return a.ConfirmedAt != nil
}

// AccountStore is the credential store contract. Implementations must use
// parameterized access only (no string-concatenated values) and enforce
// username/email uniqueness on CreateAccount.
//
// Lookups return ErrAccountNotFound (possibly wrapped) when no row matches;
// any other error is a persistence failure the caller should propagate.
type AccountStore interface {
	// CreateAccount inserts a new account and returns its identifier.
	// The store rejects duplicate usernames or emails.
	CreateAccount(account *Account) (string, error)

	// GetAccountByID retrieves an account by its identifier.
	GetAccountByID(id string) (*Account, error)

	// GetConfirmedByUsername retrieves a confirmed account by username.
	// Unconfirmed accounts are filtered out by the query itself.
	GetConfirmedByUsername(username string) (*Account, error)

	// GetConfirmedByEmail retrieves a confirmed account by email.
	GetConfirmedByEmail(email string) (*Account, error)

	// ConfirmAccount clears the confirmation token and stamps ConfirmedAt
	// in a single mutation.
	ConfirmAccount(id string, at time.Time) error

	// SetRememberToken overwrites the account's remember-me token.
	SetRememberToken(id, token string) error

	// SetResetToken stores a reset token and its issue time, replacing any
	// outstanding one.
	SetResetToken(id, token string, at time.Time) error

	// SetPassword overwrites the password hash and clears ResetToken and
	// ResetAt in the same mutation.
	SetPassword(id, passwordHash string) error
}
