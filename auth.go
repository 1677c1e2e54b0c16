package webauth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Auth is the authentication contract exposed to the rest of the
// application. Exactly one credential-store-backed implementation ships with
// this package (DBAuth), but the contract admits alternative backing stores.
//
// Expected business outcomes (wrong password, unknown user, stale token) are
// reported as false/nil results, never as errors; only unexpected store
// failures propagate as errors.
type Auth interface {
	// UserID returns the identifier of the authenticated account, or ""
	// for an anonymous session.
	UserID() string

	// IsLogged reports whether the current session holds an auth marker.
	IsLogged() bool

	// Register creates an unconfirmed account and returns its identifier.
	// It does not start a session.
	Register(username, password, email, confirmationToken string) (string, error)

	// Login authenticates by username and password against confirmed
	// accounts. Unknown username, unconfirmed account and wrong password
	// are indistinguishable: all yield (false, nil).
	Login(username, password string, remember bool) (bool, error)

	// Confirm completes registration iff the stored confirmation token
	// exactly matches. It succeeds at most once per account.
	Confirm(accountID, token string) (bool, error)

	// Logout destroys the session and expires the remember cookie.
	Logout() error

	// ConnectedUserExists re-validates that the session's account
	// identifier still refers to a confirmed account.
	ConnectedUserExists() (bool, error)

	// SetResetPasswordToken opens a reset window for the confirmed account
	// matching email and returns it, or (nil, nil) if none matches. The
	// token goes out through the configured EmailSender, or through the
	// caller when none is set.
	SetResetPasswordToken(email, token string) (*Account, error)

	// CheckPasswordResetToken returns the account iff the token matches
	// and was issued within the reset window. It does not consume the
	// token.
	CheckPasswordResetToken(accountID, token string) (*Account, error)

	// ResetPassword replaces the password hash and invalidates any
	// outstanding reset token.
	ResetPassword(accountID, newPassword string) error

	// Remember issues a fresh remember-me token and cookie for the
	// account.
	Remember(accountID string) error

	// ConnectFromCookie establishes a session from a valid remember-me
	// cookie. It is a no-op when already logged in or no cookie is
	// present; a stale or tampered cookie is expired on the client.
	ConnectFromCookie() error
}

// DBAuth implements Auth against an AccountStore. Construct one per inbound
// request: it borrows short-lived handles to the session and cookie jar and
// keeps no cross-request state of its own.
type DBAuth struct {
	Store   AccountStore
	Session Session
	Cookies CookieJar

	// Hasher defaults to bcrypt
	Hasher PasswordHasher

	// RememberCookie controls the remember-me cookie protocol
	RememberCookie *RememberConfig

	// Emails, when set, is handed the confirmation and reset tokens so
	// they reach the user. Nil means the caller delivers them itself.
	Emails EmailSender
}

// NewDBAuth creates a DBAuth bound to one request's session and cookies.
func NewDBAuth(store AccountStore, session Session, cookies CookieJar) *DBAuth {
	return (&DBAuth{Store: store, Session: session, Cookies: cookies}).EnsureDefaults()
}

func (a *DBAuth) EnsureDefaults() *DBAuth {
	if a.Hasher == nil {
		a.Hasher = NewBcryptHasher()
	}
	if a.RememberCookie == nil {
		a.RememberCookie = (&RememberConfig{}).EnsureDefaults()
	}
	return a
}

func (a *DBAuth) UserID() string {
	return a.Session.Read(SessionKeyAuth)
}

func (a *DBAuth) IsLogged() bool {
	return a.Session.Read(SessionKeyAuth) != ""
}

func (a *DBAuth) Register(username, password, email, confirmationToken string) (string, error) {
	hash, err := a.Hasher.Hash(password)
	if err != nil {
		return "", err
	}
	account := &Account{
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		ConfirmationToken: confirmationToken,
	}
	id, err := a.Store.CreateAccount(account)
	if err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}
	if a.Emails != nil {
		// The account exists either way; delivery can be retried.
		if err := a.Emails.SendConfirmationEmail(email, id, confirmationToken); err != nil {
			log.Printf("Warning: failed to send confirmation email to %s: %v", email, err)
		}
	}
	return id, nil
}

func (a *DBAuth) Login(username, password string, remember bool) (bool, error) {
	account, err := a.Store.GetConfirmedByUsername(username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up account: %w", err)
	}
	if !a.Hasher.Verify(password, account.PasswordHash) {
		return false, nil
	}

	a.Session.Write(SessionKeyAuth, account.ID)

	if remember {
		// Login already succeeded; a failed token write only costs the
		// client its long-lived cookie.
		if err := a.Remember(account.ID); err != nil {
			log.Printf("Warning: failed to issue remember token for %s: %v", account.ID, err)
		}
	}
	return true, nil
}

func (a *DBAuth) Confirm(accountID, token string) (bool, error) {
	account, err := a.Store.GetAccountByID(accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up account: %w", err)
	}
	// A re-confirmation attempt finds the token already cleared and fails
	// silently.
	if account.ConfirmationToken == "" || !tokensEqual(account.ConfirmationToken, token) {
		return false, nil
	}
	if err := a.Store.ConfirmAccount(accountID, time.Now()); err != nil {
		return false, fmt.Errorf("failed to confirm account: %w", err)
	}
	return true, nil
}

func (a *DBAuth) Logout() error {
	a.Cookies.Set(a.RememberCookie.ExpiredCookie())
	if err := a.Session.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func (a *DBAuth) ConnectedUserExists() (bool, error) {
	id := a.Session.Read(SessionKeyAuth)
	if id == "" {
		return false, nil
	}
	account, err := a.Store.GetAccountByID(id)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up account: %w", err)
	}
	return account.Confirmed(), nil
}

func (a *DBAuth) SetResetPasswordToken(email, token string) (*Account, error) {
	account, err := a.Store.GetConfirmedByEmail(email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	now := time.Now()
	if err := a.Store.SetResetToken(account.ID, token, now); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}
	account.ResetToken = token
	account.ResetAt = &now
	if a.Emails != nil {
		if err := a.Emails.SendPasswordResetEmail(account.Email, account.ID, token); err != nil {
			log.Printf("Warning: failed to send password reset email to %s: %v", account.Email, err)
		}
	}
	return account, nil
}

func (a *DBAuth) CheckPasswordResetToken(accountID, token string) (*Account, error) {
	account, err := a.Store.GetAccountByID(accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if account.ResetToken == "" || !tokensEqual(account.ResetToken, token) {
		return nil, nil
	}
	// Outside the window the token is treated as absent even though it is
	// still stored.
	if account.ResetAt == nil || time.Since(*account.ResetAt) > ResetTokenWindow {
		return nil, nil
	}
	return account, nil
}

func (a *DBAuth) ResetPassword(accountID, newPassword string) error {
	hash, err := a.Hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := a.Store.SetPassword(accountID, hash); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

func (a *DBAuth) Remember(accountID string) error {
	token, err := GenerateToken(RememberTokenLength)
	if err != nil {
		return err
	}
	if err := a.Store.SetRememberToken(accountID, token); err != nil {
		return fmt.Errorf("failed to store remember token: %w", err)
	}
	a.Cookies.Set(a.RememberCookie.IssueCookie(accountID, token))
	return nil
}

func (a *DBAuth) ConnectFromCookie() error {
	if a.IsLogged() {
		return nil
	}
	cookie, err := a.Cookies.Get(a.RememberCookie.CookieName)
	if err != nil || cookie == nil || cookie.Value == "" {
		if err != nil && !errors.Is(err, http.ErrNoCookie) {
			return err
		}
		return nil
	}

	accountID, err := ParseCookieValue(cookie.Value)
	if err != nil {
		a.Cookies.Set(a.RememberCookie.ExpiredCookie())
		return nil
	}

	account, err := a.Store.GetAccountByID(accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			a.Cookies.Set(a.RememberCookie.ExpiredCookie())
			return nil
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	// Unconfirmed accounts cannot authenticate, by cookie or otherwise.
	if !account.Confirmed() {
		a.Cookies.Set(a.RememberCookie.ExpiredCookie())
		return nil
	}

	if !a.RememberCookie.Matches(cookie.Value, account.ID, account.RememberToken) {
		a.Cookies.Set(a.RememberCookie.ExpiredCookie())
		return nil
	}

	a.Session.Write(SessionKeyAuth, account.ID)
	// Refresh the cookie's expiry, keeping the same stored token
	a.Cookies.Set(a.RememberCookie.IssueCookie(account.ID, account.RememberToken))
	return nil
}

// tokensEqual compares two opaque tokens without leaking the position of a
// mismatch.
func tokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
