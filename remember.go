package webauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// RememberCookieName is the client cookie carrying the remember-me value.
const RememberCookieName = "remember"

// RememberCookieMaxAge is how long a remember-me cookie stays valid. It is
// refreshed on every successful cookie validation.
const RememberCookieMaxAge = 7 * 24 * time.Hour

// RememberConfig controls how remember-me cookies are issued and validated.
type RememberConfig struct {
	// Secret keys the cookie digest. If empty, EnsureDefaults reads it
	// from the WEBAUTH_REMEMBER_SECRET environment variable, falling back
	// to an ephemeral per-process secret.
	Secret string

	CookieName string
	CookiePath string
	MaxAge     time.Duration

	// Secure marks issued cookies as HTTPS-only
	Secure bool
}

func (c *RememberConfig) EnsureDefaults() *RememberConfig {
	if c.Secret == "" {
		c.Secret = strings.TrimSpace(os.Getenv("WEBAUTH_REMEMBER_SECRET"))
		if c.Secret == "" {
			// A hardcoded fallback would key every unconfigured deploy
			// with the same published value. An ephemeral secret keeps
			// the digest sound; cookies just die with the process.
			c.Secret = MustGenerateToken(48)
			slog.Warn("WEBAUTH_REMEMBER_SECRET is not set; using an ephemeral secret, remember cookies will not survive restarts")
		}
	}
	if c.CookieName == "" {
		c.CookieName = RememberCookieName
	}
	if c.CookiePath == "" {
		c.CookiePath = "/"
	}
	if c.MaxAge <= 0 {
		c.MaxAge = RememberCookieMaxAge
	}
	return c
}

// CookieValue builds the remember cookie value for an account:
// <accountID>==<rememberToken><digest>, where the digest is a hex-encoded
// HMAC-SHA256 of the account identifier keyed with the shared secret. The
// digest keeps the comparison during validation from leaking the raw token.
func (c *RememberConfig) CookieValue(accountID, rememberToken string) string {
	return accountID + "==" + rememberToken + c.digest(accountID)
}

func (c *RememberConfig) digest(accountID string) string {
	mac := hmac.New(sha256.New, []byte(c.Secret))
	mac.Write([]byte(accountID))
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseCookieValue extracts the account identifier from a presented cookie
// value. The remainder of the value is validated only by reconstruction, so
// it is never split into token and digest parts here.
func ParseCookieValue(value string) (accountID string, err error) {
	id, rest, found := strings.Cut(value, "==")
	if !found || id == "" || rest == "" {
		return "", fmt.Errorf("malformed remember cookie")
	}
	return id, nil
}

// Matches compares a presented cookie value against the value reconstructed
// from the account's currently stored remember token, in constant time.
func (c *RememberConfig) Matches(presented, accountID, storedToken string) bool {
	if storedToken == "" {
		return false
	}
	expected := c.CookieValue(accountID, storedToken)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}

// IssueCookie returns a fresh remember cookie for the account, valid for the
// configured max age.
func (c *RememberConfig) IssueCookie(accountID, rememberToken string) *http.Cookie {
	maxAge := int(c.MaxAge / time.Second)
	return &http.Cookie{
		Name:     c.CookieName,
		Value:    c.CookieValue(accountID, rememberToken),
		Path:     c.CookiePath,
		MaxAge:   maxAge,
		Expires:  time.Now().Add(c.MaxAge),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie returns a cookie that clears the remember cookie on the
// client, stopping further validation attempts with a stale value.
func (c *RememberConfig) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.CookieName,
		Value:    "",
		Path:     c.CookiePath,
		MaxAge:   -1,
		Expires:  time.Now(),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
