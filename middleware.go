package webauth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/alexedwards/scs/v2"
)

type userParamNameKey string

// Middleware bridges the Auth service to HTTP handling. It must run inside
// the session manager's LoadAndSave handler so the request context carries
// session data.
type Middleware struct {
	Store    AccountStore
	Sessions *scs.SessionManager

	RememberCookie *RememberConfig
	Hasher         PasswordHasher

	// Name of the request-context variable carrying the logged in user id
	UserParamName string

	// Where EnsureUser redirects anonymous users; a 401 is returned when
	// nil
	GetRedirURL      func(r *http.Request) string
	CallbackURLParam string

	// OnAuthError, when set, takes over rendering EnsureUser's rejection
	OnAuthError AuthErrorHandler
}

// Ensures that config values have reasonable defaults.
func (m *Middleware) EnsureReasonableDefaults() {
	if m.UserParamName == "" {
		m.UserParamName = "loggedInUserId"
	}
	if m.CallbackURLParam == "" {
		m.CallbackURLParam = "callbackURL"
	}
	if m.RememberCookie == nil {
		m.RememberCookie = (&RememberConfig{}).EnsureDefaults()
	}
}

// NewAuth constructs the per-request Auth service, borrowing the session and
// cookie handles for the duration of this request.
func (m *Middleware) NewAuth(w http.ResponseWriter, r *http.Request) *DBAuth {
	m.EnsureReasonableDefaults()
	auth := NewDBAuth(m.Store, NewScsSession(m.Sessions, r.Context()), NewHTTPCookieJar(w, r))
	auth.RememberCookie = m.RememberCookie
	if m.Hasher != nil {
		auth.Hasher = m.Hasher
	}
	return auth
}

// Get the ID of the logged in user from the current request
func (m *Middleware) GetLoggedInUserId(r *http.Request) string {
	v := r.Context().Value(userParamNameKey(m.UserParamName))
	if v != nil {
		if loggedInUserId := v.(string); loggedInUserId != "" {
			return loggedInUserId
		}
	}
	return m.Sessions.GetString(r.Context(), SessionKeyAuth)
}

// ExtractUser runs remember-cookie validation once per request for anonymous
// sessions and makes the logged in user id available to downstream handlers.
//
// Note this does not perform any redirects if a valid user does not exist.
// To also enforce a user exists, use the EnsureUser handler.
func (m *Middleware) ExtractUser(next http.Handler) http.Handler {
	m.EnsureReasonableDefaults()
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			auth := m.NewAuth(w, r)
			if err := auth.ConnectFromCookie(); err != nil {
				slog.Warn("error validating remember cookie", "err", err)
			}
			next.ServeHTTP(w, m.setLoggedInUserId(auth.UserID(), r))
		},
	)
}

// EnsureUser extracts the user like ExtractUser and rejects or redirects the
// request when nobody is logged in.
func (m *Middleware) EnsureUser(next http.Handler) http.Handler {
	m.EnsureReasonableDefaults()
	return m.ExtractUser(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if m.GetLoggedInUserId(r) == "" {
				redirUrl := ""
				if m.GetRedirURL != nil {
					redirUrl = m.GetRedirURL(r)
				}
				if redirUrl != "" {
					originalUrl := r.URL.Path
					encodedUrl := strings.Replace(url.QueryEscape(originalUrl), "+", "%20", -1)
					fullRedirUrl := fmt.Sprintf("%s?%s=%s", redirUrl, m.CallbackURLParam, encodedUrl)
					http.Redirect(w, r, fullRedirUrl, http.StatusFound)
				} else {
					authErr := NewAuthError(ErrCodeUnauthorized, "Login Required", "")
					if m.OnAuthError != nil && m.OnAuthError(authErr, w, r) {
						return
					}
					WriteAuthError(w, http.StatusUnauthorized, authErr)
				}
				return
			}
			next.ServeHTTP(w, r)
		},
	))
}

// Set the logged in user id into the request's variable set
// This will make it available to all other handlers downstream
func (m *Middleware) setLoggedInUserId(userId string, r *http.Request) *http.Request {
	contextWithUser := context.WithValue(r.Context(), userParamNameKey(m.UserParamName), userId)
	return r.WithContext(contextWithUser)
}
