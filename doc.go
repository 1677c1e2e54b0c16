// Package webauth manages account registration, email confirmation, login,
// persistent "remember-me" re-authentication and self-service password reset
// for web applications.
//
// # Architecture
//
// Account: a registered user's durable credential record, owned by an
// AccountStore. Accounts move from unconfirmed to confirmed exactly once;
// login is only possible for confirmed accounts.
//
// Session: an ephemeral per-client key/value store marking the currently
// authenticated account under the "auth" key, plus transient flash messages.
// Sessions are backed by github.com/alexedwards/scs.
//
// Auth: the service contract orchestrating stores, sessions and cookies.
// DBAuth is the credential-store-backed implementation; construct one per
// request with explicit collaborators, never ambient globals.
//
// # Basic Usage
//
// Set up the store and session manager once:
//
//	import (
//	    "github.com/alexedwards/scs/v2"
//	    "github.com/tlegrave/webauth"
//	    "github.com/tlegrave/webauth/stores"
//	)
//
//	accounts := stores.NewFSAccountStore("/path/to/storage")
//	sessions := scs.New()
//
// Then construct the service per request:
//
//	func login(w http.ResponseWriter, r *http.Request) {
//	    auth := webauth.NewDBAuth(accounts,
//	        webauth.NewScsSession(sessions, r.Context()),
//	        webauth.NewHTTPCookieJar(w, r))
//	    ok, err := auth.Login(r.FormValue("username"), r.FormValue("password"), true)
//	    // ...
//	}
//
// Or let the Middleware do it, which also validates remember-me cookies for
// anonymous sessions:
//
//	mw := &webauth.Middleware{Store: accounts, Sessions: sessions}
//	handler := sessions.LoadAndSave(mw.ExtractUser(mux))
//
// # Store Implementations
//
// The stores package provides a file-based AccountStore suitable for
// development and tests. The stores/gorm package provides a relational
// implementation for production use.
//
// # Security
//
// Passwords are hashed with bcrypt at the default cost. Confirmation,
// remember-me and reset tokens are 32-character strings from a
// cryptographically secure source. The remember cookie never carries the
// stored token alone: its value binds the account id with a keyed HMAC-SHA256
// digest, and validation compares the full reconstructed value in constant
// time, so reissuing the stored token invalidates stolen cookies. Reset
// tokens expire 30 minutes after issue and are consumed by the password
// write.
package webauth
