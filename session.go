package webauth

import (
	"context"
	"strings"

	"github.com/alexedwards/scs/v2"
)

// SessionKeyAuth is the well-known session key holding the identifier of the
// currently authenticated account.
const SessionKeyAuth = "auth"

const flashKeyPrefix = "flash."

// Session is a per-visitor key/value store whose lifetime is tied to the
// client-presented session identifier. Destroying a session never mutates
// the Account it pointed at.
type Session interface {
	Write(key, value string)
	Read(key string) string
	Delete(key string)

	// Destroy deletes all session data and invalidates the client's
	// session identifier.
	Destroy() error

	// SetFlash stores a transient message that survives until the next
	// Flashes call.
	SetFlash(key, message string)

	// Flashes returns all flash messages and removes them from the session.
	Flashes() map[string]string

	HasFlashes() bool
}

// ScsSession adapts an scs.SessionManager to the Session contract for the
// duration of one request. The context must carry session data loaded by the
// manager (via LoadAndSave middleware or an explicit Load).
type ScsSession struct {
	mgr *scs.SessionManager
	ctx context.Context
}

// NewScsSession borrows a session handle for one request.
func NewScsSession(mgr *scs.SessionManager, ctx context.Context) *ScsSession {
	return &ScsSession{mgr: mgr, ctx: ctx}
}

func (s *ScsSession) Write(key, value string) {
	s.mgr.Put(s.ctx, key, value)
}

func (s *ScsSession) Read(key string) string {
	return s.mgr.GetString(s.ctx, key)
}

func (s *ScsSession) Delete(key string) {
	s.mgr.Remove(s.ctx, key)
}

func (s *ScsSession) Destroy() error {
	return s.mgr.Destroy(s.ctx)
}

func (s *ScsSession) SetFlash(key, message string) {
	s.mgr.Put(s.ctx, flashKeyPrefix+key, message)
}

func (s *ScsSession) Flashes() map[string]string {
	flashes := make(map[string]string)
	for _, key := range s.mgr.Keys(s.ctx) {
		if name, ok := strings.CutPrefix(key, flashKeyPrefix); ok {
			flashes[name] = s.mgr.PopString(s.ctx, key)
		}
	}
	return flashes
}

func (s *ScsSession) HasFlashes() bool {
	for _, key := range s.mgr.Keys(s.ctx) {
		if strings.HasPrefix(key, flashKeyPrefix) {
			return true
		}
	}
	return false
}
