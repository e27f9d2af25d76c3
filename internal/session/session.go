// Package session holds the per-client session state: the logged-in
// flag, the pre-login page tab, the username, and the pending
// delete-confirmation sub-state.
//
// Sessions live in process memory keyed by a random token carried in a
// cookie. They are never persisted — a restart logs everyone out. Each
// client's session is private to that client, but a browser can fire
// parallel requests with the same cookie, so every field access goes
// through a method that holds the session's own mutex.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"student-registration/internal/types"
)

// Page names for the pre-login flow. Navigation between them is
// unconditional while logged out.
const (
	PageLogin    = "login"
	PageRegister = "register"
	PageReset    = "reset"
)

// Session is one client's state. The zero id in pendingDeleteID means
// no delete confirmation is pending; a non-zero value is the record id
// armed for deletion. Tagging the sub-state with the id (instead of a
// bare flag) prevents confirming the wrong record when the selection
// changes between the first click and the confirm.
//
// Token is set once at creation and never changes; everything else is
// read and written under mu.
type Session struct {
	Token string

	mu              sync.Mutex
	username        string
	loggedIn        bool
	page            string
	pendingDeleteID int64

	expiresAt time.Time // guarded by the store's mutex, not mu
}

// View returns the client-visible projection of the session.
func (s *Session) View() types.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return types.SessionView{
		LoggedIn:        s.loggedIn,
		Page:            s.page,
		Username:        s.username,
		PendingDeleteID: s.pendingDeleteID,
	}
}

// LogIn marks the session as authenticated for username and returns
// the rest of the state to the post-login defaults.
func (s *Session) LogIn(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loggedIn = true
	s.username = username
	s.page = PageLogin
	s.pendingDeleteID = 0
}

// IsLoggedIn reports whether the session has authenticated.
func (s *Session) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// SetPage switches the pre-login page tab.
func (s *Session) SetPage(page string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

// ArmDelete records id as pending deletion. Arming is not a lock —
// other actions on the same session proceed normally while a
// confirmation is outstanding.
func (s *Session) ArmDelete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDeleteID = id
}

// PendingDelete returns the armed record id, zero when idle.
func (s *Session) PendingDelete() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDeleteID
}

// ClearPendingDelete returns the delete sub-state to idle.
func (s *Session) ClearPendingDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDeleteID = 0
}

// reset restores the logged-out defaults, keeping the token.
func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.username = ""
	s.loggedIn = false
	s.page = PageLogin
	s.pendingDeleteID = 0
}

// Store is an in-memory session store.
type Store struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	cookieName string
	ttl        time.Duration
}

// NewStore builds a session store with the given cookie name and idle
// TTL.
func NewStore(cookieName string, ttl time.Duration) *Store {
	return &Store{
		sessions:   make(map[string]*Session),
		cookieName: cookieName,
		ttl:        ttl,
	}
}

// newSession initialises a session with the defaults of a fresh client:
// logged out, on the login page, nothing armed for deletion.
func (st *Store) newSession() *Session {
	return &Session{
		Token:     uuid.NewString(),
		page:      PageLogin,
		expiresAt: time.Now().Add(st.ttl),
	}
}

// sweepExpired drops every session past its deadline. Caller must hold
// st.mu. The table is one entry per active client, so a full pass per
// request is cheap at this scale.
func (st *Store) sweepExpired(now time.Time) {
	for token, sess := range st.sessions {
		if now.After(sess.expiresAt) {
			delete(st.sessions, token)
		}
	}
}

// Get returns the session for the request's cookie token, or a fresh
// default session (and sets its cookie) when there is none or it has
// expired. The session is created lazily on first contact; abandoned
// sessions are swept out on every call so the table never outgrows the
// set of live clients.
func (st *Store) Get(w http.ResponseWriter, r *http.Request) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	st.sweepExpired(now)

	if cookie, err := r.Cookie(st.cookieName); err == nil {
		if sess, ok := st.sessions[cookie.Value]; ok {
			sess.expiresAt = now.Add(st.ttl)
			return sess
		}
	}

	sess := st.newSession()
	st.sessions[sess.Token] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     st.cookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// Reset returns the session to its defaults, keeping the token so the
// client's cookie stays valid. Used on logout.
func (st *Store) Reset(sess *Session) {
	sess.reset()
}
