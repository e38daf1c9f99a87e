// Package session holds client-side authentication state.
//
// The browser frontend keeps the current session and profile in memory and
// refreshes them whenever the identity provider fires a session-change
// event. Rather than ambient global mutable state, this is modelled as an
// explicit holder with three states and a subscription contract:
//
//	Unauthenticated -> Authenticating -> Authenticated(profile)
//	        ^               |                    |
//	        +---- failure --+---- sign-out ------+
//
// The holder does no I/O of its own. The caller wires provider events to
// OnSessionChanged/OnSignedOut and reports the outcome of its sync+fetch
// round trip with OnProfileLoaded/OnLoadFailed. Sync must be issued before
// the fetched profile is trusted to be fresh — the lookup endpoint does no
// reconciliation of its own.
package session

import (
	"sync"

	"github.com/devconnect/backend/internal/model"
)

type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the holder at one moment. Profile is
// non-nil only in StateAuthenticated.
type Snapshot struct {
	State   State
	Profile *model.Profile
}

// Holder is a concurrency-safe authentication state holder.
type Holder struct {
	mu      sync.Mutex
	state   State
	profile *model.Profile
	nextID  int
	subs    map[int]func(Snapshot)
}

func NewHolder() *Holder {
	return &Holder{subs: make(map[int]func(Snapshot))}
}

// Current returns the present state and profile.
func (h *Holder) Current() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

// Subscribe registers a callback invoked on every state transition and
// returns an unsubscribe function. Callbacks run synchronously on the
// goroutine that triggered the transition and must not call back into the
// holder.
func (h *Holder) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// OnSessionChanged reports a provider session-change event that carries a
// token: the holder enters Authenticating until the profile round trip
// resolves. Any previously cached profile is dropped immediately — it may
// belong to a different subject.
func (h *Holder) OnSessionChanged() {
	h.transition(StateAuthenticating, nil)
}

// OnProfileLoaded reports a successful sync+fetch; the holder enters
// Authenticated with the canonical profile.
func (h *Holder) OnProfileLoaded(profile *model.Profile) {
	h.transition(StateAuthenticated, profile)
}

// OnLoadFailed reports that the profile round trip failed; the holder falls
// back to Unauthenticated rather than presenting stale data.
func (h *Holder) OnLoadFailed() {
	h.transition(StateUnauthenticated, nil)
}

// OnSignedOut reports a provider event without a session (sign-out or
// expiry).
func (h *Holder) OnSignedOut() {
	h.transition(StateUnauthenticated, nil)
}

func (h *Holder) transition(state State, profile *model.Profile) {
	h.mu.Lock()
	h.state = state
	h.profile = profile
	snapshot := h.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	// Notify outside the lock so a subscriber reading Current() cannot
	// deadlock.
	for _, fn := range subs {
		fn(snapshot)
	}
}

func (h *Holder) snapshotLocked() Snapshot {
	snapshot := Snapshot{State: h.state}
	if h.profile != nil {
		copied := *h.profile
		snapshot.Profile = &copied
	}
	return snapshot
}
