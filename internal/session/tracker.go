// Package session owns the authenticated-identity value for the lifetime of
// one application run.
//
// The tracked identity has a single conceptual writer: the session-change
// event stream. SignIn and SignOut never assign the identity directly; they
// complete against the backend and then publish an event carrying whatever
// the backend now reports, so there is no way for an "optimistic" local value
// to diverge from the authoritative one.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/agrotrace/cropboard/internal/backend"
	"github.com/agrotrace/cropboard/internal/logger"
	"github.com/agrotrace/cropboard/models"
)

// Event is one session change. Identity is nil when the change was a sign-out
// or an expired session.
type Event struct {
	Identity *models.Identity
}

// Tracker is the process-wide session tracker. One instance exists per
// application run; it is passed by reference into every component that needs
// to read the identity.
type Tracker struct {
	backend backend.Client
	logger  *logger.Logger

	mu       sync.RWMutex
	identity *models.Identity

	events    chan Event
	closeOnce sync.Once
}

// NewTracker constructs an idle Tracker. Call Initialize before use and Close
// exactly once at application teardown.
func NewTracker(client backend.Client, log *logger.Logger) *Tracker {
	return &Tracker{
		backend: client,
		logger:  log,
		events:  make(chan Event, 8),
	}
}

// Initialize queries the backend for the current session identity (nil when
// signed out) and seeds the tracked value from it. The event stream is armed
// from construction; this only fills in the starting state.
func (t *Tracker) Initialize(ctx context.Context) error {
	identity, err := t.backend.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("fetch current session: %w", err)
	}

	t.apply(identity)
	return nil
}

// SignIn delegates to the backend. On failure the tracked identity is left
// untouched and the error is returned for the caller to surface. On success
// the identity is re-queried from the backend, not taken from the sign-in
// response, and published as a session-change event.
func (t *Tracker) SignIn(ctx context.Context, email, password string) error {
	sess, err := t.backend.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	identity, err := t.backend.CurrentUser(ctx)
	if err != nil {
		// The session exists; only the confirmation read failed. Fall back to
		// the identity the sign-in response carried and note the degradation.
		t.logger.Warn().Err(err).Msg("re-query after sign-in failed, using sign-in response identity")
		id := sess.Identity
		identity = &id
	}

	t.publish(identity)
	return nil
}

// SignOut delegates to the backend and publishes a nil-identity event. The
// event, not this method, is what clears the tracked identity, the same path
// every other session change takes.
func (t *Tracker) SignOut(ctx context.Context) error {
	err := t.backend.SignOut(ctx)
	t.publish(nil)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Identity returns the currently tracked identity, nil when signed out.
func (t *Tracker) Identity() *models.Identity {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.identity
}

// Email returns the tracked identity's email, "" when signed out. This is the
// value compared against Notification.Author for the ownership gate.
func (t *Tracker) Email() string {
	if id := t.Identity(); id != nil {
		return id.Email
	}
	return ""
}

// Events exposes the session-change stream. The UI keeps exactly one receive
// armed at a time; the channel closes when the tracker is closed.
func (t *Tracker) Events() <-chan Event {
	return t.events
}

// Close releases the subscription. Safe to call once per application run;
// subsequent calls are no-ops.
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		close(t.events)
	})
}

// apply is the only assignment site for the tracked identity.
func (t *Tracker) apply(identity *models.Identity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.identity = identity
}

// publish applies the change and emits it on the event stream. The send is
// non-blocking: the UI re-arms its receive after every event, so a full
// buffer means it is already behind and the latest state will be re-read from
// the tracker anyway.
func (t *Tracker) publish(identity *models.Identity) {
	t.apply(identity)
	select {
	case t.events <- Event{Identity: identity}:
	default:
		t.logger.Debug().Msg("session event buffer full, event dropped")
	}
}
