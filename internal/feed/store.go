// Package feed owns the ordered list of notifications shown on the board.
//
// The store follows a mutate-then-refetch discipline: create and delete go to
// the backend and, on success, trigger a full refresh so server-assigned
// fields (id, created_at) and the canonical order are reflected exactly as
// stored. Nothing is ever patched locally.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agrotrace/cropboard/internal/backend"
	"github.com/agrotrace/cropboard/internal/logger"
	"github.com/agrotrace/cropboard/models"
)

var (
	// ErrEmptyTitle rejects a post with no title before any network call.
	ErrEmptyTitle = errors.New("title must not be empty")
	// ErrEmptyMessage rejects a post with no message before any network call.
	ErrEmptyMessage = errors.New("message must not be empty")
)

// Snapshotter persists the last good feed so a cold start with the backend
// down can still show something. Implemented by the cache package; optional.
type Snapshotter interface {
	SaveNotifications(ctx context.Context, items []models.Notification) error
	LoadNotifications(ctx context.Context) ([]models.Notification, error)
}

// RefreshResult reports the outcome of one refresh. Stale distinguishes
// "refreshed with new data" from "refresh failed, previous data retained" so
// callers can assert on staleness explicitly instead of inferring it from the
// absence of an error.
type RefreshResult struct {
	Items []models.Notification
	Stale bool
	Err   error
}

// Store is the feed store. One instance exists per application run.
type Store struct {
	backend backend.Client
	cache   Snapshotter
	logger  *logger.Logger

	mu     sync.RWMutex
	items  []models.Notification
	loaded bool
}

// NewStore constructs a feed store. cache may be nil to disable the local
// snapshot.
func NewStore(client backend.Client, cache Snapshotter, log *logger.Logger) *Store {
	return &Store{backend: client, cache: cache, logger: log}
}

// Refresh fetches all notifications, sorts them by created_at descending, and
// replaces the store's contents atomically. On transport failure the previous
// list is retained and the failure is reported as a stale result. A stale feed
// is preferable to a blank one.
func (s *Store) Refresh(ctx context.Context) RefreshResult {
	fetched, err := s.backend.ListNotifications(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("feed refresh failed, keeping previous list")
		return s.staleResult(ctx, err)
	}

	sortByCreatedAtDesc(fetched)

	s.mu.Lock()
	s.items = fetched
	s.loaded = true
	s.mu.Unlock()

	if s.cache != nil {
		if cacheErr := s.cache.SaveNotifications(ctx, fetched); cacheErr != nil {
			s.logger.Warn().Err(cacheErr).Msg("failed to write feed snapshot")
		}
	}

	return RefreshResult{Items: s.Items()}
}

// Create posts a notification. Empty title or message is rejected locally
// with no network call. author must be the current session's email; the store
// trusts the caller on this; the authoritative check is the backend's.
// On success a refresh is triggered sequentially so the result observes the
// mutation; on failure the feed is left untouched.
func (s *Store) Create(ctx context.Context, title, message, author string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}

	if _, err := s.backend.InsertNotification(ctx, title, message, author); err != nil {
		return fmt.Errorf("post notification: %w", err)
	}

	s.Refresh(ctx)
	return nil
}

// Delete removes a notification by id and refreshes on success. Callers offer
// this action only for records owned by the acting identity; that gate is a
// UX convenience, ownership is enforced by the backend's row-level policy.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.backend.DeleteNotification(ctx, id); err != nil {
		return fmt.Errorf("delete notification %d: %w", id, err)
	}

	s.Refresh(ctx)
	return nil
}

// Items returns a snapshot copy of the current list, newest first.
func (s *Store) Items() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Latest returns the newest notification, the only one eligible for the
// highlight banner.
func (s *Store) Latest() (models.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.items) == 0 {
		return models.Notification{}, false
	}
	return s.items[0], true
}

// staleResult keeps the previous list. On a cold start (nothing ever loaded)
// it falls back to the local snapshot, extending stale-over-empty across
// restarts.
func (s *Store) staleResult(ctx context.Context, err error) RefreshResult {
	s.mu.Lock()
	if !s.loaded && len(s.items) == 0 && s.cache != nil {
		if cached, loadErr := s.cache.LoadNotifications(ctx); loadErr == nil && len(cached) > 0 {
			sortByCreatedAtDesc(cached)
			s.items = cached
			s.logger.Info().Int("items", len(cached)).Msg("serving feed from local snapshot")
		}
	}
	s.mu.Unlock()

	return RefreshResult{Items: s.Items(), Stale: true, Err: err}
}

func sortByCreatedAtDesc(items []models.Notification) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
