// Package batches holds the read-only list of finalized crop batches shown in
// the public section of the board. Unlike the feed there are no mutations, so
// the store is a refresh-and-read surface only.
package batches

import (
	"context"
	"sort"
	"sync"

	"github.com/agrotrace/cropboard/internal/backend"
	"github.com/agrotrace/cropboard/internal/logger"
	"github.com/agrotrace/cropboard/models"
)

// Snapshotter persists the last good batch list. Implemented by the cache
// package; optional.
type Snapshotter interface {
	SaveBatches(ctx context.Context, items []models.Batch) error
	LoadBatches(ctx context.Context) ([]models.Batch, error)
}

// RefreshResult reports one refresh outcome, mirroring the feed store's shape
// so the UI can treat both lists uniformly.
type RefreshResult struct {
	Items []models.Batch
	Stale bool
	Err   error
}

// Store caches finalized batches between refreshes.
type Store struct {
	backend backend.Client
	cache   Snapshotter
	logger  *logger.Logger

	mu     sync.RWMutex
	items  []models.Batch
	loaded bool
}

// NewStore constructs a batch store. cache may be nil.
func NewStore(client backend.Client, cache Snapshotter, log *logger.Logger) *Store {
	return &Store{backend: client, cache: cache, logger: log}
}

// Refresh fetches finalized batches, newest first, and replaces the store's
// contents atomically. On failure the previous list is retained and the
// result is flagged stale.
func (s *Store) Refresh(ctx context.Context) RefreshResult {
	fetched, err := s.backend.ListFinalizedBatches(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("batch refresh failed, keeping previous list")
		return s.staleResult(ctx, err)
	}

	sortByCreatedAtDesc(fetched)

	s.mu.Lock()
	s.items = fetched
	s.loaded = true
	s.mu.Unlock()

	if s.cache != nil {
		if cacheErr := s.cache.SaveBatches(ctx, fetched); cacheErr != nil {
			s.logger.Warn().Err(cacheErr).Msg("failed to write batch snapshot")
		}
	}

	return RefreshResult{Items: s.Items()}
}

// Items returns a snapshot copy of the current list, newest first.
func (s *Store) Items() []models.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Batch, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) staleResult(ctx context.Context, err error) RefreshResult {
	s.mu.Lock()
	if !s.loaded && len(s.items) == 0 && s.cache != nil {
		if cached, loadErr := s.cache.LoadBatches(ctx); loadErr == nil && len(cached) > 0 {
			sortByCreatedAtDesc(cached)
			s.items = cached
			s.logger.Info().Int("items", len(cached)).Msg("serving batches from local snapshot")
		}
	}
	s.mu.Unlock()

	return RefreshResult{Items: s.Items(), Stale: true, Err: err}
}

func sortByCreatedAtDesc(items []models.Batch) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
