package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/fieldtrack_backend/logging"
	"github.com/HSouheill/fieldtrack_backend/metrics"
	"github.com/HSouheill/fieldtrack_backend/models"
)

// FallbackStore tries the primary (MongoDB) backend first and degrades to the
// secondary (in-memory) backend when the primary fails. Duplicate key errors are
// answers, not outages, and are returned as is. A nil primary means the
// service runs memory-only. Nothing is reconciled automatically; see Sync.
type FallbackStore[T Document] struct {
	name      string
	primary   Store[T]
	secondary Store[T]
}

func NewFallbackStore[T Document](name string, primary, secondary Store[T]) *FallbackStore[T] {
	return &FallbackStore[T]{name: name, primary: primary, secondary: secondary}
}

func (s *FallbackStore[T]) degrade(op string, err error) {
	logging.Warn().Err(err).Str("collection", s.name).Str("op", op).Msg("mongodb unavailable, using in-memory store")
	metrics.StoreFallbacks.WithLabelValues(s.name, op).Inc()
}

func (s *FallbackStore[T]) Insert(ctx context.Context, doc T) error {
	if s.primary != nil {
		err := s.primary.Insert(ctx, doc)
		if err == nil || mongo.IsDuplicateKeyError(err) {
			return err
		}
		s.degrade("insert", err)
	}
	return s.secondary.Insert(ctx, doc)
}

// FindByID consults the secondary when the primary fails or has no such document,
// since documents written during an outage live only in memory.
func (s *FallbackStore[T]) FindByID(ctx context.Context, id string) (T, error) {
	if s.primary != nil {
		doc, err := s.primary.FindByID(ctx, id)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			s.degrade("find", err)
		}
	}
	return s.secondary.FindByID(ctx, id)
}

func (s *FallbackStore[T]) Find(ctx context.Context, q Query) ([]T, error) {
	if s.primary != nil {
		docs, err := s.primary.Find(ctx, q)
		if err == nil {
			return docs, nil
		}
		s.degrade("query", err)
	}
	return s.secondary.Find(ctx, q)
}

func (s *FallbackStore[T]) Update(ctx context.Context, id string, mutate func(*T) error) (T, error) {
	var mutateErr error
	tracked := func(doc *T) error {
		mutateErr = mutate(doc)
		return mutateErr
	}

	if s.primary != nil {
		doc, err := s.primary.Update(ctx, id, tracked)
		if err == nil || mutateErr != nil || mongo.IsDuplicateKeyError(err) {
			return doc, err
		}
		if !errors.Is(err, models.ErrNotFound) {
			s.degrade("update", err)
		}
	}
	return s.secondary.Update(ctx, id, tracked)
}

func (s *FallbackStore[T]) Upsert(ctx context.Context, match map[string]string, doc T) (T, error) {
	if s.primary != nil {
		stored, err := s.primary.Upsert(ctx, match, doc)
		if err == nil || mongo.IsDuplicateKeyError(err) {
			return stored, err
		}
		s.degrade("upsert", err)
	}
	return s.secondary.Upsert(ctx, match, doc)
}

// Delete removes the document from both backends.
func (s *FallbackStore[T]) Delete(ctx context.Context, id string) error {
	found := false
	if s.primary != nil {
		err := s.primary.Delete(ctx, id)
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, models.ErrNotFound):
			s.degrade("delete", err)
		}
	}
	err := s.secondary.Delete(ctx, id)
	if err == nil {
		return nil
	}
	if found && errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}

// Count returns the primary count, or the memory count when the primary is unavailable.
func (s *FallbackStore[T]) Count(ctx context.Context) (int64, error) {
	if s.primary != nil {
		n, err := s.primary.Count(ctx)
		if err == nil {
			return n, nil
		}
		s.degrade("count", err)
	}
	return s.secondary.Count(ctx)
}

// Name is the collection this store serves.
func (s *FallbackStore[T]) Name() string {
	return s.name
}

// Status reports per-backend document counts for the data-status endpoint.
func (s *FallbackStore[T]) Status(ctx context.Context) models.CollectionStatus {
	status := models.CollectionStatus{Collection: s.name}
	if s.primary != nil {
		if n, err := s.primary.Count(ctx); err == nil {
			status.PrimaryAvailable = true
			status.PrimaryCount = n
		}
	}
	if n, err := s.secondary.Count(ctx); err == nil {
		status.MemoryCount = n
	}
	return status
}

// Sync copies every memory-only document into the primary and drops it from memory.
func (s *FallbackStore[T]) Sync(ctx context.Context) models.SyncResult {
	result := models.SyncResult{Collection: s.name}
	if s.primary == nil {
		result.Error = "mongodb is not configured"
		return result
	}

	docs, err := s.secondary.Find(ctx, Query{})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	for _, doc := range docs {
		_, err := s.primary.FindByID(ctx, doc.GetID())
		switch {
		case err == nil:
			result.Skipped++
		case errors.Is(err, models.ErrNotFound):
			if err := s.primary.Insert(ctx, doc); err != nil {
				logging.Warn().Err(err).Str("collection", s.name).Str("id", doc.GetID()).Msg("data sync insert failed")
				result.Failed++
				continue
			}
			result.Synced++
			metrics.StoreSynced.WithLabelValues(s.name).Inc()
		default:
			logging.Warn().Err(err).Str("collection", s.name).Str("id", doc.GetID()).Msg("data sync lookup failed")
			result.Failed++
			continue
		}
		if err := s.secondary.Delete(ctx, doc.GetID()); err != nil && !errors.Is(err, models.ErrNotFound) {
			logging.Warn().Err(err).Str("collection", s.name).Str("id", doc.GetID()).Msg("data sync cleanup failed")
		}
	}
	return result
}
