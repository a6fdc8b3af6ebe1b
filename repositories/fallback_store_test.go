package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/fieldtrack_backend/models"
)

var errDown = errors.New("server selection timeout")

// brokenStore fails every call the way an unreachable MongoDB does, or with err when set.
type brokenStore[T Document] struct {
	calls int
	err   error
}

func (b *brokenStore[T]) fail() error {
	b.calls++
	if b.err != nil {
		return b.err
	}
	return errDown
}

func (b *brokenStore[T]) Insert(context.Context, T) error { return b.fail() }
func (b *brokenStore[T]) FindByID(context.Context, string) (T, error) {
	var zero T
	return zero, b.fail()
}
func (b *brokenStore[T]) Find(context.Context, Query) ([]T, error) { return nil, b.fail() }
func (b *brokenStore[T]) Update(context.Context, string, func(*T) error) (T, error) {
	var zero T
	return zero, b.fail()
}
func (b *brokenStore[T]) Upsert(context.Context, map[string]string, T) (T, error) {
	var zero T
	return zero, b.fail()
}
func (b *brokenStore[T]) Delete(context.Context, string) error   { return b.fail() }
func (b *brokenStore[T]) Count(context.Context) (int64, error) { return 0, b.fail() }

func TestFallbackStoreDegradesToMemory(t *testing.T) {
	ctx := context.Background()
	primary := &brokenStore[models.TrackingSession]{}
	memory := NewMemoryStore[models.TrackingSession](TrackingSessionsCollection)
	s := NewFallbackStore[models.TrackingSession](TrackingSessionsCollection, primary, memory)

	require.NoError(t, s.Insert(ctx, session("a", "e1", "2025-01-01T00:00:00.000Z")))

	got, err := s.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "e1", got.EmployeeID)

	list, err := s.Find(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.Update(ctx, "a", func(doc *models.TrackingSession) error {
		doc.Status = models.SessionStatusPaused
		return nil
	})
	require.NoError(t, err)
	got, _ = memory.FindByID(ctx, "a")
	assert.Equal(t, models.SessionStatusPaused, got.Status)

	require.NoError(t, s.Delete(ctx, "a"))
	assert.ErrorIs(t, s.Delete(ctx, "a"), models.ErrNotFound)
	assert.Greater(t, primary.calls, 0)

	status := s.Status(ctx)
	assert.False(t, status.PrimaryAvailable)
}

func TestFallbackStoreReadsMemoryOnlyDocuments(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore[models.Meeting](MeetingsCollection)
	memory := NewMemoryStore[models.Meeting](MeetingsCollection)
	s := NewFallbackStore[models.Meeting](MeetingsCollection, primary, memory)

	require.NoError(t, memory.Insert(ctx, models.Meeting{ID: "m1", EmployeeID: "e1"}))

	got, err := s.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", got.ID)

	updated, err := s.Update(ctx, "m1", func(m *models.Meeting) error {
		m.Status = models.MeetingStatusCompleted
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusCompleted, updated.Status)

	// Healthy primary answers listings on its own.
	list, err := s.Find(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFallbackStoreMutationErrorIsNotAFailover(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore[models.Meeting](MeetingsCollection)
	memory := NewMemoryStore[models.Meeting](MeetingsCollection)
	s := NewFallbackStore[models.Meeting](MeetingsCollection, primary, memory)
	require.NoError(t, primary.Insert(ctx, models.Meeting{ID: "m1"}))

	invalid := models.NewValidationError("discussion", "required")
	_, err := s.Update(ctx, "m1", func(*models.Meeting) error { return invalid })
	assert.ErrorIs(t, err, invalid)
}

func TestFallbackStoreDuplicateKeyIsNotAFailover(t *testing.T) {
	ctx := context.Background()
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
	primary := &brokenStore[models.Employee]{err: dup}
	memory := NewMemoryStore[models.Employee](EmployeesCollection)
	s := NewFallbackStore[models.Employee](EmployeesCollection, primary, memory)

	err := s.Insert(ctx, models.Employee{ID: "e1"})
	require.Error(t, err)
	assert.True(t, mongo.IsDuplicateKeyError(err))

	_, err = s.Upsert(ctx, map[string]string{"employeeId": "e1"}, models.Employee{ID: "e1"})
	assert.True(t, mongo.IsDuplicateKeyError(err))

	_, err = s.Update(ctx, "e1", func(*models.Employee) error { return nil })
	assert.True(t, mongo.IsDuplicateKeyError(err))

	n, err := memory.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing may be written to memory")
}

func TestFallbackStoreMemoryOnly(t *testing.T) {
	ctx := context.Background()
	s := NewFallbackStore[models.Meeting](MeetingsCollection, nil, NewMemoryStore[models.Meeting](MeetingsCollection))

	require.NoError(t, s.Insert(ctx, models.Meeting{ID: "m1"}))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	res := s.Sync(ctx)
	assert.NotEmpty(t, res.Error)
}

func TestFallbackStoreSync(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore[models.Meeting](MeetingsCollection)
	memory := NewMemoryStore[models.Meeting](MeetingsCollection)
	s := NewFallbackStore[models.Meeting](MeetingsCollection, primary, memory)

	require.NoError(t, primary.Insert(ctx, models.Meeting{ID: "both"}))
	require.NoError(t, memory.Insert(ctx, models.Meeting{ID: "both"}))
	require.NoError(t, memory.Insert(ctx, models.Meeting{ID: "only-memory"}))

	res := s.Sync(ctx)
	assert.Equal(t, 1, res.Synced)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Failed)

	_, err := primary.FindByID(ctx, "only-memory")
	assert.NoError(t, err)

	status := s.Status(ctx)
	assert.True(t, status.PrimaryAvailable)
	assert.Equal(t, int64(2), status.PrimaryCount)
	assert.Zero(t, status.MemoryCount)
}
