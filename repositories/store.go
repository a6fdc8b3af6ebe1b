package repositories

import (
	"context"
)

// Collection names in the MongoDB database.
const (
	EmployeesCollection        = "employees"
	MeetingsCollection         = "meetings"
	MeetingHistoryCollection   = "meeting_history"
	TrackingSessionsCollection = "tracking_sessions"
	AttendanceCollection       = "attendance"
	RouteSnapshotsCollection   = "route_snapshots"
)

// Document is implemented by every persisted model; the id is stored as _id.
type Document interface {
	GetID() string
}

// Query selects documents from a Store. Zero values mean "no constraint".
type Query struct {
	// Equals matches string fields exactly, keyed by bson field name.
	Equals map[string]string

	// TimeField names an ISO-8601 string field bounded by From and To (inclusive).
	TimeField string
	From      string
	To        string

	SortField string
	SortDesc  bool
	Limit     int64
}

// Store is the persistence contract shared by the MongoDB and in-memory backends.
// Lookups that match nothing return an error wrapping models.ErrNotFound.
type Store[T Document] interface {
	Insert(ctx context.Context, doc T) error
	FindByID(ctx context.Context, id string) (T, error)
	Find(ctx context.Context, q Query) ([]T, error)
	// Update loads the document, applies mutate and writes it back. If mutate
	// returns an error nothing is written and that error is returned.
	Update(ctx context.Context, id string, mutate func(*T) error) (T, error)
	// Upsert writes doc over the document matching all match fields, keeping the
	// stored _id, or inserts doc when nothing matches.
	Upsert(ctx context.Context, match map[string]string, doc T) (T, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// Eq builds an Equals map from key/value pairs, skipping empty values.
func Eq(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			m[kv[i]] = kv[i+1]
		}
	}
	return m
}
