package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

// MemoryStore is the process-local backend. Documents are kept in insertion order
// and queried through their bson representation so both backends agree on field names.
// Stored documents are deep copies; callers never share slices with the store.
type MemoryStore[T Document] struct {
	name string
	mu   sync.RWMutex
	docs []T
}

func NewMemoryStore[T Document](name string) *MemoryStore[T] {
	return &MemoryStore[T]{name: name}
}

func (s *MemoryStore[T]) Insert(_ context.Context, doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(doc.GetID()) >= 0 {
		return fmt.Errorf("%s: duplicate id %q", s.name, doc.GetID())
	}
	stored, err := clone(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	s.docs = append(s.docs, stored)
	return nil
}

func (s *MemoryStore[T]) FindByID(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return clone(s.docs[i])
	}
	var zero T
	return zero, models.NotFound(s.name, id)
}

func (s *MemoryStore[T]) Find(_ context.Context, q Query) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type row struct {
		doc    T
		fields bson.M
	}
	rows := make([]row, 0, len(s.docs))
	for _, doc := range s.docs {
		fields, err := toFields(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		if matches(q, fields) {
			rows = append(rows, row{doc: doc, fields: fields})
		}
	}

	if q.SortField != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			c := utils.CompareTimestamps(fieldString(rows[i].fields, q.SortField), fieldString(rows[j].fields, q.SortField))
			if q.SortDesc {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && int64(len(rows)) > q.Limit {
		rows = rows[:q.Limit]
	}

	out := make([]T, len(rows))
	for i, r := range rows {
		doc, err := clone(r.doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		out[i] = doc
	}
	return out, nil
}

func (s *MemoryStore[T]) Update(_ context.Context, id string, mutate func(*T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.indexOf(id)
	if i < 0 {
		return zero, models.NotFound(s.name, id)
	}
	doc, err := clone(s.docs[i])
	if err != nil {
		return zero, fmt.Errorf("%s: %w", s.name, err)
	}
	if err := mutate(&doc); err != nil {
		return zero, err
	}
	if doc.GetID() != id {
		return zero, fmt.Errorf("%s: update may not change _id", s.name)
	}
	stored, err := clone(doc)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", s.name, err)
	}
	s.docs[i] = stored
	return doc, nil
}

func (s *MemoryStore[T]) Upsert(_ context.Context, match map[string]string, doc T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	q := Query{Equals: match}
	for i, existing := range s.docs {
		fields, err := toFields(existing)
		if err != nil {
			return zero, fmt.Errorf("%s: %w", s.name, err)
		}
		if !matches(q, fields) {
			continue
		}
		replaced, err := withID(doc, existing.GetID())
		if err != nil {
			return zero, fmt.Errorf("%s: %w", s.name, err)
		}
		s.docs[i] = replaced
		return clone(replaced)
	}
	stored, err := clone(doc)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", s.name, err)
	}
	s.docs = append(s.docs, stored)
	return doc, nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.NotFound(s.name, id)
	}
	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	return nil
}

func (s *MemoryStore[T]) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.docs)), nil
}

// indexOf must be called with mu held.
func (s *MemoryStore[T]) indexOf(id string) int {
	for i, doc := range s.docs {
		if doc.GetID() == id {
			return i
		}
	}
	return -1
}

func clone[T Document](doc T) (T, error) {
	var out T
	raw, err := bson.Marshal(doc)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}

func toFields(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// withID returns a copy of doc whose _id is replaced by id.
func withID[T Document](doc T, id string) (T, error) {
	var out T
	fields, err := toFields(doc)
	if err != nil {
		return out, err
	}
	fields["_id"] = id
	raw, err := bson.Marshal(fields)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}

func fieldString(fields bson.M, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func matches(q Query, fields bson.M) bool {
	for k, v := range q.Equals {
		if fieldString(fields, k) != v {
			return false
		}
	}
	if q.TimeField == "" || (q.From == "" && q.To == "") {
		return true
	}
	ts := fieldString(fields, q.TimeField)
	if ts == "" {
		return false
	}
	if q.From != "" && utils.CompareTimestamps(ts, q.From) < 0 {
		return false
	}
	if q.To != "" && utils.CompareTimestamps(ts, q.To) > 0 {
		return false
	}
	return true
}
