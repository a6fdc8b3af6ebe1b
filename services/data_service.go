package services

import (
	"context"

	"github.com/HSouheill/fieldtrack_backend/models"
)

// SyncableCollection is a dual-path store that can report on and repair itself.
type SyncableCollection interface {
	Name() string
	Status(ctx context.Context) models.CollectionStatus
	Sync(ctx context.Context) models.SyncResult
}

// DataService backs the data-status and data-sync endpoints.
type DataService struct {
	collections []SyncableCollection
}

func NewDataService(collections ...SyncableCollection) *DataService {
	return &DataService{collections: collections}
}

func (s *DataService) Status(ctx context.Context) []models.CollectionStatus {
	out := make([]models.CollectionStatus, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c.Status(ctx))
	}
	return out
}

// Sync pushes memory-only documents of every collection into MongoDB.
func (s *DataService) Sync(ctx context.Context) []models.SyncResult {
	out := make([]models.SyncResult, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c.Sync(ctx))
	}
	return out
}
