// internal/services/metadata_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
)

type MetadataService struct {
	stores *repository.Stores
	logger *logrus.Logger
}

func NewMetadataService(stores *repository.Stores, logger *logrus.Logger) *MetadataService {
	return &MetadataService{stores: stores, logger: logger}
}

func (s *MetadataService) InsertMetadata(m *models.ItemMetadata) error {
	if m.MetadataID == "" {
		return apperrors.NewValidationError("metadata_id", "must not be empty")
	}
	exists, err := s.stores.Metadata.Contains(m.MetadataID)
	if err != nil {
		return fmt.Errorf("failed to check metadata existence: %w", err)
	}
	if exists {
		return &apperrors.ConflictError{
			MetadataID: m.MetadataID,
			Reason:     fmt.Sprintf("metadata %s already exists", m.MetadataID),
		}
	}
	if err := s.stores.Metadata.Insert(m); err != nil {
		return fmt.Errorf("failed to insert metadata: %w", err)
	}
	return nil
}

func (s *MetadataService) UpsertMetadata(m *models.ItemMetadata) error {
	if m.MetadataID == "" {
		return apperrors.NewValidationError("metadata_id", "must not be empty")
	}
	if err := s.stores.Metadata.Upsert(m); err != nil {
		return fmt.Errorf("failed to upsert metadata: %w", err)
	}
	return nil
}

// UpsertMetadataBatch writes every record in one shot. Records already known
// are overwritten, item associations stay untouched. This is the ingest path
// fed by the repository harvester.
func (s *MetadataService) UpsertMetadataBatch(ms []models.ItemMetadata) error {
	for _, m := range ms {
		if m.MetadataID == "" {
			return apperrors.NewValidationError("metadata_id", "must not be empty")
		}
	}
	if err := s.stores.Metadata.UpsertBatch(ms); err != nil {
		return fmt.Errorf("failed to upsert metadata batch: %w", err)
	}
	s.logger.WithField("count", len(ms)).Info("metadata batch upserted")
	return nil
}

func (s *MetadataService) GetMetadata(id string) (*models.ItemMetadata, error) {
	ms, err := s.stores.Metadata.GetByIDs([]string{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	if len(ms) == 0 {
		return nil, apperrors.NewNotFoundError("metadata", id)
	}
	return &ms[0], nil
}

func (s *MetadataService) GetMetadataByIDs(ids []string) ([]models.ItemMetadata, error) {
	ms, err := s.stores.Metadata.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	return ms, nil
}

func (s *MetadataService) ListMetadata(limit, offset int) ([]models.ItemMetadata, error) {
	if limit < 0 || offset < 0 {
		return nil, newPaginationError(limit, offset)
	}
	ms, err := s.stores.Metadata.List(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	return ms, nil
}

func (s *MetadataService) CountMetadata() (int64, error) {
	return s.stores.Metadata.Count()
}

// DeleteMetadata removes a record. Records still linked to rights are
// protected; the caller has to unlink first.
func (s *MetadataService) DeleteMetadata(id string) error {
	exists, err := s.stores.Metadata.Contains(id)
	if err != nil {
		return fmt.Errorf("failed to check metadata existence: %w", err)
	}
	if !exists {
		return apperrors.NewNotFoundError("metadata", id)
	}

	rightIDs, err := s.stores.Items.RightIDsByMetadata(id)
	if err != nil {
		return fmt.Errorf("failed to check item associations: %w", err)
	}
	if len(rightIDs) > 0 {
		return &apperrors.ReferentialGuardError{
			Resource: "metadata",
			ID:       id,
			UsedBy:   rightIDs,
		}
	}

	if err := s.stores.Metadata.Delete(id); err != nil {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}
	return nil
}

func newPaginationError(limit, offset int) error {
	if limit < 0 {
		return apperrors.NewValidationError("limit", fmt.Sprintf("must not be negative, got %d", limit))
	}
	return apperrors.NewValidationError("offset", fmt.Sprintf("must not be negative, got %d", offset))
}
