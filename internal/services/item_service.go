// internal/services/item_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
)

type ItemService struct {
	stores *repository.Stores
	logger *logrus.Logger
}

func NewItemService(stores *repository.Stores, logger *logrus.Logger) *ItemService {
	return &ItemService{stores: stores, logger: logger}
}

// LinkItem associates a right with a metadata record. Both sides must exist,
// the pair must be new, and the right's validity window must not overlap any
// right already linked to the item. When deleteRightOnConflict is set a
// conflicting fresh right is removed again, so callers creating right and
// link in one step leave no orphan behind.
func (s *ItemService) LinkItem(metadataID, rightID string, deleteRightOnConflict bool) error {
	hasMetadata, err := s.stores.Metadata.Contains(metadataID)
	if err != nil {
		return fmt.Errorf("failed to check metadata existence: %w", err)
	}
	if !hasMetadata {
		return apperrors.NewNotFoundError("metadata", metadataID)
	}
	hasRight, err := s.stores.Rights.Contains(rightID)
	if err != nil {
		return fmt.Errorf("failed to check right existence: %w", err)
	}
	if !hasRight {
		return apperrors.NewNotFoundError("right", rightID)
	}

	exists, err := s.stores.Items.Exists(metadataID, rightID)
	if err != nil {
		return fmt.Errorf("failed to check item association: %w", err)
	}
	if exists {
		return &apperrors.ConflictError{
			MetadataID: metadataID,
			RightID:    rightID,
			Reason:     "item association already exists",
		}
	}

	conflicting, err := s.findConflict(metadataID, rightID)
	if err != nil {
		return err
	}
	if conflicting != "" {
		if deleteRightOnConflict {
			if err := s.stores.Items.DeleteByRight(rightID); err != nil {
				return fmt.Errorf("failed to unlink conflicting right: %w", err)
			}
			if err := s.stores.Rights.Delete(rightID); err != nil {
				return fmt.Errorf("failed to delete conflicting right: %w", err)
			}
			s.logger.WithFields(logrus.Fields{
				"right_id":    rightID,
				"metadata_id": metadataID,
			}).Info("right removed after validity conflict")
		}
		return &apperrors.ConflictError{
			MetadataID:         metadataID,
			RightID:            rightID,
			ConflictingRightID: conflicting,
			Reason:             "validity windows overlap",
		}
	}

	if err := s.stores.Items.Insert(metadataID, rightID); err != nil {
		return fmt.Errorf("failed to insert item association: %w", err)
	}
	return nil
}

// UnlinkItem removes one item association.
func (s *ItemService) UnlinkItem(metadataID, rightID string) error {
	exists, err := s.stores.Items.Exists(metadataID, rightID)
	if err != nil {
		return fmt.Errorf("failed to check item association: %w", err)
	}
	if !exists {
		return apperrors.NewNotFoundError("item association",
			fmt.Sprintf("(%s,%s)", metadataID, rightID))
	}
	if err := s.stores.Items.Delete(metadataID, rightID); err != nil {
		return fmt.Errorf("failed to delete item association: %w", err)
	}
	return nil
}

func (s *ItemService) UnlinkByMetadata(metadataID string) error {
	if err := s.stores.Items.DeleteByMetadata(metadataID); err != nil {
		return fmt.Errorf("failed to delete item associations: %w", err)
	}
	return nil
}

func (s *ItemService) UnlinkByRight(rightID string) error {
	if err := s.stores.Items.DeleteByRight(rightID); err != nil {
		return fmt.Errorf("failed to delete item associations: %w", err)
	}
	return nil
}

// GetItem returns the metadata record with every right linked to it.
func (s *ItemService) GetItem(metadataID string) (*models.Item, error) {
	ms, err := s.stores.Metadata.GetByIDs([]string{metadataID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	if len(ms) == 0 {
		return nil, apperrors.NewNotFoundError("metadata", metadataID)
	}
	rightIDs, err := s.stores.Items.RightIDsByMetadata(metadataID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve linked rights: %w", err)
	}
	rights, err := s.stores.Rights.GetByIDs(rightIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch linked rights: %w", err)
	}
	return &models.Item{Metadata: ms[0], Rights: rights}, nil
}

func (s *ItemService) CountLinksByRight(rightID string) (int64, error) {
	return s.stores.Items.CountByRight(rightID)
}

func (s *ItemService) CountLinksByMetadata(metadataID string) (int64, error) {
	return s.stores.Items.CountByMetadata(metadataID)
}

// findConflict returns the id of the first already-linked right whose window
// overlaps the candidate's, or "" when the link is clean.
func (s *ItemService) findConflict(metadataID, rightID string) (string, error) {
	candidates, err := s.stores.Rights.GetByIDs([]string{rightID})
	if err != nil {
		return "", fmt.Errorf("failed to fetch right: %w", err)
	}
	if len(candidates) == 0 {
		return "", apperrors.NewNotFoundError("right", rightID)
	}
	candidate := candidates[0]

	linkedIDs, err := s.stores.Items.RightIDsByMetadata(metadataID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve linked rights: %w", err)
	}
	linked, err := s.stores.Rights.GetByIDs(linkedIDs)
	if err != nil {
		return "", fmt.Errorf("failed to fetch linked rights: %w", err)
	}
	for i := range linked {
		if linked[i].RightID == rightID {
			continue
		}
		if RightsConflict(&candidate, &linked[i]) {
			return linked[i].RightID, nil
		}
	}
	return "", nil
}
