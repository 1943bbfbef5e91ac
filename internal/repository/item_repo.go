// internal/repository/item_repo.go
package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/greenbourne277/zbwcloud/internal/models"
)

type itemStore struct {
	db *gorm.DB
}

func (s *itemStore) Insert(metadataID, rightID string) error {
	err := s.db.Create(&models.ItemEntry{MetadataID: metadataID, RightID: rightID}).Error
	if err != nil {
		return fmt.Errorf("failed to insert item entry: %w", err)
	}
	return nil
}

func (s *itemStore) Exists(metadataID, rightID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.ItemEntry{}).
		Where("metadata_id = ? AND right_id = ?", metadataID, rightID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *itemStore) Delete(metadataID, rightID string) error {
	return s.db.Delete(&models.ItemEntry{}, "metadata_id = ? AND right_id = ?", metadataID, rightID).Error
}

func (s *itemStore) DeleteByMetadata(metadataID string) error {
	return s.db.Delete(&models.ItemEntry{}, "metadata_id = ?", metadataID).Error
}

func (s *itemStore) DeleteByRight(rightID string) error {
	return s.db.Delete(&models.ItemEntry{}, "right_id = ?", rightID).Error
}

func (s *itemStore) CountByRight(rightID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.ItemEntry{}).Where("right_id = ?", rightID).Count(&count).Error
	return count, err
}

func (s *itemStore) CountByMetadata(metadataID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.ItemEntry{}).Where("metadata_id = ?", metadataID).Count(&count).Error
	return count, err
}

func (s *itemStore) RightIDsByMetadata(metadataID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.ItemEntry{}).
		Where("metadata_id = ?", metadataID).
		Order("right_id").Pluck("right_id", &ids).Error
	return ids, err
}

func (s *itemStore) MetadataIDsByRight(rightID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.ItemEntry{}).
		Where("right_id = ?", rightID).
		Order("metadata_id").Pluck("metadata_id", &ids).Error
	return ids, err
}

// ReplaceLinks swaps the full link set of a right inside one transaction so
// readers never observe a half-updated association set.
func (s *itemStore) ReplaceLinks(rightID string, metadataIDs []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ItemEntry{}, "right_id = ?", rightID).Error; err != nil {
			return fmt.Errorf("failed to remove previous links: %w", err)
		}
		if len(metadataIDs) == 0 {
			return nil
		}
		entries := make([]models.ItemEntry, 0, len(metadataIDs))
		for _, id := range metadataIDs {
			entries = append(entries, models.ItemEntry{MetadataID: id, RightID: rightID})
		}
		if err := tx.CreateInBatches(entries, 500).Error; err != nil {
			return fmt.Errorf("failed to insert new links: %w", err)
		}
		return nil
	})
}
