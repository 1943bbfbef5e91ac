// internal/repository/right_repo.go
package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenbourne277/zbwcloud/internal/models"
)

type rightStore struct {
	db *gorm.DB
}

func (s *rightStore) Insert(r *models.ItemRight) error {
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("failed to insert right: %w", err)
	}
	return nil
}

func (s *rightStore) Upsert(r *models.ItemRight) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "right_id"}},
		UpdateAll: true,
	}).Create(r).Error
	if err != nil {
		return fmt.Errorf("failed to upsert right: %w", err)
	}
	return nil
}

func (s *rightStore) GetByIDs(ids []string) ([]models.ItemRight, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.ItemRight
	if err := s.db.Where("right_id = ANY(?)", textArray(ids)).
		Order("right_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch rights: %w", err)
	}
	return out, nil
}

func (s *rightStore) Delete(id string) error {
	return s.db.Delete(&models.ItemRight{}, "right_id = ?", id).Error
}

func (s *rightStore) Contains(id string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.ItemRight{}).
		Where("right_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *rightStore) ListTemplates(limit, offset int) ([]models.ItemRight, error) {
	var out []models.ItemRight
	err := s.db.Where("is_template = ?", true).
		Order("template_name").Limit(limit).Offset(offset).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return out, nil
}

func (s *rightStore) AllTemplateIDs() ([]string, error) {
	var ids []string
	err := s.db.Model(&models.ItemRight{}).
		Where("is_template = ?", true).
		Order("right_id").Pluck("right_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template ids: %w", err)
	}
	return ids, nil
}

func (s *rightStore) TemplatesByExceptionFrom(rightID string) ([]models.ItemRight, error) {
	var out []models.ItemRight
	err := s.db.Where("is_template = ? AND exception_from = ?", true, rightID).
		Order("right_id").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exception templates: %w", err)
	}
	return out, nil
}

func (s *rightStore) TemplateNameExists(name, excludeRightID string) (bool, error) {
	var count int64
	q := s.db.Model(&models.ItemRight{}).
		Where("is_template = ? AND template_name = ?", true, name)
	if excludeRightID != "" {
		q = q.Where("right_id <> ?", excludeRightID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *rightStore) TouchLastApplied(rightID string, appliedOn time.Time) error {
	return s.db.Model(&models.ItemRight{}).
		Where("right_id = ?", rightID).
		Update("last_applied_on", appliedOn).Error
}

type groupStore struct {
	db *gorm.DB
}

func (s *groupStore) Insert(g *models.RightGroup) error {
	if err := s.db.Create(g).Error; err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

func (s *groupStore) Update(g *models.RightGroup) error {
	return s.db.Model(&models.RightGroup{}).
		Where("group_id = ?", g.GroupID).
		Updates(map[string]interface{}{
			"description":     g.Description,
			"entries":         g.Entries,
			"last_updated_on": g.LastUpdatedOn,
		}).Error
}

func (s *groupStore) GetByID(groupID string) (*models.RightGroup, error) {
	var g models.RightGroup
	err := s.db.First(&g, "group_id = ?", groupID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group: %w", err)
	}
	return &g, nil
}

func (s *groupStore) List(limit, offset int) ([]models.RightGroup, error) {
	var out []models.RightGroup
	err := s.db.Order("group_id").Limit(limit).Offset(offset).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return out, nil
}

func (s *groupStore) Delete(groupID string) error {
	return s.db.Delete(&models.RightGroup{}, "group_id = ?", groupID).Error
}

func (s *groupStore) InsertPair(groupID, rightID string) error {
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.GroupRightPair{GroupID: groupID, RightID: rightID}).Error
}

func (s *groupStore) DeletePair(groupID, rightID string) error {
	return s.db.Delete(&models.GroupRightPair{}, "group_id = ? AND right_id = ?", groupID, rightID).Error
}

func (s *groupStore) DeletePairsByRight(rightID string) error {
	return s.db.Delete(&models.GroupRightPair{}, "right_id = ?", rightID).Error
}

func (s *groupStore) GroupIDsByRight(rightID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.GroupRightPair{}).
		Where("right_id = ?", rightID).
		Order("group_id").Pluck("group_id", &ids).Error
	return ids, err
}

func (s *groupStore) RightIDsByGroup(groupID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.GroupRightPair{}).
		Where("group_id = ?", groupID).
		Order("right_id").Pluck("right_id", &ids).Error
	return ids, err
}
