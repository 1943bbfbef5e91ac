// internal/services/group_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
)

type GroupService struct {
	stores *repository.Stores
	logger *logrus.Logger
}

func NewGroupService(stores *repository.Stores, logger *logrus.Logger) *GroupService {
	return &GroupService{stores: stores, logger: logger}
}

func (s *GroupService) InsertGroup(g *models.RightGroup) error {
	if g.GroupID == "" {
		return apperrors.NewValidationError("group_id", "must not be empty")
	}
	existing, err := s.stores.Groups.GetByID(g.GroupID)
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	if existing != nil {
		return &apperrors.ConflictError{
			Reason: fmt.Sprintf("group %s already exists", g.GroupID),
		}
	}
	if err := s.stores.Groups.Insert(g); err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

func (s *GroupService) UpdateGroup(g *models.RightGroup) error {
	existing, err := s.stores.Groups.GetByID(g.GroupID)
	if err != nil {
		return fmt.Errorf("failed to fetch group: %w", err)
	}
	if existing == nil {
		return apperrors.NewNotFoundError("group", g.GroupID)
	}
	if err := s.stores.Groups.Update(g); err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

func (s *GroupService) GetGroup(id string) (*models.RightGroup, error) {
	g, err := s.stores.Groups.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group: %w", err)
	}
	if g == nil {
		return nil, apperrors.NewNotFoundError("group", id)
	}
	return g, nil
}

func (s *GroupService) ListGroups(limit, offset int) ([]models.RightGroup, error) {
	if limit < 0 || offset < 0 {
		return nil, newPaginationError(limit, offset)
	}
	gs, err := s.stores.Groups.List(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return gs, nil
}

// DeleteGroup removes a group unless rights still reference it.
func (s *GroupService) DeleteGroup(id string) error {
	g, err := s.stores.Groups.GetByID(id)
	if err != nil {
		return fmt.Errorf("failed to fetch group: %w", err)
	}
	if g == nil {
		return apperrors.NewNotFoundError("group", id)
	}

	rightIDs, err := s.stores.Groups.RightIDsByGroup(id)
	if err != nil {
		return fmt.Errorf("failed to check group usage: %w", err)
	}
	if len(rightIDs) > 0 {
		return &apperrors.ReferentialGuardError{
			Resource: "group",
			ID:       id,
			UsedBy:   rightIDs,
		}
	}

	if err := s.stores.Groups.Delete(id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}
