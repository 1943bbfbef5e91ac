// internal/services/right_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
)

type RightService struct {
	stores *repository.Stores
	logger *logrus.Logger
}

func NewRightService(stores *repository.Stores, logger *logrus.Logger) *RightService {
	return &RightService{stores: stores, logger: logger}
}

// InsertRight stores a new right and returns its generated id. Template
// rights additionally get their name checked for uniqueness and their
// exception reference validated.
func (s *RightService) InsertRight(r *models.ItemRight) (string, error) {
	if r.RightID == "" {
		r.RightID = uuid.New().String()
	}
	if err := s.validateRight(r); err != nil {
		return "", err
	}

	exists, err := s.stores.Rights.Contains(r.RightID)
	if err != nil {
		return "", fmt.Errorf("failed to check right existence: %w", err)
	}
	if exists {
		return "", &apperrors.ConflictError{
			RightID: r.RightID,
			Reason:  fmt.Sprintf("right %s already exists", r.RightID),
		}
	}

	if err := s.stores.Rights.Insert(r); err != nil {
		return "", fmt.Errorf("failed to insert right: %w", err)
	}
	if err := s.reconcileGroups(r.RightID, r.GroupIDs); err != nil {
		return "", err
	}
	return r.RightID, nil
}

// UpsertRight overwrites a right in place and reconciles its group
// memberships: pairs for groups no longer listed are removed, new ones
// inserted.
func (s *RightService) UpsertRight(r *models.ItemRight) error {
	if r.RightID == "" {
		return apperrors.NewValidationError("right_id", "must not be empty")
	}
	if err := s.validateRight(r); err != nil {
		return err
	}
	if err := s.stores.Rights.Upsert(r); err != nil {
		return fmt.Errorf("failed to upsert right: %w", err)
	}
	return s.reconcileGroups(r.RightID, r.GroupIDs)
}

func (s *RightService) GetRight(id string) (*models.ItemRight, error) {
	rs, err := s.stores.Rights.GetByIDs([]string{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch right: %w", err)
	}
	if len(rs) == 0 {
		return nil, apperrors.NewNotFoundError("right", id)
	}
	r := rs[0]
	groupIDs, err := s.stores.Groups.GroupIDsByRight(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group memberships: %w", err)
	}
	r.GroupIDs = groupIDs
	return &r, nil
}

func (s *RightService) GetRightsByIDs(ids []string) ([]models.ItemRight, error) {
	rs, err := s.stores.Rights.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rights: %w", err)
	}
	return rs, nil
}

func (s *RightService) ListTemplates(limit, offset int) ([]models.ItemRight, error) {
	if limit < 0 || offset < 0 {
		return nil, newPaginationError(limit, offset)
	}
	ts, err := s.stores.Rights.ListTemplates(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return ts, nil
}

// DeleteRight removes a right together with its group and bookmark pairs.
// Rights still linked to items are protected, and so are templates other
// templates declare exceptions to.
func (s *RightService) DeleteRight(id string) error {
	exists, err := s.stores.Rights.Contains(id)
	if err != nil {
		return fmt.Errorf("failed to check right existence: %w", err)
	}
	if !exists {
		return apperrors.NewNotFoundError("right", id)
	}

	linked, err := s.stores.Items.CountByRight(id)
	if err != nil {
		return fmt.Errorf("failed to check item associations: %w", err)
	}
	if linked > 0 {
		return &apperrors.ReferentialGuardError{
			Resource: "right",
			ID:       id,
			UsedBy:   []string{fmt.Sprintf("%d item associations", linked)},
		}
	}

	exceptions, err := s.stores.Rights.TemplatesByExceptionFrom(id)
	if err != nil {
		return fmt.Errorf("failed to check exception references: %w", err)
	}
	if len(exceptions) > 0 {
		usedBy := make([]string, 0, len(exceptions))
		for _, e := range exceptions {
			usedBy = append(usedBy, e.RightID)
		}
		return &apperrors.ReferentialGuardError{
			Resource: "right",
			ID:       id,
			UsedBy:   usedBy,
		}
	}

	if err := s.stores.Groups.DeletePairsByRight(id); err != nil {
		return fmt.Errorf("failed to remove group pairs: %w", err)
	}
	if err := s.stores.Bookmarks.DeletePairsByRight(id); err != nil {
		return fmt.Errorf("failed to remove bookmark pairs: %w", err)
	}
	if err := s.stores.Rights.Delete(id); err != nil {
		return fmt.Errorf("failed to delete right: %w", err)
	}
	return nil
}

func (s *RightService) validateRight(r *models.ItemRight) error {
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return apperrors.NewValidationError("end_date", "must not precede start_date")
	}

	if !r.IsTemplate {
		if r.TemplateName != nil {
			return apperrors.NewValidationError("template_name", "only templates carry a name")
		}
		if r.ExceptionFrom != nil {
			return apperrors.NewValidationError("exception_from", "only templates declare exceptions")
		}
		return nil
	}

	if r.TemplateName == nil || *r.TemplateName == "" {
		return apperrors.NewValidationError("template_name", "required for templates")
	}
	taken, err := s.stores.Rights.TemplateNameExists(*r.TemplateName, r.RightID)
	if err != nil {
		return fmt.Errorf("failed to check template name: %w", err)
	}
	if taken {
		return &apperrors.ConflictError{
			RightID: r.RightID,
			Reason:  fmt.Sprintf("template name %q is already taken", *r.TemplateName),
		}
	}

	if r.ExceptionFrom != nil {
		return s.validateExceptionBase(r.RightID, *r.ExceptionFrom)
	}
	return nil
}

// validateExceptionBase enforces single-level exception chains: the base must
// be an existing template that is not itself an exception.
func (s *RightService) validateExceptionBase(rightID, baseID string) error {
	if baseID == rightID {
		return apperrors.NewValidationError("exception_from", "a template cannot be its own exception base")
	}
	bases, err := s.stores.Rights.GetByIDs([]string{baseID})
	if err != nil {
		return fmt.Errorf("failed to fetch exception base: %w", err)
	}
	if len(bases) == 0 {
		return apperrors.NewValidationError("exception_from",
			fmt.Sprintf("template %s does not exist", baseID))
	}
	base := bases[0]
	if !base.IsTemplate {
		return apperrors.NewValidationError("exception_from",
			fmt.Sprintf("right %s is not a template", baseID))
	}
	if base.ExceptionFrom != nil {
		return apperrors.NewValidationError("exception_from",
			fmt.Sprintf("template %s is itself an exception, chains are limited to one level", baseID))
	}
	return nil
}

func (s *RightService) reconcileGroups(rightID string, wanted []string) error {
	current, err := s.stores.Groups.GroupIDsByRight(rightID)
	if err != nil {
		return fmt.Errorf("failed to fetch group memberships: %w", err)
	}

	wantedSet := make(map[string]bool, len(wanted))
	for _, g := range wanted {
		wantedSet[g] = true
	}
	currentSet := make(map[string]bool, len(current))
	for _, g := range current {
		currentSet[g] = true
	}

	for _, g := range current {
		if !wantedSet[g] {
			if err := s.stores.Groups.DeletePair(g, rightID); err != nil {
				return fmt.Errorf("failed to remove group pair: %w", err)
			}
		}
	}
	for _, g := range wanted {
		if currentSet[g] {
			continue
		}
		group, err := s.stores.Groups.GetByID(g)
		if err != nil {
			return fmt.Errorf("failed to fetch group: %w", err)
		}
		if group == nil {
			return apperrors.NewValidationError("group_ids",
				fmt.Sprintf("group %s does not exist", g))
		}
		if err := s.stores.Groups.InsertPair(g, rightID); err != nil {
			return fmt.Errorf("failed to insert group pair: %w", err)
		}
	}
	return nil
}
