// internal/services/template_service.go
package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/metrics"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
	"github.com/greenbourne277/zbwcloud/internal/search"
)

const defaultApplyWorkers = 4

// TemplateService drives the template application engine: it replays the
// bookmarks attached to a template, subtracts the candidates claimed by the
// template's exceptions, rejects items whose linked rights would collide on
// the validity window, and replaces the template's item associations with the
// surviving set.
type TemplateService struct {
	stores  *repository.Stores
	searchS *SearchService
	logger  *logrus.Logger
	workers int
}

func NewTemplateService(stores *repository.Stores, searchS *SearchService, logger *logrus.Logger, workers int) *TemplateService {
	if workers <= 0 {
		workers = defaultApplyWorkers
	}
	return &TemplateService{
		stores:  stores,
		searchS: searchS,
		logger:  logger,
		workers: workers,
	}
}

// ApplyTemplate applies one template. Per-item validity conflicts do not
// abort the apply: the item is skipped, the conflict is reported on the
// result, and every clean candidate is still linked.
func (s *TemplateService) ApplyTemplate(rightID string) (*models.TemplateApplyResult, error) {
	template, err := s.fetchTemplate(rightID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.candidateSet(rightID)
	if err != nil {
		return nil, err
	}
	if err := s.subtractExceptions(rightID, candidates); err != nil {
		return nil, err
	}

	result, err := s.linkCandidates(template, candidates)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"right_id":  rightID,
		"linked":    len(result.LinkedMetadataIDs),
		"conflicts": len(result.Errors),
	}).Info("template applied")
	metrics.TemplateApplies.Inc()
	metrics.TemplateItemsLinked.Add(float64(len(result.LinkedMetadataIDs)))
	metrics.TemplateConflicts.Add(float64(len(result.Errors)))

	return result, nil
}

// ApplyTemplates applies a batch. Candidate sets are resolved concurrently,
// the link replacement itself runs sequentially so templates applied earlier
// in the batch are visible to the conflict checks of later ones. Exception
// templates are processed before their bases.
func (s *TemplateService) ApplyTemplates(rightIDs []string) ([]models.TemplateApplyResult, error) {
	templates := make(map[string]*models.ItemRight, len(rightIDs))
	for _, id := range rightIDs {
		t, err := s.fetchTemplate(id)
		if err != nil {
			return nil, err
		}
		templates[id] = t
	}

	candidates, err := s.resolveCandidateSets(rightIDs)
	if err != nil {
		return nil, err
	}

	ordered := orderExceptionsFirst(templates)
	results := make([]models.TemplateApplyResult, 0, len(ordered))
	for _, id := range ordered {
		set := candidates[id]
		if err := s.subtractExceptions(id, set); err != nil {
			return nil, err
		}
		result, err := s.linkCandidates(templates[id], set)
		if err != nil {
			return nil, err
		}
		metrics.TemplateApplies.Inc()
		metrics.TemplateItemsLinked.Add(float64(len(result.LinkedMetadataIDs)))
		metrics.TemplateConflicts.Add(float64(len(result.Errors)))
		results = append(results, *result)
	}

	s.logger.WithField("count", len(results)).Info("template batch applied")
	return results, nil
}

// ApplyAllTemplates applies every stored template.
func (s *TemplateService) ApplyAllTemplates() ([]models.TemplateApplyResult, error) {
	ids, err := s.stores.Rights.AllTemplateIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.ApplyTemplates(ids)
}

func (s *TemplateService) fetchTemplate(rightID string) (*models.ItemRight, error) {
	rs, err := s.stores.Rights.GetByIDs([]string{rightID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template: %w", err)
	}
	if len(rs) == 0 {
		return nil, apperrors.NewNotFoundError("template", rightID)
	}
	if !rs[0].IsTemplate {
		return nil, apperrors.NewValidationError("right_id",
			fmt.Sprintf("right %s is not a template", rightID))
	}
	return &rs[0], nil
}

// candidateSet is the union of every attached bookmark's unbounded match
// set, deduplicated by metadata id.
func (s *TemplateService) candidateSet(rightID string) (map[string]bool, error) {
	bookmarkIDs, err := s.stores.Bookmarks.BookmarkIDsByRight(rightID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve template bookmarks: %w", err)
	}
	bookmarks, err := s.stores.Bookmarks.GetByIDs(bookmarkIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template bookmarks: %w", err)
	}

	set := make(map[string]bool)
	for i := range bookmarks {
		ids, err := s.searchS.CandidateMetadataIDs(search.FromBookmark(&bookmarks[i]))
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			set[id] = true
		}
	}
	return set, nil
}

// resolveCandidateSets computes the candidate set of every template in the
// batch through a bounded worker pool.
func (s *TemplateService) resolveCandidateSets(rightIDs []string) (map[string]map[string]bool, error) {
	var (
		mtx       sync.Mutex
		wg        sync.WaitGroup
		sem       = make(chan struct{}, s.workers)
		sets      = make(map[string]map[string]bool, len(rightIDs))
		firstErr  error
		errorOnce sync.Once
	)

	for _, id := range rightIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()
			set, err := s.candidateSet(id)
			if err != nil {
				errorOnce.Do(func() { firstErr = err })
				return
			}
			mtx.Lock()
			sets[id] = set
			mtx.Unlock()
		}(id)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return sets, nil
}

// subtractExceptions removes every metadata id claimed by an exception of
// the given template. Exception chains are one level deep, so this never
// recurses.
func (s *TemplateService) subtractExceptions(rightID string, set map[string]bool) error {
	exceptions, err := s.stores.Rights.TemplatesByExceptionFrom(rightID)
	if err != nil {
		return fmt.Errorf("failed to resolve exceptions: %w", err)
	}
	for _, e := range exceptions {
		claimed, err := s.candidateSet(e.RightID)
		if err != nil {
			return err
		}
		for id := range claimed {
			delete(set, id)
		}
	}
	return nil
}

// linkCandidates runs the conflict check over the candidate set and replaces
// the template's item associations with the accepted ids in one shot.
func (s *TemplateService) linkCandidates(template *models.ItemRight, candidates map[string]bool) (*models.TemplateApplyResult, error) {
	ids := make([]string, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	accepted := make([]string, 0, len(ids))
	var rightErrors []models.RightError
	for _, metadataID := range ids {
		conflicting, err := s.findApplyConflict(template, metadataID)
		if err != nil {
			return nil, err
		}
		if conflicting != "" {
			rightErrors = append(rightErrors, models.RightError{
				Kind:               models.RightErrorKindDateConflict,
				MetadataID:         metadataID,
				RightID:            template.RightID,
				ConflictingRightID: conflicting,
				Message: fmt.Sprintf("validity window of template %s overlaps right %s on item %s",
					template.RightID, conflicting, metadataID),
			})
			continue
		}
		accepted = append(accepted, metadataID)
	}

	if err := s.stores.Items.ReplaceLinks(template.RightID, accepted); err != nil {
		return nil, fmt.Errorf("failed to replace item associations: %w", err)
	}
	if err := s.stores.Rights.TouchLastApplied(template.RightID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to record application time: %w", err)
	}

	return &models.TemplateApplyResult{
		RightID:           template.RightID,
		LinkedMetadataIDs: accepted,
		Errors:            rightErrors,
	}, nil
}

// findApplyConflict checks the template's validity window against every
// right already linked to the item, skipping the template's own link so a
// re-apply never conflicts with itself.
func (s *TemplateService) findApplyConflict(template *models.ItemRight, metadataID string) (string, error) {
	linkedIDs, err := s.stores.Items.RightIDsByMetadata(metadataID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve linked rights: %w", err)
	}
	linked, err := s.stores.Rights.GetByIDs(linkedIDs)
	if err != nil {
		return "", fmt.Errorf("failed to fetch linked rights: %w", err)
	}
	for i := range linked {
		if linked[i].RightID == template.RightID {
			continue
		}
		if RightsConflict(template, &linked[i]) {
			return linked[i].RightID, nil
		}
	}
	return "", nil
}

// orderExceptionsFirst yields the batch in deterministic apply order:
// exception templates before plain ones, each class sorted by right id.
func orderExceptionsFirst(templates map[string]*models.ItemRight) []string {
	var exceptions, bases []string
	for id, t := range templates {
		if t.ExceptionFrom != nil {
			exceptions = append(exceptions, id)
		} else {
			bases = append(bases, id)
		}
	}
	sort.Strings(exceptions)
	sort.Strings(bases)
	return append(exceptions, bases...)
}
