// internal/services/bookmark_service.go
package services

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
	"github.com/greenbourne277/zbwcloud/internal/search"
)

type BookmarkService struct {
	stores *repository.Stores
	logger *logrus.Logger
}

func NewBookmarkService(stores *repository.Stores, logger *logrus.Logger) *BookmarkService {
	return &BookmarkService{stores: stores, logger: logger}
}

// InsertBookmark stores a new saved search and returns the generated id.
func (s *BookmarkService) InsertBookmark(b *models.Bookmark) (int64, error) {
	if err := s.validateBookmark(b, 0); err != nil {
		return 0, err
	}
	if err := s.stores.Bookmarks.Insert(b); err != nil {
		return 0, fmt.Errorf("failed to insert bookmark: %w", err)
	}
	return b.BookmarkID, nil
}

func (s *BookmarkService) UpdateBookmark(b *models.Bookmark) error {
	existing, err := s.stores.Bookmarks.GetByIDs([]int64{b.BookmarkID})
	if err != nil {
		return fmt.Errorf("failed to fetch bookmark: %w", err)
	}
	if len(existing) == 0 {
		return apperrors.NewNotFoundError("bookmark", strconv.FormatInt(b.BookmarkID, 10))
	}
	if err := s.validateBookmark(b, b.BookmarkID); err != nil {
		return err
	}
	if err := s.stores.Bookmarks.Update(b); err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}
	return nil
}

func (s *BookmarkService) GetBookmark(id int64) (*models.Bookmark, error) {
	bs, err := s.stores.Bookmarks.GetByIDs([]int64{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookmark: %w", err)
	}
	if len(bs) == 0 {
		return nil, apperrors.NewNotFoundError("bookmark", strconv.FormatInt(id, 10))
	}
	return &bs[0], nil
}

func (s *BookmarkService) ListBookmarks(limit, offset int) ([]models.Bookmark, error) {
	if limit < 0 || offset < 0 {
		return nil, newPaginationError(limit, offset)
	}
	bs, err := s.stores.Bookmarks.List(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bs, nil
}

// DeleteBookmark removes a saved search. Bookmarks still feeding templates
// are protected.
func (s *BookmarkService) DeleteBookmark(id int64) error {
	bs, err := s.stores.Bookmarks.GetByIDs([]int64{id})
	if err != nil {
		return fmt.Errorf("failed to fetch bookmark: %w", err)
	}
	if len(bs) == 0 {
		return apperrors.NewNotFoundError("bookmark", strconv.FormatInt(id, 10))
	}

	rightIDs, err := s.stores.Bookmarks.RightIDsByBookmark(id)
	if err != nil {
		return fmt.Errorf("failed to check template pairs: %w", err)
	}
	if len(rightIDs) > 0 {
		return &apperrors.ReferentialGuardError{
			Resource: "bookmark",
			ID:       strconv.FormatInt(id, 10),
			UsedBy:   rightIDs,
		}
	}

	if err := s.stores.Bookmarks.Delete(id); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}

// AttachTemplate pairs a bookmark with a template right.
func (s *BookmarkService) AttachTemplate(bookmarkID int64, rightID string) error {
	bs, err := s.stores.Bookmarks.GetByIDs([]int64{bookmarkID})
	if err != nil {
		return fmt.Errorf("failed to fetch bookmark: %w", err)
	}
	if len(bs) == 0 {
		return apperrors.NewNotFoundError("bookmark", strconv.FormatInt(bookmarkID, 10))
	}

	rs, err := s.stores.Rights.GetByIDs([]string{rightID})
	if err != nil {
		return fmt.Errorf("failed to fetch right: %w", err)
	}
	if len(rs) == 0 {
		return apperrors.NewNotFoundError("right", rightID)
	}
	if !rs[0].IsTemplate {
		return apperrors.NewValidationError("right_id",
			fmt.Sprintf("right %s is not a template", rightID))
	}

	if err := s.stores.Bookmarks.InsertTemplatePair(bookmarkID, rightID); err != nil {
		return fmt.Errorf("failed to insert template pair: %w", err)
	}
	return nil
}

func (s *BookmarkService) DetachTemplate(bookmarkID int64, rightID string) error {
	if err := s.stores.Bookmarks.DeleteTemplatePair(bookmarkID, rightID); err != nil {
		return fmt.Errorf("failed to delete template pair: %w", err)
	}
	return nil
}

// ReplaceTemplateBookmarks sets the full bookmark list of one template.
func (s *BookmarkService) ReplaceTemplateBookmarks(rightID string, bookmarkIDs []int64) error {
	rs, err := s.stores.Rights.GetByIDs([]string{rightID})
	if err != nil {
		return fmt.Errorf("failed to fetch right: %w", err)
	}
	if len(rs) == 0 {
		return apperrors.NewNotFoundError("right", rightID)
	}
	if !rs[0].IsTemplate {
		return apperrors.NewValidationError("right_id",
			fmt.Sprintf("right %s is not a template", rightID))
	}

	found, err := s.stores.Bookmarks.GetByIDs(bookmarkIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch bookmarks: %w", err)
	}
	if len(found) != len(dedupInt64(bookmarkIDs)) {
		return apperrors.NewValidationError("bookmark_ids", "contains unknown bookmark ids")
	}

	if err := s.stores.Bookmarks.DeletePairsByRight(rightID); err != nil {
		return fmt.Errorf("failed to clear template pairs: %w", err)
	}
	pairs := make([]models.BookmarkTemplatePair, 0, len(bookmarkIDs))
	for _, id := range dedupInt64(bookmarkIDs) {
		pairs = append(pairs, models.BookmarkTemplatePair{BookmarkID: id, RightID: rightID})
	}
	if err := s.stores.Bookmarks.UpsertTemplatePairs(pairs); err != nil {
		return fmt.Errorf("failed to insert template pairs: %w", err)
	}
	return nil
}

func (s *BookmarkService) BookmarksByTemplate(rightID string) ([]models.Bookmark, error) {
	ids, err := s.stores.Bookmarks.BookmarkIDsByRight(rightID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve template pairs: %w", err)
	}
	bs, err := s.stores.Bookmarks.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookmarks: %w", err)
	}
	return bs, nil
}

func (s *BookmarkService) validateBookmark(b *models.Bookmark, excludeID int64) error {
	if b.BookmarkName == "" {
		return apperrors.NewValidationError("bookmark_name", "must not be empty")
	}
	taken, err := s.stores.Bookmarks.NameExists(b.BookmarkName, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check bookmark name: %w", err)
	}
	if taken {
		return &apperrors.ConflictError{
			Reason: fmt.Sprintf("bookmark name %q is already taken", b.BookmarkName),
		}
	}

	if b.PublicationDateFrom != nil || b.PublicationDateTo != nil {
		from := search.MinPublicationYear
		to := search.MaxPublicationYear
		if b.PublicationDateFrom != nil {
			from = *b.PublicationDateFrom
		}
		if b.PublicationDateTo != nil {
			to = *b.PublicationDateTo
		}
		if _, err := search.NewPublicationDateFilter(from, to); err != nil {
			return err
		}
	}
	if b.StartDate != nil && b.EndDate != nil && b.EndDate.Before(*b.StartDate) {
		return apperrors.NewValidationError("end_date", "must not precede start_date")
	}
	return nil
}

func dedupInt64(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
