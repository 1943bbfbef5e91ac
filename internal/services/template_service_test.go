// internal/services/template_service_test.go
package services

import (
	"io"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
)

type TemplateServiceSuite struct {
	suite.Suite
	stores    *repository.Stores
	rights    *RightService
	bookmarks *BookmarkService
	templates *TemplateService
}

func (s *TemplateServiceSuite) SetupTest() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.stores = repository.NewMemoryStores()
	searchS := NewSearchService(s.stores, logger)
	s.rights = NewRightService(s.stores, logger)
	s.bookmarks = NewBookmarkService(s.stores, logger)
	s.templates = NewTemplateService(s.stores, searchS, logger, 2)
}

func (s *TemplateServiceSuite) seedMetadata(id, zdbID string) {
	z := zdbID
	err := s.stores.Metadata.Insert(&models.ItemMetadata{
		MetadataID:      id,
		Title:           "record " + id,
		PublicationDate: day(2015, time.May, 1),
		PublicationType: models.PublicationTypeArticle,
		ZDBID:           &z,
	})
	s.Require().NoError(err)
}

func (s *TemplateServiceSuite) newTemplate(name string, start time.Time, end *time.Time, exceptionFrom *string) string {
	n := name
	id, err := s.rights.InsertRight(&models.ItemRight{
		IsTemplate:    true,
		TemplateName:  &n,
		ExceptionFrom: exceptionFrom,
		StartDate:     start,
		EndDate:       end,
	})
	s.Require().NoError(err)
	return id
}

func (s *TemplateServiceSuite) attachZDBBookmark(name, rightID string, zdbIDs ...string) int64 {
	bmID, err := s.bookmarks.InsertBookmark(&models.Bookmark{
		BookmarkName: name,
		ZDBIDs:       pq.StringArray(zdbIDs),
	})
	s.Require().NoError(err)
	s.Require().NoError(s.bookmarks.AttachTemplate(bmID, rightID))
	return bmID
}

func (s *TemplateServiceSuite) TestApplyLinksBookmarkMatches() {
	s.seedMetadata("md-1", "ZDB-1")
	s.seedMetadata("md-2", "ZDB-1")
	s.seedMetadata("md-3", "ZDB-2")

	rightID := s.newTemplate("open access journals", day(2024, time.January, 1), nil, nil)
	s.attachZDBBookmark("journals", rightID, "ZDB-1")

	result, err := s.templates.ApplyTemplate(rightID)
	s.Require().NoError(err)
	s.Equal(rightID, result.RightID)
	s.Equal([]string{"md-1", "md-2"}, result.LinkedMetadataIDs)
	s.Empty(result.Errors)

	rs, err := s.stores.Rights.GetByIDs([]string{rightID})
	s.Require().NoError(err)
	s.Require().Len(rs, 1)
	s.NotNil(rs[0].LastAppliedOn)
}

func (s *TemplateServiceSuite) TestApplyIsIdempotent() {
	s.seedMetadata("md-1", "ZDB-1")

	rightID := s.newTemplate("idempotent", day(2024, time.January, 1), nil, nil)
	s.attachZDBBookmark("journals", rightID, "ZDB-1")

	first, err := s.templates.ApplyTemplate(rightID)
	s.Require().NoError(err)
	second, err := s.templates.ApplyTemplate(rightID)
	s.Require().NoError(err)

	s.Equal(first.LinkedMetadataIDs, second.LinkedMetadataIDs)
	s.Empty(second.Errors)
}

func (s *TemplateServiceSuite) TestApplyReplacesStaleLinks() {
	s.seedMetadata("md-1", "ZDB-1")
	s.seedMetadata("md-2", "ZDB-2")

	rightID := s.newTemplate("movable", day(2024, time.January, 1), nil, nil)
	bmID := s.attachZDBBookmark("movable search", rightID, "ZDB-1")

	result, err := s.templates.ApplyTemplate(rightID)
	s.Require().NoError(err)
	s.Equal([]string{"md-1"}, result.LinkedMetadataIDs)

	bm, err := s.bookmarks.GetBookmark(bmID)
	s.Require().NoError(err)
	bm.ZDBIDs = pq.StringArray{"ZDB-2"}
	s.Require().NoError(s.bookmarks.UpdateBookmark(bm))

	result, err = s.templates.ApplyTemplate(rightID)
	s.Require().NoError(err)
	s.Equal([]string{"md-2"}, result.LinkedMetadataIDs)

	linked, err := s.stores.Items.MetadataIDsByRight(rightID)
	s.Require().NoError(err)
	s.Equal([]string{"md-2"}, linked)
}

func (s *TemplateServiceSuite) TestApplySubtractsExceptionCandidates() {
	s.seedMetadata("md-1", "ZDB-1")
	s.seedMetadata("md-2", "ZDB-1")

	baseID := s.newTemplate("base", day(2024, time.January, 1), nil, nil)
	s.attachZDBBookmark("base search", baseID, "ZDB-1")

	exceptionID := s.newTemplate("carve-out", day(2024, time.January, 1), nil, &baseID)
	zdb := "ZDB-1"
	bmID, err := s.bookmarks.InsertBookmark(&models.Bookmark{
		BookmarkName: "exception search",
		SearchTerm:   strPtr("tit:'record md-1'"),
		ZDBIDs:       pq.StringArray{zdb},
	})
	s.Require().NoError(err)
	s.Require().NoError(s.bookmarks.AttachTemplate(bmID, exceptionID))

	result, err := s.templates.ApplyTemplate(baseID)
	s.Require().NoError(err)
	s.Equal([]string{"md-2"}, result.LinkedMetadataIDs)
}

func (s *TemplateServiceSuite) TestApplyReportsDateConflicts() {
	s.seedMetadata("md-1", "ZDB-1")

	firstID := s.newTemplate("first", day(2024, time.January, 1), nil, nil)
	s.attachZDBBookmark("first search", firstID, "ZDB-1")
	_, err := s.templates.ApplyTemplate(firstID)
	s.Require().NoError(err)

	secondID := s.newTemplate("second", day(2025, time.January, 1), nil, nil)
	s.attachZDBBookmark("second search", secondID, "ZDB-1")

	result, err := s.templates.ApplyTemplate(secondID)
	s.Require().NoError(err)
	s.Empty(result.LinkedMetadataIDs)
	s.Require().Len(result.Errors, 1)
	s.Equal(models.RightErrorKindDateConflict, result.Errors[0].Kind)
	s.Equal("md-1", result.Errors[0].MetadataID)
	s.Equal(secondID, result.Errors[0].RightID)
	s.Equal(firstID, result.Errors[0].ConflictingRightID)
}

func (s *TemplateServiceSuite) TestBatchAppliesExceptionsFirst() {
	s.seedMetadata("md-1", "ZDB-1")
	s.seedMetadata("md-2", "ZDB-2")

	baseID := s.newTemplate("batch base", day(2024, time.January, 1), nil, nil)
	s.attachZDBBookmark("batch base search", baseID, "ZDB-1")

	exceptionID := s.newTemplate("batch exception", day(2024, time.January, 1), nil, &baseID)
	s.attachZDBBookmark("batch exception search", exceptionID, "ZDB-2")

	results, err := s.templates.ApplyTemplates([]string{baseID, exceptionID})
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(exceptionID, results[0].RightID)
	s.Equal(baseID, results[1].RightID)
}

func (s *TemplateServiceSuite) TestApplyAllTemplates() {
	s.seedMetadata("md-1", "ZDB-1")
	s.seedMetadata("md-2", "ZDB-2")

	firstID := s.newTemplate("all one", day(2024, time.January, 1), nil, nil)
	s.attachZDBBookmark("all one search", firstID, "ZDB-1")
	secondID := s.newTemplate("all two", day(2024, time.January, 1), nil, nil)
	s.attachZDBBookmark("all two search", secondID, "ZDB-2")

	results, err := s.templates.ApplyAllTemplates()
	s.Require().NoError(err)
	s.Len(results, 2)
}

func (s *TemplateServiceSuite) TestApplyRejectsNonTemplates() {
	_, err := s.templates.ApplyTemplate("missing")
	s.True(apperrors.IsNotFound(err))

	plainID, err := s.rights.InsertRight(&models.ItemRight{
		StartDate: day(2024, time.January, 1),
	})
	s.Require().NoError(err)

	_, err = s.templates.ApplyTemplate(plainID)
	s.True(apperrors.IsValidation(err))
}

func TestTemplateServiceSuite(t *testing.T) {
	suite.Run(t, new(TemplateServiceSuite))
}

func strPtr(s string) *string { return &s }
