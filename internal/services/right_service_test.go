// internal/services/right_service_test.go
package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
)

func newTestStores() (*repository.Stores, *logrus.Logger) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return repository.NewMemoryStores(), logger
}

func TestInsertRightGeneratesID(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewRightService(stores, logger)

	id, err := svc.InsertRight(&models.ItemRight{StartDate: day(2024, time.January, 1)})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := svc.GetRight(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.RightID)
}

func TestInsertRightRejectsInvertedDates(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewRightService(stores, logger)

	end := day(2023, time.December, 31)
	_, err := svc.InsertRight(&models.ItemRight{
		StartDate: day(2024, time.January, 1),
		EndDate:   &end,
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestNonTemplateRejectsTemplateFields(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewRightService(stores, logger)

	name := "not allowed"
	_, err := svc.InsertRight(&models.ItemRight{
		StartDate:    day(2024, time.January, 1),
		TemplateName: &name,
	})
	assert.True(t, apperrors.IsValidation(err))

	base := "some-base"
	_, err = svc.InsertRight(&models.ItemRight{
		StartDate:     day(2024, time.January, 1),
		ExceptionFrom: &base,
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestTemplateNameUniqueness(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewRightService(stores, logger)

	name := "country embargo"
	id, err := svc.InsertRight(&models.ItemRight{
		IsTemplate:   true,
		TemplateName: &name,
		StartDate:    day(2024, time.January, 1),
	})
	require.NoError(t, err)

	dupe := "country embargo"
	_, err = svc.InsertRight(&models.ItemRight{
		IsTemplate:   true,
		TemplateName: &dupe,
		StartDate:    day(2024, time.January, 1),
	})
	assert.True(t, apperrors.IsConflict(err))

	// Upserting a template under its own name is not a collision.
	got, err := svc.GetRight(id)
	require.NoError(t, err)
	assert.NoError(t, svc.UpsertRight(got))
}

func TestExceptionChainsLimitedToOneLevel(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewRightService(stores, logger)

	baseName := "base"
	baseID, err := svc.InsertRight(&models.ItemRight{
		IsTemplate:   true,
		TemplateName: &baseName,
		StartDate:    day(2024, time.January, 1),
	})
	require.NoError(t, err)

	excName := "exception"
	excID, err := svc.InsertRight(&models.ItemRight{
		IsTemplate:    true,
		TemplateName:  &excName,
		ExceptionFrom: &baseID,
		StartDate:     day(2024, time.January, 1),
	})
	require.NoError(t, err)

	// An exception of an exception is refused.
	nested := "nested"
	_, err = svc.InsertRight(&models.ItemRight{
		IsTemplate:    true,
		TemplateName:  &nested,
		ExceptionFrom: &excID,
		StartDate:     day(2024, time.January, 1),
	})
	assert.True(t, apperrors.IsValidation(err))

	missing := "no-such-right"
	_, err = svc.InsertRight(&models.ItemRight{
		IsTemplate:    true,
		TemplateName:  &nested,
		ExceptionFrom: &missing,
		StartDate:     day(2024, time.January, 1),
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestDeleteRightGuardedByItemLinks(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewRightService(stores, logger)

	require.NoError(t, stores.Metadata.Insert(&models.ItemMetadata{
		MetadataID:      "md-1",
		Title:           "linked record",
		PublicationDate: day(2015, time.May, 1),
		PublicationType: models.PublicationTypeArticle,
	}))
	id, err := svc.InsertRight(&models.ItemRight{StartDate: day(2024, time.January, 1)})
	require.NoError(t, err)
	require.NoError(t, stores.Items.Insert("md-1", id))

	err = svc.DeleteRight(id)
	assert.True(t, apperrors.IsReferentialGuard(err))

	require.NoError(t, stores.Items.Delete("md-1", id))
	assert.NoError(t, svc.DeleteRight(id))
}

func TestDeleteRightGuardedByExceptions(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewRightService(stores, logger)

	baseName := "guarded base"
	baseID, err := svc.InsertRight(&models.ItemRight{
		IsTemplate:   true,
		TemplateName: &baseName,
		StartDate:    day(2024, time.January, 1),
	})
	require.NoError(t, err)

	excName := "guarding exception"
	excID, err := svc.InsertRight(&models.ItemRight{
		IsTemplate:    true,
		TemplateName:  &excName,
		ExceptionFrom: &baseID,
		StartDate:     day(2024, time.January, 1),
	})
	require.NoError(t, err)

	err = svc.DeleteRight(baseID)
	assert.True(t, apperrors.IsReferentialGuard(err))

	require.NoError(t, svc.DeleteRight(excID))
	assert.NoError(t, svc.DeleteRight(baseID))
}

func TestRightGroupReconciliation(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewRightService(stores, logger)

	require.NoError(t, stores.Groups.Insert(&models.RightGroup{GroupID: "uni-a"}))
	require.NoError(t, stores.Groups.Insert(&models.RightGroup{GroupID: "uni-b"}))

	id, err := svc.InsertRight(&models.ItemRight{
		StartDate: day(2024, time.January, 1),
		GroupIDs:  []string{"uni-a"},
	})
	require.NoError(t, err)

	got, err := svc.GetRight(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"uni-a"}, got.GroupIDs)

	got.GroupIDs = []string{"uni-b"}
	require.NoError(t, svc.UpsertRight(got))

	got, err = svc.GetRight(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"uni-b"}, got.GroupIDs)

	got.GroupIDs = []string{"uni-c"}
	err = svc.UpsertRight(got)
	assert.True(t, apperrors.IsValidation(err))
}
