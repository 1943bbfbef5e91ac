// internal/services/metadata_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
)

func sampleMetadata(id string) *models.ItemMetadata {
	return &models.ItemMetadata{
		MetadataID:      id,
		Title:           "record " + id,
		PublicationDate: day(2015, time.May, 1),
		PublicationType: models.PublicationTypeArticle,
	}
}

func TestInsertMetadataRejectsDuplicates(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewMetadataService(stores, logger)

	require.NoError(t, svc.InsertMetadata(sampleMetadata("md-1")))

	err := svc.InsertMetadata(sampleMetadata("md-1"))
	assert.True(t, apperrors.IsConflict(err))
}

func TestUpsertMetadataBatch(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewMetadataService(stores, logger)

	require.NoError(t, svc.UpsertMetadataBatch([]models.ItemMetadata{
		*sampleMetadata("md-1"),
		*sampleMetadata("md-2"),
	}))

	count, err := svc.CountMetadata()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	updated := sampleMetadata("md-1")
	updated.Title = "revised title"
	require.NoError(t, svc.UpsertMetadata(updated))

	got, err := svc.GetMetadata("md-1")
	require.NoError(t, err)
	assert.Equal(t, "revised title", got.Title)
}

func TestGetMetadataNotFound(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewMetadataService(stores, logger)

	_, err := svc.GetMetadata("missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteMetadataGuardedByItemLinks(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewMetadataService(stores, logger)

	require.NoError(t, svc.InsertMetadata(sampleMetadata("md-1")))
	require.NoError(t, stores.Rights.Insert(&models.ItemRight{
		RightID:   "r-1",
		StartDate: day(2024, time.January, 1),
	}))
	require.NoError(t, stores.Items.Insert("md-1", "r-1"))

	err := svc.DeleteMetadata("md-1")
	assert.True(t, apperrors.IsReferentialGuard(err))

	require.NoError(t, stores.Items.Delete("md-1", "r-1"))
	assert.NoError(t, svc.DeleteMetadata("md-1"))
}

func TestListMetadataRejectsNegativePagination(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewMetadataService(stores, logger)

	_, err := svc.ListMetadata(-1, 0)
	assert.True(t, apperrors.IsValidation(err))
}
