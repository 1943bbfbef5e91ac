// internal/services/item_service_test.go
package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
)

func seedItemFixtures(t *testing.T, stores *repository.Stores) {
	t.Helper()
	require.NoError(t, stores.Metadata.Insert(&models.ItemMetadata{
		MetadataID:      "md-1",
		Title:           "linked record",
		PublicationDate: day(2015, time.May, 1),
		PublicationType: models.PublicationTypeArticle,
	}))
}

func TestLinkItem(t *testing.T) {
	stores, logger := newTestStores()
	seedItemFixtures(t, stores)
	svc := NewItemService(stores, logger)

	end := day(2024, time.June, 30)
	require.NoError(t, stores.Rights.Insert(&models.ItemRight{
		RightID:   "r-1",
		StartDate: day(2024, time.January, 1),
		EndDate:   &end,
	}))

	require.NoError(t, svc.LinkItem("md-1", "r-1", false))

	item, err := svc.GetItem("md-1")
	require.NoError(t, err)
	require.Len(t, item.Rights, 1)
	assert.Equal(t, "r-1", item.Rights[0].RightID)

	// Linking the same pair twice is a conflict.
	err = svc.LinkItem("md-1", "r-1", false)
	assert.True(t, apperrors.IsConflict(err))
}

func TestLinkItemUnknownSides(t *testing.T) {
	stores, logger := newTestStores()
	seedItemFixtures(t, stores)
	svc := NewItemService(stores, logger)

	err := svc.LinkItem("md-1", "no-such-right", false)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, stores.Rights.Insert(&models.ItemRight{
		RightID:   "r-1",
		StartDate: day(2024, time.January, 1),
	}))
	err = svc.LinkItem("no-such-metadata", "r-1", false)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLinkItemValidityConflict(t *testing.T) {
	stores, logger := newTestStores()
	seedItemFixtures(t, stores)
	svc := NewItemService(stores, logger)

	require.NoError(t, stores.Rights.Insert(&models.ItemRight{
		RightID:   "r-old",
		StartDate: day(2024, time.January, 1),
	}))
	require.NoError(t, svc.LinkItem("md-1", "r-old", false))

	require.NoError(t, stores.Rights.Insert(&models.ItemRight{
		RightID:   "r-new",
		StartDate: day(2025, time.January, 1),
	}))

	err := svc.LinkItem("md-1", "r-new", false)
	require.Error(t, err)
	var ce *apperrors.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "r-old", ce.ConflictingRightID)

	// The conflicting right survives unless the caller opted into cleanup.
	exists, err := stores.Rights.Contains("r-new")
	require.NoError(t, err)
	assert.True(t, exists)

	err = svc.LinkItem("md-1", "r-new", true)
	assert.True(t, apperrors.IsConflict(err))
	exists, err = stores.Rights.Contains("r-new")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnlinkItem(t *testing.T) {
	stores, logger := newTestStores()
	seedItemFixtures(t, stores)
	svc := NewItemService(stores, logger)

	require.NoError(t, stores.Rights.Insert(&models.ItemRight{
		RightID:   "r-1",
		StartDate: day(2024, time.January, 1),
	}))
	require.NoError(t, svc.LinkItem("md-1", "r-1", false))

	count, err := svc.CountLinksByRight("r-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.UnlinkItem("md-1", "r-1"))

	err = svc.UnlinkItem("md-1", "r-1")
	assert.True(t, apperrors.IsNotFound(err))
}
