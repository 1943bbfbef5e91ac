// internal/services/group_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
)

func TestGroupLifecycle(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewGroupService(stores, logger)

	desc := "campus network of university A"
	require.NoError(t, svc.InsertGroup(&models.RightGroup{
		GroupID:     "uni-a",
		Description: &desc,
		Entries: models.JSONB{
			"organisation": "University A",
			"ip_ranges":    []string{"10.0.0.0/8"},
		},
	}))

	err := svc.InsertGroup(&models.RightGroup{GroupID: "uni-a"})
	assert.True(t, apperrors.IsConflict(err))

	got, err := svc.GetGroup("uni-a")
	require.NoError(t, err)
	assert.Equal(t, "campus network of university A", *got.Description)

	updated := "renamed"
	got.Description = &updated
	require.NoError(t, svc.UpdateGroup(got))

	groups, err := svc.ListGroups(10, 0)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "renamed", *groups[0].Description)

	_, err = svc.GetGroup("missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteGroupGuardedByRights(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewGroupService(stores, logger)
	rights := NewRightService(stores, logger)

	require.NoError(t, svc.InsertGroup(&models.RightGroup{GroupID: "uni-a"}))

	rightID, err := rights.InsertRight(&models.ItemRight{
		StartDate: day(2024, time.January, 1),
		GroupIDs:  []string{"uni-a"},
	})
	require.NoError(t, err)

	err = svc.DeleteGroup("uni-a")
	assert.True(t, apperrors.IsReferentialGuard(err))

	got, err := rights.GetRight(rightID)
	require.NoError(t, err)
	got.GroupIDs = nil
	require.NoError(t, rights.UpsertRight(got))

	assert.NoError(t, svc.DeleteGroup("uni-a"))
}
