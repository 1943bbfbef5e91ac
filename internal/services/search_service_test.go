// internal/services/search_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
	"github.com/greenbourne277/zbwcloud/internal/search"
)

func seedSearchCorpus(t *testing.T, stores *repository.Stores) {
	t.Helper()

	sigelA, sigelB := "ZDB-33-EBS", "ZDB-1-EWE"
	records := []models.ItemMetadata{
		{
			MetadataID:      "md-1",
			Title:           "Handbook of International Economics",
			PublicationDate: day(2010, time.March, 1),
			PublicationType: models.PublicationTypeBook,
			PaketSigel:      &sigelA,
		},
		{
			MetadataID:      "md-2",
			Title:           "International Trade Working Paper",
			PublicationDate: day(2018, time.July, 1),
			PublicationType: models.PublicationTypeWorkingPaper,
			PaketSigel:      &sigelB,
		},
		{
			MetadataID:      "md-3",
			Title:           "Unrelated Proceedings",
			PublicationDate: day(2020, time.January, 1),
			PublicationType: models.PublicationTypeProceedings,
		},
	}
	for i := range records {
		require.NoError(t, stores.Metadata.Insert(&records[i]))
	}

	open := models.AccessStateOpen
	require.NoError(t, stores.Rights.Insert(&models.ItemRight{
		RightID:     "r-open",
		AccessState: &open,
		StartDate:   day(2020, time.January, 1),
	}))
	require.NoError(t, stores.Items.Insert("md-1", "r-open"))

	restricted := models.AccessStateRestricted
	agreed := true
	require.NoError(t, stores.Rights.Insert(&models.ItemRight{
		RightID:          "r-restricted",
		AccessState:      &restricted,
		ZBWUserAgreement: &agreed,
		StartDate:        day(2020, time.January, 1),
	}))
	require.NoError(t, stores.Items.Insert("md-2", "r-restricted"))
	// md-3 carries no right information.
}

func TestSearchQueryPageAndFacets(t *testing.T) {
	stores, logger := newTestStores()
	seedSearchCorpus(t, stores)
	svc := NewSearchService(stores, logger)

	result, err := svc.SearchQuery(&SearchRequest{
		Term:  "tit:international",
		Limit: 1,
	})
	require.NoError(t, err)

	// The page is limited, the count and facets span the full match set.
	assert.Equal(t, int64(2), result.NumberOfResults)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "md-1", result.Results[0].Metadata.MetadataID)
	require.Len(t, result.Results[0].Rights, 1)
	assert.Equal(t, "r-open", result.Results[0].Rights[0].RightID)

	assert.ElementsMatch(t, []models.AccessState{
		models.AccessStateOpen, models.AccessStateRestricted,
	}, result.AccessStates)
	assert.ElementsMatch(t, []models.PublicationType{
		models.PublicationTypeBook, models.PublicationTypeWorkingPaper,
	}, result.PublicationTypes)
	assert.ElementsMatch(t, []string{"ZDB-33-EBS", "ZDB-1-EWE"}, result.PaketSigels)
	assert.True(t, result.HasZBWUserAgreement)
	assert.False(t, result.HasLicenceContract)
}

func TestSearchQueryDiagnostics(t *testing.T) {
	stores, logger := newTestStores()
	seedSearchCorpus(t, stores)
	svc := NewSearchService(stores, logger)

	result, err := svc.SearchQuery(&SearchRequest{
		Term:  "tit:international bogus:value loose",
		Limit: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"bogus"}, result.InvalidSearchKeys)
	assert.True(t, result.HasSearchTokenWithNoKey)
	assert.Equal(t, int64(2), result.NumberOfResults)
}

func TestSearchQueryRightFilter(t *testing.T) {
	stores, logger := newTestStores()
	seedSearchCorpus(t, stores)
	svc := NewSearchService(stores, logger)

	result, err := svc.SearchQuery(&SearchRequest{
		RightFilters: []search.RightFilter{
			&search.AccessStateFilter{States: []models.AccessState{models.AccessStateRestricted}},
		},
		Limit: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.NumberOfResults)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "md-2", result.Results[0].Metadata.MetadataID)
}

func TestSearchQueryNoRightInformationOverridesRightFilters(t *testing.T) {
	stores, logger := newTestStores()
	seedSearchCorpus(t, stores)
	svc := NewSearchService(stores, logger)

	result, err := svc.SearchQuery(&SearchRequest{
		RightFilters: []search.RightFilter{
			&search.AccessStateFilter{States: []models.AccessState{models.AccessStateOpen}},
		},
		NoRightInfo: &search.NoRightInformationFilter{},
		Limit:       10,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.NumberOfResults)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "md-3", result.Results[0].Metadata.MetadataID)
	assert.Empty(t, result.Results[0].Rights)
}

func TestSearchQueryRejectsNegativePagination(t *testing.T) {
	stores, logger := newTestStores()
	svc := NewSearchService(stores, logger)

	_, err := svc.SearchQuery(&SearchRequest{Limit: -1})
	assert.Error(t, err)
}

func TestCandidateMetadataIDsUnpaginated(t *testing.T) {
	stores, logger := newTestStores()
	seedSearchCorpus(t, stores)
	svc := NewSearchService(stores, logger)

	ids, err := svc.CandidateMetadataIDs(search.BookmarkQuery{Term: "tit:international"})
	require.NoError(t, err)
	assert.Equal(t, []string{"md-1", "md-2"}, ids)
}
