// internal/search/match_test.go
package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbourne277/zbwcloud/internal/models"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestMatchesMetadata(t *testing.T) {
	m := &models.ItemMetadata{
		MetadataID:      "md-1",
		Title:           "World Trade Report",
		PublicationDate: time.Date(2015, time.May, 1, 0, 0, 0, 0, time.UTC),
		PublicationType: models.PublicationTypeArticle,
		PaketSigel:      strPtr("ZDB-33-EBS"),
		ZDBID:           strPtr("ZDB-1-EWE"),
	}

	inRange, err := NewPublicationDateFilter(2010, 2020)
	require.NoError(t, err)
	assert.True(t, MatchesMetadata(inRange, m))

	outOfRange, err := NewPublicationDateFilter(2016, 2020)
	require.NoError(t, err)
	assert.False(t, MatchesMetadata(outOfRange, m))

	assert.True(t, MatchesMetadata(&PublicationTypeFilter{Types: []models.PublicationType{
		models.PublicationTypeBook, models.PublicationTypeArticle,
	}}, m))
	assert.False(t, MatchesMetadata(&PublicationTypeFilter{Types: []models.PublicationType{
		models.PublicationTypeBook,
	}}, m))

	assert.True(t, MatchesMetadata(&ZDBIDFilter{ZDBIDs: []string{"ZDB-1-EWE"}}, m))
	// A nil column never matches.
	assert.False(t, MatchesMetadata(&SeriesFilter{Series: []string{"anything"}}, m))
}

func TestMatchesRight(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	open := models.AccessStateOpen
	r := &models.ItemRight{
		RightID:     "r-1",
		AccessState: &open,
		StartDate:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     timePtr(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}

	assert.True(t, MatchesRight(&AccessStateFilter{States: []models.AccessState{models.AccessStateOpen}}, r, now))
	assert.False(t, MatchesRight(&AccessStateFilter{States: []models.AccessState{models.AccessStateClosed}}, r, now))

	assert.True(t, MatchesRight(&TemporalValidityFilter{Validities: []models.TemporalValidity{
		models.TemporalValidityPresent,
	}}, r, now))
	assert.False(t, MatchesRight(&TemporalValidityFilter{Validities: []models.TemporalValidity{
		models.TemporalValidityPast,
	}}, r, now))

	assert.True(t, MatchesRight(&RightValidOnFilter{Date: now}, r, now))
	assert.False(t, MatchesRight(&RightValidOnFilter{
		Date: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}, r, now))

	openEnded := &models.ItemRight{
		RightID:   "r-2",
		StartDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, MatchesRight(&RightValidOnFilter{Date: now}, openEnded, now))
}

func TestMatchesFormalRule(t *testing.T) {
	now := time.Now()
	agreed := true

	withContract := &models.ItemRight{LicenceContract: strPtr("contract text")}
	assert.True(t, MatchesRight(&FormalRuleFilter{Rules: []models.FormalRule{
		models.FormalRuleLicenceContract,
	}}, withContract, now))

	emptyContract := &models.ItemRight{LicenceContract: strPtr("")}
	assert.False(t, MatchesRight(&FormalRuleFilter{Rules: []models.FormalRule{
		models.FormalRuleLicenceContract,
	}}, emptyContract, now))

	withAgreement := &models.ItemRight{ZBWUserAgreement: &agreed}
	assert.True(t, MatchesRight(&FormalRuleFilter{Rules: []models.FormalRule{
		models.FormalRuleUserAgreement,
	}}, withAgreement, now))

	withURL := &models.ItemRight{NonStandardOpenContentLicenceURL: strPtr("https://example.org/licence")}
	assert.True(t, MatchesRight(&FormalRuleFilter{Rules: []models.FormalRule{
		models.FormalRuleOpenContentLicence,
	}}, withURL, now))
}

func TestMatchesPairs(t *testing.T) {
	m := &models.ItemMetadata{
		MetadataID:     "md-1",
		Title:          "Handbook of International Economics",
		CollectionName: strPtr("EconStor Open Access"),
		ZDBID:          strPtr("ZDB-1-EWE"),
	}

	assert.True(t, MatchesPair(SearchPair{Key: SearchKeyTitle, Values: "international economics"}, m))
	assert.True(t, MatchesPair(SearchPair{Key: SearchKeyCollection, Values: "econstor"}, m))
	assert.False(t, MatchesPair(SearchPair{Key: SearchKeyHandle, Values: "11159"}, m))

	// Distinct keys AND-combine.
	assert.True(t, MatchesPairs([]SearchPair{
		{Key: SearchKeyTitle, Values: "handbook"},
		{Key: SearchKeyZDBID, Values: "ZDB-1-EWE"},
	}, m))
	assert.False(t, MatchesPairs([]SearchPair{
		{Key: SearchKeyTitle, Values: "handbook"},
		{Key: SearchKeyZDBID, Values: "ZDB-2-XYZ"},
	}, m))

	// Repeated keys OR-combine within the key.
	assert.True(t, MatchesPairs([]SearchPair{
		{Key: SearchKeyZDBID, Values: "ZDB-2-XYZ"},
		{Key: SearchKeyZDBID, Values: "ZDB-1-EWE"},
	}, m))
}
