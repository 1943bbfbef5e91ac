// internal/services/search_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
	"github.com/greenbourne277/zbwcloud/internal/search"
)

type SearchService struct {
	stores *repository.Stores
	logger *logrus.Logger
}

// SearchRequest is one query against the item index: a free-text term in the
// key:value grammar plus at most one filter per category.
type SearchRequest struct {
	Term            string
	MetadataFilters []search.MetadataFilter
	RightFilters    []search.RightFilter
	NoRightInfo     *search.NoRightInformationFilter
	Limit           int
	Offset          int
}

func NewSearchService(stores *repository.Stores, logger *logrus.Logger) *SearchService {
	return &SearchService{stores: stores, logger: logger}
}

// SearchQuery runs one search: parse the term, fetch the requested page of
// matching metadata with their linked rights, and aggregate facets plus the
// total count over the full match set. Unknown search keys and keyless tokens
// surface as diagnostics on the result, never as errors.
func (s *SearchService) SearchQuery(req *SearchRequest) (*models.SearchQueryResult, error) {
	if req.Limit < 0 || req.Offset < 0 {
		return nil, newPaginationError(req.Limit, req.Offset)
	}

	parsed := search.ParseQuery(req.Term)

	params := repository.SearchParams{
		Pairs:           parsed.Pairs,
		MetadataFilters: req.MetadataFilters,
		NoRightInfo:     req.NoRightInfo,
		Limit:           &req.Limit,
		Offset:          &req.Offset,
	}
	// An item without right information has no rights to filter on, so the
	// no-right filter overrides every right filter category.
	if req.NoRightInfo == nil {
		params.RightFilters = req.RightFilters
	}

	page, err := s.stores.Metadata.Search(params)
	if err != nil {
		return nil, fmt.Errorf("failed to search metadata: %w", err)
	}

	total, err := s.stores.Metadata.CountSearch(params)
	if err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	facets, err := s.stores.Metadata.SearchFacets(params)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate facets: %w", err)
	}

	items, err := s.assembleItems(page)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"term":    req.Term,
		"matches": total,
		"page":    len(items),
	}).Debug("search query executed")

	return &models.SearchQueryResult{
		NumberOfResults:         total,
		Results:                 items,
		AccessStates:            facets.AccessStates,
		PublicationTypes:        facets.PublicationTypes,
		PaketSigels:             facets.PaketSigels,
		ZDBIDs:                  facets.ZDBIDs,
		HasLicenceContract:      facets.HasLicenceContract,
		HasOpenContentLicence:   facets.HasOpenContentLicence,
		HasZBWUserAgreement:     facets.HasZBWUserAgreement,
		InvalidSearchKeys:       parsed.InvalidKeys,
		HasSearchTokenWithNoKey: parsed.HasTokenWithNoKey,
	}, nil
}

// CandidateMetadataIDs replays a saved search without pagination and returns
// every matching metadata id. The template engine feeds on this.
func (s *SearchService) CandidateMetadataIDs(q search.BookmarkQuery) ([]string, error) {
	parsed := search.ParseQuery(q.Term)

	params := repository.SearchParams{
		Pairs:           parsed.Pairs,
		MetadataFilters: q.MetadataFilters,
		NoRightInfo:     q.NoRightInfo,
	}
	if q.NoRightInfo == nil {
		params.RightFilters = q.RightFilters
	}

	matched, err := s.stores.Metadata.Search(params)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve saved search: %w", err)
	}

	ids := make([]string, 0, len(matched))
	for _, m := range matched {
		ids = append(ids, m.MetadataID)
	}
	return ids, nil
}

func (s *SearchService) assembleItems(page []models.ItemMetadata) ([]models.Item, error) {
	items := make([]models.Item, 0, len(page))
	for _, m := range page {
		rightIDs, err := s.stores.Items.RightIDsByMetadata(m.MetadataID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve linked rights: %w", err)
		}
		rights, err := s.stores.Rights.GetByIDs(rightIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch linked rights: %w", err)
		}
		items = append(items, models.Item{Metadata: m, Rights: rights})
	}
	return items, nil
}
