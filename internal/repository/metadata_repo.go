// internal/repository/metadata_repo.go
package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/search"
)

type metadataStore struct {
	db *gorm.DB
}

func (s *metadataStore) Insert(m *models.ItemMetadata) error {
	if err := s.db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to insert metadata: %w", err)
	}
	return nil
}

func (s *metadataStore) Upsert(m *models.ItemMetadata) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "metadata_id"}},
		UpdateAll: true,
	}).Create(m).Error
	if err != nil {
		return fmt.Errorf("failed to upsert metadata: %w", err)
	}
	return nil
}

func (s *metadataStore) UpsertBatch(ms []models.ItemMetadata) error {
	if len(ms) == 0 {
		return nil
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "metadata_id"}},
		UpdateAll: true,
	}).CreateInBatches(ms, 200).Error
	if err != nil {
		return fmt.Errorf("failed to upsert metadata batch: %w", err)
	}
	return nil
}

func (s *metadataStore) GetByIDs(ids []string) ([]models.ItemMetadata, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.ItemMetadata
	if err := s.db.Where("metadata_id = ANY(?)", textArray(ids)).
		Order("metadata_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	return out, nil
}

func (s *metadataStore) List(limit, offset int) ([]models.ItemMetadata, error) {
	var out []models.ItemMetadata
	if err := s.db.Order("metadata_id").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	return out, nil
}

func (s *metadataStore) Delete(id string) error {
	return s.db.Delete(&models.ItemMetadata{}, "metadata_id = ?", id).Error
}

func (s *metadataStore) Contains(id string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.ItemMetadata{}).
		Where("metadata_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *metadataStore) Count() (int64, error) {
	var count int64
	err := s.db.Model(&models.ItemMetadata{}).Count(&count).Error
	return count, err
}

func (s *metadataStore) Search(p SearchParams) ([]models.ItemMetadata, error) {
	q := s.buildSearch(p)
	if len(p.Pairs) > 0 {
		rankExpr, rankArgs := rankExpression(p.Pairs)
		q = q.Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                rankExpr + " DESC",
			Vars:               rankArgs,
			WithoutParentheses: true,
		}}).Order("metadata_id")
	} else {
		q = q.Order("metadata_id")
	}
	if p.Limit != nil {
		q = q.Limit(*p.Limit)
	}
	if p.Offset != nil {
		q = q.Offset(*p.Offset)
	}
	var out []models.ItemMetadata
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("metadata search failed: %w", err)
	}
	return out, nil
}

func (s *metadataStore) CountSearch(p SearchParams) (int64, error) {
	var count int64
	if err := s.buildSearch(p).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("metadata search count failed: %w", err)
	}
	return count, nil
}

func (s *metadataStore) SearchFacets(p SearchParams) (*FacetSet, error) {
	facets := &FacetSet{}
	idQuery := s.buildSearch(p).Select("item_metadata.metadata_id")

	var pubTypes []string
	if err := s.buildSearch(p).Distinct("item_metadata.publication_type").
		Where("item_metadata.publication_type <> ''").
		Pluck("publication_type", &pubTypes).Error; err != nil {
		return nil, fmt.Errorf("publication type facet failed: %w", err)
	}
	for _, t := range pubTypes {
		if parsed, ok := models.ParsePublicationType(t); ok {
			facets.PublicationTypes = append(facets.PublicationTypes, parsed)
		}
	}

	if err := s.buildSearch(p).Distinct("item_metadata.paket_sigel").
		Where("item_metadata.paket_sigel IS NOT NULL").
		Pluck("paket_sigel", &facets.PaketSigels).Error; err != nil {
		return nil, fmt.Errorf("paket sigel facet failed: %w", err)
	}

	if err := s.buildSearch(p).Distinct("item_metadata.zdb_id").
		Where("item_metadata.zdb_id IS NOT NULL").
		Pluck("zdb_id", &facets.ZDBIDs).Error; err != nil {
		return nil, fmt.Errorf("zdb id facet failed: %w", err)
	}

	rightsBase := func() *gorm.DB {
		return s.db.Model(&models.ItemRight{}).
			Joins("JOIN item_entries ON item_entries.right_id = item_rights.right_id").
			Where("item_entries.metadata_id IN (?)", idQuery)
	}

	var accessStates []string
	if err := rightsBase().Distinct("item_rights.access_state").
		Where("item_rights.access_state IS NOT NULL").
		Pluck("access_state", &accessStates).Error; err != nil {
		return nil, fmt.Errorf("access state facet failed: %w", err)
	}
	for _, a := range accessStates {
		if parsed, ok := models.ParseAccessState(a); ok {
			facets.AccessStates = append(facets.AccessStates, parsed)
		}
	}

	var flags struct {
		HasLicenceContract    bool
		HasOpenContentLicence bool
		HasZBWUserAgreement   bool
	}
	err := rightsBase().Select(
		"bool_or(item_rights.licence_contract IS NOT NULL AND item_rights.licence_contract <> '') AS has_licence_contract, " +
			"bool_or(item_rights.open_content_licence IS NOT NULL" +
			" OR item_rights.non_standard_open_content_licence_url IS NOT NULL" +
			" OR item_rights.non_standard_open_content_licence = TRUE) AS has_open_content_licence, " +
			"bool_or(item_rights.zbw_user_agreement = TRUE) AS has_zbw_user_agreement").
		Scan(&flags).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("licence facet failed: %w", err)
	}
	facets.HasLicenceContract = flags.HasLicenceContract
	facets.HasOpenContentLicence = flags.HasOpenContentLicence
	facets.HasZBWUserAgreement = flags.HasZBWUserAgreement

	return facets, nil
}

// buildSearch composes the combined boolean query: free-text pairs AND
// metadata filters AND (right filters via EXISTS over linked rights, unless
// the no-right-information filter overrides them).
func (s *metadataStore) buildSearch(p SearchParams) *gorm.DB {
	q := s.db.Model(&models.ItemMetadata{})

	for _, group := range groupPairsByKey(p.Pairs) {
		clause, args := lowerPairGroup(group)
		q = q.Where(clause, args...)
	}

	for _, f := range p.MetadataFilters {
		clause, args := search.LowerMetadataFilter(f)
		q = q.Where(clause, args...)
	}

	if p.NoRightInfo != nil {
		q = q.Where("NOT EXISTS (SELECT 1 FROM item_entries WHERE item_entries.metadata_id = item_metadata.metadata_id)")
	} else if len(p.RightFilters) > 0 {
		now := time.Now()
		var sb strings.Builder
		sb.WriteString("EXISTS (SELECT 1 FROM item_entries" +
			" JOIN item_rights ON item_rights.right_id = item_entries.right_id" +
			" WHERE item_entries.metadata_id = item_metadata.metadata_id")
		args := make([]interface{}, 0, len(p.RightFilters))
		for _, f := range p.RightFilters {
			clause, a := search.LowerRightFilter(f, now)
			sb.WriteString(" AND ")
			sb.WriteString(clause)
			args = append(args, a...)
		}
		sb.WriteString(")")
		q = q.Where(sb.String(), args...)
	}

	return q
}

// groupPairsByKey buckets repeated same-key tokens so they OR-combine
// within the key while distinct keys AND-combine. Key order is kept stable
// so generated SQL is deterministic.
func groupPairsByKey(pairs []search.SearchPair) [][]search.SearchPair {
	var order []search.SearchKey
	byKey := make(map[search.SearchKey][]search.SearchPair)
	for _, p := range pairs {
		if _, seen := byKey[p.Key]; !seen {
			order = append(order, p.Key)
		}
		byKey[p.Key] = append(byKey[p.Key], p)
	}
	groups := make([][]search.SearchPair, 0, len(order))
	for _, k := range order {
		groups = append(groups, byKey[k])
	}
	return groups
}

func lowerPairGroup(group []search.SearchPair) (string, []interface{}) {
	clauses := make([]string, 0, len(group))
	args := make([]interface{}, 0, len(group))
	for _, p := range group {
		clauses = append(clauses,
			fmt.Sprintf("to_tsvector('english', coalesce(item_metadata.%s, '')) @@ plainto_tsquery('english', ?)", p.Key.Column()))
		args = append(args, p.Values)
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

func rankExpression(pairs []search.SearchPair) (string, []interface{}) {
	cols := make([]string, 0, len(pairs))
	seen := make(map[string]bool)
	values := make([]string, 0, len(pairs))
	for _, p := range pairs {
		col := p.Key.Column()
		if !seen[col] {
			seen[col] = true
			cols = append(cols, fmt.Sprintf("coalesce(item_metadata.%s, '')", col))
		}
		values = append(values, p.Values)
	}
	expr := fmt.Sprintf("ts_rank(to_tsvector('english', %s), plainto_tsquery('english', ?))",
		strings.Join(cols, " || ' ' || "))
	return expr, []interface{}{strings.Join(values, " ")}
}
