// internal/search/bookmark.go
package search

import (
	"github.com/greenbourne277/zbwcloud/internal/models"
)

// BookmarkQuery is a bookmark lowered into the search engine's input shape.
type BookmarkQuery struct {
	Term            string
	MetadataFilters []MetadataFilter
	RightFilters    []RightFilter
	NoRightInfo     *NoRightInformationFilter
}

// FromBookmark rebuilds the filter set a bookmark persists. Unknown enum
// values stored before an enum member was retired are skipped rather than
// failing the whole saved search.
func FromBookmark(b *models.Bookmark) BookmarkQuery {
	q := BookmarkQuery{}
	if b.SearchTerm != nil {
		q.Term = *b.SearchTerm
	}

	if b.PublicationDateFrom != nil || b.PublicationDateTo != nil {
		from := MinPublicationYear
		to := MaxPublicationYear
		if b.PublicationDateFrom != nil {
			from = *b.PublicationDateFrom
		}
		if b.PublicationDateTo != nil {
			to = *b.PublicationDateTo
		}
		if f, err := NewPublicationDateFilter(from, to); err == nil {
			q.MetadataFilters = append(q.MetadataFilters, f)
		}
	}
	if types := parsePublicationTypes(b.PublicationTypes); len(types) > 0 {
		q.MetadataFilters = append(q.MetadataFilters, &PublicationTypeFilter{Types: types})
	}
	if len(b.PaketSigels) > 0 {
		q.MetadataFilters = append(q.MetadataFilters, &PaketSigelFilter{Sigels: b.PaketSigels})
	}
	if len(b.ZDBIDs) > 0 {
		q.MetadataFilters = append(q.MetadataFilters, &ZDBIDFilter{ZDBIDs: b.ZDBIDs})
	}
	if len(b.Series) > 0 {
		q.MetadataFilters = append(q.MetadataFilters, &SeriesFilter{Series: b.Series})
	}

	if states := parseAccessStates(b.AccessStates); len(states) > 0 {
		q.RightFilters = append(q.RightFilters, &AccessStateFilter{States: states})
	}
	if validities := parseTemporalValidities(b.TemporalValidities); len(validities) > 0 {
		q.RightFilters = append(q.RightFilters, &TemporalValidityFilter{Validities: validities})
	}
	if rules := parseFormalRules(b.FormalRules); len(rules) > 0 {
		q.RightFilters = append(q.RightFilters, &FormalRuleFilter{Rules: rules})
	}
	if len(b.TemplateNames) > 0 {
		q.RightFilters = append(q.RightFilters, &TemplateNameFilter{Names: b.TemplateNames})
	}
	if b.StartDate != nil {
		q.RightFilters = append(q.RightFilters, &StartDateFilter{Date: *b.StartDate})
	}
	if b.EndDate != nil {
		q.RightFilters = append(q.RightFilters, &EndDateFilter{Date: *b.EndDate})
	}
	if b.ValidOn != nil {
		q.RightFilters = append(q.RightFilters, &RightValidOnFilter{Date: *b.ValidOn})
	}
	if b.LicenceURL != nil && *b.LicenceURL != "" {
		q.RightFilters = append(q.RightFilters, &LicenceURLFilter{URL: *b.LicenceURL})
	}

	if b.NoRightInformation {
		q.NoRightInfo = &NoRightInformationFilter{}
	}
	return q
}

func parsePublicationTypes(values []string) []models.PublicationType {
	out := make([]models.PublicationType, 0, len(values))
	for _, v := range values {
		if t, ok := models.ParsePublicationType(v); ok {
			out = append(out, t)
		}
	}
	return out
}

func parseAccessStates(values []string) []models.AccessState {
	out := make([]models.AccessState, 0, len(values))
	for _, v := range values {
		if s, ok := models.ParseAccessState(v); ok {
			out = append(out, s)
		}
	}
	return out
}

func parseTemporalValidities(values []string) []models.TemporalValidity {
	out := make([]models.TemporalValidity, 0, len(values))
	for _, v := range values {
		if t, ok := models.ParseTemporalValidity(v); ok {
			out = append(out, t)
		}
	}
	return out
}

func parseFormalRules(values []string) []models.FormalRule {
	out := make([]models.FormalRule, 0, len(values))
	for _, v := range values {
		if r, ok := models.ParseFormalRule(v); ok {
			out = append(out, r)
		}
	}
	return out
}
