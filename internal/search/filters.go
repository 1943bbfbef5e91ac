// internal/search/filters.go
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
)

// The filter set is a closed sum: every filter kind is listed here and
// lowered to SQL by a single dispatcher. Values OR-combine within one
// filter, distinct filters AND-combine.

const (
	// Plausible publication year bounds enforced at construction.
	MinPublicationYear = 1800
	MaxPublicationYear = 2200
)

// MetadataFilter is a predicate over item_metadata columns.
type MetadataFilter interface {
	isMetadataFilter()
}

// RightFilter is a predicate over item_rights columns, evaluated against the
// rights linked to a metadata record.
type RightFilter interface {
	isRightFilter()
}

type PublicationDateFilter struct {
	FromYear int
	ToYear   int
}

// NewPublicationDateFilter validates the inclusive year range before the
// filter can exist.
func NewPublicationDateFilter(fromYear, toYear int) (*PublicationDateFilter, error) {
	if fromYear < MinPublicationYear || fromYear > MaxPublicationYear {
		return nil, apperrors.NewValidationError("publication_date_from",
			fmt.Sprintf("year %d outside plausible range [%d,%d]", fromYear, MinPublicationYear, MaxPublicationYear))
	}
	if toYear < MinPublicationYear || toYear > MaxPublicationYear {
		return nil, apperrors.NewValidationError("publication_date_to",
			fmt.Sprintf("year %d outside plausible range [%d,%d]", toYear, MinPublicationYear, MaxPublicationYear))
	}
	if fromYear > toYear {
		return nil, apperrors.NewValidationError("publication_date",
			fmt.Sprintf("from year %d after to year %d", fromYear, toYear))
	}
	return &PublicationDateFilter{FromYear: fromYear, ToYear: toYear}, nil
}

func (f *PublicationDateFilter) FromDate() time.Time {
	return time.Date(f.FromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func (f *PublicationDateFilter) ToDate() time.Time {
	return time.Date(f.ToYear, time.December, 31, 0, 0, 0, 0, time.UTC)
}

type PublicationTypeFilter struct {
	Types []models.PublicationType
}

type PaketSigelFilter struct {
	Sigels []string
}

type ZDBIDFilter struct {
	ZDBIDs []string
}

type SeriesFilter struct {
	Series []string
}

type AccessStateFilter struct {
	States []models.AccessState
}

type TemporalValidityFilter struct {
	Validities []models.TemporalValidity
}

type StartDateFilter struct {
	Date time.Time
}

type EndDateFilter struct {
	Date time.Time
}

type RightValidOnFilter struct {
	Date time.Time
}

type FormalRuleFilter struct {
	Rules []models.FormalRule
}

type TemplateNameFilter struct {
	Names []string
}

type LicenceURLFilter struct {
	URL string
}

// NoRightInformationFilter selects metadata with no linked right at all.
// When present it suppresses every ordinary right filter.
type NoRightInformationFilter struct{}

func (*PublicationDateFilter) isMetadataFilter() {}
func (*PublicationTypeFilter) isMetadataFilter() {}
func (*PaketSigelFilter) isMetadataFilter()      {}
func (*ZDBIDFilter) isMetadataFilter()           {}
func (*SeriesFilter) isMetadataFilter()          {}

func (*AccessStateFilter) isRightFilter()      {}
func (*TemporalValidityFilter) isRightFilter() {}
func (*StartDateFilter) isRightFilter()        {}
func (*EndDateFilter) isRightFilter()          {}
func (*RightValidOnFilter) isRightFilter()     {}
func (*FormalRuleFilter) isRightFilter()       {}
func (*TemplateNameFilter) isRightFilter()     {}
func (*LicenceURLFilter) isRightFilter()       {}

// LowerMetadataFilter lowers one metadata filter to a predicate fragment and
// its ordered bind arguments. Columns are qualified so fragments compose
// into joined queries.
func LowerMetadataFilter(f MetadataFilter) (string, []interface{}) {
	switch v := f.(type) {
	case *PublicationDateFilter:
		return "item_metadata.publication_date >= ? AND item_metadata.publication_date <= ?",
			[]interface{}{v.FromDate(), v.ToDate()}
	case *PublicationTypeFilter:
		return orEquals("item_metadata.publication_type", len(v.Types)),
			toArgs(v.Types)
	case *PaketSigelFilter:
		return orEquals("item_metadata.paket_sigel", len(v.Sigels)),
			toArgs(v.Sigels)
	case *ZDBIDFilter:
		return orEquals("item_metadata.zdb_id", len(v.ZDBIDs)),
			toArgs(v.ZDBIDs)
	case *SeriesFilter:
		return orEquals("item_metadata.title_series", len(v.Series)),
			toArgs(v.Series)
	}
	return "", nil
}

// LowerRightFilter lowers one right filter. now anchors the temporal
// validity sub-predicates.
func LowerRightFilter(f RightFilter, now time.Time) (string, []interface{}) {
	switch v := f.(type) {
	case *AccessStateFilter:
		return orEquals("item_rights.access_state", len(v.States)),
			toArgs(v.States)
	case *TemporalValidityFilter:
		return lowerTemporalValidity(v, now)
	case *StartDateFilter:
		return "item_rights.start_date = ?", []interface{}{v.Date}
	case *EndDateFilter:
		return "item_rights.end_date = ?", []interface{}{v.Date}
	case *RightValidOnFilter:
		return "item_rights.start_date <= ? AND (item_rights.end_date >= ? OR item_rights.end_date IS NULL)",
			[]interface{}{v.Date, v.Date}
	case *FormalRuleFilter:
		return lowerFormalRule(v)
	case *TemplateNameFilter:
		return orEquals("item_rights.template_name", len(v.Names)),
			toArgs(v.Names)
	case *LicenceURLFilter:
		return "item_rights.non_standard_open_content_licence_url = ?", []interface{}{v.URL}
	}
	return "", nil
}

func lowerTemporalValidity(f *TemporalValidityFilter, now time.Time) (string, []interface{}) {
	clauses := make([]string, 0, len(f.Validities))
	args := make([]interface{}, 0, len(f.Validities))
	for _, tv := range f.Validities {
		switch tv {
		case models.TemporalValidityFuture:
			clauses = append(clauses, "item_rights.start_date > ?")
			args = append(args, now)
		case models.TemporalValidityPast:
			clauses = append(clauses, "item_rights.end_date < ?")
			args = append(args, now)
		case models.TemporalValidityPresent:
			clauses = append(clauses, "(item_rights.start_date < ? AND item_rights.end_date > ?)")
			args = append(args, now, now)
		}
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

func lowerFormalRule(f *FormalRuleFilter) (string, []interface{}) {
	clauses := make([]string, 0, len(f.Rules))
	for _, rule := range f.Rules {
		switch rule {
		case models.FormalRuleLicenceContract:
			clauses = append(clauses, "(item_rights.licence_contract IS NOT NULL AND item_rights.licence_contract <> '')")
		case models.FormalRuleOpenContentLicence:
			clauses = append(clauses,
				"(item_rights.open_content_licence IS NOT NULL"+
					" OR item_rights.non_standard_open_content_licence_url IS NOT NULL"+
					" OR item_rights.non_standard_open_content_licence = TRUE)")
		case models.FormalRuleUserAgreement:
			clauses = append(clauses, "item_rights.zbw_user_agreement = TRUE")
		}
	}
	return "(" + strings.Join(clauses, " OR ") + ")", nil
}

func orEquals(column string, n int) string {
	clauses := make([]string, n)
	for i := range clauses {
		clauses[i] = column + " = ?"
	}
	return "(" + strings.Join(clauses, " OR ") + ")"
}

func toArgs[T ~string](values []T) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = string(v)
	}
	return args
}
