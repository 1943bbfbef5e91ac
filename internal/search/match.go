// internal/search/match.go
package search

import (
	"strings"
	"time"

	"github.com/greenbourne277/zbwcloud/internal/models"
)

// In-memory evaluation of the same closed filter set the SQL lowering
// covers. The memory-backed store uses these; they also pin the SQL
// semantics down in tests without a database.

// MatchesMetadata evaluates one metadata filter against a record.
func MatchesMetadata(f MetadataFilter, m *models.ItemMetadata) bool {
	switch v := f.(type) {
	case *PublicationDateFilter:
		return !m.PublicationDate.Before(v.FromDate()) && !m.PublicationDate.After(v.ToDate())
	case *PublicationTypeFilter:
		for _, t := range v.Types {
			if m.PublicationType == t {
				return true
			}
		}
		return false
	case *PaketSigelFilter:
		return stringMatches(m.PaketSigel, v.Sigels)
	case *ZDBIDFilter:
		return stringMatches(m.ZDBID, v.ZDBIDs)
	case *SeriesFilter:
		return stringMatches(m.TitleSeries, v.Series)
	}
	return false
}

// MatchesRight evaluates one right filter against a linked right.
func MatchesRight(f RightFilter, r *models.ItemRight, now time.Time) bool {
	switch v := f.(type) {
	case *AccessStateFilter:
		if r.AccessState == nil {
			return false
		}
		for _, s := range v.States {
			if *r.AccessState == s {
				return true
			}
		}
		return false
	case *TemporalValidityFilter:
		return matchesTemporalValidity(v, r, now)
	case *StartDateFilter:
		return r.StartDate.Equal(v.Date)
	case *EndDateFilter:
		return r.EndDate != nil && r.EndDate.Equal(v.Date)
	case *RightValidOnFilter:
		if r.StartDate.After(v.Date) {
			return false
		}
		return r.EndDate == nil || !r.EndDate.Before(v.Date)
	case *FormalRuleFilter:
		return matchesFormalRule(v, r)
	case *TemplateNameFilter:
		return stringMatches(r.TemplateName, v.Names)
	case *LicenceURLFilter:
		return r.NonStandardOpenContentLicenceURL != nil && *r.NonStandardOpenContentLicenceURL == v.URL
	}
	return false
}

// MatchesPair evaluates one free-text search pair against a record with
// case-insensitive containment, mirroring the full-text predicate loosely
// enough for the memory store.
func MatchesPair(p SearchPair, m *models.ItemMetadata) bool {
	var field string
	switch p.Key {
	case SearchKeyCollection:
		field = deref(m.CollectionName)
	case SearchKeyCommunity:
		field = deref(m.CommunityName)
	case SearchKeyPaketSigel:
		field = deref(m.PaketSigel)
	case SearchKeyTitle:
		field = m.Title
	case SearchKeyZDBID:
		field = deref(m.ZDBID)
	case SearchKeyHandle:
		field = deref(m.Handle)
	case SearchKeyPPN:
		field = deref(m.PPN)
	}
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(p.Values))
}

// MatchesPairs applies the combined free-text predicate: distinct keys AND,
// repeated keys OR within the key.
func MatchesPairs(pairs []SearchPair, m *models.ItemMetadata) bool {
	byKey := make(map[SearchKey][]SearchPair)
	for _, p := range pairs {
		byKey[p.Key] = append(byKey[p.Key], p)
	}
	for _, group := range byKey {
		anyHit := false
		for _, p := range group {
			if MatchesPair(p, m) {
				anyHit = true
				break
			}
		}
		if !anyHit {
			return false
		}
	}
	return true
}

func matchesTemporalValidity(f *TemporalValidityFilter, r *models.ItemRight, now time.Time) bool {
	for _, tv := range f.Validities {
		switch tv {
		case models.TemporalValidityFuture:
			if r.StartDate.After(now) {
				return true
			}
		case models.TemporalValidityPast:
			if r.EndDate != nil && r.EndDate.Before(now) {
				return true
			}
		case models.TemporalValidityPresent:
			if r.StartDate.Before(now) && r.EndDate != nil && r.EndDate.After(now) {
				return true
			}
		}
	}
	return false
}

func matchesFormalRule(f *FormalRuleFilter, r *models.ItemRight) bool {
	for _, rule := range f.Rules {
		switch rule {
		case models.FormalRuleLicenceContract:
			if r.LicenceContract != nil && *r.LicenceContract != "" {
				return true
			}
		case models.FormalRuleOpenContentLicence:
			if r.OpenContentLicence != nil ||
				r.NonStandardOpenContentLicenceURL != nil ||
				(r.NonStandardOpenContentLicence != nil && *r.NonStandardOpenContentLicence) {
				return true
			}
		case models.FormalRuleUserAgreement:
			if r.ZBWUserAgreement != nil && *r.ZBWUserAgreement {
				return true
			}
		}
	}
	return false
}

func stringMatches(field *string, values []string) bool {
	if field == nil {
		return false
	}
	for _, v := range values {
		if *field == v {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
