// internal/models/item.go
package models

// ItemEntry is one persisted item association: a metadata record linked to a
// right. The pair is unique.
type ItemEntry struct {
	MetadataID string `json:"metadata_id" gorm:"primaryKey;column:metadata_id"`
	RightID    string `json:"right_id" gorm:"primaryKey;column:right_id"`
}

func (ItemEntry) TableName() string {
	return "item_entries"
}

// Item pairs a metadata record with all rights currently linked to it. It is
// reconstructed on every read and never stored.
type Item struct {
	Metadata ItemMetadata `json:"metadata"`
	Rights   []ItemRight  `json:"rights"`
}

// RightErrorKind tags the reason an item was excluded during a template
// apply or a manual link.
type RightErrorKind string

const (
	RightErrorKindDateConflict RightErrorKind = "DATE_RANGE_CONFLICT"
)

// RightError reports one per-item failure of a template apply. The apply as
// a whole still succeeds; callers receive these alongside the linked ids.
type RightError struct {
	Kind               RightErrorKind `json:"kind"`
	MetadataID         string         `json:"metadata_id"`
	RightID            string         `json:"right_id"`
	ConflictingRightID string         `json:"conflicting_right_id"`
	Message            string         `json:"message"`
}

// SearchQueryResult is the transient envelope returned by the search query
// engine: one page of items, the unbounded match count, facet aggregations
// over the full match set, and the parse diagnostics for the search term.
type SearchQueryResult struct {
	NumberOfResults int64  `json:"number_of_results"`
	Results         []Item `json:"results"`

	AccessStates          []AccessState     `json:"access_states,omitempty"`
	PublicationTypes      []PublicationType `json:"publication_types,omitempty"`
	PaketSigels           []string          `json:"paket_sigels,omitempty"`
	ZDBIDs                []string          `json:"zdb_ids,omitempty"`
	HasLicenceContract    bool              `json:"has_licence_contract"`
	HasOpenContentLicence bool              `json:"has_open_content_licence"`
	HasZBWUserAgreement   bool              `json:"has_zbw_user_agreement"`

	InvalidSearchKeys       []string `json:"invalid_search_keys,omitempty"`
	HasSearchTokenWithNoKey bool     `json:"has_search_token_with_no_key"`
}

// TemplateApplyResult is the outcome of applying one template.
type TemplateApplyResult struct {
	RightID           string       `json:"right_id"`
	LinkedMetadataIDs []string     `json:"linked_metadata_ids"`
	Errors            []RightError `json:"errors"`
}
