// internal/models/bookmark.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// Bookmark is a saved search: a free-text term plus at most one filter
// instance per filter category. Templates reference bookmarks through
// BookmarkTemplatePair; the template engine replays the saved search to
// compute candidate items.
type Bookmark struct {
	BookmarkID   int64   `json:"bookmark_id" gorm:"primaryKey;autoIncrement;column:bookmark_id"`
	BookmarkName string  `json:"bookmark_name" gorm:"uniqueIndex"`
	Description  *string `json:"description,omitempty" gorm:"type:text"`
	SearchTerm   *string `json:"search_term,omitempty"`

	// Metadata filter categories.
	PublicationDateFrom *int           `json:"publication_date_from,omitempty"`
	PublicationDateTo   *int           `json:"publication_date_to,omitempty"`
	PublicationTypes    pq.StringArray `json:"publication_types,omitempty" gorm:"type:text[]"`
	PaketSigels         pq.StringArray `json:"paket_sigels,omitempty" gorm:"type:text[]"`
	ZDBIDs              pq.StringArray `json:"zdb_ids,omitempty" gorm:"column:zdb_ids;type:text[]"`
	Series              pq.StringArray `json:"series,omitempty" gorm:"type:text[]"`

	// Right filter categories.
	AccessStates       pq.StringArray `json:"access_states,omitempty" gorm:"type:text[]"`
	TemporalValidities pq.StringArray `json:"temporal_validities,omitempty" gorm:"type:text[]"`
	FormalRules        pq.StringArray `json:"formal_rules,omitempty" gorm:"type:text[]"`
	TemplateNames      pq.StringArray `json:"template_names,omitempty" gorm:"type:text[]"`
	StartDate          *time.Time     `json:"start_date,omitempty" gorm:"type:date"`
	EndDate            *time.Time     `json:"end_date,omitempty" gorm:"type:date"`
	ValidOn            *time.Time     `json:"valid_on,omitempty" gorm:"type:date"`
	LicenceURL         *string        `json:"licence_url,omitempty" gorm:"column:licence_url"`

	// Selects items carrying no right information at all. Overrides the
	// right filter categories above.
	NoRightInformation bool `json:"no_right_information"`

	CreatedOn     *time.Time `json:"created_on,omitempty"`
	LastUpdatedOn *time.Time `json:"last_updated_on,omitempty"`
	CreatedBy     *string    `json:"created_by,omitempty"`
	LastUpdatedBy *string    `json:"last_updated_by,omitempty"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

// BookmarkTemplatePair joins a bookmark to a template right.
type BookmarkTemplatePair struct {
	BookmarkID int64  `json:"bookmark_id" gorm:"primaryKey;column:bookmark_id"`
	RightID    string `json:"right_id" gorm:"primaryKey;column:right_id"`
}

func (BookmarkTemplatePair) TableName() string {
	return "bookmark_template_pairs"
}
