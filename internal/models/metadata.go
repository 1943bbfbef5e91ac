// internal/models/metadata.go
package models

import (
	"time"
)

// ItemMetadata is one bibliographic record. The metadata id is assigned by
// the ingesting system and never changes; everything else is mutable via
// upsert.
type ItemMetadata struct {
	MetadataID      string          `json:"metadata_id" gorm:"primaryKey;column:metadata_id"`
	Handle          *string         `json:"handle,omitempty" gorm:"index"`
	PPN             *string         `json:"ppn,omitempty" gorm:"column:ppn"`
	PPNEbook        *string         `json:"ppn_ebook,omitempty" gorm:"column:ppn_ebook"`
	Title           string          `json:"title"`
	TitleJournal    *string         `json:"title_journal,omitempty"`
	TitleSeries     *string         `json:"title_series,omitempty"`
	PublicationDate time.Time       `json:"publication_date" gorm:"type:date;index"`
	Band            *string         `json:"band,omitempty"`
	PublicationType PublicationType `json:"publication_type" gorm:"type:varchar(32);index"`
	DOI             *string         `json:"doi,omitempty" gorm:"column:doi"`
	SerialNumber    *string         `json:"serial_number,omitempty"`
	ISBN            *string         `json:"isbn,omitempty" gorm:"column:isbn"`
	ISSN            *string         `json:"issn,omitempty" gorm:"column:issn"`
	RightsK10plus   *string         `json:"rights_k10plus,omitempty" gorm:"column:rights_k10plus"`
	PaketSigel      *string         `json:"paket_sigel,omitempty" gorm:"index"`
	ZDBID           *string         `json:"zdb_id,omitempty" gorm:"column:zdb_id;index"`
	Author          *string         `json:"author,omitempty"`
	CollectionName  *string         `json:"collection_name,omitempty"`
	CommunityName   *string         `json:"community_name,omitempty"`
	StorageDate     *time.Time      `json:"storage_date,omitempty"`
	CreatedOn       *time.Time      `json:"created_on,omitempty"`
	LastUpdatedOn   *time.Time      `json:"last_updated_on,omitempty"`
	CreatedBy       *string         `json:"created_by,omitempty"`
	LastUpdatedBy   *string         `json:"last_updated_by,omitempty"`
}

func (ItemMetadata) TableName() string {
	return "item_metadata"
}

// PublicationYear is the year component used by the publication date filter.
func (m *ItemMetadata) PublicationYear() int {
	return m.PublicationDate.Year()
}
