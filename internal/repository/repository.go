// internal/repository/repository.go
package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/search"
)

// SearchParams is the combined predicate the search engine hands to the
// metadata store: parsed free-text pairs plus structural filters. Limit and
// Offset nil means unbounded.
type SearchParams struct {
	Pairs           []search.SearchPair
	MetadataFilters []search.MetadataFilter
	RightFilters    []search.RightFilter
	NoRightInfo     *search.NoRightInformationFilter
	Limit           *int
	Offset          *int
}

// FacetSet aggregates distinct values over the entire matching set, not the
// returned page.
type FacetSet struct {
	AccessStates          []models.AccessState
	PublicationTypes      []models.PublicationType
	PaketSigels           []string
	ZDBIDs                []string
	HasLicenceContract    bool
	HasOpenContentLicence bool
	HasZBWUserAgreement   bool
}

// MetadataStore persists bibliographic records and answers filtered search.
type MetadataStore interface {
	Insert(m *models.ItemMetadata) error
	Upsert(m *models.ItemMetadata) error
	UpsertBatch(ms []models.ItemMetadata) error
	GetByIDs(ids []string) ([]models.ItemMetadata, error)
	List(limit, offset int) ([]models.ItemMetadata, error)
	Delete(id string) error
	Contains(id string) (bool, error)
	Count() (int64, error)

	Search(p SearchParams) ([]models.ItemMetadata, error)
	CountSearch(p SearchParams) (int64, error)
	SearchFacets(p SearchParams) (*FacetSet, error)
}

// RightStore persists usage rights and templates.
type RightStore interface {
	Insert(r *models.ItemRight) error
	Upsert(r *models.ItemRight) error
	GetByIDs(ids []string) ([]models.ItemRight, error)
	Delete(id string) error
	Contains(id string) (bool, error)

	ListTemplates(limit, offset int) ([]models.ItemRight, error)
	AllTemplateIDs() ([]string, error)
	TemplatesByExceptionFrom(rightID string) ([]models.ItemRight, error)
	TemplateNameExists(name, excludeRightID string) (bool, error)
	TouchLastApplied(rightID string, appliedOn time.Time) error
}

// GroupStore persists access-restriction groups and their right pairs.
type GroupStore interface {
	Insert(g *models.RightGroup) error
	Update(g *models.RightGroup) error
	GetByID(groupID string) (*models.RightGroup, error)
	List(limit, offset int) ([]models.RightGroup, error)
	Delete(groupID string) error

	InsertPair(groupID, rightID string) error
	DeletePair(groupID, rightID string) error
	DeletePairsByRight(rightID string) error
	GroupIDsByRight(rightID string) ([]string, error)
	RightIDsByGroup(groupID string) ([]string, error)
}

// ItemStore persists the item associations (metadata id, right id).
type ItemStore interface {
	Insert(metadataID, rightID string) error
	Exists(metadataID, rightID string) (bool, error)
	Delete(metadataID, rightID string) error
	DeleteByMetadata(metadataID string) error
	DeleteByRight(rightID string) error
	CountByRight(rightID string) (int64, error)
	CountByMetadata(metadataID string) (int64, error)
	RightIDsByMetadata(metadataID string) ([]string, error)
	MetadataIDsByRight(rightID string) ([]string, error)

	// ReplaceLinks atomically removes every link of the right and inserts
	// one link per given metadata id.
	ReplaceLinks(rightID string, metadataIDs []string) error
}

// BookmarkStore persists saved searches and their template pairs.
type BookmarkStore interface {
	Insert(b *models.Bookmark) error
	Update(b *models.Bookmark) error
	GetByIDs(ids []int64) ([]models.Bookmark, error)
	List(limit, offset int) ([]models.Bookmark, error)
	Delete(id int64) error
	NameExists(name string, excludeID int64) (bool, error)

	InsertTemplatePair(bookmarkID int64, rightID string) error
	DeleteTemplatePair(bookmarkID int64, rightID string) error
	DeletePairsByRight(rightID string) error
	UpsertTemplatePairs(pairs []models.BookmarkTemplatePair) error
	BookmarkIDsByRight(rightID string) ([]int64, error)
	RightIDsByBookmark(bookmarkID int64) ([]string, error)
}

// UserStore persists editorial accounts and sessions.
type UserStore interface {
	Insert(u *models.User) error
	GetByUsername(username string) (*models.User, error)
	UpdatePassword(username, passwordHash string) error
	UpdateRole(username string, role models.UserRole) error
	Delete(username string) error

	InsertSession(s *models.Session) error
	GetSession(sessionID string) (*models.Session, error)
	DeleteSession(sessionID string) error
}

// Stores bundles every store the services need.
type Stores struct {
	Metadata  MetadataStore
	Rights    RightStore
	Groups    GroupStore
	Items     ItemStore
	Bookmarks BookmarkStore
	Users     UserStore
}

// NewPostgresStores wires the gorm-backed implementations.
func NewPostgresStores(db *gorm.DB) *Stores {
	return &Stores{
		Metadata:  &metadataStore{db: db},
		Rights:    &rightStore{db: db},
		Groups:    &groupStore{db: db},
		Items:     &itemStore{db: db},
		Bookmarks: &bookmarkStore{db: db},
		Users:     &userStore{db: db},
	}
}
