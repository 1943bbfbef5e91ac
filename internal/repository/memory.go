// internal/repository/memory.go
package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/search"
)

// Memory-backed stores. They mirror the postgres implementations closely
// enough to drive the services in tests and small deployments without a
// database; the shared filter evaluation lives in the search package.

type memoryBackend struct {
	mtx        sync.RWMutex
	metadata   map[string]models.ItemMetadata
	rights     map[string]models.ItemRight
	groups     map[string]models.RightGroup
	groupPairs map[string]map[string]bool // groupID -> rightID set
	entries    map[string]map[string]bool // rightID -> metadataID set
	bookmarks  map[int64]models.Bookmark
	bmPairs    map[int64]map[string]bool // bookmarkID -> rightID set
	users      map[string]models.User
	sessions   map[string]models.Session
	nextBmID   int64
}

// NewMemoryStores wires store implementations over one shared in-memory
// backend.
func NewMemoryStores() *Stores {
	b := &memoryBackend{
		metadata:   make(map[string]models.ItemMetadata),
		rights:     make(map[string]models.ItemRight),
		groups:     make(map[string]models.RightGroup),
		groupPairs: make(map[string]map[string]bool),
		entries:    make(map[string]map[string]bool),
		bookmarks:  make(map[int64]models.Bookmark),
		bmPairs:    make(map[int64]map[string]bool),
		users:      make(map[string]models.User),
		sessions:   make(map[string]models.Session),
	}
	return &Stores{
		Metadata:  &memMetadataStore{b: b},
		Rights:    &memRightStore{b: b},
		Groups:    &memGroupStore{b: b},
		Items:     &memItemStore{b: b},
		Bookmarks: &memBookmarkStore{b: b},
		Users:     &memUserStore{b: b},
	}
}

type memMetadataStore struct{ b *memoryBackend }

func (s *memMetadataStore) Insert(m *models.ItemMetadata) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	if _, exists := s.b.metadata[m.MetadataID]; exists {
		return fmt.Errorf("metadata %s already exists", m.MetadataID)
	}
	s.b.metadata[m.MetadataID] = *m
	return nil
}

func (s *memMetadataStore) Upsert(m *models.ItemMetadata) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	s.b.metadata[m.MetadataID] = *m
	return nil
}

func (s *memMetadataStore) UpsertBatch(ms []models.ItemMetadata) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	for _, m := range ms {
		s.b.metadata[m.MetadataID] = m
	}
	return nil
}

func (s *memMetadataStore) GetByIDs(ids []string) ([]models.ItemMetadata, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var out []models.ItemMetadata
	for _, id := range ids {
		if m, ok := s.b.metadata[id]; ok {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MetadataID < out[j].MetadataID })
	return out, nil
}

func (s *memMetadataStore) List(limit, offset int) ([]models.ItemMetadata, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	all := s.sortedAllLocked()
	return paginate(all, &limit, &offset), nil
}

func (s *memMetadataStore) Delete(id string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	delete(s.b.metadata, id)
	return nil
}

func (s *memMetadataStore) Contains(id string) (bool, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	_, ok := s.b.metadata[id]
	return ok, nil
}

func (s *memMetadataStore) Count() (int64, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	return int64(len(s.b.metadata)), nil
}

func (s *memMetadataStore) Search(p SearchParams) ([]models.ItemMetadata, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	matched := s.matchLocked(p)
	return paginate(matched, p.Limit, p.Offset), nil
}

func (s *memMetadataStore) CountSearch(p SearchParams) (int64, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	return int64(len(s.matchLocked(p))), nil
}

func (s *memMetadataStore) SearchFacets(p SearchParams) (*FacetSet, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	matched := s.matchLocked(p)

	facets := &FacetSet{}
	accessSeen := make(map[models.AccessState]bool)
	typeSeen := make(map[models.PublicationType]bool)
	sigelSeen := make(map[string]bool)
	zdbSeen := make(map[string]bool)

	for _, m := range matched {
		if m.PublicationType != "" && !typeSeen[m.PublicationType] {
			typeSeen[m.PublicationType] = true
			facets.PublicationTypes = append(facets.PublicationTypes, m.PublicationType)
		}
		if m.PaketSigel != nil && !sigelSeen[*m.PaketSigel] {
			sigelSeen[*m.PaketSigel] = true
			facets.PaketSigels = append(facets.PaketSigels, *m.PaketSigel)
		}
		if m.ZDBID != nil && !zdbSeen[*m.ZDBID] {
			zdbSeen[*m.ZDBID] = true
			facets.ZDBIDs = append(facets.ZDBIDs, *m.ZDBID)
		}
		for _, r := range s.b.rightsForMetadataLocked(m.MetadataID) {
			if r.AccessState != nil && !accessSeen[*r.AccessState] {
				accessSeen[*r.AccessState] = true
				facets.AccessStates = append(facets.AccessStates, *r.AccessState)
			}
			if r.LicenceContract != nil && *r.LicenceContract != "" {
				facets.HasLicenceContract = true
			}
			if r.OpenContentLicence != nil || r.NonStandardOpenContentLicenceURL != nil ||
				(r.NonStandardOpenContentLicence != nil && *r.NonStandardOpenContentLicence) {
				facets.HasOpenContentLicence = true
			}
			if r.ZBWUserAgreement != nil && *r.ZBWUserAgreement {
				facets.HasZBWUserAgreement = true
			}
		}
	}
	return facets, nil
}

func (s *memMetadataStore) sortedAllLocked() []models.ItemMetadata {
	all := make([]models.ItemMetadata, 0, len(s.b.metadata))
	for _, m := range s.b.metadata {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].MetadataID < all[j].MetadataID })
	return all
}

func (s *memMetadataStore) matchLocked(p SearchParams) []models.ItemMetadata {
	now := time.Now()
	var matched []models.ItemMetadata
	for _, m := range s.sortedAllLocked() {
		m := m
		if len(p.Pairs) > 0 && !search.MatchesPairs(p.Pairs, &m) {
			continue
		}
		ok := true
		for _, f := range p.MetadataFilters {
			if !search.MatchesMetadata(f, &m) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		linked := s.b.rightsForMetadataLocked(m.MetadataID)
		if p.NoRightInfo != nil {
			if len(linked) > 0 {
				continue
			}
		} else if len(p.RightFilters) > 0 {
			anyRight := false
			for _, r := range linked {
				r := r
				allFilters := true
				for _, f := range p.RightFilters {
					if !search.MatchesRight(f, &r, now) {
						allFilters = false
						break
					}
				}
				if allFilters {
					anyRight = true
					break
				}
			}
			if !anyRight {
				continue
			}
		}
		matched = append(matched, m)
	}
	return matched
}

func (b *memoryBackend) rightsForMetadataLocked(metadataID string) []models.ItemRight {
	var out []models.ItemRight
	for rightID, metadataIDs := range b.entries {
		if metadataIDs[metadataID] {
			if r, ok := b.rights[rightID]; ok {
				out = append(out, r)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RightID < out[j].RightID })
	return out
}

func paginate(all []models.ItemMetadata, limit, offset *int) []models.ItemMetadata {
	start := 0
	if offset != nil {
		start = *offset
	}
	if start >= len(all) {
		return nil
	}
	end := len(all)
	if limit != nil && start+*limit < end {
		end = start + *limit
	}
	return all[start:end]
}

type memRightStore struct{ b *memoryBackend }

func (s *memRightStore) Insert(r *models.ItemRight) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	if _, exists := s.b.rights[r.RightID]; exists {
		return fmt.Errorf("right %s already exists", r.RightID)
	}
	s.b.rights[r.RightID] = *r
	return nil
}

func (s *memRightStore) Upsert(r *models.ItemRight) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	s.b.rights[r.RightID] = *r
	return nil
}

func (s *memRightStore) GetByIDs(ids []string) ([]models.ItemRight, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var out []models.ItemRight
	for _, id := range ids {
		if r, ok := s.b.rights[id]; ok {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RightID < out[j].RightID })
	return out, nil
}

func (s *memRightStore) Delete(id string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	delete(s.b.rights, id)
	return nil
}

func (s *memRightStore) Contains(id string) (bool, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	_, ok := s.b.rights[id]
	return ok, nil
}

func (s *memRightStore) ListTemplates(limit, offset int) ([]models.ItemRight, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var out []models.ItemRight
	for _, r := range s.b.rights {
		if r.IsTemplate {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return deref(out[i].TemplateName) < deref(out[j].TemplateName)
	})
	start := offset
	if start >= len(out) {
		return nil, nil
	}
	end := len(out)
	if start+limit < end {
		end = start + limit
	}
	return out[start:end], nil
}

func (s *memRightStore) AllTemplateIDs() ([]string, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var ids []string
	for id, r := range s.b.rights {
		if r.IsTemplate {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *memRightStore) TemplatesByExceptionFrom(rightID string) ([]models.ItemRight, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var out []models.ItemRight
	for _, r := range s.b.rights {
		if r.IsTemplate && r.ExceptionFrom != nil && *r.ExceptionFrom == rightID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RightID < out[j].RightID })
	return out, nil
}

func (s *memRightStore) TemplateNameExists(name, excludeRightID string) (bool, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	for id, r := range s.b.rights {
		if r.IsTemplate && r.TemplateName != nil && *r.TemplateName == name && id != excludeRightID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memRightStore) TouchLastApplied(rightID string, appliedOn time.Time) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	r, ok := s.b.rights[rightID]
	if !ok {
		return nil
	}
	r.LastAppliedOn = &appliedOn
	s.b.rights[rightID] = r
	return nil
}

type memGroupStore struct{ b *memoryBackend }

func (s *memGroupStore) Insert(g *models.RightGroup) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	if _, exists := s.b.groups[g.GroupID]; exists {
		return fmt.Errorf("group %s already exists", g.GroupID)
	}
	s.b.groups[g.GroupID] = *g
	return nil
}

func (s *memGroupStore) Update(g *models.RightGroup) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	s.b.groups[g.GroupID] = *g
	return nil
}

func (s *memGroupStore) GetByID(groupID string) (*models.RightGroup, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	if g, ok := s.b.groups[groupID]; ok {
		return &g, nil
	}
	return nil, nil
}

func (s *memGroupStore) List(limit, offset int) ([]models.RightGroup, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var out []models.RightGroup
	for _, g := range s.b.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupID < out[j].GroupID })
	start := offset
	if start >= len(out) {
		return nil, nil
	}
	end := len(out)
	if start+limit < end {
		end = start + limit
	}
	return out[start:end], nil
}

func (s *memGroupStore) Delete(groupID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	delete(s.b.groups, groupID)
	delete(s.b.groupPairs, groupID)
	return nil
}

func (s *memGroupStore) InsertPair(groupID, rightID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	if s.b.groupPairs[groupID] == nil {
		s.b.groupPairs[groupID] = make(map[string]bool)
	}
	s.b.groupPairs[groupID][rightID] = true
	return nil
}

func (s *memGroupStore) DeletePair(groupID, rightID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	delete(s.b.groupPairs[groupID], rightID)
	return nil
}

func (s *memGroupStore) DeletePairsByRight(rightID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	for _, rights := range s.b.groupPairs {
		delete(rights, rightID)
	}
	return nil
}

func (s *memGroupStore) GroupIDsByRight(rightID string) ([]string, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var ids []string
	for groupID, rights := range s.b.groupPairs {
		if rights[rightID] {
			ids = append(ids, groupID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *memGroupStore) RightIDsByGroup(groupID string) ([]string, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var ids []string
	for rightID := range s.b.groupPairs[groupID] {
		ids = append(ids, rightID)
	}
	sort.Strings(ids)
	return ids, nil
}

type memItemStore struct{ b *memoryBackend }

func (s *memItemStore) Insert(metadataID, rightID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	if s.b.entries[rightID] == nil {
		s.b.entries[rightID] = make(map[string]bool)
	}
	if s.b.entries[rightID][metadataID] {
		return fmt.Errorf("item entry (%s,%s) already exists", metadataID, rightID)
	}
	s.b.entries[rightID][metadataID] = true
	return nil
}

func (s *memItemStore) Exists(metadataID, rightID string) (bool, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	return s.b.entries[rightID][metadataID], nil
}

func (s *memItemStore) Delete(metadataID, rightID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	delete(s.b.entries[rightID], metadataID)
	return nil
}

func (s *memItemStore) DeleteByMetadata(metadataID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	for _, metadataIDs := range s.b.entries {
		delete(metadataIDs, metadataID)
	}
	return nil
}

func (s *memItemStore) DeleteByRight(rightID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	delete(s.b.entries, rightID)
	return nil
}

func (s *memItemStore) CountByRight(rightID string) (int64, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	return int64(len(s.b.entries[rightID])), nil
}

func (s *memItemStore) CountByMetadata(metadataID string) (int64, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var count int64
	for _, metadataIDs := range s.b.entries {
		if metadataIDs[metadataID] {
			count++
		}
	}
	return count, nil
}

func (s *memItemStore) RightIDsByMetadata(metadataID string) ([]string, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var ids []string
	for rightID, metadataIDs := range s.b.entries {
		if metadataIDs[metadataID] {
			ids = append(ids, rightID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *memItemStore) MetadataIDsByRight(rightID string) ([]string, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var ids []string
	for metadataID := range s.b.entries[rightID] {
		ids = append(ids, metadataID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *memItemStore) ReplaceLinks(rightID string, metadataIDs []string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	linked := make(map[string]bool, len(metadataIDs))
	for _, id := range metadataIDs {
		linked[id] = true
	}
	s.b.entries[rightID] = linked
	return nil
}

type memBookmarkStore struct{ b *memoryBackend }

func (s *memBookmarkStore) Insert(b *models.Bookmark) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	s.b.nextBmID++
	b.BookmarkID = s.b.nextBmID
	s.b.bookmarks[b.BookmarkID] = *b
	return nil
}

func (s *memBookmarkStore) Update(b *models.Bookmark) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	if _, ok := s.b.bookmarks[b.BookmarkID]; !ok {
		return fmt.Errorf("bookmark %d does not exist", b.BookmarkID)
	}
	s.b.bookmarks[b.BookmarkID] = *b
	return nil
}

func (s *memBookmarkStore) GetByIDs(ids []int64) ([]models.Bookmark, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var out []models.Bookmark
	for _, id := range ids {
		if b, ok := s.b.bookmarks[id]; ok {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookmarkID < out[j].BookmarkID })
	return out, nil
}

func (s *memBookmarkStore) List(limit, offset int) ([]models.Bookmark, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var out []models.Bookmark
	for _, b := range s.b.bookmarks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookmarkID < out[j].BookmarkID })
	start := offset
	if start >= len(out) {
		return nil, nil
	}
	end := len(out)
	if start+limit < end {
		end = start + limit
	}
	return out[start:end], nil
}

func (s *memBookmarkStore) Delete(id int64) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	delete(s.b.bookmarks, id)
	delete(s.b.bmPairs, id)
	return nil
}

func (s *memBookmarkStore) NameExists(name string, excludeID int64) (bool, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	for id, b := range s.b.bookmarks {
		if b.BookmarkName == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memBookmarkStore) InsertTemplatePair(bookmarkID int64, rightID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	if s.b.bmPairs[bookmarkID] == nil {
		s.b.bmPairs[bookmarkID] = make(map[string]bool)
	}
	s.b.bmPairs[bookmarkID][rightID] = true
	return nil
}

func (s *memBookmarkStore) DeleteTemplatePair(bookmarkID int64, rightID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	delete(s.b.bmPairs[bookmarkID], rightID)
	return nil
}

func (s *memBookmarkStore) DeletePairsByRight(rightID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	for _, rights := range s.b.bmPairs {
		delete(rights, rightID)
	}
	return nil
}

func (s *memBookmarkStore) UpsertTemplatePairs(pairs []models.BookmarkTemplatePair) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	for _, p := range pairs {
		if s.b.bmPairs[p.BookmarkID] == nil {
			s.b.bmPairs[p.BookmarkID] = make(map[string]bool)
		}
		s.b.bmPairs[p.BookmarkID][p.RightID] = true
	}
	return nil
}

func (s *memBookmarkStore) BookmarkIDsByRight(rightID string) ([]int64, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var ids []int64
	for bookmarkID, rights := range s.b.bmPairs {
		if rights[rightID] {
			ids = append(ids, bookmarkID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memBookmarkStore) RightIDsByBookmark(bookmarkID int64) ([]string, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	var ids []string
	for rightID := range s.b.bmPairs[bookmarkID] {
		ids = append(ids, rightID)
	}
	sort.Strings(ids)
	return ids, nil
}

type memUserStore struct{ b *memoryBackend }

func (s *memUserStore) Insert(u *models.User) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	if _, exists := s.b.users[u.Username]; exists {
		return fmt.Errorf("user %s already exists", u.Username)
	}
	s.b.users[u.Username] = *u
	return nil
}

func (s *memUserStore) GetByUsername(username string) (*models.User, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	if u, ok := s.b.users[username]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *memUserStore) UpdatePassword(username, passwordHash string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	if u, ok := s.b.users[username]; ok {
		u.PasswordHash = passwordHash
		s.b.users[username] = u
	}
	return nil
}

func (s *memUserStore) UpdateRole(username string, role models.UserRole) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	if u, ok := s.b.users[username]; ok {
		u.Role = role
		s.b.users[username] = u
	}
	return nil
}

func (s *memUserStore) Delete(username string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	delete(s.b.users, username)
	return nil
}

func (s *memUserStore) InsertSession(sess *models.Session) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	s.b.sessions[sess.SessionID] = *sess
	return nil
}

func (s *memUserStore) GetSession(sessionID string) (*models.Session, error) {
	s.b.mtx.RLock()
	defer s.b.mtx.RUnlock()
	if sess, ok := s.b.sessions[sessionID]; ok {
		return &sess, nil
	}
	return nil, nil
}

func (s *memUserStore) DeleteSession(sessionID string) error {
	s.b.mtx.Lock()
	defer s.b.mtx.Unlock()
	delete(s.b.sessions, sessionID)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
