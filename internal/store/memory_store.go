package store

import (
	"sort"
	"strings"
	"sync"

	"defnixsite/pkg/domain"
)

// MemoryStore keeps all records in-process. It backs tests and local
// development without Postgres; ordering matches the GormStore queries.
type MemoryStore struct {
	mu          sync.RWMutex
	posts       map[string]domain.BlogPost
	authors     map[string]domain.Author
	tags        map[string]domain.Tag
	categories  map[string]domain.Category
	caseStudies map[string]domain.CaseStudy
	leads       map[string]domain.Lead
	subscribers map[string]domain.Subscriber // key: email
	media       map[string]domain.MediaAsset
	events      []domain.AnalyticsEvent
	adminUsers  map[string]domain.AdminUser // key: email
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:       make(map[string]domain.BlogPost),
		authors:     make(map[string]domain.Author),
		tags:        make(map[string]domain.Tag),
		categories:  make(map[string]domain.Category),
		caseStudies: make(map[string]domain.CaseStudy),
		leads:       make(map[string]domain.Lead),
		subscribers: make(map[string]domain.Subscriber),
		media:       make(map[string]domain.MediaAsset),
		adminUsers:  make(map[string]domain.AdminUser),
	}
}

func (m *MemoryStore) SavePost(p domain.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Tags == nil {
		p.Tags = []domain.Tag{}
	}
	if p.Categories == nil {
		p.Categories = []domain.Category{}
	}
	m.posts[p.ID] = p
	return nil
}

func (m *MemoryStore) GetPostByID(id string) (domain.BlogPost, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	return p, ok, nil
}

func (m *MemoryStore) GetPostBySlug(slug string) (domain.BlogPost, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.posts {
		if p.Slug == slug {
			return p, true, nil
		}
	}
	return domain.BlogPost{}, false, nil
}

func (m *MemoryStore) ListPublishedPosts(offset, limit int) ([]domain.BlogPost, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	published := make([]domain.BlogPost, 0)
	for _, p := range m.posts {
		if p.Status == domain.StatusPublished {
			published = append(published, p)
		}
	}
	sort.Slice(published, func(i, j int) bool {
		pi, pj := published[i].PublishedAt, published[j].PublishedAt
		if pi == nil || pj == nil {
			return pj == nil && pi != nil
		}
		return pi.After(*pj)
	})
	total := int64(len(published))
	return pageOf(published, offset, limit), total, nil
}

func (m *MemoryStore) ListAllPosts(offset, limit int) ([]domain.BlogPost, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]domain.BlogPost, 0, len(m.posts))
	for _, p := range m.posts {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return pageOf(all, offset, limit), int64(len(all)), nil
}

func (m *MemoryStore) SearchPublishedPosts(query string, limit int) ([]domain.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(query)
	matches := make([]domain.BlogPost, 0)
	for _, p := range m.posts {
		if p.Status != domain.StatusPublished {
			continue
		}
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Content), needle) {
			matches = append(matches, p)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		pi, pj := matches[i].PublishedAt, matches[j].PublishedAt
		if pi == nil || pj == nil {
			return pj == nil && pi != nil
		}
		return pi.After(*pj)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *MemoryStore) DeletePost(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

func (m *MemoryStore) SaveAuthor(a domain.Author) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authors[a.ID] = a
	return nil
}

func (m *MemoryStore) SaveTag(t domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[t.ID] = t
	return nil
}

func (m *MemoryStore) SaveCategory(c domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
	return nil
}

func (m *MemoryStore) ListTags() ([]domain.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tags := make([]domain.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (m *MemoryStore) ListCategories() ([]domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	categories := make([]domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *MemoryStore) GetTagsByIDs(ids []string) ([]domain.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tags := make([]domain.Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := m.tags[id]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (m *MemoryStore) GetCategoriesByIDs(ids []string) ([]domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	categories := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.categories[id]; ok {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func (m *MemoryStore) SaveCaseStudy(cs domain.CaseStudy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caseStudies[cs.ID] = cs
	return nil
}

func (m *MemoryStore) GetCaseStudyByID(id string) (domain.CaseStudy, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cs, ok := m.caseStudies[id]
	return cs, ok, nil
}

func (m *MemoryStore) GetCaseStudyBySlug(slug string) (domain.CaseStudy, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, cs := range m.caseStudies {
		if cs.Slug == slug {
			return cs, true, nil
		}
	}
	return domain.CaseStudy{}, false, nil
}

func (m *MemoryStore) ListCaseStudies() ([]domain.CaseStudy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	studies := make([]domain.CaseStudy, 0, len(m.caseStudies))
	for _, cs := range m.caseStudies {
		studies = append(studies, cs)
	}
	sort.Slice(studies, func(i, j int) bool {
		return studies[i].CreatedAt.After(studies[j].CreatedAt)
	})
	return studies, nil
}

func (m *MemoryStore) DeleteCaseStudy(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.caseStudies, id)
	return nil
}

func (m *MemoryStore) SaveLead(l domain.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[l.ID] = l
	return nil
}

func (m *MemoryStore) GetLeadByID(id string) (domain.Lead, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.leads[id]
	return l, ok, nil
}

func (m *MemoryStore) ListLeads(offset, limit int) ([]domain.Lead, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	leads := make([]domain.Lead, 0, len(m.leads))
	for _, l := range m.leads {
		leads = append(leads, l)
	}
	sort.Slice(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return pageOf(leads, offset, limit), int64(len(leads)), nil
}

func (m *MemoryStore) SaveSubscriber(s domain.Subscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers[s.Email] = s
	return nil
}

func (m *MemoryStore) GetSubscriberByEmail(email string) (domain.Subscriber, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subscribers[email]
	return s, ok, nil
}

func (m *MemoryStore) ListActiveSubscribers() ([]domain.Subscriber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	subs := make([]domain.Subscriber, 0, len(m.subscribers))
	for _, s := range m.subscribers {
		if s.UnsubscribedAt == nil {
			subs = append(subs, s)
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].SubscribedAt.After(subs[j].SubscribedAt)
	})
	return subs, nil
}

func (m *MemoryStore) SaveMediaAsset(a domain.MediaAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.media[a.ID] = a
	return nil
}

func (m *MemoryStore) GetMediaAssetByID(id string) (domain.MediaAsset, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.media[id]
	return a, ok, nil
}

func (m *MemoryStore) ListMediaAssets() ([]domain.MediaAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	assets := make([]domain.MediaAsset, 0, len(m.media))
	for _, a := range m.media {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].UploadedAt.After(assets[j].UploadedAt)
	})
	return assets, nil
}

func (m *MemoryStore) DeleteMediaAsset(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.media, id)
	return nil
}

func (m *MemoryStore) SaveEvent(e domain.AnalyticsEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *MemoryStore) ListEventsByType(eventType string, limit int) ([]domain.AnalyticsEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches := make([]domain.AnalyticsEvent, 0)
	for _, e := range m.events {
		if e.EventType == eventType {
			matches = append(matches, e)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *MemoryStore) EventCount() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.events)), nil
}

func (m *MemoryStore) EventTypeCounts() (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int64)
	for _, e := range m.events {
		counts[e.EventType]++
	}
	return counts, nil
}

func (m *MemoryStore) UpsertAdminUser(u domain.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.adminUsers[u.Email]; ok {
		existing.PasswordHash = u.PasswordHash
		existing.Role = u.Role
		m.adminUsers[u.Email] = existing
		return nil
	}
	m.adminUsers[u.Email] = u
	return nil
}

func (m *MemoryStore) GetAdminUserByEmail(email string) (domain.AdminUser, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.adminUsers[strings.ToLower(email)]
	return u, ok, nil
}

func (m *MemoryStore) GetAdminUserByID(id string) (domain.AdminUser, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.adminUsers {
		if u.ID == id {
			return u, true, nil
		}
	}
	return domain.AdminUser{}, false, nil
}

func pageOf[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
