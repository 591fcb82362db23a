package store

import "defnixsite/pkg/domain"

// Store is the persistence boundary for the CMS.
// Lookup methods return (value, found, error); found=false is not an error.
type Store interface {
	// Blog posts. SavePost replaces tag/category associations with whatever
	// the passed post carries.
	SavePost(p domain.BlogPost) error
	GetPostByID(id string) (domain.BlogPost, bool, error)
	GetPostBySlug(slug string) (domain.BlogPost, bool, error)
	ListPublishedPosts(offset, limit int) ([]domain.BlogPost, int64, error)
	ListAllPosts(offset, limit int) ([]domain.BlogPost, int64, error)
	SearchPublishedPosts(query string, limit int) ([]domain.BlogPost, error)
	DeletePost(id string) error

	SaveAuthor(a domain.Author) error
	SaveTag(t domain.Tag) error
	SaveCategory(c domain.Category) error
	ListTags() ([]domain.Tag, error)
	ListCategories() ([]domain.Category, error)
	GetTagsByIDs(ids []string) ([]domain.Tag, error)
	GetCategoriesByIDs(ids []string) ([]domain.Category, error)

	// Case studies.
	SaveCaseStudy(cs domain.CaseStudy) error
	GetCaseStudyByID(id string) (domain.CaseStudy, bool, error)
	GetCaseStudyBySlug(slug string) (domain.CaseStudy, bool, error)
	ListCaseStudies() ([]domain.CaseStudy, error)
	DeleteCaseStudy(id string) error

	// Leads.
	SaveLead(l domain.Lead) error
	GetLeadByID(id string) (domain.Lead, bool, error)
	ListLeads(offset, limit int) ([]domain.Lead, int64, error)

	// Newsletter subscribers.
	SaveSubscriber(s domain.Subscriber) error
	GetSubscriberByEmail(email string) (domain.Subscriber, bool, error)
	ListActiveSubscribers() ([]domain.Subscriber, error)

	// Media assets.
	SaveMediaAsset(m domain.MediaAsset) error
	GetMediaAssetByID(id string) (domain.MediaAsset, bool, error)
	ListMediaAssets() ([]domain.MediaAsset, error)
	DeleteMediaAsset(id string) error

	// Analytics events.
	SaveEvent(e domain.AnalyticsEvent) error
	ListEventsByType(eventType string, limit int) ([]domain.AnalyticsEvent, error)
	EventCount() (int64, error)
	EventTypeCounts() (map[string]int64, error)

	// Admin users.
	UpsertAdminUser(u domain.AdminUser) error
	GetAdminUserByEmail(email string) (domain.AdminUser, bool, error)
	GetAdminUserByID(id string) (domain.AdminUser, bool, error)
}
