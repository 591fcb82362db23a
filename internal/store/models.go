package store

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"defnixsite/pkg/domain"
)

// GORM models used for persistence.
type AuthorModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Bio       string
	AvatarURL string
}

func (AuthorModel) TableName() string { return "authors" }

type TagModel struct {
	ID   string `gorm:"primaryKey"`
	Name string `gorm:"not null"`
	Slug string `gorm:"uniqueIndex;not null"`
}

func (TagModel) TableName() string { return "tags" }

type CategoryModel struct {
	ID   string `gorm:"primaryKey"`
	Name string `gorm:"not null"`
	Slug string `gorm:"uniqueIndex;not null"`
}

func (CategoryModel) TableName() string { return "categories" }

type BlogPostModel struct {
	ID             string `gorm:"primaryKey"`
	Title          string `gorm:"not null"`
	Slug           string `gorm:"uniqueIndex;not null"`
	Content        string `gorm:"type:text;not null"`
	Excerpt        string `gorm:"type:text"`
	CoverImage     string
	AuthorID       string       `gorm:"index"`
	Author         *AuthorModel `gorm:"foreignKey:AuthorID"`
	Status         string       `gorm:"not null;index"`
	ReadingTime    int          `gorm:"not null;default:0"`
	SeoTitle       string
	SeoDescription string
	Tags           []TagModel      `gorm:"many2many:post_tags"`
	Categories     []CategoryModel `gorm:"many2many:post_categories"`
	PublishedAt    *time.Time      `gorm:"index"`
	CreatedAt      time.Time       `gorm:"not null;index"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

func (BlogPostModel) TableName() string { return "blog_posts" }

type CaseStudyModel struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Client      string
	Industry    string
	Challenge   string `gorm:"type:text"`
	Solution    string `gorm:"type:text"`
	Results     string `gorm:"type:text"`
	CoverImage  string
	PublishedAt *time.Time
	CreatedAt   time.Time `gorm:"not null;index"`
}

func (CaseStudyModel) TableName() string { return "case_studies" }

type LeadModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Company   string
	Message   string `gorm:"type:text;not null"`
	Source    string
	Status    string    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (LeadModel) TableName() string { return "leads" }

type SubscriberModel struct {
	ID             string    `gorm:"primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	SubscribedAt   time.Time `gorm:"not null"`
	UnsubscribedAt *time.Time
}

func (SubscriberModel) TableName() string { return "newsletter_subscribers" }

type MediaAssetModel struct {
	ID         string `gorm:"primaryKey"`
	Filename   string `gorm:"not null"`
	URL        string `gorm:"not null"`
	MimeType   string
	Size       int64
	UploadedAt time.Time `gorm:"not null;index"`
}

func (MediaAssetModel) TableName() string { return "media_assets" }

type AnalyticsEventModel struct {
	ID        string         `gorm:"primaryKey"`
	EventType string         `gorm:"not null;index"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	SessionID string
	UserAgent string
	IPAddress string
	CreatedAt time.Time `gorm:"not null;index"`
}

func (AnalyticsEventModel) TableName() string { return "analytics_events" }

type AdminUserModel struct {
	ID           string    `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (AdminUserModel) TableName() string { return "admin_users" }

func authorToModel(a domain.Author) AuthorModel {
	return AuthorModel{ID: a.ID, Name: a.Name, Bio: a.Bio, AvatarURL: a.AvatarURL}
}

func authorFromModel(m AuthorModel) domain.Author {
	return domain.Author{ID: m.ID, Name: m.Name, Bio: m.Bio, AvatarURL: m.AvatarURL}
}

func tagToModel(t domain.Tag) TagModel {
	return TagModel{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func tagFromModel(m TagModel) domain.Tag {
	return domain.Tag{ID: m.ID, Name: m.Name, Slug: m.Slug}
}

func categoryToModel(c domain.Category) CategoryModel {
	return CategoryModel{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func categoryFromModel(m CategoryModel) domain.Category {
	return domain.Category{ID: m.ID, Name: m.Name, Slug: m.Slug}
}

func postToModel(p domain.BlogPost) BlogPostModel {
	m := BlogPostModel{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Content:        p.Content,
		Excerpt:        p.Excerpt,
		CoverImage:     p.CoverImage,
		AuthorID:       p.AuthorID,
		Status:         string(p.Status),
		ReadingTime:    p.ReadingTime,
		SeoTitle:       p.SeoTitle,
		SeoDescription: p.SeoDescription,
		PublishedAt:    p.PublishedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, t := range p.Tags {
		m.Tags = append(m.Tags, tagToModel(t))
	}
	for _, c := range p.Categories {
		m.Categories = append(m.Categories, categoryToModel(c))
	}
	return m
}

func postFromModel(m BlogPostModel) domain.BlogPost {
	p := domain.BlogPost{
		ID:             m.ID,
		Title:          m.Title,
		Slug:           m.Slug,
		Content:        m.Content,
		Excerpt:        m.Excerpt,
		CoverImage:     m.CoverImage,
		AuthorID:       m.AuthorID,
		Status:         domain.PostStatus(m.Status),
		ReadingTime:    m.ReadingTime,
		SeoTitle:       m.SeoTitle,
		SeoDescription: m.SeoDescription,
		Tags:           []domain.Tag{},
		Categories:     []domain.Category{},
		PublishedAt:    m.PublishedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Author != nil {
		author := authorFromModel(*m.Author)
		p.Author = &author
	}
	for _, t := range m.Tags {
		p.Tags = append(p.Tags, tagFromModel(t))
	}
	for _, c := range m.Categories {
		p.Categories = append(p.Categories, categoryFromModel(c))
	}
	return p
}

func caseStudyToModel(cs domain.CaseStudy) CaseStudyModel {
	return CaseStudyModel{
		ID:          cs.ID,
		Title:       cs.Title,
		Slug:        cs.Slug,
		Client:      cs.Client,
		Industry:    cs.Industry,
		Challenge:   cs.Challenge,
		Solution:    cs.Solution,
		Results:     cs.Results,
		CoverImage:  cs.CoverImage,
		PublishedAt: cs.PublishedAt,
		CreatedAt:   cs.CreatedAt,
	}
}

func caseStudyFromModel(m CaseStudyModel) domain.CaseStudy {
	return domain.CaseStudy{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Client:      m.Client,
		Industry:    m.Industry,
		Challenge:   m.Challenge,
		Solution:    m.Solution,
		Results:     m.Results,
		CoverImage:  m.CoverImage,
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt,
	}
}

func leadToModel(l domain.Lead) LeadModel {
	return LeadModel{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Company:   l.Company,
		Message:   l.Message,
		Source:    l.Source,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
	}
}

func leadFromModel(m LeadModel) domain.Lead {
	return domain.Lead{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Company:   m.Company,
		Message:   m.Message,
		Source:    m.Source,
		Status:    domain.LeadStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

func subscriberToModel(s domain.Subscriber) SubscriberModel {
	return SubscriberModel{
		ID:             s.ID,
		Email:          s.Email,
		SubscribedAt:   s.SubscribedAt,
		UnsubscribedAt: s.UnsubscribedAt,
	}
}

func subscriberFromModel(m SubscriberModel) domain.Subscriber {
	return domain.Subscriber{
		ID:             m.ID,
		Email:          m.Email,
		SubscribedAt:   m.SubscribedAt,
		UnsubscribedAt: m.UnsubscribedAt,
	}
}

func mediaToModel(a domain.MediaAsset) MediaAssetModel {
	return MediaAssetModel{
		ID:         a.ID,
		Filename:   a.Filename,
		URL:        a.URL,
		MimeType:   a.MimeType,
		Size:       a.Size,
		UploadedAt: a.UploadedAt,
	}
}

func mediaFromModel(m MediaAssetModel) domain.MediaAsset {
	return domain.MediaAsset{
		ID:         m.ID,
		Filename:   m.Filename,
		URL:        m.URL,
		MimeType:   m.MimeType,
		Size:       m.Size,
		UploadedAt: m.UploadedAt,
	}
}

func eventToModel(e domain.AnalyticsEvent) (AnalyticsEventModel, error) {
	m := AnalyticsEventModel{
		ID:        e.ID,
		EventType: e.EventType,
		SessionID: e.SessionID,
		UserAgent: e.UserAgent,
		IPAddress: e.IPAddress,
		CreatedAt: e.CreatedAt,
	}
	if e.Payload != nil {
		raw, err := json.Marshal(e.Payload)
		if err != nil {
			return m, err
		}
		m.Payload = datatypes.JSON(raw)
	}
	return m, nil
}

func eventFromModel(m AnalyticsEventModel) domain.AnalyticsEvent {
	e := domain.AnalyticsEvent{
		ID:        m.ID,
		EventType: m.EventType,
		SessionID: m.SessionID,
		UserAgent: m.UserAgent,
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt,
	}
	if len(m.Payload) > 0 {
		payload := map[string]any{}
		if err := json.Unmarshal(m.Payload, &payload); err == nil {
			e.Payload = payload
		}
	}
	return e
}

func adminUserToModel(u domain.AdminUser) AdminUserModel {
	return AdminUserModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

func adminUserFromModel(m AdminUserModel) domain.AdminUser {
	return domain.AdminUser{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
	}
}
