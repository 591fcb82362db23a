package store

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"defnixsite/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&AuthorModel{},
		&TagModel{},
		&CategoryModel{},
		&BlogPostModel{},
		&CaseStudyModel{},
		&LeadModel{},
		&SubscriberModel{},
		&MediaAssetModel{},
		&AnalyticsEventModel{},
		&AdminUserModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SavePost upserts a post and replaces its tag/category associations.
func (s *GormStore) SavePost(p domain.BlogPost) error {
	model := postToModel(p)
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "slug", "content", "excerpt", "cover_image", "author_id",
				"status", "reading_time", "seo_title", "seo_description",
				"published_at", "updated_at",
			}),
		}).Create(&model).Error; err != nil {
			return err
		}
		anchor := BlogPostModel{ID: model.ID}
		tags := model.Tags
		if tags == nil {
			tags = []TagModel{}
		}
		if err := tx.Model(&anchor).Association("Tags").Replace(&tags); err != nil {
			return err
		}
		categories := model.Categories
		if categories == nil {
			categories = []CategoryModel{}
		}
		return tx.Model(&anchor).Association("Categories").Replace(&categories)
	})
}

// GetPostByID returns a post with author, tags and categories loaded.
func (s *GormStore) GetPostByID(id string) (domain.BlogPost, bool, error) {
	var model BlogPostModel
	err := s.db.Preload("Author").Preload("Tags").Preload("Categories").
		First(&model, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.BlogPost{}, false, nil
		}
		return domain.BlogPost{}, false, err
	}
	return postFromModel(model), true, nil
}

// GetPostBySlug returns a post with author, tags and categories loaded.
func (s *GormStore) GetPostBySlug(slug string) (domain.BlogPost, bool, error) {
	var model BlogPostModel
	err := s.db.Preload("Author").Preload("Tags").Preload("Categories").
		First(&model, "slug = ?", slug).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.BlogPost{}, false, nil
		}
		return domain.BlogPost{}, false, err
	}
	return postFromModel(model), true, nil
}

// ListPublishedPosts returns a page of published posts, newest first.
func (s *GormStore) ListPublishedPosts(offset, limit int) ([]domain.BlogPost, int64, error) {
	return s.listPosts(offset, limit, "published_at DESC", "status = ?", string(domain.StatusPublished))
}

// ListAllPosts returns a page of posts of any status, newest created first.
func (s *GormStore) ListAllPosts(offset, limit int) ([]domain.BlogPost, int64, error) {
	return s.listPosts(offset, limit, "created_at DESC")
}

func (s *GormStore) listPosts(offset, limit int, order string, conds ...any) ([]domain.BlogPost, int64, error) {
	tx := s.db.Model(&BlogPostModel{})
	if len(conds) > 0 {
		tx = tx.Where(conds[0], conds[1:]...)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []BlogPostModel
	if err := tx.Preload("Author").Order(order).Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	posts := make([]domain.BlogPost, 0, len(models))
	for _, m := range models {
		posts = append(posts, postFromModel(m))
	}
	return posts, total, nil
}

// SearchPublishedPosts matches the query against title and content,
// case-insensitively, across published posts only.
func (s *GormStore) SearchPublishedPosts(query string, limit int) ([]domain.BlogPost, error) {
	pattern := "%" + query + "%"
	var models []BlogPostModel
	err := s.db.Preload("Author").
		Where("status = ? AND (title ILIKE ? OR content ILIKE ?)",
			string(domain.StatusPublished), pattern, pattern).
		Order("published_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	posts := make([]domain.BlogPost, 0, len(models))
	for _, m := range models {
		posts = append(posts, postFromModel(m))
	}
	return posts, nil
}

// DeletePost removes a post and its join-table rows.
func (s *GormStore) DeletePost(id string) error {
	return s.db.Select(clause.Associations).Delete(&BlogPostModel{ID: id}).Error
}

// SaveAuthor upserts an author.
func (s *GormStore) SaveAuthor(a domain.Author) error {
	model := authorToModel(a)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "bio", "avatar_url"}),
	}).Create(&model).Error
}

// SaveTag upserts a tag.
func (s *GormStore) SaveTag(t domain.Tag) error {
	model := tagToModel(t)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&model).Error
}

// SaveCategory upserts a category.
func (s *GormStore) SaveCategory(c domain.Category) error {
	model := categoryToModel(c)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&model).Error
}

// ListTags returns all tags ordered by name.
func (s *GormStore) ListTags() ([]domain.Tag, error) {
	var models []TagModel
	if err := s.db.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	tags := make([]domain.Tag, 0, len(models))
	for _, m := range models {
		tags = append(tags, tagFromModel(m))
	}
	return tags, nil
}

// ListCategories returns all categories ordered by name.
func (s *GormStore) ListCategories() ([]domain.Category, error) {
	var models []CategoryModel
	if err := s.db.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(models))
	for _, m := range models {
		categories = append(categories, categoryFromModel(m))
	}
	return categories, nil
}

// GetTagsByIDs batch-fetches tags; missing ids are silently skipped.
func (s *GormStore) GetTagsByIDs(ids []string) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	var models []TagModel
	if err := s.db.Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	tags := make([]domain.Tag, 0, len(models))
	for _, m := range models {
		tags = append(tags, tagFromModel(m))
	}
	return tags, nil
}

// GetCategoriesByIDs batch-fetches categories; missing ids are silently skipped.
func (s *GormStore) GetCategoriesByIDs(ids []string) ([]domain.Category, error) {
	if len(ids) == 0 {
		return []domain.Category{}, nil
	}
	var models []CategoryModel
	if err := s.db.Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(models))
	for _, m := range models {
		categories = append(categories, categoryFromModel(m))
	}
	return categories, nil
}

// SaveCaseStudy upserts a case study.
func (s *GormStore) SaveCaseStudy(cs domain.CaseStudy) error {
	model := caseStudyToModel(cs)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "slug", "client", "industry", "challenge", "solution",
			"results", "cover_image", "published_at",
		}),
	}).Create(&model).Error
}

// GetCaseStudyByID returns a case study by id.
func (s *GormStore) GetCaseStudyByID(id string) (domain.CaseStudy, bool, error) {
	var model CaseStudyModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.CaseStudy{}, false, nil
		}
		return domain.CaseStudy{}, false, err
	}
	return caseStudyFromModel(model), true, nil
}

// GetCaseStudyBySlug returns a case study by slug.
func (s *GormStore) GetCaseStudyBySlug(slug string) (domain.CaseStudy, bool, error) {
	var model CaseStudyModel
	if err := s.db.First(&model, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.CaseStudy{}, false, nil
		}
		return domain.CaseStudy{}, false, err
	}
	return caseStudyFromModel(model), true, nil
}

// ListCaseStudies returns all case studies, newest first.
func (s *GormStore) ListCaseStudies() ([]domain.CaseStudy, error) {
	var models []CaseStudyModel
	if err := s.db.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	studies := make([]domain.CaseStudy, 0, len(models))
	for _, m := range models {
		studies = append(studies, caseStudyFromModel(m))
	}
	return studies, nil
}

// DeleteCaseStudy removes a case study.
func (s *GormStore) DeleteCaseStudy(id string) error {
	return s.db.Delete(&CaseStudyModel{}, "id = ?", id).Error
}

// SaveLead upserts a lead.
func (s *GormStore) SaveLead(l domain.Lead) error {
	model := leadToModel(l)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status"}),
	}).Create(&model).Error
}

// GetLeadByID returns a lead by id.
func (s *GormStore) GetLeadByID(id string) (domain.Lead, bool, error) {
	var model LeadModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Lead{}, false, nil
		}
		return domain.Lead{}, false, err
	}
	return leadFromModel(model), true, nil
}

// ListLeads returns a page of leads, newest first, with the total count.
func (s *GormStore) ListLeads(offset, limit int) ([]domain.Lead, int64, error) {
	var total int64
	if err := s.db.Model(&LeadModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []LeadModel
	if err := s.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	leads := make([]domain.Lead, 0, len(models))
	for _, m := range models {
		leads = append(leads, leadFromModel(m))
	}
	return leads, total, nil
}

// SaveSubscriber upserts a subscriber row by id.
func (s *GormStore) SaveSubscriber(sub domain.Subscriber) error {
	model := subscriberToModel(sub)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"subscribed_at", "unsubscribed_at"}),
	}).Create(&model).Error
}

// GetSubscriberByEmail looks up a subscriber by email, active or not.
func (s *GormStore) GetSubscriberByEmail(email string) (domain.Subscriber, bool, error) {
	var model SubscriberModel
	if err := s.db.First(&model, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Subscriber{}, false, nil
		}
		return domain.Subscriber{}, false, err
	}
	return subscriberFromModel(model), true, nil
}

// ListActiveSubscribers returns subscribers without an unsubscribed timestamp.
func (s *GormStore) ListActiveSubscribers() ([]domain.Subscriber, error) {
	var models []SubscriberModel
	err := s.db.Where("unsubscribed_at IS NULL").Order("subscribed_at DESC").Find(&models).Error
	if err != nil {
		return nil, err
	}
	subs := make([]domain.Subscriber, 0, len(models))
	for _, m := range models {
		subs = append(subs, subscriberFromModel(m))
	}
	return subs, nil
}

// SaveMediaAsset stores an uploaded asset's metadata.
func (s *GormStore) SaveMediaAsset(a domain.MediaAsset) error {
	model := mediaToModel(a)
	return s.db.Create(&model).Error
}

// GetMediaAssetByID returns an asset by id.
func (s *GormStore) GetMediaAssetByID(id string) (domain.MediaAsset, bool, error) {
	var model MediaAssetModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.MediaAsset{}, false, nil
		}
		return domain.MediaAsset{}, false, err
	}
	return mediaFromModel(model), true, nil
}

// ListMediaAssets returns all assets, newest upload first.
func (s *GormStore) ListMediaAssets() ([]domain.MediaAsset, error) {
	var models []MediaAssetModel
	if err := s.db.Order("uploaded_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	assets := make([]domain.MediaAsset, 0, len(models))
	for _, m := range models {
		assets = append(assets, mediaFromModel(m))
	}
	return assets, nil
}

// DeleteMediaAsset removes an asset record.
func (s *GormStore) DeleteMediaAsset(id string) error {
	return s.db.Delete(&MediaAssetModel{}, "id = ?", id).Error
}

// SaveEvent records an analytics event.
func (s *GormStore) SaveEvent(e domain.AnalyticsEvent) error {
	model, err := eventToModel(e)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return s.db.Create(&model).Error
}

// ListEventsByType returns the most recent events of one type.
func (s *GormStore) ListEventsByType(eventType string, limit int) ([]domain.AnalyticsEvent, error) {
	var models []AnalyticsEventModel
	err := s.db.Where("event_type = ?", eventType).
		Order("created_at DESC").Limit(limit).Find(&models).Error
	if err != nil {
		return nil, err
	}
	events := make([]domain.AnalyticsEvent, 0, len(models))
	for _, m := range models {
		events = append(events, eventFromModel(m))
	}
	return events, nil
}

// EventCount returns the total number of recorded events.
func (s *GormStore) EventCount() (int64, error) {
	var count int64
	if err := s.db.Model(&AnalyticsEventModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// EventTypeCounts returns per-type event counts via grouped aggregation.
func (s *GormStore) EventTypeCounts() (map[string]int64, error) {
	var rows []struct {
		EventType string
		Count     int64
	}
	err := s.db.Model(&AnalyticsEventModel{}).
		Select("event_type, COUNT(*) as count").
		Group("event_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.EventType] = row.Count
	}
	return counts, nil
}

// UpsertAdminUser inserts or updates an admin user keyed by email.
func (s *GormStore) UpsertAdminUser(u domain.AdminUser) error {
	model := adminUserToModel(u)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role"}),
	}).Create(&model).Error
}

// GetAdminUserByEmail looks up an admin user by email.
func (s *GormStore) GetAdminUserByEmail(email string) (domain.AdminUser, bool, error) {
	var model AdminUserModel
	if err := s.db.First(&model, "email = ?", strings.ToLower(email)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.AdminUser{}, false, nil
		}
		return domain.AdminUser{}, false, err
	}
	return adminUserFromModel(model), true, nil
}

// GetAdminUserByID returns an admin user by id.
func (s *GormStore) GetAdminUserByID(id string) (domain.AdminUser, bool, error) {
	var model AdminUserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.AdminUser{}, false, nil
		}
		return domain.AdminUser{}, false, err
	}
	return adminUserFromModel(model), true, nil
}
