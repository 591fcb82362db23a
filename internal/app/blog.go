package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"defnixsite/pkg/domain"
)

const (
	defaultPublicPageSize = 10
	defaultAdminPageSize  = 20
	searchResultCap       = 20
	maxPageSize           = 100
)

// CreatePostInput holds the fields accepted when creating a post.
type CreatePostInput struct {
	Title          string
	Content        string
	Excerpt        string
	CoverImage     string
	AuthorID       string
	Status         string
	SeoTitle       string
	SeoDescription string
	TagIDs         []string
	CategoryIDs    []string
}

// UpdatePostInput holds the fields accepted when updating a post.
// Nil pointers leave the corresponding field untouched; non-nil TagIDs
// and CategoryIDs replace the associations wholesale.
type UpdatePostInput struct {
	Title          *string
	Content        *string
	Excerpt        *string
	CoverImage     *string
	AuthorID       *string
	Status         *string
	SeoTitle       *string
	SeoDescription *string
	TagIDs         []string
	CategoryIDs    []string
}

// ListPublishedPosts returns a page of published posts, newest first.
func (a *App) ListPublishedPosts(page, limit int) ([]domain.BlogPost, int64, error) {
	offset, limit := normalizePage(page, limit, defaultPublicPageSize)
	return a.store.ListPublishedPosts(offset, limit)
}

// AdminListPosts returns a page of posts in every status, newest created first.
func (a *App) AdminListPosts(page, limit int) ([]domain.BlogPost, int64, error) {
	offset, limit := normalizePage(page, limit, defaultAdminPageSize)
	return a.store.ListAllPosts(offset, limit)
}

// GetPublishedPostBySlug returns a post for public consumption.
// Posts that exist but are not published behave as absent.
func (a *App) GetPublishedPostBySlug(slug string) (domain.BlogPost, error) {
	post, ok, err := a.store.GetPostBySlug(slug)
	if err != nil {
		return domain.BlogPost{}, fmt.Errorf("fetch post: %w", err)
	}
	if !ok || post.Status != domain.StatusPublished {
		return domain.BlogPost{}, ErrPostNotFound
	}
	return post, nil
}

// SearchPosts matches published posts whose title or content contains the
// query, case-insensitively, capped at 20 results.
func (a *App) SearchPosts(query string) ([]domain.BlogPost, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.BlogPost{}, nil
	}
	return a.store.SearchPublishedPosts(query, searchResultCap)
}

// CreatePost validates input, derives slug and reading time, and stores
// the post. publishedAt is set when the post is created already published.
func (a *App) CreatePost(in CreatePostInput) (domain.BlogPost, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(in.Content) == "" {
		fields["content"] = "content is required"
	}
	status := domain.StatusDraft
	if in.Status != "" {
		parsed, ok := domain.ParsePostStatus(in.Status)
		if !ok {
			fields["status"] = "status must be draft, published or archived"
		} else {
			status = parsed
		}
	}
	if err := validationError(fields); err != nil {
		return domain.BlogPost{}, err
	}

	now := time.Now().UTC()
	post := domain.BlogPost{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Slug:           Slugify(in.Title),
		Content:        in.Content,
		Excerpt:        in.Excerpt,
		CoverImage:     in.CoverImage,
		AuthorID:       in.AuthorID,
		Status:         status,
		ReadingTime:    ReadingTime(in.Content),
		SeoTitle:       in.SeoTitle,
		SeoDescription: in.SeoDescription,
		Tags:           []domain.Tag{},
		Categories:     []domain.Category{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if status == domain.StatusPublished {
		post.PublishedAt = &now
	}
	if err := a.attachAssociations(&post, in.TagIDs, in.CategoryIDs); err != nil {
		return domain.BlogPost{}, err
	}
	if err := a.store.SavePost(post); err != nil {
		return domain.BlogPost{}, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

// UpdatePost applies a partial update. The slug follows title changes,
// reading time follows content changes, and publishedAt is set exactly
// once, on the first transition to published.
func (a *App) UpdatePost(id string, in UpdatePostInput) (domain.BlogPost, error) {
	post, ok, err := a.store.GetPostByID(id)
	if err != nil {
		return domain.BlogPost{}, fmt.Errorf("fetch post: %w", err)
	}
	if !ok {
		return domain.BlogPost{}, ErrPostNotFound
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		post.Title = *in.Title
		post.Slug = Slugify(*in.Title)
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) != "" {
		post.Content = *in.Content
		post.ReadingTime = ReadingTime(*in.Content)
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.CoverImage != nil {
		post.CoverImage = *in.CoverImage
	}
	if in.AuthorID != nil {
		post.AuthorID = *in.AuthorID
	}
	if in.SeoTitle != nil {
		post.SeoTitle = *in.SeoTitle
	}
	if in.SeoDescription != nil {
		post.SeoDescription = *in.SeoDescription
	}
	if in.Status != nil {
		status, okStatus := domain.ParsePostStatus(*in.Status)
		if !okStatus {
			return domain.BlogPost{}, validationError(map[string]string{
				"status": "status must be draft, published or archived",
			})
		}
		if status == domain.StatusPublished && post.PublishedAt == nil {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
		post.Status = status
	}
	if in.TagIDs != nil || in.CategoryIDs != nil {
		tagIDs := in.TagIDs
		catIDs := in.CategoryIDs
		if tagIDs == nil {
			tagIDs = idsOf(post.Tags)
		}
		if catIDs == nil {
			catIDs = categoryIDsOf(post.Categories)
		}
		if err := a.attachAssociations(&post, tagIDs, catIDs); err != nil {
			return domain.BlogPost{}, err
		}
	}
	post.UpdatedAt = time.Now().UTC()

	if err := a.store.SavePost(post); err != nil {
		return domain.BlogPost{}, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post.
func (a *App) DeletePost(id string) error {
	_, ok, err := a.store.GetPostByID(id)
	if err != nil {
		return fmt.Errorf("fetch post: %w", err)
	}
	if !ok {
		return ErrPostNotFound
	}
	return a.store.DeletePost(id)
}

// ListTags returns all tags ordered by name.
func (a *App) ListTags() ([]domain.Tag, error) {
	return a.store.ListTags()
}

// ListCategories returns all categories ordered by name.
func (a *App) ListCategories() ([]domain.Category, error) {
	return a.store.ListCategories()
}

// CreateTag stores a tag with a slug derived from its name.
func (a *App) CreateTag(name string) (domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tag{}, validationError(map[string]string{"name": "name is required"})
	}
	tag := domain.Tag{ID: uuid.NewString(), Name: name, Slug: Slugify(name)}
	if err := a.store.SaveTag(tag); err != nil {
		return domain.Tag{}, fmt.Errorf("save tag: %w", err)
	}
	return tag, nil
}

// CreateCategory stores a category with a slug derived from its name.
func (a *App) CreateCategory(name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, validationError(map[string]string{"name": "name is required"})
	}
	category := domain.Category{ID: uuid.NewString(), Name: name, Slug: Slugify(name)}
	if err := a.store.SaveCategory(category); err != nil {
		return domain.Category{}, fmt.Errorf("save category: %w", err)
	}
	return category, nil
}

func (a *App) attachAssociations(post *domain.BlogPost, tagIDs, categoryIDs []string) error {
	tags, err := a.store.GetTagsByIDs(tagIDs)
	if err != nil {
		return fmt.Errorf("fetch tags: %w", err)
	}
	categories, err := a.store.GetCategoriesByIDs(categoryIDs)
	if err != nil {
		return fmt.Errorf("fetch categories: %w", err)
	}
	post.Tags = tags
	post.Categories = categories
	return nil
}

func idsOf(tags []domain.Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func categoryIDsOf(categories []domain.Category) []string {
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func normalizePage(page, limit, defaultLimit int) (offset, normalized int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return (page - 1) * limit, limit
}
