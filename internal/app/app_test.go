package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"defnixsite/internal/storage"
	"defnixsite/internal/store"
	"defnixsite/pkg/auth"
	"defnixsite/pkg/domain"
)

func newTestApp(t *testing.T) (*App, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	objects, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	a, err := New(Config{
		Store:     mem,
		Objects:   objects,
		JWTSecret: "test-secret",
		SiteURL:   "https://defnix.com/",
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, mem
}

func seedAdmin(t *testing.T, mem *store.MemoryStore) domain.AdminUser {
	t.Helper()
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := domain.AdminUser{
		ID:           "admin-1",
		Email:        "admin@defnix.com",
		PasswordHash: hash,
		Role:         "admin",
		CreatedAt:    time.Now().UTC(),
	}
	if err := mem.UpsertAdminUser(user); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return user
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	a, mem := newTestApp(t)
	seedAdmin(t, mem)

	token, user, err := a.Login("Admin@Defnix.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "admin@defnix.com" {
		t.Errorf("user email = %q", user.Email)
	}
	got, ok := a.UserFromToken(token)
	if !ok {
		t.Fatal("token did not verify")
	}
	if got.ID != "admin-1" {
		t.Errorf("token resolved user %q", got.ID)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	a, mem := newTestApp(t)
	seedAdmin(t, mem)

	_, _, unknownErr := a.Login("nobody@defnix.com", "whatever")
	_, _, wrongErr := a.Login("admin@defnix.com", "wrong password")
	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v / %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("error messages differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestUserFromTokenFailsClosedForDeletedUser(t *testing.T) {
	a, mem := newTestApp(t)
	seedAdmin(t, mem)
	token, _, err := a.Login("admin@defnix.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fresh := store.NewMemoryStore()
	a.store = fresh
	if _, ok := a.UserFromToken(token); ok {
		t.Fatal("token for a deleted user should not verify")
	}
}

func TestCreatePostDerivesSlugAndReadingTime(t *testing.T) {
	a, _ := newTestApp(t)

	content := strings.Repeat("compliance ", 450)
	post, err := a.CreatePost(CreatePostInput{
		Title:   "Why SOC 2 Audits Fail!",
		Content: content,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.Slug != "why-soc-2-audits-fail" {
		t.Errorf("slug = %q", post.Slug)
	}
	if post.ReadingTime != 3 {
		t.Errorf("readingTime = %d, want 3", post.ReadingTime)
	}
	if post.Status != domain.StatusDraft {
		t.Errorf("status = %q, want draft", post.Status)
	}
	if post.PublishedAt != nil {
		t.Error("draft post should not carry publishedAt")
	}
}

func TestCreatePostValidation(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := a.CreatePost(CreatePostInput{Title: " ", Content: ""})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["title"]; !ok {
		t.Error("missing title field error")
	}
	if _, ok := verr.Fields["content"]; !ok {
		t.Error("missing content field error")
	}

	_, err = a.CreatePost(CreatePostInput{Title: "x", Content: "y", Status: "bogus"})
	if !errors.As(err, &verr) {
		t.Fatalf("expected status validation error, got %v", err)
	}
}

func TestPublishedAtSetExactlyOnce(t *testing.T) {
	a, _ := newTestApp(t)

	post, err := a.CreatePost(CreatePostInput{Title: "Draft First", Content: "body"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	published := "published"
	updated, err := a.UpdatePost(post.ID, UpdatePostInput{Status: &published})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if updated.PublishedAt == nil {
		t.Fatal("publishedAt not set on first publish")
	}
	first := *updated.PublishedAt

	draft := "draft"
	if _, err := a.UpdatePost(post.ID, UpdatePostInput{Status: &draft}); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	again, err := a.UpdatePost(post.ID, UpdatePostInput{Status: &published})
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(first) {
		t.Errorf("publishedAt changed on republish: %v vs %v", again.PublishedAt, first)
	}
}

func TestUpdatePostReplacesAssociationsWholesale(t *testing.T) {
	a, mem := newTestApp(t)
	for _, tag := range []domain.Tag{
		{ID: "t1", Name: "SOC 2", Slug: "soc-2"},
		{ID: "t2", Name: "Cloud", Slug: "cloud"},
	} {
		if err := mem.SaveTag(tag); err != nil {
			t.Fatalf("seed tag: %v", err)
		}
	}

	post, err := a.CreatePost(CreatePostInput{
		Title:   "Tagged",
		Content: "body",
		TagIDs:  []string{"t1"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(post.Tags) != 1 || post.Tags[0].ID != "t1" {
		t.Fatalf("initial tags = %+v", post.Tags)
	}

	updated, err := a.UpdatePost(post.ID, UpdatePostInput{TagIDs: []string{"t2"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Tags) != 1 || updated.Tags[0].ID != "t2" {
		t.Errorf("tags after replace = %+v", updated.Tags)
	}

	cleared, err := a.UpdatePost(post.ID, UpdatePostInput{TagIDs: []string{}})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(cleared.Tags) != 0 {
		t.Errorf("tags after clearing = %+v", cleared.Tags)
	}
}

func TestGetPublishedPostBySlugHidesDrafts(t *testing.T) {
	a, _ := newTestApp(t)

	if _, err := a.CreatePost(CreatePostInput{Title: "Hidden Draft", Content: "body"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := a.GetPublishedPostBySlug("hidden-draft"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("draft visible via public slug lookup: %v", err)
	}

	if _, err := a.CreatePost(CreatePostInput{Title: "Live Post", Content: "body", Status: "published"}); err != nil {
		t.Fatalf("create published: %v", err)
	}
	post, err := a.GetPublishedPostBySlug("live-post")
	if err != nil {
		t.Fatalf("published lookup: %v", err)
	}
	if post.Title != "Live Post" {
		t.Errorf("title = %q", post.Title)
	}
}

func TestSearchPostsOnlyMatchesPublished(t *testing.T) {
	a, _ := newTestApp(t)

	if _, err := a.CreatePost(CreatePostInput{Title: "Zero Trust Draft", Content: "zero trust body"}); err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := a.CreatePost(CreatePostInput{Title: "Zero Trust Rollout", Content: "how we did it", Status: "published"}); err != nil {
		t.Fatalf("create published: %v", err)
	}

	results, err := a.SearchPosts("zero trust")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "zero-trust-rollout" {
		t.Errorf("results = %+v", results)
	}

	empty, err := a.SearchPosts("   ")
	if err != nil || len(empty) != 0 {
		t.Errorf("blank query: %v, %d results", err, len(empty))
	}
}

func TestSubscribeReactivatesAndConflicts(t *testing.T) {
	a, _ := newTestApp(t)

	first, err := a.Subscribe("Reader@Example.com")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if first.Email != "reader@example.com" {
		t.Errorf("email not normalized: %q", first.Email)
	}

	if _, err := a.Subscribe("reader@example.com"); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("duplicate subscribe: %v", err)
	}

	if err := a.Unsubscribe("reader@example.com"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	// Idempotent for unknown and already unsubscribed addresses.
	if err := a.Unsubscribe("reader@example.com"); err != nil {
		t.Fatalf("second unsubscribe: %v", err)
	}
	if err := a.Unsubscribe("stranger@example.com"); err != nil {
		t.Fatalf("unknown unsubscribe: %v", err)
	}

	revived, err := a.Subscribe("reader@example.com")
	if err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if revived.ID != first.ID {
		t.Errorf("resubscribe created a new record: %q vs %q", revived.ID, first.ID)
	}
	if revived.UnsubscribedAt != nil {
		t.Error("resubscribed address still marked unsubscribed")
	}

	active, err := a.ListActiveSubscribers()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("active subscribers = %d, want 1", len(active))
	}
}

func TestLeadLifecycle(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := a.CreateLead(CreateLeadInput{Name: "", Email: "bad", Message: "short"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"name", "email", "message"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("missing %s field error", field)
		}
	}

	lead, err := a.CreateLead(CreateLeadInput{
		Name:    "Dana",
		Email:   "Dana@Corp.Example",
		Message: "We need help preparing for our first SOC 2 audit.",
	})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if lead.Status != domain.LeadNew {
		t.Errorf("status = %q, want new", lead.Status)
	}
	if lead.Source != "website" {
		t.Errorf("source = %q, want website", lead.Source)
	}
	if lead.Email != "dana@corp.example" {
		t.Errorf("email not normalized: %q", lead.Email)
	}

	if _, err := a.UpdateLeadStatus(lead.ID, "escalated"); err == nil {
		t.Fatal("unknown status accepted")
	}
	moved, err := a.UpdateLeadStatus(lead.ID, "contacted")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if moved.Status != domain.LeadContacted {
		t.Errorf("status = %q, want contacted", moved.Status)
	}
	if _, err := a.UpdateLeadStatus("missing", "contacted"); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("missing lead: %v", err)
	}
}

func TestCaseStudyPublishTimestamps(t *testing.T) {
	a, _ := newTestApp(t)

	cs, err := a.CreateCaseStudy(CaseStudyInput{
		Title:     "Fintech SOC 2 in 90 Days",
		Challenge: "No compliance program.",
		Solution:  "Automated evidence collection.",
		Results:   "Clean report, zero exceptions.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cs.Slug != "fintech-soc-2-in-90-days" {
		t.Errorf("slug = %q", cs.Slug)
	}
	if cs.PublishedAt != nil {
		t.Error("unpublished study carries publishedAt")
	}

	yes, no := true, false
	published, err := a.UpdateCaseStudy(cs.ID, CaseStudyInput{Published: &yes})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("publishedAt not set")
	}
	unpublished, err := a.UpdateCaseStudy(cs.ID, CaseStudyInput{Published: &no})
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if unpublished.PublishedAt != nil {
		t.Error("publishedAt not cleared on unpublish")
	}
}

func TestMediaUpload(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	body := strings.NewReader("fake png bytes")
	asset, err := a.UploadMedia(ctx, "logo.PNG", "image/png", int64(body.Len()), body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if asset.Filename != "logo.PNG" {
		t.Errorf("filename = %q", asset.Filename)
	}
	if !strings.HasSuffix(asset.ID, ".png") {
		t.Errorf("stored key %q should keep the extension", asset.ID)
	}
	if !strings.HasPrefix(asset.URL, "/uploads/") {
		t.Errorf("url = %q", asset.URL)
	}

	if _, err := a.UploadMedia(ctx, "evil.exe", "application/x-msdownload", 10, strings.NewReader("0123456789")); err == nil {
		t.Fatal("executable upload accepted")
	}
	if _, err := a.UploadMedia(ctx, "huge.png", "image/png", a.MaxUploadBytes()+1, strings.NewReader("x")); err == nil {
		t.Fatal("oversized upload accepted")
	}

	assets, err := a.ListMedia()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("assets = %d, want 1", len(assets))
	}

	if err := a.DeleteMedia(ctx, asset.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := a.DeleteMedia(ctx, asset.ID); !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestAnalytics(t *testing.T) {
	a, _ := newTestApp(t)

	if _, err := a.TrackEvent("", "", "", "", nil); err == nil {
		t.Fatal("empty event type accepted")
	}
	for i := 0; i < 3; i++ {
		if _, err := a.TrackEvent("page_view", "sess-1", "agent", "203.0.113.9", map[string]any{"path": "/"}); err != nil {
			t.Fatalf("track: %v", err)
		}
	}
	if _, err := a.TrackEvent("cta_click", "sess-1", "agent", "203.0.113.9", nil); err != nil {
		t.Fatalf("track: %v", err)
	}

	events, err := a.EventsByType("page_view")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("page_view events = %d, want 3", len(events))
	}

	summary, err := a.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalEvents != 4 {
		t.Errorf("total = %d, want 4", summary.TotalEvents)
	}
	if summary.ByType["page_view"] != 3 || summary.ByType["cta_click"] != 1 {
		t.Errorf("byType = %+v", summary.ByType)
	}
}

func TestSitemapAndRobots(t *testing.T) {
	a, _ := newTestApp(t)

	if _, err := a.CreatePost(CreatePostInput{Title: "Indexed Post", Content: "body", Status: "published"}); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, err := a.CreatePost(CreatePostInput{Title: "Hidden Draft", Content: "body"}); err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := a.CreateCaseStudy(CaseStudyInput{
		Title: "Mapped Study", Challenge: "c", Solution: "s", Results: "r",
	}); err != nil {
		t.Fatalf("create case study: %v", err)
	}

	xml, err := a.Sitemap()
	if err != nil {
		t.Fatalf("sitemap: %v", err)
	}
	for _, want := range []string{
		"<loc>https://defnix.com/</loc>",
		"<loc>https://defnix.com/solutions/ai-soc-analyst</loc>",
		"<loc>https://defnix.com/blog/indexed-post</loc>",
		"<loc>https://defnix.com/case-studies/mapped-study</loc>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
	if strings.Contains(xml, "hidden-draft") {
		t.Error("draft post leaked into sitemap")
	}
	if !strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("missing XML declaration")
	}

	robots := a.RobotsTxt()
	if !strings.Contains(robots, "Sitemap: https://defnix.com/api/v1/seo/sitemap.xml") {
		t.Errorf("robots.txt = %q", robots)
	}
}
