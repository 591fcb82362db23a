package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"defnixsite/internal/app"
	"defnixsite/internal/storage"
	"defnixsite/internal/store"
	"defnixsite/pkg/auth"
	"defnixsite/pkg/domain"
)

type testEnv struct {
	srv   *httptest.Server
	app   *app.App
	store *store.MemoryStore
}

func newTestEnv(t *testing.T, rateLimit int) *testEnv {
	t.Helper()
	mem := store.NewMemoryStore()
	objects, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	a, err := app.New(app.Config{
		Store:     mem,
		Objects:   objects,
		JWTSecret: "test-secret",
		SiteURL:   "https://defnix.com",
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := mem.UpsertAdminUser(domain.AdminUser{
		ID:           "admin-1",
		Email:        "admin@defnix.com",
		PasswordHash: hash,
		Role:         "admin",
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	redis := miniredis.RunT(t)
	s, err := New(Config{
		App:                a,
		RedisAddr:          redis.Addr(),
		RateLimitPerMinute: rateLimit,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, app: a, store: mem}
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"admin@defnix.com","password":"correct horse"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if body.AccessToken == "" {
		t.Fatal("empty access token")
	}
	return body.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, 60)
	resp := env.do(t, http.MethodGet, "/healthz", "", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, 60)

	for _, body := range []string{
		`{"email":"nobody@defnix.com","password":"whatever"}`,
		`{"email":"admin@defnix.com","password":"wrong"}`,
	} {
		resp := env.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
		payload := decodeJSON[map[string]any](t, resp)
		if payload["error"] != "Invalid credentials" {
			t.Errorf("error = %v", payload["error"])
		}
	}
}

func TestAdminGuard(t *testing.T) {
	env := newTestEnv(t, 60)

	resp := env.do(t, http.MethodGet, "/api/v1/blog/admin/posts", "", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/blog/admin/posts", "garbage-token", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", resp.StatusCode)
	}

	hash, _ := auth.HashPassword("pw-editor-1")
	if err := env.store.UpsertAdminUser(domain.AdminUser{
		ID: "editor-1", Email: "editor@defnix.com", PasswordHash: hash, Role: "editor",
	}); err != nil {
		t.Fatalf("seed editor: %v", err)
	}
	loginResp := env.do(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"editor@defnix.com","password":"pw-editor-1"}`)
	loginBody := decodeJSON[map[string]any](t, loginResp)
	editorToken, _ := loginBody["accessToken"].(string)
	resp = env.do(t, http.MethodGet, "/api/v1/blog/admin/posts", editorToken, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("editor role: status = %d, want 403", resp.StatusCode)
	}
}

func TestBlogPostLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t, 60)
	token := env.login(t)

	createResp := env.do(t, http.MethodPost, "/api/v1/blog/posts", token,
		`{"title":"Continuous Compliance 101","content":"evidence automation beats spreadsheets","status":"published"}`)
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", createResp.StatusCode)
	}
	created := decodeJSON[domain.BlogPost](t, createResp)
	if created.Slug != "continuous-compliance-101" {
		t.Errorf("slug = %q", created.Slug)
	}
	if created.PublishedAt == nil {
		t.Error("publishedAt not set for published post")
	}

	listResp := env.do(t, http.MethodGet, "/api/v1/blog/posts", "", "")
	list := decodeJSON[map[string]any](t, listResp)
	if total, _ := list["total"].(float64); total != 1 {
		t.Errorf("public total = %v", list["total"])
	}
	if posts, ok := list["posts"].([]any); !ok || len(posts) != 1 {
		t.Errorf("posts payload = %v", list["posts"])
	}

	getResp := env.do(t, http.MethodGet, "/api/v1/blog/posts/continuous-compliance-101", "", "")
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", getResp.StatusCode)
	}
	getResp.Body.Close()

	adminList := env.do(t, http.MethodGet, "/api/v1/blog/admin/posts", token, "")
	adminBody := decodeJSON[map[string]any](t, adminList)
	if total, _ := adminBody["total"].(float64); total != 1 {
		t.Errorf("admin total = %v", adminBody["total"])
	}

	updateResp := env.do(t, http.MethodPut, "/api/v1/blog/posts/"+created.ID, token,
		`{"status":"archived"}`)
	if updateResp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", updateResp.StatusCode)
	}
	updateResp.Body.Close()

	goneResp := env.do(t, http.MethodGet, "/api/v1/blog/posts/continuous-compliance-101", "", "")
	goneResp.Body.Close()
	if goneResp.StatusCode != http.StatusNotFound {
		t.Fatalf("archived post publicly visible: %d", goneResp.StatusCode)
	}

	deleteResp := env.do(t, http.MethodDelete, "/api/v1/blog/posts/"+created.ID, token, "")
	deleteResp.Body.Close()
	if deleteResp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", deleteResp.StatusCode)
	}
}

func TestLeadEndpoints(t *testing.T) {
	env := newTestEnv(t, 60)

	badResp := env.do(t, http.MethodPost, "/api/v1/leads", "",
		`{"name":"","email":"nope","message":"hi"}`)
	if badResp.StatusCode != http.StatusBadRequest {
		t.Fatalf("validation status = %d", badResp.StatusCode)
	}
	bad := decodeJSON[map[string]any](t, badResp)
	if bad["code"] != "REQUEST_VALIDATION_FAILED" {
		t.Errorf("code = %v", bad["code"])
	}

	okResp := env.do(t, http.MethodPost, "/api/v1/leads", "",
		`{"name":"Dana","email":"dana@corp.example","message":"We need SOC 2 help before Q3 audit."}`)
	if okResp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", okResp.StatusCode)
	}
	lead := decodeJSON[domain.Lead](t, okResp)
	if lead.Status != domain.LeadNew {
		t.Errorf("status = %q", lead.Status)
	}

	// listing requires admin
	resp := env.do(t, http.MethodGet, "/api/v1/leads", "", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: %d", resp.StatusCode)
	}

	token := env.login(t)
	listResp := env.do(t, http.MethodGet, "/api/v1/leads", token, "")
	listBody := decodeJSON[map[string]any](t, listResp)
	if leads, ok := listBody["leads"].([]any); !ok || len(leads) != 1 {
		t.Errorf("leads payload = %v", listBody["leads"])
	}

	patchResp := env.do(t, http.MethodPatch, "/api/v1/leads/"+lead.ID+"/status", token,
		`{"status":"qualified"}`)
	if patchResp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d", patchResp.StatusCode)
	}
	moved := decodeJSON[domain.Lead](t, patchResp)
	if moved.Status != domain.LeadQualified {
		t.Errorf("status = %q", moved.Status)
	}

	badPatch := env.do(t, http.MethodPatch, "/api/v1/leads/"+lead.ID+"/status", token,
		`{"status":"escalated"}`)
	badPatch.Body.Close()
	if badPatch.StatusCode != http.StatusBadRequest {
		t.Fatalf("bogus status accepted: %d", badPatch.StatusCode)
	}
}

func TestNewsletterEndpoints(t *testing.T) {
	env := newTestEnv(t, 60)

	first := env.do(t, http.MethodPost, "/api/v1/newsletter/subscribe", "",
		`{"email":"reader@example.com"}`)
	first.Body.Close()
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("subscribe status = %d", first.StatusCode)
	}

	dup := env.do(t, http.MethodPost, "/api/v1/newsletter/subscribe", "",
		`{"email":"reader@example.com"}`)
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", dup.StatusCode)
	}
	payload := decodeJSON[map[string]any](t, dup)
	if payload["code"] != "NEWSLETTER_ALREADY_SUBSCRIBED" {
		t.Errorf("code = %v", payload["code"])
	}

	unsub := env.do(t, http.MethodDelete, "/api/v1/newsletter/unsubscribe", "",
		`{"email":"reader@example.com"}`)
	unsub.Body.Close()
	if unsub.StatusCode != http.StatusOK {
		t.Fatalf("unsubscribe status = %d", unsub.StatusCode)
	}

	token := env.login(t)
	listResp := env.do(t, http.MethodGet, "/api/v1/newsletter/subscribers", token, "")
	list := decodeJSON[map[string]any](t, listResp)
	if count, _ := list["count"].(float64); count != 0 {
		t.Errorf("active count = %v, want 0", list["count"])
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	env := newTestEnv(t, 60)

	track := env.do(t, http.MethodPost, "/api/v1/analytics/events", "",
		`{"eventType":"page_view","sessionId":"s1","payload":{"path":"/blog"}}`)
	track.Body.Close()
	if track.StatusCode != http.StatusCreated {
		t.Fatalf("track status = %d", track.StatusCode)
	}

	token := env.login(t)
	summaryResp := env.do(t, http.MethodGet, "/api/v1/analytics/summary", token, "")
	summary := decodeJSON[map[string]any](t, summaryResp)
	if total, _ := summary["totalEvents"].(float64); total != 1 {
		t.Errorf("totalEvents = %v", summary["totalEvents"])
	}
}

func TestSitemapAndRobotsEndpoints(t *testing.T) {
	env := newTestEnv(t, 60)

	resp := env.do(t, http.MethodGet, "/api/v1/seo/sitemap.xml", "", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sitemap status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("content type = %q", ct)
	}

	robots := env.do(t, http.MethodGet, "/api/v1/seo/robots.txt", "", "")
	defer robots.Body.Close()
	if robots.StatusCode != http.StatusOK {
		t.Fatalf("robots status = %d", robots.StatusCode)
	}
}

func TestMediaUploadOverHTTP(t *testing.T) {
	env := newTestEnv(t, 60)
	token := env.login(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="chart.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/api/v1/media", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	asset := decodeJSON[domain.MediaAsset](t, resp)
	if asset.Filename != "chart.png" {
		t.Errorf("filename = %q", asset.Filename)
	}

	del := env.do(t, http.MethodDelete, "/api/v1/media/"+asset.ID, token, "")
	del.Body.Close()
	if del.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", del.StatusCode)
	}
}

func TestAPIRateLimit(t *testing.T) {
	env := newTestEnv(t, 2)

	for i := 0; i < 2; i++ {
		resp := env.do(t, http.MethodGet, "/api/v1/blog/posts", "", "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, resp.StatusCode)
		}
	}
	resp := env.do(t, http.MethodGet, "/api/v1/blog/posts", "", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", resp.Header.Get("Retry-After"))
	}

	// Health stays reachable when the API quota is spent.
	health := env.do(t, http.MethodGet, "/healthz", "", "")
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", health.StatusCode)
	}
}

func TestAPIRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	env := newTestEnv(t, 2)

	// No trusted proxies configured, so rotating X-Forwarded-For must not
	// mint fresh limiter keys for the same socket peer.
	send := func(forwarded string) int {
		req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/api/v1/blog/posts", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("X-Forwarded-For", forwarded)
		resp, err := env.srv.Client().Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	for i, forwarded := range []string{"203.0.113.1", "203.0.113.2"} {
		if status := send(forwarded); status != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, status)
		}
	}
	if status := send("203.0.113.3"); status != http.StatusTooManyRequests {
		t.Fatalf("spoofed third request: status = %d, want 429", status)
	}
}

func TestCaseStudyEndpoints(t *testing.T) {
	env := newTestEnv(t, 60)
	token := env.login(t)

	create := env.do(t, http.MethodPost, "/api/v1/case-studies", token,
		`{"title":"Fintech SOC 2 in 90 Days","challenge":"c","solution":"s","results":"r","published":true}`)
	if create.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", create.StatusCode)
	}
	cs := decodeJSON[domain.CaseStudy](t, create)

	get := env.do(t, http.MethodGet, "/api/v1/case-studies/"+cs.Slug, "", "")
	get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", get.StatusCode)
	}

	del := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/case-studies/%s", cs.ID), token, "")
	del.Body.Close()
	if del.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", del.StatusCode)
	}
}
