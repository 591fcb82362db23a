package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"defnixsite/internal/app"
	"defnixsite/pkg/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Solution is a static marketing page for one service offering.
type Solution struct {
	Slug     string
	Name     string
	Tagline  string
	Overview string
	Points   []string
}

var solutions = []Solution{
	{
		Slug:     "soc2-failure-prevention",
		Name:     "SOC 2 Failure Prevention",
		Tagline:  "Pass your SOC 2 audit the first time.",
		Overview: "We map your controls, close evidence gaps and rehearse the audit before the auditor arrives, so findings surface in a dry run instead of the report.",
		Points: []string{
			"Gap assessment against the Trust Services Criteria",
			"Evidence collection automation",
			"Mock audit with remediation plan",
		},
	},
	{
		Slug:     "cloud-insurance",
		Name:     "Cloud Insurance Readiness",
		Tagline:  "Meet cyber-insurance requirements without the scramble.",
		Overview: "Insurers now ask for hard proof of controls. We translate policy questionnaires into concrete cloud configuration and keep the evidence current at renewal time.",
		Points: []string{
			"Questionnaire-to-control mapping",
			"Continuous posture monitoring",
			"Renewal evidence packs",
		},
	},
	{
		Slug:     "ai-soc-analyst",
		Name:     "AI SOC Analyst",
		Tagline:  "Triage every alert, escalate only what matters.",
		Overview: "Our analyst service combines detection tuning with machine-assisted triage, cutting noise so your on-call engineers see real incidents, not floods of false positives.",
		Points: []string{
			"Alert triage and enrichment",
			"Detection rule tuning",
			"Monthly threat review",
		},
	},
}

// Handler renders the public site and serves the admin dashboard shell.
type Handler struct {
	app *app.App
	tpl *template.Template
	mux *http.ServeMux
}

// New parses the embedded templates and configures page routes.
func New(a *app.App) (*Handler, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
	tpl, err := template.New("site").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	h := &Handler{app: a, tpl: tpl, mux: http.NewServeMux()}
	h.routes()
	return h, nil
}

func (h *Handler) routes() {
	h.mux.HandleFunc("/", h.handleHome)
	h.mux.HandleFunc("/blog", h.handleBlog)
	h.mux.HandleFunc("/blog/", h.handleBlogPost)
	h.mux.HandleFunc("/case-studies", h.handleCaseStudies)
	h.mux.HandleFunc("/case-studies/", h.handleCaseStudy)
	h.mux.HandleFunc("/solutions", h.handleSolutions)
	h.mux.HandleFunc("/solutions/", h.handleSolution)
	h.mux.HandleFunc("/about", h.staticPage("about.html", "About"))
	h.mux.HandleFunc("/contact", h.staticPage("contact.html", "Contact"))
	h.mux.HandleFunc("/privacy", h.staticPage("privacy.html", "Privacy Policy"))
	h.mux.HandleFunc("/terms", h.staticPage("terms.html", "Terms of Service"))
	h.mux.HandleFunc("/disclaimer", h.staticPage("disclaimer.html", "Disclaimer"))
	h.mux.HandleFunc("/admin", h.staticPage("admin.html", "Admin"))
	h.mux.Handle("/static/", http.FileServer(http.FS(staticFS)))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type pageData struct {
	Title      string
	Posts      []domain.BlogPost
	Post       *domain.BlogPost
	Studies    []domain.CaseStudy
	Study      *domain.CaseStudy
	Solutions  []Solution
	Solution   *Solution
	Page       int
	TotalPages int
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
	}
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.notFound(w)
		return
	}
	// Recent posts are decorative on the home page; an empty or failing
	// store still renders the static content.
	posts, _, err := h.app.ListPublishedPosts(1, 3)
	if err != nil {
		posts = nil
	}
	h.render(w, http.StatusOK, "home.html", pageData{
		Title:     "Security compliance, handled",
		Posts:     posts,
		Solutions: solutions,
	})
}

func (h *Handler) handleBlog(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	posts, total, err := h.app.ListPublishedPosts(page, 10)
	if err != nil {
		posts = nil
		total = 0
	}
	totalPages := int((total + 9) / 10)
	h.render(w, http.StatusOK, "blog.html", pageData{
		Title:      "Blog",
		Posts:      posts,
		Page:       page,
		TotalPages: totalPages,
	})
}

func (h *Handler) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/blog/")
	if slug == "" || strings.Contains(slug, "/") {
		h.notFound(w)
		return
	}
	post, err := h.app.GetPublishedPostBySlug(slug)
	if err != nil {
		h.notFound(w)
		return
	}
	h.render(w, http.StatusOK, "blog_post.html", pageData{
		Title: post.Title,
		Post:  &post,
	})
}

func (h *Handler) handleCaseStudies(w http.ResponseWriter, _ *http.Request) {
	studies, err := h.app.ListCaseStudies()
	if err != nil {
		studies = nil
	}
	h.render(w, http.StatusOK, "case_studies.html", pageData{
		Title:   "Case Studies",
		Studies: studies,
	})
}

func (h *Handler) handleCaseStudy(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/case-studies/")
	if slug == "" || strings.Contains(slug, "/") {
		h.notFound(w)
		return
	}
	study, err := h.app.GetCaseStudyBySlug(slug)
	if err != nil {
		h.notFound(w)
		return
	}
	h.render(w, http.StatusOK, "case_study.html", pageData{
		Title: study.Title,
		Study: &study,
	})
}

func (h *Handler) handleSolutions(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, "solutions.html", pageData{
		Title:     "Solutions",
		Solutions: solutions,
	})
}

func (h *Handler) handleSolution(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/solutions/")
	for i := range solutions {
		if solutions[i].Slug == slug {
			h.render(w, http.StatusOK, "solution.html", pageData{
				Title:    solutions[i].Name,
				Solution: &solutions[i],
			})
			return
		}
	}
	h.notFound(w)
}

func (h *Handler) staticPage(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h.render(w, http.StatusOK, name, pageData{Title: title})
	}
}

func (h *Handler) notFound(w http.ResponseWriter) {
	h.render(w, http.StatusNotFound, "not_found.html", pageData{Title: "Page not found"})
}
