package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"defnixsite/internal/app"
	"defnixsite/internal/config"
	"defnixsite/internal/store"
	"defnixsite/pkg/domain"
)

// Seeds a fresh database with an author, the standard tag and category
// sets, and a couple of published articles so the site is not empty on
// first boot. Safe to run repeatedly: everything upserts by slug or id.
func main() {
	configPath := flag.String("config", config.ConfigPath, "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	author := domain.Author{
		ID:   "author-defnix",
		Name: "defnix Research",
		Bio:  "Insights from the defnix consulting team.",
	}
	if err := db.SaveAuthor(author); err != nil {
		log.Fatalf("failed to seed author: %v", err)
	}

	tagIDs := map[string]string{}
	for _, name := range []string{"SOC 2", "Cloud Security", "Insurance", "Incident Response"} {
		tag := domain.Tag{ID: "tag-" + app.Slugify(name), Name: name, Slug: app.Slugify(name)}
		if err := db.SaveTag(tag); err != nil {
			log.Fatalf("failed to seed tag %q: %v", name, err)
		}
		tagIDs[name] = tag.ID
	}
	for _, name := range []string{"Compliance", "Engineering", "Industry News"} {
		category := domain.Category{ID: "cat-" + app.Slugify(name), Name: name, Slug: app.Slugify(name)}
		if err := db.SaveCategory(category); err != nil {
			log.Fatalf("failed to seed category %q: %v", name, err)
		}
	}

	posts := []struct {
		title   string
		excerpt string
		content string
		tags    []string
	}{
		{
			title:   "The Five Findings That Sink SOC 2 Audits",
			excerpt: "Most failed audits fail the same way. Here is what auditors actually flag.",
			content: strings.TrimSpace(`
Every year we review dozens of SOC 2 reports, and the exceptions cluster around the same five controls: access reviews that never happened, offboarding that lagged by weeks, change management without evidence, untested backups, and vendor reviews done once at signing and never again.

None of these require new tooling to fix. They require ownership. Assign each control a named owner, automate the evidence capture, and rehearse the audit a quarter early.`),
			tags: []string{"SOC 2"},
		},
		{
			title:   "What Cyber Insurers Actually Check in 2026",
			excerpt: "Questionnaires got teeth. MFA everywhere is just the start.",
			content: strings.TrimSpace(`
Insurers no longer take a checked box at face value. Expect external scans of your attack surface, requests for MFA configuration screenshots, and claims adjusters who read your incident runbooks.

The renewals that go smoothly are the ones where the evidence already exists because it is produced continuously, not assembled the week before the questionnaire is due.`),
			tags: []string{"Insurance", "Cloud Security"},
		},
	}

	now := time.Now().UTC()
	for _, p := range posts {
		slug := app.Slugify(p.title)
		if existing, found, err := db.GetPostBySlug(slug); err != nil {
			log.Fatalf("failed to check post %q: %v", slug, err)
		} else if found {
			log.Printf("post %q already present (%s), skipping", slug, existing.ID)
			continue
		}
		var tags []domain.Tag
		for _, name := range p.tags {
			tags = append(tags, domain.Tag{ID: tagIDs[name], Name: name, Slug: app.Slugify(name)})
		}
		post := domain.BlogPost{
			ID:          uuid.NewString(),
			Title:       p.title,
			Slug:        slug,
			Content:     p.content,
			Excerpt:     p.excerpt,
			AuthorID:    author.ID,
			Status:      domain.StatusPublished,
			ReadingTime: app.ReadingTime(p.content),
			Tags:        tags,
			Categories:  []domain.Category{},
			PublishedAt: &now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := db.SavePost(post); err != nil {
			log.Fatalf("failed to seed post %q: %v", slug, err)
		}
		log.Printf("seeded post %q", slug)
	}

	log.Print("seed complete")
}
