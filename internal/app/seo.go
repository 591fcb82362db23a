package app

import (
	"fmt"
	"strings"
	"time"
)

type staticPage struct {
	path       string
	priority   string
	changefreq string
}

var sitemapPages = []staticPage{
	{"/", "1.0", "weekly"},
	{"/solutions", "0.9", "monthly"},
	{"/solutions/soc2-failure-prevention", "0.8", "monthly"},
	{"/solutions/cloud-insurance", "0.8", "monthly"},
	{"/solutions/ai-soc-analyst", "0.8", "monthly"},
	{"/blog", "0.9", "daily"},
	{"/case-studies", "0.7", "monthly"},
	{"/about", "0.6", "monthly"},
	{"/contact", "0.7", "monthly"},
}

// Sitemap renders the sitemap XML: the static pages plus every
// published post and every case study.
func (a *App) Sitemap() (string, error) {
	posts, _, err := a.store.ListPublishedPosts(0, -1)
	if err != nil {
		return "", fmt.Errorf("list posts: %w", err)
	}
	caseStudies, err := a.store.ListCaseStudies()
	if err != nil {
		return "", fmt.Errorf("list case studies: %w", err)
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n")
	for _, p := range sitemapPages {
		b.WriteString("  <url>\n")
		fmt.Fprintf(&b, "    <loc>%s%s</loc>\n", a.siteURL, p.path)
		fmt.Fprintf(&b, "    <changefreq>%s</changefreq>\n", p.changefreq)
		fmt.Fprintf(&b, "    <priority>%s</priority>\n", p.priority)
		b.WriteString("  </url>\n")
	}
	for _, post := range posts {
		b.WriteString("  <url>\n")
		fmt.Fprintf(&b, "    <loc>%s/blog/%s</loc>\n", a.siteURL, post.Slug)
		fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", post.UpdatedAt.UTC().Format(time.RFC3339))
		b.WriteString("    <changefreq>weekly</changefreq>\n")
		b.WriteString("    <priority>0.7</priority>\n")
		b.WriteString("  </url>\n")
	}
	for _, cs := range caseStudies {
		b.WriteString("  <url>\n")
		fmt.Fprintf(&b, "    <loc>%s/case-studies/%s</loc>\n", a.siteURL, cs.Slug)
		fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", cs.CreatedAt.UTC().Format(time.RFC3339))
		b.WriteString("    <changefreq>monthly</changefreq>\n")
		b.WriteString("    <priority>0.6</priority>\n")
		b.WriteString("  </url>\n")
	}
	b.WriteString("</urlset>")
	return b.String(), nil
}

// RobotsTxt renders robots.txt pointing crawlers at the sitemap.
func (a *App) RobotsTxt() string {
	return fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/api/v1/seo/sitemap.xml\n", a.siteURL)
}
