package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"defnixsite/pkg/domain"
)

// CaseStudyInput carries the writable fields of a case study.
type CaseStudyInput struct {
	Title      string
	Client     string
	Industry   string
	Challenge  string
	Solution   string
	Results    string
	CoverImage string
	Published  *bool
}

// ListCaseStudies returns all case studies, newest first.
func (a *App) ListCaseStudies() ([]domain.CaseStudy, error) {
	return a.store.ListCaseStudies()
}

// GetCaseStudyBySlug returns a single case study.
func (a *App) GetCaseStudyBySlug(slug string) (domain.CaseStudy, error) {
	cs, ok, err := a.store.GetCaseStudyBySlug(slug)
	if err != nil {
		return domain.CaseStudy{}, fmt.Errorf("fetch case study: %w", err)
	}
	if !ok {
		return domain.CaseStudy{}, ErrCaseStudyNotFound
	}
	return cs, nil
}

// CreateCaseStudy validates and stores a case study with a slug derived
// from its title.
func (a *App) CreateCaseStudy(in CaseStudyInput) (domain.CaseStudy, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(in.Challenge) == "" {
		fields["challenge"] = "challenge is required"
	}
	if strings.TrimSpace(in.Solution) == "" {
		fields["solution"] = "solution is required"
	}
	if strings.TrimSpace(in.Results) == "" {
		fields["results"] = "results is required"
	}
	if err := validationError(fields); err != nil {
		return domain.CaseStudy{}, err
	}

	now := time.Now().UTC()
	cs := domain.CaseStudy{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Slug:       Slugify(in.Title),
		Client:     in.Client,
		Industry:   in.Industry,
		Challenge:  in.Challenge,
		Solution:   in.Solution,
		Results:    in.Results,
		CoverImage: in.CoverImage,
		CreatedAt:  now,
	}
	if in.Published != nil && *in.Published {
		cs.PublishedAt = &now
	}
	if err := a.store.SaveCaseStudy(cs); err != nil {
		return domain.CaseStudy{}, fmt.Errorf("save case study: %w", err)
	}
	return cs, nil
}

// UpdateCaseStudy applies a partial update; empty strings leave text
// fields untouched and the slug follows title changes. The publish
// timestamp is set on the first transition to published and cleared
// when the study is unpublished.
func (a *App) UpdateCaseStudy(id string, in CaseStudyInput) (domain.CaseStudy, error) {
	cs, ok, err := a.store.GetCaseStudyByID(id)
	if err != nil {
		return domain.CaseStudy{}, fmt.Errorf("fetch case study: %w", err)
	}
	if !ok {
		return domain.CaseStudy{}, ErrCaseStudyNotFound
	}

	if strings.TrimSpace(in.Title) != "" {
		cs.Title = in.Title
		cs.Slug = Slugify(in.Title)
	}
	if in.Client != "" {
		cs.Client = in.Client
	}
	if in.Industry != "" {
		cs.Industry = in.Industry
	}
	if in.Challenge != "" {
		cs.Challenge = in.Challenge
	}
	if in.Solution != "" {
		cs.Solution = in.Solution
	}
	if in.Results != "" {
		cs.Results = in.Results
	}
	if in.CoverImage != "" {
		cs.CoverImage = in.CoverImage
	}
	if in.Published != nil {
		if *in.Published && cs.PublishedAt == nil {
			now := time.Now().UTC()
			cs.PublishedAt = &now
		}
		if !*in.Published {
			cs.PublishedAt = nil
		}
	}

	if err := a.store.SaveCaseStudy(cs); err != nil {
		return domain.CaseStudy{}, fmt.Errorf("save case study: %w", err)
	}
	return cs, nil
}

// DeleteCaseStudy removes a case study.
func (a *App) DeleteCaseStudy(id string) error {
	_, ok, err := a.store.GetCaseStudyByID(id)
	if err != nil {
		return fmt.Errorf("fetch case study: %w", err)
	}
	if !ok {
		return ErrCaseStudyNotFound
	}
	return a.store.DeleteCaseStudy(id)
}
