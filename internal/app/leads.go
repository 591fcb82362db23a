package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"defnixsite/pkg/domain"
)

// CreateLeadInput is the contact-form submission payload.
type CreateLeadInput struct {
	Name    string
	Email   string
	Company string
	Message string
	Source  string
}

// CreateLead validates and stores an inbound lead with status "new".
func (a *App) CreateLead(in CreateLeadInput) (domain.Lead, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !validEmail(email) {
		fields["email"] = "a valid email is required"
	}
	if len(strings.TrimSpace(in.Message)) < 10 {
		fields["message"] = "message must be at least 10 characters"
	}
	if err := validationError(fields); err != nil {
		return domain.Lead{}, err
	}

	lead := domain.Lead{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Company:   strings.TrimSpace(in.Company),
		Message:   strings.TrimSpace(in.Message),
		Source:    strings.TrimSpace(in.Source),
		Status:    domain.LeadNew,
		CreatedAt: time.Now().UTC(),
	}
	if lead.Source == "" {
		lead.Source = "website"
	}
	if err := a.store.SaveLead(lead); err != nil {
		return domain.Lead{}, fmt.Errorf("save lead: %w", err)
	}
	return lead, nil
}

// ListLeads returns a page of leads, newest first.
func (a *App) ListLeads(page, limit int) ([]domain.Lead, int64, error) {
	offset, limit := normalizePage(page, limit, defaultAdminPageSize)
	return a.store.ListLeads(offset, limit)
}

// UpdateLeadStatus moves a lead through the pipeline. Unknown statuses
// are rejected rather than stored.
func (a *App) UpdateLeadStatus(id, status string) (domain.Lead, error) {
	parsed, ok := domain.ParseLeadStatus(status)
	if !ok {
		return domain.Lead{}, validationError(map[string]string{
			"status": "status must be new, contacted, qualified, converted or closed",
		})
	}
	lead, found, err := a.store.GetLeadByID(id)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("fetch lead: %w", err)
	}
	if !found {
		return domain.Lead{}, ErrLeadNotFound
	}
	lead.Status = parsed
	if err := a.store.SaveLead(lead); err != nil {
		return domain.Lead{}, fmt.Errorf("save lead: %w", err)
	}
	return lead, nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	host := email[at+1:]
	if strings.Contains(host, "@") || !strings.Contains(host, ".") {
		return false
	}
	return !strings.ContainsAny(email, " \t\r\n")
}
