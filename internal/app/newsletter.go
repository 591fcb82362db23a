package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"defnixsite/pkg/domain"
)

// Subscribe adds an email to the newsletter list. A previously
// unsubscribed address is reactivated in place; an already active one
// is reported as a conflict.
func (a *App) Subscribe(email string) (domain.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return domain.Subscriber{}, validationError(map[string]string{
			"email": "a valid email is required",
		})
	}

	now := time.Now().UTC()
	existing, ok, err := a.store.GetSubscriberByEmail(email)
	if err != nil {
		return domain.Subscriber{}, fmt.Errorf("fetch subscriber: %w", err)
	}
	if ok {
		if existing.UnsubscribedAt == nil {
			return domain.Subscriber{}, ErrAlreadySubscribed
		}
		existing.SubscribedAt = now
		existing.UnsubscribedAt = nil
		if err := a.store.SaveSubscriber(existing); err != nil {
			return domain.Subscriber{}, fmt.Errorf("save subscriber: %w", err)
		}
		return existing, nil
	}

	sub := domain.Subscriber{
		ID:           uuid.NewString(),
		Email:        email,
		SubscribedAt: now,
	}
	if err := a.store.SaveSubscriber(sub); err != nil {
		return domain.Subscriber{}, fmt.Errorf("save subscriber: %w", err)
	}
	return sub, nil
}

// Unsubscribe marks an address as unsubscribed. Unknown or already
// unsubscribed addresses are treated as success.
func (a *App) Unsubscribe(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return validationError(map[string]string{"email": "a valid email is required"})
	}
	sub, ok, err := a.store.GetSubscriberByEmail(email)
	if err != nil {
		return fmt.Errorf("fetch subscriber: %w", err)
	}
	if !ok || sub.UnsubscribedAt != nil {
		return nil
	}
	now := time.Now().UTC()
	sub.UnsubscribedAt = &now
	if err := a.store.SaveSubscriber(sub); err != nil {
		return fmt.Errorf("save subscriber: %w", err)
	}
	return nil
}

// ListActiveSubscribers returns subscribers that have not unsubscribed,
// newest first.
func (a *App) ListActiveSubscribers() ([]domain.Subscriber, error) {
	return a.store.ListActiveSubscribers()
}
