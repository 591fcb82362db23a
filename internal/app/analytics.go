package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"defnixsite/pkg/domain"
)

const eventListCap = 100

// AnalyticsSummary aggregates stored events.
type AnalyticsSummary struct {
	TotalEvents int64            `json:"totalEvents"`
	ByType      map[string]int64 `json:"byType"`
}

// TrackEvent records a client-side analytics event. The caller supplies
// the user agent and IP observed at the edge.
func (a *App) TrackEvent(eventType, sessionID, userAgent, ipAddress string, payload map[string]any) (domain.AnalyticsEvent, error) {
	eventType = strings.TrimSpace(eventType)
	if eventType == "" {
		return domain.AnalyticsEvent{}, validationError(map[string]string{
			"eventType": "eventType is required",
		})
	}
	event := domain.AnalyticsEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Payload:   payload,
		SessionID: sessionID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.SaveEvent(event); err != nil {
		return domain.AnalyticsEvent{}, fmt.Errorf("save event: %w", err)
	}
	return event, nil
}

// EventsByType returns the most recent events of one type, capped at 100.
func (a *App) EventsByType(eventType string) ([]domain.AnalyticsEvent, error) {
	eventType = strings.TrimSpace(eventType)
	if eventType == "" {
		return []domain.AnalyticsEvent{}, nil
	}
	return a.store.ListEventsByType(eventType, eventListCap)
}

// Summary returns the total event count and a per-type breakdown.
func (a *App) Summary() (AnalyticsSummary, error) {
	total, err := a.store.EventCount()
	if err != nil {
		return AnalyticsSummary{}, fmt.Errorf("count events: %w", err)
	}
	byType, err := a.store.EventTypeCounts()
	if err != nil {
		return AnalyticsSummary{}, fmt.Errorf("count event types: %w", err)
	}
	if byType == nil {
		byType = map[string]int64{}
	}
	return AnalyticsSummary{TotalEvents: total, ByType: byType}, nil
}
