package services

import (
	"context"
	"unicode/utf8"

	"github.com/abrezinsky/rosterdraw/internal/logger"
	"github.com/abrezinsky/rosterdraw/internal/metrics"
	"github.com/abrezinsky/rosterdraw/internal/models"
	"github.com/abrezinsky/rosterdraw/internal/roster"
)

// RosterService handles roster edits. Every edit is a full replacement of the
// store's list.
type RosterService struct {
	log         logger.Logger
	store       *roster.Store
	metrics     *metrics.Metrics
	broadcaster Broadcaster
}

// NewRosterService creates a new RosterService
func NewRosterService(log logger.Logger, store *roster.Store, m *metrics.Metrics) *RosterService {
	return &RosterService{log: log, store: store, metrics: m}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *RosterService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GetRoster returns the roster with its duplicate analysis
func (s *RosterService) GetRoster(ctx context.Context) models.RosterSummary {
	return roster.Summarize(s.store.Current())
}

// SetText replaces the roster with one participant per non-blank line
func (s *RosterService) SetText(ctx context.Context, text string) models.RosterSummary {
	return s.replace("text", roster.FromText(text))
}

// ImportFile replaces the roster from an uploaded list (first column of each line)
func (s *RosterService) ImportFile(ctx context.Context, content []byte) (models.RosterSummary, error) {
	if !utf8.Valid(content) {
		return models.RosterSummary{}, ErrInvalidEncoding
	}
	return s.replace("import", roster.FromFile(string(content))), nil
}

// Dedupe keeps the first participant of each name
func (s *RosterService) Dedupe(ctx context.Context) models.RosterSummary {
	return s.replace("dedupe", roster.Dedupe(s.store.Current()))
}

// Clear empties the roster. It is destructive, so confirm must be set.
func (s *RosterService) Clear(ctx context.Context, confirm bool) (models.RosterSummary, error) {
	if !confirm {
		return models.RosterSummary{}, ErrConfirmationRequired
	}
	return s.replace("clear", nil), nil
}

// LoadSample replaces the roster with the built-in sample names
func (s *RosterService) LoadSample(ctx context.Context) models.RosterSummary {
	return s.replace("sample", roster.Sample())
}

func (s *RosterService) replace(source string, list []models.Participant) models.RosterSummary {
	s.store.Replace(list)
	summary := roster.Summarize(s.store.Current())

	s.metrics.SetRosterSize(summary.Total)
	s.log.Info("Roster replaced", "source", source, "total", summary.Total, "duplicates", len(summary.DuplicateNames))

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(models.MsgRosterUpdated, summary)
	}
	return summary
}
