package services

import (
	"context"
	"io"

	"github.com/abrezinsky/rosterdraw/internal/draw"
	"github.com/abrezinsky/rosterdraw/internal/models"
)

// Broadcaster pushes a typed message to every connected screen
type Broadcaster interface {
	Broadcast(msgType string, payload interface{})
}

// RosterServicer defines the interface for roster operations
type RosterServicer interface {
	GetRoster(ctx context.Context) models.RosterSummary
	SetText(ctx context.Context, text string) models.RosterSummary
	ImportFile(ctx context.Context, content []byte) (models.RosterSummary, error)
	Dedupe(ctx context.Context) models.RosterSummary
	Clear(ctx context.Context, confirm bool) (models.RosterSummary, error)
	LoadSample(ctx context.Context) models.RosterSummary
	SetBroadcaster(b Broadcaster)
}

// DrawServicer defines the interface for prize draw operations
type DrawServicer interface {
	State(ctx context.Context) models.DrawState
	Draw(ctx context.Context) (*draw.Spin, error)
	SetRepeatMode(ctx context.Context, allow bool) models.DrawState
	Reset(ctx context.Context, confirm bool) (models.DrawState, error)
	Results(ctx context.Context, limit int) ([]models.DrawRecord, error)
	SetBroadcaster(b Broadcaster)
}

// GroupingServicer defines the interface for group partition operations
type GroupingServicer interface {
	Generate(ctx context.Context, size int) (*models.GroupSet, error)
	Current(ctx context.Context) *models.GroupSet
	ExportCSV(ctx context.Context, w io.Writer) error
	Runs(ctx context.Context) ([]models.GroupRun, error)
	Run(ctx context.Context, id int64) (*models.GroupRun, error)
	SetBroadcaster(b Broadcaster)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	DefaultGroupSize(ctx context.Context) (int, error)
	SetDefaultGroupSize(ctx context.Context, size int) error
	AllSettings(ctx context.Context) (*Settings, error)
	UpdateSettings(ctx context.Context, update SettingsUpdate) (*Settings, error)
	ViewerQRCode(ctx context.Context, fallbackBaseURL string) ([]byte, error)
}

// Ensure concrete types implement interfaces
var (
	_ RosterServicer   = (*RosterService)(nil)
	_ DrawServicer     = (*DrawService)(nil)
	_ GroupingServicer = (*GroupingService)(nil)
	_ SettingsServicer = (*SettingsService)(nil)
)
