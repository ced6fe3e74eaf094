package repository

import (
	"context"

	"github.com/abrezinsky/rosterdraw/internal/models"
)

// DrawResultRepository archives committed winners
type DrawResultRepository interface {
	RecordDraw(ctx context.Context, winner models.Participant, allowRepeat bool) (int64, error)
	ListDrawResults(ctx context.Context, limit int) ([]models.DrawRecord, error)
	CountDrawResults(ctx context.Context) (int, error)
}

// GroupRunRepository archives partition runs
type GroupRunRepository interface {
	SaveGroupRun(ctx context.Context, set models.GroupSet) (int64, error)
	ListGroupRuns(ctx context.Context) ([]models.GroupRun, error)
	GetGroupRun(ctx context.Context, id int64) (*models.GroupRun, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FullRepository combines all repository interfaces
type FullRepository interface {
	DrawResultRepository
	GroupRunRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
