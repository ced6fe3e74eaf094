package mock

import (
	"context"

	"github.com/abrezinsky/rosterdraw/internal/models"
	"github.com/abrezinsky/rosterdraw/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SaveGroupRunError = errors.New("database error")
//	svc := services.NewGroupingService(log, store, mockRepo, namer, opts)
//	set, err := svc.Generate(ctx, 4)
//	// set is still returned, the archive failure is only logged
type Repository struct {
	repository.FullRepository

	// ===== Draw Result Errors =====
	RecordDrawError       error
	ListDrawResultsError  error
	CountDrawResultsError error

	// ===== Group Run Errors =====
	SaveGroupRunError  error
	ListGroupRunsError error
	GetGroupRunError   error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Draw Result Methods =====

func (m *Repository) RecordDraw(ctx context.Context, winner models.Participant, allowRepeat bool) (int64, error) {
	if m.RecordDrawError != nil {
		return 0, m.RecordDrawError
	}
	return m.FullRepository.RecordDraw(ctx, winner, allowRepeat)
}

func (m *Repository) ListDrawResults(ctx context.Context, limit int) ([]models.DrawRecord, error) {
	if m.ListDrawResultsError != nil {
		return nil, m.ListDrawResultsError
	}
	return m.FullRepository.ListDrawResults(ctx, limit)
}

func (m *Repository) CountDrawResults(ctx context.Context) (int, error) {
	if m.CountDrawResultsError != nil {
		return 0, m.CountDrawResultsError
	}
	return m.FullRepository.CountDrawResults(ctx)
}

// ===== Group Run Methods =====

func (m *Repository) SaveGroupRun(ctx context.Context, set models.GroupSet) (int64, error) {
	if m.SaveGroupRunError != nil {
		return 0, m.SaveGroupRunError
	}
	return m.FullRepository.SaveGroupRun(ctx, set)
}

func (m *Repository) ListGroupRuns(ctx context.Context) ([]models.GroupRun, error) {
	if m.ListGroupRunsError != nil {
		return nil, m.ListGroupRunsError
	}
	return m.FullRepository.ListGroupRuns(ctx)
}

func (m *Repository) GetGroupRun(ctx context.Context, id int64) (*models.GroupRun, error) {
	if m.GetGroupRunError != nil {
		return nil, m.GetGroupRunError
	}
	return m.FullRepository.GetGroupRun(ctx, id)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

// Ensure mock implements the full interface
var _ repository.FullRepository = (*Repository)(nil)
