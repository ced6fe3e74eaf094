package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/rosterdraw/internal/logger"
	"github.com/abrezinsky/rosterdraw/internal/partition"
	"github.com/abrezinsky/rosterdraw/internal/repository"
)

const (
	settingBaseURL          = "base_url"
	settingDefaultGroupSize = "default_group_size"
)

// Settings is the host-editable configuration
type Settings struct {
	BaseURL          string `json:"base_url"`
	DefaultGroupSize int    `json:"default_group_size"`
}

// SettingsUpdate carries a partial update; nil fields are left alone
type SettingsUpdate struct {
	BaseURL          *string `json:"base_url"`
	DefaultGroupSize *int    `json:"default_group_size"`
}

// SettingsService handles settings-related business logic
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// GetBaseURL returns the public URL viewers use to reach the server
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, settingBaseURL)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil // No default - setting not yet configured
		}
		return "", err // Propagate database errors
	}
	return value, nil
}

// SetBaseURL saves the public URL. An empty value clears it.
func (s *SettingsService) SetBaseURL(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidBaseURL
		}
		raw = strings.TrimSuffix(raw, "/")
	}
	return s.repo.SetSetting(ctx, settingBaseURL, raw)
}

// DefaultGroupSize returns the group size preselected in the grouping tab
func (s *SettingsService) DefaultGroupSize(ctx context.Context) (int, error) {
	value, err := s.repo.GetSetting(ctx, settingDefaultGroupSize)
	if err != nil {
		if err == repository.ErrNotFound {
			return partition.DefaultGroupSize, nil
		}
		return 0, err
	}
	size, err := strconv.Atoi(value)
	if err != nil || !partition.ValidSize(size) {
		return partition.DefaultGroupSize, nil // Invalid value, treat as unset
	}
	return size, nil
}

// SetDefaultGroupSize saves the preselected group size
func (s *SettingsService) SetDefaultGroupSize(ctx context.Context, size int) error {
	if !partition.ValidSize(size) {
		return ErrInvalidGroupSize
	}
	return s.repo.SetSetting(ctx, settingDefaultGroupSize, strconv.Itoa(size))
}

// AllSettings returns every host-editable setting
func (s *SettingsService) AllSettings(ctx context.Context) (*Settings, error) {
	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	size, err := s.DefaultGroupSize(ctx)
	if err != nil {
		return nil, err
	}
	return &Settings{BaseURL: baseURL, DefaultGroupSize: size}, nil
}

// UpdateSettings applies a partial update and returns the result
func (s *SettingsService) UpdateSettings(ctx context.Context, update SettingsUpdate) (*Settings, error) {
	if update.DefaultGroupSize != nil && !partition.ValidSize(*update.DefaultGroupSize) {
		return nil, ErrInvalidGroupSize
	}
	if update.BaseURL != nil {
		if err := s.SetBaseURL(ctx, *update.BaseURL); err != nil {
			return nil, err
		}
	}
	if update.DefaultGroupSize != nil {
		if err := s.SetDefaultGroupSize(ctx, *update.DefaultGroupSize); err != nil {
			return nil, err
		}
	}
	s.log.Info("Settings updated")
	return s.AllSettings(ctx)
}

// ViewerQRCode renders a PNG QR code pointing at the viewer page. The stored
// base_url wins; fallbackBaseURL (usually derived from the request) is used
// when none is configured.
func (s *SettingsService) ViewerQRCode(ctx context.Context, fallbackBaseURL string) ([]byte, error) {
	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = fallbackBaseURL
	}
	if baseURL == "" {
		return nil, fmt.Errorf("base_url not configured")
	}
	viewerURL := strings.TrimSuffix(baseURL, "/") + "/"
	return qrcode.Encode(viewerURL, qrcode.Medium, 256)
}
