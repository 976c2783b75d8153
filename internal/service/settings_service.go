package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
)

// SettingsPatch carries the updatable account settings fields.
type SettingsPatch struct {
	EmailNotifications *bool   `json:"email_notifications"`
	ProfileVisibility  *string `json:"profile_visibility"`
	DataSharing        *bool   `json:"data_sharing"`
	TwoFactorEnabled   *bool   `json:"two_factor_enabled"`
}

var visibilities = map[string]bool{"public": true, "private": true, "anonymous": true}

// SettingsService manages per-user account settings. A settings row is
// created with defaults the first time it is read.
type SettingsService struct {
	settings port.SettingsStore
}

// NewSettingsService returns a settings service over the given store.
func NewSettingsService(settings port.SettingsStore) *SettingsService {
	return &SettingsService{settings: settings}
}

func defaultSettings(userID string) *domain.AccountSettings {
	return &domain.AccountSettings{
		UserID:             userID,
		EmailNotifications: true,
		ProfileVisibility:  "public",
	}
}

// Get returns the user's settings, creating the default row on first read.
func (s *SettingsService) Get(ctx context.Context, userID string) (*domain.AccountSettings, error) {
	settings, err := s.settings.GetSettings(ctx, userID)
	if errors.Is(err, port.ErrUserNotFound) {
		return s.settings.UpsertSettings(ctx, defaultSettings(userID))
	}
	return settings, err
}

// Update applies a partial settings update on top of the current values.
func (s *SettingsService) Update(ctx context.Context, userID string, patch SettingsPatch) (*domain.AccountSettings, error) {
	if patch.ProfileVisibility != nil && !visibilities[*patch.ProfileVisibility] {
		return nil, fmt.Errorf("%w: profile visibility must be public, private, or anonymous", port.ErrValidation)
	}

	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.EmailNotifications != nil {
		settings.EmailNotifications = *patch.EmailNotifications
	}
	if patch.ProfileVisibility != nil {
		settings.ProfileVisibility = *patch.ProfileVisibility
	}
	if patch.DataSharing != nil {
		settings.DataSharing = *patch.DataSharing
	}
	if patch.TwoFactorEnabled != nil {
		settings.TwoFactorEnabled = *patch.TwoFactorEnabled
	}
	return s.settings.UpsertSettings(ctx, settings)
}
