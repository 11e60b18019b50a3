package service

import (
	"context"
	"strings"

	"github.com/paarshedu/entrance-exam-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Settings whose key carries this prefix are safe to serve unauthenticated:
// site title, contact details, social links. Everything else (mail
// credentials, integration tokens) stays behind the admin endpoint.
const siteSettingPrefix = "site_"

type SettingService struct {
	settingRepo *repository.SettingRepository
	log         zerolog.Logger
}

func NewSettingService(settingRepo *repository.SettingRepository, log zerolog.Logger) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		log:         log.With().Str("component", "setting_service").Logger(),
	}
}

func (s *SettingService) GetAllSettings(ctx context.Context) (map[string]string, error) {
	settingsList, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get all settings")
		return nil, err
	}

	settingsMap := make(map[string]string)
	for _, setting := range settingsList {
		settingsMap[setting.Key] = setting.Value
	}
	return settingsMap, nil
}

func (s *SettingService) UpdateSettings(ctx context.Context, settingsMap map[string]string) error {
	// Settings are low volume; iterative upsert is fine.
	for key, value := range settingsMap {
		if err := s.settingRepo.Upsert(ctx, key, value); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("failed to update setting")
			return err
		}
	}
	return nil
}

// GetSiteSettings returns the site_* subset for the public landing pages.
func (s *SettingService) GetSiteSettings(ctx context.Context) (map[string]string, error) {
	all, err := s.GetAllSettings(ctx)
	if err != nil {
		return nil, err
	}
	return filterSiteSettings(all), nil
}

func filterSiteSettings(all map[string]string) map[string]string {
	site := make(map[string]string, len(all))
	for key, value := range all {
		if strings.HasPrefix(key, siteSettingPrefix) {
			site[key] = value
		}
	}
	return site
}

func (s *SettingService) GetSettingByKey(ctx context.Context, key string) (string, error) {
	setting, err := s.settingRepo.GetByKey(ctx, key)
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}
