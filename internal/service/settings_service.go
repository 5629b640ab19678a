package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type SettingsService interface {
	GetSettingsInfo(ctx context.Context, userID int64) (*transfer.SettingsInfo, error)
	UpdateSettings(ctx context.Context, userID int64, update *transfer.SettingsUpdate) error
}

type settingsService struct {
	u repository.UserRepository
}

func NewSettingsService(u repository.UserRepository) SettingsService {
	return &settingsService{
		u: u,
	}
}

func (s *settingsService) GetSettingsInfo(ctx context.Context, userID int64) (*transfer.SettingsInfo, error) {
	user, isExist, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !isExist {
		slog.Info(ErrUserNotFound.Error())
		return nil, ErrUserNotFound
	}

	info := &transfer.SettingsInfo{
		FixedScheduleEnabled: user.FixedScheduleEnabled,
		Timezone:             user.Timezone,
	}
	if user.FixedScheduleTime.Valid {
		info.FixedScheduleTime = user.FixedScheduleTime.String
	}

	return info, nil
}

// UpdateSettings stores the fixed posting time preference. The time-of-day is
// validated as "HH:MM"; the timezone must be an IANA zone name.
func (s *settingsService) UpdateSettings(ctx context.Context, userID int64, update *transfer.SettingsUpdate) error {
	var fixedTime sql.NullString

	if update.FixedScheduleTime != "" {
		parsed, err := time.Parse(FixedTimeLayout, update.FixedScheduleTime)
		if err != nil {
			slog.Info(err.Error())
			return ErrInvalidTime
		}
		fixedTime = sql.NullString{String: parsed.Format(FixedTimeLayout), Valid: true}
	}

	if update.FixedScheduleEnabled && !fixedTime.Valid {
		return ErrNoSchedulePolicy
	}

	timezone := update.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		slog.Info(err.Error())
		return ErrInvalidTime
	}

	return s.u.UpdateSchedulePrefs(ctx, userID, update.FixedScheduleEnabled, fixedTime, timezone)
}
