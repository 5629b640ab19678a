package service

import (
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
)

// ScheduleTimeLayout is the wall-clock timestamp format accepted from clients.
const ScheduleTimeLayout = "2006-01-02T15:04"

// FixedTimeLayout is the "HH:MM" time-of-day stored on the user profile.
const FixedTimeLayout = "15:04"

type EffectiveSchedule struct {
	RunAt    time.Time // UTC
	Specific bool
	Timezone string
}

// ResolveSchedule turns a requested schedule into one effective UTC instant.
//
// With specific=true the requested timestamp is taken verbatim, interpreted
// in the owner's timezone. Otherwise the owner must have a fixed posting time
// enabled and the requested date is combined with that time-of-day. The
// composed instant is re-checked against now: substituting the fixed
// time-of-day can land in the past even when the requested instant was in
// the future.
func ResolveSchedule(specific bool, scheduleTime string, owner *models.User, now time.Time) (*EffectiveSchedule, error) {
	loc := ownerLocation(owner)

	requested, err := time.ParseInLocation(ScheduleTimeLayout, scheduleTime, loc)
	if err != nil {
		slog.Info(err.Error())
		return nil, ErrInvalidTime
	}

	if specific {
		runAt := requested.UTC()
		if !runAt.After(now) {
			return nil, ErrNotInFuture
		}
		return &EffectiveSchedule{RunAt: runAt, Specific: true, Timezone: timezoneName(owner)}, nil
	}

	if !owner.FixedScheduleEnabled || !owner.FixedScheduleTime.Valid {
		return nil, ErrNoSchedulePolicy
	}

	fixed, err := time.Parse(FixedTimeLayout, owner.FixedScheduleTime.String)
	if err != nil {
		slog.Info(err.Error())
		return nil, ErrNoSchedulePolicy
	}

	composed := time.Date(requested.Year(), requested.Month(), requested.Day(),
		fixed.Hour(), fixed.Minute(), 0, 0, loc).UTC()
	if !composed.After(now) {
		return nil, ErrNotInFuture
	}

	return &EffectiveSchedule{RunAt: composed, Specific: false, Timezone: timezoneName(owner)}, nil
}

func ownerLocation(owner *models.User) *time.Location {
	loc, err := time.LoadLocation(timezoneName(owner))
	if err != nil {
		slog.Info(err.Error())
		return time.UTC
	}
	return loc
}

func timezoneName(owner *models.User) string {
	if owner.Timezone == "" {
		return "UTC"
	}
	return owner.Timezone
}
