package game

import (
	"time"

	"stockgame/internal/models"
)

// The room lifecycle is waiting -> in_progress -> finished, with
// finished terminal. All transitions live here; callers persist the
// mutated room inside a per-room serialized transaction.

// AdvanceResult reports what an advance did.
type AdvanceResult struct {
	// NoOp is set when the room was already finished; nothing changed.
	NoOp bool
	// Finished is set when this advance reached the terminal day and
	// transitioned the room to finished.
	Finished bool
}

// StartRoom transitions a room from waiting to in_progress, seeding the
// current date and day counter.
func StartRoom(room *models.Room, now time.Time) error {
	if room.Status != models.RoomStatusWaiting {
		return InvalidStatef("game already %s", room.Status)
	}

	room.Status = models.RoomStatusInProgress
	room.GameStartedAt = &now

	currentDate := room.StartDate
	room.CurrentDate = &currentDate
	room.CurrentDay = 0

	if room.GameMode == models.GameModeSync || room.GameMode == models.GameModeSyncAuto {
		room.DayStartedAt = &now
	}

	return nil
}

// AdvanceRoom moves a room to the next trading day. It is the only
// place day arithmetic happens: current_date steps to the next trading
// day and current_day becomes the trading-day ordinal since start_date.
// Advancing a finished room is an idempotent no-op. Callers must also
// reset every player's ready flag in the same atomic step.
func AdvanceRoom(room *models.Room, now time.Time) (AdvanceResult, error) {
	if room.GameMode == models.GameModeAsync {
		return AdvanceResult{}, InvalidModef("day advancement is only available in sync modes")
	}

	if room.Status == models.RoomStatusFinished {
		return AdvanceResult{NoOp: true}, nil
	}

	if room.Status != models.RoomStatusInProgress {
		return AdvanceResult{}, InvalidStatef("game is not in progress (status: %s)", room.Status)
	}

	current, err := room.CurrentDateTime()
	if err != nil {
		return AdvanceResult{}, Validationf("invalid current date: %v", err)
	}
	start, err := room.StartDateTime()
	if err != nil {
		return AdvanceResult{}, Validationf("invalid start date: %v", err)
	}

	next := NextTradingDay(current)
	nextStr := next.Format(models.DateLayout)
	room.CurrentDate = &nextStr
	room.CurrentDay = TradingDaysBetween(start, next)
	room.DayStartedAt = &now

	result := AdvanceResult{}
	if room.CurrentDay >= room.Config.NumDays {
		room.Status = models.RoomStatusFinished
		room.GameEndedAt = &now
		room.DayStartedAt = nil
		result.Finished = true
	}

	return result, nil
}

// EndRoom forces a room into the finished state.
func EndRoom(room *models.Room, now time.Time) error {
	if room.Status == models.RoomStatusFinished {
		return InvalidStatef("game already finished")
	}

	room.Status = models.RoomStatusFinished
	room.GameEndedAt = &now
	room.DayStartedAt = nil
	return nil
}

// SetTimer updates the current day's timer. In sync_auto mode the
// auto-advance interval follows the timer so the scheduler respects the
// update immediately.
func SetTimer(room *models.Room, durationSeconds int, now time.Time) error {
	if room.GameMode == models.GameModeAsync {
		return InvalidModef("timers are only available in sync modes")
	}
	if room.Status == models.RoomStatusFinished {
		return InvalidStatef("game already finished")
	}
	if durationSeconds < 0 || durationSeconds > 3600 {
		return Validationf("timer duration must be between 0 and 3600 seconds, got %d", durationSeconds)
	}

	room.DayTimeLimit = &durationSeconds
	if room.GameMode == models.GameModeSyncAuto {
		room.DayDurationSeconds = &durationSeconds
	}
	if durationSeconds > 0 {
		room.DayStartedAt = &now
	}
	return nil
}

// CheckJoinable verifies a room can accept a new player.
func CheckJoinable(room *models.Room) error {
	if room.Status == models.RoomStatusFinished {
		return InvalidStatef("this room has already finished, cannot join")
	}
	return nil
}

// CheckReadyAllowed verifies ready-marking applies to this room's mode.
// Readiness counts are advisory for display; they never gate advancement.
func CheckReadyAllowed(room *models.Room) error {
	if room.GameMode == models.GameModeAsync {
		return InvalidModef("ready state is only available in sync modes")
	}
	return nil
}

// defaultSyncAutoTimer is assumed when a sync_auto room has neither an
// explicit day time limit nor an auto-advance duration.
const defaultSyncAutoTimer = 30

// TimeRemaining returns the seconds left in the current day, or nil
// when the room has no timer. Prefers the explicit day_time_limit, then
// the sync_auto advance interval.
func TimeRemaining(room *models.Room, now time.Time) *int {
	var limit int
	switch {
	case room.DayTimeLimit != nil && *room.DayTimeLimit > 0:
		limit = *room.DayTimeLimit
	case room.GameMode == models.GameModeSyncAuto && room.DayDurationSeconds != nil && *room.DayDurationSeconds > 0:
		limit = *room.DayDurationSeconds
	case room.GameMode == models.GameModeSyncAuto:
		limit = defaultSyncAutoTimer
	default:
		return nil
	}

	remaining := limit
	if room.DayStartedAt != nil {
		elapsed := int(now.Sub(*room.DayStartedAt).Seconds())
		remaining = limit - elapsed
		if remaining < 0 {
			remaining = 0
		}
	}
	return &remaining
}

// AutoAdvanceDue reports whether a sync_auto room's day interval has
// elapsed. The scheduler re-checks this on the row-locked room before
// advancing so one elapsed threshold never produces two advances.
func AutoAdvanceDue(room *models.Room, now time.Time) bool {
	if room.Status != models.RoomStatusInProgress || room.GameMode != models.GameModeSyncAuto {
		return false
	}
	if room.DayDurationSeconds == nil || *room.DayDurationSeconds <= 0 || room.DayStartedAt == nil {
		return false
	}
	return now.Sub(*room.DayStartedAt) >= time.Duration(*room.DayDurationSeconds)*time.Second
}
