package service

import (
	"time"

	"github.com/sudoeste-fight/academy-api/internal/models"
)

// IsOccurrenceFinished reports whether today's occurrence of a weekly class has started.
// Only an occurrence on now's weekday can be finished; on any other day the answer is false.
// The comparison happens in now's location and is strict: at exactly HH:MM it is not finished.
// An unparseable time is never finished.
func IsOccurrenceFinished(scheduledTime string, day models.DayOfWeek, now time.Time) bool {
	weekday, ok := day.Weekday()
	if !ok || now.Weekday() != weekday {
		return false
	}
	if !clockPattern.MatchString(scheduledTime) {
		return false
	}
	clock, err := time.Parse("15:04", scheduledTime)
	if err != nil {
		return false
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	return now.After(start)
}
