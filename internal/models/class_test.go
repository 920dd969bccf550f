package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDayOfWeek(t *testing.T) {
	day, ok := ParseDayOfWeek(" seg ")
	assert.True(t, ok)
	assert.Equal(t, DayMonday, day)

	_, ok = ParseDayOfWeek("Dom")
	assert.False(t, ok)
	_, ok = ParseDayOfWeek("")
	assert.False(t, ok)
}

func TestDayWeekdayMapping(t *testing.T) {
	for _, day := range Days {
		wd, ok := day.Weekday()
		assert.True(t, ok)
		back, ok := DayFromWeekday(wd)
		assert.True(t, ok)
		assert.Equal(t, day, back)
	}

	_, ok := DayFromWeekday(time.Sunday)
	assert.False(t, ok)
	_, ok = DayOfWeek("Mon").Weekday()
	assert.False(t, ok)
}
