package models

import (
	"strings"
	"time"
)

// DayOfWeek is the academy's abbreviated weekday. Sunday is not a training day.
type DayOfWeek string

const (
	DayMonday    DayOfWeek = "Seg"
	DayTuesday   DayOfWeek = "Ter"
	DayWednesday DayOfWeek = "Qua"
	DayThursday  DayOfWeek = "Qui"
	DayFriday    DayOfWeek = "Sex"
	DaySaturday  DayOfWeek = "Sab"
)

// Days lists the training days in calendar order.
var Days = []DayOfWeek{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday}

var weekdays = map[DayOfWeek]time.Weekday{
	DayMonday:    time.Monday,
	DayTuesday:   time.Tuesday,
	DayWednesday: time.Wednesday,
	DayThursday:  time.Thursday,
	DayFriday:    time.Friday,
	DaySaturday:  time.Saturday,
}

// Valid reports whether d is one of the six training days.
func (d DayOfWeek) Valid() bool {
	_, ok := weekdays[d]
	return ok
}

// Weekday maps d to its time.Weekday. ok is false for unknown values.
func (d DayOfWeek) Weekday() (time.Weekday, bool) {
	wd, ok := weekdays[d]
	return wd, ok
}

// DayFromWeekday converts a time.Weekday to the academy code; Sunday has none.
func DayFromWeekday(wd time.Weekday) (DayOfWeek, bool) {
	for day, candidate := range weekdays {
		if candidate == wd {
			return day, true
		}
	}
	return "", false
}

// ParseDayOfWeek accepts the code case-insensitively ("seg", "SEG").
func ParseDayOfWeek(raw string) (DayOfWeek, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	day := DayOfWeek(strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:]))
	return day, day.Valid()
}

// ClassTemplate is a recurring weekly class slot.
type ClassTemplate struct {
	ID        int64     `db:"id" json:"id"`
	DayOfWeek DayOfWeek `db:"dia_semana" json:"dia_semana"`
	Time      string    `db:"horario" json:"horario"`
	Activity  string    `db:"modalidade" json:"modalidade"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassFilter narrows the agenda listing.
type ClassFilter struct {
	DayOfWeek DayOfWeek
}
