package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const ClockLayout = "15:04"

// WorkingHours is one day-of-week window of a doctor. Times are "HH:MM" in clinic-local time.
type WorkingHours struct {
	ID        int          `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"doctor_id"`
	DayOfWeek time.Weekday `gorm:"type:smallint;not null" json:"day_of_week"`
	StartTime string       `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime   string       `gorm:"type:varchar(5);not null" json:"end_time"`
}

func (WorkingHours) TableName() string {
	return "doctor_working_hours"
}

// Bounds parses StartTime/EndTime as offsets from midnight.
func (w WorkingHours) Bounds() (start, end time.Duration, err error) {
	start, err = ParseClock(w.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseClock(w.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseClock turns "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// ParseWeekday accepts "MONDAY", "monday" or "Monday".
func ParseWeekday(s string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(s))]
	return d, ok
}

// ValidateWorkingHours rejects malformed entries, empty windows and overlaps on the same weekday.
func ValidateWorkingHours(entries []WorkingHours) error {
	type window struct{ start, end time.Duration }
	byDay := make(map[time.Weekday][]window)

	for _, e := range entries {
		start, end, err := e.Bounds()
		if err != nil {
			return ErrInvalidTimeFormat
		}
		if start >= end {
			return ErrInvalidWorkingHours
		}
		byDay[e.DayOfWeek] = append(byDay[e.DayOfWeek], window{start, end})
	}

	for _, windows := range byDay {
		sort.Slice(windows, func(i, j int) bool { return windows[i].start < windows[j].start })
		for i := 1; i < len(windows); i++ {
			// half-open: touching windows (10-12, 12-14) do not overlap
			if windows[i].start < windows[i-1].end {
				return ErrOverlappingWorkingHours
			}
		}
	}
	return nil
}
