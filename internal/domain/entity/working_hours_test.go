package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateWorkingHours(t *testing.T) {
	tests := []struct {
		name    string
		entries []WorkingHours
		wantErr error
	}{
		{
			name:    "empty is valid",
			entries: nil,
		},
		{
			name: "disjoint windows on same day",
			entries: []WorkingHours{
				{DayOfWeek: time.Monday, StartTime: "09:00", EndTime: "12:00"},
				{DayOfWeek: time.Monday, StartTime: "12:00", EndTime: "15:00"},
			},
		},
		{
			name: "same window on different days",
			entries: []WorkingHours{
				{DayOfWeek: time.Monday, StartTime: "09:00", EndTime: "12:00"},
				{DayOfWeek: time.Tuesday, StartTime: "09:00", EndTime: "12:00"},
			},
		},
		{
			name: "overlap on same day regardless of order",
			entries: []WorkingHours{
				{DayOfWeek: time.Friday, StartTime: "13:00", EndTime: "17:00"},
				{DayOfWeek: time.Friday, StartTime: "09:00", EndTime: "13:30"},
			},
			wantErr: ErrOverlappingWorkingHours,
		},
		{
			name: "start after end",
			entries: []WorkingHours{
				{DayOfWeek: time.Monday, StartTime: "18:00", EndTime: "09:00"},
			},
			wantErr: ErrInvalidWorkingHours,
		},
		{
			name: "malformed time",
			entries: []WorkingHours{
				{DayOfWeek: time.Monday, StartTime: "9", EndTime: "10:00"},
			},
			wantErr: ErrInvalidTimeFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkingHours(tt.entries)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("monday")
	assert.True(t, ok)
	assert.Equal(t, time.Monday, d)

	d, ok = ParseWeekday(" SUNDAY ")
	assert.True(t, ok)
	assert.Equal(t, time.Sunday, d)

	_, ok = ParseWeekday("someday")
	assert.False(t, ok)
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("09:30")
	assert.NoError(t, err)
	assert.Equal(t, 9*time.Hour+30*time.Minute, d)

	_, err = ParseClock("930")
	assert.Error(t, err)
}
