package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulingConfig_Validate(t *testing.T) {
	valid := SchedulingConfig{
		InitialBookingDays: 7,
		RescheduleMinDays:  2,
		RescheduleMaxDays:  30,
		OpeningTime:        "09:00",
		ClosingTime:        "18:00",
		SlotStep:           time.Hour,
	}

	tests := []struct {
		name    string
		mutate  func(c *SchedulingConfig)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *SchedulingConfig) {}},
		{name: "bad opening time", mutate: func(c *SchedulingConfig) { c.OpeningTime = "9am" }, wantErr: true},
		{name: "bad closing time", mutate: func(c *SchedulingConfig) { c.ClosingTime = "25:00" }, wantErr: true},
		{name: "negative horizon", mutate: func(c *SchedulingConfig) { c.InitialBookingDays = -1 }, wantErr: true},
		{name: "min above max", mutate: func(c *SchedulingConfig) { c.RescheduleMinDays = 31 }, wantErr: true},
		{name: "opening after closing is tolerated", mutate: func(c *SchedulingConfig) { c.OpeningTime = "19:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSchedulingConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppConfig_Location(t *testing.T) {
	loc, err := AppConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = AppConfig{Timezone: "Asia/Jakarta"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())

	_, err = AppConfig{Timezone: "Nowhere/Else"}.Location()
	assert.Error(t, err)
}
