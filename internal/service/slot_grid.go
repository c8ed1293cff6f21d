package service

import (
	"fmt"
	"sort"
	"time"

	"go-medical-appointment/config"
	"go-medical-appointment/internal/domain/entity"
)

// SlotGrid produces the bookable time points of a calendar day. It never
// looks at existing appointments.
type SlotGrid struct {
	opening time.Duration
	closing time.Duration
	step    time.Duration
	loc     *time.Location
}

func NewSlotGrid(cfg config.SchedulingConfig, loc *time.Location) (*SlotGrid, error) {
	opening, err := entity.ParseClock(cfg.OpeningTime)
	if err != nil {
		return nil, fmt.Errorf("opening time %q: %w", cfg.OpeningTime, err)
	}
	closing, err := entity.ParseClock(cfg.ClosingTime)
	if err != nil {
		return nil, fmt.Errorf("closing time %q: %w", cfg.ClosingTime, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SlotGrid{opening: opening, closing: closing, step: cfg.SlotStep, loc: loc}, nil
}

// Generate returns the clinic-wide grid for date: opening inclusive, closing exclusive.
func (g *SlotGrid) Generate(date time.Time) []time.Time {
	return g.between(date, g.opening, g.closing)
}

// ForDoctor applies the doctor's working hours. A doctor without any entries
// uses the clinic-wide grid; otherwise a weekday without entries is a day off.
func (g *SlotGrid) ForDoctor(doctor *entity.Doctor, date time.Time) []time.Time {
	if doctor == nil || len(doctor.WorkingHours) == 0 {
		return g.Generate(date)
	}

	var slots []time.Time
	for _, wh := range doctor.HoursOn(date.In(g.loc).Weekday()) {
		start, end, err := wh.Bounds()
		if err != nil {
			continue
		}
		slots = append(slots, g.between(date, start, end)...)
	}
	if len(slots) < 2 {
		return slots
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	out := slots[:1]
	for _, t := range slots[1:] {
		if !t.Equal(out[len(out)-1]) {
			out = append(out, t)
		}
	}
	return out
}

// OnGrid reports whether t is one of the doctor's slots on t's own day.
func (g *SlotGrid) OnGrid(doctor *entity.Doctor, t time.Time) bool {
	for _, slot := range g.ForDoctor(doctor, t) {
		if slot.Equal(t) {
			return true
		}
	}
	return false
}

func (g *SlotGrid) between(date time.Time, start, end time.Duration) []time.Time {
	if g.step <= 0 || start >= end {
		return nil
	}

	y, m, d := date.In(g.loc).Date()
	var slots []time.Time
	for off := start; off < end; off += g.step {
		// wall clock, so a DST shift does not move 09:00
		slots = append(slots, time.Date(y, m, d, 0, 0, 0, int(off), g.loc))
	}
	return slots
}
