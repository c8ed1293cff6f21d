package service

import (
	"time"

	"go-medical-appointment/config"
)

// Clock is the single source of "now" for the booking engine.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// TimeWindowPolicy decides how far ahead booking and rescheduling may reach.
// All calendar arithmetic happens in the clinic location.
type TimeWindowPolicy struct {
	clock              Clock
	loc                *time.Location
	initialBookingDays int
	rescheduleMinDays  int
	rescheduleMaxDays  int
}

func NewTimeWindowPolicy(clock Clock, loc *time.Location, cfg config.SchedulingConfig) *TimeWindowPolicy {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TimeWindowPolicy{
		clock:              clock,
		loc:                loc,
		initialBookingDays: cfg.InitialBookingDays,
		rescheduleMinDays:  cfg.RescheduleMinDays,
		rescheduleMaxDays:  cfg.RescheduleMaxDays,
	}
}

func (p *TimeWindowPolicy) Now() time.Time {
	return p.clock.Now().In(p.loc)
}

func (p *TimeWindowPolicy) Location() *time.Location {
	return p.loc
}

// Today is midnight of the current calendar day.
func (p *TimeWindowPolicy) Today() time.Time {
	return p.DateOf(p.clock.Now())
}

// DateOf truncates t to midnight of its calendar day in the clinic location.
func (p *TimeWindowPolicy) DateOf(t time.Time) time.Time {
	y, m, d := t.In(p.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.loc)
}

// BookingWindow is [today, today+initial days], both ends inclusive.
func (p *TimeWindowPolicy) BookingWindow() (time.Time, time.Time) {
	today := p.Today()
	return today, today.AddDate(0, 0, p.initialBookingDays)
}

// RescheduleWindow is [today+min days, today+max days], both ends inclusive.
func (p *TimeWindowPolicy) RescheduleWindow() (time.Time, time.Time) {
	today := p.Today()
	return today.AddDate(0, 0, p.rescheduleMinDays), today.AddDate(0, 0, p.rescheduleMaxDays)
}

// CanReschedule is true when the appointment is at least the minimum lead time
// away. An appointment at exactly now+min days is still reschedulable.
func (p *TimeWindowPolicy) CanReschedule(appointmentTime time.Time) bool {
	cutoff := p.clock.Now().Add(time.Duration(p.rescheduleMinDays) * 24 * time.Hour)
	return !appointmentTime.Before(cutoff)
}

func (p *TimeWindowPolicy) IsPast(t time.Time) bool {
	return t.Before(p.clock.Now())
}

func (p *TimeWindowPolicy) WithinRescheduleWindow(t time.Time) bool {
	start, end := p.RescheduleWindow()
	day := p.DateOf(t)
	return !day.Before(start) && !day.After(end)
}
