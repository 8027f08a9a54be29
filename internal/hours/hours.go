// Package hours resolves business-open status against the weekly
// schedule, special-day overrides, and a holiday calendar, in the fixed
// business timezone.
package hours

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

// BusinessTimezone is the fixed timezone for all hours math, independent
// of where the process runs.
var BusinessTimezone = mustLoadLocation("Asia/Jerusalem")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Source names the rule that produced a status.
type Source string

const (
	SourceSpecialDay Source = "special_day"
	SourceHoliday    Source = "holiday"
	SourceErevChag   Source = "erev_chag"
	SourceRegular    Source = "regular"
)

// Status is the resolved open/closed state for one calendar date.
type Status struct {
	Open      bool
	OpenTime  string
	CloseTime string
	Reason    string
	Notes     string
	Source    Source
	DayName   string
}

// CurrentStatus is the richer result of IsCurrentlyOpen, including a
// human-facing message and, when closed, the next opening.
type CurrentStatus struct {
	Open         bool
	Message      string
	NextOpening  string
	HasNext      bool
}

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Resolver answers business-hours questions against the relational store's
// weekly-hours, special-day, and an in-process holiday calendar.
type Resolver struct {
	store    *store.Store
	holidays HolidayCalendar
}

func NewResolver(s *store.Store, holidays HolidayCalendar) *Resolver {
	return &Resolver{store: s, holidays: holidays}
}

// StatusFor resolves the open/closed status for date, in resolution order:
// special day, then holiday, then weekly hours (with erev-chag detection).
func (r *Resolver) StatusFor(ctx context.Context, date time.Time) (*Status, error) {
	date = date.In(BusinessTimezone)
	dateStr := date.Format("2006-01-02")
	dayName := dayNames[int(date.Weekday())]

	special, err := r.store.GetSpecialDay(ctx, dateStr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up special day")
	}
	if special != nil {
		status := &Status{Source: SourceSpecialDay, Notes: special.Notes, DayName: dayName, Reason: special.Name}
		if special.Closed {
			status.Open = false
			return status, nil
		}
		status.Open = true
		if special.OpenTime != nil {
			status.OpenTime = *special.OpenTime
		}
		if special.CloseTime != nil {
			status.CloseTime = *special.CloseTime
		}
		return status, nil
	}

	if r.holidays.IsHoliday(date) {
		return &Status{Open: false, Source: SourceHoliday, Reason: r.holidays.Name(date), DayName: dayName}, nil
	}

	week, err := r.store.GetHoursForDay(ctx, int(date.Weekday()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up weekly hours")
	}
	if week == nil || week.Closed {
		return &Status{Open: false, Source: SourceRegular, DayName: dayName}, nil
	}

	openTime, closeTime := "", ""
	if week.OpenTime != nil {
		openTime = *week.OpenTime
	}
	if week.CloseTime != nil {
		closeTime = *week.CloseTime
	}

	if r.tomorrowIsHoliday(date) {
		return &Status{
			Open: true, OpenTime: openTime, CloseTime: closeTime,
			Source: SourceErevChag, Reason: "erev chag", DayName: dayName,
		}, nil
	}

	return &Status{Open: true, OpenTime: openTime, CloseTime: closeTime, Source: SourceRegular, DayName: dayName}, nil
}

func (r *Resolver) tomorrowIsHoliday(date time.Time) bool {
	return r.holidays.IsHoliday(date.AddDate(0, 0, 1))
}

// IsCurrentlyOpen resolves whether the business is open right now,
// accounting for overnight shifts: if yesterday's shift closes at or
// before its open time, the early-morning tail of "now" may still belong
// to yesterday's shift.
func (r *Resolver) IsCurrentlyOpen(ctx context.Context, now time.Time) (*CurrentStatus, error) {
	now = now.In(BusinessTimezone)
	yesterday := now.AddDate(0, 0, -1)

	yesterdayStatus, err := r.StatusFor(ctx, yesterday)
	if err != nil {
		return nil, err
	}
	if yesterdayStatus.Open && isOvernight(yesterdayStatus.OpenTime, yesterdayStatus.CloseTime) {
		nowClock := now.Format("15:04")
		if nowClock < yesterdayStatus.CloseTime {
			return &CurrentStatus{Open: true, Message: fmt.Sprintf("Open until %s", yesterdayStatus.CloseTime)}, nil
		}
	}

	today, err := r.StatusFor(ctx, now)
	if err != nil {
		return nil, err
	}
	if !today.Open {
		next, label, err := r.NextOpening(ctx, now)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return &CurrentStatus{Open: false, Message: "Currently closed"}, nil
		}
		return &CurrentStatus{Open: false, Message: fmt.Sprintf("Currently closed, opens %s", label), NextOpening: label, HasNext: true}, nil
	}

	nowClock := now.Format("15:04")
	switch {
	case nowClock < today.OpenTime:
		return &CurrentStatus{Open: false, Message: fmt.Sprintf("Not yet open today, opens at %s", today.OpenTime)}, nil
	case isOvernight(today.OpenTime, today.CloseTime) || nowClock < today.CloseTime:
		return &CurrentStatus{Open: true, Message: fmt.Sprintf("Open until %s", today.CloseTime)}, nil
	default:
		next, label, err := r.NextOpening(ctx, now)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return &CurrentStatus{Open: false, Message: "Currently closed"}, nil
		}
		return &CurrentStatus{Open: false, Message: fmt.Sprintf("Closed for today, opens %s", label), NextOpening: label, HasNext: true}, nil
	}
}

func isOvernight(openTime, closeTime string) bool {
	return openTime != "" && closeTime != "" && closeTime <= openTime
}

// NextOpening scans the next 7 days for the first open status, labeling
// day 1 as "tomorrow" and later days by name.
func (r *Resolver) NextOpening(ctx context.Context, from time.Time) (*Status, string, error) {
	for i := 1; i <= 7; i++ {
		date := from.AddDate(0, 0, i)
		status, err := r.StatusFor(ctx, date)
		if err != nil {
			return nil, "", err
		}
		if status.Open {
			label := status.DayName
			if i == 1 {
				label = "tomorrow"
			}
			if status.OpenTime != "" {
				label = fmt.Sprintf("%s at %s", label, status.OpenTime)
			}
			return status, label, nil
		}
	}
	return nil, "", nil
}
