// Package records implements the pure order-records pipeline: date-range
// resolution, filtering, sorting, summarizing and CSV serialization. No
// function here performs I/O or mutates its input.
package records

import (
	"time"

	"github.com/astrasoul/records-api/internal/model"
)

// DateRange is an inclusive interval. A nil bound is unbounded on that side;
// both nil means no date constraint at all.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Bounded reports whether at least one side constrains the interval.
func (r DateRange) Bounded() bool {
	return r.From != nil || r.To != nil
}

// Contains reports whether t lies within the interval.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// startOfDay and endOfDay work in t's location. Day boundaries are local
// time on purpose: the admin filtering near midnight must bucket orders the
// way the viewer's wall clock does, not UTC.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ResolveDateRange converts a quick-filter selection into a concrete
// interval relative to now. For custom mode either bound may be absent,
// which leaves that side unbounded rather than disabling the filter.
func ResolveDateRange(mode model.DateMode, now time.Time, customFrom, customTo *time.Time) DateRange {
	switch mode {
	case model.DateModeToday:
		from, to := startOfDay(now), endOfDay(now)
		return DateRange{From: &from, To: &to}
	case model.DateModeYesterday:
		y := now.AddDate(0, 0, -1)
		from, to := startOfDay(y), endOfDay(y)
		return DateRange{From: &from, To: &to}
	case model.DateModeLast7Days:
		from, to := startOfDay(now.AddDate(0, 0, -6)), endOfDay(now)
		return DateRange{From: &from, To: &to}
	case model.DateModeThisMonth:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to := endOfDay(now)
		return DateRange{From: &from, To: &to}
	case model.DateModeCustom:
		var r DateRange
		if customFrom != nil {
			from := startOfDay(*customFrom)
			r.From = &from
		}
		if customTo != nil {
			to := endOfDay(*customTo)
			r.To = &to
		}
		return r
	default: // all
		return DateRange{}
	}
}
