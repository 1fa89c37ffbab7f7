// Package recurrence computes the next occurrence date of a recurring chore.
package recurrence

import (
	"fmt"
	"time"

	"github.com/kochanowski/housepulse/internal/model"
)

// Rule is the recurrence configuration of a chore.
//
// Fixed-day rules (weekly, monthly) require Day or DayOfMonth and anchor on
// the calendar; interval rules (biweekly, everyN*) anchor on the last
// generated date.
type Rule struct {
	Type       model.RecurrenceType
	Day        *int // weekday, 1 (Sunday) .. 7 (Saturday)
	DayOfMonth *int // 1..31
	Interval   *int // for everyN* rules, clamped to a minimum of 1
}

// FromChore extracts the chore's recurrence rule.
func FromChore(c model.RecurringChore) Rule {
	return Rule{
		Type:       c.RecurrenceType,
		Day:        c.RecurrenceDay,
		DayOfMonth: c.RecurrenceDayOfMonth,
		Interval:   c.RecurrenceInterval,
	}
}

func (r Rule) interval() int {
	if r.Interval == nil || *r.Interval < 1 {
		return 1
	}
	return *r.Interval
}

// NextOccurrence computes the next occurrence on/after ref. It is a pure
// function: identical inputs always yield identical output.
//
// Returns nil when a fixed-day rule is missing its day field (unconfigured
// chore). For interval rules without a lastGenerated anchor the first
// occurrence is ref itself.
func NextOccurrence(r Rule, lastGenerated *time.Time, ref time.Time) *time.Time {
	switch r.Type {
	case model.RecurDaily:
		next := startOfDay(ref).AddDate(0, 0, 1)
		return &next

	case model.RecurWeekly:
		if r.Day == nil {
			return nil
		}
		// Occurrence of the configured weekday within ref's week; roll a
		// week forward when it is not strictly after ref.
		offset := (*r.Day - 1) - int(ref.Weekday())
		thisWeek := startOfDay(ref).AddDate(0, 0, offset)
		if thisWeek.After(ref) {
			return &thisWeek
		}
		next := thisWeek.AddDate(0, 0, 7)
		return &next

	case model.RecurMonthly:
		if r.DayOfMonth == nil {
			return nil
		}
		thisMonth := time.Date(ref.Year(), ref.Month(), *r.DayOfMonth, 0, 0, 0, 0, ref.Location())
		if thisMonth.After(ref) {
			return &thisMonth
		}
		next := thisMonth.AddDate(0, 1, 0)
		return &next

	case model.RecurBiweekly:
		return intervalNext(lastGenerated, ref, func(t time.Time) time.Time {
			return t.AddDate(0, 0, 14)
		})

	case model.RecurEveryNDays:
		return intervalNext(lastGenerated, ref, func(t time.Time) time.Time {
			return t.AddDate(0, 0, r.interval())
		})

	case model.RecurEveryNWeeks:
		return intervalNext(lastGenerated, ref, func(t time.Time) time.Time {
			return t.AddDate(0, 0, 7*r.interval())
		})

	case model.RecurEveryNMonths:
		return intervalNext(lastGenerated, ref, func(t time.Time) time.Time {
			return t.AddDate(0, r.interval(), 0)
		})
	}
	return nil
}

func intervalNext(lastGenerated *time.Time, ref time.Time, add func(time.Time) time.Time) *time.Time {
	if lastGenerated == nil {
		// First occurrence is "now".
		return &ref
	}
	next := add(*lastGenerated)
	return &next
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Describe returns a human-readable description of the rule.
func (r Rule) Describe() string {
	switch r.Type {
	case model.RecurDaily:
		return "Repeats daily"
	case model.RecurWeekly:
		if r.Day != nil {
			return "Repeats weekly on " + time.Weekday(*r.Day-1).String()
		}
		return "Repeats weekly"
	case model.RecurBiweekly:
		return "Repeats every 2 weeks"
	case model.RecurMonthly:
		if r.DayOfMonth != nil {
			return fmt.Sprintf("Repeats monthly on day %d", *r.DayOfMonth)
		}
		return "Repeats monthly"
	case model.RecurEveryNDays:
		if n := r.interval(); n > 1 {
			return fmt.Sprintf("Repeats every %d days", n)
		}
		return "Repeats daily"
	case model.RecurEveryNWeeks:
		if n := r.interval(); n > 1 {
			return fmt.Sprintf("Repeats every %d weeks", n)
		}
		return "Repeats weekly"
	case model.RecurEveryNMonths:
		if n := r.interval(); n > 1 {
			return fmt.Sprintf("Repeats every %d months", n)
		}
		return "Repeats monthly"
	}
	return ""
}
