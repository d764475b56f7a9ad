// Package period resolves the query-period selector shared by the ledger's
// aggregation queries. Exactly one branch of the selector applies, in this
// precedence order: ISO week > month+year > year > explicit date range >
// unrestricted. Weeks start on Monday.
package period

import "time"

// Selector scopes an aggregation query. Zero value means all-time.
type Selector struct {
	Week  *int // ISO week number (1-53); Year defaults to the current year
	Month *int // 1-12, combined with Year
	Year  *int
	Start *time.Time
	End   *time.Time
}

// Range is a resolved half-open interval [Start, End). Bounded is false for
// the all-time selector, in which case Start/End are meaningless.
type Range struct {
	Start   time.Time
	End     time.Time
	Bounded bool
}

// Resolve applies the precedence rules against now (used only to default the
// week's year). Branches are never combined.
func (s Selector) Resolve(now time.Time) Range {
	switch {
	case s.Week != nil:
		year := now.Year()
		if s.Year != nil {
			year = *s.Year
		}
		start := ISOWeekStart(year, *s.Week)
		return Range{Start: start, End: start.AddDate(0, 0, 7), Bounded: true}
	case s.Month != nil && s.Year != nil:
		start := time.Date(*s.Year, time.Month(*s.Month), 1, 0, 0, 0, 0, time.UTC)
		return Range{Start: start, End: start.AddDate(0, 1, 0), Bounded: true}
	case s.Year != nil:
		start := time.Date(*s.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Range{Start: start, End: start.AddDate(1, 0, 0), Bounded: true}
	case s.Start != nil || s.End != nil:
		start := time.Unix(0, 0).UTC()
		if s.Start != nil {
			start = Day(*s.Start)
		}
		end := Day(now).AddDate(0, 0, 1)
		if s.End != nil {
			end = Day(*s.End).AddDate(0, 0, 1)
		}
		return Range{Start: start, End: end, Bounded: true}
	default:
		return Range{}
	}
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayRange is the half-open interval covering the calendar day of t.
func DayRange(t time.Time) Range {
	start := Day(t)
	return Range{Start: start, End: start.AddDate(0, 0, 1), Bounded: true}
}

// ISOWeekStart returns the Monday starting the given ISO week.
func ISOWeekStart(year, week int) time.Time {
	// January 4th is always inside ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := jan4.AddDate(0, 0, -(wd - 1))
	return monday.AddDate(0, 0, (week-1)*7)
}

// CurrentWeek is the range of the ISO week containing t.
func CurrentWeek(t time.Time) Range {
	year, week := t.UTC().ISOWeek()
	start := ISOWeekStart(year, week)
	return Range{Start: start, End: start.AddDate(0, 0, 7), Bounded: true}
}

// LastDays covers the n calendar days ending with the day of t, inclusive.
func LastDays(t time.Time, n int) Range {
	end := Day(t).AddDate(0, 0, 1)
	return Range{Start: end.AddDate(0, 0, -n), End: end, Bounded: true}
}
