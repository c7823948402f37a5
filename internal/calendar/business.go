// Package calendar implements the business-day arithmetic the scheduler is
// built on. Weeks start on Monday and only Saturday and Sunday are skipped.
package calendar

import "time"

// IsWeekend reports whether d is a Saturday or Sunday.
func IsWeekend(d Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// MondayOfWeek rolls d back to the Monday on or before it.
func MondayOfWeek(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// NextMonday returns the first Monday strictly after d.
func NextMonday(d Date) Date {
	return MondayOfWeek(d).AddDays(7)
}

// NextBusinessDay returns d when it is a business day, otherwise the Monday after.
func NextBusinessDay(d Date) Date {
	for IsWeekend(d) {
		d = d.AddDays(1)
	}
	return d
}

// AddBusinessDays steps n business days forward from d. Stepping zero days
// lands on the first business day on or after d.
func AddBusinessDays(d Date, n int) Date {
	d = NextBusinessDay(d)
	// Whole weeks first so large n stays cheap.
	if n >= 5 {
		d = d.AddDays(n / 5 * 7)
		n %= 5
	}
	for n > 0 {
		d = d.AddDays(1)
		if !IsWeekend(d) {
			n--
		}
	}
	return d
}

// WeekBucketIndex counts whole weeks from baseMonday to the week containing d.
// Dates before baseMonday yield negative indices.
func WeekBucketIndex(d, baseMonday Date) int {
	days := MondayOfWeek(baseMonday).DaysUntil(MondayOfWeek(d))
	if days < 0 {
		return -((-days + 6) / 7)
	}
	return days / 7
}

// BusinessDaysBetween counts business days in (from, to]. The result is
// negative when to precedes from.
func BusinessDaysBetween(from, to Date) int {
	if to.Before(from) {
		return -BusinessDaysBetween(to, from)
	}
	count := 0
	for d := from.AddDays(1); !d.After(to); d = d.AddDays(1) {
		if !IsWeekend(d) {
			count++
		}
	}
	return count
}
