package timecalc

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as "3h 05m".
func FormatDuration(d time.Duration) string {
	h := int64(d.Hours())
	m := int64(d.Minutes()) % 60
	return fmt.Sprintf("%dh %02dm", h, m)
}

// FormatClock formats a duration as HH:MM:SS.
func FormatClock(d time.Duration) string {
	s := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// FormatFull formats a timestamp as "2006-01-02 15:04".
func FormatFull(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// FormatYMD formats the date part of a timestamp.
func FormatYMD(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatHM formats the clock part of a timestamp.
func FormatHM(t time.Time) string {
	return t.Format("15:04")
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// FirstOfMonth returns midnight on the first day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
