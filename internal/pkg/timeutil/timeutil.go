// Package timeutil converts between HH:MM clock strings and minute-of-day
// integers, with the midnight-wrap convention used throughout the engine:
// "00:00" means end-of-day (1440), not start-of-day, so that a train's last
// stop sorts after same-hour departures instead of before them.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the modulus for all day-wrap arithmetic.
const MinutesPerDay = 1440

// Parse converts an "HH:MM" string to minutes-of-day. The literal "00:00"
// maps to 1440; every other valid value maps to h*60+m with 0<=h<24 and
// 0<=m<60.
func Parse(hhmm string) (int, error) {
	if hhmm == "00:00" {
		return MinutesPerDay, nil
	}

	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0, fmt.Errorf("timeutil: malformed time %q", hhmm)
	}

	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("timeutil: invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("timeutil: invalid minute in %q", hhmm)
	}

	return hour*60 + minute, nil
}

// Format renders minutes-of-day as "HH:MM", reducing modulo 1440 first.
func Format(minutes int) string {
	m := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Duration returns the elapsed minutes from a to b, wrapping past midnight.
func Duration(a, b int) int {
	d := (b - a) % MinutesPerDay
	if d < 0 {
		d += MinutesPerDay
	}
	return d
}

// FormatDuration renders a minute count as "Xh Ym".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
