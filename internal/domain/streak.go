package domain

import (
	"sort"
	"time"
)

// Streak is the result of a streak calculation over a set of contribution days.
type Streak struct {
	Longest   int
	Current   int
	TotalDays int
}

// CalculateStreak computes the longest and current runs of consecutive
// contribution days, plus the count of distinct active days.
//
// The current streak is anchored at today or yesterday: not having
// committed yet today does not break an in-progress streak, but a gap of
// more than one day before today resets the current streak to zero.
// Today is a parameter so the calculation stays deterministic under test.
func CalculateStreak(days []time.Time, today time.Time) Streak {
	distinct := distinctDays(days)
	if len(distinct) == 0 {
		return Streak{}
	}

	longest, running := 1, 1
	for i := 1; i < len(distinct); i++ {
		if distinct[i].Sub(distinct[i-1]) == 24*time.Hour {
			running++
			if running > longest {
				longest = running
			}
		} else {
			running = 1
		}
	}

	return Streak{
		Longest:   longest,
		Current:   currentStreak(distinct, today),
		TotalDays: len(distinct),
	}
}

// distinctDays truncates every timestamp to midnight UTC, removes
// duplicates, and returns the days sorted ascending.
func distinctDays(days []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(days))
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func currentStreak(sorted []time.Time, today time.Time) int {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	last := sorted[len(sorted)-1]

	// More than one day of silence before today ends the streak.
	if today.Sub(last) > 24*time.Hour {
		return 0
	}

	streak := 1
	for i := len(sorted) - 2; i >= 0; i-- {
		if sorted[i+1].Sub(sorted[i]) != 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}
