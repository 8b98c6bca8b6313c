package service

import "time"

// StreakBonuses holds the credit amounts the evaluator can award.
type StreakBonuses struct {
	Base    int64 // every day the streak advances or restarts
	Weekly  int64 // extra when the new streak hits a multiple of 7
	Monthly int64 // extra when the new streak hits a multiple of 30
}

// StreakResult is the outcome of evaluating one login against the previous
// login timestamp.
type StreakResult struct {
	Streak  int
	Bonus   int64
	Changed bool // false on a same-day login: nothing to apply
}

// EvaluateStreak computes the new streak value and bonus for a login at now,
// given the previous login timestamp and streak.
//
// Days are counted on calendar-day boundaries in UTC, not rolling 24h
// windows: a login at 23:59 UTC followed by one at 00:01 UTC the next day
// advances the streak, and a login exactly 24h later on the same UTC date
// does not.
func EvaluateStreak(lastLogin, now time.Time, streak int, bonuses StreakBonuses) StreakResult {
	if streak < 1 {
		streak = 1
	}

	days := civilDaysBetween(lastLogin, now)
	switch {
	case days <= 0:
		return StreakResult{Streak: streak, Bonus: 0, Changed: false}
	case days == 1:
		newStreak := streak + 1
		bonus := bonuses.Base
		if newStreak%7 == 0 {
			bonus += bonuses.Weekly
		}
		if newStreak%30 == 0 {
			bonus += bonuses.Monthly
		}
		return StreakResult{Streak: newStreak, Bonus: bonus, Changed: true}
	default:
		return StreakResult{Streak: 1, Bonus: bonuses.Base, Changed: true}
	}
}

// civilDaysBetween returns the number of UTC calendar dates crossed between
// a and b.
func civilDaysBetween(a, b time.Time) int {
	ad := a.UTC().Truncate(24 * time.Hour)
	bd := b.UTC().Truncate(24 * time.Hour)
	return int(bd.Sub(ad) / (24 * time.Hour))
}
