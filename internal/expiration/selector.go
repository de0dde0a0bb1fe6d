// Package expiration selects the expiration message that applies to a
// release line given how many days remain until its end-of-support date.
package expiration

import (
	"sort"
	"time"

	"github.com/relaychat/supportgate/model"
)

// DaysRemaining returns the whole days between now and expiration, floored.
// A past expiration yields a negative count.
func DaysRemaining(expiration, now time.Time) int {
	diff := expiration.Sub(now)
	days := int(diff.Hours() / 24)
	if diff < 0 && diff.Hours()/24 != float64(days) {
		days--
	}
	return days
}

// Select picks the most relevant message for the given expiration date: the
// tightest threshold not yet exceeded. Messages are ordered ascending by
// RemainingDays on a copy (stable for equal thresholds) and the first whose
// threshold covers the actual days remaining wins.
//
// Returns nil when there are no messages, expiration is unset, or the
// expiration date is already in the past.
func Select(messages []model.Message, expiration time.Time, now time.Time) *model.Message {
	if len(messages) == 0 || expiration.IsZero() {
		return nil
	}

	remaining := DaysRemaining(expiration, now)
	if remaining < 0 {
		return nil
	}

	sorted := make([]model.Message, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RemainingDays < sorted[j].RemainingDays
	})

	for i := range sorted {
		if sorted[i].RemainingDays >= remaining {
			return &sorted[i]
		}
	}

	return nil
}
