package domain

import "time"

// RoleRequirement demands a minimum count of a role across a candidate set.
type RoleRequirement struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// MatchConstraints is the fairness policy for one queue. The rating window
// relaxes as an entry waits, so stale entries can pull in fresher ones.
type MatchConstraints struct {
	// Maximum rating difference between two entries before relaxation.
	MaxRatingDelta float64 `json:"maxRatingDelta"`
	// Whether all entries in a match must share a region.
	SameRegionRequired bool `json:"sameRegionRequired"`
	// Role counts a full candidate set must collectively satisfy.
	RoleRequirements []RoleRequirement `json:"roleRequirements"`
	// Wait time after which the queue is considered starved.
	MaxWaitTimeSeconds int64 `json:"maxWaitTimeSeconds"`
	// Window growth in rating points per second waited.
	ExpansionRate float64 `json:"expansionRate"`
}

// PermissiveConstraints match almost anyone quickly.
func PermissiveConstraints() MatchConstraints {
	return MatchConstraints{
		MaxRatingDelta:     500,
		SameRegionRequired: false,
		MaxWaitTimeSeconds: 60,
		ExpansionRate:      10,
	}
}

// StrictConstraints keep matches tight at the cost of wait time.
func StrictConstraints() MatchConstraints {
	return MatchConstraints{
		MaxRatingDelta:     100,
		SameRegionRequired: true,
		MaxWaitTimeSeconds: 300,
		ExpansionRate:      5,
	}
}

// EffectiveRatingDelta is the wait-adjusted rating window for an entry.
func (c MatchConstraints) EffectiveRatingDelta(entry QueueEntry, now time.Time) float64 {
	waitSeconds := entry.WaitTime(now).Seconds()
	if waitSeconds < 0 {
		waitSeconds = 0
	}
	return c.MaxRatingDelta + waitSeconds*c.ExpansionRate
}

// CanMatch reports whether two entries are pairwise compatible. The looser of
// the two effective windows applies: an older entry can pull in a fresher one
// but not vice versa.
func (c MatchConstraints) CanMatch(a, b QueueEntry, now time.Time) bool {
	maxDelta := c.EffectiveRatingDelta(a, now)
	if d := c.EffectiveRatingDelta(b, now); d > maxDelta {
		maxDelta = d
	}

	diff := a.Rating.Rating - b.Rating.Rating
	if diff < 0 {
		diff = -diff
	}
	if diff > maxDelta {
		return false
	}

	if c.SameRegionRequired {
		ra, rb := a.Metadata.Region, b.Metadata.Region
		switch {
		case ra == nil && rb == nil:
			// Both absent counts as equal.
		case ra != nil && rb != nil && *ra == *rb:
		default:
			return false
		}
	}

	return true
}

// RolesSatisfied checks the assembled candidate set against the role
// requirements: the multiset union of entry roles must cover every
// required (role, count). Entries without roles never satisfy a requirement.
func (c MatchConstraints) RolesSatisfied(entries []QueueEntry) bool {
	if len(c.RoleRequirements) == 0 {
		return true
	}

	available := make(map[string]int)
	for _, e := range entries {
		for _, role := range e.Metadata.Roles {
			available[role]++
		}
	}

	for _, req := range c.RoleRequirements {
		if available[req.Role] < req.Count {
			return false
		}
	}
	return true
}
