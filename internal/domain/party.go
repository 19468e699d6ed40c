package domain

import (
	"sort"
	"time"

	apperrors "samplehub/internal/errors"
)

type Brand struct {
	ID    string
	Name  string
	Email *string
}

type Factory struct {
	ID   string
	Name string
	// AssignedRepRef may hold either a rep id or the rep's user id; upstream
	// data has carried both.
	AssignedRepRef *string
}

type Rep struct {
	ID             string
	UserID         string
	Name           string
	Email          *string
	IsActive       bool
	LastAssignedAt *time.Time
}

// AssignRep picks the rep for a new sample request. The factory's own
// assignment wins when it resolves to an active rep; otherwise the active rep
// assigned least recently is chosen, never-assigned reps first and ties broken
// by id.
func AssignRep(factory Factory, activeReps []Rep) (string, error) {
	candidates := make([]Rep, 0, len(activeReps))
	for _, r := range activeReps {
		if r.IsActive {
			candidates = append(candidates, r)
		}
	}

	if factory.AssignedRepRef != nil && *factory.AssignedRepRef != "" {
		ref := *factory.AssignedRepRef
		for _, r := range candidates {
			if r.ID == ref || r.UserID == ref {
				return r.ID, nil
			}
		}
	}

	if len(candidates) == 0 {
		return "", apperrors.NewAssignmentError("no active rep available to assign")
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].LastAssignedAt, candidates[j].LastAssignedAt
		switch {
		case a == nil && b == nil:
			return candidates[i].ID < candidates[j].ID
		case a == nil:
			return true
		case b == nil:
			return false
		case a.Equal(*b):
			return candidates[i].ID < candidates[j].ID
		default:
			return a.Before(*b)
		}
	})

	return candidates[0].ID, nil
}
