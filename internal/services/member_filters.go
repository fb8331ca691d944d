package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"
)

// memberCandidate is a member moving through the filter pipeline
type memberCandidate struct {
	row         repositories.MemberRow
	age         *int
	submitted   int64
	lastUpdated *time.Time
}

type activity struct {
	submitted   int64
	lastUpdated *time.Time
}

// annotateActivity folds feedback rows into per-user submitted counts and latest update times
func annotateActivity(stamps []repositories.FeedbackStamp) map[uint]activity {
	out := make(map[uint]activity)
	for _, s := range stamps {
		a := out[s.UserID]
		a.submitted++
		if a.lastUpdated == nil || s.UpdatedAt.After(*a.lastUpdated) {
			t := s.UpdatedAt
			a.lastUpdated = &t
		}
		out[s.UserID] = a
	}
	return out
}

// AgeOn returns whole years between birthday and today
func AgeOn(birthday, today time.Time) int {
	age := today.Year() - birthday.Year()
	if today.Month() < birthday.Month() || (today.Month() == birthday.Month() && today.Day() < birthday.Day()) {
		age--
	}
	return age
}

// ParseAgeRange parses "a-b" into inclusive bounds
func ParseAgeRange(s string) (int, int, bool) {
	lo, hi, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil || a < 0 {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil || b < 0 {
		return 0, 0, false
	}
	return a, b, true
}

// climbingLevelMatcher returns a predicate for a climbing level code, or nil
// when the code is not one of the four known grading systems.
func climbingLevelMatcher(level string) func(repositories.MemberRow) bool {
	code, err := strconv.Atoi(strings.TrimSpace(level))
	if err != nil {
		return nil
	}
	name, ok := constants.GradingNames[code]
	if !ok {
		return nil
	}

	switch code {
	case constants.GradeYDS, constants.GradeFrancia:
		return func(r repositories.MemberRow) bool {
			return r.RopeGrading != nil && *r.RopeGrading == name
		}
	default:
		return func(r repositories.MemberRow) bool {
			return r.BoulderingGrading != nil && *r.BoulderingGrading == name
		}
	}
}

func filterCandidates(in []memberCandidate, keep func(memberCandidate) bool) []memberCandidate {
	out := in[:0]
	for _, c := range in {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// orderKey normalizes order_by into a field and direction; unknown keys fall back to the default
func orderKey(orderBy string) (field string, desc bool) {
	switch strings.TrimSpace(orderBy) {
	case "last_updated":
		return "last_updated", false
	case "-last_updated":
		return "last_updated", true
	case "submitted":
		return "submitted", false
	case "-submitted":
		return "submitted", true
	default:
		return orderKey(constants.DefaultMemberOrdering)
	}
}

// compareTimes orders nil after every timestamp, the way the store sorts NULLs ascending
func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}

// sortCandidates sorts in place and keeps store order for ties
func sortCandidates(cs []memberCandidate, orderBy string) {
	field, desc := orderKey(orderBy)
	sort.SliceStable(cs, func(i, j int) bool {
		var cmp int
		if field == "submitted" {
			switch {
			case cs[i].submitted < cs[j].submitted:
				cmp = -1
			case cs[i].submitted > cs[j].submitted:
				cmp = 1
			}
		} else {
			cmp = compareTimes(cs[i].lastUpdated, cs[j].lastUpdated)
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

// paginate slices a result set. pageSize <= 0 returns everything on one page.
func paginate[T any](items []T, page, pageSize int) (pageItems []T, totalPages int, ok bool) {
	if pageSize <= 0 {
		return items, 1, true
	}
	if page <= 0 {
		page = 1
	}
	totalPages = (len(items) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		return nil, totalPages, false
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages, true
}
