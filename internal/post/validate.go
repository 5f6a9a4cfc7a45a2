package post

import (
	"time"

	"backend-yogida/internal/apperr"
)

// MaxFilterTags caps how many tags a filter query may select at once.
const MaxFilterTags = 5

// Allowlist is the injected read-only vocabulary of permitted tags and
// destination cities, supplied by configuration at startup.
type Allowlist struct {
	tags   map[string]struct{}
	cities map[string]struct{}
}

func NewAllowlist(tags, cities []string) *Allowlist {
	a := &Allowlist{
		tags:   make(map[string]struct{}, len(tags)),
		cities: make(map[string]struct{}, len(cities)),
	}
	for _, t := range tags {
		a.tags[t] = struct{}{}
	}
	for _, c := range cities {
		a.cities[c] = struct{}{}
	}
	return a
}

// ValidateTags fails fast on the first tag outside the allow-list.
func (a *Allowlist) ValidateTags(tags []string) error {
	for _, t := range tags {
		if _, ok := a.tags[t]; !ok {
			return apperr.InvalidTag(t)
		}
	}
	return nil
}

func (a *Allowlist) ValidateCity(city string) error {
	if _, ok := a.cities[city]; !ok {
		return apperr.InvalidCity(city)
	}
	return nil
}

// validateShape checks the structural consistency of an itinerary: the number
// of schedule days must equal the inclusive day span of the date range, and
// every day must have exactly one distance entry per stop. Distance values
// themselves are client-supplied and never checked for geometric plausibility.
func validateShape(schedules [][]Stop, distances [][]float64, startDate, endDate time.Time) error {
	expected := dayCount(startDate, endDate)
	if len(schedules) != expected {
		return apperr.ScheduleDateMismatch(expected, len(schedules))
	}

	for i := range schedules {
		var dayDistances []float64
		if i < len(distances) {
			dayDistances = distances[i]
		}
		if len(schedules[i]) != len(dayDistances) {
			return apperr.ScheduleDistanceMismatch(i)
		}
	}
	if len(distances) > len(schedules) {
		return apperr.ScheduleDistanceMismatch(len(schedules))
	}
	return nil
}

// dayCount returns the calendar-day span of [start, end] inclusive of both
// endpoints. Times of day are ignored.
func dayCount(start, end time.Time) int {
	start = truncateToDay(start)
	end = truncateToDay(end)
	return int(end.Sub(start).Hours()/24) + 1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
