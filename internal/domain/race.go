package domain

import (
	"fmt"
	"sort"
	"time"
)

const (
	// ExpiryWindow is how long a race stays listed after its advertised start.
	ExpiryWindow = time.Minute
	// DefaultListSize is the number of races shown in the next-to-go list.
	DefaultListSize = 5
)

// Race is a summary of an upcoming race as listed in a next-to-go display.
type Race struct {
	ID              string       // ID is the unique identifier of the race at the schedule source
	Name            string       // Name is the race name, often including sponsor or distance
	Number          int          // Number is the race number within the meeting
	MeetingID       string       // MeetingID identifies the meeting (race day at a venue)
	MeetingName     string       // MeetingName is the display name of the meeting, usually the venue
	Venue           string       // Venue is the state or country of the meeting
	Category        RaceCategory // Category is the racing code of the race
	AdvertisedStart time.Time    // AdvertisedStart is the scheduled start time of the race
}

// Countdown returns the time remaining until the race starts; negative once it has started.
func (r Race) Countdown(now time.Time) time.Duration {
	return r.AdvertisedStart.Sub(now)
}

// Expired reports whether the race has been running for longer than ExpiryWindow.
func (r Race) Expired(now time.Time) bool {
	return r.Countdown(now) < -ExpiryWindow
}

// CategoryFilter is the set of categories selected for display. An empty filter selects every
// category.
type CategoryFilter map[RaceCategory]bool

// NewCategoryFilter returns a filter selecting the given categories.
func NewCategoryFilter(cs ...RaceCategory) CategoryFilter {
	f := make(CategoryFilter, len(cs))
	for _, c := range cs {
		f[c] = true
	}
	return f
}

// Includes reports whether races of category c pass the filter.
func (f CategoryFilter) Includes(c RaceCategory) bool {
	if len(f) == 0 {
		return true
	}
	return f[c]
}

// Toggle returns a copy of the filter with c added or removed.
func (f CategoryFilter) Toggle(c RaceCategory) CategoryFilter {
	out := make(CategoryFilter, len(f)+1)
	for k, v := range f {
		if v {
			out[k] = true
		}
	}
	if out[c] {
		delete(out, c)
	} else {
		out[c] = true
	}
	return out
}

// Selected returns the selected categories in display order.
func (f CategoryFilter) Selected() []RaceCategory {
	out := make([]RaceCategory, 0, len(f))
	for _, c := range AllCategories() {
		if f[c] {
			out = append(out, c)
		}
	}
	return out
}

// NextToGo selects at most limit races that pass the filter and have not expired, ordered by
// advertised start. A limit of zero or less uses DefaultListSize.
func NextToGo(races []Race, filter CategoryFilter, now time.Time, limit int) []Race {
	if limit <= 0 {
		limit = DefaultListSize
	}
	out := make([]Race, 0, len(races))
	for _, r := range races {
		if !filter.Includes(r.Category) || r.Expired(now) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AdvertisedStart.Equal(out[j].AdvertisedStart) {
			return out[i].ID < out[j].ID
		}
		return out[i].AdvertisedStart.Before(out[j].AdvertisedStart)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FormatCountdown renders a countdown the way it is shown on the race list, e.g. "1h 2m",
// "4m 5s", "30s" or "-45s" once the race has started.
func FormatCountdown(d time.Duration) string {
	d = d.Truncate(time.Second)
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%s%dh %dm", sign, h, m)
	case m > 0:
		return fmt.Sprintf("%s%dm %ds", sign, m, s)
	default:
		return fmt.Sprintf("%s%ds", sign, s)
	}
}
