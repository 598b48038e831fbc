package racing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// nextRacesResponse is the envelope returned by the racing API for the nextraces method. Races
// are keyed by ID in raceSummaries; nextToGoIDs carries the order the API considers next-to-go.
type nextRacesResponse struct {
	Status  int           `json:"status"`
	Message string        `json:"message"`
	Data    nextRacesData `json:"data"`
}

// err reports a failure the API signalled in the envelope rather than the HTTP status. A missing
// status is treated as success.
func (r nextRacesResponse) err() error {
	if r.Status == 0 || r.Status == http.StatusOK {
		return nil
	}
	if r.Message != "" {
		return fmt.Errorf("status %d: %s", r.Status, r.Message)
	}
	return fmt.Errorf("status %d", r.Status)
}

type nextRacesData struct {
	NextToGoIDs   []string               `json:"next_to_go_ids"`
	RaceSummaries map[string]raceSummary `json:"race_summaries"`
}

// raceSummary is a single race as described by the racing API.
type raceSummary struct {
	RaceID          string          `json:"race_id"`          // RaceID is the unique race identifier
	RaceName        string          `json:"race_name"`        // RaceName is the race title
	RaceNumber      int             `json:"race_number"`      // RaceNumber is the race number at the meeting
	MeetingID       string          `json:"meeting_id"`       // MeetingID identifies the meeting
	MeetingName     string          `json:"meeting_name"`     // MeetingName is usually the venue name
	CategoryID      string          `json:"category_id"`      // CategoryID is the external race category identifier
	AdvertisedStart advertisedStart `json:"advertised_start"` // AdvertisedStart is the scheduled jump time
	VenueState      string          `json:"venue_state"`      // VenueState is the state of the venue
	VenueCountry    string          `json:"venue_country"`    // VenueCountry is the country of the venue
}

// advertisedStart is a unix timestamp wrapped in an object by the API.
type advertisedStart struct {
	Seconds int64 `json:"seconds"`
}

func (a advertisedStart) Time() time.Time {
	return time.Unix(a.Seconds, 0).UTC()
}

// venue returns the most specific location available for the race's meeting.
func (r raceSummary) venue() string {
	if r.VenueState != "" {
		return r.VenueState
	}
	return r.VenueCountry
}

func decodeNextRaces(b []byte) (nextRacesResponse, error) {
	var resp nextRacesResponse
	err := json.Unmarshal(b, &resp)
	return resp, err
}

// sortByStart orders race ids by advertised start, then by id.
func sortByStart(ids []string, summaries map[string]raceSummary) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := summaries[ids[i]].AdvertisedStart.Seconds, summaries[ids[j]].AdvertisedStart.Seconds
		if a == b {
			return ids[i] < ids[j]
		}
		return a < b
	})
}
