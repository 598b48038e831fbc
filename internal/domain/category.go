package domain

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	RaceCategoryHorse     RaceCategory = "horse"
	RaceCategoryGreyhound RaceCategory = "greyhound"
	RaceCategoryHarness   RaceCategory = "harness"
)

// RaceCategory is one of the fixed racing codes that races are listed under. The set is closed;
// categories received from a schedule source that are not listed here have no RaceCategory.
type RaceCategory string

type categoryMeta struct {
	externalID      string
	iconReference   string
	accessibleLabel string
	glyph           string
}

var categories = map[RaceCategory]categoryMeta{
	RaceCategoryHorse: {
		externalID:      "4a2788f8-e825-4d36-9894-efd4baf1cfae",
		iconReference:   "horse-racing",
		accessibleLabel: "Horse Racing",
		glyph:           "🏇",
	},
	RaceCategoryGreyhound: {
		externalID:      "9daef0d7-bf3c-4f50-921d-8e818c60fe61",
		iconReference:   "greyhound-racing",
		accessibleLabel: "Greyhound Racing",
		glyph:           "🐕",
	},
	RaceCategoryHarness: {
		externalID:      "161d9be2-e909-4326-8c2c-35ed71fb460b",
		iconReference:   "harness-racing",
		accessibleLabel: "Harness Racing",
		glyph:           "🛞",
	},
}

// byExternalID is the reverse index of categories, built once at init.
var byExternalID = func() map[string]RaceCategory {
	m := make(map[string]RaceCategory, len(categories))
	for c, meta := range categories {
		m[meta.externalID] = c
	}
	return m
}()

// CategoryFromExternalID resolves the identifier used by the schedule source to a category. The
// match is exact; the boolean is false for any identifier outside the known set.
func CategoryFromExternalID(id string) (RaceCategory, bool) {
	c, ok := byExternalID[id]
	return c, ok
}

// AllCategories returns every category in display order.
func AllCategories() []RaceCategory {
	return []RaceCategory{RaceCategoryHorse, RaceCategoryGreyhound, RaceCategoryHarness}
}

// ExternalID is the stable identifier of the category on the wire.
func (c RaceCategory) ExternalID() string {
	return categories[c].externalID
}

// ExternalUUID returns ExternalID parsed as a UUID, or uuid.Nil for an invalid category.
func (c RaceCategory) ExternalUUID() uuid.UUID {
	id, err := uuid.Parse(c.ExternalID())
	if err != nil {
		return uuid.Nil
	}
	return id
}

// IconReference names the visual asset associated with the category.
func (c RaceCategory) IconReference() string {
	return categories[c].iconReference
}

// AccessibleLabel is the human readable name read out by assistive technology.
func (c RaceCategory) AccessibleLabel() string {
	return categories[c].accessibleLabel
}

// Glyph is the terminal stand-in for the category icon.
func (c RaceCategory) Glyph() string {
	return categories[c].glyph
}

func (c RaceCategory) String() string {
	return string(c)
}

// Valid reports an error if c is not one of the known categories.
func (c RaceCategory) Valid() error {
	if _, ok := categories[c]; !ok {
		return fmt.Errorf("unknown race category %q", string(c))
	}
	return nil
}
