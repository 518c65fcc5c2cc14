package neo

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by the feed for query
// parameters, day keys and close-approach dates.
const DateLayout = "2006-01-02"

// TopCount is the number of records FetchTop returns at most.
const TopCount = 3

// Record is a single near-Earth object flattened from the feed.
type Record struct {
	Name     string
	Diameter decimal.Decimal // km, mean of estimated min and max
	Velocity decimal.Decimal // km/h at the first close approach
	Date     time.Time       // first close-approach date, UTC midnight
}

// feedResponse mirrors the subset of the NeoWs feed payload that is read.
// Pointer fields distinguish an absent or null value from a zero value.
type feedResponse struct {
	NearEarthObjects map[string][]*feedObject `json:"near_earth_objects"`
}

type feedObject struct {
	Name              *string            `json:"name"`
	EstimatedDiameter *estimatedDiameter `json:"estimated_diameter"`
	CloseApproachData []*closeApproach   `json:"close_approach_data"`
}

type estimatedDiameter struct {
	Kilometers *diameterRange `json:"kilometers"`
}

type diameterRange struct {
	Min *decimal.Decimal `json:"estimated_diameter_min"`
	Max *decimal.Decimal `json:"estimated_diameter_max"`
}

type closeApproach struct {
	Date             *string           `json:"close_approach_date"`
	RelativeVelocity *relativeVelocity `json:"relative_velocity"`
}

type relativeVelocity struct {
	KilometersPerHour *decimal.Decimal `json:"kilometers_per_hour"`
}
