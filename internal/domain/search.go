package domain

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Mode is the identity form a destination is searched by.
type Mode string

const (
	ModeCoordinate Mode = "coordinate"
	ModeCode       Mode = "code"
	ModeCity       Mode = "city"
)

// SearchRequest is built by the caller for a single hotel search.
type SearchRequest struct {
	City       string      `validate:"omitempty,max=128"`
	Code       string      `validate:"omitempty,len=3,alpha"`
	Coordinate *Coordinate `validate:"omitempty"`
	CheckIn    time.Time   `validate:"required"`
	CheckOut   time.Time   `validate:"required,gtfield=CheckIn"`
	Adults     int         `validate:"min=1,max=9"`
	Limit      int         `validate:"min=1,max=50"`
	Currency   string      `validate:"omitempty,len=3,alpha"`
	RadiusKm   float64     `validate:"gte=0,lte=100"`
}

// Destination is the resolved, single-mode identity of a search.
// Precedence: coordinate, then location code, then city name.
type Destination struct {
	Mode       Mode
	Coordinate *Coordinate
	Code       string
	City       string
}

// Destination picks exactly one identity mode; lower-precedence forms are dropped.
func (r SearchRequest) Destination() (Destination, error) {
	switch {
	case r.Coordinate != nil:
		c := *r.Coordinate
		return Destination{Mode: ModeCoordinate, Coordinate: &c}, nil
	case strings.TrimSpace(r.Code) != "":
		return Destination{Mode: ModeCode, Code: strings.ToUpper(strings.TrimSpace(r.Code))}, nil
	case strings.TrimSpace(r.City) != "":
		return Destination{Mode: ModeCity, City: strings.TrimSpace(r.City)}, nil
	}
	return Destination{}, ErrNoDestination
}

// Label is a human-readable name for the destination, used in geocode queries.
func (d Destination) Label() string {
	if d.City != "" {
		return d.City
	}
	return d.Code
}

type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func (s Stay) In() string  { return s.CheckIn.Format(dateLayout) }
func (s Stay) Out() string { return s.CheckOut.Format(dateLayout) }

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) { return time.Parse(dateLayout, s) }

// ProviderQuery is what the orchestrator hands to every provider adapter.
type ProviderQuery struct {
	Destination Destination
	Center      *Coordinate // resolved search center; nil when unknown
	Stay        Stay
	Adults      int
	Limit       int
	Currency    string
	RadiusKm    float64 // 0 = provider default
}

// Point returns the destination coordinate, else the resolved center.
func (q ProviderQuery) Point() *Coordinate {
	if q.Destination.Coordinate != nil {
		return q.Destination.Coordinate
	}
	return q.Center
}

// SearchResult is handed to the display layer.
type SearchResult struct {
	ID        string           `json:"id"`
	Hotels    []Hotel          `json:"hotels"`
	NoResults bool             `json:"no_results"`
	Center    *Coordinate      `json:"center,omitempty"`
	Label     string           `json:"label,omitempty"`    // airport display name for code searches
	Timezone  string           `json:"timezone,omitempty"` // destination timezone when known
	Providers []ProviderReport `json:"providers"`
}

type ProviderReport struct {
	Provider string      `json:"provider"`
	Outcome  OutcomeKind `json:"outcome"`
	Count    int         `json:"count"`
	Detail   string      `json:"detail,omitempty"`
}
