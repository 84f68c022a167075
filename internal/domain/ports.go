package domain

import (
	"context"
	"time"
)

// HotelProvider is one hotel data source. Search never returns an error;
// failures are reported through the Outcome.
type HotelProvider interface {
	Name() string
	Search(ctx context.Context, q ProviderQuery) Outcome
}

// Place is a geocoding hit.
type Place struct {
	Coordinate  Coordinate
	DisplayName string
}

type Geocoder interface {
	Name() string
	Search(ctx context.Context, query string) (Place, error)
	Reverse(ctx context.Context, c Coordinate) (Place, error)
}

// Airport is one row of the airport reference data.
type Airport struct {
	Code       string      `json:"code"`
	Name       string      `json:"name"`
	Coordinate *Coordinate `json:"coordinate,omitempty"`
	Timezone   string      `json:"timezone,omitempty"`
}

type AirportStore interface {
	LookupCoordinate(ctx context.Context, code string) (Coordinate, error)
	LookupTimezone(ctx context.Context, code string) (string, error)
	LookupDisplayName(ctx context.Context, code string) (string, error)
	GetAirport(ctx context.Context, code string) (Airport, error)
}

type AirportWriter interface {
	UpsertAirport(ctx context.Context, a Airport) error
}

// PlaceDetails is what a places provider knows about one named hotel.
type PlaceDetails struct {
	PlaceID      string
	Address      *string
	Coordinate   *Coordinate
	Rating       *float64
	ReviewsTotal *int
	PriceLevel   *int
	Phone        *string
	Website      *string
	MapsURL      *string
	PhotoURL     *string
}

type PlacesLookup interface {
	Lookup(ctx context.Context, name string, near Coordinate) (PlaceDetails, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
