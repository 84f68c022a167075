// Package liteapi is the inventory provider searched either by coordinate
// or by IATA code, never both.
package liteapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
	"stayfinder/internal/normalize"
)

const (
	DefaultBase = "https://api.liteapi.travel"

	minRadiusMeters     = 1000
	defaultRadiusMeters = 15000
)

// fallbackCoords covers codes the airport store might not have.
var fallbackCoords = map[string]domain.Coordinate{
	"ICN": {Lat: 37.4602, Lon: 126.4407},
	"GMP": {Lat: 37.5583, Lon: 126.7906},
	"HND": {Lat: 35.5494, Lon: 139.7798},
	"NRT": {Lat: 35.7730, Lon: 140.3929},
	"CTS": {Lat: 42.7752, Lon: 141.6923},
	"KIX": {Lat: 34.4347, Lon: 135.2442},
}

type Config struct {
	Key     string
	BaseURL string
}

type Provider struct {
	http     *vendor.Client
	key      string
	base     string
	airports domain.AirportStore // optional
}

// New builds the provider; airports may be nil, leaving only the fallback table.
func New(cfg Config, airports domain.AirportStore, opts ...vendor.Option) *Provider {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBase
	}
	return &Provider{
		http:     vendor.New(normalize.LiteAPI, opts...),
		key:      cfg.Key,
		base:     strings.TrimRight(base, "/"),
		airports: airports,
	}
}

func (p *Provider) Name() string { return normalize.LiteAPI }

// RadiusMeters converts a caller radius to the value sent, applying the floor.
func RadiusMeters(km float64) int {
	if km <= 0 {
		return defaultRadiusMeters
	}
	return max(minRadiusMeters, int(km*1000))
}

func (p *Provider) Search(ctx context.Context, q domain.ProviderQuery) domain.Outcome {
	if p.key == "" {
		log.Error().Str("provider", p.Name()).Msg("LITEAPI_KEY is not set")
		return domain.ConfigError(fmt.Errorf("liteapi key: %w", domain.ErrMissingCredentials))
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(max(1, q.Limit)))
	if c := p.coordinate(ctx, q); c != nil {
		params.Set("latitude", strconv.FormatFloat(c.Lat, 'f', -1, 64))
		params.Set("longitude", strconv.FormatFloat(c.Lon, 'f', -1, 64))
		params.Set("radius", strconv.Itoa(RadiusMeters(q.RadiusKm)))
	} else if q.Destination.Code != "" {
		params.Set("iataCode", q.Destination.Code)
	} else {
		log.Warn().Str("provider", p.Name()).Msg("neither coordinate nor iata code available")
		return domain.Empty()
	}
	log.Debug().Str("provider", p.Name()).Str("params", params.Encode()).Msg("hotel search")

	h := http.Header{}
	h.Set("X-Api-Key", p.key)
	var payload any
	if err := p.http.GetJSON(ctx, "hotels", p.base+"/v3.0/data/hotels", params, h, &payload); err != nil {
		log.Warn().Err(err).Str("provider", p.Name()).Str("endpoint", "hotels").Msg("hotel search failed")
		return domain.OutcomeFromError(err)
	}

	recs := normalize.Records(items(payload))
	if q.Limit > 0 && len(recs) > q.Limit {
		recs = recs[:q.Limit]
	}
	return domain.Success(recs)
}

// coordinate picks the search point: explicit coordinate, then the airport
// store or fallback table for a code, then the resolved search center.
func (p *Provider) coordinate(ctx context.Context, q domain.ProviderQuery) *domain.Coordinate {
	if c := q.Destination.Coordinate; c != nil {
		return c
	}
	if code := q.Destination.Code; code != "" {
		if p.airports != nil {
			if c, err := p.airports.LookupCoordinate(ctx, code); err == nil {
				return &c
			}
		}
		if c, ok := fallbackCoords[strings.ToUpper(code)]; ok {
			return &c
		}
		// a code with no known coordinate is searched by code
		return nil
	}
	return q.Center
}

// items accepts a bare list, {data: [...]}, {data: {hotels|results: [...]}} or {hotels: [...]}.
func items(payload any) []any {
	switch t := payload.(type) {
	case []any:
		return t
	case map[string]any:
		if data, ok := t["data"].(map[string]any); ok {
			return normalize.List(data, "hotels", "results")
		}
		return normalize.List(t, "data", "hotels")
	}
	return nil
}
