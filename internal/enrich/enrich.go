// Package enrich backfills hotel fields a provider left empty.
// It only ever fills absent values; present values are never replaced.
package enrich

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"stayfinder/internal/domain"
	"stayfinder/internal/geo"
)

// AddressResolver is the slice of geocode.Resolver enrichment needs.
type AddressResolver interface {
	ResolveCoordinate(ctx context.Context, query string) (domain.Place, error)
	ReverseGeocode(ctx context.Context, at domain.Coordinate) (string, error)
}

// Center is the point and label a search was run around.
type Center struct {
	Coordinate *domain.Coordinate
	City       string
}

type Enricher struct {
	geo    AddressResolver     // nil disables address backfill
	places domain.PlacesLookup // nil disables places backfill
}

func New(geo AddressResolver, places domain.PlacesLookup) *Enricher {
	return &Enricher{geo: geo, places: places}
}

// Enrich returns a new slice; the input records are not modified.
func (e *Enricher) Enrich(ctx context.Context, hotels []domain.Hotel, center Center) []domain.Hotel {
	out := make([]domain.Hotel, len(hotels))
	for i, h := range hotels {
		if ctx.Err() != nil {
			// cancelled: hand back what we have, unchanged
			copy(out[i:], hotels[i:])
			break
		}
		out[i] = e.one(ctx, h, center)
	}
	return out
}

func (e *Enricher) one(ctx context.Context, h domain.Hotel, center Center) domain.Hotel {
	reversed := false
	if missing(h.Address) && e.geo != nil {
		reversed = e.fillAddress(ctx, &h, center)
	}
	if e.places != nil && (needsPrice(h) || h.PhotoURL == nil) {
		e.fillFromPlaces(ctx, &h, center)
	}
	// a coordinate picked up after the first address attempt must get the
	// reverse lookup a later pass would do
	if missing(h.Address) && e.geo != nil && h.Coordinate != nil && !reversed {
		e.reverse(ctx, &h)
	}
	if h.DistanceKm == nil && h.Coordinate != nil && center.Coordinate != nil {
		d := geo.HaversineKm(*center.Coordinate, *h.Coordinate)
		h.DistanceKm = &d
	}
	return h
}

// fillAddress reports whether it tried a reverse lookup.
func (e *Enricher) fillAddress(ctx context.Context, h *domain.Hotel, center Center) bool {
	if h.Coordinate != nil {
		e.reverse(ctx, h)
		return true
	}
	city := center.City
	if h.City != nil && *h.City != "" {
		city = *h.City
	}
	q := h.Name
	if city != "" {
		q += ", " + city
	}
	p, err := e.geo.ResolveCoordinate(ctx, q)
	if err != nil {
		return false
	}
	if p.DisplayName != "" {
		addr := p.DisplayName
		h.Address = &addr
	}
	c := p.Coordinate
	h.Coordinate = &c
	return false
}

func (e *Enricher) reverse(ctx context.Context, h *domain.Hotel) {
	addr, err := e.geo.ReverseGeocode(ctx, *h.Coordinate)
	if err == nil && addr != "" {
		h.Address = &addr
	}
}

func (e *Enricher) fillFromPlaces(ctx context.Context, h *domain.Hotel, center Center) {
	near := h.Coordinate
	if near == nil {
		near = center.Coordinate
	}
	if near == nil || h.Name == "" {
		return
	}
	d, err := e.places.Lookup(ctx, h.Name, *near)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Debug().Err(err).Str("hotel", h.Name).Msg("places lookup failed")
		}
		return
	}

	if missing(h.Address) && !missing(d.Address) {
		h.Address = d.Address
	}
	if h.Coordinate == nil && d.Coordinate != nil {
		h.Coordinate = d.Coordinate
	}
	if needsPrice(*h) && d.PriceLevel != nil {
		if tier, ok := domain.TierFromLevel(*d.PriceLevel); ok {
			h.PriceTier = &tier
		}
	}
	if h.StarRating == nil && d.Rating != nil {
		h.StarRating = &domain.Rating{Value: d.Rating}
	}
	fill(&h.PhotoURL, d.PhotoURL)
	fill(&h.Website, d.Website)
	fill(&h.Phone, d.Phone)
	fill(&h.MapsURL, d.MapsURL)
	if h.ReviewsTotal == nil {
		h.ReviewsTotal = d.ReviewsTotal
	}
}

func needsPrice(h domain.Hotel) bool { return h.Price == nil && h.PriceTier == nil }

func missing(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }

func fill(dst **string, src *string) {
	if missing(*dst) && !missing(src) {
		*dst = src
	}
}
