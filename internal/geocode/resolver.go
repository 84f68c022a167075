// Package geocode turns place names into coordinates and coordinates into
// display addresses, trying each configured geocoder in order.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"stayfinder/internal/adapters/observability"
	"stayfinder/internal/domain"
)

const defaultSize = 4096

type Options struct {
	Size     int           // memo capacity; <= 0 uses 4096
	TTL      time.Duration // memo entry lifetime; 0 keeps entries until evicted
	Interval time.Duration // minimum spacing between outbound lookups; 0 disables
}

// Resolver is safe for concurrent use. Only successful lookups are memoized.
type Resolver struct {
	chain   []domain.Geocoder
	memo    *expirable.LRU[string, domain.Place]
	group   singleflight.Group
	limiter *rate.Limiter
}

// NewResolver takes geocoders in preference order, primary first.
func NewResolver(opt Options, chain ...domain.Geocoder) *Resolver {
	size := opt.Size
	if size <= 0 {
		size = defaultSize
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if opt.Interval > 0 {
		lim = rate.NewLimiter(rate.Every(opt.Interval), 1)
	}
	return &Resolver{
		chain:   chain,
		memo:    expirable.NewLRU[string, domain.Place](size, nil, opt.TTL),
		limiter: lim,
	}
}

// ResolveCoordinate forward-geocodes query. Any failure is domain.ErrNotFound.
func (r *Resolver) ResolveCoordinate(ctx context.Context, query string) (domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Place{}, domain.ErrNotFound
	}
	return r.resolve(ctx, "q:"+query, func(ctx context.Context, g domain.Geocoder) (domain.Place, error) {
		return g.Search(ctx, query)
	})
}

// ReverseGeocode returns a display address for at. Any failure is domain.ErrNotFound.
func (r *Resolver) ReverseGeocode(ctx context.Context, at domain.Coordinate) (string, error) {
	key := fmt.Sprintf("r:%.6f,%.6f", at.Lat, at.Lon)
	p, err := r.resolve(ctx, key, func(ctx context.Context, g domain.Geocoder) (domain.Place, error) {
		return g.Reverse(ctx, at)
	})
	if err != nil {
		return "", err
	}
	return p.DisplayName, nil
}

// Len is the number of memoized lookups.
func (r *Resolver) Len() int { return r.memo.Len() }

func (r *Resolver) resolve(ctx context.Context, key string, call func(context.Context, domain.Geocoder) (domain.Place, error)) (domain.Place, error) {
	if p, ok := r.memo.Get(key); ok {
		observability.ObserveGeocode("memo", "hit")
		return p, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		for _, g := range r.chain {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			p, err := call(ctx, g)
			switch {
			case err == nil:
				observability.ObserveGeocode(g.Name(), "hit")
				r.memo.Add(key, p)
				return p, nil
			case errors.Is(err, domain.ErrNotFound):
				observability.ObserveGeocode(g.Name(), "miss")
			default:
				observability.ObserveGeocode(g.Name(), "error")
				log.Warn().Err(err).Str("geocoder", g.Name()).Str("key", key).Msg("geocode failed, trying next")
			}
		}
		return nil, domain.ErrNotFound
	})
	if err != nil {
		return domain.Place{}, domain.ErrNotFound
	}
	return v.(domain.Place), nil
}
