package googleplaces

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"stayfinder/internal/adapters/observability"
	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
	"stayfinder/internal/normalize"
)

const (
	textSearchRadiusMeters = 3000
	detailFields           = "name,formatted_address,rating,user_ratings_total,price_level,formatted_phone_number,website,url,geometry/location,photos"
)

type LookupConfig struct {
	Key      string
	BaseURL  string
	Language string        // optional, e.g. "ko"
	TTL      time.Duration // details cache lifetime; default 1h
}

// Lookup finds one named hotel (text search, then details) for enrichment.
// Results, including misses, are cached per name and rounded location.
type Lookup struct {
	c     client
	lang  string
	cache *gocache.Cache
}

type cached struct {
	details domain.PlaceDetails
	found   bool
}

func NewLookup(cfg LookupConfig, opts ...vendor.Option) *Lookup {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Lookup{
		c:     newClient(cfg.Key, cfg.BaseURL, opts...),
		lang:  cfg.Language,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (l *Lookup) Lookup(ctx context.Context, name string, near domain.Coordinate) (domain.PlaceDetails, error) {
	key := fmt.Sprintf("%s|%.3f,%.3f", strings.ToLower(strings.TrimSpace(name)), near.Lat, near.Lon)
	if v, ok := l.cache.Get(key); ok {
		observability.ObserveCache("places", "hit")
		e := v.(cached)
		if !e.found {
			return domain.PlaceDetails{}, domain.ErrNotFound
		}
		return e.details, nil
	}
	observability.ObserveCache("places", "miss")

	d, err := l.fetch(ctx, name, near)
	switch {
	case err == nil:
		l.cache.SetDefault(key, cached{details: d, found: true})
	case errors.Is(err, domain.ErrNotFound):
		l.cache.SetDefault(key, cached{})
	}
	return d, err
}

func (l *Lookup) fetch(ctx context.Context, name string, near domain.Coordinate) (domain.PlaceDetails, error) {
	q := url.Values{}
	q.Set("query", name)
	q.Set("location", latlon(near))
	q.Set("radius", fmt.Sprint(textSearchRadiusMeters))
	q.Set("type", "lodging")
	l.setLang(q)

	env, err := l.c.get(ctx, "textsearch", q)
	if err != nil {
		return domain.PlaceDetails{}, err
	}
	if len(env.Results) == 0 {
		return domain.PlaceDetails{}, domain.ErrNotFound
	}
	placeID := normalize.Text(env.Results[0]["place_id"])
	if placeID == "" {
		return domain.PlaceDetails{}, domain.ErrNotFound
	}

	q = url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailFields)
	l.setLang(q)
	env, err = l.c.get(ctx, "details", q)
	if err != nil {
		return domain.PlaceDetails{}, err
	}
	if env.Result == nil {
		return domain.PlaceDetails{}, domain.ErrNotFound
	}
	return l.details(placeID, env.Result), nil
}

func (l *Lookup) setLang(q url.Values) {
	if l.lang != "" {
		q.Set("language", l.lang)
	}
}

// details reuses the places normalizer for the fields both shapes share.
func (l *Lookup) details(placeID string, r map[string]any) domain.PlaceDetails {
	h := normalize.New("").Normalize(normalize.GooglePlaces, r)
	d := domain.PlaceDetails{
		PlaceID:      placeID,
		Address:      h.Address,
		Coordinate:   h.Coordinate,
		ReviewsTotal: h.ReviewsTotal,
		Phone:        textPtr(r["formatted_phone_number"]),
		Website:      textPtr(r["website"]),
		MapsURL:      textPtr(r["url"]),
	}
	if h.StarRating != nil {
		d.Rating = h.StarRating.Value
	}
	if lvl, ok := r["price_level"].(float64); ok {
		n := int(lvl)
		d.PriceLevel = &n
	}
	if ref := firstPhotoRef(r); ref != "" {
		u := l.c.photoURL(ref, 800)
		d.PhotoURL = &u
	}
	return d
}

func textPtr(v any) *string {
	s := normalize.Text(v)
	if s == "" {
		return nil
	}
	return &s
}
