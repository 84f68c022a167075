package googleplaces

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
	"stayfinder/internal/normalize"
)

// DefaultAirportKeywords filters terminals and airport lodging out of nearby results.
var DefaultAirportKeywords = []string{"공항", "Airport", "국제공항", "항공", "Terminal", "터미널"}

const nearbyRadiusMeters = 2000

type ProviderConfig struct {
	Key             string
	BaseURL         string
	AirportKeywords []string // nil uses DefaultAirportKeywords
}

// Provider searches lodging near the query point.
type Provider struct {
	c        client
	keywords []string
}

func NewProvider(cfg ProviderConfig, opts ...vendor.Option) *Provider {
	src := cfg.AirportKeywords
	if src == nil {
		src = DefaultAirportKeywords
	}
	// matching is case-insensitive
	kw := make([]string, 0, len(src))
	for _, k := range src {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kw = append(kw, k)
		}
	}
	return &Provider{c: newClient(cfg.Key, cfg.BaseURL, opts...), keywords: kw}
}

func (p *Provider) Name() string { return normalize.GooglePlaces }

func (p *Provider) Search(ctx context.Context, q domain.ProviderQuery) domain.Outcome {
	point := q.Point()
	if point == nil {
		log.Debug().Str("provider", p.Name()).Msg("no search point, skipping")
		return domain.Empty()
	}
	params := url.Values{}
	params.Set("location", latlon(*point))
	params.Set("radius", strconv.Itoa(nearbyRadiusMeters))
	params.Set("type", "lodging")

	env, err := p.c.get(ctx, "nearbysearch", params)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Empty()
	}
	if err != nil {
		log.Warn().Err(err).Str("provider", p.Name()).Str("endpoint", "nearbysearch").Msg("nearby search failed")
		return domain.OutcomeFromError(err)
	}

	recs := make([]domain.Record, 0, len(env.Results))
	for _, r := range env.Results {
		if !p.keep(r) {
			continue
		}
		r["photo_url"] = p.c.photoURL(firstPhotoRef(r), 400)
		recs = append(recs, r)
		if q.Limit > 0 && len(recs) >= q.Limit {
			break
		}
	}
	return domain.Success(recs)
}

// keep drops airport lodging and entries without a rating or a photo.
func (p *Provider) keep(r map[string]any) bool {
	name := strings.ToLower(normalize.Text(r["name"]))
	for _, kw := range p.keywords {
		if strings.Contains(name, kw) {
			return false
		}
	}
	if rating, ok := r["rating"].(float64); !ok || rating == 0 {
		return false
	}
	return firstPhotoRef(r) != ""
}
