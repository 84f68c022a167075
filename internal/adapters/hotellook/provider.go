// Package hotellook is the cache/aggregator hotel provider: a location lookup
// followed by a cached price search for that location.
package hotellook

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
	"stayfinder/internal/normalize"
)

const DefaultBase = "https://engine.hotellook.com/api/v2"

const lookupTimeout = 20 * time.Second

type Config struct {
	Token        string
	BaseURL      string
	Timeout      time.Duration // first cache.json attempt; default 30s
	RetryTimeout time.Duration // the single retry after a timeout; default 45s
}

type Provider struct {
	http *vendor.Client
	cfg  Config
}

func New(cfg Config, opts ...vendor.Option) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBase
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryTimeout <= 0 {
		cfg.RetryTimeout = 45 * time.Second
	}
	// per-attempt deadlines come from contexts, not from the http.Client
	opts = append([]vendor.Option{vendor.WithTimeout(0)}, opts...)
	return &Provider{http: vendor.New(normalize.Hotellook, opts...), cfg: cfg}
}

func (p *Provider) Name() string { return normalize.Hotellook }

// Budget is the longest one Search can take: lookup, first search and the
// retry after a timeout. A caller deadline shorter than this cuts the retry off.
func (p *Provider) Budget() time.Duration {
	return lookupTimeout + p.cfg.Timeout + p.cfg.RetryTimeout
}

func (p *Provider) Search(ctx context.Context, q domain.ProviderQuery) domain.Outcome {
	if p.cfg.Token == "" {
		return domain.ConfigError(fmt.Errorf("hotellook token: %w", domain.ErrMissingCredentials))
	}

	locID, err := p.lookupLocation(ctx, query(q))
	if err != nil {
		log.Warn().Err(err).Str("provider", p.Name()).Str("endpoint", "lookup").Msg("location lookup failed")
		return domain.OutcomeFromError(err)
	}
	if locID == "" {
		return domain.Empty()
	}

	params := url.Values{}
	params.Set("locationId", locID)
	params.Set("checkIn", q.Stay.In())
	params.Set("checkOut", q.Stay.Out())
	params.Set("currency", currency(q))
	params.Set("adults", strconv.Itoa(max(1, q.Adults)))
	params.Set("limit", strconv.Itoa(max(1, q.Limit)))
	params.Set("token", p.cfg.Token)

	raw, err := p.cache(ctx, params, p.cfg.Timeout)
	if err != nil && vendor.IsTimeout(err) && ctx.Err() == nil {
		// one retry only, with a longer deadline and a smaller page
		params.Set("limit", strconv.Itoa(max(1, min(2, q.Limit))))
		log.Info().Str("provider", p.Name()).Msg("cache search timed out, retrying with reduced limit")
		raw, err = p.cache(ctx, params, p.cfg.RetryTimeout)
	}
	if err != nil {
		log.Warn().Err(err).Str("provider", p.Name()).Str("endpoint", "cache").Msg("cache search failed")
		return domain.TransportError(err)
	}
	return domain.Success(normalize.Records(raw))
}

func (p *Provider) lookupLocation(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("query", text)
	params.Set("lang", "en")
	params.Set("lookFor", "both")
	params.Set("limit", "3")

	var out struct {
		Results struct {
			Locations []map[string]any `json:"locations"`
		} `json:"results"`
	}
	if err := p.http.GetJSON(ctx, "lookup", p.cfg.BaseURL+"/lookup.json", params, nil, &out); err != nil {
		return "", err
	}
	if len(out.Results.Locations) == 0 {
		return "", nil
	}
	return normalize.Text(out.Results.Locations[0]["id"]), nil
}

func (p *Provider) cache(ctx context.Context, params url.Values, timeout time.Duration) ([]any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out []any
	err := p.http.GetJSON(ctx, "cache", p.cfg.BaseURL+"/cache.json", params, nil, &out)
	return out, err
}

// query is the free text handed to the location lookup; the lookup also
// accepts "lat,lon".
func query(q domain.ProviderQuery) string {
	if l := q.Destination.Label(); l != "" {
		return l
	}
	if c := q.Point(); c != nil {
		return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
	}
	return ""
}

func currency(q domain.ProviderQuery) string {
	if q.Currency != "" {
		return strings.ToUpper(q.Currency)
	}
	return "USD"
}
