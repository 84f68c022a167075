// Package hotelbeds is the signed-request inventory provider. Every request
// carries an X-Signature computed from key, secret and the current second.
package hotelbeds

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
	"stayfinder/internal/normalize"
)

const (
	DefaultBase = "https://api.test.hotelbeds.com"

	availabilityPath = "/hotel-api/1.0/hotels"
	defaultRadiusKm  = 25
)

type Config struct {
	APIKey   string
	Secret   string
	BaseURL  string
	Language string // default "ENG"
}

type Provider struct {
	http *vendor.Client
	cfg  Config

	// Now is the clock the signature is computed from.
	Now func() time.Time
}

func New(cfg Config, opts ...vendor.Option) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBase
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Language == "" {
		cfg.Language = "ENG"
	}
	return &Provider{http: vendor.New(normalize.Hotelbeds, opts...), cfg: cfg, Now: time.Now}
}

func (p *Provider) Name() string { return normalize.Hotelbeds }

// Signature is hex(sha256(key + secret + unix seconds)).
func Signature(key, secret string, at time.Time) string {
	sum := sha256.Sum256([]byte(key + secret + strconv.FormatInt(at.Unix(), 10)))
	return hex.EncodeToString(sum[:])
}

type stay struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

type occupancy struct {
	Rooms    int `json:"rooms"`
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
	Unit      string  `json:"unit"`
}

type availabilityRequest struct {
	Stay        stay        `json:"stay"`
	Occupancies []occupancy `json:"occupancies"`
	Geolocation geolocation `json:"geolocation"`
	Filter      struct {
		MaxHotels int `json:"maxHotels"`
	} `json:"filter"`
	Language string `json:"language"`
	Currency string `json:"currency,omitempty"`
}

func (p *Provider) Search(ctx context.Context, q domain.ProviderQuery) domain.Outcome {
	if p.cfg.APIKey == "" || p.cfg.Secret == "" {
		log.Error().Str("provider", p.Name()).Msg("HOTELBEDS_API_KEY / HOTELBEDS_SECRET not set")
		return domain.ConfigError(fmt.Errorf("hotelbeds key/secret: %w", domain.ErrMissingCredentials))
	}
	point := q.Point()
	if point == nil {
		log.Debug().Str("provider", p.Name()).Msg("no search point, skipping")
		return domain.Empty()
	}

	radius := q.RadiusKm
	if radius <= 0 {
		radius = defaultRadiusKm
	}
	limit := max(1, q.Limit)
	body := availabilityRequest{
		Stay:        stay{CheckIn: q.Stay.In(), CheckOut: q.Stay.Out()},
		Occupancies: []occupancy{{Rooms: 1, Adults: max(1, q.Adults)}},
		Geolocation: geolocation{Latitude: point.Lat, Longitude: point.Lon, Radius: radius, Unit: "km"},
		Language:    p.cfg.Language,
		Currency:    strings.ToUpper(q.Currency),
	}
	body.Filter.MaxHotels = limit * 3

	var out struct {
		Hotels struct {
			Hotels []any `json:"hotels"`
		} `json:"hotels"`
	}
	err := p.http.PostJSON(ctx, "availability", p.cfg.BaseURL+availabilityPath, body, p.headers, &out)
	if err != nil {
		log.Warn().Err(err).Str("provider", p.Name()).Str("endpoint", "availability").Msg("availability search failed")
		return domain.OutcomeFromError(err)
	}

	recs := normalize.Records(out.Hotels.Hotels)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return domain.Success(recs)
}

// headers runs once per attempt, so a retried request is signed again.
func (p *Provider) headers() (http.Header, error) {
	h := http.Header{}
	h.Set("Api-key", p.cfg.APIKey)
	h.Set("X-Signature", Signature(p.cfg.APIKey, p.cfg.Secret, p.Now()))
	return h, nil
}
