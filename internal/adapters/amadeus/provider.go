// Package amadeus is the two-phase inventory provider: hotel ids near a point
// or in a city, then priced offers for those ids in one batched call.
package amadeus

import (
	"context"
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
	DefaultBase = "https://test.api.amadeus.com"

	maxOfferIDs     = 100
	defaultRadiusKm = 25
)

// cityCodes maps airport codes to the city codes the by-city lookup expects.
var cityCodes = map[string]string{
	"LHR": "LON", "LGW": "LON", "STN": "LON", "LTN": "LON",
	"CDG": "PAR", "ORY": "PAR",
	"JFK": "NYC", "LGA": "NYC", "EWR": "NYC",
	"FCO": "ROM", "CIA": "ROM",
	"BER": "BER", "SXF": "BER",
	"NRT": "TYO", "HND": "TYO",
	"ICN": "SEL", "GMP": "SEL",
	"KIX": "OSA", "ITM": "OSA",
	"CTS": "SPK",
}

// CityCode returns the city code for an airport code, or the code itself.
func CityCode(code string) string {
	code = strings.ToUpper(code)
	if c, ok := cityCodes[code]; ok {
		return c
	}
	return code
}

type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

type Provider struct {
	http   *vendor.Client
	base   string
	tokens *TokenSource
}

func New(cfg Config, opts ...vendor.Option) *Provider {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBase
	}
	hc := vendor.New(normalize.Amadeus, opts...)
	return &Provider{
		http:   hc,
		base:   base,
		tokens: NewTokenSource(hc, base, cfg.ClientID, cfg.ClientSecret),
	}
}

func (p *Provider) Name() string { return normalize.Amadeus }

// Tokens exposes the token cache, mainly so tests can drive its clock.
func (p *Provider) Tokens() *TokenSource { return p.tokens }

func (p *Provider) Search(ctx context.Context, q domain.ProviderQuery) domain.Outcome {
	ids, err := p.hotelIDs(ctx, q)
	if err != nil {
		log.Warn().Err(err).Str("provider", p.Name()).Str("endpoint", "hotel-list").Msg("hotel id lookup failed")
		return domain.OutcomeFromError(err)
	}
	if len(ids) == 0 {
		return domain.Empty()
	}
	if len(ids) > maxOfferIDs {
		ids = ids[:maxOfferIDs]
	}

	params := url.Values{}
	params.Set("hotelIds", strings.Join(ids, ","))
	params.Set("checkInDate", q.Stay.In())
	params.Set("checkOutDate", q.Stay.Out())
	params.Set("adults", strconv.Itoa(max(1, q.Adults)))
	if q.Currency != "" {
		params.Set("currency", strings.ToUpper(q.Currency))
	}
	var out struct {
		Data []any `json:"data"`
	}
	if err := p.get(ctx, "hotel-offers", "/v3/shopping/hotel-offers", params, &out); err != nil {
		log.Warn().Err(err).Str("provider", p.Name()).Str("endpoint", "hotel-offers").Msg("offers lookup failed")
		return domain.OutcomeFromError(err)
	}

	recs := normalize.Records(out.Data)
	if q.Limit > 0 && len(recs) > q.Limit {
		recs = recs[:q.Limit]
	}
	return domain.Success(recs)
}

// hotelIDs is phase one: by-geocode when a point is known, else by-city.
func (p *Provider) hotelIDs(ctx context.Context, q domain.ProviderQuery) ([]string, error) {
	params := url.Values{}
	var endpoint, path string
	if c := q.Point(); c != nil {
		radius := int(q.RadiusKm)
		if radius <= 0 {
			radius = defaultRadiusKm
		}
		endpoint, path = "by-geocode", "/v1/reference-data/locations/hotels/by-geocode"
		params.Set("latitude", strconv.FormatFloat(c.Lat, 'f', -1, 64))
		params.Set("longitude", strconv.FormatFloat(c.Lon, 'f', -1, 64))
		params.Set("radius", strconv.Itoa(radius))
		params.Set("radiusUnit", "KM")
	} else if q.Destination.Code != "" {
		endpoint, path = "by-city", "/v1/reference-data/locations/hotels/by-city"
		params.Set("cityCode", CityCode(q.Destination.Code))
	} else {
		return nil, nil
	}

	var out struct {
		Data []map[string]any `json:"data"`
	}
	if err := p.get(ctx, endpoint, path, params, &out); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(out.Data))
	for _, it := range out.Data {
		if id := normalize.Text(it["hotelId"]); id != "" {
			ids = append(ids, id)
		} else if id := normalize.Text(it["id"]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (p *Provider) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	tok, err := p.tokens.Token(ctx)
	if err != nil {
		return err
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+tok)
	return p.http.GetJSON(ctx, endpoint, p.base+path, params, h, out)
}
