// Package googleplaces talks to the Places web service. It serves both as a
// hotel provider (nearby lodging) and as the places lookup used by enrichment.
package googleplaces

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
	"stayfinder/internal/normalize"
)

const DefaultBase = "https://maps.googleapis.com/maps/api/place"

// ErrDenied is a 200 response whose status says the request was refused.
var ErrDenied = errors.New("googleplaces: request denied")

// client is shared by Provider and Lookup.
type client struct {
	http *vendor.Client
	base string
	key  string
}

func newClient(key, base string, opts ...vendor.Option) client {
	if base == "" {
		base = DefaultBase
	}
	return client{
		http: vendor.New(normalize.GooglePlaces, opts...),
		base: strings.TrimRight(base, "/"),
		key:  key,
	}
}

type envelope struct {
	Status       string           `json:"status"`
	ErrorMessage string           `json:"error_message"`
	Results      []map[string]any `json:"results"`
	Result       map[string]any   `json:"result"`
}

// get calls one Places endpoint and checks the envelope status.
func (c client) get(ctx context.Context, endpoint string, q url.Values) (envelope, error) {
	if c.key == "" {
		return envelope{}, fmt.Errorf("googleplaces key: %w", domain.ErrMissingCredentials)
	}
	q.Set("key", c.key)
	var env envelope
	if err := c.http.GetJSON(ctx, endpoint, c.base+"/"+endpoint+"/json", q, nil, &env); err != nil {
		return envelope{}, err
	}
	switch env.Status {
	case "", "OK":
		return env, nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return env, domain.ErrNotFound
	default:
		return env, fmt.Errorf("%w: %s %s", ErrDenied, env.Status, env.ErrorMessage)
	}
}

// photoURL builds the public photo URL for a photo reference.
func (c client) photoURL(ref string, maxWidth int) string {
	q := url.Values{}
	q.Set("maxwidth", fmt.Sprint(maxWidth))
	q.Set("photoreference", ref)
	q.Set("key", c.key)
	return c.base + "/photo?" + q.Encode()
}

func firstPhotoRef(m map[string]any) string {
	photos, _ := m["photos"].([]any)
	if len(photos) == 0 {
		return ""
	}
	p, _ := photos[0].(map[string]any)
	return normalize.Text(p["photo_reference"])
}

func latlon(c domain.Coordinate) string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lon)
}
