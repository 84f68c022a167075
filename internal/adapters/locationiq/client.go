// Package locationiq is the primary geocoder (forward and reverse).
package locationiq

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
)

const DefaultBase = "https://us1.locationiq.com"

type Client struct {
	http *vendor.Client
	base string
	key  string
}

func New(key, base string, opts ...vendor.Option) *Client {
	if base == "" {
		base = DefaultBase
	}
	return &Client{
		http: vendor.New("locationiq", opts...),
		base: strings.TrimRight(base, "/"),
		key:  key,
	}
}

func (c *Client) Name() string { return "locationiq" }

type hit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (h hit) place() (domain.Place, error) {
	lat, err1 := strconv.ParseFloat(h.Lat, 64)
	lon, err2 := strconv.ParseFloat(h.Lon, 64)
	if err1 != nil || err2 != nil {
		return domain.Place{}, fmt.Errorf("locationiq: bad coordinate %q,%q: %w", h.Lat, h.Lon, vendor.ErrMalformed)
	}
	return domain.Place{Coordinate: domain.Coordinate{Lat: lat, Lon: lon}, DisplayName: h.DisplayName}, nil
}

// Search resolves free text ("hotel name, city") to the best match.
func (c *Client) Search(ctx context.Context, query string) (domain.Place, error) {
	if c.key == "" {
		return domain.Place{}, fmt.Errorf("locationiq: %w", domain.ErrMissingCredentials)
	}
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")

	var hits []hit
	if err := c.http.GetJSON(ctx, "search", c.base+"/v1/search", q, nil, &hits); err != nil {
		return domain.Place{}, err
	}
	if len(hits) == 0 {
		return domain.Place{}, domain.ErrNotFound
	}
	return hits[0].place()
}

func (c *Client) Reverse(ctx context.Context, at domain.Coordinate) (domain.Place, error) {
	if c.key == "" {
		return domain.Place{}, fmt.Errorf("locationiq: %w", domain.ErrMissingCredentials)
	}
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	q.Set("format", "json")

	var h hit
	if err := c.http.GetJSON(ctx, "reverse", c.base+"/v1/reverse", q, nil, &h); err != nil {
		return domain.Place{}, err
	}
	if h.DisplayName == "" {
		return domain.Place{}, domain.ErrNotFound
	}
	return domain.Place{Coordinate: at, DisplayName: h.DisplayName}, nil
}
