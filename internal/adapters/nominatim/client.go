// Package nominatim is the keyless fallback geocoder backed by OpenStreetMap.
package nominatim

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
)

const (
	DefaultBase = "https://nominatim.openstreetmap.org"
	// the public instance rejects requests without an identifying agent
	userAgent = "stayfinder/1.0 (hotel search)"
)

type Client struct {
	http *vendor.Client
	base string
}

func New(base string, opts ...vendor.Option) *Client {
	if base == "" {
		base = DefaultBase
	}
	return &Client{http: vendor.New("nominatim", opts...), base: strings.TrimRight(base, "/")}
}

func (c *Client) Name() string { return "nominatim" }

type hit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func headers() http.Header {
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	return h
}

func (c *Client) Search(ctx context.Context, query string) (domain.Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", "1")
	q.Set("addressdetails", "1")

	var hits []hit
	if err := c.http.GetJSON(ctx, "search", c.base+"/search", q, headers(), &hits); err != nil {
		return domain.Place{}, err
	}
	if len(hits) == 0 {
		return domain.Place{}, domain.ErrNotFound
	}
	lat, err1 := strconv.ParseFloat(hits[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(hits[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return domain.Place{}, fmt.Errorf("nominatim: bad coordinate: %w", vendor.ErrMalformed)
	}
	return domain.Place{Coordinate: domain.Coordinate{Lat: lat, Lon: lon}, DisplayName: hits[0].DisplayName}, nil
}

func (c *Client) Reverse(ctx context.Context, at domain.Coordinate) (domain.Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	q.Set("zoom", "16")
	q.Set("addressdetails", "1")

	var h hit
	if err := c.http.GetJSON(ctx, "reverse", c.base+"/reverse", q, headers(), &h); err != nil {
		return domain.Place{}, err
	}
	// nominatim answers 200 with {"error": "..."} when nothing is there
	if h.Error != "" || h.DisplayName == "" {
		return domain.Place{}, domain.ErrNotFound
	}
	return domain.Place{Coordinate: at, DisplayName: h.DisplayName}, nil
}
