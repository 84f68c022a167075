package liteapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"stayfinder/internal/adapters/liteapi"
	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
)

type fakeAirports struct {
	coords map[string]domain.Coordinate
}

func (f fakeAirports) LookupCoordinate(ctx context.Context, code string) (domain.Coordinate, error) {
	if c, ok := f.coords[code]; ok {
		return c, nil
	}
	return domain.Coordinate{}, domain.ErrNotFound
}
func (f fakeAirports) LookupTimezone(ctx context.Context, code string) (string, error) {
	return "", domain.ErrNotFound
}
func (f fakeAirports) LookupDisplayName(ctx context.Context, code string) (string, error) {
	return "", domain.ErrNotFound
}
func (f fakeAirports) GetAirport(ctx context.Context, code string) (domain.Airport, error) {
	return domain.Airport{}, domain.ErrNotFound
}

// capture records the query of the last request and answers with body.
func capture(t *testing.T, body string, got *url.Values) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3.0/data/hotels" || r.Header.Get("X-Api-Key") != "lk" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		*got = r.URL.Query()
		w.Write([]byte(body))
	}))
}

func TestSearch_CoordinateModeAppliesRadiusFloor(t *testing.T) {
	var got url.Values
	srv := capture(t, `{"data":[{"id":"a","name":"A"},{"id":"b","name":"B"}]}`, &got)
	defer srv.Close()

	p := liteapi.New(liteapi.Config{Key: "lk", BaseURL: srv.URL}, nil, vendor.WithRate(0, 0))
	out := p.Search(context.Background(), domain.ProviderQuery{
		Destination: domain.Destination{Mode: domain.ModeCoordinate, Coordinate: &domain.Coordinate{Lat: 37.46, Lon: 126.44}},
		Limit:       5,
		RadiusKm:    0.5,
	})
	if out.Kind != domain.OutcomeSuccess || len(out.Records) != 2 {
		t.Fatalf("outcome: %+v", out)
	}
	if got.Get("radius") != "1000" {
		t.Fatalf("radius: %q", got.Get("radius"))
	}
	if got.Has("iataCode") {
		t.Fatalf("coordinate and iata code must be exclusive: %v", got)
	}
}

func TestSearch_CodeResolvedFromStoreThenFallback(t *testing.T) {
	var got url.Values
	srv := capture(t, `{"data":{"hotels":[{"id":"x"}]}}`, &got)
	defer srv.Close()

	store := fakeAirports{coords: map[string]domain.Coordinate{"CDG": {Lat: 49.0097, Lon: 2.5479}}}
	p := liteapi.New(liteapi.Config{Key: "lk", BaseURL: srv.URL}, store, vendor.WithRate(0, 0))

	cases := []struct {
		code, lat string
	}{
		{"CDG", "49.0097"}, // airport store
		{"HND", "35.5494"}, // static fallback
	}
	for _, tc := range cases {
		out := p.Search(context.Background(), domain.ProviderQuery{
			Destination: domain.Destination{Mode: domain.ModeCode, Code: tc.code},
			Limit:       3,
		})
		if out.Kind != domain.OutcomeSuccess {
			t.Fatalf("%s outcome: %+v", tc.code, out)
		}
		if got.Get("latitude") != tc.lat || got.Has("iataCode") {
			t.Fatalf("%s params: %v", tc.code, got)
		}
		if got.Get("radius") != "15000" {
			t.Fatalf("%s default radius: %v", tc.code, got.Get("radius"))
		}
	}
}

func TestSearch_UnknownCodeSearchesByCode(t *testing.T) {
	var got url.Values
	srv := capture(t, `{"hotels":[]}`, &got)
	defer srv.Close()

	p := liteapi.New(liteapi.Config{Key: "lk", BaseURL: srv.URL}, nil, vendor.WithRate(0, 0))
	out := p.Search(context.Background(), domain.ProviderQuery{
		Destination: domain.Destination{Mode: domain.ModeCode, Code: "ZZZ"},
		Limit:       3,
	})
	if out.Kind != domain.OutcomeEmpty {
		t.Fatalf("outcome: %+v", out)
	}
	if got.Get("iataCode") != "ZZZ" || got.Has("latitude") || got.Has("radius") {
		t.Fatalf("params: %v", got)
	}
}

func TestSearch_PayloadShapesAndLimit(t *testing.T) {
	for _, body := range []string{
		`[{"id":1},{"id":2},{"id":3},"junk"]`,
		`{"data":{"results":[{"id":1},{"id":2},{"id":3}]}}`,
		`{"hotels":[{"id":1},{"id":2},{"id":3}]}`,
	} {
		var got url.Values
		srv := capture(t, body, &got)
		p := liteapi.New(liteapi.Config{Key: "lk", BaseURL: srv.URL}, nil, vendor.WithRate(0, 0))
		out := p.Search(context.Background(), domain.ProviderQuery{
			Center: &domain.Coordinate{Lat: 1, Lon: 1},
			Limit:  2,
		})
		srv.Close()
		if len(out.Records) != 2 {
			t.Fatalf("body %s: %d records", body, len(out.Records))
		}
	}
}

func TestSearch_MissingKeyIsConfigError(t *testing.T) {
	p := liteapi.New(liteapi.Config{}, nil)
	if out := p.Search(context.Background(), domain.ProviderQuery{}); out.Kind != domain.OutcomeConfigError {
		t.Fatalf("outcome: %+v", out)
	}
}

func TestRadiusMeters(t *testing.T) {
	cases := map[float64]int{0: 15000, 0.2: 1000, 1: 1000, 2.5: 2500, 30: 30000}
	for in, want := range cases {
		if got := liteapi.RadiusMeters(in); got != want {
			t.Errorf("RadiusMeters(%v) = %d, want %d", in, got, want)
		}
	}
}
