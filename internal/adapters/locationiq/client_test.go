package locationiq_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stayfinder/internal/adapters/locationiq"
	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
)

func TestSearchAndReverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "pk.test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/search":
			if r.URL.Query().Get("q") != "Tokyo Tower Hotel, Tokyo" {
				t.Errorf("query: %q", r.URL.Query().Get("q"))
			}
			w.Write([]byte(`[{"lat":"35.6586","lon":"139.7454","display_name":"Shibakoen, Minato, Tokyo"}]`))
		case "/v1/reverse":
			w.Write([]byte(`{"lat":"35.6586","lon":"139.7454","display_name":"4-2-8 Shibakoen"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := locationiq.New("pk.test", srv.URL, vendor.WithRate(0, 0), vendor.WithRetries(0))
	p, err := c.Search(context.Background(), "Tokyo Tower Hotel, Tokyo")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if p.Coordinate.Lat != 35.6586 || p.DisplayName != "Shibakoen, Minato, Tokyo" {
		t.Fatalf("unexpected place: %+v", p)
	}

	at := domain.Coordinate{Lat: 35.6586, Lon: 139.7454}
	rp, err := c.Reverse(context.Background(), at)
	if err != nil || rp.DisplayName != "4-2-8 Shibakoen" || rp.Coordinate != at {
		t.Fatalf("reverse: %+v %v", rp, err)
	}
}

func TestSearch_EmptyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := locationiq.New("pk.test", srv.URL, vendor.WithRate(0, 0))
	if _, err := c.Search(context.Background(), "nowhere"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSearch_MissingKey(t *testing.T) {
	c := locationiq.New("", "http://127.0.0.1:1")
	if _, err := c.Search(context.Background(), "x"); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("want ErrMissingCredentials, got %v", err)
	}
}
