package hotellook_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stayfinder/internal/adapters/hotellook"
	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
)

func query(limit int) domain.ProviderQuery {
	in := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)
	return domain.ProviderQuery{
		Destination: domain.Destination{Mode: domain.ModeCity, City: "Tokyo"},
		Stay:        domain.Stay{CheckIn: in, CheckOut: in.AddDate(0, 0, 2)},
		Adults:      2,
		Limit:       limit,
		Currency:    "jpy",
	}
}

func lookupOK(w http.ResponseWriter) {
	w.Write([]byte(`{"results":{"locations":[{"id":"12153","cityName":"Tokyo"}]}}`))
}

func TestSearch_RetriesOnceAfterTimeoutWithReducedLimit(t *testing.T) {
	var cacheCalls atomic.Int32
	var retryLimit atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lookup.json":
			lookupOK(w)
		case "/cache.json":
			n := cacheCalls.Add(1)
			if r.URL.Query().Get("currency") != "JPY" || r.URL.Query().Get("locationId") != "12153" {
				t.Errorf("params: %v", r.URL.Query())
			}
			if n == 1 {
				// outlive the first attempt's deadline
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
				return
			}
			retryLimit.Store(r.URL.Query().Get("limit"))
			w.Write([]byte(`[{"hotelId":1,"hotelName":"Shinjuku Inn","priceFrom":9800,"location":{"lat":35.69,"lon":139.70}}]`))
		}
	}))
	defer srv.Close()

	p := hotellook.New(hotellook.Config{
		Token: "tok", BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond, RetryTimeout: time.Second,
	}, vendor.WithRate(0, 0))

	out := p.Search(context.Background(), query(5))
	if out.Kind != domain.OutcomeSuccess || len(out.Records) != 1 {
		t.Fatalf("outcome: %+v", out)
	}
	if cacheCalls.Load() != 2 {
		t.Fatalf("cache calls: %d", cacheCalls.Load())
	}
	if got := retryLimit.Load(); got != "2" {
		t.Fatalf("retry limit: %v", got)
	}
}

func TestSearch_NoRetryOnOtherErrors(t *testing.T) {
	var cacheCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lookup.json":
			lookupOK(w)
		case "/cache.json":
			cacheCalls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	p := hotellook.New(hotellook.Config{Token: "tok", BaseURL: srv.URL}, vendor.WithRate(0, 0), vendor.WithRetries(0))
	out := p.Search(context.Background(), query(3))
	if out.Kind != domain.OutcomeTransportError {
		t.Fatalf("outcome: %+v", out)
	}
	if cacheCalls.Load() != 1 {
		t.Fatalf("cache calls: %d", cacheCalls.Load())
	}
}

func TestSearch_UnknownLocationIsEmpty(t *testing.T) {
	var cacheCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cache.json" {
			cacheCalls.Add(1)
		}
		w.Write([]byte(`{"results":{"locations":[]}}`))
	}))
	defer srv.Close()

	p := hotellook.New(hotellook.Config{Token: "tok", BaseURL: srv.URL}, vendor.WithRate(0, 0))
	if out := p.Search(context.Background(), query(3)); out.Kind != domain.OutcomeEmpty {
		t.Fatalf("outcome: %+v", out)
	}
	if cacheCalls.Load() != 0 {
		t.Fatal("search must not run without a location id")
	}
}

func TestSearch_MissingToken(t *testing.T) {
	p := hotellook.New(hotellook.Config{})
	if out := p.Search(context.Background(), query(3)); out.Kind != domain.OutcomeConfigError {
		t.Fatalf("outcome: %+v", out)
	}
}

func TestBudget_CoversLookupSearchAndRetry(t *testing.T) {
	p := hotellook.New(hotellook.Config{Token: "t"})
	if got := p.Budget(); got != 95*time.Second {
		t.Fatalf("default budget: %v", got)
	}
	p = hotellook.New(hotellook.Config{Token: "t", Timeout: time.Second, RetryTimeout: 2 * time.Second})
	if got := p.Budget(); got != 23*time.Second {
		t.Fatalf("custom budget: %v", got)
	}
}
