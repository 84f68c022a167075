package hotelbeds_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"stayfinder/internal/adapters/hotelbeds"
	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
)

func TestSignature(t *testing.T) {
	got := hotelbeds.Signature("key", "secret", time.Unix(1700000000, 0))
	want := "278d74471a3b5267e27221967122169ad26fac349e0fb6a94779cdf050a0d038"
	if got != want {
		t.Fatalf("signature: got %s want %s", got, want)
	}
}

func query() domain.ProviderQuery {
	in := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	return domain.ProviderQuery{
		Destination: domain.Destination{Mode: domain.ModeCoordinate, Coordinate: &domain.Coordinate{Lat: 40.4168, Lon: -3.7038}},
		Stay:        domain.Stay{CheckIn: in, CheckOut: in.AddDate(0, 0, 1)},
		Adults:      2,
		Limit:       2,
		Currency:    "eur",
	}
}

func TestSearch_SignsEveryAttemptAndBuildsBody(t *testing.T) {
	var (
		mu   sync.Mutex
		sigs []string
		body map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/hotel-api/1.0/hotels" || r.Header.Get("Api-key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mu.Lock()
		sigs = append(sigs, r.Header.Get("X-Signature"))
		first := len(sigs) == 1
		mu.Unlock()
		if first {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"hotels":{"hotels":[
			{"code":1,"name":{"content":"Uno"},"rooms":[{"rates":[{"net":"80"}]}]},
			{"code":2,"name":"Dos"},
			{"code":3,"name":"Tres"}
		]}}`))
	}))
	defer srv.Close()

	p := hotelbeds.New(hotelbeds.Config{APIKey: "key", Secret: "secret", BaseURL: srv.URL},
		vendor.WithRate(0, 0), vendor.WithRetries(1))
	clock := time.Unix(1700000000, 0)
	p.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	out := p.Search(context.Background(), query())
	if out.Kind != domain.OutcomeSuccess || len(out.Records) != 2 {
		t.Fatalf("outcome: %+v", out)
	}
	if len(sigs) != 2 || sigs[0] == sigs[1] {
		t.Fatalf("each attempt needs a fresh signature: %v", sigs)
	}

	filter, _ := body["filter"].(map[string]any)
	if filter["maxHotels"] != float64(6) {
		t.Fatalf("maxHotels: %v", filter["maxHotels"])
	}
	geo, _ := body["geolocation"].(map[string]any)
	if geo["unit"] != "km" || geo["radius"] != float64(25) {
		t.Fatalf("geolocation: %v", geo)
	}
	if body["currency"] != "EUR" || body["language"] != "ENG" {
		t.Fatalf("body: %v", body)
	}
}

func TestSearch_MissingSecret(t *testing.T) {
	p := hotelbeds.New(hotelbeds.Config{APIKey: "key"})
	if out := p.Search(context.Background(), query()); out.Kind != domain.OutcomeConfigError {
		t.Fatalf("outcome: %+v", out)
	}
}

func TestSearch_NoPointIsEmpty(t *testing.T) {
	p := hotelbeds.New(hotelbeds.Config{APIKey: "key", Secret: "s"})
	q := query()
	q.Destination = domain.Destination{Mode: domain.ModeCity, City: "Madrid"}
	if out := p.Search(context.Background(), q); out.Kind != domain.OutcomeEmpty {
		t.Fatalf("outcome: %+v", out)
	}
}
