package shared

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("HOTEL_PROVIDERS", " LiteAPI, ,amadeus ")
	t.Setenv("SEARCH_STRATEGY", "FANOUT")
	t.Setenv("DEFAULT_CURRENCY", "krw")
	t.Setenv("GEOCODE_INTERVAL_MS", "250")
	t.Setenv("REDIS_DB", "nope")
	t.Setenv("AIRPORT_KEYWORDS", "Airport, 공항 ,")

	c := Load()
	if !reflect.DeepEqual(c.Providers, []string{"liteapi", "amadeus"}) {
		t.Fatalf("providers: %v", c.Providers)
	}
	if c.Strategy != "fanout" || c.DefaultCurrency != "KRW" {
		t.Fatalf("strategy=%q currency=%q", c.Strategy, c.DefaultCurrency)
	}
	if !reflect.DeepEqual(c.AirportKeywords, []string{"Airport", "공항"}) {
		t.Fatalf("keywords keep case: %q", c.AirportKeywords)
	}
	// the hotellook worst case (20s lookup + 30s + 45s retry) must fit
	if c.HTTPTimeout < 95*time.Second {
		t.Fatalf("default http timeout too short: %v", c.HTTPTimeout)
	}
	if c.GeocodeInterval != 250*time.Millisecond || c.RedisDB != 0 || c.CacheTTL != 900*time.Second {
		t.Fatalf("durations/ints: %+v", c)
	}
}

func TestMissingCredentials_OnlyForEnabledProviders(t *testing.T) {
	c := Config{Providers: []string{"amadeus"}, AmadeusID: "id"}
	if got := c.missingCredentials(); !reflect.DeepEqual(got, []string{"AMADEUS_CLIENT_SECRET"}) {
		t.Fatalf("missing: %v", got)
	}
}
