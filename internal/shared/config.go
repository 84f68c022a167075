package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	HTTPTimeout time.Duration
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	Providers       []string
	Strategy        string
	DefaultCurrency string

	HotellookToken  string
	GooglePlacesKey string
	LiteAPIKey      string
	AmadeusID       string
	AmadeusSecret   string
	AmadeusBase     string
	HotelbedsKey    string
	HotelbedsSecret string
	HotelbedsBase   string
	LocationIQKey   string
	LocationIQBase  string
	NominatimBase   string

	GeocodeCacheSize int
	GeocodeCacheTTL  time.Duration
	GeocodeInterval  time.Duration
	AirportKeywords  []string

	AirportsCSV string
	Workers     int
}

// DefaultProviders is the fallback order when HOTEL_PROVIDERS is unset.
var DefaultProviders = []string{"hotellook", "googleplaces", "liteapi", "amadeus", "hotelbeds"}

// Load reads .env when present, then the environment.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		HTTPTimeout: time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 150)) * time.Second,
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", ""),
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		Providers:       list(env("HOTEL_PROVIDERS", ""), DefaultProviders),
		Strategy:        strings.ToLower(env("SEARCH_STRATEGY", "fallback")),
		DefaultCurrency: strings.ToUpper(env("DEFAULT_CURRENCY", "USD")),

		HotellookToken:  os.Getenv("HOTELLOOK_API_TOKEN"),
		GooglePlacesKey: os.Getenv("GOOGLE_PLACES_API_KEY"),
		LiteAPIKey:      os.Getenv("LITEAPI_KEY"),
		AmadeusID:       os.Getenv("AMADEUS_CLIENT_ID"),
		AmadeusSecret:   os.Getenv("AMADEUS_CLIENT_SECRET"),
		AmadeusBase:     env("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
		HotelbedsKey:    os.Getenv("HOTELBEDS_API_KEY"),
		HotelbedsSecret: os.Getenv("HOTELBEDS_SECRET"),
		HotelbedsBase:   env("HOTELBEDS_BASE_URL", "https://api.test.hotelbeds.com"),
		LocationIQKey:   os.Getenv("LOCATIONIQ_KEY"),
		LocationIQBase:  env("LOCATIONIQ_BASE", "https://us1.locationiq.com"),
		NominatimBase:   env("NOMINATIM_BASE", "https://nominatim.openstreetmap.org"),

		GeocodeCacheSize: atoi("GEOCODE_CACHE_SIZE", 4096),
		GeocodeCacheTTL:  time.Duration(atoi("GEOCODE_CACHE_TTL_SECONDS", 0)) * time.Second,
		GeocodeInterval:  time.Duration(atoi("GEOCODE_INTERVAL_MS", 1000)) * time.Millisecond,
		AirportKeywords:  split(env("AIRPORT_KEYWORDS", "")),

		AirportsCSV: env("AIRPORTS_CSV", "airports.csv"),
		Workers:     atoi("INGEST_WORKERS", 8),
	}

	for _, k := range c.missingCredentials() {
		log.Warn().Str("key", k).Msg("credential is empty; provider will report config_error")
	}
	return c
}

func (c Config) missingCredentials() []string {
	need := map[string][]struct{ key, val string }{
		"hotellook":    {{"HOTELLOOK_API_TOKEN", c.HotellookToken}},
		"googleplaces": {{"GOOGLE_PLACES_API_KEY", c.GooglePlacesKey}},
		"liteapi":      {{"LITEAPI_KEY", c.LiteAPIKey}},
		"amadeus":      {{"AMADEUS_CLIENT_ID", c.AmadeusID}, {"AMADEUS_CLIENT_SECRET", c.AmadeusSecret}},
		"hotelbeds":    {{"HOTELBEDS_API_KEY", c.HotelbedsKey}, {"HOTELBEDS_SECRET", c.HotelbedsSecret}},
	}
	var out []string
	for _, p := range c.Providers {
		for _, kv := range need[p] {
			if kv.val == "" {
				out = append(out, kv.key)
			}
		}
	}
	return out
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// list splits a comma-separated value into lower-case names, dropping blanks.
func list(v string, def []string) []string {
	out := split(strings.ToLower(v))
	if len(out) == 0 {
		return def
	}
	return out
}

// split keeps case; nil when v has no entries.
func split(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
