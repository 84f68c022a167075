package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"stayfinder/internal/adapters/amadeus"
	"stayfinder/internal/adapters/googleplaces"
	"stayfinder/internal/adapters/hotelbeds"
	"stayfinder/internal/adapters/hotellook"
	server "stayfinder/internal/adapters/http_server"
	"stayfinder/internal/adapters/liteapi"
	"stayfinder/internal/adapters/locationiq"
	"stayfinder/internal/adapters/nominatim"
	"stayfinder/internal/adapters/observability"
	redisad "stayfinder/internal/adapters/redis"
	"stayfinder/internal/app"
	"stayfinder/internal/domain"
	"stayfinder/internal/enrich"
	"stayfinder/internal/geocode"
	"stayfinder/internal/normalize"
	"stayfinder/internal/shared"
	mysqlrepo "stayfinder/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, observability.MetricsHandler(reg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// airport reference store is optional; without it code searches geocode "<CODE> airport"
	var (
		airports domain.AirportStore
		airSvc   *app.AirportService
	)
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		defer db.Close()
		log.Info().Msg("database connection ok")
		repo := mysqlrepo.New(db)
		airports = repo
		airSvc = app.NewAirportService(repo)
	} else {
		log.Warn().Msg("MYSQL_DSN is empty; airport lookups disabled")
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; search cache disabled")
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	// geocoding: LocationIQ first, Nominatim as fallback
	var chain []domain.Geocoder
	if cfg.LocationIQKey != "" {
		chain = append(chain, locationiq.New(cfg.LocationIQKey, cfg.LocationIQBase))
	}
	chain = append(chain, nominatim.New(cfg.NominatimBase))
	resolver := geocode.NewResolver(geocode.Options{
		Size:     cfg.GeocodeCacheSize,
		TTL:      cfg.GeocodeCacheTTL,
		Interval: cfg.GeocodeInterval,
	}, chain...)

	var places domain.PlacesLookup
	if cfg.GooglePlacesKey != "" {
		places = googleplaces.NewLookup(googleplaces.LookupConfig{Key: cfg.GooglePlacesKey})
	}

	svc := app.NewSearchService(app.SearchDeps{
		Providers: providers(cfg, airports),
		Airports:  airports,
		Geocoder:  resolver,
		Enricher:  enrich.New(resolver, places),
		Cache:     cache,
	}, app.SearchConfig{
		Strategy:        app.Strategy(cfg.Strategy),
		DefaultCurrency: cfg.DefaultCurrency,
		CacheTTL:        cfg.CacheTTL,
	})

	// http
	srv := server.New(cfg.HTTPTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	h := &server.Handlers{Search: svc}
	if airSvc != nil {
		h.Airports = airSvc
	}
	srv.MountHandlers(h)

	log.Info().Str("addr", cfg.HTTPAddr).Strs("providers", cfg.Providers).Str("strategy", cfg.Strategy).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdown)
	}()
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// providers builds the adapters named in HOTEL_PROVIDERS, in that order.
func providers(cfg shared.Config, airports domain.AirportStore) []domain.HotelProvider {
	var out []domain.HotelProvider
	for _, name := range cfg.Providers {
		switch name {
		case normalize.Hotellook:
			hl := hotellook.New(hotellook.Config{Token: cfg.HotellookToken})
			if b := hl.Budget(); cfg.HTTPTimeout < b {
				log.Warn().Dur("http_timeout", cfg.HTTPTimeout).Dur("hotellook_budget", b).
					Msg("HTTP_TIMEOUT_SECONDS is shorter than the hotellook worst case; its timeout retry can be cut off")
			}
			out = append(out, hl)
		case normalize.GooglePlaces:
			out = append(out, googleplaces.NewProvider(googleplaces.ProviderConfig{
				Key:             cfg.GooglePlacesKey,
				AirportKeywords: cfg.AirportKeywords,
			}))
		case normalize.LiteAPI:
			out = append(out, liteapi.New(liteapi.Config{Key: cfg.LiteAPIKey}, airports))
		case normalize.Amadeus:
			out = append(out, amadeus.New(amadeus.Config{
				ClientID:     cfg.AmadeusID,
				ClientSecret: cfg.AmadeusSecret,
				BaseURL:      cfg.AmadeusBase,
			}))
		case normalize.Hotelbeds:
			out = append(out, hotelbeds.New(hotelbeds.Config{
				APIKey:  cfg.HotelbedsKey,
				Secret:  cfg.HotelbedsSecret,
				BaseURL: cfg.HotelbedsBase,
			}))
		default:
			log.Warn().Str("provider", name).Msg("unknown provider; skipped")
		}
	}
	return out
}
