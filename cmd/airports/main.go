package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"stayfinder/internal/adapters/observability"
	"stayfinder/internal/app"
	"stayfinder/internal/domain"
	"stayfinder/internal/shared"
	mysqlrepo "stayfinder/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	path := flag.String("csv", cfg.AirportsCSV, "airport reference CSV")
	flag.Parse()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("csv", *path).
		Int("workers", cfg.Workers).
		Msg("airport loader starting")

	if cfg.MySQLDSN == "" {
		log.Fatal().Msg("MYSQL_DSN is empty")
	}
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("open csv failed")
	}
	defer f.Close()

	svc := app.NewAirportService(mysqlrepo.New(db))
	sem := semaphore.NewWeighted(int64(max(1, cfg.Workers)))
	var (
		wg          sync.WaitGroup
		loaded, bad atomic.Int64
	)

	err = app.ReadAirportsCSV(f, func(a domain.Airport) error {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			if err := svc.Import(ctx, a); err != nil {
				bad.Add(1)
				log.Warn().Str("code", a.Code).Err(err).Msg("import failed")
				return
			}
			loaded.Add(1)
		}()
		return nil
	})
	wg.Wait()
	if err != nil {
		log.Fatal().Err(err).Int64("loaded", loaded.Load()).Msg("csv read failed")
	}
	log.Info().Int64("loaded", loaded.Load()).Int64("rejected", bad.Load()).Msg("airport load completed")
}
