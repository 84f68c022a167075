//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"stayfinder/internal/domain"
	mysqlrepo "stayfinder/internal/storage/mysql"
)

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=stayfinder",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/stayfinder?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_AirportUpsertAndLookup(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	ctx := context.Background()

	icn := domain.Airport{
		Code:       "icn",
		Name:       "Incheon International Airport",
		Coordinate: &domain.Coordinate{Lat: 37.4602, Lon: 126.4407},
		Timezone:   "Asia/Seoul",
	}
	if err := repo.UpsertAirport(ctx, icn); err != nil {
		t.Fatalf("UpsertAirport: %v", err)
	}
	// a row without a coordinate or timezone
	if err := repo.UpsertAirport(ctx, domain.Airport{Code: "XXA", Name: "Nowhere Field"}); err != nil {
		t.Fatalf("UpsertAirport: %v", err)
	}

	c, err := repo.LookupCoordinate(ctx, "ICN")
	if err != nil || c.Lat != 37.4602 || c.Lon != 126.4407 {
		t.Fatalf("LookupCoordinate: %+v %v", c, err)
	}
	tz, err := repo.LookupTimezone(ctx, "icn")
	if err != nil || tz != "Asia/Seoul" {
		t.Fatalf("LookupTimezone: %q %v", tz, err)
	}
	name, err := repo.LookupDisplayName(ctx, "XXA")
	if err != nil || name != "Nowhere Field" {
		t.Fatalf("LookupDisplayName: %q %v", name, err)
	}

	if _, err := repo.LookupCoordinate(ctx, "XXA"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("coordinate of a row without one: want ErrNotFound, got %v", err)
	}
	if _, err := repo.LookupTimezone(ctx, "XXA"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("timezone of a row without one: want ErrNotFound, got %v", err)
	}
	if _, err := repo.GetAirport(ctx, "ZZZ"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown code: want ErrNotFound, got %v", err)
	}

	// upsert replaces
	icn.Name = "Incheon Intl"
	if err := repo.UpsertAirport(ctx, icn); err != nil {
		t.Fatalf("UpsertAirport again: %v", err)
	}
	a, err := repo.GetAirport(ctx, "ICN")
	if err != nil || a.Name != "Incheon Intl" || a.Coordinate == nil || a.Timezone != "Asia/Seoul" {
		t.Fatalf("GetAirport: %+v %v", a, err)
	}
}
