package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"stayfinder/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valCoord(c *domain.Coordinate) (any, any) {
	if c == nil {
		return nil, nil
	}
	return c.Lat, c.Lon
}

func code(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// Repo is the airport reference store. It implements domain.AirportStore and
// domain.AirportWriter; unknown codes are domain.ErrNotFound.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertAirport(ctx context.Context, a domain.Airport) error {
	lat, lon := valCoord(a.Coordinate)
	_, err := r.db.ExecContext(ctx, upsertAirportSQL, code(a.Code), a.Name, lat, lon, valStr(a.Timezone))
	return err
}

func (r *Repo) GetAirport(ctx context.Context, c string) (domain.Airport, error) {
	var (
		a        domain.Airport
		lat, lon sql.NullFloat64
		tz       sql.NullString
	)
	err := r.db.QueryRowContext(ctx, getAirportSQL, code(c)).Scan(&a.Code, &a.Name, &lat, &lon, &tz)
	if err != nil {
		return domain.Airport{}, notFound(err)
	}
	if lat.Valid && lon.Valid {
		a.Coordinate = &domain.Coordinate{Lat: lat.Float64, Lon: lon.Float64}
	}
	a.Timezone = tz.String
	return a, nil
}

func (r *Repo) LookupCoordinate(ctx context.Context, c string) (domain.Coordinate, error) {
	var out domain.Coordinate
	if err := r.db.QueryRowContext(ctx, airportCoordinateSQL, code(c)).Scan(&out.Lat, &out.Lon); err != nil {
		return domain.Coordinate{}, notFound(err)
	}
	return out, nil
}

func (r *Repo) LookupTimezone(ctx context.Context, c string) (string, error) {
	var tz string
	if err := r.db.QueryRowContext(ctx, airportTimezoneSQL, code(c)).Scan(&tz); err != nil {
		return "", notFound(err)
	}
	return tz, nil
}

func (r *Repo) LookupDisplayName(ctx context.Context, c string) (string, error) {
	var name string
	if err := r.db.QueryRowContext(ctx, airportNameSQL, code(c)).Scan(&name); err != nil {
		return "", notFound(err)
	}
	return name, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
