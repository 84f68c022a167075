package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stayfinder/internal/app"
	"stayfinder/internal/domain"
)

type memAirports struct{ rows map[string]domain.Airport }

func (m *memAirports) LookupCoordinate(ctx context.Context, code string) (domain.Coordinate, error) {
	if a, ok := m.rows[code]; ok && a.Coordinate != nil {
		return *a.Coordinate, nil
	}
	return domain.Coordinate{}, domain.ErrNotFound
}
func (m *memAirports) LookupTimezone(ctx context.Context, code string) (string, error) {
	if a, ok := m.rows[code]; ok && a.Timezone != "" {
		return a.Timezone, nil
	}
	return "", domain.ErrNotFound
}
func (m *memAirports) LookupDisplayName(ctx context.Context, code string) (string, error) {
	if a, ok := m.rows[code]; ok {
		return a.Name, nil
	}
	return "", domain.ErrNotFound
}
func (m *memAirports) GetAirport(ctx context.Context, code string) (domain.Airport, error) {
	if a, ok := m.rows[code]; ok {
		return a, nil
	}
	return domain.Airport{}, domain.ErrNotFound
}
func (m *memAirports) UpsertAirport(ctx context.Context, a domain.Airport) error {
	if m.rows == nil {
		m.rows = map[string]domain.Airport{}
	}
	m.rows[a.Code] = a
	return nil
}

func TestAirports_ImportNormalizesAndValidates(t *testing.T) {
	repo := &memAirports{}
	svc := app.NewAirportService(repo)
	ctx := context.Background()

	err := svc.Import(ctx, domain.Airport{Code: " kix ", Name: " Kansai ", Coordinate: &domain.Coordinate{Lat: 34.43, Lon: 135.24}, Timezone: "Asia/Tokyo"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if a, ok := repo.rows["KIX"]; !ok || a.Name != "Kansai" {
		t.Fatalf("stored: %+v", repo.rows)
	}

	// no coordinate is still a valid row
	if err := svc.Import(ctx, domain.Airport{Code: "XXA", Name: "Field"}); err != nil {
		t.Fatalf("import without coordinate: %v", err)
	}

	bad := []domain.Airport{
		{Code: "K1X", Name: "Digits"},
		{Code: "KIXX", Name: "Long"},
		{Code: "ABC"},
		{Code: "ABC", Name: "Off", Coordinate: &domain.Coordinate{Lat: 100, Lon: 0}},
	}
	for _, a := range bad {
		if err := svc.Import(ctx, a); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("%+v: want ErrInvalidRequest, got %v", a, err)
		}
	}
}

func TestAirports_Get(t *testing.T) {
	repo := &memAirports{rows: map[string]domain.Airport{"ICN": {Code: "ICN", Name: "Incheon"}}}
	svc := app.NewAirportService(repo)

	a, err := svc.Get(context.Background(), "icn")
	if err != nil || a.Name != "Incheon" {
		t.Fatalf("get: %+v %v", a, err)
	}
	if _, err := svc.Get(context.Background(), "GMP"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "TOOLONG"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest, got %v", err)
	}
}

func TestReadAirportsCSV(t *testing.T) {
	in := "\ufeffName,IATA Code,Latitude,Longitude,TZ Database Timezone,Country\n" +
		"Incheon International Airport,ICN,37.4602,126.4407,Asia/Seoul,KR\n" +
		"No Code Strip,,1,2,UTC,XX\n" +
		"Gimpo,GMP,,,Asia/Seoul,KR\n"

	var got []domain.Airport
	err := app.ReadAirportsCSV(strings.NewReader(in), func(a domain.Airport) error {
		got = append(got, a)
		return nil
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %+v", got)
	}
	if got[0].Code != "ICN" || got[0].Coordinate == nil || got[0].Coordinate.Lon != 126.4407 || got[0].Timezone != "Asia/Seoul" {
		t.Fatalf("icn: %+v", got[0])
	}
	if got[1].Code != "GMP" || got[1].Coordinate != nil {
		t.Fatalf("gmp: %+v", got[1])
	}

	if err := app.ReadAirportsCSV(strings.NewReader("Code,Name\nICN,x\n"), func(domain.Airport) error { return nil }); err == nil {
		t.Fatal("missing IATA Code column should fail")
	}
}
