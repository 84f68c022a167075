package app

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"stayfinder/internal/domain"
)

// Column headers of the airport reference CSV.
const (
	colCode     = "IATA Code"
	colName     = "Name"
	colLat      = "Latitude"
	colLon      = "Longitude"
	colTimezone = "TZ Database Timezone"
)

// ReadAirportsCSV streams rows to fn. Columns are found by header name, so
// extra columns and any order are fine. Rows without a code are skipped; a
// latitude or longitude that does not parse leaves the coordinate unset.
func ReadAirportsCSV(r io.Reader, fn func(domain.Airport) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range []string{colCode, colName} {
		if _, ok := idx[c]; !ok {
			return fmt.Errorf("missing column %q", c)
		}
	}

	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		a := domain.Airport{
			Code:     field(rec, colCode),
			Name:     field(rec, colName),
			Timezone: field(rec, colTimezone),
		}
		if a.Code == "" {
			continue
		}
		lat, err1 := strconv.ParseFloat(field(rec, colLat), 64)
		lon, err2 := strconv.ParseFloat(field(rec, colLon), 64)
		if err1 == nil && err2 == nil {
			a.Coordinate = &domain.Coordinate{Lat: lat, Lon: lon}
		}
		if err := fn(a); err != nil {
			return err
		}
	}
}
