package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"stayfinder/internal/domain"
)

// AirportRepository is the read and write side of the airport reference store.
type AirportRepository interface {
	domain.AirportStore
	domain.AirportWriter
}

// AirportService reads and loads airport reference data.
type AirportService struct {
	repo     AirportRepository
	validate *validator.Validate
}

func NewAirportService(r AirportRepository) *AirportService {
	return &AirportService{repo: r, validate: validator.New()}
}

type airportRow struct {
	Code string  `validate:"len=3,alpha"`
	Name string  `validate:"required,max=255"`
	Lat  float64 `validate:"gte=-90,lte=90"`
	Lon  float64 `validate:"gte=-180,lte=180"`
}

// Get returns one airport by IATA code; unknown codes are domain.ErrNotFound.
func (s *AirportService) Get(ctx context.Context, code string) (domain.Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return domain.Airport{}, fmt.Errorf("%w: airport code must have 3 letters", domain.ErrInvalidRequest)
	}
	return s.repo.GetAirport(ctx, code)
}

// Import validates and upserts one airport. Rows without a coordinate are kept;
// timezone and display name lookups still work for them.
func (s *AirportService) Import(ctx context.Context, a domain.Airport) error {
	a.Code = strings.ToUpper(strings.TrimSpace(a.Code))
	a.Name = strings.TrimSpace(a.Name)
	a.Timezone = strings.TrimSpace(a.Timezone)

	row := airportRow{Code: a.Code, Name: a.Name}
	if a.Coordinate != nil {
		row.Lat, row.Lon = a.Coordinate.Lat, a.Coordinate.Lon
	}
	if err := s.validate.Struct(row); err != nil {
		return fmt.Errorf("%w: airport %q: %v", domain.ErrInvalidRequest, a.Code, err)
	}
	return s.repo.UpsertAirport(ctx, a)
}
