package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"stayfinder/internal/adapters/observability"
	"stayfinder/internal/domain"
	"stayfinder/internal/enrich"
	"stayfinder/internal/merge"
	"stayfinder/internal/normalize"
)

// Strategy decides how providers are called for one search.
type Strategy string

const (
	// StrategyFallback calls providers in order and stops at the first one with results.
	StrategyFallback Strategy = "fallback"
	// StrategyFanout calls every provider concurrently and merges all results.
	StrategyFanout Strategy = "fanout"
)

const (
	defaultLimit  = 5
	defaultAdults = 2
)

// CenterResolver geocodes a free-text destination.
type CenterResolver interface {
	ResolveCoordinate(ctx context.Context, query string) (domain.Place, error)
}

type SearchDeps struct {
	Providers []domain.HotelProvider // in preference order
	Airports  domain.AirportStore    // optional
	Geocoder  CenterResolver         // optional
	Enricher  *enrich.Enricher       // optional
	Cache     domain.Cache           // optional
}

type SearchConfig struct {
	Strategy        Strategy
	DefaultCurrency string
	CacheTTL        time.Duration
}

type SearchService struct {
	deps     SearchDeps
	cfg      SearchConfig
	norm     normalize.Normalizer
	validate *validator.Validate
}

func NewSearchService(deps SearchDeps, cfg SearchConfig) *SearchService {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyFallback
	}
	norm := normalize.New(cfg.DefaultCurrency)
	cfg.DefaultCurrency = norm.DefaultCurrency
	return &SearchService{
		deps:     deps,
		cfg:      cfg,
		norm:     norm,
		validate: validator.New(),
	}
}

// Search runs one hotel search. Only caller contract violations are returned
// as errors: domain.ErrInvalidRequest and domain.ErrNoDestination. No hotels
// is a result with NoResults set.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error) {
	if req.Limit == 0 {
		req.Limit = defaultLimit
	}
	if req.Adults == 0 {
		req.Adults = defaultAdults
	}
	if req.Currency == "" {
		req.Currency = s.cfg.DefaultCurrency
	}
	req.Currency = strings.ToUpper(req.Currency)

	dest, err := req.Destination()
	if err != nil {
		return domain.SearchResult{}, err
	}
	// identity fields the destination dropped are not checked
	checked := req
	switch dest.Mode {
	case domain.ModeCoordinate:
		checked.Code, checked.City = "", ""
	case domain.ModeCode:
		checked.City = ""
	}
	if err := s.validate.Struct(checked); err != nil {
		return domain.SearchResult{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	key := cacheKey(dest, req)
	if s.deps.Cache != nil {
		var cached domain.SearchResult
		if ok, _ := s.deps.Cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	center := s.center(ctx, dest)
	q := domain.ProviderQuery{
		Destination: dest,
		Center:      center,
		Stay:        domain.Stay{CheckIn: req.CheckIn, CheckOut: req.CheckOut},
		Adults:      req.Adults,
		Limit:       req.Limit,
		Currency:    req.Currency,
		RadiusKm:    req.RadiusKm,
	}
	ec := enrich.Center{Coordinate: center, City: dest.City}

	var lists [][]domain.Hotel
	var reports []domain.ProviderReport
	if s.cfg.Strategy == StrategyFanout {
		lists, reports = s.fanout(ctx, q, ec)
	} else {
		lists, reports = s.fallback(ctx, q, ec)
	}

	hotels := merge.Merge(lists, req.Limit)
	res := domain.SearchResult{
		ID:        uuid.NewString(),
		Hotels:    hotels,
		NoResults: len(hotels) == 0,
		Center:    center,
		Providers: reports,
	}
	res.Label, res.Timezone = s.describe(ctx, dest)

	log.Info().
		Str("search_id", res.ID).
		Str("mode", string(dest.Mode)).
		Str("label", res.Label).
		Str("timezone", res.Timezone).
		Str("strategy", string(s.cfg.Strategy)).
		Int("hotels", len(hotels)).
		Msg("search completed")

	// a total miss may be transient, so only real results are cached
	if s.deps.Cache != nil && !res.NoResults && s.cfg.CacheTTL > 0 {
		if err := s.deps.Cache.Set(ctx, key, res, s.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("search cache set failed")
		}
	}
	return res, nil
}

func (s *SearchService) fallback(ctx context.Context, q domain.ProviderQuery, ec enrich.Center) ([][]domain.Hotel, []domain.ProviderReport) {
	reports := make([]domain.ProviderReport, 0, len(s.deps.Providers))
	for _, p := range s.deps.Providers {
		hotels, rep := s.run(ctx, p, q, ec)
		reports = append(reports, rep)
		if len(hotels) > 0 {
			return [][]domain.Hotel{hotels}, reports
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, reports
}

func (s *SearchService) fanout(ctx context.Context, q domain.ProviderQuery, ec enrich.Center) ([][]domain.Hotel, []domain.ProviderReport) {
	n := len(s.deps.Providers)
	lists := make([][]domain.Hotel, n)
	reports := make([]domain.ProviderReport, n)

	var g errgroup.Group
	for i, p := range s.deps.Providers {
		g.Go(func() error {
			lists[i], reports[i] = s.run(ctx, p, q, ec)
			return nil
		})
	}
	_ = g.Wait() // run never fails; outcomes are in the reports
	return lists, reports
}

// run calls one provider and turns its outcome into enriched canonical records.
func (s *SearchService) run(ctx context.Context, p domain.HotelProvider, q domain.ProviderQuery, ec enrich.Center) ([]domain.Hotel, domain.ProviderReport) {
	start := time.Now()
	out := p.Search(ctx, q)
	observability.ObserveProvider(p.Name(), string(out.Kind))

	rep := domain.ProviderReport{Provider: p.Name(), Outcome: out.Kind, Detail: out.Detail()}
	ev := log.Debug()
	switch out.Kind {
	case domain.OutcomeConfigError:
		ev = log.Error()
	case domain.OutcomeTransportError:
		ev = log.Warn()
	}
	ev.Str("provider", p.Name()).Str("outcome", string(out.Kind)).Int("records", len(out.Records)).
		Dur("took", time.Since(start)).Err(out.Err).Msg("provider search")

	if out.Kind != domain.OutcomeSuccess {
		return nil, rep
	}
	hotels := s.norm.NormalizeAll(p.Name(), out.Records)
	if s.deps.Enricher != nil {
		hotels = s.deps.Enricher.Enrich(ctx, hotels, ec)
	}
	rep.Count = len(hotels)
	return hotels, rep
}

// center resolves the point a search runs around; nil when nothing resolves.
func (s *SearchService) center(ctx context.Context, d domain.Destination) *domain.Coordinate {
	switch d.Mode {
	case domain.ModeCoordinate:
		return d.Coordinate
	case domain.ModeCode:
		if s.deps.Airports != nil {
			c, err := s.deps.Airports.LookupCoordinate(ctx, d.Code)
			if err == nil {
				return &c
			}
			if !errors.Is(err, domain.ErrNotFound) {
				log.Warn().Err(err).Str("code", d.Code).Msg("airport lookup failed")
			}
		}
		return s.geocode(ctx, d.Code+" airport")
	case domain.ModeCity:
		return s.geocode(ctx, d.City)
	}
	return nil
}

// describe names a code destination from the airport store. Lookup misses
// leave the fields empty.
func (s *SearchService) describe(ctx context.Context, d domain.Destination) (label, tz string) {
	switch d.Mode {
	case domain.ModeCity:
		return d.City, ""
	case domain.ModeCode:
		label = d.Code
		if s.deps.Airports == nil {
			return label, ""
		}
		if name, err := s.deps.Airports.LookupDisplayName(ctx, d.Code); err == nil && name != "" {
			label = name
		}
		if t, err := s.deps.Airports.LookupTimezone(ctx, d.Code); err == nil {
			tz = t
		}
	}
	return label, tz
}

func (s *SearchService) geocode(ctx context.Context, q string) *domain.Coordinate {
	if s.deps.Geocoder == nil {
		return nil
	}
	p, err := s.deps.Geocoder.ResolveCoordinate(ctx, q)
	if err != nil {
		return nil
	}
	c := p.Coordinate
	return &c
}

func cacheKey(d domain.Destination, r domain.SearchRequest) string {
	var id string
	switch d.Mode {
	case domain.ModeCoordinate:
		id = fmt.Sprintf("%.4f,%.4f", d.Coordinate.Lat, d.Coordinate.Lon)
	case domain.ModeCode:
		id = d.Code
	default:
		id = strings.ToLower(d.City)
	}
	return strings.Join([]string{
		"search", string(d.Mode), id,
		r.CheckIn.Format("20060102"), r.CheckOut.Format("20060102"),
		strconv.Itoa(r.Adults), strconv.Itoa(r.Limit), r.Currency,
		strconv.FormatFloat(r.RadiusKm, 'f', -1, 64),
	}, ":")
}
