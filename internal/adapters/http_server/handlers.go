package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stayfinder/internal/domain"
)

// NoHotelsMessage is returned alongside an empty search result.
const NoHotelsMessage = "no hotel information available"

type Searcher interface {
	Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error)
}

type AirportGetter interface {
	Get(ctx context.Context, code string) (domain.Airport, error)
}

type Handlers struct {
	Search   Searcher
	Airports AirportGetter // optional
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type hotelView struct {
	domain.Hotel
	DisplayAddress string `json:"display_address"`
}

type searchResponse struct {
	ID        string                  `json:"id"`
	Hotels    []hotelView             `json:"hotels"`
	NoResults bool                    `json:"no_results"`
	Message   string                  `json:"message,omitempty"`
	Center    *domain.Coordinate      `json:"center,omitempty"`
	Label     string                  `json:"label,omitempty"`
	Timezone  string                  `json:"timezone,omitempty"`
	Providers []domain.ProviderReport `json:"providers"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Get("/v1/hotels/search", h.searchHotels)
	if h.Airports != nil {
		s.mux.Get("/v1/airports/{code}", h.getAirport)
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// parseSearch reads the query string. Range checks are left to the search
// service; only unparseable values are rejected here.
func parseSearch(r *http.Request) (domain.SearchRequest, error) {
	q := r.URL.Query()
	req := domain.SearchRequest{
		City:     strings.TrimSpace(q.Get("city")),
		Code:     strings.TrimSpace(q.Get("iata")),
		Currency: strings.TrimSpace(q.Get("currency")),
	}

	lat, lon := q.Get("lat"), q.Get("lon")
	if lat != "" || lon != "" {
		la, err1 := strconv.ParseFloat(lat, 64)
		lo, err2 := strconv.ParseFloat(lon, 64)
		if err1 != nil || err2 != nil {
			return req, errors.New("lat and lon must both be numbers")
		}
		req.Coordinate = &domain.Coordinate{Lat: la, Lon: lo}
	}

	var err error
	if req.CheckIn, err = domain.ParseDate(q.Get("checkin")); err != nil {
		return req, errors.New("checkin must be YYYY-MM-DD")
	}
	if req.CheckOut, err = domain.ParseDate(q.Get("checkout")); err != nil {
		return req, errors.New("checkout must be YYYY-MM-DD")
	}

	ints := []struct {
		name string
		dst  *int
	}{{"adults", &req.Adults}, {"limit", &req.Limit}}
	for _, p := range ints {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return req, fmt.Errorf("%s must be an integer", p.name)
			}
			*p.dst = n
		}
	}
	if v := q.Get("radius_km"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, errors.New("radius_km must be a number")
		}
		req.RadiusKm = f
	}
	return req, nil
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearch(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	}
	res, err := h.Search.Search(r.Context(), req)
	switch {
	case errors.Is(err, domain.ErrNoDestination):
		writeProblem(w, http.StatusBadRequest, "Missing destination", "one of lat/lon, iata or city is required")
		return
	case errors.Is(err, domain.ErrInvalidRequest):
		writeProblem(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	case err != nil:
		log.Error().Err(err).Msg("search failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	out := searchResponse{
		ID:        res.ID,
		Hotels:    make([]hotelView, 0, len(res.Hotels)),
		NoResults: res.NoResults,
		Center:    res.Center,
		Label:     res.Label,
		Timezone:  res.Timezone,
		Providers: res.Providers,
	}
	for _, hh := range res.Hotels {
		out.Hotels = append(out.Hotels, hotelView{Hotel: hh, DisplayAddress: hh.DisplayAddress()})
	}
	if out.Providers == nil {
		out.Providers = []domain.ProviderReport{}
	}
	if res.NoResults {
		out.Message = NoHotelsMessage
	}
	writeJSON(w, r, out)
}

func (h *Handlers) getAirport(w http.ResponseWriter, r *http.Request) {
	a, err := h.Airports.Get(r.Context(), chi.URLParam(r, "code"))
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeProblem(w, http.StatusBadRequest, "Invalid code", "airport code must have 3 letters")
		return
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "airport not found")
		return
	case err != nil:
		log.Error().Err(err).Msg("airport lookup failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	writeJSON(w, r, a)
}
