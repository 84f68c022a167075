// Package normalize maps provider-native hotel records onto domain.Hotel.
// Every function here is pure: no I/O, no logging.
package normalize

import (
	"strings"

	"stayfinder/internal/domain"
)

// Provider names, shared with the adapters and the orchestrator config.
const (
	Hotellook    = "hotellook"
	GooglePlaces = "googleplaces"
	LiteAPI      = "liteapi"
	Amadeus      = "amadeus"
	Hotelbeds    = "hotelbeds"
)

/********** alias registries **********/

// priceAliases: a provider may send its lowest price under any of these.
var priceAliases = []string{"price", "min_price", "fromPrice", "minRate", "priceFrom", "price.amount"}

var liteAliases = map[string][]string{
	"id":       {"id", "hotelId"},
	"name":     {"name", "hotelName"},
	"address":  {"address", "formatted_address"},
	"city":     {"cityName", "city"},
	"lat":      {"latitude", "lat", "location.latitude"},
	"lon":      {"longitude", "lon", "lng", "location.longitude"},
	"distance": {"distance", "dist"},
	"photo":    {"image", "photoUrl", "thumbnailUrl", "photo", "main_photo"},
	"rating":   {"rating", "stars", "reviewScore"},
	"currency": {"currency", "priceCurrency"},
	"amenity":  {"amenities", "facilities"},
}

var hotellookAliases = map[string][]string{
	"id":      {"hotelId", "id"},
	"name":    {"hotelName", "name"},
	"address": {"address", "city"},
	"lat":     {"location.lat", "location.geo.lat", "lat"},
	"lon":     {"location.lon", "location.geo.lon", "lon"},
}

// Normalizer converts raw records. DefaultCurrency fills records the
// provider returned without a currency.
type Normalizer struct {
	DefaultCurrency string
}

func New(defaultCurrency string) Normalizer {
	c := strings.ToUpper(strings.TrimSpace(defaultCurrency))
	if c == "" {
		c = "USD"
	}
	return Normalizer{DefaultCurrency: c}
}

// Normalize maps one record. It never rejects a record for missing fields.
func (n Normalizer) Normalize(provider string, raw domain.Record) domain.Hotel {
	var h domain.Hotel
	switch provider {
	case Hotellook:
		h = hotellook(raw)
	case GooglePlaces:
		h = googlePlaces(raw)
	case LiteAPI:
		h = liteAPI(raw)
	case Amadeus:
		h = amadeus(raw)
	case Hotelbeds:
		h = hotelbeds(raw)
	default:
		h = generic(raw)
	}
	h.Provider = provider
	return n.finish(h)
}

// NormalizeAll maps a provider's records in order.
func (n Normalizer) NormalizeAll(provider string, raws []domain.Record) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(raws))
	for _, r := range raws {
		if r == nil {
			continue
		}
		out = append(out, n.Normalize(provider, r))
	}
	return out
}

// finish applies the rules shared by every provider.
func (n Normalizer) finish(h domain.Hotel) domain.Hotel {
	h.Name = strings.TrimSpace(h.Name)
	if h.Price != nil && *h.Price < 0 {
		h.Price = nil
	}
	if h.PriceAverage != nil && (*h.PriceAverage < 0 || (h.Price != nil && *h.PriceAverage == *h.Price)) {
		h.PriceAverage = nil
	}
	h.Currency = strings.ToUpper(strings.TrimSpace(h.Currency))
	if h.Currency == "" {
		h.Currency = n.DefaultCurrency
	}
	if h.Amenities == nil {
		h.Amenities = []string{}
	}
	return h
}

/********** per-provider mappers **********/

func hotellook(m map[string]any) domain.Hotel {
	a := hotellookAliases
	return domain.Hotel{
		ProviderHotelID: firstText(m, a["id"]...),
		Name:            firstText(m, a["name"]...),
		Address:         ptrStr(firstText(m, a["address"]...)),
		Coordinate:      coordAt(m, a["lat"], a["lon"]),
		StarRating:      ratingAt(m, "stars"),
		Price:           floatAt(m, priceAliases...),
		PriceAverage:    floatAt(m, "priceAvg"),
		Currency:        firstText(m, "currency"),
		DistanceKm:      floatAt(m, "distance"),
		Amenities:       stringsAt(m, "amenities"),
	}
}

func googlePlaces(m map[string]any) domain.Hotel {
	h := domain.Hotel{
		ProviderHotelID: firstText(m, "place_id"),
		Name:            firstText(m, "name"),
		Address:         ptrStr(firstText(m, "formatted_address", "vicinity")),
		Coordinate:      coordAt(m, []string{"geometry.location.lat"}, []string{"geometry.location.lng"}),
		StarRating:      ratingAt(m, "rating"),
		PhotoURL:        ptrStr(firstText(m, "photo_url")),
		ReviewsTotal:    intAt(m, "user_ratings_total"),
		Amenities:       stringsAt(m, "types"),
	}
	if lvl := intAt(m, "price_level"); lvl != nil {
		if tier, ok := domain.TierFromLevel(*lvl); ok {
			h.PriceTier = &tier
		}
	}
	return h
}

func liteAPI(m map[string]any) domain.Hotel {
	a := liteAliases
	return domain.Hotel{
		ProviderHotelID: firstText(m, a["id"]...),
		Name:            firstText(m, a["name"]...),
		Address:         ptrStr(firstText(m, a["address"]...)),
		City:            ptrStr(firstText(m, a["city"]...)),
		Chain:           ptrStr(firstText(m, "chain", "chainName")),
		Coordinate:      coordAt(m, a["lat"], a["lon"]),
		StarRating:      ratingAt(m, a["rating"]...),
		Price:           floatAt(m, priceAliases...),
		Currency:        firstText(m, a["currency"]...),
		DistanceKm:      floatAt(m, a["distance"]...),
		PhotoURL:        ptrStr(firstText(m, a["photo"]...)),
		Amenities:       stringsAt(m, a["amenity"]...),
	}
}

// amadeus maps one hotel-offers item: {hotel:{...}, offers:[{price:{...}}]}.
func amadeus(m map[string]any) domain.Hotel {
	hotel, _ := m["hotel"].(map[string]any)
	if hotel == nil {
		hotel = m
	}
	h := domain.Hotel{
		ProviderHotelID: firstText(hotel, "hotelId", "id"),
		Name:            firstText(hotel, "name"),
		City:            ptrStr(firstText(hotel, "address.cityName", "cityCode")),
		Chain:           ptrStr(firstText(hotel, "chainCode")),
		Coordinate:      coordAt(hotel, []string{"latitude", "geoCode.latitude"}, []string{"longitude", "geoCode.longitude"}),
		StarRating:      ratingAt(hotel, "rating"),
		Amenities:       stringsAt(hotel, "amenities"),
	}
	if addr := firstText(hotel, "address.lines"); addr != "" {
		h.Address = &addr
	} else {
		h.Address = h.City
	}
	if d := floatAt(hotel, "distance.value"); d != nil {
		km := *d
		if strings.EqualFold(firstText(hotel, "distance.unit"), "MILE") {
			km *= 1.609344
		}
		h.DistanceKm = &km
	}
	if offers := List(m, "offers"); len(offers) > 0 {
		if o, ok := offers[0].(map[string]any); ok {
			h.Price = floatAt(o, "price.total", "price.base")
			h.Currency = firstText(o, "price.currency")
		}
	}
	return h
}

// hotelbeds maps one availability hotel; name and address may be {content: ...}.
func hotelbeds(m map[string]any) domain.Hotel {
	h := domain.Hotel{
		ProviderHotelID: firstText(m, "code"),
		Name:            Text(m["name"]),
		Coordinate:      coordAt(m, []string{"latitude"}, []string{"longitude"}),
		StarRating:      ratingAt(m, "categoryCode", "categoryName"),
		Currency:        firstText(m, "currency"),
		Amenities:       stringsAt(m, "facilities"),
	}
	address := Text(m["address"])
	if dest := Text(m["destinationName"]); dest != "" {
		h.City = &dest
		switch {
		case address == "":
			address = dest
		case !strings.Contains(address, dest):
			address += ", " + dest
		}
	}
	h.Address = ptrStr(address)

	// lowest sellingRate (else net) across all rooms and rates
	for _, r := range List(m, "rooms") {
		room, ok := r.(map[string]any)
		if !ok {
			continue
		}
		for _, rt := range List(room, "rates") {
			rate, ok := rt.(map[string]any)
			if !ok {
				continue
			}
			v := floatAt(rate, "sellingRate", "net")
			if v == nil {
				continue
			}
			if h.Price == nil || *v < *h.Price {
				h.Price = v
				if cur := firstText(rate, "currency"); cur != "" {
					h.Currency = cur
				}
			}
		}
	}
	if h.Price == nil {
		h.Price = floatAt(m, "minRate")
	}
	if h.Name == "" {
		h.Name = "(no name)"
	}
	return h
}

func generic(m map[string]any) domain.Hotel {
	return domain.Hotel{
		ProviderHotelID: firstText(m, "id", "hotelId", "hotel_id", "code"),
		Name:            firstText(m, "name", "hotelName"),
		Address:         ptrStr(firstText(m, "address", "formatted_address")),
		Coordinate:      coordAt(m, []string{"lat", "latitude"}, []string{"lon", "lng", "longitude"}),
		StarRating:      ratingAt(m, "rating", "stars"),
		Price:           floatAt(m, priceAliases...),
		Currency:        firstText(m, "currency"),
		Amenities:       stringsAt(m, "amenities"),
	}
}
