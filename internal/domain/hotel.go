package domain

// NoAddressPlaceholder is shown when neither an address nor a coordinate
// could be resolved for a hotel.
const NoAddressPlaceholder = "no address information"

type Coordinate struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Rating is provider-relative: numeric stars, a review score or a category code.
type Rating struct {
	Value *float64 `json:"value,omitempty"`
	Code  string   `json:"code,omitempty"`
}

// PriceTier is a coarse price signal from a places provider, never a real price.
type PriceTier string

const (
	TierFree    PriceTier = "free"
	TierLow     PriceTier = "low"
	TierMid     PriceTier = "mid"
	TierHigh    PriceTier = "high"
	TierPremium PriceTier = "premium"
)

// TierFromLevel maps a 0..4 places price level to a tier.
func TierFromLevel(level int) (PriceTier, bool) {
	switch level {
	case 0:
		return TierFree, true
	case 1:
		return TierLow, true
	case 2:
		return TierMid, true
	case 3:
		return TierHigh, true
	case 4:
		return TierPremium, true
	}
	return "", false
}

// Hotel is the canonical record every provider result is converted into.
// It lives for one search request only.
type Hotel struct {
	Provider        string      `json:"provider"`
	ProviderHotelID string      `json:"provider_hotel_id,omitempty"`
	Name            string      `json:"name"`
	Address         *string     `json:"address,omitempty"`
	City            *string     `json:"city,omitempty"`
	Chain           *string     `json:"chain,omitempty"`
	Coordinate      *Coordinate `json:"coordinate,omitempty"`
	StarRating      *Rating     `json:"star_rating,omitempty"`
	Price           *float64    `json:"price,omitempty"`
	PriceAverage    *float64    `json:"price_average,omitempty"`
	Currency        string      `json:"currency"`
	PriceTier       *PriceTier  `json:"price_tier,omitempty"`
	DistanceKm      *float64    `json:"distance_km,omitempty"`
	PhotoURL        *string     `json:"photo_url,omitempty"`
	Website         *string     `json:"website,omitempty"`
	Phone           *string     `json:"phone,omitempty"`
	MapsURL         *string     `json:"maps_url,omitempty"`
	ReviewsTotal    *int        `json:"reviews_total,omitempty"`
	Amenities       []string    `json:"amenities"`
}

// DisplayAddress returns the address, or the placeholder when none is known.
func (h Hotel) DisplayAddress() string {
	if h.Address != nil && *h.Address != "" {
		return *h.Address
	}
	return NoAddressPlaceholder
}
