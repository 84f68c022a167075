// Package merge combines provider result lists into one ranked list.
package merge

import (
	"sort"
	"strings"

	"stayfinder/internal/domain"
	"stayfinder/internal/geo"
)

type key struct {
	name     string
	lat, lon int64
}

// identity returns the dedup key; records without a coordinate have none
// and are never merged with anything.
func identity(h domain.Hotel) (key, bool) {
	if h.Coordinate == nil {
		return key{}, false
	}
	lat, lon := geo.Bucket(*h.Coordinate)
	return key{name: strings.ToLower(strings.TrimSpace(h.Name)), lat: lat, lon: lon}, true
}

// Merge flattens lists in order, sorts ascending by price (missing last, stable),
// drops later duplicates, then truncates to limit. limit <= 0 means no limit.
func Merge(lists [][]domain.Hotel, limit int) []domain.Hotel {
	var all []domain.Hotel
	for _, l := range lists {
		all = append(all, l...)
	}
	Rank(all)

	seen := make(map[key]struct{}, len(all))
	out := make([]domain.Hotel, 0, len(all))
	for _, h := range all {
		if k, ok := identity(h); ok {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		out = append(out, h)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Rank sorts in place by ascending price; unpriced records keep their order at the end.
func Rank(hs []domain.Hotel) {
	sort.SliceStable(hs, func(i, j int) bool {
		a, b := hs[i].Price, hs[j].Price
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a < *b
	})
}
