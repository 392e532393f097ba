package restaurants

import (
	"fmt"
	"sort"
	"strings"
)

type SortBy string

const (
	SortDefault        SortBy = ""
	SortRating         SortBy = "rating"
	SortDeliveryTime   SortBy = "delivery_time"
	SortPriceLowToHigh SortBy = "price_low_to_high"
	SortPriceHighToLow SortBy = "price_high_to_low"
)

const (
	minSearchLen               = 2
	minPriceTier, maxPriceTier = 1, 4
)

var vegetarianCuisines = []string{"Vegetarian", "Vegan"}

// FilterOptions is the user-selected search criteria. Zero value means no constraint.
type FilterOptions struct {
	CuisineType  []string `json:"cuisine_type,omitempty"`
	PriceRange   []int    `json:"price_range,omitempty"` // [min, max], inclusive
	Rating       float64  `json:"rating,omitempty"`
	IsVegetarian bool     `json:"is_vegetarian,omitempty"`
	DeliveryTime int      `json:"delivery_time,omitempty"`
	SortBy       SortBy   `json:"sort_by,omitempty"`
	Search       string   `json:"search,omitempty"`
}

func (f FilterOptions) Validate() error {
	if len(f.PriceRange) > 0 {
		if len(f.PriceRange) != 2 {
			return fmt.Errorf("price_range must be [min,max]")
		}
		lo, hi := f.PriceRange[0], f.PriceRange[1]
		if lo < minPriceTier || hi > maxPriceTier || lo > hi {
			return fmt.Errorf("price_range %v outside %d..%d", f.PriceRange, minPriceTier, maxPriceTier)
		}
	}
	if f.Rating < 0 || f.Rating > 5 {
		return fmt.Errorf("rating %.1f outside 0..5", f.Rating)
	}
	if f.DeliveryTime < 0 {
		return fmt.Errorf("delivery_time must not be negative")
	}
	switch f.SortBy {
	case SortDefault, SortRating, SortDeliveryTime, SortPriceLowToHigh, SortPriceHighToLow:
	default:
		return fmt.Errorf("unknown sort_by %q", f.SortBy)
	}
	return nil
}

// searchTerm returns the trimmed search text, or "" when it is too short to apply.
func (f FilterOptions) searchTerm() string {
	s := strings.TrimSpace(f.Search)
	if len([]rune(s)) < minSearchLen {
		return ""
	}
	return s
}

// Match reports whether r passes every constraint in f.
func (f FilterOptions) Match(r Restaurant) bool {
	if !r.IsActive {
		return false
	}
	if len(f.CuisineType) > 0 && !intersects(r.CuisineType, f.CuisineType) {
		return false
	}
	if len(f.PriceRange) == 2 && (r.PriceRange < f.PriceRange[0] || r.PriceRange > f.PriceRange[1]) {
		return false
	}
	if f.Rating > 0 && r.Rating < f.Rating {
		return false
	}
	if f.DeliveryTime > 0 && r.DeliveryTime > f.DeliveryTime {
		return false
	}
	if f.IsVegetarian && !intersects(r.CuisineType, vegetarianCuisines) {
		return false
	}
	if term := f.searchTerm(); term != "" && !matchesText(r, term) {
		return false
	}
	return true
}

// Apply filters and orders rs. Ties keep their input order.
func (f FilterOptions) Apply(rs []Restaurant) []Restaurant {
	out := make([]Restaurant, 0, len(rs))
	for _, r := range rs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, f.less(out))
	return out
}

func (f FilterOptions) less(rs []Restaurant) func(i, j int) bool {
	switch f.SortBy {
	case SortRating:
		return func(i, j int) bool { return rs[i].Rating > rs[j].Rating }
	case SortDeliveryTime:
		return func(i, j int) bool { return rs[i].DeliveryTime < rs[j].DeliveryTime }
	case SortPriceLowToHigh:
		return func(i, j int) bool { return rs[i].PriceRange < rs[j].PriceRange }
	case SortPriceHighToLow:
		return func(i, j int) bool { return rs[i].PriceRange > rs[j].PriceRange }
	default:
		return func(i, j int) bool {
			if rs[i].IsFeatured != rs[j].IsFeatured {
				return rs[i].IsFeatured
			}
			return rs[i].Rating > rs[j].Rating
		}
	}
}

func intersects(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func matchesText(r Restaurant, term string) bool {
	t := strings.ToLower(term)
	if strings.Contains(strings.ToLower(r.Name), t) || strings.Contains(strings.ToLower(r.Description), t) {
		return true
	}
	for _, c := range r.CuisineType {
		if strings.Contains(strings.ToLower(c), t) {
			return true
		}
	}
	return false
}
