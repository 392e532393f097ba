package restaurants

import (
	"fmt"
	"strings"
)

const restaurantColumns = `id, owner_id, name, description, cuisine_type, address, latitude, longitude,
	opening_hours, closing_hours, rating::float8, price_range, delivery_time, featured_image, images,
	is_featured, is_active, created_at`

// BuildQuery renders f as a parameterised SELECT over restaurants. It applies
// the same predicates and ordering as FilterOptions.Apply.
func BuildQuery(f FilterOptions) (string, []any) {
	var (
		where = []string{"is_active = true"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.CuisineType) > 0 {
		where = append(where, "cuisine_type && "+arg(f.CuisineType)+"::text[]")
	}
	if len(f.PriceRange) == 2 {
		where = append(where, fmt.Sprintf("price_range BETWEEN %s AND %s", arg(f.PriceRange[0]), arg(f.PriceRange[1])))
	}
	if f.Rating > 0 {
		where = append(where, "rating >= "+arg(f.Rating))
	}
	if f.DeliveryTime > 0 {
		where = append(where, "delivery_time <= "+arg(f.DeliveryTime))
	}
	if f.IsVegetarian {
		where = append(where, "cuisine_type && "+arg(vegetarianCuisines)+"::text[]")
	}
	if term := f.searchTerm(); term != "" {
		p := arg("%" + escapeLike(term) + "%")
		where = append(where, fmt.Sprintf(
			"(name ILIKE %[1]s OR description ILIKE %[1]s OR EXISTS (SELECT 1 FROM unnest(cuisine_type) c WHERE c ILIKE %[1]s))", p))
	}

	q := "SELECT " + restaurantColumns + " FROM restaurants WHERE " + strings.Join(where, " AND ") +
		" ORDER BY " + orderBy(f.SortBy) + ", created_at, id"
	return q, args
}

func orderBy(s SortBy) string {
	switch s {
	case SortRating:
		return "rating DESC"
	case SortDeliveryTime:
		return "delivery_time ASC"
	case SortPriceLowToHigh:
		return "price_range ASC"
	case SortPriceHighToLow:
		return "price_range DESC"
	default:
		return "is_featured DESC, rating DESC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
