package restaurants

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("restaurant not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) List(ctx context.Context, f FilterOptions) ([]Restaurant, error) {
	q, args := BuildQuery(f)
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectRestaurants(rows)
}

func (r *Repo) Get(ctx context.Context, id string) (Restaurant, error) {
	return oneRestaurant(r.DB.Query(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id=$1`, id))
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]Restaurant, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+restaurantColumns+` FROM restaurants
	                              WHERE owner_id=$1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectRestaurants(rows)
}

const menuItemColumns = `id, restaurant_id, name, description, price, category, image,
	is_vegetarian, is_vegan, calories, ingredients, is_available, featured`

func (r *Repo) MenuItems(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE restaurant_id=$1
		ORDER BY is_available DESC, category, name`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) MenuItem(ctx context.Context, restaurantID, itemID string) (MenuItem, error) {
	return oneMenuItem(r.DB.QueryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items
	                                       WHERE restaurant_id=$1 AND id=$2`, restaurantID, itemID))
}

func (r *Repo) CreateRestaurant(ctx context.Context, x Restaurant) (Restaurant, error) {
	return oneRestaurant(r.DB.Query(ctx, `
		INSERT INTO restaurants (id, owner_id, name, description, cuisine_type, address, latitude, longitude,
		                         opening_hours, closing_hours, price_range, delivery_time, featured_image, images, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING `+restaurantColumns,
		x.ID, x.OwnerID, x.Name, x.Description, x.CuisineType, x.Address, x.Latitude, x.Longitude,
		x.OpeningHours, x.ClosingHours, x.PriceRange, x.DeliveryTime, x.FeaturedImage, x.Images, x.IsActive))
}

func (r *Repo) UpdateRestaurant(ctx context.Context, x Restaurant) (Restaurant, error) {
	return oneRestaurant(r.DB.Query(ctx, `
		UPDATE restaurants SET name=$2, description=$3, cuisine_type=$4, address=$5, latitude=$6, longitude=$7,
		       opening_hours=$8, closing_hours=$9, price_range=$10, delivery_time=$11, featured_image=$12, images=$13
		WHERE id=$1
		RETURNING `+restaurantColumns,
		x.ID, x.Name, x.Description, x.CuisineType, x.Address, x.Latitude, x.Longitude,
		x.OpeningHours, x.ClosingHours, x.PriceRange, x.DeliveryTime, x.FeaturedImage, x.Images))
}

func (r *Repo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.DB.Exec(ctx, `UPDATE restaurants SET is_active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) CreateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error) {
	return oneMenuItem(r.DB.QueryRow(ctx, `
		INSERT INTO menu_items (id, restaurant_id, name, description, price, category, image,
		                        is_vegetarian, is_vegan, calories, ingredients, is_available, featured)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING `+menuItemColumns,
		m.ID, m.RestaurantID, m.Name, m.Description, m.Price, m.Category, m.Image,
		m.IsVegetarian, m.IsVegan, m.Calories, m.Ingredients, m.IsAvailable, m.Featured))
}

func (r *Repo) UpdateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error) {
	return oneMenuItem(r.DB.QueryRow(ctx, `
		UPDATE menu_items SET name=$3, description=$4, price=$5, category=$6, image=$7,
		       is_vegetarian=$8, is_vegan=$9, calories=$10, ingredients=$11, is_available=$12, featured=$13
		WHERE restaurant_id=$1 AND id=$2
		RETURNING `+menuItemColumns,
		m.RestaurantID, m.ID, m.Name, m.Description, m.Price, m.Category, m.Image,
		m.IsVegetarian, m.IsVegan, m.Calories, m.Ingredients, m.IsAvailable, m.Featured))
}

func (r *Repo) SetMenuItemAvailability(ctx context.Context, restaurantID, itemID string, available bool) (MenuItem, error) {
	return oneMenuItem(r.DB.QueryRow(ctx, `
		UPDATE menu_items SET is_available=$3 WHERE restaurant_id=$1 AND id=$2
		RETURNING `+menuItemColumns, restaurantID, itemID, available))
}

// DeleteMenuItem removes the row outright. Placed orders keep their own
// snapshot of the item, so nothing references it.
func (r *Repo) DeleteMenuItem(ctx context.Context, restaurantID, itemID string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM menu_items WHERE restaurant_id=$1 AND id=$2`, restaurantID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

func scanMenuItem(row pgx.Row) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.Price, &m.Category, &m.Image,
		&m.IsVegetarian, &m.IsVegan, &m.Calories, &m.Ingredients, &m.IsAvailable, &m.Featured)
	return m, err
}

func oneMenuItem(row pgx.Row) (MenuItem, error) {
	m, err := scanMenuItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return MenuItem{}, ErrMenuItemNotFound
	}
	return m, err
}

func oneRestaurant(rows pgx.Rows, err error) (Restaurant, error) {
	if err != nil {
		return Restaurant{}, err
	}
	rs, err := collectRestaurants(rows)
	if err != nil {
		return Restaurant{}, err
	}
	if len(rs) == 0 {
		return Restaurant{}, ErrNotFound
	}
	return rs[0], nil
}

func collectRestaurants(rows pgx.Rows) ([]Restaurant, error) {
	defer rows.Close()
	var out []Restaurant
	for rows.Next() {
		var x Restaurant
		if err := rows.Scan(&x.ID, &x.OwnerID, &x.Name, &x.Description, &x.CuisineType, &x.Address,
			&x.Latitude, &x.Longitude, &x.OpeningHours, &x.ClosingHours, &x.Rating, &x.PriceRange,
			&x.DeliveryTime, &x.FeaturedImage, &x.Images, &x.IsFeatured, &x.IsActive, &x.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, rows.Err()
}
