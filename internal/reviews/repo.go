package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-food-orders/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("order already reviewed")
)

const uniqueViolation = "23505"

type Repo struct {
	DB *pgxpool.Pool
}

// Create inserts rv and refreshes the restaurant rating in the same transaction.
func (r *Repo) Create(ctx context.Context, rv Review) (Review, error) {
	err := postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO reviews (id, user_id, restaurant_id, order_id, rating, comment, images)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at`,
			rv.ID, rv.UserID, rv.RestaurantID, rv.OrderID, rv.Rating, rv.Comment, rv.Images,
		).Scan(&rv.CreatedAt)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyReviewed
		}
		if err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
		return refreshRating(ctx, tx, rv.RestaurantID)
	})
	return rv, err
}

func (r *Repo) ListByRestaurant(ctx context.Context, restaurantID string) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT rv.id, rv.user_id, rv.restaurant_id, rv.order_id, rv.rating, rv.comment, rv.images, rv.created_at,
		       COALESCE(p.name, '')
		FROM reviews rv
		LEFT JOIN profiles p ON p.id = rv.user_id
		WHERE rv.restaurant_id = $1
		ORDER BY rv.created_at DESC, rv.id`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()
	out := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.RestaurantID, &rv.OrderID, &rv.Rating, &rv.Comment,
			&rv.Images, &rv.CreatedAt, &rv.Reviewer); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ListByUser returns the reviews userID wrote, newest first, each with the
// restaurant it is about.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT rv.id, rv.user_id, rv.restaurant_id, rv.order_id, rv.rating, rv.comment, rv.images, rv.created_at,
		       rs.name, rs.featured_image
		FROM reviews rv
		JOIN restaurants rs ON rs.id = rv.restaurant_id
		WHERE rv.user_id = $1
		ORDER BY rv.created_at DESC, rv.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	defer rows.Close()
	out := []Review{}
	for rows.Next() {
		rv := Review{Restaurant: &RestaurantRef{}}
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.RestaurantID, &rv.OrderID, &rv.Rating, &rv.Comment,
			&rv.Images, &rv.CreatedAt, &rv.Restaurant.Name, &rv.Restaurant.FeaturedImage); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Delete removes a review written by userID and refreshes the rating.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	return postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var restaurantID string
		err := tx.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2 RETURNING restaurant_id`,
			id, userID).Scan(&restaurantID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		return refreshRating(ctx, tx, restaurantID)
	})
}

func refreshRating(ctx context.Context, tx pgx.Tx, restaurantID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE restaurants
		SET rating = COALESCE((SELECT round(avg(rating)::numeric, 1) FROM reviews WHERE restaurant_id = $1), 0)
		WHERE id = $1`, restaurantID)
	if err != nil {
		return fmt.Errorf("refresh rating: %w", err)
	}
	return nil
}
