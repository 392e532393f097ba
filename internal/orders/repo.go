package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `o.id, o.external_id, o.user_id, o.restaurant_id, COALESCE(o.address_id, ''), o.items, o.total_amount,
	o.status, o.payment_method, o.payment_status, o.delivery_partner_id, o.placed_at,
	o.estimated_delivery_time, o.delivered_at, o.is_complete`

// Create inserts o, idempotent via external_id:
// jika external_id sudah ada -> return existing order (existed=true).
func (r *Repo) Create(ctx context.Context, o Order) (Order, bool, error) {
	existing, err := r.GetByExternalID(ctx, o.ExternalID)
	if err == nil {
		return existing, true, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Order{}, false, err
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	tag, err := r.DB.Exec(ctx, `
		INSERT INTO orders(id, external_id, user_id, restaurant_id, address_id, items, total_amount,
		                   status, payment_method, payment_status, placed_at, estimated_delivery_time, is_complete)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,false)
		ON CONFLICT (external_id) DO NOTHING`,
		o.ID, o.ExternalID, o.UserID, o.RestaurantID, o.AddressID, o.Items, o.TotalAmount,
		o.Status, o.PaymentMethod, o.PaymentStatus, o.PlacedAt, o.EstimatedDeliveryTime)
	if err != nil {
		return Order{}, false, err
	}
	if tag.RowsAffected() == 0 {
		// lost the race against a concurrent checkout with the same external_id
		existing, err := r.GetByExternalID(ctx, o.ExternalID)
		return existing, true, err
	}
	return o, false, nil
}

func (r *Repo) GetByExternalID(ctx context.Context, externalID string) (Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.external_id=$1`, externalID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	var (
		rest RestaurantRef
		cust CustomerRef
		addr AddressRef
	)
	row := r.DB.QueryRow(ctx, `
		SELECT `+orderColumns+`,
		       rs.name, rs.address, rs.featured_image,
		       COALESCE(p.name, ''), COALESCE(p.email, ''),
		       COALESCE(a.label, ''), COALESCE(a.full_address, '')
		FROM orders o
		JOIN restaurants rs ON rs.id = o.restaurant_id
		LEFT JOIN profiles p ON p.id = o.user_id
		LEFT JOIN addresses a ON a.id = o.address_id
		WHERE o.id=$1`, id)
	o, err := scanOrder(row, &rest.Name, &rest.Address, &rest.FeaturedImage, &cust.Name, &cust.Email,
		&addr.Label, &addr.FullAddress)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Restaurant, o.Customer, o.Address = &rest, &cust, &addr
	return o, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+orderColumns+`, rs.name, rs.featured_image
		FROM orders o JOIN restaurants rs ON rs.id = o.restaurant_id
		WHERE o.user_id=$1 ORDER BY o.placed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var ref RestaurantRef
		o, err := scanOrder(rows, &ref.Name, &ref.FeaturedImage)
		if err != nil {
			return nil, err
		}
		o.Restaurant = &ref
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) ListByRestaurant(ctx context.Context, restaurantID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+orderColumns+`, COALESCE(p.name, ''), COALESCE(p.email, '')
		FROM orders o LEFT JOIN profiles p ON p.id = o.user_id
		WHERE o.restaurant_id=$1 ORDER BY o.placed_at DESC`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var ref CustomerRef
		o, err := scanOrder(rows, &ref.Name, &ref.Email)
		if err != nil {
			return nil, err
		}
		o.Customer = &ref
		out = append(out, o)
	}
	return out, rows.Err()
}

// TransitionStatus moves id from -> to only if it is still in from.
// applied=false means the order was elsewhere (cancelled, already advanced).
func (r *Repo) TransitionStatus(ctx context.Context, id string, from, to Status, at time.Time) (Order, bool, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE orders o SET
			status = $3,
			delivered_at = CASE WHEN $3 = 'delivered' THEN $4 ELSE o.delivered_at END,
			is_complete = o.is_complete OR $3 = 'delivered'
		WHERE o.id=$1 AND o.status=$2
		RETURNING `+orderColumns, id, from, to, at)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, false, nil
	}
	if err != nil {
		return Order{}, false, err
	}
	return o, true, nil
}

func scanOrder(row pgx.Row, extra ...any) (Order, error) {
	var o Order
	dest := []any{&o.ID, &o.ExternalID, &o.UserID, &o.RestaurantID, &o.AddressID, &o.Items, &o.TotalAmount,
		&o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.DeliveryPartnerID, &o.PlacedAt,
		&o.EstimatedDeliveryTime, &o.DeliveredAt, &o.IsComplete}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return Order{}, err
	}
	return o, nil
}
