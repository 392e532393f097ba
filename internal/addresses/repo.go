package addresses

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-food-orders/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("address not found")

const addressColumns = `id, user_id, label, full_address, latitude, longitude, is_default, created_at`

type Repo struct {
	DB *pgxpool.Pool
}

// List returns the default address first, then newest first.
func (r *Repo) List(ctx context.Context, userID string) ([]Address, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+addressColumns+` FROM addresses
		WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()
	out := []Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Get only finds addresses owned by userID.
func (r *Repo) Get(ctx context.Context, userID, id string) (Address, error) {
	a, err := scanAddress(r.DB.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses
		WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Address{}, ErrNotFound
	}
	return a, err
}

// Create inserts a. The first address of a user is always the default, and
// a new default clears the previous one.
func (r *Repo) Create(ctx context.Context, a Address) (Address, error) {
	var out Address
	err := postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var n int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM addresses WHERE user_id = $1`, a.UserID).Scan(&n); err != nil {
			return fmt.Errorf("count addresses: %w", err)
		}
		if n == 0 {
			a.IsDefault = true
		}
		if a.IsDefault {
			if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false WHERE user_id = $1 AND is_default`, a.UserID); err != nil {
				return fmt.Errorf("clear default address: %w", err)
			}
		}
		var err error
		out, err = scanAddress(tx.QueryRow(ctx, `
			INSERT INTO addresses (id, user_id, label, full_address, latitude, longitude, is_default)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+addressColumns,
			a.ID, a.UserID, a.Label, a.FullAddress, a.Latitude, a.Longitude, a.IsDefault))
		if err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
		return nil
	})
	return out, err
}

// Update applies p to an address userID owns. Making it the default clears
// the previous default in the same transaction.
func (r *Repo) Update(ctx context.Context, userID, id string, p Patch) (Address, error) {
	var out Address
	err := postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		if p.MakeDefault {
			if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false
				WHERE user_id = $1 AND id <> $2 AND is_default`, userID, id); err != nil {
				return fmt.Errorf("clear default address: %w", err)
			}
		}
		var err error
		out, err = scanAddress(tx.QueryRow(ctx, `
			UPDATE addresses SET
				label        = COALESCE($3, label),
				full_address = COALESCE($4, full_address),
				latitude     = COALESCE($5, latitude),
				longitude    = COALESCE($6, longitude),
				is_default   = is_default OR $7
			WHERE id = $1 AND user_id = $2
			RETURNING `+addressColumns,
			id, userID, p.Label, p.FullAddress, p.Latitude, p.Longitude, p.MakeDefault))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("update address: %w", err)
		}
		return nil
	})
	return out, err
}

// Delete removes the address; when it was the default the newest remaining
// address is promoted.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	return postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var wasDefault bool
		err := tx.QueryRow(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2 RETURNING is_default`,
			id, userID).Scan(&wasDefault)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("delete address: %w", err)
		}
		if !wasDefault {
			return nil
		}
		_, err = tx.Exec(ctx, `UPDATE addresses SET is_default = true
			WHERE id = (SELECT id FROM addresses WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT 1)`, userID)
		if err != nil {
			return fmt.Errorf("promote default address: %w", err)
		}
		return nil
	})
}

func scanAddress(row pgx.Row) (Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.FullAddress, &a.Latitude, &a.Longitude, &a.IsDefault, &a.CreatedAt)
	return a, err
}
