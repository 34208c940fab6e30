package postgres

import (
	"context"
	"database/sql"

	"shopflow/pkg/cart"
)

// Repository persists carts in PostgreSQL, one row per cart line.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves the cart for a user.
func (r *Repository) Get(ctx context.Context, userID string) (cart.Cart, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT product_id, quantity FROM cart_lines WHERE user_id=$1", userID)
	if err != nil {
		return cart.Cart{}, err
	}
	defer rows.Close()

	c := cart.Cart{UserID: userID}
	for rows.Next() {
		var l cart.Line
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return cart.Cart{}, err
		}
		c.Lines = append(c.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return cart.Cart{}, err
	}
	if len(c.Lines) == 0 {
		return cart.Cart{}, cart.ErrNotFound
	}
	return c, nil
}

// Put replaces the user's cart lines in one transaction.
func (r *Repository) Put(ctx context.Context, c cart.Cart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_lines WHERE user_id=$1", c.UserID); err != nil {
		return err
	}
	for _, l := range c.Lines {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO cart_lines (user_id, product_id, quantity) VALUES ($1,$2,$3)",
			c.UserID, l.ProductID, l.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes every cart line for a user.
func (r *Repository) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cart_lines WHERE user_id=$1", userID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return cart.ErrNotFound
	}
	return nil
}
