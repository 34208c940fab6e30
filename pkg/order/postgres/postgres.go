package postgres

import (
	"context"
	"database/sql"

	"shopflow/pkg/order"
)

// Repository persists orders in PostgreSQL across orders and order_lines.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the order and its lines in one transaction.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO orders (id,user_id,vendor_id,total,status,created_at,address) VALUES ($1,$2,$3,$4,$5,$6,$7)",
		o.ID, o.UserID, o.VendorID, o.Total, string(o.Status), o.CreatedAt, o.Address); err != nil {
		return err
	}
	for _, l := range o.Lines {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_lines (order_id,product_id,quantity,unit_price) VALUES ($1,$2,$3,$4)",
			o.ID, l.ProductID, l.Quantity, l.UnitPrice); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get retrieves an order with its lines by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	var o order.Order
	var status string
	err := r.db.QueryRowContext(ctx,
		"SELECT id,user_id,vendor_id,total,status,created_at,address FROM orders WHERE id=$1", id).
		Scan(&o.ID, &o.UserID, &o.VendorID, &o.Total, &status, &o.CreatedAt, &o.Address)
	if err == sql.ErrNoRows {
		return order.Order{}, order.ErrNotFound
	}
	if err != nil {
		return order.Order{}, err
	}
	o.Status = order.Status(status)
	o.Lines, err = r.lines(ctx, id)
	return o, err
}

// ListByUser returns all orders placed by a user.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,user_id,vendor_id,total,status,created_at,address FROM orders WHERE user_id=$1 ORDER BY created_at", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		var o order.Order
		var status string
		if err := rows.Scan(&o.ID, &o.UserID, &o.VendorID, &o.Total, &status, &o.CreatedAt, &o.Address); err != nil {
			return nil, err
		}
		o.Status = order.Status(status)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Lines, err = r.lines(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus sets the status of an existing order.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status=$2 WHERE id=$1", id, string(status))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *Repository) lines(ctx context.Context, orderID string) ([]order.Line, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT product_id,quantity,unit_price FROM order_lines WHERE order_id=$1", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []order.Line
	for rows.Next() {
		var l order.Line
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
