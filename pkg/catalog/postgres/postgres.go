package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"shopflow/pkg/catalog"
)

// Repository persists products in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, p catalog.Product) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO products (id,name,description,price,stock,category,vendor_id) VALUES ($1,$2,$3,$4,$5,$6,$7)",
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.VendorID)
	return err
}

// Get retrieves a product by ID.
func (r *Repository) Get(ctx context.Context, id string) (catalog.Product, error) {
	var p catalog.Product
	err := r.db.QueryRowContext(ctx,
		"SELECT id,name,description,price,stock,category,vendor_id FROM products WHERE id=$1", id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.VendorID)
	if err == sql.ErrNoRows {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, err
}

// Update updates an existing product.
func (r *Repository) Update(ctx context.Context, p catalog.Product) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET name=$2, description=$3, price=$4, stock=$5, category=$6 WHERE id=$1",
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// sortColumns whitelists the fields a caller may order by.
var sortColumns = map[string]string{
	"name":  "name",
	"price": "price",
	"stock": "stock",
}

// List returns a page of products matching the query.
func (r *Repository) List(ctx context.Context, q catalog.Query) (catalog.Listing, error) {
	where := " WHERE ($1 = '' OR vendor_id = $1) AND ($2 = '' OR category = $2)"
	order := "id"
	if col, ok := sortColumns[q.Sort]; ok {
		order = col
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, q.VendorID, q.Category).Scan(&total); err != nil {
		return catalog.Listing{}, err
	}

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	query := fmt.Sprintf(
		"SELECT id,name,description,price,stock,category,vendor_id FROM products%s ORDER BY %s LIMIT $3 OFFSET $4",
		where, order)
	rows, err := r.db.QueryContext(ctx, query, q.VendorID, q.Category, limit, (page-1)*limit)
	if err != nil {
		return catalog.Listing{}, err
	}
	defer rows.Close()

	products := []catalog.Product{}
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.VendorID); err != nil {
			return catalog.Listing{}, err
		}
		products = append(products, p)
	}
	return catalog.Listing{Total: total, Products: products}, rows.Err()
}

// DecrementStock subtracts qty with a guarded update so the check and the
// write are one atomic statement.
func (r *Repository) DecrementStock(ctx context.Context, id string, qty int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET stock = stock - $2 WHERE id=$1 AND stock >= $2", id, qty)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Distinguish a missing product from a shortfall.
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return &catalog.InsufficientStockError{ProductID: id}
	}
	return nil
}

// IncrementStock adds qty back; used to compensate aborted reservations.
func (r *Repository) IncrementStock(ctx context.Context, id string, qty int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET stock = stock + $2 WHERE id=$1", id, qty)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}
