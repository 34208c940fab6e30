package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"shopflow/pkg/vendorpkg"
)

// Repository persists vendors in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new vendor, rejecting duplicate emails.
func (r *Repository) Create(ctx context.Context, v vendor.Vendor) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO vendors (id,name,email,password_hash,created_at) VALUES ($1,$2,$3,$4,$5)",
		v.ID, v.Name, v.Email, v.PasswordHash, v.CreatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return vendor.ErrEmailTaken
	}
	return err
}

// Get retrieves a vendor by ID.
func (r *Repository) Get(ctx context.Context, id string) (vendor.Vendor, error) {
	var v vendor.Vendor
	err := r.db.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,created_at FROM vendors WHERE id=$1", id).
		Scan(&v.ID, &v.Name, &v.Email, &v.PasswordHash, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return v, err
}

// GetByEmail retrieves a vendor by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (vendor.Vendor, error) {
	var v vendor.Vendor
	err := r.db.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,created_at FROM vendors WHERE email=$1", email).
		Scan(&v.ID, &v.Name, &v.Email, &v.PasswordHash, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return v, err
}
