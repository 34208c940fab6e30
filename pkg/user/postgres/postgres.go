package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"shopflow/pkg/user"
)

// Repository persists users in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user, rejecting duplicate emails.
func (r *Repository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id,name,email,password_hash) VALUES ($1,$2,$3,$4)",
		u.ID, u.Name, u.Email, u.PasswordHash)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return user.ErrEmailTaken
	}
	return err
}

// Get retrieves a user by ID.
func (r *Repository) Get(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash FROM users WHERE id=$1", id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return u, err
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash FROM users WHERE email=$1", email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return u, err
}

// AppendPurchases records purchased products for the user.
func (r *Repository) AppendPurchases(ctx context.Context, userID string, productIDs []string) error {
	for _, pid := range productIDs {
		if _, err := r.db.ExecContext(ctx,
			"INSERT INTO purchase_history (user_id, product_id) VALUES ($1,$2)", userID, pid); err != nil {
			return err
		}
	}
	return nil
}

// PurchaseHistory returns the product ids the user has purchased, oldest
// first.
func (r *Repository) PurchaseHistory(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT product_id FROM purchase_history WHERE user_id=$1 ORDER BY purchased_at", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
