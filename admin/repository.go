package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ratehub/auth"
)

// Stats are the platform-wide totals shown on the admin dashboard.
type Stats struct {
	TotalUsers    int
	TotalStores   int
	TotalRatings  int
	AverageRating float64
}

// UserRecord is a user row as listed for admins. Password hashes never
// leave the repository.
type UserRecord struct {
	ID        string
	Name      string
	Email     string
	Address   *string
	Role      auth.Role
	StoreName *string
	CreatedAt time.Time
}

// Repository handles admin data access.
type Repository interface {
	Stats(ctx context.Context) (Stats, error)
	ListUsers(ctx context.Context) ([]UserRecord, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed admin repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Stats computes platform totals in a single query.
func (r *PGRepository) Stats(ctx context.Context) (Stats, error) {
	const statsSQL = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM stores),
			(SELECT COUNT(*) FROM ratings),
			(SELECT COALESCE(AVG(value), 0) FROM ratings)
	`

	var stats Stats
	err := r.pool.QueryRow(ctx, statsSQL).Scan(
		&stats.TotalUsers, &stats.TotalStores, &stats.TotalRatings, &stats.AverageRating)
	if err != nil {
		return Stats{}, fmt.Errorf("admin: stats: %w", err)
	}

	return stats, nil
}

// ListUsers returns every account, joined with the store name for owners.
func (r *PGRepository) ListUsers(ctx context.Context) ([]UserRecord, error) {
	const listSQL = `
		SELECT u.id, u.name, u.email, u.address, u.role, s.name, u.created_at
		FROM users u
		LEFT JOIN stores s ON s.owner_id = u.id
		ORDER BY u.created_at DESC
	`

	rows, err := r.pool.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("admin: list users: %w", err)
	}
	defer rows.Close()

	users := []UserRecord{}
	for rows.Next() {
		var rec UserRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Address, &rec.Role, &rec.StoreName, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("admin: scan user: %w", err)
		}
		users = append(users, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("admin: rows: %w", err)
	}

	return users, nil
}
