package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrAlreadyRated signals a second rating for the same (user, store) pair.
	ErrAlreadyRated = errors.New("rating: store already rated by this user")
	// ErrStoreNotFound signals a rating against a nonexistent store.
	ErrStoreNotFound = errors.New("rating: store not found")
)

// Repository handles data access for ratings.
type Repository interface {
	Create(ctx context.Context, userID string, params AddParams) (Rating, error)
	ListForUser(ctx context.Context, userID string) ([]UserRating, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed rating repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a rating. The ratings table enforces UNIQUE(user_id,
// store_id) and a 1-5 range check, so concurrent duplicates lose cleanly at
// the database rather than racing in application code.
func (r *PGRepository) Create(ctx context.Context, userID string, params AddParams) (Rating, error) {
	const insertSQL = `
		INSERT INTO ratings (id, value, comment, store_id, user_id)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id, value, comment, store_id, user_id, created_at
	`

	var (
		rec     Rating
		comment *string
	)
	err := r.pool.QueryRow(ctx, insertSQL,
		uuid.NewString(), params.Value, params.Comment, params.StoreID, userID,
	).Scan(&rec.ID, &rec.Value, &comment, &rec.StoreID, &rec.UserID, &rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Rating{}, ErrAlreadyRated
			case "23503":
				return Rating{}, ErrStoreNotFound
			}
		}
		return Rating{}, fmt.Errorf("rating: create: %w", err)
	}

	rec.Comment = comment
	return rec, nil
}

// ListForUser returns the user's own ratings with store names, newest first.
func (r *PGRepository) ListForUser(ctx context.Context, userID string) ([]UserRating, error) {
	const listSQL = `
		SELECT r.id, r.value, r.comment, r.store_id, r.user_id, r.created_at, s.name
		FROM ratings r
		JOIN stores s ON s.id = r.store_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.pool.Query(ctx, listSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("rating: list for user: %w", err)
	}
	defer rows.Close()

	ratings := []UserRating{}
	for rows.Next() {
		var ur UserRating
		if err := rows.Scan(&ur.ID, &ur.Value, &ur.Comment, &ur.StoreID, &ur.UserID, &ur.CreatedAt, &ur.StoreName); err != nil {
			return nil, fmt.Errorf("rating: scan: %w", err)
		}
		ratings = append(ratings, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rating: rows: %w", err)
	}

	return ratings, nil
}
