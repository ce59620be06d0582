package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals that the store does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrOwnerHasStore signals that the owner already created their store.
	ErrOwnerHasStore = errors.New("store: owner already has a store")
)

// Repository handles data access for stores.
type Repository interface {
	Create(ctx context.Context, ownerID string, params CreateParams) (Store, error)
	GetByOwner(ctx context.Context, ownerID string) (Store, error)
	List(ctx context.Context) ([]Summary, error)
	ListRatings(ctx context.Context, storeID string) ([]OwnerRating, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed store repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts the owner's store. The stores table carries a unique
// constraint on owner_id, so a second insert for the same owner fails.
func (r *PGRepository) Create(ctx context.Context, ownerID string, params CreateParams) (Store, error) {
	const insertSQL = `
		INSERT INTO stores (id, name, email, address, owner_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id, name, email, address, owner_id, created_at, updated_at
	`

	st, err := scanStore(r.pool.QueryRow(ctx, insertSQL,
		uuid.NewString(), params.Name, params.Email, params.Address, ownerID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Store{}, ErrOwnerHasStore
		}
		return Store{}, fmt.Errorf("store: create: %w", err)
	}

	return st, nil
}

// GetByOwner retrieves the store owned by ownerID.
func (r *PGRepository) GetByOwner(ctx context.Context, ownerID string) (Store, error) {
	const selectSQL = `
		SELECT id, name, email, address, owner_id, created_at, updated_at
		FROM stores
		WHERE owner_id = $1
	`

	st, err := scanStore(r.pool.QueryRow(ctx, selectSQL, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Store{}, ErrNotFound
		}
		return Store{}, fmt.Errorf("store: get by owner: %w", err)
	}

	return st, nil
}

// List returns the catalogue with per-store rating aggregates.
func (r *PGRepository) List(ctx context.Context) ([]Summary, error) {
	const listSQL = `
		SELECT s.id, s.name, s.email, s.address, s.owner_id, s.created_at, s.updated_at,
		       COALESCE(AVG(r.value), 0), COUNT(r.id)
		FROM stores s
		LEFT JOIN ratings r ON r.store_id = s.id
		GROUP BY s.id
		ORDER BY s.name
	`

	rows, err := r.pool.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Email, &s.Address, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
			&s.AverageRating, &s.RatingCount,
		); err != nil {
			return nil, fmt.Errorf("store: scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list rows: %w", err)
	}

	return summaries, nil
}

// ListRatings returns a store's ratings with rater names, newest first.
func (r *PGRepository) ListRatings(ctx context.Context, storeID string) ([]OwnerRating, error) {
	const ratingsSQL = `
		SELECT r.id, r.value, r.comment, u.name, r.created_at
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		WHERE r.store_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.pool.Query(ctx, ratingsSQL, storeID)
	if err != nil {
		return nil, fmt.Errorf("store: list ratings: %w", err)
	}
	defer rows.Close()

	ratings := []OwnerRating{}
	for rows.Next() {
		var or OwnerRating
		if err := rows.Scan(&or.ID, &or.Value, &or.Comment, &or.UserName, &or.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan rating: %w", err)
		}
		ratings = append(ratings, or)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ratings rows: %w", err)
	}

	return ratings, nil
}

func scanStore(row pgx.Row) (Store, error) {
	var (
		st      Store
		address *string
	)
	err := row.Scan(&st.ID, &st.Name, &st.Email, &address, &st.OwnerID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return Store{}, err
	}
	st.Address = address
	return st, nil
}
