package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Registrar hammers signup with a mix of fresh and already-taken emails.
// Duplicate email inserts must fail on the unique constraint, never produce a
// second row.
func Registrar(ctx context.Context, pool *pgxpool.Pool, takenEmail string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		email := takenEmail
		if rand.Intn(2) == 0 {
			email = fmt.Sprintf("stress-%s@example.com", uuid.NewString())
		}
		_, err := pool.Exec(ctx, `INSERT INTO users (id, name, email, password_hash, role)
                                  VALUES ($1, $2, $3, 'x', 'user')`,
			uuid.NewString(), "Stress Registrar Actor Account", email)
		if err != nil && !isUniqueViolation(err) {
			return fmt.Errorf("registrar insert: %w", err)
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// Rater repeatedly rates the same store as a fixed set of users. Only the
// first rating per user may land; the rest must hit the unique constraint.
func Rater(ctx context.Context, pool *pgxpool.Pool, storeID string, userIDs []string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		userID := userIDs[rand.Intn(len(userIDs))]
		value := 1 + rand.Intn(5)
		_, err := pool.Exec(ctx, `INSERT INTO ratings (id, value, store_id, user_id)
                                  VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), value, storeID, userID)
		if err != nil && !isUniqueViolation(err) {
			return fmt.Errorf("rater insert: %w", err)
		}
		time.Sleep(time.Duration(5+rand.Intn(15)) * time.Millisecond)
	}
}

// StoreOpener races to open a store for an owner who may already have one.
// At most one insert per owner may ever succeed.
func StoreOpener(ctx context.Context, pool *pgxpool.Pool, ownerID string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		_, err := pool.Exec(ctx, `INSERT INTO stores (id, name, email, owner_id)
                                  VALUES ($1, 'Contended Stress Store Front', 'store@example.com', $2)`,
			uuid.NewString(), ownerID)
		if err != nil && !isUniqueViolation(err) {
			return fmt.Errorf("store opener insert: %w", err)
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// StatsReader runs the dashboard aggregate alongside the writers to verify it
// never errors mid-churn.
func StatsReader(ctx context.Context, pool *pgxpool.Pool, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		var users, stores, ratings int
		var avg float64
		err := pool.QueryRow(ctx, `SELECT
                (SELECT COUNT(*) FROM users),
                (SELECT COUNT(*) FROM stores),
                (SELECT COUNT(*) FROM ratings),
                (SELECT COALESCE(AVG(value), 0) FROM ratings)`).Scan(&users, &stores, &ratings, &avg)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stats read: %w", err)
		}
		time.Sleep(time.Duration(50+rand.Intn(100)) * time.Millisecond)
	}
}
