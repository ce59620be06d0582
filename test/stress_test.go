package test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"ratehub/test/actors"
	"ratehub/test/chaos"
	"ratehub/test/infra"
	"ratehub/test/oracles"
)

var (
	flDuration    = flag.Duration("duration", 90*time.Second, "how long to run stress")
	flConcurrency = flag.Int("concurrency", 8, "number of concurrent actors")
	flSeed        = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flDSN         = flag.String("dsn", "", "existing Postgres DSN to reuse (avoids Docker)")
)

func TestRatingConcurrency(t *testing.T) {
	flag.Parse()
	seed := *flSeed
	rand.Seed(seed)

	var (
		pgC        *infra.PGContainer
		dsn        string
		err        error
		usedShared bool
	)
	ctx, cancel := context.WithTimeout(context.Background(), *flDuration+60*time.Second)
	defer cancel()

	switch {
	case *flDSN != "":
		dsn = *flDSN
		usedShared = true
		pgC = &infra.PGContainer{}
	case os.Getenv("STRESS_TEST_PG_DSN") != "":
		dsn = os.Getenv("STRESS_TEST_PG_DSN")
		usedShared = true
		pgC = &infra.PGContainer{}
	default:
		if dockerAvailable(ctx) {
			pgC, dsn, err = infra.StartPostgres16(ctx, "")
			if err != nil {
				t.Fatalf("start postgres: %v", err)
			}
		} else {
			dsn, err = infra.InitLocalDatabase(ctx)
			if err != nil {
				t.Fatalf("init local database: %v", err)
			}
			pgC = &infra.PGContainer{}
		}
	}
	defer pgC.Terminate(context.Background())

	pool, teardown, err := infra.ApplyMigrations(ctx, dsn, usedShared)
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	defer pool.Close()
	defer func() {
		if err := teardown(context.Background()); err != nil {
			t.Logf("teardown warning: %v", err)
		}
	}()

	seedData := mustSeed(t, ctx, pool)

	g, ctx2 := errgroup.WithContext(ctx)
	stop := make(chan struct{})

	// raters and registrars battling over the same store and email
	for i := 0; i < *flConcurrency; i++ {
		g.Go(func() error {
			return actors.Rater(ctx2, pool, seedData.storeID, seedData.raterIDs, stop)
		})
		g.Go(func() error {
			return actors.Registrar(ctx2, pool, seedData.takenEmail, stop)
		})
	}

	// second-store attempts for the same owner
	g.Go(func() error { return actors.StoreOpener(ctx2, pool, seedData.ownerID, stop) })
	// dashboard aggregate alongside the writers
	g.Go(func() error { return actors.StatsReader(ctx2, pool, stop) })
	// chaos: kill random backend
	go chaos.TerminateRandomBackend(ctx2, pool, stop)

	deadline := time.Now().Add(*flDuration)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var failed bool
loop:
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			name, row, err := oracles.Run(ctx2, pool)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					break loop
				}
				t.Fatalf("oracle error: %v", err)
			}
			if name != "" {
				failed = true
				dumpRecent(t, ctx2, pool)
				t.Fatalf("Oracle %s failed. First row: %s (seed=%d)", name, row, seed)
			}
		}
	}

	close(stop)
	if err := g.Wait(); err != nil && !failed {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("actors errored: %v", err)
		}
	}
}

func dockerAvailable(ctx context.Context) bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	c := exec.CommandContext(ctx, "docker", "info")
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c.Run() == nil
}

type seedIDs struct {
	ownerID    string
	storeID    string
	raterIDs   []string
	takenEmail string
}

func mustSeed(t *testing.T, ctx context.Context, pool *pgxpool.Pool) seedIDs {
	t.Helper()
	var s seedIDs

	s.ownerID = uuid.NewString()
	if _, err := pool.Exec(ctx, `INSERT INTO users (id, name, email, password_hash, role)
                                  VALUES ($1, 'Stress Store Owner Seed Account', $2, 'x', 'owner')`,
		s.ownerID, fmt.Sprintf("owner-%d@example.com", rand.Int63())); err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	s.storeID = uuid.NewString()
	if _, err := pool.Exec(ctx, `INSERT INTO stores (id, name, email, owner_id)
                                  VALUES ($1, 'Stress Target Store Front One', 'target@example.com', $2)`,
		s.storeID, s.ownerID); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	for i := 0; i < 5; i++ {
		id := uuid.NewString()
		email := fmt.Sprintf("rater-%d-%d@example.com", i, rand.Int63())
		if _, err := pool.Exec(ctx, `INSERT INTO users (id, name, email, password_hash, role)
                                      VALUES ($1, 'Stress Rater Seed User Account', $2, 'x', 'user')`,
			id, email); err != nil {
			t.Fatalf("seed rater %d: %v", i, err)
		}
		s.raterIDs = append(s.raterIDs, id)
		if i == 0 {
			s.takenEmail = email
		}
	}

	return s
}

func dumpRecent(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()
	type dump struct {
		name string
		sql  string
	}
	dumps := []dump{
		{"ratings", `SELECT id, user_id, store_id, value, created_at FROM ratings ORDER BY created_at DESC LIMIT 50`},
		{"stores", `SELECT id, owner_id, name, created_at FROM stores ORDER BY created_at DESC LIMIT 50`},
		{"users", `SELECT id, email, role, created_at FROM users ORDER BY created_at DESC LIMIT 50`},
	}
	for _, d := range dumps {
		rows, err := pool.Query(ctx, d.sql)
		if err != nil {
			t.Logf("dump %s error: %v", d.name, err)
			continue
		}
		cols := rows.FieldDescriptions()
		t.Logf("-- %s --", d.name)
		for rows.Next() {
			vals, _ := rows.Values()
			buf := make([]any, 0, len(vals))
			for i := range vals {
				buf = append(buf, fmt.Sprintf("%s=%v", string(cols[i].Name), vals[i]))
			}
			t.Logf("%s", buf)
		}
		rows.Close()
	}
}
