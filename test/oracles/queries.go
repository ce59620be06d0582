package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

// All returns the invariant checks run against the live schema during stress.
func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_one_rating_per_user_store",
			SQL: `SELECT user_id, store_id, COUNT(*) FROM ratings
                  GROUP BY user_id, store_id HAVING COUNT(*) > 1`,
		},
		{
			Name: "O2_rating_value_range",
			SQL:  `SELECT id, value FROM ratings WHERE value < 1 OR value > 5`,
		},
		{
			Name: "O3_one_store_per_owner",
			SQL: `SELECT owner_id, COUNT(*) FROM stores
                  GROUP BY owner_id HAVING COUNT(*) > 1`,
		},
		{
			Name: "O4_unique_user_email",
			SQL: `SELECT email, COUNT(*) FROM users
                  GROUP BY email HAVING COUNT(*) > 1`,
		},
		{
			Name: "O5_valid_roles",
			SQL:  `SELECT id, role FROM users WHERE role NOT IN ('admin','owner','user')`,
		},
		{
			Name: "O6_store_owner_is_owner_role",
			SQL: `SELECT s.id FROM stores s
                  JOIN users u ON u.id = s.owner_id
                  WHERE u.role <> 'owner'`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		if rows.Next() {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
