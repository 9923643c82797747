package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bnsl/draftd/go/internal/dbconfig"
	"github.com/bnsl/draftd/go/internal/draftorder"
)

// Seeds the draft_order table from a CSV with a "round,pick,team,label"
// header. Existing overall positions are left alone.
func main() {
	ctx := context.Background()

	path := "db/draft_order.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	picks, err := draftorder.ParseOrderCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse order csv: %v\n", err)
		os.Exit(1)
	}

	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	total, inserted, skipped, errs := len(picks), 0, 0, 0
	for _, p := range picks {
		tag, err := pool.Exec(ctx, `
            INSERT INTO draft_order (id, round, pick, overall, team, label)
            VALUES ($1,$2,$3,$4,$5,$6)
            ON CONFLICT (overall) DO NOTHING
        `, p.ID, p.Round, p.Pick, p.Overall, p.Team, p.Label)
		if err != nil {
			errs++
			continue
		}
		if tag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}

	fmt.Printf(
		"Draft order seed: total=%d inserted=%d skipped=%d errors=%d\n",
		total, inserted, skipped, errs,
	)
}
