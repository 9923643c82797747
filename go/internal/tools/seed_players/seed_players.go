package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/bnsl/draftd/go/internal/dbconfig"
	"github.com/bnsl/draftd/go/internal/models"
	"github.com/bnsl/draftd/go/internal/registry"
)

// Seeds the players table from a CSV with a "name,dob,position,eligible"
// header. An optional "id" column pins UUIDs for re-runnable seeds; existing
// rows are updated in place, ownership is never touched.
func main() {
	ctx := context.Background()

	path := "db/players.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read header: %v\n", err)
		os.Exit(1)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["name"]; !ok {
		fmt.Fprintln(os.Stderr, "players csv missing \"name\" column")
		os.Exit(1)
	}

	cfg := dbconfig.NewConfigFromEnv()
	database, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	players := registry.NewPlayerRepository(database)

	field := func(record []string, name string) string {
		if i, ok := col[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	total, written, errs := 0, 0, 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs++
			continue
		}
		total++

		id := uuid.New()
		if raw := field(record, "id"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				errs++
				continue
			}
			id = parsed
		}

		eligible := true
		if raw := field(record, "eligible"); raw != "" {
			eligible = strings.EqualFold(raw, "true") || raw == "1"
		}

		if err := players.UpsertPlayer(ctx, models.Player{
			ID:       id,
			Name:     field(record, "name"),
			DOB:      field(record, "dob"),
			Position: field(record, "position"),
			Eligible: eligible,
		}); err != nil {
			errs++
			continue
		}
		written++
	}

	fmt.Printf(
		"Players seed: total=%d written=%d errors=%d\n",
		total, written, errs,
	)
}
