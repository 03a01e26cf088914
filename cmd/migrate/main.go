// Aplica las migraciones de Postgres del servicio (dispatch_windows y
// dispatch_receipts). Uso: migrate [up|down] [steps]
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/xenocrypt01/smile-report-dash/internal/config"
	migrations "github.com/xenocrypt01/smile-report-dash/migrations/postgres"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "ruta al config.yaml (opcional; POSTGRES_DSN alcanza)")
	flag.Parse()

	action := "up"
	steps := 0
	args := flag.Args()
	if len(args) >= 1 && args[0] != "" {
		action = strings.ToLower(args[0])
	}
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
			steps = n
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	if cfg.Storage.Postgres.DSN == "" {
		log.Fatal("falta storage.postgres.dsn (o POSTGRES_DSN)")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Storage.Postgres.DSN)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	var suffix string
	switch action {
	case "up":
		suffix = "_up.sql"
	case "down":
		suffix = "_down.sql"
	default:
		log.Fatalf("acción desconocida %q. Uso: up | down [steps]", action)
	}

	files, err := listSQL(suffix)
	if err != nil {
		log.Fatalf("list: %v", err)
	}
	if len(files) == 0 {
		log.Printf("sin migraciones %s, nada que hacer", suffix)
		return
	}
	sort.Strings(files)
	if action == "down" {
		reverseInPlace(files)
	}
	if steps > 0 && steps < len(files) {
		files = files[:steps]
	}

	log.Printf("aplicando %d migración(es) %s...", len(files), action)
	for _, f := range files {
		if err := execSQLFile(ctx, pool, f); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}
	}
	log.Println("listo")
}

func listSQL(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), suffix) {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func reverseInPlace(ss []string) {
	for i, j := 0, len(ss)-1; i < j; i, j = i+1, j-1 {
		ss[i], ss[j] = ss[j], ss[i]
	}
}

func execSQLFile(ctx context.Context, pool *pgxpool.Pool, name string) error {
	b, err := migrations.FS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	start := time.Now()
	if _, err := pool.Exec(ctx, string(b)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	log.Printf("OK %s (%s)", name, time.Since(start).Truncate(time.Millisecond))
	return nil
}
