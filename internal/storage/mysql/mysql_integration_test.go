//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"vendor_insight/internal/domain"
	mysqlrepo "vendor_insight/internal/storage/mysql"
)

func migrationsDir(t *testing.T) string {
	t.Helper()
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("migrations dir %s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func TestRunLog_MySQL_RecordAndList(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=insight",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "insight")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	runlog := mysqlrepo.New(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	first := domain.RunEntry{
		ID:          uuid.NewString(),
		Reprocessed: true,
		Rows:        120,
		Duration:    340 * time.Millisecond,
		Outcome:     "ok",
		StartedAt:   base.Add(-2 * time.Minute),
	}
	second := domain.RunEntry{
		ID:          uuid.NewString(),
		Reprocessed: false,
		Rows:        120,
		Duration:    12 * time.Millisecond,
		Outcome:     "ok",
		StartedAt:   base.Add(-1 * time.Minute),
	}
	third := domain.RunEntry{
		ID:        uuid.NewString(),
		Rows:      0,
		Duration:  5 * time.Millisecond,
		Outcome:   "model_load",
		StartedAt: base,
	}
	for _, e := range []domain.RunEntry{first, second, third} {
		if err := runlog.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s): %v", e.Outcome, err)
		}
	}

	got, err := runlog.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 entries, got %d", len(got))
	}
	if got[0].ID != third.ID || got[1].ID != second.ID {
		t.Fatalf("expected newest-first order: %+v", got)
	}
	if got[0].Outcome != "model_load" || got[0].Reprocessed {
		t.Fatalf("unexpected newest entry: %+v", got[0])
	}
	if got[1].Duration != 12*time.Millisecond || got[1].Rows != 120 {
		t.Fatalf("unexpected entry: %+v", got[1])
	}
}
