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

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/teamslict/hotel/internal/domain"
	mysqlrepo "github.com/teamslict/hotel/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
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

func TestRepo_MySQL_LogAndList(t *testing.T) {
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
			"MYSQL_DATABASE=hotelfront",
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
		"root", hostPort, "hotelfront")

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

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	br := domain.BookingRequest{
		TenantID:   "ceylon-paradise",
		RoomID:     "1",
		RateName:   "Member Rate",
		Price:      147,
		GuestName:  "Nimal Perera",
		GuestEmail: "nimal@example.lk",
		GuestPhone: "+94 77 123 4567",
		CheckIn:    "2026-09-01",
		CheckOut:   "2026-09-04",
		Guests:     2,
	}

	confirmed := domain.BookingOutcome{
		State: domain.BookingConfirmed,
		Confirmation: &domain.BookingConfirmation{
			ID: "b-1", BookingNumber: "BK-1", Status: "CONFIRMED", TotalAmount: 441,
		},
	}
	if err := repo.LogBooking(ctx, br, confirmed); err != nil {
		t.Fatalf("LogBooking confirmed: %v", err)
	}

	conflict := domain.BookingOutcome{
		State:  domain.BookingConflict,
		Reason: "already booked for these dates",
	}
	if err := repo.LogBooking(ctx, br, conflict); err != nil {
		t.Fatalf("LogBooking conflict: %v", err)
	}

	entries, err := repo.ListBookingLog(ctx, "ceylon-paradise", 10)
	if err != nil {
		t.Fatalf("ListBookingLog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// newest first
	if entries[0].State != domain.BookingConflict || entries[0].Reason == nil {
		t.Fatalf("unexpected head entry: %+v", entries[0])
	}
	if entries[1].State != domain.BookingConfirmed ||
		entries[1].BookingNumber == nil || *entries[1].BookingNumber != "BK-1" ||
		entries[1].TotalAmount == nil || *entries[1].TotalAmount != 441 {
		t.Fatalf("unexpected confirmed entry: %+v", entries[1])
	}

	// other tenants see nothing
	other, err := repo.ListBookingLog(ctx, "someone-else", 10)
	if err != nil {
		t.Fatalf("ListBookingLog other tenant: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other tenant entries = %d, want 0", len(other))
	}

	// repeat misses collapse into one row with a bumped hit count
	for i := 0; i < 3; i++ {
		if err := repo.LogResolveMiss(ctx, "ghost-hotel", 404, "unknown subdomain"); err != nil {
			t.Fatalf("LogResolveMiss: %v", err)
		}
	}
	var hits int
	if err := db.QueryRowContext(ctx,
		"SELECT hits FROM resolve_misses WHERE subdomain = ?", "ghost-hotel").Scan(&hits); err != nil {
		t.Fatalf("read miss row: %v", err)
	}
	if hits != 3 {
		t.Fatalf("hits = %d, want 3", hits)
	}
}
