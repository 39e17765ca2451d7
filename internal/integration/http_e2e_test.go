//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/teamslict/hotel/internal/adapters/fixture"
	httpserver "github.com/teamslict/hotel/internal/adapters/http_server"
	redisc "github.com/teamslict/hotel/internal/adapters/redis"
	"github.com/teamslict/hotel/internal/app"
	"github.com/teamslict/hotel/internal/domain"
	"github.com/teamslict/hotel/internal/i18n"
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

// Full-stack pass: tenant resolution, room quotes, a booking POST, and the
// booking-log write, with real MySQL behind the repository.
func TestHTTP_EndToEnd_BookingLogged(t *testing.T) {
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
	mr := miniredis.RunT(t)
	cache := redisc.New(mr.Addr(), "", 0)
	src := fixture.New()

	booking := app.NewBookingService(src, cache, repo, time.Minute)
	h := &httpserver.Handlers{
		Resolver: app.NewTenantResolver(src, cache, repo, []string{"localhost", "127.0.0.1", "::1"}, time.Minute),
		Catalog:  app.NewCatalogService(src, nil, cache, time.Minute),
		Booking:  booking,
		Branches: app.NewBranchService(src, cache, time.Minute),
		Locales:  i18n.NewCatalog("../../translations", "en"),
		ERPBase:  "https://erp.example.test/api/public/hotel",
	}
	srv := httpserver.New()
	srv.MountHandlers(h)
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	payload, _ := json.Marshal(map[string]any{
		"token":      booking.NewFormToken(),
		"roomId":     "2",
		"rateName":   "Standard Rate",
		"price":      255,
		"guestName":  "Kamala Silva",
		"guestEmail": "kamala@example.lk",
		"guestPhone": "+94 71 555 0100",
		"checkIn":    "2026-10-10",
		"checkOut":   "2026-10-12",
		"guests":     3,
	})
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/site/bookings", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	req.Host = "ceylon-paradise.slict.lk"
	req.Header.Set("Content-Type", "application/json")
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("POST booking: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status %d, want 201", res.StatusCode)
	}

	var conf domain.BookingConfirmation
	if err := json.NewDecoder(res.Body).Decode(&conf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if conf.BookingNumber == "" || conf.Status != "CONFIRMED" {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}

	entries, err := repo.ListBookingLog(context.Background(), "ceylon-paradise", 10)
	if err != nil {
		t.Fatalf("ListBookingLog: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.State != domain.BookingConfirmed || e.RoomID != "2" || e.Guests != 3 ||
		e.BookingNumber == nil || *e.BookingNumber != conf.BookingNumber {
		t.Fatalf("unexpected log entry: %+v", e)
	}
}
