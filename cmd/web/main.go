package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/teamslict/hotel/internal/adapters/erp"
	"github.com/teamslict/hotel/internal/adapters/fixture"
	server "github.com/teamslict/hotel/internal/adapters/http_server"
	"github.com/teamslict/hotel/internal/adapters/observability"
	redisad "github.com/teamslict/hotel/internal/adapters/redis"
	"github.com/teamslict/hotel/internal/app"
	"github.com/teamslict/hotel/internal/domain"
	"github.com/teamslict/hotel/internal/i18n"
	"github.com/teamslict/hotel/internal/shared"
	mysqlrepo "github.com/teamslict/hotel/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "web")

	observability.Serve()

	// booking log is best-effort: the site keeps serving with MySQL down
	var repo domain.FrontDeskRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Warn().Err(err).Msg("db unreachable, booking log disabled")
		} else {
			log.Info().Msg("database connection ok")
			repo = mysqlrepo.New(db)
		}
	}

	var src domain.BookingSource
	var fallback domain.BookingSource
	switch cfg.DataSource {
	case "fixture":
		src = fixture.New()
		log.Info().Msg("serving fixture inventory")
	default:
		client, err := erp.New(cfg.ERPBase, cfg.ERPKey, cfg.ERPRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("erp client init failed")
		}
		src = client
		if cfg.MockFallback {
			fallback = fixture.New()
			log.Info().Msg("fixture fallback enabled for catalog reads")
		}
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	h := &server.Handlers{
		Resolver: app.NewTenantResolver(src, cache, repo, cfg.DevHosts, cfg.CacheTTL),
		Catalog:  app.NewCatalogService(src, fallback, cache, cfg.CacheTTL),
		Booking:  app.NewBookingService(src, cache, repo, cfg.TokenTTL),
		Branches: app.NewBranchService(src, cache, cfg.CacheTTL),
		Locales:  i18n.NewCatalog(cfg.LocalesDir, cfg.DefaultLocale),
		ERPBase:  cfg.ERPBase,
	}

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	log.Info().Str("addr", cfg.HTTPAddr).Str("source", cfg.DataSource).Msg("site listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
