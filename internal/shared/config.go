package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	ERPBase string
	ERPKey  string
	ERPRPS  int

	// DataSource selects the BookingSource implementation once at startup:
	// "live" or "fixture".
	DataSource string
	// MockFallback serves fixture rooms when the live catalog fetch fails
	// with a network-class error. Catalog reads only; bookings never fall
	// back.
	MockFallback bool

	DevHosts      []string
	DefaultLocale string
	LocalesDir    string

	Workers    int
	Subdomains []string

	CacheTTL time.Duration
	TokenTTL time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	abool := func(k string, def bool) bool {
		if v := os.Getenv(k); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
		return def
	}
	csv := func(k, def string) []string {
		v := os.Getenv(k)
		if v == "" {
			v = def
		}
		var out []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotel_front?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		ERPBase:       env("ERP_BASE_URL", "https://erp.slict.lk/api/public/hotel"),
		ERPKey:        env("ERP_API_KEY", ""),
		ERPRPS:        atoi("ERP_RPS", 5),
		DataSource:    env("DATA_SOURCE", "live"),
		MockFallback:  abool("MOCK_FALLBACK", false),
		DevHosts:      csv("DEV_HOSTS", "localhost,127.0.0.1,::1"),
		DefaultLocale: env("DEFAULT_LOCALE", "en"),
		LocalesDir:    env("LOCALES_DIR", "translations"),
		Workers:       atoi("WARMUP_WORKERS", 8),
		Subdomains:    csv("WARMUP_SUBDOMAINS", ""),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		TokenTTL:      time.Duration(atoi("TOKEN_TTL_SECONDS", 1800)) * time.Second,
	}
	if c.DataSource != "live" && c.DataSource != "fixture" {
		log.Warn().Str("value", c.DataSource).Msg("unknown DATA_SOURCE, using live")
		c.DataSource = "live"
	}
	if c.DataSource == "live" && c.ERPBase == "" {
		log.Warn().Msg("ERP_BASE_URL is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
