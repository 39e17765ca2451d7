package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/teamslict/hotel/internal/domain"
)

// negative-cache window for unknown subdomains
const missTTLSeconds = 60

// TenantResolver derives a tenant key from the request host and fetches that
// tenant's configuration through the data source, caching resolutions.
// A resolved Tenant is handed to dependents explicitly; nothing tenant-scoped
// runs before resolution succeeds.
type TenantResolver struct {
	src      domain.BookingSource
	cache    domain.Cache
	repo     domain.FrontDeskRepository
	devHosts map[string]struct{}
	ttl      time.Duration
}

func NewTenantResolver(src domain.BookingSource, cache domain.Cache, repo domain.FrontDeskRepository, devHosts []string, ttl time.Duration) *TenantResolver {
	dh := make(map[string]struct{}, len(devHosts))
	for _, h := range devHosts {
		dh[strings.ToLower(h)] = struct{}{}
	}
	return &TenantResolver{src: src, cache: cache, repo: repo, devHosts: dh, ttl: ttl}
}

// SubdomainFor derives the tenant key: the ?subdomain= query value on a
// development host, else the first hostname label when the host has a
// subdomain, else the full hostname.
func (r *TenantResolver) SubdomainFor(host, queryParam string) string {
	h := strings.ToLower(host)
	if bare, _, err := net.SplitHostPort(h); err == nil {
		h = bare
	}
	if _, dev := r.devHosts[h]; dev {
		return queryParam
	}
	if labels := strings.Split(h, "."); len(labels) >= 3 {
		return labels[0]
	}
	return h
}

func (r *TenantResolver) Resolve(ctx context.Context, subdomain string) (domain.Tenant, error) {
	if subdomain == "" {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}

	key := "tenant:" + subdomain
	var t domain.Tenant
	if ok, _ := r.cache.Get(ctx, key, &t); ok {
		return t, nil
	}
	var missed bool
	if ok, _ := r.cache.Get(ctx, key+":miss", &missed); ok && missed {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}

	t, err := r.src.GetTenantConfig(ctx, subdomain)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTenantNotFound):
			r.logMiss(ctx, subdomain, 404, "not found")
			_ = r.cache.Set(ctx, key+":miss", true, missTTLSeconds)
			return domain.Tenant{}, domain.ErrTenantNotFound
		case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
			r.logMiss(ctx, subdomain, 403, "inactive")
			return domain.Tenant{}, domain.ErrTenantNotFound
		default:
			return domain.Tenant{}, fmt.Errorf("resolve %q: %w", subdomain, err)
		}
	}

	_ = r.cache.Set(ctx, key, t, int(r.ttl.Seconds()))
	return t, nil
}

func (r *TenantResolver) logMiss(ctx context.Context, subdomain string, status int, reason string) {
	if r.repo == nil {
		return
	}
	if err := r.repo.LogResolveMiss(ctx, subdomain, status, reason); err != nil {
		log.Warn().Err(err).Str("subdomain", subdomain).Msg("resolve miss log failed")
	}
}
