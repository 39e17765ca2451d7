package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/teamslict/hotel/internal/adapters/erp"
	"github.com/teamslict/hotel/internal/adapters/observability"
	redisad "github.com/teamslict/hotel/internal/adapters/redis"
	"github.com/teamslict/hotel/internal/app"
	"github.com/teamslict/hotel/internal/domain"
	"github.com/teamslict/hotel/internal/shared"
)

// warmup pre-fills the redis cache for the listed tenants so the first
// visitor after a deploy does not pay the upstream round trips.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, "warmup")

	if len(cfg.Subdomains) == 0 {
		log.Fatal().Msg("WARMUP_SUBDOMAINS is empty, nothing to do")
	}

	log.Info().
		Str("base", cfg.ERPBase).
		Int("workers", cfg.Workers).
		Int("tenants", len(cfg.Subdomains)).
		Msg("warmup starting")

	client, err := erp.New(cfg.ERPBase, cfg.ERPKey, cfg.ERPRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("erp client init failed")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	resolver := app.NewTenantResolver(client, cache, nil, cfg.DevHosts, cfg.CacheTTL)
	catalog := app.NewCatalogService(client, nil, cache, cfg.CacheTTL)
	branches := app.NewBranchService(client, cache, cfg.CacheTTL)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, sub := range cfg.Subdomains {
		sub := sub

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(subdomain string) {
			defer wg.Done()
			defer sem.Release(1)

			ten, err := resolver.Resolve(ctx, subdomain)
			if err != nil {
				log.Warn().Str("subdomain", subdomain).Err(err).Msg("warm config failed")
				return
			}
			if _, err := catalog.Rooms(ctx, domain.StayQuery{TenantID: ten.TenantID}); err != nil {
				log.Warn().Str("subdomain", subdomain).Err(err).Msg("warm rooms failed")
			}
			if _, err := branches.Branches(ctx, subdomain); err != nil {
				log.Warn().Str("subdomain", subdomain).Err(err).Msg("warm branches failed")
			}
			log.Info().Str("subdomain", subdomain).Msg("warm ok")
		}(sub)
	}

	wg.Wait()
	log.Info().Msg("warmup completed")
}
