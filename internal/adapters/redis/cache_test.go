package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "github.com/teamslict/hotel/internal/adapters/redis"
	"github.com/teamslict/hotel/internal/domain"
)

func newCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_RoundTrip(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	ten := domain.Tenant{TenantID: "ceylon-paradise", Config: domain.TenantConfig{HotelName: "Ceylon Paradise"}}
	if err := c.Set(ctx, "tenant:ceylon-paradise", ten, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.Tenant
	ok, err := c.Get(ctx, "tenant:ceylon-paradise", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.TenantID != "ceylon-paradise" || got.Config.HotelName != "Ceylon Paradise" {
		t.Fatalf("unexpected value: %+v", got)
	}

	ok, err = c.Get(ctx, "tenant:missing", &got)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestCache_SetNX_SingleClaim(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "token:abc", 1, 60)
	if err != nil || !ok {
		t.Fatalf("first claim: ok=%v err=%v", ok, err)
	}
	ok, err = c.SetNX(ctx, "token:abc", 1, 60)
	if err != nil || ok {
		t.Fatalf("second claim must fail: ok=%v err=%v", ok, err)
	}
}

func TestCache_Del(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", 60)
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	var s string
	ok, _ := c.Get(ctx, "k", &s)
	if ok {
		t.Fatalf("expected key gone")
	}
}
