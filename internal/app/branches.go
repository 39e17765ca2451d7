package app

import (
	"context"
	"time"

	"github.com/teamslict/hotel/internal/domain"
)

// BranchService lists a tenant's locations and resolves the visitor's
// selection.
type BranchService struct {
	src      domain.BookingSource
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewBranchService(src domain.BookingSource, cache domain.Cache, ttl time.Duration) *BranchService {
	return &BranchService{src: src, cache: cache, cacheTTL: ttl}
}

func (s *BranchService) Branches(ctx context.Context, subdomain string) ([]domain.Branch, error) {
	key := "branches:" + subdomain
	var out []domain.Branch
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.src.ListBranches(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// SelectBranch picks the saved branch when it still exists, else the
// default-flagged branch, else the first. Nil when the tenant has none.
func SelectBranch(branches []domain.Branch, savedID string) *domain.Branch {
	if len(branches) == 0 {
		return nil
	}
	for i := range branches {
		if savedID != "" && branches[i].ID == savedID {
			return &branches[i]
		}
	}
	for i := range branches {
		if branches[i].IsDefault {
			return &branches[i]
		}
	}
	return &branches[0]
}
