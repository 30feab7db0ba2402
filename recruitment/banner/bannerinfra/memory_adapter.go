package bannerinfra

import (
	"context"
	"sort"
	"sync"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/banner"
)

// MemoryBannerRepository keeps banners in process memory
type MemoryBannerRepository struct {
	mu      sync.RWMutex
	banners map[kernel.BannerID]banner.Banner
}

func NewMemoryBannerRepository() *MemoryBannerRepository {
	return &MemoryBannerRepository{banners: make(map[kernel.BannerID]banner.Banner)}
}

var _ banner.Repository = (*MemoryBannerRepository)(nil)

func (r *MemoryBannerRepository) List(ctx context.Context, limit int) ([]banner.Banner, error) {
	r.mu.RLock()
	out := make([]banner.Banner, 0, len(r.banners))
	for _, b := range r.banners {
		out = append(out, b)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryBannerRepository) Create(ctx context.Context, b *banner.Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banners[b.ID] = *b
	return nil
}

func (r *MemoryBannerRepository) Delete(ctx context.Context, id kernel.BannerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.banners[id]; !ok {
		return banner.ErrBannerNotFound().WithDetail("banner_id", id.String())
	}
	delete(r.banners, id)
	return nil
}
