package bannersrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/banner"
	"github.com/google/uuid"
)

// BannerService manages the home page carousel
type BannerService struct {
	repo banner.Repository
	now  func() time.Time
}

func NewBannerService(repo banner.Repository) *BannerService {
	return &BannerService{repo: repo, now: time.Now}
}

// ListSlides returns the carousel in display order
func (s *BannerService) ListSlides(ctx context.Context) ([]banner.Slide, error) {
	banners, err := s.repo.List(ctx, banner.MaxListed)
	if err != nil {
		return nil, err
	}
	slides := make([]banner.Slide, 0, len(banners))
	for i := range banners {
		slides = append(slides, banners[i].ToSlide())
	}
	return slides, nil
}

func (s *BannerService) CreateBanner(ctx context.Context, req banner.CreateBannerRequest) (*banner.Banner, error) {
	b := &banner.Banner{
		ID:        kernel.NewBannerID(uuid.NewString()),
		ImageURL:  req.ImageURL,
		Link:      req.Link,
		Position:  req.Position,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	logx.Infof("Banner %s created", b.ID)
	return b, nil
}

func (s *BannerService) DeleteBanner(ctx context.Context, id kernel.BannerID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logx.Infof("Banner %s deleted", id)
	return nil
}
