package banner

import (
	"context"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

type Repository interface {
	// List returns up to limit banners ordered by position, then age
	List(ctx context.Context, limit int) ([]Banner, error)

	Create(ctx context.Context, b *Banner) error

	// Delete removes a banner; deleting an unknown id is BANNER.NOT_FOUND
	Delete(ctx context.Context, id kernel.BannerID) error
}
