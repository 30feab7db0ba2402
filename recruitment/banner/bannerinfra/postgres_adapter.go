package bannerinfra

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/banner"
	"github.com/jmoiron/sqlx"
)

// PostgresBannerRepository implements banner.Repository using PostgreSQL
type PostgresBannerRepository struct {
	db *sqlx.DB
}

func NewPostgresBannerRepository(db *sqlx.DB) *PostgresBannerRepository {
	return &PostgresBannerRepository{db: db}
}

var _ banner.Repository = (*PostgresBannerRepository)(nil)

func (r *PostgresBannerRepository) List(ctx context.Context, limit int) ([]banner.Banner, error) {
	query := `
		SELECT id, image_url, link, position, created_at
		FROM banners
		ORDER BY position, created_at
		LIMIT $1`

	var banners []banner.Banner
	if err := r.db.SelectContext(ctx, &banners, query, limit); err != nil {
		return nil, banner.ErrStoreUnavailable(fmt.Errorf("list banners: %w", err))
	}
	return banners, nil
}

func (r *PostgresBannerRepository) Create(ctx context.Context, b *banner.Banner) error {
	query := `
		INSERT INTO banners (id, image_url, link, position, created_at)
		VALUES (:id, :image_url, :link, :position, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, b); err != nil {
		return banner.ErrStoreUnavailable(fmt.Errorf("insert banner: %w", err))
	}
	return nil
}

func (r *PostgresBannerRepository) Delete(ctx context.Context, id kernel.BannerID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM banners WHERE id = $1`, id.String())
	if err != nil {
		return banner.ErrStoreUnavailable(fmt.Errorf("delete banner: %w", err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return banner.ErrBannerNotFound().WithDetail("banner_id", id.String())
	}
	return nil
}
