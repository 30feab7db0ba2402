package banner

import (
	"strings"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

// MaxListed caps the public carousel
const MaxListed = 100

// Banner is one slide of the home page carousel
type Banner struct {
	ID        kernel.BannerID `db:"id" json:"id"`
	ImageURL  string          `db:"image_url" json:"image_url"`
	Link      string          `db:"link" json:"link"`
	Position  int             `db:"position" json:"position"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// ToSlide trims the banner to what the carousel renders
func (b *Banner) ToSlide() Slide {
	return Slide{
		ID:   b.ID,
		URL:  strings.TrimSpace(b.ImageURL),
		Link: b.Link,
	}
}
