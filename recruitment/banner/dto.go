package banner

import "github.com/Abraxas-365/hirehub/pkg/kernel"

// CreateBannerRequest - DTO for adding a slide
type CreateBannerRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
	Link     string `json:"link" validate:"omitempty,max=512"`
	Position int    `json:"position" validate:"gte=0"`
}

// Slide is the public shape of a banner. Link is always present, possibly empty.
type Slide struct {
	ID   kernel.BannerID `json:"id"`
	URL  string          `json:"url"`
	Link string          `json:"link"`
}
