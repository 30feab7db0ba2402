package bannerapi

import (
	"github.com/Abraxas-365/hirehub/pkg/iam/auth"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/validatex"
	"github.com/Abraxas-365/hirehub/recruitment/banner"
	"github.com/Abraxas-365/hirehub/recruitment/banner/bannersrv"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service *bannersrv.BannerService
}

func NewHandlers(service *bannersrv.BannerService) *Handlers {
	return &Handlers{service: service}
}

// ListBanners returns the carousel
// GET /api/banners
func (h *Handlers) ListBanners(c *fiber.Ctx) error {
	slides, err := h.service.ListSlides(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"banners": slides,
	})
}

// CreateBanner adds a slide
// POST /api/banners
func (h *Handlers) CreateBanner(c *fiber.Ctx) error {
	var req banner.CreateBannerRequest
	if err := c.BodyParser(&req); err != nil {
		return banner.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if fields := validatex.Struct(req); fields != nil {
		return banner.ErrValidationFailed().WithDetail("fields", fields)
	}

	created, err := h.service.CreateBanner(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// DeleteBanner removes a slide
// DELETE /api/banners/:id
func (h *Handlers) DeleteBanner(c *fiber.Ctx) error {
	if err := h.service.DeleteBanner(c.UserContext(), kernel.BannerID(c.Params("id"))); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterRoutes registers banner routes. Listing is public.
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/banners")

	api.Get("/", handlers.ListBanners)

	api.Post("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeBannersWrite),
		handlers.CreateBanner,
	)
	api.Delete("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeBannersWrite),
		handlers.DeleteBanner,
	)
}
