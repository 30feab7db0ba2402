package candidateapi

import (
	"fmt"
	"path"

	"github.com/Abraxas-365/hirehub/pkg/iam/auth"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidatesrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides operator HTTP handlers for candidate profiles
type Handlers struct {
	service *candidatesrv.CandidateService
}

// NewHandlers creates a new candidate handlers instance
func NewHandlers(service *candidatesrv.CandidateService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// ListCandidates lists candidates with pagination
// GET /api/candidates
func (h *Handlers) ListCandidates(c *fiber.Ctx) error {
	page, err := h.service.ListCandidates(c.UserContext(), parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GetCandidateByID retrieves a candidate by ID
// GET /api/candidates/:id
func (h *Handlers) GetCandidateByID(c *fiber.Ctx) error {
	candidateID := kernel.CandidateID(c.Params("id"))
	if candidateID.IsEmpty() {
		return candidate.ErrCandidateNotFound().WithDetail("id", "missing or empty")
	}

	found, err := h.service.GetProfile(c.UserContext(), candidateID)
	if err != nil {
		return err
	}
	return c.JSON(found.ToResponse())
}

// DownloadResume streams a candidate's résumé
// GET /api/candidates/:id/resume
func (h *Handlers) DownloadResume(c *fiber.Ctx) error {
	candidateID := kernel.CandidateID(c.Params("id"))
	if candidateID.IsEmpty() {
		return candidate.ErrCandidateNotFound().WithDetail("id", "missing or empty")
	}

	r, name, err := h.service.OpenResume(c.UserContext(), candidateID)
	if err != nil {
		return err
	}

	if authContext, ok := auth.GetAuthContext(c); ok {
		logx.Infof("Operator %s downloaded résumé of candidate %s", authContext.UserID, candidateID)
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	if ext := path.Ext(name); ext != "" {
		c.Type(ext)
	}
	// fiber closes the reader once the body is written
	return c.SendStream(r)
}

// ============================================================================
// Helper Functions
// ============================================================================

// parsePaginationOptions extracts pagination options from query parameters
func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	// Ensure valid values
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return kernel.PaginationOptions{
		Page:     page,
		PageSize: pageSize,
	}
}

// RegisterRoutes registers operator candidate routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/candidates",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeCandidatesRead),
	)

	api.Get("/", handlers.ListCandidates)
	api.Get("/:id", handlers.GetCandidateByID)
	api.Get("/:id/resume", handlers.DownloadResume)
}
