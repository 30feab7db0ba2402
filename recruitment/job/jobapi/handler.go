package jobapi

import (
	"context"

	"github.com/Abraxas-365/hirehub/pkg/iam/auth"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/pkg/validatex"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidateauth"
	"github.com/Abraxas-365/hirehub/recruitment/job"
	"github.com/Abraxas-365/hirehub/recruitment/job/jobsrv"
	"github.com/gofiber/fiber/v2"
)

// StatusResolver tells a job page where the viewer stands
type StatusResolver interface {
	Resolve(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID) (*application.StatusResolution, error)
}

// Handlers provides HTTP handlers for job operations
type Handlers struct {
	service  *jobsrv.JobService
	resolver StatusResolver
}

// NewHandlers creates a new job handlers instance
func NewHandlers(service *jobsrv.JobService, resolver StatusResolver) *Handlers {
	return &Handlers{
		service:  service,
		resolver: resolver,
	}
}

// JobDetailResponse is a job page: the posting plus the viewer's status
type JobDetailResponse struct {
	Job    job.JobResponse              `json:"job"`
	Status *application.StatusResolution `json:"status"`
}

// ListJobs retrieves open jobs with pagination
// GET /api/jobs
func (h *Handlers) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.service.ListOpenJobs(c.UserContext(), parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

// ListGroupedJobs returns the newest open jobs of every type
// GET /api/jobs/grouped
func (h *Handlers) ListGroupedJobs(c *fiber.Ctx) error {
	groups, err := h.service.ListGroupedJobs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"groups": groups,
	})
}

// GetJob retrieves a job with the caller's application status
// GET /api/jobs/:id
func (h *Handlers) GetJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	found, err := h.service.GetJob(c.UserContext(), jobID)
	if err != nil {
		return err
	}

	// anonymous viewers resolve to not_authenticated
	candidateID, _ := candidateauth.GetCandidateID(c)
	status, err := h.resolver.Resolve(c.UserContext(), jobID, candidateID)
	if err != nil {
		return err
	}

	return c.JSON(JobDetailResponse{
		Job:    found.ToResponse(),
		Status: status,
	})
}

// CreateJob creates a new job posting
// POST /api/jobs
func (h *Handlers) CreateJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if fields := validatex.Struct(req); fields != nil {
		return job.ErrValidationFailed().WithDetail("fields", fields)
	}

	created, err := h.service.CreateJob(c.UserContext(), req, authContext.UserID)
	if err != nil {
		return err
	}

	logx.Infof("Operator %s created job %s", authContext.UserID, created.ID)
	return c.Status(fiber.StatusCreated).JSON(created.ToResponse())
}

// UpdateJob updates an existing job
// PUT /api/jobs/:id
func (h *Handlers) UpdateJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	var req job.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if fields := validatex.Struct(req); fields != nil {
		return job.ErrValidationFailed().WithDetail("fields", fields)
	}

	updated, err := h.service.UpdateJob(c.UserContext(), jobID, req)
	if err != nil {
		return err
	}
	return c.JSON(updated.ToResponse())
}

// CloseJob stops a job from accepting applications
// POST /api/jobs/:id/close
func (h *Handlers) CloseJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	closed, err := h.service.CloseJob(c.UserContext(), jobID)
	if err != nil {
		return err
	}
	return c.JSON(closed.ToResponse())
}

// ReopenJob opens a closed job again
// POST /api/jobs/:id/reopen
func (h *Handlers) ReopenJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	reopened, err := h.service.ReopenJob(c.UserContext(), jobID)
	if err != nil {
		return err
	}
	return c.JSON(reopened.ToResponse())
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

// RegisterRoutes registers all job routes. Reads are public; a candidate
// token, when present, personalizes the job page.
func RegisterRoutes(
	app *fiber.App,
	handlers *Handlers,
	authMiddleware *auth.TokenMiddleware,
	candidateTokens *candidateauth.CandidateTokenService,
) {
	api := app.Group("/api/jobs")

	api.Get("/", handlers.ListJobs)
	api.Get("/grouped", handlers.ListGroupedJobs)
	api.Get("/:id",
		candidateauth.OptionalMiddleware(candidateTokens),
		handlers.GetJob,
	)

	// Write routes (operator token + write scope)
	api.Post("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.CreateJob,
	)

	api.Put("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.UpdateJob,
	)

	api.Post("/:id/close",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.CloseJob,
	)

	api.Post("/:id/reopen",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.ReopenJob,
	)
}
