package candidateauth

import (
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/pkg/validatex"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/Abraxas-365/hirehub/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidatesrv"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	authService        *CandidateAuthService
	candidateService   *candidatesrv.CandidateService
	applicationService *applicationsrv.ApplicationService
	deliveryService    *applicationsrv.DeliveryService
	submitGuard        application.SubmitGuard
}

func NewHandlers(
	authService *CandidateAuthService,
	candidateService *candidatesrv.CandidateService,
	applicationService *applicationsrv.ApplicationService,
	deliveryService *applicationsrv.DeliveryService,
	submitGuard application.SubmitGuard,
) *Handlers {
	return &Handlers{
		authService:        authService,
		candidateService:   candidateService,
		applicationService: applicationService,
		deliveryService:    deliveryService,
		submitGuard:        submitGuard,
	}
}

// Login exchanges a login code for a session token
// POST /api/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req candidate.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return candidate.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if fields := validatex.Struct(req); fields != nil {
		return candidate.ErrValidationFailed().WithDetail("fields", fields)
	}

	session, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Register creates a profile and returns a session token
// POST /api/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req candidate.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return candidate.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if fields := validatex.Struct(req); fields != nil {
		return candidate.ErrValidationFailed().WithDetail("fields", fields)
	}

	session, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// UploadTempResume stores a résumé picked before registration
// POST /api/uploads/resume (multipart field "resume")
func (h *Handlers) UploadTempResume(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return candidate.ErrInvalidResume().WithDetail("resume", "file is required")
	}

	content, err := file.Open()
	if err != nil {
		return candidate.ErrInvalidResume().WithDetail("resume", "unreadable file")
	}
	defer content.Close()

	fileID, err := h.candidateService.UploadTempResume(c.UserContext(), file.Filename, file.Size, content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"file_id": fileID,
	})
}

// GetProfile gets the candidate's profile
// GET /api/me
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	candidateID, _ := GetCandidateID(c)

	profile, err := h.candidateService.GetProfile(c.UserContext(), candidateID)
	if err != nil {
		return err
	}
	return c.JSON(profile.ToResponse())
}

// UpdateProfile applies a partial profile update
// PATCH /api/me
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	candidateID, _ := GetCandidateID(c)

	var update candidate.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return candidate.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	updated, err := h.candidateService.UpdateProfile(c.UserContext(), candidateID, update)
	if err != nil {
		return err
	}
	return c.JSON(updated.ToResponse())
}

// UploadResume replaces the candidate's résumé
// POST /api/me/resume (multipart field "resume")
func (h *Handlers) UploadResume(c *fiber.Ctx) error {
	candidateID, _ := GetCandidateID(c)

	file, err := c.FormFile("resume")
	if err != nil {
		return candidate.ErrInvalidResume().WithDetail("resume", "file is required")
	}

	content, err := file.Open()
	if err != nil {
		return candidate.ErrInvalidResume().WithDetail("resume", "unreadable file")
	}
	defer content.Close()

	updated, err := h.candidateService.UploadResume(c.UserContext(), candidateID, file.Filename, file.Size, content)
	if err != nil {
		return err
	}
	return c.JSON(updated.ToResponse())
}

// ApplyToJob submits, or resubmits, an application
// POST /api/me/applications
func (h *Handlers) ApplyToJob(c *fiber.Ctx) error {
	candidateID, _ := GetCandidateID(c)

	var req application.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if fields := validatex.Struct(req); fields != nil {
		return application.ErrValidationFailed().WithDetail("fields", fields)
	}

	ctx := c.UserContext()
	guarded := false
	if h.submitGuard != nil {
		acquired, err := h.submitGuard.Acquire(ctx, candidateID, req.JobID)
		switch {
		case err != nil:
			// fail open: a guard outage must not block applications
			logx.Warnf("Submit guard unavailable for %s: %v", application.PairKey(candidateID, req.JobID), err)
		case !acquired:
			return application.ErrSubmitInProgress().WithDetail("job_id", req.JobID.String())
		default:
			guarded = true
		}
	}

	// a successful submit keeps the guard until its window lapses
	result, err := h.applicationService.Apply(ctx, candidateID, req.JobID)
	if err != nil {
		if guarded {
			if rerr := h.submitGuard.Release(ctx, candidateID, req.JobID); rerr != nil {
				logx.Warnf("Failed to release submit guard for %s: %v", application.PairKey(candidateID, req.JobID), rerr)
			}
		}
		return err
	}

	status := fiber.StatusCreated
	if !result.Projected {
		status = fiber.StatusAccepted
	}
	return c.Status(status).JSON(fiber.Map{
		"message": result.Message(),
		"result":  result,
	})
}

// WithdrawApplication removes the candidate's application to a job
// DELETE /api/me/applications/:jobId
func (h *Handlers) WithdrawApplication(c *fiber.Ctx) error {
	candidateID, _ := GetCandidateID(c)

	jobID := kernel.JobID(c.Params("jobId"))
	if jobID.IsEmpty() {
		return application.ErrMissingIdentifier().WithDetail("job_id", "missing or empty")
	}

	if err := h.applicationService.Withdraw(c.UserContext(), candidateID, jobID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMyApplications pages the candidate's own applications
// GET /api/me/applications
func (h *Handlers) GetMyApplications(c *fiber.Ctx) error {
	candidateID, _ := GetCandidateID(c)

	pagination := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 10),
	}

	page, err := h.deliveryService.List(c.UserContext(), candidateID, pagination)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// RegisterRoutes registers candidate-facing routes
func RegisterRoutes(
	app *fiber.App,
	handlers *Handlers,
	candidateAuthMiddleware fiber.Handler,
) {
	// Public routes - no auth required
	authAPI := app.Group("/api/auth")
	authAPI.Post("/login", handlers.Login)
	authAPI.Post("/register", handlers.Register)

	app.Post("/api/uploads/resume", handlers.UploadTempResume)

	// Protected routes - require candidate session token
	me := app.Group("/api/me", candidateAuthMiddleware)
	me.Get("/", handlers.GetProfile)
	me.Patch("/", handlers.UpdateProfile)
	me.Post("/resume", handlers.UploadResume)
	me.Get("/applications", handlers.GetMyApplications)
	me.Post("/applications", handlers.ApplyToJob)
	me.Delete("/applications/:jobId", handlers.WithdrawApplication)
}
