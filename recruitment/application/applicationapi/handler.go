package applicationapi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/iam/auth"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/pkg/validatex"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/Abraxas-365/hirehub/recruitment/application/applicationsrv"
	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers provides operator HTTP handlers for applications
type Handlers struct {
	service  *applicationsrv.ApplicationService
	delivery *applicationsrv.DeliveryService
}

// NewHandlers creates a new application handlers instance
func NewHandlers(service *applicationsrv.ApplicationService, delivery *applicationsrv.DeliveryService) *Handlers {
	return &Handlers{
		service:  service,
		delivery: delivery,
	}
}

// ListApplications returns the newest applications with candidate and job fields
// GET /api/applications
func (h *Handlers) ListApplications(c *fiber.Ctx) error {
	rows, err := h.delivery.ListAll(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"items": rows,
		"count": len(rows),
	})
}

// ExportApplications returns filtered applications, oldest first
// GET /api/applications/export?start=&end=&job_type=&job_title=&limit=
func (h *Handlers) ExportApplications(c *fiber.Ctx) error {
	filter, err := parseExportFilter(c)
	if err != nil {
		return err
	}

	rows, err := h.delivery.Export(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"items": rows,
		"count": len(rows),
	})
}

// ExportWorkbook downloads the export as a spreadsheet
// GET /api/applications/export.xlsx
func (h *Handlers) ExportWorkbook(c *fiber.Ctx) error {
	filter, err := parseExportFilter(c)
	if err != nil {
		return err
	}

	data, err := h.delivery.ExportWorkbook(c.UserContext(), filter)
	if err != nil {
		return err
	}

	if authContext, ok := auth.GetAuthContext(c); ok {
		logx.Infof("Operator %s exported applications (%d bytes)", authContext.UserID, len(data))
	}

	filename := fmt.Sprintf("applications-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

// GetApplicationView returns the projected snapshot of one application
// GET /api/applications/:id
func (h *Handlers) GetApplicationView(c *fiber.Ctx) error {
	id := kernel.ApplicationID(c.Params("id"))
	if id.IsEmpty() {
		return application.ErrInvalidRequest().WithDetail("id", "missing or empty")
	}

	view, err := h.service.GetView(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// ListViewsByJob pages the snapshots of one job's applications
// GET /api/applications/by-job/:jobId
func (h *Handlers) ListViewsByJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("jobId"))
	if jobID.IsEmpty() {
		return application.ErrInvalidRequest().WithDetail("job_id", "missing or empty")
	}

	page, err := h.service.ListViewsByJob(c.UserContext(), jobID, parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// UpdateStatus changes an application's status
// PATCH /api/applications/:id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	id := kernel.ApplicationID(c.Params("id"))
	if id.IsEmpty() {
		return application.ErrInvalidRequest().WithDetail("id", "missing or empty")
	}

	var req application.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if fields := validatex.Struct(req); fields != nil {
		return application.ErrValidationFailed().WithDetail("fields", fields)
	}

	updated, err := h.service.ChangeStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}

	if authContext, ok := auth.GetAuthContext(c); ok {
		logx.Infof("Operator %s set application %s to %s", authContext.UserID, id, req.Status)
	}
	return c.JSON(updated)
}

// ============================================================================
// Helpers
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

func parseExportFilter(c *fiber.Ctx) (application.ExportFilter, error) {
	filter := application.ExportFilter{
		JobType:  c.Query("job_type"),
		JobTitle: c.Query("job_title"),
		Limit:    c.QueryInt("limit", 0),
	}

	for name, dst := range map[string]**int64{"start": &filter.Start, "end": &filter.End} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, application.ErrInvalidRequest().WithDetail(name, "must be epoch milliseconds")
		}
		*dst = &ms
	}
	return filter, nil
}

// RegisterRoutes registers all operator application routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/applications", authMiddleware.Authenticate())

	api.Get("/",
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.ListApplications,
	)

	api.Get("/export",
		authMiddleware.RequireScope(auth.ScopeApplicationsExport),
		handlers.ExportApplications,
	)

	api.Get("/export.xlsx",
		authMiddleware.RequireScope(auth.ScopeApplicationsExport),
		handlers.ExportWorkbook,
	)

	api.Get("/by-job/:jobId",
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.ListViewsByJob,
	)

	api.Get("/:id",
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.GetApplicationView,
	)

	api.Patch("/:id/status",
		authMiddleware.RequireScope(auth.ScopeApplicationsWrite),
		handlers.UpdateStatus,
	)
}
