package applicationsrv

import (
	"context"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/application"
)

// DeliveryLimits bounds the operator read paths
type DeliveryLimits struct {
	ListCap       int
	ExportDefault int
	ExportMax     int
}

// DefaultDeliveryLimits are used for any zero field
var DefaultDeliveryLimits = DeliveryLimits{ListCap: 100, ExportDefault: 200, ExportMax: 1000}

// DeliveryService serves the joined application listings
type DeliveryService struct {
	query  application.DeliveryQuery
	limits DeliveryLimits
}

func NewDeliveryService(query application.DeliveryQuery, limits DeliveryLimits) *DeliveryService {
	if limits.ListCap <= 0 {
		limits.ListCap = DefaultDeliveryLimits.ListCap
	}
	if limits.ExportDefault <= 0 {
		limits.ExportDefault = DefaultDeliveryLimits.ExportDefault
	}
	if limits.ExportMax <= 0 {
		limits.ExportMax = DefaultDeliveryLimits.ExportMax
	}
	return &DeliveryService{query: query, limits: limits}
}

// List pages a candidate's applications, newest first. Total counts only
// applications whose job still exists, so HasMore never points at an empty page.
func (s *DeliveryService) List(ctx context.Context, candidateID kernel.CandidateID, pagination kernel.PaginationOptions) (*application.CandidateDeliveryPage, error) {
	if candidateID.IsEmpty() {
		return nil, application.ErrMissingIdentifier()
	}
	if !pagination.IsValid() {
		return nil, application.ErrInvalidPagination().
			WithDetail("page", pagination.Page).
			WithDetail("page_size", pagination.PageSize)
	}

	total, err := s.query.CountByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	offset := pagination.Offset()
	rows, err := s.query.ListByCandidate(ctx, candidateID, offset, pagination.PageSize)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []application.CandidateDelivery{}
	}

	return &application.CandidateDeliveryPage{
		Rows:     rows,
		Total:    total,
		HasMore:  int64(offset+len(rows)) < total,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}, nil
}

// ListAll returns the newest applications with both candidate and job, capped
func (s *DeliveryService) ListAll(ctx context.Context) ([]application.DeliveryRow, error) {
	rows, err := s.query.ListAll(ctx, s.limits.ListCap)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []application.DeliveryRow{}
	}
	return rows, nil
}

// normalize applies the limit policy and checks the time range
func (s *DeliveryService) normalize(filter application.ExportFilter) (application.ExportFilter, error) {
	if filter.Start != nil && filter.End != nil && *filter.Start > *filter.End {
		return filter, application.ErrInvalidTimeRange().
			WithDetail("start", *filter.Start).
			WithDetail("end", *filter.End)
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = s.limits.ExportDefault
	case filter.Limit > s.limits.ExportMax:
		filter.Limit = s.limits.ExportMax
	}
	return filter, nil
}

// Export returns applications matching filter, oldest first
func (s *DeliveryService) Export(ctx context.Context, filter application.ExportFilter) ([]application.ExportRow, error) {
	filter, err := s.normalize(filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.query.Export(ctx, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []application.ExportRow{}
	}
	return rows, nil
}
