package applicationsrv

import (
	"context"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/Abraxas-365/hirehub/recruitment/job"
)

// StatusResolver answers what a job page shows about the job and the viewer
type StatusResolver struct {
	jobRepo         job.Repository
	applicationRepo application.Repository
}

func NewStatusResolver(jobRepo job.Repository, applicationRepo application.Repository) *StatusResolver {
	return &StatusResolver{jobRepo: jobRepo, applicationRepo: applicationRepo}
}

// Resolve returns the job status and, when candidateID is set, the viewer's
// application status
func (r *StatusResolver) Resolve(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID) (*application.StatusResolution, error) {
	jobEntity, err := r.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	res := &application.StatusResolution{
		JobID:     jobID,
		JobStatus: string(jobEntity.Status),
	}

	if candidateID.IsEmpty() {
		res.ApplicantStatus = application.ApplicantNotAuthenticated
		return res, nil
	}

	latest, err := r.applicationRepo.LatestForPair(ctx, candidateID, jobID)
	if err != nil && !errx.IsCode(err, application.CodeApplicationNotFound) {
		return nil, err
	}
	if err != nil {
		latest = nil
	}

	res.ApplicantStatus = application.ApplicantStatusOf(latest)
	if latest != nil {
		id := latest.ID
		res.LatestApplicationID = &id
		res.HasHistory = true
	}
	return res, nil
}
