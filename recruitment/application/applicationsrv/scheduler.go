package applicationsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/application"
)

// ProjectionScheduler moves re-projection work onto the projection queue.
// When the queue is unavailable, refreshes run inline instead.
type ProjectionScheduler struct {
	queue     application.ProjectionQueue
	projector *Projector
	now       func() time.Time
}

func NewProjectionScheduler(queue application.ProjectionQueue, projector *Projector) *ProjectionScheduler {
	return &ProjectionScheduler{
		queue:     queue,
		projector: projector,
		now:       time.Now,
	}
}

func (s *ProjectionScheduler) task(kind application.TaskKind, id string) application.ProjectionTask {
	return application.ProjectionTask{Kind: kind, ID: id, EnqueuedAt: s.now()}
}

// RefreshCandidate schedules re-projection of a candidate's views
func (s *ProjectionScheduler) RefreshCandidate(ctx context.Context, candidateID kernel.CandidateID) error {
	if s.queue != nil {
		err := s.queue.Enqueue(ctx, s.task(application.TaskRefreshCandidate, candidateID.String()))
		if err == nil {
			return nil
		}
		logx.Warnf("Queueing refresh of candidate %s failed, refreshing inline: %v", candidateID, err)
	}

	result, err := s.projector.RefreshCandidate(ctx, candidateID)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		logx.Warnf("Inline refresh of candidate %s left %d views stale", candidateID, result.Failed)
	}
	return nil
}

// RefreshJob schedules re-projection of a job's views
func (s *ProjectionScheduler) RefreshJob(ctx context.Context, jobID kernel.JobID) error {
	if s.queue != nil {
		err := s.queue.Enqueue(ctx, s.task(application.TaskRefreshJob, jobID.String()))
		if err == nil {
			return nil
		}
		logx.Warnf("Queueing refresh of job %s failed, refreshing inline: %v", jobID, err)
	}

	result, err := s.projector.RefreshJob(ctx, jobID)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		logx.Warnf("Inline refresh of job %s left %d views stale", jobID, result.Failed)
	}
	return nil
}

// ScheduleProjection retries the projection of one application after delay
func (s *ProjectionScheduler) ScheduleProjection(ctx context.Context, id kernel.ApplicationID, delay time.Duration) error {
	if s.queue == nil {
		return application.ErrQueueUnavailable(nil)
	}
	return s.queue.EnqueueDelayed(ctx, s.task(application.TaskProjectApplication, id.String()), delay)
}
