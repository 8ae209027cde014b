package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/events"
)

// DeletionJobs tells the external deletion worker which removed employees
// are past their grace period. Nothing is deleted here. Each employee is
// announced once; if marking fails after a publish the event is sent again
// on the next run, so consumers must tolerate duplicates (dedupe on employee_id).
type DeletionJobs struct {
	employeeRepo employee.EmployeeRepository
	publisher    events.Publisher
	now          func() time.Time
}

func NewDeletionJobs(employeeRepo employee.EmployeeRepository, publisher events.Publisher) *DeletionJobs {
	return &DeletionJobs{employeeRepo: employeeRepo, publisher: publisher, now: time.Now}
}

func (j *DeletionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("publish_deletion_due", time.Hour, j.PublishDeletionDue)
}

func (j *DeletionJobs) PublishDeletionDue(ctx context.Context) error {
	due, err := j.employeeRepo.ListDeletionDue(ctx, j.now())
	if err != nil {
		return fmt.Errorf("failed to list employees due for deletion: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	batch := make([]events.Event, 0, len(due))
	ids := make([]string, 0, len(due))
	for _, e := range due {
		ids = append(ids, e.ID)
		payload := map[string]interface{}{"scheduled_deletion_date": e.ScheduledDeletionDate}
		if e.TerminationReason != nil {
			payload["reason"] = *e.TerminationReason
		}
		batch = append(batch, events.New(events.TypeDeletionDue, e.ID, e.CompanyID, payload))
	}

	if err := j.publisher.Publish(ctx, batch...); err != nil {
		return err
	}
	if err := j.employeeRepo.MarkDeletionDuePublished(ctx, ids, j.now()); err != nil {
		return err
	}
	slog.Info("Cron: published deletion-due events", "count", len(batch))
	return nil
}
