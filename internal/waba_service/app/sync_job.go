package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hiperzap/waba-platform/internal/platform/scheduler"
	"github.com/hiperzap/waba-platform/internal/waba_service/domain"
)

const (
	// SyncJobName identifies the periodic sync-all task in the scheduler.
	SyncJobName = "sync-waba"

	subjectSyncOutcome = "waba.sync.outcome"
	subjectSyncSummary = "waba.sync.summary"
)

// EventPublisher publishes service events; the NATS client satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Reconciler runs one reconciliation pass; SyncService satisfies it.
type Reconciler interface {
	Reconcile(ctx context.Context, businessManagerID uuid.UUID) SyncResult
}

// SyncSummary aggregates the outcomes of one sync-all run.
type SyncSummary struct {
	Total             int `json:"total"`
	Succeeded         int `json:"succeeded"`
	Failed            int `json:"failed"`
	TotalWABAs        int `json:"total_wabas"`
	TotalPhoneNumbers int `json:"total_phone_numbers"`
}

// SyncAllJob runs the sync engine across every Business Manager that has an
// access token. Managers are processed strictly sequentially: one manager's
// remote calls fully complete before the next starts.
type SyncAllJob struct {
	businessManagers domain.BusinessManagerRepository
	reconciler       Reconciler
	publisher        EventPublisher // nil disables event publishing
	logger           *slog.Logger
}

func NewSyncAllJob(
	businessManagers domain.BusinessManagerRepository,
	reconciler Reconciler,
	publisher EventPublisher,
	logger *slog.Logger,
) *SyncAllJob {
	return &SyncAllJob{
		businessManagers: businessManagers,
		reconciler:       reconciler,
		publisher:        publisher,
		logger:           logger.With("job", SyncJobName),
	}
}

// SchedulerJob wraps the job for registration with the scheduler.
func (j *SyncAllJob) SchedulerJob(enabled bool, interval time.Duration) scheduler.Job {
	return scheduler.Job{
		Name:     SyncJobName,
		Enabled:  enabled,
		Interval: interval,
		Run:      j.Run,
	}
}

// Run executes one sync-all pass. Only the enumeration failure is returned
// as an error (the scheduler's run wrapper contains it); per-manager failures
// are reported through results, logs and events.
func (j *SyncAllJob) Run(ctx context.Context) error {
	managers, err := j.businessManagers.ListWithAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to list business managers for sync: %w", err)
	}

	if len(managers) == 0 {
		j.logger.InfoContext(ctx, "No business managers with access tokens, nothing to sync")
		return nil
	}

	j.logger.InfoContext(ctx, "Starting sync of business managers", "count", len(managers))

	var summary SyncSummary
	var failures []SyncResult

	for _, bm := range managers {
		if !bm.IsActive {
			j.logger.InfoContext(ctx, "Skipping inactive business manager", "business_manager_id", bm.ID)
			continue
		}
		summary.Total++

		result := j.reconciler.Reconcile(ctx, bm.ID)

		if result.Succeeded {
			summary.Succeeded++
		} else {
			summary.Failed++
			failures = append(failures, result)
		}
		summary.TotalWABAs += result.WABACount
		summary.TotalPhoneNumbers += result.PhoneNumberCount

		j.publish(ctx, subjectSyncOutcome, result)
	}

	j.logger.InfoContext(ctx, "Sync job completed",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"total_wabas", summary.TotalWABAs,
		"total_phone_numbers", summary.TotalPhoneNumbers)

	for _, f := range failures {
		j.logger.ErrorContext(ctx, "Business manager sync failed",
			"business_manager_id", f.BusinessManagerID, "errors", f.Errors)
	}

	j.publish(ctx, subjectSyncSummary, summary)
	return nil
}

// publish is best-effort: a broker failure must not fail the sync run.
func (j *SyncAllJob) publish(ctx context.Context, subject string, payload any) {
	if j.publisher == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to marshal sync event", "subject", subject, "error", err)
		return
	}
	if err := j.publisher.Publish(ctx, subject, data); err != nil {
		j.logger.WarnContext(ctx, "Failed to publish sync event", "subject", subject, "error", err)
	}
}
