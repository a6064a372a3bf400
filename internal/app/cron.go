package app

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-app/core/internal/models"
	pkgcron "github.com/inkwell-app/core/internal/pkg/cron"
	sessionpkg "github.com/inkwell-app/core/internal/pkg/session"
	"github.com/inkwell-app/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// staleRunAge is how long a document may sit in a non-terminal status before
// the sweep assumes its run goroutine died (crash, redeploy) and fails it.
const staleRunAge = 2 * time.Hour

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, taskSvc *taskqueue.Service, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "purge_sessions",
		Description: "Remove sessions expired for more than a day",
		Interval:    12 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := sessionpkg.PurgeExpired(db, 24*time.Hour)
			if err != nil {
				cronLogger.Warn("session purge failed", zap.Error(err))
				return err
			}
			cronLogger.Info(fmt.Sprintf("purged %d expired sessions", n))
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "sweep_tasks",
		Description: "Drop finished task records older than a day",
		Interval:    6 * time.Hour,
		Fn: func(ctx context.Context) error {
			before := time.Now().Add(-24 * time.Hour).UnixMilli()
			if err := taskSvc.DeleteCompleted(ctx, before); err != nil {
				cronLogger.Warn("task sweep failed", zap.Error(err))
				return err
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "sweep_stale_runs",
		Description: "Fail documents stuck in pending or processing",
		Interval:    15 * time.Minute,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().Add(-staleRunAge)
			result := db.WithContext(ctx).Model(&models.DocumentModel{}).
				Where("generation_status IN ? AND updated_at < ?",
					[]string{models.StatusPending, models.StatusProcessing}, cutoff).
				Updates(map[string]interface{}{
					"generation_status": models.StatusFailed,
					"error":             "generation run lost",
				})
			if result.Error != nil {
				cronLogger.Warn("stale run sweep failed", zap.Error(result.Error))
				return result.Error
			}
			if result.RowsAffected > 0 {
				cronLogger.Info(fmt.Sprintf("failed %d stale generation runs", result.RowsAffected))
			}
			return nil
		},
	})
}
