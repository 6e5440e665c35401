package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/mapaddress-backend/internal/app/service"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const backupTimeout = 2 * time.Minute

// BackupScheduler uploads an address export on a cron schedule.
type BackupScheduler struct {
	cron          *cron.Cron
	backupService service.BackupService
}

func NewBackupScheduler(backupService service.BackupService) *BackupScheduler {
	return &BackupScheduler{
		cron:          cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		backupService: backupService,
	}
}

// Start registers the job with a standard five-field cron spec or a
// descriptor such as "@daily", then starts the scheduler.
func (s *BackupScheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.runOnce)
	if err != nil {
		logger.Error("Failed to add cron job for address backup", err, map[string]interface{}{
			"schedule": spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Backup scheduler started", map[string]interface{}{
		"schedule": spec,
	})
	return nil
}

func (s *BackupScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()

	logger.Info("Starting scheduled address backup")
	url, err := s.backupService.Backup(ctx)
	if err != nil {
		logger.Error("Scheduled address backup failed", err)
		return
	}
	logger.Info("Scheduled address backup finished", map[string]interface{}{
		"url": url,
	})
}

// Stop waits for a running backup to finish.
func (s *BackupScheduler) Stop() {
	logger.Info("Stopping backup scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Backup scheduler stopped")
}
