package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/app-fetch-go/internal/domain"
	"github.com/yourusername/app-fetch-go/internal/infrastructure"
	"github.com/yourusername/app-fetch-go/pkg/logger"
)

// BatchManager runs one batch at a time on a single background goroutine.
// Downloads inside a batch are strictly sequential, so no two transfers
// ever write concurrently.
type BatchManager struct {
	catalog     *domain.Catalog
	repo        domain.DownloadRepository
	downloadMgr *DownloadManager
	notifier    *infrastructure.NotificationService
	config      *domain.ResolveConfig
	multiLogger *logger.MultiLogger
	logger      *zap.Logger

	mu      sync.RWMutex
	current *domain.Batch
	cancel  *domain.CancelToken
	done    chan struct{}
}

// NewBatchManager creates a new batch manager
func NewBatchManager(
	catalog *domain.Catalog,
	repo domain.DownloadRepository,
	downloadMgr *DownloadManager,
	notifier *infrastructure.NotificationService,
	config *domain.ResolveConfig,
	multiLogger *logger.MultiLogger,
	logger *zap.Logger,
) *BatchManager {
	return &BatchManager{
		catalog:     catalog,
		repo:        repo,
		downloadMgr: downloadMgr,
		notifier:    notifier,
		config:      config,
		multiLogger: multiLogger,
		logger:      logger,
	}
}

// Catalog returns the catalog batches are selected from
func (bm *BatchManager) Catalog() *domain.Catalog {
	return bm.catalog
}

// Start launches a batch over the named applications, processed in catalog
// order. An empty selection falls back to the catalog's checked entries.
// progress is called from a dispatcher goroutine, never from the transfer loop.
func (bm *BatchManager) Start(ctx context.Context, dir string, names []string, progress domain.ProgressFunc) (*domain.Batch, error) {
	apps, err := bm.selectApps(names)
	if err != nil {
		return nil, err
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.current != nil && bm.current.IsRunning() {
		return nil, domain.ErrBatchRunning
	}

	batch := domain.NewBatch(dir, apps)
	jobs := make([]*AppJob, len(apps))
	for i, app := range apps {
		download := domain.NewDownload(batch.ID, app)
		if err := bm.repo.Create(download); err != nil {
			return nil, fmt.Errorf("failed to create download: %w", err)
		}
		jobs[i] = &AppJob{App: app, Download: download, Dir: dir}
	}

	bm.current = batch
	bm.cancel = domain.NewCancelToken()
	bm.done = make(chan struct{})

	if bm.multiLogger != nil {
		bm.multiLogger.LogBatchEvent("batch_started",
			zap.String("id", batch.ID),
			zap.String("dir", dir),
			zap.Strings("apps", batch.Apps))
	}
	bm.notifier.NotifyBatchStarted(len(apps))

	go bm.run(ctx, batch, jobs, progress, bm.cancel, bm.done)

	started := *batch
	return &started, nil
}

// Cancel asks the running batch to stop. The in-flight chunk is always
// completed first; use Wait to join.
func (bm *BatchManager) Cancel() error {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	if bm.current == nil {
		return domain.ErrNoBatch
	}
	bm.cancel.Cancel()

	if bm.multiLogger != nil {
		bm.multiLogger.LogBatchEvent("batch_cancel_requested", zap.String("id", bm.current.ID))
	}
	return nil
}

// Wait blocks until the current batch has finished. There is no timeout.
func (bm *BatchManager) Wait() {
	bm.mu.RLock()
	done := bm.done
	bm.mu.RUnlock()

	if done != nil {
		<-done
	}
}

// Current returns a snapshot of the last started batch and its downloads
func (bm *BatchManager) Current() (*domain.Batch, []*domain.Download, error) {
	bm.mu.RLock()
	if bm.current == nil {
		bm.mu.RUnlock()
		return nil, nil, domain.ErrNoBatch
	}
	batch := *bm.current
	bm.mu.RUnlock()

	downloads, err := bm.repo.FindByBatch(batch.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list batch downloads: %w", err)
	}
	return &batch, downloads, nil
}

// IsRunning returns whether a batch is in progress
func (bm *BatchManager) IsRunning() bool {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return bm.current != nil && bm.current.IsRunning()
}

// GetDownload retrieves a download by ID
func (bm *BatchManager) GetDownload(id string) (*domain.Download, error) {
	return bm.repo.FindByID(id)
}

// ListDownloads lists all downloads with optional filters
func (bm *BatchManager) ListDownloads(filters map[string]string) ([]*domain.Download, error) {
	return bm.repo.FindAll(filters)
}

// DeleteDownload removes a finished download record. Records of the running
// batch are kept until it ends.
func (bm *BatchManager) DeleteDownload(id string) error {
	download, err := bm.repo.FindByID(id)
	if err != nil {
		return err
	}

	bm.mu.RLock()
	running := bm.current != nil && bm.current.IsRunning() && bm.current.ID == download.BatchID
	bm.mu.RUnlock()

	if running || download.IsActive() {
		return fmt.Errorf("%w: %s", domain.ErrDownloadActive, id)
	}
	return bm.repo.Delete(id)
}

// GetStats returns download statistics
func (bm *BatchManager) GetStats() (*domain.DownloadStats, error) {
	return bm.repo.GetStats()
}

func (bm *BatchManager) selectApps(names []string) ([]domain.Application, error) {
	var (
		apps []domain.Application
		err  error
	)
	if len(names) == 0 {
		apps = bm.catalog.Checked()
	} else {
		apps, err = bm.catalog.Select(names)
		if err != nil {
			return nil, err
		}
	}

	if len(apps) == 0 {
		return nil, domain.ErrEmptySelection
	}
	return apps, nil
}

// run is the batch goroutine
func (bm *BatchManager) run(ctx context.Context, batch *domain.Batch, jobs []*AppJob, progress domain.ProgressFunc, cancel *domain.CancelToken, done chan struct{}) {
	defer close(done)

	dispatcher := NewProgressDispatcher(progress)
	defer dispatcher.Close()

	if bm.config.Workers > 1 {
		bm.resolveAll(ctx, jobs, cancel)
	}

	var (
		completed, failed int
		fatal             error
	)

	for i, job := range jobs {
		if cancel.Cancelled() {
			bm.cancelRemaining(jobs[i:])
			break
		}

		err := bm.downloadMgr.ProcessApp(ctx, job, dispatcher.Report, cancel)
		if errors.Is(err, domain.ErrUnknownStrategy) {
			fatal = err
			bm.cancelRemaining(jobs[i+1:])
			break
		}

		switch {
		case err != nil:
			failed++
			if bm.multiLogger != nil {
				bm.multiLogger.LogAppError("Application failed",
					zap.String("batch_id", batch.ID),
					zap.String("app", job.App.Name),
					zap.Error(err))
			}
		case job.Download.Status == domain.StatusCompleted || job.Download.Status == domain.StatusSkipped:
			completed++
		}
	}

	status := domain.BatchCompleted
	switch {
	case fatal != nil:
		status = domain.BatchAborted
	case cancel.Cancelled():
		status = domain.BatchCancelled
	}

	bm.mu.Lock()
	batch.Finish(status, fatal)
	bm.mu.Unlock()

	bm.logger.Info("Batch finished",
		zap.String("id", batch.ID),
		zap.String("status", string(status)),
		zap.Int("completed", completed),
		zap.Int("failed", failed))

	if bm.multiLogger != nil {
		bm.multiLogger.LogBatchEvent("batch_finished",
			zap.String("id", batch.ID),
			zap.String("status", string(status)),
			zap.Int("completed", completed),
			zap.Int("failed", failed))
		if fatal != nil {
			bm.multiLogger.LogAppError("Batch aborted", zap.String("id", batch.ID), zap.Error(fatal))
		}
	}
	bm.notifier.NotifyBatchFinished(status, completed, failed)
}

// resolveAll resolves every job up-front with at most Workers requests in
// flight. Results are stored on the job itself, so order follows the catalog.
func (bm *BatchManager) resolveAll(ctx context.Context, jobs []*AppJob, cancel *domain.CancelToken) {
	var g errgroup.Group
	g.SetLimit(bm.config.Workers)

	for _, job := range jobs {
		job := job
		job.Download.MarkResolving()
		if err := bm.repo.Update(job.Download); err != nil {
			bm.logger.Error("Failed to update download status", zap.Error(err))
		}

		g.Go(func() error {
			if cancel.Cancelled() {
				return nil
			}
			res, err := bm.downloadMgr.ResolveApp(ctx, job.App)
			job.Resolved, job.ResolveErr = res, err
			return nil
		})
	}

	g.Wait()
}

func (bm *BatchManager) cancelRemaining(jobs []*AppJob) {
	for _, job := range jobs {
		job.Download.MarkCancelled()
		if err := bm.repo.Update(job.Download); err != nil {
			bm.logger.Error("Failed to update download status", zap.Error(err))
		}
	}
}
