package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/yourusername/app-fetch-go/internal/domain"
	"github.com/yourusername/app-fetch-go/internal/infrastructure"
	"go.uber.org/zap"
)

// AppJob is one application inside a batch
type AppJob struct {
	App      domain.Application
	Download *domain.Download
	Dir      string

	// Set when resolution already ran ahead of the download loop
	Resolved   *domain.Resolution
	ResolveErr error
}

// DownloadManager resolves and fetches single applications
type DownloadManager struct {
	repo     domain.DownloadRepository
	resolver domain.Resolver
	fetcher  domain.Fetcher
	notifier *infrastructure.NotificationService
	config   *domain.DownloadConfig
	logger   *zap.Logger
}

// NewDownloadManager creates a new download manager
func NewDownloadManager(
	repo domain.DownloadRepository,
	resolver domain.Resolver,
	fetcher domain.Fetcher,
	notifier *infrastructure.NotificationService,
	config *domain.DownloadConfig,
	logger *zap.Logger,
) *DownloadManager {
	return &DownloadManager{
		repo:     repo,
		resolver: resolver,
		fetcher:  fetcher,
		notifier: notifier,
		config:   config,
		logger:   logger,
	}
}

// ResolveApp resolves an application, retrying transport failures
func (dm *DownloadManager) ResolveApp(ctx context.Context, app domain.Application) (*domain.Resolution, error) {
	var lastErr error
	for attempt := 0; attempt <= dm.config.MaxRetries; attempt++ {
		if attempt > 0 {
			dm.logger.Info("Retrying resolve",
				zap.String("app", app.Name),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", dm.config.MaxRetries))

			if err := dm.sleep(ctx); err != nil {
				return nil, err
			}
		}

		res, err := dm.resolver.Resolve(ctx, app)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, domain.ErrTransport) {
			return nil, err
		}

		lastErr = err
		dm.logger.Warn("Resolve attempt failed",
			zap.String("app", app.Name),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return nil, lastErr
}

// ProcessApp resolves (unless already resolved), optionally skips and then
// fetches one application. Per-application failures are recorded on the
// download and returned; only domain.ErrUnknownStrategy must stop a batch.
func (dm *DownloadManager) ProcessApp(ctx context.Context, job *AppJob, progress domain.ProgressFunc, cancel *domain.CancelToken) error {
	download := job.Download
	app := job.App

	res, err := job.Resolved, job.ResolveErr
	if res == nil && err == nil {
		download.MarkResolving()
		dm.save(download)
		res, err = dm.ResolveApp(ctx, app)
	}
	if err != nil {
		return dm.fail(download, err)
	}
	if !res.Found() {
		return dm.fail(download, domain.NewAppError(app.Name, domain.ErrLinkNotFound))
	}

	download.MarkResolved(res)
	dm.logger.Info("Link resolved",
		zap.String("app", app.Name),
		zap.String("version", res.Version),
		zap.String("url", res.URL))

	if dm.config.SkipUpToDate {
		if path, ok := infrastructure.UpToDateFile(job.Dir, app, res.Version); ok {
			download.MarkSkipped(path)
			dm.save(download)
			dm.logger.Info("Skipping up-to-date application",
				zap.String("app", app.Name),
				zap.String("file", path))
			return nil
		}
	}

	if cancel.Cancelled() {
		download.MarkCancelled()
		dm.save(download)
		return nil
	}

	dest := filepath.Join(job.Dir, app.FileName(res.Version))
	download.MarkDownloading(dest)
	dm.save(download)

	onProgress := func(name string, percent int) {
		if percent > download.Percent {
			download.UpdateProgress(percent)
			dm.save(download)
		}
		if progress != nil {
			progress(name, percent)
		}
	}

	req := domain.FetchRequest{Name: app.Name, URL: res.URL, DestPath: dest}
	var outcome *domain.FetchOutcome
	for attempt := 0; attempt <= dm.config.MaxRetries; attempt++ {
		if attempt > 0 {
			dm.logger.Info("Retrying download",
				zap.String("app", app.Name),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", dm.config.MaxRetries))

			if err := dm.sleep(ctx); err != nil {
				return dm.fail(download, err)
			}
			download.IncrementRetry()
		}

		outcome = dm.fetcher.Download(ctx, req, onProgress, cancel)
		download.RecordTransfer(outcome.Session)

		if outcome.Status != domain.FetchFailed || !errors.Is(outcome.Err, domain.ErrTransport) {
			break
		}
		dm.logger.Warn("Download attempt failed",
			zap.String("app", app.Name),
			zap.Int("attempt", attempt),
			zap.Error(outcome.Err))
	}

	switch outcome.Status {
	case domain.FetchCompleted:
		download.MarkCompleted(outcome.Path)
		dm.save(download)
		dm.logger.Info("Download completed",
			zap.String("app", app.Name),
			zap.String("file", outcome.Path),
			zap.Int64("bytes", outcome.Session.BytesWritten))
		dm.notifier.NotifyAppCompleted(app.Label(res.Version))
		return nil
	case domain.FetchCancelled:
		download.FilePath = outcome.Path
		download.MarkCancelled()
		dm.save(download)
		dm.logger.Info("Download cancelled",
			zap.String("app", app.Name),
			zap.String("partial_file", outcome.Path))
		return nil
	default:
		if outcome.Path != "" {
			download.FilePath = outcome.Path
		}
		return dm.fail(download, outcome.Err)
	}
}

// fail records err on the download and returns it
func (dm *DownloadManager) fail(download *domain.Download, err error) error {
	download.MarkFailed(err)
	dm.save(download)

	if errors.Is(err, domain.ErrUnknownStrategy) {
		dm.logger.Error("Unknown strategy", zap.String("app", download.App), zap.Error(err))
		return err
	}

	dm.logger.Warn("Application failed",
		zap.String("app", download.App),
		zap.Error(err))
	dm.notifier.NotifyAppFailed(download.App, err)
	return err
}

func (dm *DownloadManager) save(download *domain.Download) {
	if err := dm.repo.Update(download); err != nil {
		dm.logger.Error("Failed to update download status",
			zap.String("id", download.ID),
			zap.Error(err))
	}
}

func (dm *DownloadManager) sleep(ctx context.Context) error {
	select {
	case <-time.After(dm.config.RetryDelay):
		return nil
	case <-ctx.Done():
		return fmt.Errorf("retry interrupted: %w", ctx.Err())
	}
}
