package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yourusername/app-fetch-go/internal/domain"
	"github.com/yourusername/app-fetch-go/internal/infrastructure"
	"github.com/yourusername/app-fetch-go/pkg/logger"
)

// Services holds the wired components shared by the CLI and the server
type Services struct {
	Catalog     *domain.Catalog
	Repo        domain.DownloadRepository
	Resolver    domain.Resolver
	DownloadMgr *DownloadManager
	BatchMgr    *BatchManager
}

// NewServices wires the resolver, fetcher and managers from config.
// multiLog may be nil when categorized log files are not wanted.
func NewServices(config *domain.Config, log *zap.Logger, multiLog *logger.MultiLogger) (*Services, error) {
	catalog, err := infrastructure.LoadCatalog(config.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	resolveClient := infrastructure.NewHTTPClient(config.Resolve.UserAgent, config.Resolve.Accept, config.Resolve.Timeout)
	downloadClient := infrastructure.NewHTTPClient(config.Resolve.UserAgent, config.Resolve.Accept, config.Download.Timeout)

	repo := infrastructure.NewMemoryDownloadRepository()
	resolver := infrastructure.NewLinkResolver(resolveClient, log)
	fetcher := infrastructure.NewStreamFetcher(downloadClient, config.Download.ChunkSize, log)
	notifier := infrastructure.NewNotificationService(&config.Notification, log)

	downloadMgr := NewDownloadManager(repo, resolver, fetcher, notifier, &config.Download, log)
	batchMgr := NewBatchManager(catalog, repo, downloadMgr, notifier, &config.Resolve, multiLog, log)

	return &Services{
		Catalog:     catalog,
		Repo:        repo,
		Resolver:    resolver,
		DownloadMgr: downloadMgr,
		BatchMgr:    batchMgr,
	}, nil
}
