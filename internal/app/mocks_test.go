package app

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/yourusername/app-fetch-go/internal/domain"
	"github.com/yourusername/app-fetch-go/internal/infrastructure"
)

// mockResolver implements domain.Resolver for testing
type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, app domain.Application) (*domain.Resolution, error) {
	args := m.Called(ctx, app)
	res, _ := args.Get(0).(*domain.Resolution)
	return res, args.Error(1)
}

// mockFetcher implements domain.Fetcher for testing
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Download(ctx context.Context, req domain.FetchRequest, progress domain.ProgressFunc, cancel *domain.CancelToken) *domain.FetchOutcome {
	args := m.Called(ctx, req, progress, cancel)
	return args.Get(0).(*domain.FetchOutcome)
}

func appNamed(name string) interface{} {
	return mock.MatchedBy(func(app domain.Application) bool { return app.Name == name })
}

func requestFor(name string) interface{} {
	return mock.MatchedBy(func(req domain.FetchRequest) bool { return req.Name == name })
}

func testApplication(name string) domain.Application {
	return domain.Application{
		Name:         name,
		Extension:    "exe",
		DiscoveryURL: "https://vendor.example/" + name,
		Pattern:      name,
		Strategy:     domain.StrategyRedirect,
	}
}

func newTestDownloadManager(repo domain.DownloadRepository, resolver domain.Resolver, fetcher domain.Fetcher, config *domain.DownloadConfig) *DownloadManager {
	notifier := infrastructure.NewNotificationService(&domain.NotificationConfig{}, zap.NewNop())
	return NewDownloadManager(repo, resolver, fetcher, notifier, config, zap.NewNop())
}
