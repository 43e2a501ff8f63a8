package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/yourusername/app-fetch-go/internal/domain"
	"go.uber.org/zap"
)

// githubRelease is the subset of the hosted release API document we read
type githubRelease struct {
	TagName string        `json:"tag_name"`
	Assets  []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// resolveGitHub picks the first release asset whose download URL or file
// name matches the link pattern
func (r *LinkResolver) resolveGitHub(ctx context.Context, app domain.Application) (*domain.Resolution, error) {
	re, err := compilePattern(app.LinkPattern())
	if err != nil {
		return nil, err
	}

	body, err := r.client.GetBody(ctx, app.DiscoveryURL)
	if err != nil {
		return nil, err
	}

	var release githubRelease
	if err := json.Unmarshal(body, &release); err != nil {
		r.logger.Warn("Failed to decode release document",
			zap.String("app", app.Name),
			zap.String("url", app.DiscoveryURL),
			zap.Error(err))
		return &domain.Resolution{}, nil
	}

	for _, asset := range release.Assets {
		if re.MatchString(asset.BrowserDownloadURL) || re.MatchString(asset.Name) {
			return &domain.Resolution{
				URL:     asset.BrowserDownloadURL,
				Version: release.TagName,
			}, nil
		}
	}

	return &domain.Resolution{}, nil
}
