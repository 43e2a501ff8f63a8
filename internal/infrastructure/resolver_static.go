package infrastructure

import (
	"context"
	"strings"

	"github.com/yourusername/app-fetch-go/internal/domain"
)

// resolveStatic reads the version from page text and substitutes it into
// the BaseURL template
func (r *LinkResolver) resolveStatic(ctx context.Context, app domain.Application) (*domain.Resolution, error) {
	re, err := compilePattern(app.Pattern)
	if err != nil {
		return nil, err
	}

	doc, err := r.fetchDocument(ctx, app)
	if err != nil || doc == nil {
		return &domain.Resolution{}, err
	}

	text, ok := findElementByText(doc, app.HTMLElement(), re)
	if !ok {
		return &domain.Resolution{}, nil
	}

	version := versionPattern.FindString(text)
	if version == "" {
		return &domain.Resolution{}, nil
	}

	return &domain.Resolution{
		URL:     strings.ReplaceAll(app.BaseURL, domain.VersionPlaceholder, version),
		Version: version,
	}, nil
}

// resolveUnchangedWithVersion returns the fixed BaseURL once the version
// element is found on the discovery page. The link is kept even when the
// version cannot be extracted from that element.
func (r *LinkResolver) resolveUnchangedWithVersion(ctx context.Context, app domain.Application) (*domain.Resolution, error) {
	re, err := compilePattern(app.Pattern)
	if err != nil {
		return nil, err
	}

	doc, err := r.fetchDocument(ctx, app)
	if err != nil || doc == nil {
		return &domain.Resolution{}, err
	}

	text, ok := findElementByText(doc, app.HTMLElement(), re)
	if !ok {
		return &domain.Resolution{}, nil
	}

	return &domain.Resolution{
		URL:     app.BaseURL,
		Version: firstGroup(re.FindStringSubmatch(text)),
	}, nil
}
