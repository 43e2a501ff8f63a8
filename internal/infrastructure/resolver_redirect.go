package infrastructure

import (
	"context"
	"strings"

	"github.com/yourusername/app-fetch-go/internal/domain"
)

// resolveRedirect captures the first redirect hop of url. Further redirects
// are never followed: only the first target carries the versioned file name.
func (r *LinkResolver) resolveRedirect(ctx context.Context, app domain.Application, url string) (*domain.Resolution, error) {
	location, err := r.client.Location(ctx, url)
	if err != nil {
		return nil, err
	}
	if location == "" {
		return &domain.Resolution{}, nil
	}

	version, err := redirectVersion(app.Pattern, location)
	if err != nil {
		return nil, err
	}

	return &domain.Resolution{URL: location, Version: version}, nil
}

// redirectVersion reads the version from a fixed marker or from the first
// capture group of pattern applied to the redirect target
func redirectVersion(pattern, location string) (string, error) {
	if fixed, ok := strings.CutPrefix(pattern, domain.FixedVersionMarker); ok {
		return fixed, nil
	}

	re, err := compilePattern(pattern)
	if err != nil {
		return "", err
	}
	return firstGroup(re.FindStringSubmatch(location)), nil
}

// resolveDirectThenRedirect finds an intermediate trigger link on the
// discovery page and captures where it redirects to
func (r *LinkResolver) resolveDirectThenRedirect(ctx context.Context, app domain.Application) (*domain.Resolution, error) {
	link, ok, err := r.findDirectLink(ctx, app)
	if err != nil || !ok {
		return &domain.Resolution{}, err
	}

	res, err := r.resolveRedirect(ctx, app, app.BaseURL+link.href)
	if err != nil || !res.Found() {
		return res, err
	}

	if version := firstGroup(link.match); version != domain.VersionUnknown {
		res.Version = version
	}
	return res, nil
}
