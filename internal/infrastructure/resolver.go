package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yourusername/app-fetch-go/internal/domain"
	"go.uber.org/zap"
)

// versionPattern extracts a generic dotted version from element text
var versionPattern = regexp.MustCompile(`([\d\.]+)`)

// LinkResolver implements domain.Resolver for every discovery strategy
type LinkResolver struct {
	client *HTTPClient
	logger *zap.Logger
}

// NewLinkResolver creates a new link resolver
func NewLinkResolver(client *HTTPClient, logger *zap.Logger) *LinkResolver {
	return &LinkResolver{
		client: client,
		logger: logger,
	}
}

// Resolve finds the current download link and version of an application.
// A miss is not an error: the returned Resolution simply has an empty URL.
func (r *LinkResolver) Resolve(ctx context.Context, app domain.Application) (*domain.Resolution, error) {
	var (
		res *domain.Resolution
		err error
	)

	switch app.Strategy {
	case domain.StrategyDirect:
		res, err = r.resolveDirect(ctx, app)
	case domain.StrategyStatic:
		res, err = r.resolveStatic(ctx, app)
	case domain.StrategyGitHub:
		res, err = r.resolveGitHub(ctx, app)
	case domain.StrategyUnchanged:
		res = &domain.Resolution{URL: app.DiscoveryURL, Version: domain.VersionLatest}
	case domain.StrategyRedirect:
		res, err = r.resolveRedirect(ctx, app, app.DiscoveryURL)
	case domain.StrategyUnchangedWithVersion:
		res, err = r.resolveUnchangedWithVersion(ctx, app)
	case domain.StrategyDirectThenRedirect:
		res, err = r.resolveDirectThenRedirect(ctx, app)
	default:
		return nil, fmt.Errorf("%s: %w: %q", app.Name, domain.ErrUnknownStrategy, app.Strategy)
	}

	if err != nil {
		return nil, domain.NewAppError(app.Name, err)
	}

	if !res.Found() {
		r.logger.Warn("Download link not found",
			zap.String("app", app.Name),
			zap.String("extension", app.Extension),
			zap.String("strategy", string(app.Strategy)))
		res = &domain.Resolution{}
	}

	res.App = &app
	return res, nil
}

// fetchDocument loads a discovery page as markup. A body that cannot be
// parsed yields a nil document and no error.
func (r *LinkResolver) fetchDocument(ctx context.Context, app domain.Application) (*goquery.Document, error) {
	body, err := r.client.GetBody(ctx, app.DiscoveryURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		r.logger.Warn("Failed to parse discovery page",
			zap.String("app", app.Name),
			zap.String("url", app.DiscoveryURL),
			zap.Error(err))
		return nil, nil
	}
	return doc, nil
}

// findElementByText returns the own text of the first element whose text matches re
func findElementByText(doc *goquery.Document, element string, re *regexp.Regexp) (string, bool) {
	var (
		text  string
		found bool
	)
	doc.Find(element).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := ownText(s)
		if re.MatchString(t) {
			text, found = t, true
			return false
		}
		return true
	})
	return text, found
}

// ownText concatenates the direct text children of a selection, ignoring
// text nested inside child elements.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
		}
	})
	return b.String()
}

// firstGroup returns the first capture group of a match, or "Unknown" when
// the pattern has no group or the group captured nothing.
func firstGroup(match []string) string {
	if len(match) < 2 || match[1] == "" {
		return domain.VersionUnknown
	}
	return match[1]
}

func compilePattern(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return re, nil
}
