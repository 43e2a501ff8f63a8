package infrastructure

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/yourusername/app-fetch-go/internal/domain"
)

// directLink is the anchor found on a discovery page
type directLink struct {
	href  string
	match []string
}

// findDirectLink scans the discovery page for the first element whose href
// matches the link pattern. ok is false on a miss.
func (r *LinkResolver) findDirectLink(ctx context.Context, app domain.Application) (link directLink, ok bool, err error) {
	re, err := compilePattern(app.LinkPattern())
	if err != nil {
		return directLink{}, false, err
	}

	doc, err := r.fetchDocument(ctx, app)
	if err != nil || doc == nil {
		return directLink{}, false, err
	}

	doc.Find(app.HTMLElement()).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, exists := s.Attr("href")
		if !exists {
			return true
		}
		if match := re.FindStringSubmatch(href); match != nil {
			link, ok = directLink{href: href, match: match}, true
			return false
		}
		return true
	})

	return link, ok, nil
}

// resolveDirect handles links published as anchors on the discovery page
func (r *LinkResolver) resolveDirect(ctx context.Context, app domain.Application) (*domain.Resolution, error) {
	link, ok, err := r.findDirectLink(ctx, app)
	if err != nil || !ok {
		return &domain.Resolution{}, err
	}

	return &domain.Resolution{
		URL:     app.BaseURL + link.href,
		Version: firstGroup(link.match),
	}, nil
}
