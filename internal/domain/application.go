package domain

import (
	"fmt"
	"strings"
)

// Strategy identifies how the latest release of an application is discovered
type Strategy string

const (
	StrategyDirect               Strategy = "direct"                // link is an anchor on the discovery page
	StrategyStatic               Strategy = "static"                // version on the page, link built from a template
	StrategyGitHub               Strategy = "github"                // hosted release JSON API
	StrategyUnchanged            Strategy = "unchanged"             // fixed link, no version
	StrategyRedirect             Strategy = "redirect"              // first redirect hop is the link
	StrategyUnchangedWithVersion Strategy = "unchanged_but_version" // fixed link, version scraped elsewhere
	StrategyDirectThenRedirect   Strategy = "direct_then_redirect"  // anchor leads to a redirecting trigger URL
)

const (
	// VersionUnknown is reported when a link was found but no version could be extracted
	VersionUnknown = "Unknown"

	// VersionLatest is reported for links that always point at the newest build
	VersionLatest = "Latest"

	// VersionPlaceholder is replaced inside BaseURL by the static strategy
	VersionPlaceholder = "VERSION"

	// FixedVersionMarker prefixes redirect patterns that carry a literal version
	FixedVersionMarker = "@FIXED "

	// DefaultElement is the element searched when none is configured
	DefaultElement = "a"
)

// Application describes one catalog entry. It is immutable once loaded.
type Application struct {
	Name         string   `json:"name" yaml:"name"`
	Extension    string   `json:"extension" yaml:"extension"`
	DiscoveryURL string   `json:"discovery_url" yaml:"discovery_url"`
	Pattern      string   `json:"pattern" yaml:"pattern"`
	Strategy     Strategy `json:"strategy" yaml:"strategy"`
	BaseURL      string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Element      string   `json:"element,omitempty" yaml:"element,omitempty"`
	Checked      bool     `json:"checked" yaml:"checked"`
}

// HTMLElement returns the element name used to scope page searches
func (a Application) HTMLElement() string {
	if a.Element == "" {
		return DefaultElement
	}
	return a.Element
}

// LinkPattern returns the expression matched against links and asset URLs.
// The dot is left unescaped, so it matches any character before the extension.
func (a Application) LinkPattern() string {
	return a.Pattern + "." + a.Extension
}

// FileName returns the destination file name for a resolved version
func (a Application) FileName(version string) string {
	return fmt.Sprintf("%s_%s.%s", a.Name, version, a.Extension)
}

// Label renders the application with its version for progress output
func (a Application) Label(version string) string {
	prefix := "v"
	if strings.Contains(version, "v") {
		prefix = ""
	}
	return fmt.Sprintf("%s %s%s.%s", a.Name, prefix, version, a.Extension)
}

// Validate checks the fields every strategy relies on
func (a Application) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}
	if !ValidateStrategy(a.Strategy) {
		return fmt.Errorf("%s: %w: %q", a.Name, ErrUnknownStrategy, a.Strategy)
	}
	return nil
}

// ValidateStrategy checks if a strategy tag is known
func ValidateStrategy(s Strategy) bool {
	switch s {
	case StrategyDirect, StrategyStatic, StrategyGitHub, StrategyUnchanged,
		StrategyRedirect, StrategyUnchangedWithVersion, StrategyDirectThenRedirect:
		return true
	default:
		return false
	}
}

// Resolution is the outcome of a single resolve attempt.
// An empty URL means the link could not be found.
type Resolution struct {
	URL     string       `json:"url"`
	Version string       `json:"version"`
	App     *Application `json:"-"`
}

// Found reports whether a download link was resolved
func (r *Resolution) Found() bool {
	return r != nil && r.URL != ""
}
