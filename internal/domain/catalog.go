package domain

import "fmt"

// Catalog is the ordered set of applications the resolver knows about.
// Order is significant: batches and listings follow it.
type Catalog struct {
	apps []Application
}

// NewCatalog validates the entries and builds a catalog preserving their order
func NewCatalog(apps []Application) (*Catalog, error) {
	seen := make(map[string]bool, len(apps))
	for _, app := range apps {
		if err := app.Validate(); err != nil {
			return nil, err
		}
		if seen[app.Name] {
			return nil, fmt.Errorf("duplicate application name: %s", app.Name)
		}
		seen[app.Name] = true
	}

	copied := make([]Application, len(apps))
	copy(copied, apps)
	return &Catalog{apps: copied}, nil
}

// Apps returns a copy of all entries in catalog order
func (c *Catalog) Apps() []Application {
	out := make([]Application, len(c.apps))
	copy(out, c.apps)
	return out
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.apps)
}

// Find looks up an application by name
func (c *Catalog) Find(name string) (Application, bool) {
	for _, app := range c.apps {
		if app.Name == name {
			return app, true
		}
	}
	return Application{}, false
}

// Select returns the named applications in catalog order, regardless of
// the order the names were given in. Unknown names are an error.
func (c *Catalog) Select(names []string) ([]Application, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := c.Find(name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrAppNotFound, name)
		}
		wanted[name] = true
	}

	selected := make([]Application, 0, len(wanted))
	for _, app := range c.apps {
		if wanted[app.Name] {
			selected = append(selected, app)
		}
	}
	return selected, nil
}

// Checked returns the entries selected by default
func (c *Catalog) Checked() []Application {
	var selected []Application
	for _, app := range c.apps {
		if app.Checked {
			selected = append(selected, app)
		}
	}
	return selected
}

// DefaultApplications returns the built-in catalog
func DefaultApplications() []Application {
	return []Application{
		{
			Name:         "7zip",
			Extension:    "msi",
			DiscoveryURL: "https://www.7-zip.org/download.html",
			Pattern:      `.*?(\d{1,})-x64`,
			Strategy:     StrategyDirect,
			BaseURL:      "https://www.7-zip.org/",
		},
		{
			Name:         "WinRAR",
			Extension:    "exe",
			DiscoveryURL: "https://www.rarlab.com/download.htm",
			Pattern:      `.*?winrar.*?64-(.*?)`,
			Strategy:     StrategyDirect,
			BaseURL:      "https://www.rarlab.com/",
		},
		{
			Name:         "ImageGlass",
			Extension:    "msi",
			DiscoveryURL: "https://api.github.com/repos/d2phap/ImageGlass/releases/latest",
			Pattern:      `ImageGlass_Kobe.*?64`,
			Strategy:     StrategyGitHub,
		},
		{
			Name:         "OBS Studio",
			Extension:    "exe",
			DiscoveryURL: "https://api.github.com/repos/obsproject/obs-studio/releases/latest",
			Pattern:      `OBS-Studio-(.*?)-Full-Installer-x64`,
			Strategy:     StrategyGitHub,
		},
		{
			Name:         "SumatraPDF",
			Extension:    "exe",
			DiscoveryURL: "https://www.sumatrapdfreader.org/download-free-pdf-viewer",
			Pattern:      `.*?SumatraPDF-(.*?)-64-install`,
			Strategy:     StrategyDirect,
			BaseURL:      "https://www.sumatrapdfreader.org/",
		},
		{
			Name:         "AIMP Audio Player",
			Extension:    "exe",
			DiscoveryURL: "https://www.aimp.ru/?do=download&os=windows",
			Pattern:      `AIMP v.*?`,
			Strategy:     StrategyStatic,
			BaseURL:      "https://aimp.ru/files/windows/builds/aimp_VERSION_w64.exe",
			Element:      "h1",
		},
		{
			Name:         "Chrome",
			Extension:    "msi",
			DiscoveryURL: "https://chromeenterprise.google/browser/download/thank-you/?platform=WIN64_MSI&channel=stable&usagestats=0",
			Pattern:      FixedVersionMarker + VersionLatest,
			Strategy:     StrategyRedirect,
		},
		{
			Name:         "FireFox",
			Extension:    "exe",
			DiscoveryURL: "https://download.mozilla.org/?product=firefox-latest&os=win64&lang=en-US",
			Pattern:      `/([\d.]+[a-z]*\d*)/`,
			Strategy:     StrategyRedirect,
		},
		{
			Name:         "Github Desktop",
			Extension:    "exe",
			DiscoveryURL: "https://central.github.com/deployments/desktop/desktop/latest/win32?format=exe",
			Pattern:      `/([\d.a-z-]+)/(GitHubDesktopSetup-x64)`,
			Strategy:     StrategyRedirect,
		},
		{
			Name:         "VSCode",
			Extension:    "exe",
			DiscoveryURL: "https://code.visualstudio.com/sha/download?build=stable&os=win32-x64",
			Pattern:      `-([\d\.]+)`,
			Strategy:     StrategyRedirect,
		},
		{
			Name:         "Discord",
			Extension:    "exe",
			DiscoveryURL: "https://discord.com/api/downloads/distributions/app/installers/latest?channel=stable&platform=win&arch=x86",
			Pattern:      `/(\d+(\.\d+)+)/`,
			Strategy:     StrategyRedirect,
		},
		{
			Name:         "Notepad++",
			Extension:    "exe",
			DiscoveryURL: "https://api.github.com/repos/notepad-plus-plus/notepad-plus-plus/releases/latest",
			Pattern:      `npp\.(\d+\.)+\d+\.Installer\.x64`,
			Strategy:     StrategyGitHub,
		},
		{
			Name:         "SublimeText",
			Extension:    "exe",
			DiscoveryURL: "https://www.sublimetext.com/download",
			Pattern:      `Build .*?`,
			Strategy:     StrategyStatic,
			BaseURL:      "https://download.sublimetext.com/sublime_text_build_VERSION_x64_setup.exe",
			Element:      "h3",
		},
		{
			Name:         "QBitTorrent",
			Extension:    "exe",
			DiscoveryURL: "https://www.qbittorrent.org/download",
			Pattern:      `Latest: .*?`,
			Strategy:     StrategyStatic,
			BaseURL:      "https://altushost-swe.dl.sourceforge.net/project/qbittorrent/qbittorrent-win32/qbittorrent-VERSION/qbittorrent_VERSION_x64_setup.exe",
		},
		{
			Name:         "VLC Player",
			Extension:    "msi",
			DiscoveryURL: "https://www.videolan.org/vlc/download-windows.html",
			Pattern:      `//get.videolan.org/vlc/(\d+\.\d+\.\d+)/win64/vlc-(\d+\.\d+\.\d+)-win64`,
			Strategy:     StrategyDirectThenRedirect,
			BaseURL:      "https:",
		},
		{
			Name:         "Brave Browser",
			Extension:    "exe",
			DiscoveryURL: "https://api.github.com/repos/brave/brave-browser/releases/latest",
			Pattern:      `BraveBrowserStandaloneSetup`,
			Strategy:     StrategyGitHub,
		},
		{
			Name:         "Anydesk",
			Extension:    "exe",
			DiscoveryURL: "https://anydesk.com/en/downloads/windows",
			Pattern:      `v([\d.]+)`,
			Strategy:     StrategyUnchangedWithVersion,
			BaseURL:      "https://download.anydesk.com/AnyDesk.exe",
			Element:      "div",
		},
		{
			Name:         "Telegram",
			Extension:    "exe",
			DiscoveryURL: "https://api.github.com/repos/telegramdesktop/tdesktop/releases/latest",
			Pattern:      `/tsetup-x64\.(.*?)`,
			Strategy:     StrategyGitHub,
		},
		{
			Name:         "Zoom",
			Extension:    "exe",
			DiscoveryURL: "https://zoom.us/client/latest/ZoomInstaller.exe",
			Pattern:      `/([\d.]+[a-z]*\d*)/`,
			Strategy:     StrategyRedirect,
		},
	}
}
