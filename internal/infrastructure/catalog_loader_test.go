package infrastructure

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/app-fetch-go/internal/domain"
)

func TestLoadCatalog_BuiltIn(t *testing.T) {
	catalog, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, len(domain.DefaultApplications()), catalog.Len())
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `apps:
  - name: OBS Studio
    extension: exe
    discovery_url: https://api.github.com/repos/obsproject/obs-studio/releases/latest
    pattern: OBS-Studio-(.*?)-Full-Installer-x64
    strategy: github
    checked: true
  - name: AIMP
    extension: exe
    discovery_url: https://www.aimp.ru/?do=download&os=windows
    pattern: AIMP v.*?
    strategy: static
    base_url: https://aimp.ru/files/windows/builds/aimp_VERSION_w64.exe
    element: h1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)

	apps := catalog.Apps()
	require.Len(t, apps, 2)
	assert.Equal(t, "OBS Studio", apps[0].Name)
	assert.Equal(t, domain.StrategyGitHub, apps[0].Strategy)
	assert.True(t, apps[0].Checked)
	assert.Equal(t, "AIMP", apps[1].Name)
	assert.Equal(t, "h1", apps[1].HTMLElement())
	assert.Equal(t, "https://aimp.ru/files/windows/builds/aimp_VERSION_w64.exe", apps[1].BaseURL)
}

func TestParseCatalog_RejectsUnknownStrategy(t *testing.T) {
	_, err := ParseCatalog([]byte(`apps:
  - name: Tool
    extension: exe
    discovery_url: https://example.com
    pattern: tool
    strategy: scrape
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownStrategy))
}

func TestParseCatalog_RejectsUnknownFields(t *testing.T) {
	_, err := ParseCatalog([]byte(`apps:
  - name: Tool
    strategy: unchanged
    stratgy: direct
`))
	assert.Error(t, err)
}

func TestParseCatalog_Empty(t *testing.T) {
	_, err := ParseCatalog([]byte(`apps: []`))
	assert.Error(t, err)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
