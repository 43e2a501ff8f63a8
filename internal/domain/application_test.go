package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplication_HTMLElement(t *testing.T) {
	app := Application{Name: "a"}
	assert.Equal(t, "a", app.HTMLElement())

	app.Element = "h1"
	assert.Equal(t, "h1", app.HTMLElement())
}

func TestApplication_LinkPattern(t *testing.T) {
	app := Application{Pattern: "Setup-x64", Extension: "exe"}
	assert.Equal(t, "Setup-x64.exe", app.LinkPattern())
}

func TestApplication_FileName(t *testing.T) {
	app := Application{Name: "OBS Studio", Extension: "exe"}
	assert.Equal(t, "OBS Studio_30.1.exe", app.FileName("30.1"))
}

func TestApplication_Label(t *testing.T) {
	app := Application{Name: "Telegram", Extension: "exe"}

	assert.Equal(t, "Telegram v4.14.exe", app.Label("4.14"))
	assert.Equal(t, "Telegram v4.14.exe", app.Label("v4.14"))
}

func TestApplication_Validate(t *testing.T) {
	require.NoError(t, testApp.Validate())

	err := Application{Strategy: StrategyDirect}.Validate()
	require.Error(t, err)

	err = Application{Name: "x", Strategy: "scrape"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestValidateStrategy(t *testing.T) {
	for _, s := range []Strategy{
		StrategyDirect, StrategyStatic, StrategyGitHub, StrategyUnchanged,
		StrategyRedirect, StrategyUnchangedWithVersion, StrategyDirectThenRedirect,
	} {
		assert.True(t, ValidateStrategy(s), s)
	}
	assert.False(t, ValidateStrategy(""))
	assert.False(t, ValidateStrategy("invalid"))
}

func TestResolution_Found(t *testing.T) {
	var nilRes *Resolution
	assert.False(t, nilRes.Found())
	assert.False(t, (&Resolution{}).Found())
	assert.True(t, (&Resolution{URL: "u"}).Found())
}

func TestCatalog_SelectKeepsCatalogOrder(t *testing.T) {
	catalog, err := NewCatalog([]Application{
		{Name: "first", Strategy: StrategyUnchanged},
		{Name: "second", Strategy: StrategyUnchanged, Checked: true},
		{Name: "third", Strategy: StrategyUnchanged},
	})
	require.NoError(t, err)

	selected, err := catalog.Select([]string{"third", "first"})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "first", selected[0].Name)
	assert.Equal(t, "third", selected[1].Name)

	checked := catalog.Checked()
	require.Len(t, checked, 1)
	assert.Equal(t, "second", checked[0].Name)
}

func TestCatalog_SelectUnknown(t *testing.T) {
	catalog, err := NewCatalog([]Application{{Name: "only", Strategy: StrategyUnchanged}})
	require.NoError(t, err)

	_, err = catalog.Select([]string{"missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAppNotFound))
}

func TestNewCatalog_RejectsDuplicatesAndUnknownStrategies(t *testing.T) {
	_, err := NewCatalog([]Application{
		{Name: "dup", Strategy: StrategyUnchanged},
		{Name: "dup", Strategy: StrategyUnchanged},
	})
	require.Error(t, err)

	_, err = NewCatalog([]Application{{Name: "bad", Strategy: "nope"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestDefaultApplications(t *testing.T) {
	catalog, err := NewCatalog(DefaultApplications())
	require.NoError(t, err)
	assert.Equal(t, 19, catalog.Len())

	vlc, ok := catalog.Find("VLC Player")
	require.True(t, ok)
	assert.Equal(t, StrategyDirectThenRedirect, vlc.Strategy)

	chrome, ok := catalog.Find("Chrome")
	require.True(t, ok)
	assert.Equal(t, "@FIXED Latest", chrome.Pattern)
}

func TestAppError(t *testing.T) {
	err := NewAppError("Zoom", ErrTransport)
	assert.Equal(t, "Zoom: transport failure", err.Error())
	assert.True(t, errors.Is(err, ErrTransport))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Zoom", appErr.App)

	assert.Nil(t, NewAppError("Zoom", nil))
}
