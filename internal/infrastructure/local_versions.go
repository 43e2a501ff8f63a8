package infrastructure

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/yourusername/app-fetch-go/internal/domain"
)

// LocalFile is a previously downloaded installer found in the destination
type LocalFile struct {
	Path    string
	Version *version.Version
}

// FindLocalVersions lists the installers of app already present in dir,
// i.e. files named {name}_{version}.{ext} whose version parses. Files with
// non-comparable versions such as "Latest" are ignored. Unfinished transfers
// live under {name}_{version}.{ext}.part and never match.
func FindLocalVersions(dir string, app domain.Application) ([]LocalFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	prefix := app.Name + "_"
	suffix := "." + app.Extension

	var files []LocalFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
		v, err := version.NewVersion(raw)
		if err != nil {
			continue
		}
		files = append(files, LocalFile{Path: filepath.Join(dir, name), Version: v})
	}
	return files, nil
}

// UpToDateFile returns the path of a local installer at least as new as the
// resolved version. Versions that do not parse are never considered up to date.
func UpToDateFile(dir string, app domain.Application, resolved string) (string, bool) {
	want, err := version.NewVersion(resolved)
	if err != nil {
		return "", false
	}

	files, err := FindLocalVersions(dir, app)
	if err != nil {
		return "", false
	}

	for _, f := range files {
		if f.Version.GreaterThanOrEqual(want) {
			return f.Path, true
		}
	}
	return "", false
}
