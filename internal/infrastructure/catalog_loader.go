package infrastructure

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yourusername/app-fetch-go/internal/domain"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk catalog layout
type catalogFile struct {
	Apps []domain.Application `yaml:"apps"`
}

// LoadCatalog reads the catalog at path, or returns the built-in catalog
// when path is empty. Entry order in the file is preserved.
func LoadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.NewCatalog(domain.DefaultApplications())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog document. Unknown keys are rejected so
// typos in strategy fields surface at load time.
func ParseCatalog(data []byte) (*domain.Catalog, error) {
	var file catalogFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if len(file.Apps) == 0 {
		return nil, fmt.Errorf("catalog contains no applications")
	}

	catalog, err := domain.NewCatalog(file.Apps)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return catalog, nil
}
