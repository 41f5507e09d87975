package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads a companions catalog file.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the catalog. Environment references such as
// ${CATALOG_VOICE} are expanded before parsing.
func (l *Loader) Load() (Catalog, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	return c, nil
}
