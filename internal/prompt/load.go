package prompt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOverrides reads a YAML file mapping kind names to templates and merges
// it over the default catalog. Only the kinds named in the file change;
// unknown kinds in the file are rejected so typos don't silently add dead
// templates. Omitted fields keep their built-in values.
func LoadOverrides(path string) (Catalog, error) {
	catalog := DefaultCatalog()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var overrides map[string]Template
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}

	for name, override := range overrides {
		kind := Kind(name)
		base, ok := catalog[kind]
		if !ok {
			return nil, fmt.Errorf("template file names unknown kind %q", name)
		}

		if override.System != "" {
			base.System = override.System
		}
		if override.Text != "" {
			base.Text = override.Text
		}
		if override.Temperature != 0 {
			base.Temperature = override.Temperature
		}
		if override.MaxTokens != 0 {
			base.MaxTokens = override.MaxTokens
		}
		catalog[kind] = base
	}

	return catalog, nil
}
