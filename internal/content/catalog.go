package content

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type FallbackImageSpec struct {
	Name    string `yaml:"name"`
	Caption string `yaml:"caption"`
	Top     string `yaml:"top"`
	Bottom  string `yaml:"bottom"`
	Accent  string `yaml:"accent"`
}

// Catalog is the local content used when the provider cannot deliver, plus
// the building blocks for image variations.
type Catalog struct {
	Fallback struct {
		Tip   string `yaml:"tip"`
		Story struct {
			Title   string `yaml:"title"`
			Content string `yaml:"content"`
		} `yaml:"story"`
		Images []FallbackImageSpec `yaml:"images"`
	} `yaml:"fallback"`
	Variation struct {
		Styles   []string `yaml:"styles"`
		Palettes []string `yaml:"palettes"`
		Scenes   []string `yaml:"scenes"`
	} `yaml:"variation"`
	Stages map[string]string `yaml:"stages"`
}

func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	var missing []string
	if strings.TrimSpace(c.Fallback.Tip) == "" {
		missing = append(missing, "fallback.tip")
	}
	if strings.TrimSpace(c.Fallback.Story.Title) == "" || strings.TrimSpace(c.Fallback.Story.Content) == "" {
		missing = append(missing, "fallback.story")
	}
	if len(c.Fallback.Images) == 0 {
		missing = append(missing, "fallback.images")
	}
	if len(c.Variation.Styles) == 0 || len(c.Variation.Palettes) == 0 || len(c.Variation.Scenes) == 0 {
		missing = append(missing, "variation")
	}
	if len(missing) > 0 {
		return fmt.Errorf("catalog missing %s", strings.Join(missing, ", "))
	}
	return nil
}
