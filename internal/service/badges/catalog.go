// Package badges provides the badge catalog and per-user badge evaluation.
package badges

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/LionStoreTeam/ecometrics/internal/models"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Definition is a single catalog entry: one badge with one criterion.
// The catalog is loaded once per process and never mutated.
type Definition struct {
	Code        string   `yaml:"code"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	Criteria    Criteria `yaml:"criteria"`
}

// Criteria describes when a badge is earned. Thresholds are inclusive (>=).
type Criteria struct {
	Type         string  `yaml:"type"`
	Threshold    float64 `yaml:"threshold"`
	ActivityType string  `yaml:"activity_type,omitempty"` // SPECIFIC_ACTIVITY_TYPE_COUNT only
}

type catalogFile struct {
	Badges []Definition `yaml:"badges"`
}

// ParseCatalog parses and validates a YAML badge catalog. Catalog order is
// evaluation order.
func ParseCatalog(data []byte) ([]Definition, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse badge catalog: %w", err)
	}
	if len(file.Badges) == 0 {
		return nil, fmt.Errorf("badge catalog is empty")
	}

	seen := make(map[string]bool, len(file.Badges))
	for i := range file.Badges {
		def := &file.Badges[i]
		if err := def.validate(); err != nil {
			return nil, fmt.Errorf("badge catalog entry %q: %w", def.Code, err)
		}
		if seen[def.Code] {
			return nil, fmt.Errorf("duplicate badge code %q", def.Code)
		}
		seen[def.Code] = true
	}
	return file.Badges, nil
}

// DefaultCatalog returns the embedded process-wide catalog.
func DefaultCatalog() ([]Definition, error) {
	return ParseCatalog(defaultCatalogYAML)
}

func (d *Definition) validate() error {
	if d.Code == "" {
		return fmt.Errorf("code is required")
	}
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch d.Criteria.Type {
	case models.CriteriaActivityCount, models.CriteriaUserLevel, models.CriteriaTotalPoints:
		if d.Criteria.ActivityType != "" {
			return fmt.Errorf("activity_type only applies to %s", models.CriteriaSpecificTypeCount)
		}
	case models.CriteriaSpecificTypeCount:
		if !models.IsValidActivityType(d.Criteria.ActivityType) {
			return fmt.Errorf("unknown activity_type %q", d.Criteria.ActivityType)
		}
	default:
		return fmt.Errorf("unknown criteria type %q", d.Criteria.Type)
	}
	if d.Criteria.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive")
	}
	return nil
}

// Model converts a definition to its persisted badge row.
func (d *Definition) Model() *models.Badge {
	return &models.Badge{
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
	}
}
