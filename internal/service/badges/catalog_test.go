package badges

import (
	"testing"

	"github.com/LionStoreTeam/ecometrics/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() failed: %v", err)
	}
	if len(catalog) == 0 {
		t.Fatal("Expected non-empty default catalog")
	}

	if catalog[0].Code != "FIRST_ACTIVITY" {
		t.Errorf("Expected FIRST_ACTIVITY first in catalog order, got %q", catalog[0].Code)
	}

	for _, def := range catalog {
		if def.Criteria.Threshold <= 0 {
			t.Errorf("Badge %s has non-positive threshold", def.Code)
		}
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "badges: []"},
		{"unknown criteria type", `
badges:
  - code: X
    name: X
    criteria:
      type: SOMETHING_ELSE
      threshold: 1
`},
		{"specific type without activity_type", `
badges:
  - code: X
    name: X
    criteria:
      type: SPECIFIC_ACTIVITY_TYPE_COUNT
      threshold: 1
`},
		{"activity_type on count criteria", `
badges:
  - code: X
    name: X
    criteria:
      type: ACTIVITY_COUNT
      threshold: 1
      activity_type: RECYCLING
`},
		{"zero threshold", `
badges:
  - code: X
    name: X
    criteria:
      type: ACTIVITY_COUNT
      threshold: 0
`},
		{"duplicate codes", `
badges:
  - code: X
    name: X
    criteria:
      type: ACTIVITY_COUNT
      threshold: 1
  - code: X
    name: X again
    criteria:
      type: ACTIVITY_COUNT
      threshold: 2
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.yaml)); err == nil {
				t.Error("Expected parse error")
			}
		})
	}
}

func TestDefinition_Model(t *testing.T) {
	def := Definition{
		Code:        "RECYCLER_BRONZE",
		Name:        "Bronze Recycler",
		Description: "Recycle 10 kg",
		Icon:        "♻️",
		Criteria: Criteria{
			Type:         models.CriteriaSpecificTypeCount,
			Threshold:    10,
			ActivityType: models.ActivityRecycling,
		},
	}

	m := def.Model()
	if m.Code != def.Code || m.Name != def.Name || m.Icon != def.Icon {
		t.Error("Model() lost fields")
	}
}
