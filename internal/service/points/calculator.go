// Package points computes activity point values and user levels.
package points

import (
	"math"

	"github.com/LionStoreTeam/ecometrics/internal/models"
)

// PointsPerLevel is the fixed level bucket width.
const PointsPerLevel = 500

// ratePerUnit maps activity categories to points awarded per unit of quantity.
var ratePerUnit = map[string]float64{
	models.ActivityRecycling:    5,
	models.ActivityTreePlanting: 50,
	models.ActivityWaterSaving:  2,
	models.ActivityEnergySaving: 3,
	models.ActivityComposting:   4,
	models.ActivityEducation:    10,
	models.ActivityOther:        1,
}

// Rate returns the points-per-unit rate for an activity type.
// Unknown types fall back to the OTHER rate.
func Rate(activityType string) float64 {
	if rate, ok := ratePerUnit[activityType]; ok {
		return rate
	}
	return ratePerUnit[models.ActivityOther]
}

// Compute returns the point value of an activity: floor(quantity * rate).
func Compute(activityType string, quantity float64) int {
	return int(math.Floor(quantity * Rate(activityType)))
}

// Level returns the level for a point total: floor(points/500) + 1.
// Negative totals are clamped to zero first.
func Level(totalPoints int) int {
	if totalPoints < 0 {
		totalPoints = 0
	}
	return totalPoints/PointsPerLevel + 1
}

// ClampPoints clamps a point total at zero. Corrections may push a raw
// total negative; stored totals never are.
func ClampPoints(totalPoints int) int {
	if totalPoints < 0 {
		return 0
	}
	return totalPoints
}
