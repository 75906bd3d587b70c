// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the EcoMetrics backend.
var (
	// Counters.
	ActivitiesRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecometrics_activities_recorded_total",
			Help: "Total number of activities recorded",
		},
		[]string{"type"},
	)

	PointsAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecometrics_points_awarded_total",
			Help: "Total points awarded to users at activity creation",
		},
		[]string{"type"},
	)

	BadgesGrantedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecometrics_badges_granted_total",
			Help: "Total number of badges granted",
		},
		[]string{"badge"},
	)

	AdminCorrectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecometrics_admin_corrections_total",
			Help: "Total number of admin activity corrections",
		},
		[]string{"operation"}, // 'update' or 'delete'
	)

	RewardRedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecometrics_reward_redemptions_total",
			Help: "Total number of reward redemptions",
		},
		[]string{"status"}, // 'ok', 'insufficient_points', 'out_of_stock'
	)

	EvidenceUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecometrics_evidence_uploads_total",
			Help: "Total number of evidence file uploads",
		},
		[]string{"status"},
	)

	// Histograms.
	ActivityPoints = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecometrics_activity_points",
			Help:    "Point value distribution of recorded activities",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"type"},
	)
)

// RecordActivity records a recorded activity and its point value.
func RecordActivity(activityType string, pts int) {
	ActivitiesRecordedTotal.WithLabelValues(activityType).Inc()
	PointsAwardedTotal.WithLabelValues(activityType).Add(float64(pts))
	ActivityPoints.WithLabelValues(activityType).Observe(float64(pts))
}

// RecordBadgeGranted records a badge grant.
func RecordBadgeGranted(badgeCode string) {
	BadgesGrantedTotal.WithLabelValues(badgeCode).Inc()
}

// RecordAdminCorrection records an admin edit or delete.
func RecordAdminCorrection(operation string) {
	AdminCorrectionsTotal.WithLabelValues(operation).Inc()
}

// RecordRedemption records a reward redemption attempt outcome.
func RecordRedemption(status string) {
	RewardRedemptionsTotal.WithLabelValues(status).Inc()
}

// RecordEvidenceUpload records an evidence upload outcome.
func RecordEvidenceUpload(status string) {
	EvidenceUploadsTotal.WithLabelValues(status).Inc()
}
