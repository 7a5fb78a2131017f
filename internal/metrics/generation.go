package metrics

import (
	"time"

	"github.com/toldwithlove/toldwithlove/internal/observability"
)

// Story generation metrics
const (
	StoriesGeneratedTotal   = "stories_generated_total"
	GenerationDurationMs    = "generation_duration_ms"
	WebhookSubmissionsTotal = "webhook_submissions_total"
	DownloadsTotal          = "story_downloads_total"
)

// RecordGeneration records a completion attempt by content type and outcome.
func RecordGeneration(contentType string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			StoriesGeneratedTotal,
			1,
			map[string]string{
				"content_type": contentType,
				"status":       status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			GenerationDurationMs,
			duration,
			map[string]string{
				"content_type": contentType,
			},
		)
	}
}

// RecordWebhookSubmission records an inbound form submission by source.
func RecordWebhookSubmission(source string, accepted bool) {
	status := "accepted"
	if !accepted {
		status = "rejected"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			WebhookSubmissionsTotal,
			1,
			map[string]string{
				"source": source,
				"status": status,
			},
		)
	}
}

// RecordDownload records a story download by rendition format.
func RecordDownload(format string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			DownloadsTotal,
			1,
			map[string]string{
				"format": format,
			},
		)
	}
}
