package dto

import "time"

// SystemMetrics is an aggregated runtime snapshot for the status endpoint.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	DonationsRecorded        uint64    `json:"donations_recorded"`
	RequestsFulfilled        uint64    `json:"requests_fulfilled"`
	RequestsRejected         uint64    `json:"requests_rejected"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
