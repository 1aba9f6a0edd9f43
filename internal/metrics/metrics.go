// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Label values used by the Recorder.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"

	SearchModeKeywords = "keywords"
	SearchModeMessage  = "message"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(status string) // status: "success" or "failure"
	IncTokenRefreshed()

	// Item metrics
	IncItemCreated()
	IncItemDeleted()
	IncItemReturned()

	// Search metrics
	IncSearch(mode string) // mode: "keywords" or "message"
	IncKeywordCacheHit()
	IncKeywordCacheMiss()
	ObserveKeywordExtraction(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
