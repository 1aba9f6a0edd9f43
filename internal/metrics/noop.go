package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserRegistered()                     {}
func (n *NoopRecorder) IncLogin(string)                        {}
func (n *NoopRecorder) IncTokenRefreshed()                     {}
func (n *NoopRecorder) IncItemCreated()                        {}
func (n *NoopRecorder) IncItemDeleted()                        {}
func (n *NoopRecorder) IncItemReturned()                       {}
func (n *NoopRecorder) IncSearch(string)                       {}
func (n *NoopRecorder) IncKeywordCacheHit()                    {}
func (n *NoopRecorder) IncKeywordCacheMiss()                   {}
func (n *NoopRecorder) ObserveKeywordExtraction(time.Duration) {}
