package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered    uint64
	LoginsSucceeded    uint64
	LoginsFailed       uint64
	TokensRefreshed    uint64
	ItemsCreated       uint64
	ItemsDeleted       uint64
	ItemsReturned      uint64
	SearchesByKeywords uint64
	SearchesByMessage  uint64
	KeywordCacheHits   uint64
	KeywordCacheMisses uint64
	ExtractionCount    uint64
	ExtractionTotalNs  int64
}

// InMemoryRecorder stores counters in memory. It backs the /metrics endpoint.
type InMemoryRecorder struct {
	usersRegistered    atomic.Uint64
	loginsSucceeded    atomic.Uint64
	loginsFailed       atomic.Uint64
	tokensRefreshed    atomic.Uint64
	itemsCreated       atomic.Uint64
	itemsDeleted       atomic.Uint64
	itemsReturned      atomic.Uint64
	searchesByKeywords atomic.Uint64
	searchesByMessage  atomic.Uint64
	keywordCacheHits   atomic.Uint64
	keywordCacheMisses atomic.Uint64
	extractionCount    atomic.Uint64
	extractionTotalNs  atomic.Int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:    m.usersRegistered.Load(),
		LoginsSucceeded:    m.loginsSucceeded.Load(),
		LoginsFailed:       m.loginsFailed.Load(),
		TokensRefreshed:    m.tokensRefreshed.Load(),
		ItemsCreated:       m.itemsCreated.Load(),
		ItemsDeleted:       m.itemsDeleted.Load(),
		ItemsReturned:      m.itemsReturned.Load(),
		SearchesByKeywords: m.searchesByKeywords.Load(),
		SearchesByMessage:  m.searchesByMessage.Load(),
		KeywordCacheHits:   m.keywordCacheHits.Load(),
		KeywordCacheMisses: m.keywordCacheMisses.Load(),
		ExtractionCount:    m.extractionCount.Load(),
		ExtractionTotalNs:  m.extractionTotalNs.Load(),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() { m.usersRegistered.Add(1) }

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == StatusSuccess {
		m.loginsSucceeded.Add(1)
		return
	}
	m.loginsFailed.Add(1)
}

// IncTokenRefreshed increments the refresh counter.
func (m *InMemoryRecorder) IncTokenRefreshed() { m.tokensRefreshed.Add(1) }

// IncItemCreated increments item created counter.
func (m *InMemoryRecorder) IncItemCreated() { m.itemsCreated.Add(1) }

// IncItemDeleted increments item deleted counter.
func (m *InMemoryRecorder) IncItemDeleted() { m.itemsDeleted.Add(1) }

// IncItemReturned increments item returned counter.
func (m *InMemoryRecorder) IncItemReturned() { m.itemsReturned.Add(1) }

// IncSearch counts a search by resolution mode.
func (m *InMemoryRecorder) IncSearch(mode string) {
	if mode == SearchModeMessage {
		m.searchesByMessage.Add(1)
		return
	}
	m.searchesByKeywords.Add(1)
}

// IncKeywordCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncKeywordCacheHit() { m.keywordCacheHits.Add(1) }

// IncKeywordCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncKeywordCacheMiss() { m.keywordCacheMisses.Add(1) }

// ObserveKeywordExtraction records the latency of one extraction call.
func (m *InMemoryRecorder) ObserveKeywordExtraction(duration time.Duration) {
	m.extractionCount.Add(1)
	m.extractionTotalNs.Add(duration.Nanoseconds())
}
