package reconciler

import (
	"sort"
	"sync"
	"time"

	"github.com/giantswarm/contacts/pkg/logging"
)

// Metrics tracks reconciliation outcomes across batches.
//
// Counters are kept per mutation kind so that a high drop rate for one kind
// (for example inserts generated against stale bounds) stands out.
type Metrics struct {
	mu sync.RWMutex

	kindMetrics map[MutationKind]*kindMetrics

	totalBatches   int64
	totalSteps     int64
	totalApplied   int64
	totalDropped   int64
	disabledAt     time.Time
	lastBatchID    string
	lastBatchAt    time.Time
	lastBatchSteps int
}

type kindMetrics struct {
	Kind          MutationKind
	Applied       int64
	Dropped       int64
	LastAppliedAt time.Time
	LastDroppedAt time.Time
}

// NewMetrics creates an empty Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		kindMetrics: make(map[MutationKind]*kindMetrics),
	}
}

func (m *Metrics) getOrCreateKindMetrics(kind MutationKind) *kindMetrics {
	if km, exists := m.kindMetrics[kind]; exists {
		return km
	}
	km := &kindMetrics{Kind: kind}
	m.kindMetrics[kind] = km
	return km
}

// Record folds the outcome of one batch into the metrics.
func (m *Metrics) Record(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.totalBatches++
	m.totalSteps += int64(len(res.Steps))
	m.lastBatchID = res.BatchID
	m.lastBatchAt = now
	m.lastBatchSteps = len(res.Steps)

	for kind, s := range res.Stats {
		km := m.getOrCreateKindMetrics(kind)
		if s.Applied > 0 {
			km.Applied += int64(s.Applied)
			km.LastAppliedAt = now
			m.totalApplied += int64(s.Applied)
		}
		if s.Dropped > 0 {
			km.Dropped += int64(s.Dropped)
			km.LastDroppedAt = now
			m.totalDropped += int64(s.Dropped)
		}
	}

	if !res.MutationEnabled && m.disabledAt.IsZero() {
		m.disabledAt = now
		logging.Warn("ReconcilerMetrics", "Mutation disabled after batch %s (%d entities left)", res.BatchID, len(res.Next))
	}

	logging.Debug("ReconcilerMetrics", "Recorded batch %s with %d steps", res.BatchID, len(res.Steps))
}

// MetricsSummary is a read-only snapshot of Metrics.
type MetricsSummary struct {
	TotalBatches   int64            `json:"total_batches" yaml:"total_batches"`
	TotalSteps     int64            `json:"total_steps" yaml:"total_steps"`
	TotalApplied   int64            `json:"total_applied" yaml:"total_applied"`
	TotalDropped   int64            `json:"total_dropped" yaml:"total_dropped"`
	DropRate       float64          `json:"drop_rate" yaml:"drop_rate"`
	LastBatchID    string           `json:"last_batch_id,omitempty" yaml:"last_batch_id,omitempty"`
	LastBatchAt    time.Time        `json:"last_batch_at,omitempty" yaml:"last_batch_at,omitempty"`
	LastBatchSteps int              `json:"last_batch_steps" yaml:"last_batch_steps"`
	DisabledAt     time.Time        `json:"disabled_at,omitempty" yaml:"disabled_at,omitempty"`
	PerKind        []KindMetricView `json:"per_kind" yaml:"per_kind"`
}

// KindMetricView is a read-only view of the counters for one mutation kind.
type KindMetricView struct {
	Kind          MutationKind `json:"kind" yaml:"kind"`
	Applied       int64        `json:"applied" yaml:"applied"`
	Dropped       int64        `json:"dropped" yaml:"dropped"`
	LastAppliedAt time.Time    `json:"last_applied_at,omitempty" yaml:"last_applied_at,omitempty"`
	LastDroppedAt time.Time    `json:"last_dropped_at,omitempty" yaml:"last_dropped_at,omitempty"`
}

// GetSummary returns a snapshot of all counters.
func (m *Metrics) GetSummary() MetricsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := MetricsSummary{
		TotalBatches:   m.totalBatches,
		TotalSteps:     m.totalSteps,
		TotalApplied:   m.totalApplied,
		TotalDropped:   m.totalDropped,
		LastBatchID:    m.lastBatchID,
		LastBatchAt:    m.lastBatchAt,
		LastBatchSteps: m.lastBatchSteps,
		DisabledAt:     m.disabledAt,
	}
	if total := m.totalApplied + m.totalDropped; total > 0 {
		summary.DropRate = float64(m.totalDropped) / float64(total)
	}

	for _, km := range m.kindMetrics {
		summary.PerKind = append(summary.PerKind, KindMetricView{
			Kind:          km.Kind,
			Applied:       km.Applied,
			Dropped:       km.Dropped,
			LastAppliedAt: km.LastAppliedAt,
			LastDroppedAt: km.LastDroppedAt,
		})
	}
	sort.Slice(summary.PerKind, func(i, j int) bool {
		return summary.PerKind[i].Kind < summary.PerKind[j].Kind
	})

	return summary
}

// GetKindMetrics returns the counters for one kind, if any were recorded.
func (m *Metrics) GetKindMetrics(kind MutationKind) (KindMetricView, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	km, ok := m.kindMetrics[kind]
	if !ok {
		return KindMetricView{}, false
	}
	return KindMetricView{
		Kind:          km.Kind,
		Applied:       km.Applied,
		Dropped:       km.Dropped,
		LastAppliedAt: km.LastAppliedAt,
		LastDroppedAt: km.LastDroppedAt,
	}, true
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.kindMetrics = make(map[MutationKind]*kindMetrics)
	m.totalBatches = 0
	m.totalSteps = 0
	m.totalApplied = 0
	m.totalDropped = 0
	m.disabledAt = time.Time{}
	m.lastBatchID = ""
	m.lastBatchAt = time.Time{}
	m.lastBatchSteps = 0
}
