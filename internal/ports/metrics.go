package ports

import "time"

// MetricsCollector records service metrics
type MetricsCollector interface {
	IncEntriesAccepted()
	IncEntriesStored()
	IncEntriesFailed()
	IncEntriesDropped()

	SetQueueDepth(depth int)
	RecordWorkerPoolStatus(idle, busy, stopped int)
	ObserveStoreDuration(backend string, duration time.Duration)

	IncStreamClients()
	DecStreamClients()
}

// NopMetrics is a MetricsCollector that records nothing
type NopMetrics struct{}

func (NopMetrics) IncEntriesAccepted()                        {}
func (NopMetrics) IncEntriesStored()                          {}
func (NopMetrics) IncEntriesFailed()                          {}
func (NopMetrics) IncEntriesDropped()                         {}
func (NopMetrics) SetQueueDepth(int)                          {}
func (NopMetrics) RecordWorkerPoolStatus(int, int, int)       {}
func (NopMetrics) ObserveStoreDuration(string, time.Duration) {}
func (NopMetrics) IncStreamClients()                          {}
func (NopMetrics) DecStreamClients()                          {}
