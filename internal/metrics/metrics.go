package metrics

import "sync/atomic"

// Metrics captures shared operational stats for upload processing.
type Metrics struct {
	sectionsProcessed int64
	sectionsFailed    int64
	filesProcessed    int64
	filesFailed       int64
}

// Snapshot provides a consistent view of the current metrics.
type Snapshot struct {
	SectionsProcessed int64 `json:"sections_processed"`
	SectionsFailed    int64 `json:"sections_failed"`
	FilesProcessed    int64 `json:"files_processed"`
	FilesFailed       int64 `json:"files_failed"`
}

// New creates a zeroed Metrics instance.
func New() *Metrics {
	return &Metrics{}
}

// RecordSection increments section counters based on outcome.
func (m *Metrics) RecordSection(err error) {
	atomic.AddInt64(&m.sectionsProcessed, 1)
	if err != nil {
		atomic.AddInt64(&m.sectionsFailed, 1)
	}
}

// RecordFile increments per-file counters based on outcome.
func (m *Metrics) RecordFile(err error) {
	atomic.AddInt64(&m.filesProcessed, 1)
	if err != nil {
		atomic.AddInt64(&m.filesFailed, 1)
	}
}

// Snapshot returns a read-only view of metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		SectionsProcessed: atomic.LoadInt64(&m.sectionsProcessed),
		SectionsFailed:    atomic.LoadInt64(&m.sectionsFailed),
		FilesProcessed:    atomic.LoadInt64(&m.filesProcessed),
		FilesFailed:       atomic.LoadInt64(&m.filesFailed),
	}
}
