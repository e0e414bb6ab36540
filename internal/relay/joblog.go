package relay

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job statuses.
const (
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// JobRecord is one print job the relay handled, kept for the jobs endpoint.
type JobRecord struct {
	ID          string     `json:"id"`
	Printer     string     `json:"printer"`
	Status      string     `json:"status"`
	DataSize    int        `json:"data_size"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// JobLog is a thread-safe ring buffer of recent job records. Oldest entries
// are evicted once capacity is reached; nothing is persisted.
type JobLog struct {
	mu      sync.RWMutex
	entries []JobRecord
	cap     int
}

// NewJobLog creates a log holding at most capacity records.
func NewJobLog(capacity int) *JobLog {
	if capacity <= 0 {
		capacity = 50
	}
	return &JobLog{
		entries: make([]JobRecord, 0, capacity),
		cap:     capacity,
	}
}

// Record appends a finished job and returns its generated id.
func (jl *JobLog) Record(printer, status string, dataSize int, errMsg string) string {
	now := time.Now()
	job := JobRecord{
		ID:          uuid.NewString(),
		Printer:     printer,
		Status:      status,
		DataSize:    dataSize,
		CreatedAt:   now,
		CompletedAt: &now,
		Error:       errMsg,
	}

	jl.mu.Lock()
	defer jl.mu.Unlock()

	if len(jl.entries) >= jl.cap {
		copy(jl.entries, jl.entries[1:])
		jl.entries[len(jl.entries)-1] = job
	} else {
		jl.entries = append(jl.entries, job)
	}
	return job.ID
}

// Entries returns all records, newest first.
func (jl *JobLog) Entries() []JobRecord {
	jl.mu.RLock()
	defer jl.mu.RUnlock()

	result := make([]JobRecord, len(jl.entries))
	for i, j := 0, len(jl.entries)-1; j >= 0; i, j = i+1, j-1 {
		result[i] = jl.entries[j]
	}
	return result
}
