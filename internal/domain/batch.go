package domain

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// BatchStatus represents the lifecycle of a batch run
type BatchStatus string

const (
	BatchRunning   BatchStatus = "running"
	BatchCompleted BatchStatus = "completed"
	BatchCancelled BatchStatus = "cancelled"
	BatchAborted   BatchStatus = "aborted" // stopped by a programming error
)

// Batch is one run over a selection of catalog entries
type Batch struct {
	ID          string      `json:"id"`
	Dir         string      `json:"dir"`
	Apps        []string    `json:"apps"`
	Status      BatchStatus `json:"status"`
	Error       string      `json:"error,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// NewBatch creates a running batch for the given applications
func NewBatch(dir string, apps []Application) *Batch {
	names := make([]string, len(apps))
	for i, app := range apps {
		names[i] = app.Name
	}
	return &Batch{
		ID:        uuid.New().String(),
		Dir:       dir,
		Apps:      names,
		Status:    BatchRunning,
		StartedAt: time.Now(),
	}
}

// Finish moves the batch into a terminal state
func (b *Batch) Finish(status BatchStatus, err error) {
	b.Status = status
	if err != nil {
		b.Error = err.Error()
	}
	now := time.Now()
	b.CompletedAt = &now
}

// IsRunning reports whether the batch is still active
func (b *Batch) IsRunning() bool {
	return b.Status == BatchRunning
}

// CancelToken is a cooperative cancellation flag. The foreground sets it,
// the download loop polls it once per chunk.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns an unset token
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel sets the flag
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether the flag is set. A nil token is never cancelled.
func (t *CancelToken) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}
