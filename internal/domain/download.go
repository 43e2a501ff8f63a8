package domain

import (
	"time"

	"github.com/google/uuid"
)

// DownloadStatus represents the current status of an application download
type DownloadStatus string

const (
	StatusQueued      DownloadStatus = "queued"
	StatusResolving   DownloadStatus = "resolving"
	StatusDownloading DownloadStatus = "downloading"
	StatusCompleted   DownloadStatus = "completed"
	StatusFailed      DownloadStatus = "failed"
	StatusCancelled   DownloadStatus = "cancelled"
	StatusSkipped     DownloadStatus = "skipped" // already present in the destination
)

// Download tracks one application inside a batch. It lives in memory only.
type Download struct {
	ID            string         `json:"id"`
	BatchID       string         `json:"batch_id"`
	App           string         `json:"app"`
	Extension     string         `json:"extension"`
	URL           string         `json:"url,omitempty"`
	Version       string         `json:"version,omitempty"`
	Status        DownloadStatus `json:"status"`
	Percent       int            `json:"percent"`
	BytesWritten  int64          `json:"bytes_written"`
	BytesExpected int64          `json:"bytes_expected"`
	RetryCount    int            `json:"retry_count"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	FilePath      string         `json:"file_path,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	StartedAt     *time.Time     `json:"started_at,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}

// NewDownload creates a queued download for an application
func NewDownload(batchID string, app Application) *Download {
	now := time.Now()
	return &Download{
		ID:        uuid.New().String(),
		BatchID:   batchID,
		App:       app.Name,
		Extension: app.Extension,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkResolving marks the download as resolving its link
func (d *Download) MarkResolving() {
	d.Status = StatusResolving
	now := time.Now()
	d.StartedAt = &now
	d.UpdatedAt = now
}

// MarkResolved records the resolved link and version
func (d *Download) MarkResolved(res *Resolution) {
	d.URL = res.URL
	d.Version = res.Version
	d.UpdatedAt = time.Now()
}

// MarkDownloading marks the download as transferring
func (d *Download) MarkDownloading(filePath string) {
	d.Status = StatusDownloading
	d.FilePath = filePath
	d.UpdatedAt = time.Now()
}

// UpdateProgress records transfer progress; percent never decreases
func (d *Download) UpdateProgress(percent int) {
	if percent > d.Percent {
		d.Percent = percent
	}
	d.UpdatedAt = time.Now()
}

// RecordTransfer stores the byte accounting of the last transfer attempt
func (d *Download) RecordTransfer(session DownloadSession) {
	d.BytesWritten = session.BytesWritten
	d.BytesExpected = session.BytesExpected
	d.UpdatedAt = time.Now()
}

// MarkCompleted marks the download as completed
func (d *Download) MarkCompleted(filePath string) {
	d.Status = StatusCompleted
	d.FilePath = filePath
	now := time.Now()
	d.CompletedAt = &now
	d.UpdatedAt = now
}

// MarkFailed marks the download as failed
func (d *Download) MarkFailed(err error) {
	d.Status = StatusFailed
	d.ErrorMessage = err.Error()
	d.UpdatedAt = time.Now()
}

// MarkCancelled marks the download as cancelled. A partial file may remain.
func (d *Download) MarkCancelled() {
	d.Status = StatusCancelled
	now := time.Now()
	d.CompletedAt = &now
	d.UpdatedAt = now
}

// MarkSkipped marks the download as skipped because the file is up to date
func (d *Download) MarkSkipped(filePath string) {
	d.Status = StatusSkipped
	d.FilePath = filePath
	now := time.Now()
	d.CompletedAt = &now
	d.UpdatedAt = now
}

// IncrementRetry increments the retry count
func (d *Download) IncrementRetry() {
	d.RetryCount++
	d.UpdatedAt = time.Now()
}

// IsTerminal checks if the download is in a terminal state
func (d *Download) IsTerminal() bool {
	switch d.Status {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusSkipped:
		return true
	default:
		return false
	}
}

// IsActive checks if the download is resolving or transferring
func (d *Download) IsActive() bool {
	return d.Status == StatusResolving || d.Status == StatusDownloading
}
