package domain

// DownloadRepository defines the interface for download bookkeeping
type DownloadRepository interface {
	// Create creates a new download
	Create(download *Download) error

	// Update updates an existing download
	Update(download *Download) error

	// Delete deletes a download by ID
	Delete(id string) error

	// FindByID finds a download by ID
	FindByID(id string) (*Download, error)

	// FindByBatch finds the downloads of a batch in catalog order
	FindByBatch(batchID string) ([]*Download, error)

	// FindByStatus finds downloads by status
	FindByStatus(status DownloadStatus) ([]*Download, error)

	// FindAll finds all downloads with optional filters (app, status, batch_id)
	FindAll(filters map[string]string) ([]*Download, error)

	// Count returns the total number of downloads
	Count() (int64, error)

	// CountByStatus returns the number of downloads by status
	CountByStatus(status DownloadStatus) (int64, error)

	// GetStats returns download statistics
	GetStats() (*DownloadStats, error)
}

// DownloadStats represents download statistics
type DownloadStats struct {
	Total       int64 `json:"total"`
	Queued      int64 `json:"queued"`
	Resolving   int64 `json:"resolving"`
	Downloading int64 `json:"downloading"`
	Completed   int64 `json:"completed"`
	Failed      int64 `json:"failed"`
	Cancelled   int64 `json:"cancelled"`
	Skipped     int64 `json:"skipped"`
}
