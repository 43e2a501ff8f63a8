package infrastructure

import (
	"fmt"
	"slices"
	"sync"

	"github.com/yourusername/app-fetch-go/internal/domain"
)

// MemoryDownloadRepository implements DownloadRepository in process memory.
// Records live only as long as the process; nothing survives a restart.
type MemoryDownloadRepository struct {
	mu        sync.RWMutex
	downloads map[string]*domain.Download
	order     []string // insertion order
}

// NewMemoryDownloadRepository creates an empty repository
func NewMemoryDownloadRepository() *MemoryDownloadRepository {
	return &MemoryDownloadRepository{
		downloads: make(map[string]*domain.Download),
	}
}

// Create creates a new download
func (r *MemoryDownloadRepository) Create(download *domain.Download) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.downloads[download.ID]; exists {
		return fmt.Errorf("download %s already exists", download.ID)
	}

	stored := *download
	r.downloads[download.ID] = &stored
	r.order = append(r.order, download.ID)
	return nil
}

// Update updates an existing download
func (r *MemoryDownloadRepository) Update(download *domain.Download) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.downloads[download.ID]; !exists {
		return fmt.Errorf("%w: %s", domain.ErrDownloadNotFound, download.ID)
	}

	stored := *download
	r.downloads[download.ID] = &stored
	return nil
}

// Delete deletes a download by ID
func (r *MemoryDownloadRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.downloads[id]; !exists {
		return fmt.Errorf("%w: %s", domain.ErrDownloadNotFound, id)
	}

	delete(r.downloads, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// FindByID finds a download by ID
func (r *MemoryDownloadRepository) FindByID(id string) (*domain.Download, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	download, exists := r.downloads[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDownloadNotFound, id)
	}

	found := *download
	return &found, nil
}

// FindByBatch finds the downloads of a batch in the order they were created
func (r *MemoryDownloadRepository) FindByBatch(batchID string) ([]*domain.Download, error) {
	return r.find(func(d *domain.Download) bool {
		return d.BatchID == batchID
	}, false), nil
}

// FindByStatus finds downloads by status
func (r *MemoryDownloadRepository) FindByStatus(status domain.DownloadStatus) ([]*domain.Download, error) {
	return r.find(func(d *domain.Download) bool {
		return d.Status == status
	}, false), nil
}

// FindAll finds all downloads, newest first, with optional filters
// on app, status and batch_id
func (r *MemoryDownloadRepository) FindAll(filters map[string]string) ([]*domain.Download, error) {
	for key := range filters {
		switch key {
		case "app", "status", "batch_id":
		default:
			return nil, fmt.Errorf("unsupported filter: %s", key)
		}
	}

	return r.find(func(d *domain.Download) bool {
		if v, ok := filters["app"]; ok && d.App != v {
			return false
		}
		if v, ok := filters["status"]; ok && string(d.Status) != v {
			return false
		}
		if v, ok := filters["batch_id"]; ok && d.BatchID != v {
			return false
		}
		return true
	}, true), nil
}

// Count returns the total number of downloads
func (r *MemoryDownloadRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.downloads)), nil
}

// CountByStatus returns the number of downloads by status
func (r *MemoryDownloadRepository) CountByStatus(status domain.DownloadStatus) (int64, error) {
	downloads, _ := r.FindByStatus(status)
	return int64(len(downloads)), nil
}

// GetStats returns download statistics
func (r *MemoryDownloadRepository) GetStats() (*domain.DownloadStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &domain.DownloadStats{Total: int64(len(r.downloads))}
	for _, d := range r.downloads {
		switch d.Status {
		case domain.StatusQueued:
			stats.Queued++
		case domain.StatusResolving:
			stats.Resolving++
		case domain.StatusDownloading:
			stats.Downloading++
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusFailed:
			stats.Failed++
		case domain.StatusCancelled:
			stats.Cancelled++
		case domain.StatusSkipped:
			stats.Skipped++
		}
	}
	return stats, nil
}

// find returns copies of the matching downloads in insertion order,
// or reversed when newestFirst is set
func (r *MemoryDownloadRepository) find(match func(*domain.Download) bool, newestFirst bool) []*domain.Download {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Download, 0)
	for _, id := range r.order {
		if d := r.downloads[id]; match(d) {
			found := *d
			result = append(result, &found)
		}
	}

	if newestFirst {
		slices.Reverse(result)
	}
	return result
}
