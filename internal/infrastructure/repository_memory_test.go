package infrastructure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/app-fetch-go/internal/domain"
)

func newRepoTestDownload(batchID, name string) *domain.Download {
	return domain.NewDownload(batchID, domain.Application{
		Name:      name,
		Extension: "exe",
		Strategy:  domain.StrategyUnchanged,
	})
}

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryDownloadRepository()

	dl := newRepoTestDownload("b1", "Zoom")
	require.NoError(t, repo.Create(dl))

	found, err := repo.FindByID(dl.ID)
	require.NoError(t, err)
	assert.Equal(t, dl.ID, found.ID)
	assert.Equal(t, "Zoom", found.App)

	// Callers get copies, not the stored record
	found.Status = domain.StatusFailed
	again, err := repo.FindByID(dl.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQueued, again.Status)
}

func TestMemoryRepository_CreateDuplicate(t *testing.T) {
	repo := NewMemoryDownloadRepository()
	dl := newRepoTestDownload("b1", "Zoom")

	require.NoError(t, repo.Create(dl))
	assert.Error(t, repo.Create(dl))
}

func TestMemoryRepository_UpdateAndDelete(t *testing.T) {
	repo := NewMemoryDownloadRepository()
	dl := newRepoTestDownload("b1", "Zoom")
	require.NoError(t, repo.Create(dl))

	dl.MarkCompleted("/apps/Zoom_5.exe")
	require.NoError(t, repo.Update(dl))

	found, err := repo.FindByID(dl.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, found.Status)

	require.NoError(t, repo.Delete(dl.ID))
	_, err = repo.FindByID(dl.ID)
	assert.True(t, errors.Is(err, domain.ErrDownloadNotFound))

	assert.True(t, errors.Is(repo.Update(dl), domain.ErrDownloadNotFound))
	assert.True(t, errors.Is(repo.Delete(dl.ID), domain.ErrDownloadNotFound))
}

func TestMemoryRepository_FindByBatchKeepsOrder(t *testing.T) {
	repo := NewMemoryDownloadRepository()
	for _, name := range []string{"7zip", "WinRAR", "Zoom"} {
		require.NoError(t, repo.Create(newRepoTestDownload("b1", name)))
	}
	require.NoError(t, repo.Create(newRepoTestDownload("b2", "Chrome")))

	downloads, err := repo.FindByBatch("b1")
	require.NoError(t, err)
	require.Len(t, downloads, 3)
	assert.Equal(t, "7zip", downloads[0].App)
	assert.Equal(t, "WinRAR", downloads[1].App)
	assert.Equal(t, "Zoom", downloads[2].App)
}

func TestMemoryRepository_FindAllFilters(t *testing.T) {
	repo := NewMemoryDownloadRepository()

	first := newRepoTestDownload("b1", "7zip")
	second := newRepoTestDownload("b1", "Zoom")
	second.MarkFailed(errors.New("boom"))
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	all, err := repo.FindAll(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Zoom", all[0].App, "newest first")

	failed, err := repo.FindAll(map[string]string{"status": "failed"})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "Zoom", failed[0].App)

	_, err = repo.FindAll(map[string]string{"priority": "1"})
	assert.Error(t, err)
}

func TestMemoryRepository_Stats(t *testing.T) {
	repo := NewMemoryDownloadRepository()

	completed := newRepoTestDownload("b1", "a")
	completed.MarkCompleted("/a")
	skipped := newRepoTestDownload("b1", "b")
	skipped.MarkSkipped("/b")
	queued := newRepoTestDownload("b1", "c")

	for _, d := range []*domain.Download{completed, skipped, queued} {
		require.NoError(t, repo.Create(d))
	}

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.Skipped)
	assert.Equal(t, int64(1), stats.Queued)

	count, err := repo.CountByStatus(domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	total, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
