package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestJobLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	job := &core.Job{
		Id:          "job-1",
		DocumentRef: "catalogs/varberg.pdf",
		DocumentId:  core.IDFromContent("catalogs/varberg.pdf"),
		Status:      core.JobStatusPending,
		TotalStages: 11,
	}

	if err := store.Jobs.CreateJob(ctx, job); err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}
	if job.CreatedAt.IsZero() || job.UpdatedAt.IsZero() {
		t.Fatal("Expected timestamps to be assigned on create")
	}

	if err := store.Jobs.CreateJob(ctx, job); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey on second create, got %v", err)
	}

	got, err := store.Jobs.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if got.DocumentRef != job.DocumentRef {
		t.Fatalf("Expected ref %q, got %q", job.DocumentRef, got.DocumentRef)
	}
	if got.Status != core.JobStatusPending {
		t.Fatalf("Expected pending status, got %s", got.Status)
	}

	got.Status = core.JobStatusRunning
	got.CurrentStage = "chunking"
	got.Checkpoint = "focused-extraction"
	got.Progress = 18.18
	if err := store.Jobs.UpdateJob(ctx, got); err != nil {
		t.Fatalf("Failed to update job: %v", err)
	}

	updated, err := store.Jobs.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("Failed to get updated job: %v", err)
	}
	if updated.Checkpoint != "focused-extraction" {
		t.Fatalf("Expected checkpoint to persist, got %q", updated.Checkpoint)
	}
	if updated.CurrentStage != "chunking" {
		t.Fatalf("Expected current stage to persist, got %q", updated.CurrentStage)
	}
}

func TestJobNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Jobs.GetJob(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	job := &core.Job{
		Id:          "missing",
		DocumentRef: "x.pdf",
		Status:      core.JobStatusPending,
	}
	if err := store.Jobs.UpdateJob(ctx, job); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on update, got %v", err)
	}
}

func TestCreateJobValidates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Jobs.CreateJob(ctx, &core.Job{Id: "bad", Status: core.JobStatusPending})
	if !errors.Is(err, core.ErrInvalidJob) {
		t.Fatalf("Expected ErrInvalidJob for empty ref, got %v", err)
	}

	err = store.Jobs.CreateJob(ctx, &core.Job{Id: "bad", DocumentRef: "x.pdf"})
	if !errors.Is(err, core.ErrInvalidJob) {
		t.Fatalf("Expected ErrInvalidJob for zero status, got %v", err)
	}
}

func TestListJobsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"job-a", "job-b", "job-c"} {
		job := &core.Job{
			Id:          id,
			DocumentRef: id + ".pdf",
			Status:      core.JobStatusPending,
		}
		if err := store.Jobs.CreateJob(ctx, job); err != nil {
			t.Fatalf("Failed to create %s: %v", id, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	jobs, err := store.Jobs.ListJobs(ctx)
	if err != nil {
		t.Fatalf("Failed to list jobs: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("Expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].Id != "job-c" || jobs[2].Id != "job-a" {
		t.Fatalf("Expected newest-first order, got %s, %s, %s",
			jobs[0].Id, jobs[1].Id, jobs[2].Id)
	}
}

func TestStageProgressUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	row := &core.StageProgress{
		JobId:      "job-1",
		Stage:      "chunking",
		Percent:    40,
		ItemsTotal: 10,
		ItemsDone:  4,
	}
	if err := store.Jobs.SaveStageProgress(ctx, row); err != nil {
		t.Fatalf("Failed to save progress: %v", err)
	}

	row.Percent = 100
	row.ItemsDone = 10
	row.Metadata = map[string]string{"persisted": "8", "duplicates": "2"}
	if err := store.Jobs.SaveStageProgress(ctx, row); err != nil {
		t.Fatalf("Failed to upsert progress: %v", err)
	}

	got, err := store.Jobs.GetStageProgress(ctx, "job-1", "chunking")
	if err != nil {
		t.Fatalf("Failed to get progress: %v", err)
	}
	if got.Percent != 100 || got.ItemsDone != 10 {
		t.Fatalf("Expected upserted row, got %+v", got)
	}
	if got.Metadata["duplicates"] != "2" {
		t.Fatalf("Expected metadata to persist, got %v", got.Metadata)
	}

	if _, err := store.Jobs.GetStageProgress(ctx, "job-1", "cleanup"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unsaved stage, got %v", err)
	}

	other := &core.StageProgress{JobId: "job-1", Stage: "discovery", Percent: 100}
	if err := store.Jobs.SaveStageProgress(ctx, other); err != nil {
		t.Fatalf("Failed to save second stage: %v", err)
	}
	rows, err := store.Jobs.ListStageProgress(ctx, "job-1")
	if err != nil {
		t.Fatalf("Failed to list progress: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	rows, err = store.Jobs.ListStageProgress(ctx, "job-2")
	if err != nil {
		t.Fatalf("Failed to list progress for other job: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("Expected no rows for unrelated job, got %d", len(rows))
	}
}
