/*
 * Copyright 2025 Poiesic Systems
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/folio/ai"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/document"
	"github.com/poiesic/folio/embedding"
	"github.com/poiesic/folio/quality"
	"github.com/poiesic/folio/storage"
)

// Deps holds the collaborators an Orchestrator needs. All fields are
// required; NewOrchestrator rejects a Deps with any nil member.
type Deps struct {
	Jobs       storage.JobRepository
	Chunks     storage.ChunkRepository
	Catalog    storage.CatalogRepository
	Vectors    storage.EmbeddingRepository
	Validation storage.ValidationRepository
	Source     document.Source
	Provider   ai.Provider
	Embeddings *embedding.Service
	Quality    *quality.Persister
}

func (d *Deps) validate() error {
	switch {
	case d.Jobs == nil:
		return ErrJobRepositoryRequired
	case d.Chunks == nil:
		return ErrChunkRepositoryRequired
	case d.Catalog == nil:
		return ErrCatalogRepositoryRequired
	case d.Validation == nil:
		return ErrValidationRepositoryRequired
	case d.Source == nil:
		return ErrSourceRequired
	case d.Provider == nil:
		return ErrAIProviderRequired
	case d.Embeddings == nil:
		return ErrEmbeddingServiceRequired
	case d.Vectors == nil:
		return ErrVectorRepositoryRequired
	case d.Quality == nil:
		return ErrQualityPersisterRequired
	}
	return nil
}

// Orchestrator drives ingestion jobs through the stage sequence, persisting
// a checkpoint after every completed stage so an interrupted job resumes
// where it left off rather than starting over.
type Orchestrator struct {
	deps      Deps
	pool      *ants.Pool
	retry     RetryPolicy
	chunker   *Chunker
	weights   AssociationWeights
	threshold float32 // image-product association acceptance threshold
	floor     float32 // vision confidence below which images go to validation
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithPoolSize sets the worker pool size used for per-item concurrency
// inside stages. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithRetryPolicy sets the retry policy applied to provider calls.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(o *Orchestrator) error {
		o.retry = policy
		return nil
	}
}

// WithConfidenceThreshold sets the vision confidence below which an
// analyzed image is enqueued for deferred validation. Default is 0.7.
func WithConfidenceThreshold(threshold float32) Option {
	return func(o *Orchestrator) error {
		o.floor = threshold
		return nil
	}
}

// WithChunkTargets sets the chunker's target size range in characters.
func WithChunkTargets(low, high int) Option {
	return func(o *Orchestrator) error {
		o.chunker = NewChunker(low, high)
		return nil
	}
}

// WithAssociation sets the image-product association weights and the
// minimum combined score for a link to be recorded.
func WithAssociation(weights AssociationWeights, threshold float32) Option {
	return func(o *Orchestrator) error {
		o.weights = weights
		o.threshold = threshold
		return nil
	}
}

// NewOrchestrator creates a pipeline orchestrator over the given
// collaborators.
func NewOrchestrator(deps Deps, opts ...Option) (*Orchestrator, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		deps:      deps,
		pool:      pool,
		retry:     DefaultRetryPolicy(),
		chunker:   NewChunker(0, 0),
		weights:   DefaultAssociationWeights(),
		threshold: 0.5,
		floor:     0.7,
		logger:    slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}

	return o, nil
}

// Release frees the orchestrator's worker pool. In-flight jobs should be
// allowed to finish first.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}

// Submit registers a new ingestion job for the referenced document.
// The reference is resolved through the document source before the job is
// created, so an unreadable document fails fast instead of failing at the
// discovery stage. The returned job is pending; Run executes it.
func (o *Orchestrator) Submit(ctx context.Context, ref string) (*core.Job, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty document reference", ErrInvalidDocument)
	}

	info, err := o.deps.Source.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	job := &core.Job{
		Id:          uuid.NewString(),
		DocumentRef: ref,
		DocumentId:  core.IDFromContent(ref),
		Status:      core.JobStatusPending,
		TotalStages: len(Stages),
		Result: map[string]string{
			"pages": fmt.Sprintf("%d", info.PageCount),
		},
	}
	if err := o.deps.Jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	o.logger.Info("job submitted", "job", job.Id, "ref", ref, "pages", info.PageCount)
	return job, nil
}

// Run executes a job from its checkpoint to completion. Stages that
// finished in an earlier run are not repeated. Running a completed job is
// a no-op.
func (o *Orchestrator) Run(ctx context.Context, jobID string) error {
	job, err := o.deps.Jobs.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status == core.JobStatusCompleted {
		return nil
	}
	return o.run(ctx, job)
}

// Resume restarts a previously interrupted or failed job from its
// checkpoint. Unlike Run it treats a completed job as an error, so callers
// notice when they resume the wrong job.
func (o *Orchestrator) Resume(ctx context.Context, jobID string) error {
	job, err := o.deps.Jobs.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status == core.JobStatusCompleted {
		return fmt.Errorf("%w: job %s already completed", ErrJobNotResumable, job.Id)
	}
	return o.run(ctx, job)
}

func (o *Orchestrator) run(ctx context.Context, job *core.Job) error {
	start := 0
	if job.Checkpoint != "" {
		idx := stageIndex(job.Checkpoint)
		if idx < 0 {
			return fmt.Errorf("%w: checkpoint %q", ErrUnknownStage, job.Checkpoint)
		}
		start = idx + 1
	}

	job.Status = core.JobStatusRunning
	job.FailedStage = ""
	job.Error = ""
	if job.Result == nil {
		job.Result = make(map[string]string)
	}

	for i := start; i < len(Stages); i++ {
		stage := Stages[i]

		// Cancellation is honored between stages only, so a stage either
		// runs to completion or is never marked as the checkpoint.
		if err := ctx.Err(); err != nil {
			return o.interrupt(ctx, job, err)
		}

		job.CurrentStage = stage
		if err := o.deps.Jobs.UpdateJob(ctx, job); err != nil {
			return err
		}

		o.logger.Info("stage starting", "job", job.Id, "stage", stage)
		began := time.Now()
		if err := o.runStage(ctx, job, stage); err != nil {
			return o.fail(ctx, job, stage, err)
		}
		o.logger.Info("stage complete", "job", job.Id, "stage", stage,
			"elapsed", time.Since(began).Round(time.Millisecond))

		job.Checkpoint = stage
		job.CurrentStage = ""
		job.Progress = float64(i+1) / float64(len(Stages)) * 100
		if err := o.deps.Jobs.UpdateJob(ctx, job); err != nil {
			return err
		}
	}

	job.Status = core.JobStatusCompleted
	job.CompletedAt = time.Now().UTC()
	job.Progress = 100
	if err := o.deps.Jobs.UpdateJob(ctx, job); err != nil {
		return err
	}

	o.logger.Info("job complete", "job", job.Id, "ref", job.DocumentRef)
	return nil
}

func (o *Orchestrator) runStage(ctx context.Context, job *core.Job, stage string) error {
	switch stage {
	case StageDiscovery:
		return o.stageDiscovery(ctx, job)
	case StageFocusedExtraction:
		return o.stageFocusedExtraction(ctx, job)
	case StageChunking:
		return o.stageChunking(ctx, job)
	case StageTextEmbedding:
		return o.stageTextEmbedding(ctx, job)
	case StageImageExtraction:
		return o.stageImageExtraction(ctx, job)
	case StageImageAnalysis:
		return o.stageImageAnalysis(ctx, job)
	case StageVisualEmbedding:
		return o.stageVisualEmbedding(ctx, job)
	case StageEntityLinking:
		return o.stageEntityLinking(ctx, job)
	case StageMetadataExtraction:
		return o.stageMetadataExtraction(ctx, job)
	case StageValidationSubmission:
		return o.stageValidationSubmission(ctx, job)
	case StageCleanup:
		return o.stageCleanup(ctx, job)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}
}

// interrupt records a cancellation without failing the job. The checkpoint
// already reflects the last completed stage, so the job resumes cleanly.
func (o *Orchestrator) interrupt(ctx context.Context, job *core.Job, cause error) error {
	job.Status = core.JobStatusPending
	job.CurrentStage = ""
	if err := o.deps.Jobs.UpdateJob(context.WithoutCancel(ctx), job); err != nil {
		o.logger.Error("error parking interrupted job", "job", job.Id, "err", err)
	}
	o.logger.Info("job interrupted", "job", job.Id, "checkpoint", job.Checkpoint)
	return cause
}

func (o *Orchestrator) fail(ctx context.Context, job *core.Job, stage string, cause error) error {
	job.Status = core.JobStatusFailed
	job.FailedStage = stage
	job.CurrentStage = ""
	job.Error = cause.Error()
	if err := o.deps.Jobs.UpdateJob(context.WithoutCancel(ctx), job); err != nil {
		o.logger.Error("error recording job failure", "job", job.Id, "err", err)
	}
	o.logger.Error("stage failed", "job", job.Id, "stage", stage, "err", cause)
	return fmt.Errorf("stage %s: %w", stage, cause)
}

// reportProgress upserts the per-stage progress row. Progress persistence
// is advisory and never fails a stage.
func (o *Orchestrator) reportProgress(ctx context.Context, job *core.Job, stage string,
	done, total int, meta map[string]string) {

	percent := 100.0
	if total > 0 {
		percent = float64(done) / float64(total) * 100
	}
	progress := &core.StageProgress{
		JobId:      job.Id,
		Stage:      stage,
		Percent:    percent,
		ItemsTotal: total,
		ItemsDone:  done,
		Metadata:   meta,
	}
	if err := o.deps.Jobs.SaveStageProgress(ctx, progress); err != nil {
		o.logger.Warn("error saving stage progress", "job", job.Id, "stage", stage, "err", err)
	}
}

// pageCount reads the page count recorded at submission, re-resolving the
// document if an older job predates the result entry.
func (o *Orchestrator) pageCount(ctx context.Context, job *core.Job) (int, error) {
	if raw, ok := job.Result["pages"]; ok {
		var pages int
		if _, err := fmt.Sscanf(raw, "%d", &pages); err == nil && pages >= 0 {
			return pages, nil
		}
	}
	info, err := o.deps.Source.Resolve(ctx, job.DocumentRef)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return info.PageCount, nil
}
