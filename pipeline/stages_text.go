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
	"errors"
	"fmt"
	"strconv"

	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/quality"
	"github.com/poiesic/folio/storage"
)

// stageDiscovery re-resolves the document and records its shape on the job.
// Resolution already happened at submission, but the document may have
// changed between submission and execution.
func (o *Orchestrator) stageDiscovery(ctx context.Context, job *core.Job) error {
	info, err := o.deps.Source.Resolve(ctx, job.DocumentRef)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	job.Result["pages"] = strconv.Itoa(info.PageCount)
	o.reportProgress(ctx, job, StageDiscovery, info.PageCount, info.PageCount, nil)
	return nil
}

// stageFocusedExtraction pulls the text of every page into the page-text
// staging area. SavePageText is an upsert, so re-running after a crash
// rewrites already-extracted pages harmlessly.
func (o *Orchestrator) stageFocusedExtraction(ctx context.Context, job *core.Job) error {
	pages, err := o.pageCount(ctx, job)
	if err != nil {
		return err
	}

	for page := 1; page <= pages; page++ {
		text, err := o.deps.Source.PageText(ctx, job.DocumentRef, page)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}
		err = o.deps.Catalog.SavePageText(ctx, &core.PageText{
			DocumentId: job.DocumentId,
			Page:       page,
			Contents:   text,
		})
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}
		o.reportProgress(ctx, job, StageFocusedExtraction, page, pages, nil)
	}
	return nil
}

// stageChunking splits page texts into chunks, classifies each one, and
// persists it through the quality gate. Duplicates and rejections are
// counted but never fail the stage.
func (o *Orchestrator) stageChunking(ctx context.Context, job *core.Job) error {
	pageTexts, err := o.deps.Catalog.GetPageTexts(ctx, job.DocumentId)
	if err != nil {
		return err
	}

	var persisted, duplicates, rejected int

	// Ordinals must come out identical whether the stage runs once or is
	// re-run after a crash, so a duplicate advances the counter too: it is
	// exactly a piece that consumed an ordinal in an earlier pass.
	// Rejections never persist in any run, so they consume nothing.
	ordinal := 0
	for _, pt := range pageTexts {
		for _, piece := range o.chunker.Split(pt.Contents) {
			chunkType := ClassifyChunk(piece)
			metadata := map[string]string{
				"chunk_type": chunkType,
			}
			outcome, _, err := o.deps.Quality.PersistIfNew(ctx, job.DocumentId,
				piece, ordinal, pt.Page, metadata)
			if err != nil {
				return fmt.Errorf("page %d: %w", pt.Page, err)
			}
			switch outcome {
			case quality.OutcomePersisted:
				persisted++
				ordinal++
			case quality.OutcomeDuplicate:
				duplicates++
				ordinal++
			case quality.OutcomeRejected:
				rejected++
			}
		}
		o.reportProgress(ctx, job, StageChunking, pt.Page, len(pageTexts), map[string]string{
			"persisted":  strconv.Itoa(persisted),
			"duplicates": strconv.Itoa(duplicates),
			"rejected":   strconv.Itoa(rejected),
		})
	}

	o.logger.Info("chunking done", "job", job.Id,
		"persisted", persisted, "duplicates", duplicates, "rejected", rejected)
	return nil
}

// stageTextEmbedding embeds every chunk that doesn't yet own a text vector.
// The presence check makes the stage idempotent on resume: chunks embedded
// before a crash are skipped, not re-billed.
func (o *Orchestrator) stageTextEmbedding(ctx context.Context, job *core.Job) error {
	chunks, err := o.deps.Chunks.GetChunksByDocument(ctx, job.DocumentId)
	if err != nil {
		return err
	}

	var embedded, skipped int
	for i, chunk := range chunks {
		has, err := o.hasVector(ctx, core.EntityTypeChunk, chunk.Id, core.KindText)
		if err != nil {
			return err
		}
		if has {
			skipped++
			continue
		}

		chunk := chunk
		err = o.retry.Do(ctx, func() error {
			return o.deps.Embeddings.EmbedChunk(ctx, chunk)
		})
		if err != nil {
			return fmt.Errorf("chunk %s: %w", chunk.Id, err)
		}
		embedded++
		o.reportProgress(ctx, job, StageTextEmbedding, i+1, len(chunks), map[string]string{
			"embedded": strconv.Itoa(embedded),
			"skipped":  strconv.Itoa(skipped),
		})
	}
	return nil
}

// hasVector reports whether the entity already owns a vector of the kind.
func (o *Orchestrator) hasVector(ctx context.Context, entityType core.EntityType,
	id core.ID, kind core.EmbeddingKind) (bool, error) {

	set, err := o.deps.Vectors.GetVectorSet(ctx, entityType, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return set.Has(kind), nil
}
