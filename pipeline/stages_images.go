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
	"strconv"
	"sync"
	"time"

	"github.com/poiesic/folio/core"
)

// stageImageExtraction pulls the images of every page into catalog storage.
// Image IDs derive from content, so re-extracting after a crash finds the
// earlier rows and inserts nothing.
func (o *Orchestrator) stageImageExtraction(ctx context.Context, job *core.Job) error {
	pages, err := o.pageCount(ctx, job)
	if err != nil {
		return err
	}

	var inserted, duplicates int
	for page := 1; page <= pages; page++ {
		images, err := o.deps.Source.PageImages(ctx, job.DocumentRef, page)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}
		for _, img := range images {
			record := &core.CatalogImage{
				Id:         core.IDFromContent(string(img.Data)),
				DocumentId: job.DocumentId,
				Page:       img.Page,
				Caption:    img.Caption,
				Data:       img.Data,
			}
			added, err := o.deps.Catalog.AddImageIfNew(ctx, record)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			if added {
				inserted++
			} else {
				duplicates++
			}
		}
		o.reportProgress(ctx, job, StageImageExtraction, page, pages, map[string]string{
			"inserted":   strconv.Itoa(inserted),
			"duplicates": strconv.Itoa(duplicates),
		})
	}
	return nil
}

// stageImageAnalysis runs vision analysis over every unanalyzed image,
// fanning the provider calls out across the worker pool. Results are
// collected in memory and written back in one batch so no provider call
// ever runs inside a storage transaction.
func (o *Orchestrator) stageImageAnalysis(ctx context.Context, job *core.Job) error {
	images, err := o.deps.Catalog.GetImagesByDocument(ctx, job.DocumentId)
	if err != nil {
		return err
	}

	pending := make([]*core.CatalogImage, 0, len(images))
	for _, img := range images {
		if img.Analysis == nil {
			pending = append(pending, img)
		}
	}
	if len(pending) == 0 {
		o.reportProgress(ctx, job, StageImageAnalysis, len(images), len(images), nil)
		return nil
	}

	analyzer := o.deps.Provider.VisionAnalyzer()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		analyzed []*core.CatalogImage
		firstErr error
	)

	for _, img := range pending {
		img := img
		wg.Add(1)
		submitErr := o.pool.Submit(func() {
			defer wg.Done()

			var result *core.ImageAnalysis
			err := o.retry.Do(ctx, func() error {
				vision, err := analyzer.AnalyzeImage(ctx, img.Data, img.Caption)
				if err != nil {
					return err
				}
				result = &core.ImageAnalysis{
					Materials:    vision.Materials,
					Colors:       vision.Colors,
					Textures:     vision.Textures,
					OCRText:      vision.OCRText,
					QualityScore: vision.QualityScore,
					Confidence:   vision.Confidence,
					Model:        vision.Model,
					AnalyzedAt:   time.Now().UTC(),
				}
				return nil
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("image %s: %w", img.Id, err)
				}
				return
			}
			img.Analysis = result
			analyzed = append(analyzed, img)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	// Persist whatever succeeded before reporting an error, so completed
	// analyses survive the failure and are skipped on resume.
	if len(analyzed) > 0 {
		if _, err := o.deps.Catalog.UpdateImages(context.WithoutCancel(ctx), analyzed...); err != nil {
			return err
		}
	}
	if firstErr != nil {
		return firstErr
	}

	o.reportProgress(ctx, job, StageImageAnalysis, len(images), len(images), map[string]string{
		"analyzed": strconv.Itoa(len(analyzed)),
		"skipped":  strconv.Itoa(len(images) - len(pending)),
	})
	return nil
}

// stageVisualEmbedding embeds every analyzed image that doesn't yet own a
// general visual vector. The embedding service stores all four visual
// kinds and refreshes fused vectors as a side effect.
func (o *Orchestrator) stageVisualEmbedding(ctx context.Context, job *core.Job) error {
	images, err := o.deps.Catalog.GetImagesByDocument(ctx, job.DocumentId)
	if err != nil {
		return err
	}

	var embedded, skipped int
	for i, img := range images {
		has, err := o.hasVector(ctx, core.EntityTypeImage, img.Id, core.KindVisual)
		if err != nil {
			return err
		}
		if has {
			skipped++
			continue
		}

		img := img
		err = o.retry.Do(ctx, func() error {
			return o.deps.Embeddings.EmbedImage(ctx, img)
		})
		if err != nil {
			return fmt.Errorf("image %s: %w", img.Id, err)
		}
		embedded++
		o.reportProgress(ctx, job, StageVisualEmbedding, i+1, len(images), map[string]string{
			"embedded": strconv.Itoa(embedded),
			"skipped":  strconv.Itoa(skipped),
		})
	}
	return nil
}
