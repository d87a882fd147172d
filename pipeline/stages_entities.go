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
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/folio/ai"
	"github.com/poiesic/folio/core"
)

// metadataSamplePages caps how many pages feed the catalog-level metadata
// extraction prompt. Front matter carries the collection and designer
// credits; sampling the whole document would only add noise and tokens.
const metadataSamplePages = 5

// stageEntityLinking extracts products from product-bearing chunks, links
// them to their images, and embeds the product text. Product IDs derive
// from (document, name), so re-extraction after a crash converges on the
// same rows.
func (o *Orchestrator) stageEntityLinking(ctx context.Context, job *core.Job) error {
	chunks, err := o.deps.Chunks.GetChunksByDocument(ctx, job.DocumentId)
	if err != nil {
		return err
	}

	extractor := o.deps.Provider.CatalogExtractor()

	var inserted, duplicates int
	for i, chunk := range chunks {
		chunkType := chunk.Metadata["chunk_type"]
		if chunkType != ChunkProductDescription && chunkType != ChunkTechnicalSpecs {
			continue
		}

		var extracted []ai.ExtractedProduct
		chunk := chunk
		err := o.retry.Do(ctx, func() error {
			var err error
			extracted, err = extractor.ExtractProducts(ctx, chunk.Contents)
			return err
		})
		if err != nil {
			return fmt.Errorf("chunk %s: %w", chunk.Id, err)
		}

		for _, ep := range extracted {
			product := &core.Product{
				DocumentId:  job.DocumentId,
				Name:        ep.Name,
				Description: ep.Description,
				Category:    ep.Category,
				Page:        chunk.Page,
			}
			added, err := o.deps.Catalog.AddProductIfNew(ctx, product)
			if err != nil {
				return fmt.Errorf("product %q: %w", ep.Name, err)
			}
			if added {
				inserted++
			} else {
				duplicates++
			}
		}
		o.reportProgress(ctx, job, StageEntityLinking, i+1, len(chunks), map[string]string{
			"inserted":   strconv.Itoa(inserted),
			"duplicates": strconv.Itoa(duplicates),
		})
	}

	if err := o.linkImages(ctx, job); err != nil {
		return err
	}
	return o.embedProducts(ctx, job)
}

// linkImages scores every image against every product and records the
// accepted associations on the products.
func (o *Orchestrator) linkImages(ctx context.Context, job *core.Job) error {
	products, err := o.deps.Catalog.GetProductsByDocument(ctx, job.DocumentId)
	if err != nil {
		return err
	}
	images, err := o.deps.Catalog.GetImagesByDocument(ctx, job.DocumentId)
	if err != nil {
		return err
	}
	if len(products) == 0 || len(images) == 0 {
		return nil
	}

	assocs := AssociateImages(images, products, o.weights, o.threshold)
	if len(assocs) == 0 {
		return nil
	}

	byProduct := make(map[core.ID][]core.ID)
	for _, a := range assocs {
		byProduct[a.ProductId] = append(byProduct[a.ProductId], a.ImageId)
	}

	changed := make([]*core.Product, 0, len(byProduct))
	for _, product := range products {
		imageIds, ok := byProduct[product.Id]
		if !ok {
			continue
		}
		sort.Slice(imageIds, func(i, j int) bool { return imageIds[i] < imageIds[j] })
		product.ImageIds = imageIds
		changed = append(changed, product)
	}

	_, err = o.deps.Catalog.UpdateProducts(ctx, changed...)
	if err != nil {
		return err
	}
	o.logger.Info("images linked", "job", job.Id, "associations", len(assocs))
	return nil
}

// embedProducts stores a text vector for every product that doesn't own
// one yet.
func (o *Orchestrator) embedProducts(ctx context.Context, job *core.Job) error {
	products, err := o.deps.Catalog.GetProductsByDocument(ctx, job.DocumentId)
	if err != nil {
		return err
	}

	for _, product := range products {
		has, err := o.hasVector(ctx, core.EntityTypeProduct, product.Id, core.KindText)
		if err != nil {
			return err
		}
		if has {
			continue
		}

		product := product
		err = o.retry.Do(ctx, func() error {
			return o.deps.Embeddings.EmbedProductText(ctx, product)
		})
		if err != nil {
			return fmt.Errorf("product %q: %w", product.Name, err)
		}
	}
	return nil
}

// stageMetadataExtraction samples the front pages and asks the extractor
// for catalog-level metadata, which lands in the job result.
func (o *Orchestrator) stageMetadataExtraction(ctx context.Context, job *core.Job) error {
	pageTexts, err := o.deps.Catalog.GetPageTexts(ctx, job.DocumentId)
	if err != nil {
		return err
	}
	if len(pageTexts) == 0 {
		return nil
	}

	sample := pageTexts
	if len(sample) > metadataSamplePages {
		sample = sample[:metadataSamplePages]
	}
	texts := make([]string, 0, len(sample))
	for _, pt := range sample {
		texts = append(texts, pt.Contents)
	}

	extractor := o.deps.Provider.CatalogExtractor()

	var meta *ai.CatalogMetadata
	err = o.retry.Do(ctx, func() error {
		var err error
		meta, err = extractor.ExtractMetadata(ctx, texts)
		return err
	})
	if err != nil {
		return err
	}

	if meta.Collection != "" {
		job.Result["collection"] = meta.Collection
	}
	if len(meta.Designers) > 0 {
		job.Result["designers"] = strings.Join(meta.Designers, ", ")
	}
	if len(meta.ProductNames) > 0 {
		job.Result["product_names"] = strings.Join(meta.ProductNames, ", ")
	}
	o.reportProgress(ctx, job, StageMetadataExtraction, len(sample), len(sample), nil)
	return nil
}

// stageValidationSubmission enqueues every image whose vision analysis
// came back below the confidence threshold. Lower confidence means higher
// priority, so the shakiest analyses are re-checked first. Enqueue
// deduplicates per entity, which makes the stage idempotent on resume.
func (o *Orchestrator) stageValidationSubmission(ctx context.Context, job *core.Job) error {
	images, err := o.deps.Catalog.GetImagesByDocument(ctx, job.DocumentId)
	if err != nil {
		return err
	}

	var enqueued int
	for _, img := range images {
		if img.Analysis == nil || img.Analysis.Confidence >= o.floor {
			continue
		}

		item := &core.ValidationItem{
			DocumentId: job.DocumentId,
			EntityId:   img.Id,
			EntityType: core.EntityTypeImage,
			Reason:     "low-confidence image analysis",
			Priority:   int((o.floor - img.Analysis.Confidence) * 100),
			Status:     core.ValidationPending,
			Metadata: map[string]string{
				"confidence": fmt.Sprintf("%.2f", img.Analysis.Confidence),
				"model":      img.Analysis.Model,
			},
		}
		added, err := o.deps.Validation.Enqueue(ctx, item)
		if err != nil {
			return fmt.Errorf("image %s: %w", img.Id, err)
		}
		if added {
			enqueued++
		}
	}

	o.reportProgress(ctx, job, StageValidationSubmission, len(images), len(images), map[string]string{
		"enqueued": strconv.Itoa(enqueued),
	})
	return nil
}

// stageCleanup drops the page-text staging area. Chunks, images, products
// and vectors are all durable by now, so the raw text has served its
// purpose.
func (o *Orchestrator) stageCleanup(ctx context.Context, job *core.Job) error {
	if err := o.deps.Catalog.DeletePageTexts(ctx, job.DocumentId); err != nil {
		return err
	}
	o.reportProgress(ctx, job, StageCleanup, 1, 1, nil)
	return nil
}
