// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateJob validates a Job according to domain rules.
//
// Validation rules:
//   - DocumentRef must not be empty
//   - Status must be a declared JobStatus
//
// NOT validated (populated by the orchestrator):
//   - Checkpoint (empty is valid until the first stage completes)
//   - Result, FailedStage, Error
func ValidateJob(job *Job) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}
	if job.DocumentRef == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyDocumentRef)
	}
	if err := ValidateJobStatus(job.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	return nil
}

// ValidateJobStatus checks that the status is a declared value.
func ValidateJobStatus(status JobStatus) error {
	switch status {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return nil
	}
	return fmt.Errorf("%w: job status %d", ErrInvalidStatus, status)
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Contents must not be empty
//   - ContentHash must not be empty
//   - Quality must be in [0,1]
//
// NOT validated (populated by processors):
//   - Metadata (enrichment happens after quality scoring)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.Contents == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}
	if chunk.ContentHash == "" {
		return fmt.Errorf("%w: content hash is empty", ErrInvalidChunk)
	}
	if chunk.Quality < 0 || chunk.Quality > 1 {
		return fmt.Errorf("%w: quality %f outside [0,1]", ErrInvalidChunk, chunk.Quality)
	}
	return nil
}

// ValidateProduct validates a Product according to domain rules.
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}
	if product.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyContent)
	}
	return nil
}

// ValidateEntityType checks that the entity type is a declared value.
func ValidateEntityType(t EntityType) error {
	switch t {
	case EntityTypeChunk, EntityTypeImage, EntityTypeProduct:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrInvalidEntityType, t)
}

// ValidateValidationItem validates a ValidationItem according to domain rules.
func ValidateValidationItem(item *ValidationItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidValidationItem)
	}
	if item.EntityId == 0 {
		return fmt.Errorf("%w: entity id is zero", ErrInvalidValidationItem)
	}
	if err := ValidateEntityType(item.EntityType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValidationItem, err)
	}
	if item.Priority < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidValidationItem, ErrInvalidPriority)
	}
	switch item.Status {
	case ValidationPending, ValidationProcessing, ValidationCompleted, ValidationFailed:
	default:
		return fmt.Errorf("%w: %w", ErrInvalidValidationItem, ErrInvalidStatus)
	}
	return nil
}
