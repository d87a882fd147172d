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

import "errors"

// Domain validation errors
var (
	// ErrInvalidJob indicates a Job failed validation.
	ErrInvalidJob = errors.New("invalid job")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidProduct indicates a Product failed validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidValidationItem indicates a ValidationItem failed validation.
	ErrInvalidValidationItem = errors.New("invalid validation item")

	// ErrEmptyContent indicates a required content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyDocumentRef indicates the document reference is empty.
	ErrEmptyDocumentRef = errors.New("document reference cannot be empty")

	// ErrInvalidStatus indicates an invalid lifecycle status value.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidEntityType indicates an invalid EntityType value.
	ErrInvalidEntityType = errors.New("invalid entity type")

	// ErrInvalidEmbeddingKind indicates an unknown embedding kind.
	ErrInvalidEmbeddingKind = errors.New("invalid embedding kind")

	// ErrInvalidPriority indicates a negative validation priority.
	ErrInvalidPriority = errors.New("priority cannot be negative")
)
