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


package search

import "errors"

var (
	// ErrVectorRepositoryRequired is returned when a vector repository is not provided.
	ErrVectorRepositoryRequired = errors.New("vector repository required")

	// ErrNoQueryVectors is returned when a query carries no vectors at all.
	ErrNoQueryVectors = errors.New("query has no vectors")

	// ErrInvalidWeight is returned when a query weight is negative or all
	// weights are zero.
	ErrInvalidWeight = errors.New("invalid query weight")

	// ErrDimensionMismatch is returned when a query vector's length differs
	// from its kind's registered dimensionality.
	ErrDimensionMismatch = errors.New("query vector dimension mismatch")

	// ErrInvalidLimit is returned when the requested result count is not positive.
	ErrInvalidLimit = errors.New("limit must be positive")
)
