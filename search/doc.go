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


// Package search provides weighted multi-vector similarity search.
//
// The Engine type ranks stored vector sets against queries that carry one
// vector per embedding kind. Scoring blends per-kind cosine similarities by
// the query's weights, restricted to the kinds present on both sides, so a
// text+visual query still ranks text-only entities fairly.
//
// Hard pre-filters (entity type, document, category, price range, per-kind
// confidence floors) exclude candidates before any similarity is computed.
// Result ordering is deterministic: score descending, then most recently
// updated, then entity ID.
package search
