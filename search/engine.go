package search

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

// Query describes one multi-vector search.
type Query struct {
	// Vectors holds the query vector per kind. Kinds absent here do not
	// contribute to scoring. Each vector's length must match the kind's
	// registered dimensionality.
	Vectors map[core.EmbeddingKind][]float32

	// Weights holds the blend weight per kind. Kinds in Vectors with no
	// weight entry default to 1. Negative weights are rejected.
	Weights map[core.EmbeddingKind]float32

	// Limit caps the number of results. Must be positive.
	Limit int

	// EntityType restricts results to one entity type when non-zero.
	EntityType core.EntityType

	// DocumentId restricts results to one document when non-zero.
	DocumentId core.ID

	// Category restricts results to entities whose "category" attribute
	// equals this value, when non-empty.
	Category string

	// MinPrice and MaxPrice bound the entity's "price" attribute when
	// positive. Entities without a parseable price fail a bounded query.
	MinPrice float64
	MaxPrice float64

	// MinConfidence drops a kind from an entity's scoring when that kind's
	// stored confidence is lower. Kinds absent here have no floor.
	MinConfidence map[core.EmbeddingKind]float32
}

// Result is one scored search hit.
type Result struct {
	// Set is the matched entity's vector set, attributes included.
	Set *core.VectorSet

	// Score is the sum of weight * cosine similarity over the kinds shared
	// by the query and the entity. With weights that sum to 1 the score
	// stays in [-1, 1]; the engine never renormalizes on the caller's
	// behalf.
	Score float32

	// PerKind holds the unweighted cosine similarity of each kind that
	// contributed to Score.
	PerKind map[core.EmbeddingKind]float32
}

// Engine ranks stored vector sets against multi-vector queries.
//
// Scoring uses only the kinds present in both the query and the candidate:
// each shared kind contributes weight * cosine similarity to the combined
// score, and kinds the candidate lacks contribute zero. Entities sharing no
// kind with the query are excluded outright.
type Engine struct {
	vectors storage.EmbeddingRepository
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a new search engine.
func NewEngine(vectors storage.EmbeddingRepository, opts ...Option) (*Engine, error) {
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}

	e := &Engine{
		vectors: vectors,
		logger:  slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search ranks all stored vector sets against the query.
// Returns up to query.Limit results ordered by score descending; ties break
// on most recently updated, then on entity ID, so repeated searches over
// unchanged data return identical orderings.
func (e *Engine) Search(ctx context.Context, query *Query) ([]*Result, error) {
	return e.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor ranks all stored vector sets against the query with
// monitoring. The monitor receives callbacks at each stage of the search.
func (e *Engine) SearchWithMonitor(ctx context.Context, query *Query, monitor Monitor) ([]*Result, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if err := validateQuery(query); err != nil {
		return nil, err
	}
	monitor.Start(query)

	candidates := 0
	filtered := 0
	results := []*Result{}
	err := e.vectors.IterateVectorSets(ctx, func(set *core.VectorSet) error {
		candidates++
		if !e.passesFilters(query, set) {
			filtered++
			return nil
		}

		score, perKind := e.score(query, set)
		if len(perKind) == 0 {
			// No kind in common with the query.
			filtered++
			return nil
		}

		monitor.Scored(set, score)
		results = append(results, &Result{Set: set, Score: score, PerKind: perKind})
		return nil
	})
	if err != nil {
		e.logger.Error("error iterating vector sets", "err", err)
		return nil, err
	}
	monitor.AfterScan(candidates, filtered)

	// Sort by score descending with deterministic tie-breaks
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].Set.UpdatedAt.Equal(results[j].Set.UpdatedAt) {
			return results[i].Set.UpdatedAt.After(results[j].Set.UpdatedAt)
		}
		return results[i].Set.EntityId < results[j].Set.EntityId
	})
	if len(results) > query.Limit {
		results = results[:query.Limit]
	}
	monitor.Finish(results)

	return results, nil
}

// score computes the weighted sum of cosine similarities over the kinds
// shared by query and candidate, skipping kinds below their confidence
// floor. Returns the combined score and the per-kind similarities that
// contributed.
func (e *Engine) score(query *Query, set *core.VectorSet) (float32, map[core.EmbeddingKind]float32) {
	var combined float32
	var perKind map[core.EmbeddingKind]float32

	for kind, queryVec := range query.Vectors {
		candidateVec, ok := set.Vector(kind)
		if !ok {
			continue
		}
		if floor, ok := query.MinConfidence[kind]; ok {
			if set.Meta[kind].Confidence < floor {
				continue
			}
		}

		weight := float32(1)
		if w, ok := query.Weights[kind]; ok {
			weight = w
		}
		if weight == 0 {
			continue
		}

		sim := CosineSimilarity(queryVec, candidateVec)
		if perKind == nil {
			perKind = make(map[core.EmbeddingKind]float32, len(query.Vectors))
		}
		perKind[kind] = sim
		combined += weight * sim
	}

	return combined, perKind
}

// passesFilters applies the hard pre-filters that exclude a candidate before
// any scoring happens.
func (e *Engine) passesFilters(query *Query, set *core.VectorSet) bool {
	if query.EntityType != 0 && set.EntityType != query.EntityType {
		return false
	}
	if query.DocumentId != 0 && set.DocumentId != query.DocumentId {
		return false
	}
	if query.Category != "" && set.Metadata["category"] != query.Category {
		return false
	}

	if query.MinPrice > 0 || query.MaxPrice > 0 {
		price, err := strconv.ParseFloat(set.Metadata["price"], 64)
		if err != nil {
			return false
		}
		if query.MinPrice > 0 && price < query.MinPrice {
			return false
		}
		if query.MaxPrice > 0 && price > query.MaxPrice {
			return false
		}
	}
	return true
}

func validateQuery(query *Query) error {
	if query.Limit <= 0 {
		return ErrInvalidLimit
	}
	if len(query.Vectors) == 0 {
		return ErrNoQueryVectors
	}

	positive := false
	for kind, vec := range query.Vectors {
		if len(vec) != kind.Dimension() {
			return ErrDimensionMismatch
		}
		w, ok := query.Weights[kind]
		if !ok {
			positive = true
			continue
		}
		if w < 0 {
			return ErrInvalidWeight
		}
		if w > 0 {
			positive = true
		}
	}
	if !positive {
		return ErrInvalidWeight
	}
	return nil
}
