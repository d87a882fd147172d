package core

import (
	"fmt"
	"time"
)

// EmbeddingKind names one of the vector types an entity may own.
// Each kind has a fixed platform-wide dimensionality so vectors of the same
// kind are always comparable across entities.
type EmbeddingKind int

const (
	// KindText is the semantic text embedding.
	KindText EmbeddingKind = iota + 1
	// KindVisual is the general visual embedding.
	KindVisual
	// KindFusion is derived from text and visual vectors, never generated directly.
	KindFusion
	// KindColor is the color-focused visual embedding.
	KindColor
	// KindTexture is the texture-focused visual embedding.
	KindTexture
	// KindApplication is the application-context visual embedding.
	KindApplication
)

// AllKinds lists every embedding kind in declaration order.
var AllKinds = []EmbeddingKind{
	KindText, KindVisual, KindFusion, KindColor, KindTexture, KindApplication,
}

// kindDimensions fixes the dimensionality of each kind. Changing a value here
// invalidates every stored vector of that kind.
var kindDimensions = map[EmbeddingKind]int{
	KindText:        1536,
	KindVisual:      512,
	KindFusion:      2048,
	KindColor:       256,
	KindTexture:     256,
	KindApplication: 512,
}

// Dimension returns the fixed dimensionality of the kind, or 0 if unknown.
func (k EmbeddingKind) Dimension() int {
	return kindDimensions[k]
}

// Valid reports whether the kind is one of the declared embedding kinds.
func (k EmbeddingKind) Valid() bool {
	_, ok := kindDimensions[k]
	return ok
}

// String returns the lowercase name of the kind.
func (k EmbeddingKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindVisual:
		return "visual"
	case KindFusion:
		return "fusion"
	case KindColor:
		return "color"
	case KindTexture:
		return "texture"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// ParseEmbeddingKind parses a kind name as produced by String.
func ParseEmbeddingKind(s string) (EmbeddingKind, error) {
	for _, k := range AllKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidEmbeddingKind, s)
}

// VectorMeta records how a stored vector was generated.
type VectorMeta struct {
	Model       string
	Confidence  float32
	Duration    time.Duration
	GeneratedAt time.Time
}

// VectorSet is the set of vectors owned by one entity, keyed by kind.
// A missing kind is represented by absence from Vectors, never by a
// zero-vector: absence must not contribute to similarity scoring.
type VectorSet struct {
	EntityId   ID
	EntityType EntityType
	DocumentId ID
	Metadata   map[string]string // Searchable attributes (category, price, ...)
	Vectors    map[EmbeddingKind][]float32
	Meta       map[EmbeddingKind]VectorMeta
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Vector returns the vector of the given kind and whether it is present.
func (vs *VectorSet) Vector(kind EmbeddingKind) ([]float32, bool) {
	if vs == nil || vs.Vectors == nil {
		return nil, false
	}
	v, ok := vs.Vectors[kind]
	return v, ok && len(v) > 0
}

// Has reports whether the entity owns a vector of the given kind.
func (vs *VectorSet) Has(kind EmbeddingKind) bool {
	_, ok := vs.Vector(kind)
	return ok
}
