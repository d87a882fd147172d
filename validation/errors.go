package validation

import "errors"

var (
	// ErrQueueRequired is returned when a validation repository is not provided.
	ErrQueueRequired = errors.New("validation repository required")

	// ErrCatalogRequired is returned when a catalog repository is not provided.
	ErrCatalogRequired = errors.New("catalog repository required")

	// ErrAnalyzerRequired is returned when a vision analyzer is not provided.
	ErrAnalyzerRequired = errors.New("vision analyzer required")
)
