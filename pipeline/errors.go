package pipeline

import "errors"

var (
	// ErrJobRepositoryRequired is returned when a job repository is not provided.
	ErrJobRepositoryRequired = errors.New("job repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrCatalogRepositoryRequired is returned when a catalog repository is not provided.
	ErrCatalogRepositoryRequired = errors.New("catalog repository required")

	// ErrValidationRepositoryRequired is returned when a validation repository is not provided.
	ErrValidationRepositoryRequired = errors.New("validation repository required")

	// ErrVectorRepositoryRequired is returned when a vector repository is not provided.
	ErrVectorRepositoryRequired = errors.New("vector repository required")

	// ErrQualityPersisterRequired is returned when a quality persister is not provided.
	ErrQualityPersisterRequired = errors.New("quality persister required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrSourceRequired is returned when a document source is not provided.
	ErrSourceRequired = errors.New("document source required")

	// ErrEmbeddingServiceRequired is returned when an embedding service is not provided.
	ErrEmbeddingServiceRequired = errors.New("embedding service required")

	// ErrInvalidDocument is returned by Submit when the document reference
	// is empty or names nothing the source can read.
	ErrInvalidDocument = errors.New("invalid document reference")

	// ErrJobNotResumable is returned when resuming a job that already
	// completed or that another runner is actively working.
	ErrJobNotResumable = errors.New("job not resumable")

	// ErrUnknownStage is returned when a job checkpoint names a stage the
	// pipeline does not know, which indicates version skew.
	ErrUnknownStage = errors.New("unknown stage")
)
