package core

import (
	"errors"
	"testing"
)

func TestValidateJob(t *testing.T) {
	tests := []struct {
		name    string
		job     *Job
		wantErr error
	}{
		{
			name: "valid job",
			job: &Job{
				Id:          "job-1",
				DocumentRef: "catalogs/varberg.pdf",
				Status:      JobStatusPending,
			},
			wantErr: nil,
		},
		{
			name:    "nil job",
			job:     nil,
			wantErr: ErrInvalidJob,
		},
		{
			name:    "empty document ref",
			job:     &Job{Id: "job-1", Status: JobStatusPending},
			wantErr: ErrEmptyDocumentRef,
		},
		{
			name:    "zero status",
			job:     &Job{Id: "job-1", DocumentRef: "x.pdf"},
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "out of range status",
			job:     &Job{Id: "job-1", DocumentRef: "x.pdf", Status: JobStatus(9)},
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJob(tt.job)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateJob() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateJob() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &Chunk{
				Contents:    "Steam-bent oak frame.",
				ContentHash: "abc123",
				Quality:     0.7,
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty contents",
			chunk:   &Chunk{ContentHash: "abc123"},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "missing hash",
			chunk:   &Chunk{Contents: "text"},
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "quality above one",
			chunk:   &Chunk{Contents: "text", ContentHash: "abc", Quality: 1.5},
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "negative quality",
			chunk:   &Chunk{Contents: "text", ContentHash: "abc", Quality: -0.1},
			wantErr: ErrInvalidChunk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateValidationItem(t *testing.T) {
	tests := []struct {
		name    string
		item    *ValidationItem
		wantErr error
	}{
		{
			name: "valid item",
			item: &ValidationItem{
				EntityId:   ID(5),
				EntityType: EntityTypeImage,
				Priority:   20,
				Status:     ValidationPending,
			},
			wantErr: nil,
		},
		{
			name:    "nil item",
			item:    nil,
			wantErr: ErrInvalidValidationItem,
		},
		{
			name: "zero entity id",
			item: &ValidationItem{
				EntityType: EntityTypeImage,
				Status:     ValidationPending,
			},
			wantErr: ErrInvalidValidationItem,
		},
		{
			name: "bad entity type",
			item: &ValidationItem{
				EntityId:   ID(5),
				EntityType: EntityType(7),
				Status:     ValidationPending,
			},
			wantErr: ErrInvalidEntityType,
		},
		{
			name: "negative priority",
			item: &ValidationItem{
				EntityId:   ID(5),
				EntityType: EntityTypeImage,
				Priority:   -1,
				Status:     ValidationPending,
			},
			wantErr: ErrInvalidPriority,
		},
		{
			name: "zero status",
			item: &ValidationItem{
				EntityId:   ID(5),
				EntityType: EntityTypeImage,
			},
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateValidationItem(tt.item)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateValidationItem() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateValidationItem() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEntityType(t *testing.T) {
	for _, et := range []EntityType{EntityTypeChunk, EntityTypeImage, EntityTypeProduct} {
		if err := ValidateEntityType(et); err != nil {
			t.Errorf("ValidateEntityType(%s) = %v, want nil", et, err)
		}
	}
	if err := ValidateEntityType(EntityType(0)); !errors.Is(err, ErrInvalidEntityType) {
		t.Errorf("ValidateEntityType(0) = %v, want ErrInvalidEntityType", err)
	}
}
