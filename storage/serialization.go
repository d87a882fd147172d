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


package storage

import (
	"github.com/poiesic/folio/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalJob serializes a Job to bytes.
func MarshalJob(job *core.Job) []byte {
	buf := make([]byte, core.JobMUS.Size(*job))
	core.JobMUS.Marshal(*job, buf)
	return buf
}

// UnmarshalJob deserializes a Job from bytes.
func UnmarshalJob(data []byte) (*core.Job, error) {
	job, _, err := core.JobMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// MarshalStageProgress serializes a StageProgress to bytes.
func MarshalStageProgress(progress *core.StageProgress) []byte {
	buf := make([]byte, core.StageProgressMUS.Size(*progress))
	core.StageProgressMUS.Marshal(*progress, buf)
	return buf
}

// UnmarshalStageProgress deserializes a StageProgress from bytes.
func UnmarshalStageProgress(data []byte) (*core.StageProgress, error) {
	progress, _, err := core.StageProgressMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalCatalogImage serializes a CatalogImage to bytes.
func MarshalCatalogImage(image *core.CatalogImage) []byte {
	buf := make([]byte, core.CatalogImageMUS.Size(*image))
	core.CatalogImageMUS.Marshal(*image, buf)
	return buf
}

// UnmarshalCatalogImage deserializes a CatalogImage from bytes.
func UnmarshalCatalogImage(data []byte) (*core.CatalogImage, error) {
	image, _, err := core.CatalogImageMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// MarshalProduct serializes a Product to bytes.
func MarshalProduct(product *core.Product) []byte {
	buf := make([]byte, core.ProductMUS.Size(*product))
	core.ProductMUS.Marshal(*product, buf)
	return buf
}

// UnmarshalProduct deserializes a Product from bytes.
func UnmarshalProduct(data []byte) (*core.Product, error) {
	product, _, err := core.ProductMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// MarshalPageText serializes a PageText to bytes.
func MarshalPageText(page *core.PageText) []byte {
	buf := make([]byte, core.PageTextMUS.Size(*page))
	core.PageTextMUS.Marshal(*page, buf)
	return buf
}

// UnmarshalPageText deserializes a PageText from bytes.
func UnmarshalPageText(data []byte) (*core.PageText, error) {
	page, _, err := core.PageTextMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// MarshalVectorSet serializes a VectorSet to bytes.
func MarshalVectorSet(set *core.VectorSet) []byte {
	buf := make([]byte, core.VectorSetMUS.Size(*set))
	core.VectorSetMUS.Marshal(*set, buf)
	return buf
}

// UnmarshalVectorSet deserializes a VectorSet from bytes.
func UnmarshalVectorSet(data []byte) (*core.VectorSet, error) {
	set, _, err := core.VectorSetMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// MarshalValidationItem serializes a ValidationItem to bytes.
func MarshalValidationItem(item *core.ValidationItem) []byte {
	buf := make([]byte, core.ValidationItemMUS.Size(*item))
	core.ValidationItemMUS.Marshal(*item, buf)
	return buf
}

// UnmarshalValidationItem deserializes a ValidationItem from bytes.
func UnmarshalValidationItem(data []byte) (*core.ValidationItem, error) {
	item, _, err := core.ValidationItemMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
