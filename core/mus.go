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

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain types stored in BadgerDB. Hand-written in
// the mus-go serializer style: every serializer provides Marshal, Unmarshal
// and Size over a fixed field order. Changing field order is a breaking
// change for existing databases.

// Exported serializer instances.
var (
	IDMUS             = idMUS{}
	JobMUS            = jobMUS{}
	StageProgressMUS  = stageProgressMUS{}
	ChunkMUS          = chunkMUS{}
	CatalogImageMUS   = catalogImageMUS{}
	ProductMUS        = productMUS{}
	PageTextMUS       = pageTextMUS{}
	VectorSetMUS      = vectorSetMUS{}
	ValidationItemMUS = validationItemMUS{}
)

// ---- primitive helpers ----

func marshalTime(t time.Time, bs []byte) (n int) {
	n = ord.Bool.Marshal(t.IsZero(), bs)
	if t.IsZero() {
		n += varint.Int64.Marshal(0, bs[n:])
	} else {
		n += varint.Int64.Marshal(t.UnixMicro(), bs[n:])
	}
	return n
}

func unmarshalTime(bs []byte) (t time.Time, n int, err error) {
	zero, n, err := ord.Bool.Unmarshal(bs)
	if err != nil {
		return
	}
	micro, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if !zero {
		t = time.UnixMicro(micro).UTC()
	}
	return
}

func sizeTime(t time.Time) (size int) {
	size = ord.Bool.Size(t.IsZero())
	if t.IsZero() {
		size += varint.Int64.Size(0)
	} else {
		size += varint.Int64.Size(t.UnixMicro())
	}
	return size
}

func marshalStringMap(m map[string]string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(m), bs)
	// Deterministic output is not required for storage, only roundtripping.
	for k, v := range m {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(v, bs[n:])
	}
	return n
}

func unmarshalStringMap(bs []byte) (m map[string]string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return
	}
	m = make(map[string]string, length)
	var n1 int
	var k, v string
	for i := 0; i < length; i++ {
		k, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		m[k] = v
	}
	return
}

func sizeStringMap(m map[string]string) (size int) {
	size = varint.Int.Size(len(m))
	for k, v := range m {
		size += ord.String.Size(k)
		size += ord.String.Size(v)
	}
	return size
}

func marshalStringSlice(s []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(s), bs)
	for _, v := range s {
		n += ord.String.Marshal(v, bs[n:])
	}
	return n
}

func unmarshalStringSlice(bs []byte) (s []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return
	}
	s = make([]string, length)
	var n1 int
	for i := 0; i < length; i++ {
		s[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func sizeStringSlice(s []string) (size int) {
	size = varint.Int.Size(len(s))
	for _, v := range s {
		size += ord.String.Size(v)
	}
	return size
}

func marshalFloat32Slice(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalFloat32Slice(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		v[i], n1, err = varint.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func sizeFloat32Slice(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return size
}

func marshalBytes(b []byte, bs []byte) (n int) {
	n = varint.Int.Marshal(len(b), bs)
	n += copy(bs[n:], b)
	return n
}

func unmarshalBytes(bs []byte) (b []byte, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return
	}
	b = make([]byte, length)
	n += copy(b, bs[n:n+length])
	return
}

func sizeBytes(b []byte) (size int) {
	return varint.Int.Size(len(b)) + len(b)
}

func marshalIDSlice(ids []ID, bs []byte) (n int) {
	n = varint.Int.Marshal(len(ids), bs)
	for _, id := range ids {
		n += varint.Uint64.Marshal(uint64(id), bs[n:])
	}
	return n
}

func unmarshalIDSlice(bs []byte) (ids []ID, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return
	}
	ids = make([]ID, length)
	var n1 int
	var v uint64
	for i := 0; i < length; i++ {
		v, n1, err = varint.Uint64.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		ids[i] = ID(v)
	}
	return
}

func sizeIDSlice(ids []ID) (size int) {
	size = varint.Int.Size(len(ids))
	for _, id := range ids {
		size += varint.Uint64.Size(uint64(id))
	}
	return size
}

// ---- ID ----

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

// ---- Job ----

type jobMUS struct{}

func (jobMUS) Marshal(j Job, bs []byte) (n int) {
	n = ord.String.Marshal(j.Id, bs)
	n += ord.String.Marshal(j.DocumentRef, bs[n:])
	n += varint.Uint64.Marshal(uint64(j.DocumentId), bs[n:])
	n += varint.Int.Marshal(int(j.Status), bs[n:])
	n += varint.Float64.Marshal(j.Progress, bs[n:])
	n += ord.String.Marshal(j.CurrentStage, bs[n:])
	n += ord.String.Marshal(j.Checkpoint, bs[n:])
	n += varint.Int.Marshal(j.TotalStages, bs[n:])
	n += ord.String.Marshal(j.FailedStage, bs[n:])
	n += ord.String.Marshal(j.Error, bs[n:])
	n += marshalStringMap(j.Result, bs[n:])
	n += marshalTime(j.CreatedAt, bs[n:])
	n += marshalTime(j.UpdatedAt, bs[n:])
	n += marshalTime(j.CompletedAt, bs[n:])
	return n
}

func (jobMUS) Unmarshal(bs []byte) (j Job, n int, err error) {
	var n1 int
	if j.Id, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if j.DocumentRef, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	var docID uint64
	if docID, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	j.DocumentId = ID(docID)
	n += n1
	var status int
	if status, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	j.Status = JobStatus(status)
	n += n1
	if j.Progress, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.CurrentStage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.Checkpoint, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.TotalStages, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.FailedStage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.Error, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.Result, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.CreatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	j.CompletedAt, n1, err = unmarshalTime(bs[n:])
	return j, n + n1, err
}

func (jobMUS) Size(j Job) (size int) {
	size = ord.String.Size(j.Id)
	size += ord.String.Size(j.DocumentRef)
	size += varint.Uint64.Size(uint64(j.DocumentId))
	size += varint.Int.Size(int(j.Status))
	size += varint.Float64.Size(j.Progress)
	size += ord.String.Size(j.CurrentStage)
	size += ord.String.Size(j.Checkpoint)
	size += varint.Int.Size(j.TotalStages)
	size += ord.String.Size(j.FailedStage)
	size += ord.String.Size(j.Error)
	size += sizeStringMap(j.Result)
	size += sizeTime(j.CreatedAt)
	size += sizeTime(j.UpdatedAt)
	size += sizeTime(j.CompletedAt)
	return size
}

// ---- StageProgress ----

type stageProgressMUS struct{}

func (stageProgressMUS) Marshal(p StageProgress, bs []byte) (n int) {
	n = ord.String.Marshal(p.JobId, bs)
	n += ord.String.Marshal(p.Stage, bs[n:])
	n += varint.Float64.Marshal(p.Percent, bs[n:])
	n += varint.Int.Marshal(p.ItemsTotal, bs[n:])
	n += varint.Int.Marshal(p.ItemsDone, bs[n:])
	n += marshalStringMap(p.Metadata, bs[n:])
	n += marshalTime(p.UpdatedAt, bs[n:])
	return n
}

func (stageProgressMUS) Unmarshal(bs []byte) (p StageProgress, n int, err error) {
	var n1 int
	if p.JobId, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if p.Stage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Percent, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.ItemsTotal, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.ItemsDone, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Metadata, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	p.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	return p, n + n1, err
}

func (stageProgressMUS) Size(p StageProgress) (size int) {
	size = ord.String.Size(p.JobId)
	size += ord.String.Size(p.Stage)
	size += varint.Float64.Size(p.Percent)
	size += varint.Int.Size(p.ItemsTotal)
	size += varint.Int.Size(p.ItemsDone)
	size += sizeStringMap(p.Metadata)
	size += sizeTime(p.UpdatedAt)
	return size
}

// ---- Chunk ----

type chunkMUS struct{}

func (chunkMUS) Marshal(c Chunk, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(c.Id), bs)
	n += varint.Uint64.Marshal(uint64(c.DocumentId), bs[n:])
	n += ord.String.Marshal(c.Contents, bs[n:])
	n += ord.String.Marshal(c.ContentHash, bs[n:])
	n += varint.Float32.Marshal(c.Quality, bs[n:])
	n += varint.Int.Marshal(c.Ordinal, bs[n:])
	n += varint.Int.Marshal(c.Page, bs[n:])
	n += marshalStringMap(c.Metadata, bs[n:])
	n += marshalTime(c.InsertedAt, bs[n:])
	n += marshalTime(c.UpdatedAt, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	var v uint64
	if v, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	c.Id = ID(v)
	if v, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	c.DocumentId = ID(v)
	n += n1
	if c.Contents, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.ContentHash, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Quality, n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Page, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Metadata, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	c.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	return c, n + n1, err
}

func (chunkMUS) Size(c Chunk) (size int) {
	size = varint.Uint64.Size(uint64(c.Id))
	size += varint.Uint64.Size(uint64(c.DocumentId))
	size += ord.String.Size(c.Contents)
	size += ord.String.Size(c.ContentHash)
	size += varint.Float32.Size(c.Quality)
	size += varint.Int.Size(c.Ordinal)
	size += varint.Int.Size(c.Page)
	size += sizeStringMap(c.Metadata)
	size += sizeTime(c.InsertedAt)
	size += sizeTime(c.UpdatedAt)
	return size
}

// ---- CatalogImage ----

type catalogImageMUS struct{}

func (catalogImageMUS) Marshal(img CatalogImage, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(img.Id), bs)
	n += varint.Uint64.Marshal(uint64(img.DocumentId), bs[n:])
	n += varint.Int.Marshal(img.Page, bs[n:])
	n += ord.String.Marshal(img.Caption, bs[n:])
	n += marshalBytes(img.Data, bs[n:])
	n += ord.Bool.Marshal(img.Analysis != nil, bs[n:])
	if img.Analysis != nil {
		a := img.Analysis
		n += marshalStringSlice(a.Materials, bs[n:])
		n += marshalStringSlice(a.Colors, bs[n:])
		n += marshalStringSlice(a.Textures, bs[n:])
		n += ord.String.Marshal(a.OCRText, bs[n:])
		n += varint.Float32.Marshal(a.QualityScore, bs[n:])
		n += varint.Float32.Marshal(a.Confidence, bs[n:])
		n += ord.String.Marshal(a.Model, bs[n:])
		n += marshalTime(a.AnalyzedAt, bs[n:])
	}
	n += marshalStringMap(img.Metadata, bs[n:])
	n += marshalTime(img.InsertedAt, bs[n:])
	n += marshalTime(img.UpdatedAt, bs[n:])
	return n
}

func (catalogImageMUS) Unmarshal(bs []byte) (img CatalogImage, n int, err error) {
	var n1 int
	var v uint64
	if v, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	img.Id = ID(v)
	if v, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return img, n + n1, err
	}
	img.DocumentId = ID(v)
	n += n1
	if img.Page, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return img, n + n1, err
	}
	n += n1
	if img.Caption, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return img, n + n1, err
	}
	n += n1
	if img.Data, n1, err = unmarshalBytes(bs[n:]); err != nil {
		return img, n + n1, err
	}
	n += n1
	var hasAnalysis bool
	if hasAnalysis, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return img, n + n1, err
	}
	n += n1
	if hasAnalysis {
		a := &ImageAnalysis{}
		if a.Materials, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
			return img, n + n1, err
		}
		n += n1
		if a.Colors, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
			return img, n + n1, err
		}
		n += n1
		if a.Textures, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
			return img, n + n1, err
		}
		n += n1
		if a.OCRText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return img, n + n1, err
		}
		n += n1
		if a.QualityScore, n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
			return img, n + n1, err
		}
		n += n1
		if a.Confidence, n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
			return img, n + n1, err
		}
		n += n1
		if a.Model, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return img, n + n1, err
		}
		n += n1
		if a.AnalyzedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
			return img, n + n1, err
		}
		n += n1
		img.Analysis = a
	}
	if img.Metadata, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return img, n + n1, err
	}
	n += n1
	if img.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return img, n + n1, err
	}
	n += n1
	img.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	return img, n + n1, err
}

func (catalogImageMUS) Size(img CatalogImage) (size int) {
	size = varint.Uint64.Size(uint64(img.Id))
	size += varint.Uint64.Size(uint64(img.DocumentId))
	size += varint.Int.Size(img.Page)
	size += ord.String.Size(img.Caption)
	size += sizeBytes(img.Data)
	size += ord.Bool.Size(img.Analysis != nil)
	if img.Analysis != nil {
		a := img.Analysis
		size += sizeStringSlice(a.Materials)
		size += sizeStringSlice(a.Colors)
		size += sizeStringSlice(a.Textures)
		size += ord.String.Size(a.OCRText)
		size += varint.Float32.Size(a.QualityScore)
		size += varint.Float32.Size(a.Confidence)
		size += ord.String.Size(a.Model)
		size += sizeTime(a.AnalyzedAt)
	}
	size += sizeStringMap(img.Metadata)
	size += sizeTime(img.InsertedAt)
	size += sizeTime(img.UpdatedAt)
	return size
}

// ---- Product ----

type productMUS struct{}

func (productMUS) Marshal(p Product, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(p.Id), bs)
	n += varint.Uint64.Marshal(uint64(p.DocumentId), bs[n:])
	n += ord.String.Marshal(p.Name, bs[n:])
	n += ord.String.Marshal(p.Description, bs[n:])
	n += ord.String.Marshal(p.Category, bs[n:])
	n += varint.Int.Marshal(p.Page, bs[n:])
	n += marshalIDSlice(p.ImageIds, bs[n:])
	n += marshalStringMap(p.Metadata, bs[n:])
	n += marshalTime(p.InsertedAt, bs[n:])
	n += marshalTime(p.UpdatedAt, bs[n:])
	return n
}

func (productMUS) Unmarshal(bs []byte) (p Product, n int, err error) {
	var n1 int
	var v uint64
	if v, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	p.Id = ID(v)
	if v, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	p.DocumentId = ID(v)
	n += n1
	if p.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Category, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Page, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.ImageIds, n1, err = unmarshalIDSlice(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Metadata, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	p.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	return p, n + n1, err
}

func (productMUS) Size(p Product) (size int) {
	size = varint.Uint64.Size(uint64(p.Id))
	size += varint.Uint64.Size(uint64(p.DocumentId))
	size += ord.String.Size(p.Name)
	size += ord.String.Size(p.Description)
	size += ord.String.Size(p.Category)
	size += varint.Int.Size(p.Page)
	size += sizeIDSlice(p.ImageIds)
	size += sizeStringMap(p.Metadata)
	size += sizeTime(p.InsertedAt)
	size += sizeTime(p.UpdatedAt)
	return size
}

// ---- PageText ----

type pageTextMUS struct{}

func (pageTextMUS) Marshal(p PageText, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(p.DocumentId), bs)
	n += varint.Int.Marshal(p.Page, bs[n:])
	n += ord.String.Marshal(p.Contents, bs[n:])
	n += marshalTime(p.InsertedAt, bs[n:])
	return n
}

func (pageTextMUS) Unmarshal(bs []byte) (p PageText, n int, err error) {
	var n1 int
	var v uint64
	if v, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	p.DocumentId = ID(v)
	if p.Page, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Contents, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	p.InsertedAt, n1, err = unmarshalTime(bs[n:])
	return p, n + n1, err
}

func (pageTextMUS) Size(p PageText) (size int) {
	size = varint.Uint64.Size(uint64(p.DocumentId))
	size += varint.Int.Size(p.Page)
	size += ord.String.Size(p.Contents)
	size += sizeTime(p.InsertedAt)
	return size
}

// ---- VectorSet ----

type vectorSetMUS struct{}

func (vectorSetMUS) Marshal(vs VectorSet, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(vs.EntityId), bs)
	n += varint.Int.Marshal(int(vs.EntityType), bs[n:])
	n += varint.Uint64.Marshal(uint64(vs.DocumentId), bs[n:])
	n += marshalStringMap(vs.Metadata, bs[n:])
	n += varint.Int.Marshal(len(vs.Vectors), bs[n:])
	for kind, vec := range vs.Vectors {
		n += varint.Int.Marshal(int(kind), bs[n:])
		n += marshalFloat32Slice(vec, bs[n:])
	}
	n += varint.Int.Marshal(len(vs.Meta), bs[n:])
	for kind, meta := range vs.Meta {
		n += varint.Int.Marshal(int(kind), bs[n:])
		n += ord.String.Marshal(meta.Model, bs[n:])
		n += varint.Float32.Marshal(meta.Confidence, bs[n:])
		n += varint.Int64.Marshal(int64(meta.Duration), bs[n:])
		n += marshalTime(meta.GeneratedAt, bs[n:])
	}
	n += marshalTime(vs.InsertedAt, bs[n:])
	n += marshalTime(vs.UpdatedAt, bs[n:])
	return n
}

func (vectorSetMUS) Unmarshal(bs []byte) (vs VectorSet, n int, err error) {
	var n1 int
	var v uint64
	if v, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	vs.EntityId = ID(v)
	var et int
	if et, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return vs, n + n1, err
	}
	vs.EntityType = EntityType(et)
	n += n1
	if v, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return vs, n + n1, err
	}
	vs.DocumentId = ID(v)
	n += n1
	if vs.Metadata, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return vs, n + n1, err
	}
	n += n1
	var count int
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return vs, n + n1, err
	}
	n += n1
	if count > 0 {
		vs.Vectors = make(map[EmbeddingKind][]float32, count)
		for i := 0; i < count; i++ {
			var kind int
			if kind, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
				return vs, n + n1, err
			}
			n += n1
			var vec []float32
			if vec, n1, err = unmarshalFloat32Slice(bs[n:]); err != nil {
				return vs, n + n1, err
			}
			n += n1
			vs.Vectors[EmbeddingKind(kind)] = vec
		}
	}
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return vs, n + n1, err
	}
	n += n1
	if count > 0 {
		vs.Meta = make(map[EmbeddingKind]VectorMeta, count)
		for i := 0; i < count; i++ {
			var kind int
			if kind, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
				return vs, n + n1, err
			}
			n += n1
			var meta VectorMeta
			if meta.Model, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return vs, n + n1, err
			}
			n += n1
			if meta.Confidence, n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
				return vs, n + n1, err
			}
			n += n1
			var dur int64
			if dur, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
				return vs, n + n1, err
			}
			meta.Duration = time.Duration(dur)
			n += n1
			if meta.GeneratedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
				return vs, n + n1, err
			}
			n += n1
			vs.Meta[EmbeddingKind(kind)] = meta
		}
	}
	if vs.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return vs, n + n1, err
	}
	n += n1
	vs.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	return vs, n + n1, err
}

func (vectorSetMUS) Size(vs VectorSet) (size int) {
	size = varint.Uint64.Size(uint64(vs.EntityId))
	size += varint.Int.Size(int(vs.EntityType))
	size += varint.Uint64.Size(uint64(vs.DocumentId))
	size += sizeStringMap(vs.Metadata)
	size += varint.Int.Size(len(vs.Vectors))
	for kind, vec := range vs.Vectors {
		size += varint.Int.Size(int(kind))
		size += sizeFloat32Slice(vec)
	}
	size += varint.Int.Size(len(vs.Meta))
	for kind, meta := range vs.Meta {
		size += varint.Int.Size(int(kind))
		size += ord.String.Size(meta.Model)
		size += varint.Float32.Size(meta.Confidence)
		size += varint.Int64.Size(int64(meta.Duration))
		size += sizeTime(meta.GeneratedAt)
	}
	size += sizeTime(vs.InsertedAt)
	size += sizeTime(vs.UpdatedAt)
	return size
}

// ---- ValidationItem ----

type validationItemMUS struct{}

func (validationItemMUS) Marshal(it ValidationItem, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(it.Id), bs)
	n += varint.Uint64.Marshal(uint64(it.DocumentId), bs[n:])
	n += varint.Uint64.Marshal(uint64(it.EntityId), bs[n:])
	n += varint.Int.Marshal(int(it.EntityType), bs[n:])
	n += ord.String.Marshal(it.Reason, bs[n:])
	n += varint.Int.Marshal(it.Priority, bs[n:])
	n += varint.Int.Marshal(int(it.Status), bs[n:])
	n += varint.Int.Marshal(it.RetryCount, bs[n:])
	n += marshalStringMap(it.Metadata, bs[n:])
	n += marshalTime(it.InsertedAt, bs[n:])
	n += marshalTime(it.UpdatedAt, bs[n:])
	n += marshalTime(it.CompletedAt, bs[n:])
	return n
}

func (validationItemMUS) Unmarshal(bs []byte) (it ValidationItem, n int, err error) {
	var n1 int
	var v uint64
	if v, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	it.Id = ID(v)
	if v, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return it, n + n1, err
	}
	it.DocumentId = ID(v)
	n += n1
	if v, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return it, n + n1, err
	}
	it.EntityId = ID(v)
	n += n1
	var iv int
	if iv, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return it, n + n1, err
	}
	it.EntityType = EntityType(iv)
	n += n1
	if it.Reason, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return it, n + n1, err
	}
	n += n1
	if it.Priority, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return it, n + n1, err
	}
	n += n1
	if iv, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return it, n + n1, err
	}
	it.Status = ValidationStatus(iv)
	n += n1
	if it.RetryCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return it, n + n1, err
	}
	n += n1
	if it.Metadata, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return it, n + n1, err
	}
	n += n1
	if it.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return it, n + n1, err
	}
	n += n1
	if it.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return it, n + n1, err
	}
	n += n1
	it.CompletedAt, n1, err = unmarshalTime(bs[n:])
	return it, n + n1, err
}

func (validationItemMUS) Size(it ValidationItem) (size int) {
	size = varint.Uint64.Size(uint64(it.Id))
	size += varint.Uint64.Size(uint64(it.DocumentId))
	size += varint.Uint64.Size(uint64(it.EntityId))
	size += varint.Int.Size(int(it.EntityType))
	size += ord.String.Size(it.Reason)
	size += varint.Int.Size(it.Priority)
	size += varint.Int.Size(int(it.Status))
	size += varint.Int.Size(it.RetryCount)
	size += sizeStringMap(it.Metadata)
	size += sizeTime(it.InsertedAt)
	size += sizeTime(it.UpdatedAt)
	size += sizeTime(it.CompletedAt)
	return size
}
