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


// Package document abstracts where catalog documents come from.
//
// A Source resolves an opaque document reference into pages of text and
// images. The ingestion pipeline only ever talks to this interface, so
// local extracted corpora and remote stores plug in interchangeably.
package document

import (
	"context"
	"errors"
)

var (
	// ErrUnresolvable indicates the reference does not name a readable document.
	ErrUnresolvable = errors.New("document reference unresolvable")

	// ErrNoSuchPage indicates a page number outside the document.
	ErrNoSuchPage = errors.New("no such page")
)

// Info describes a resolved document.
type Info struct {
	// Ref is the reference the document was resolved from.
	Ref string

	// PageCount is the number of pages the source can serve.
	PageCount int
}

// Image is one image lifted from a document page.
type Image struct {
	// Page is the 1-based page the image appears on.
	Page int

	// Caption is the text printed with the image, empty if none.
	Caption string

	// Data is the raw encoded image.
	Data []byte
}

// Source serves document content to the ingestion pipeline.
// Implementations must be thread-safe for concurrent use.
type Source interface {
	// Resolve checks the reference and reports the document's shape.
	// Returns ErrUnresolvable if the reference names nothing readable.
	Resolve(ctx context.Context, ref string) (*Info, error)

	// PageText returns the extracted text of a 1-based page.
	// Returns ErrNoSuchPage for pages outside the document.
	PageText(ctx context.Context, ref string, page int) (string, error)

	// PageImages returns the images of a 1-based page, in layout order.
	// Returns ErrNoSuchPage for pages outside the document.
	PageImages(ctx context.Context, ref string, page int) ([]Image, error)
}
