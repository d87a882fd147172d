package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

func TestPageTextRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := core.IDFromContent("doc-pages")

	// Save out of page order; retrieval must come back in page order.
	for _, page := range []int{2, 1, 3} {
		pt := &core.PageText{
			DocumentId: docID,
			Page:       page,
			Contents:   "page body",
		}
		if err := store.Catalog.SavePageText(ctx, pt); err != nil {
			t.Fatalf("Failed to save page %d: %v", page, err)
		}
	}

	pages, err := store.Catalog.GetPageTexts(ctx, docID)
	if err != nil {
		t.Fatalf("Failed to get page texts: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(pages))
	}
	for i, pt := range pages {
		if pt.Page != i+1 {
			t.Fatalf("Expected page %d at position %d, got %d", i+1, i, pt.Page)
		}
	}

	// Saving the same page again overwrites it.
	if err := store.Catalog.SavePageText(ctx, &core.PageText{DocumentId: docID, Page: 2, Contents: "revised"}); err != nil {
		t.Fatalf("Failed to overwrite page: %v", err)
	}
	pages, err = store.Catalog.GetPageTexts(ctx, docID)
	if err != nil {
		t.Fatalf("Failed to get page texts: %v", err)
	}
	if len(pages) != 3 || pages[1].Contents != "revised" {
		t.Fatalf("Expected overwritten page 2, got %d pages", len(pages))
	}

	if err := store.Catalog.DeletePageTexts(ctx, docID); err != nil {
		t.Fatalf("Failed to delete page texts: %v", err)
	}
	pages, err = store.Catalog.GetPageTexts(ctx, docID)
	if err != nil {
		t.Fatalf("Failed to get page texts after delete: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("Expected no pages after delete, got %d", len(pages))
	}
}

func TestImageIfNewAndUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := core.IDFromContent("doc-images")

	data := []byte{0x89, 0x50, 0x4e, 0x47, 1, 2, 3}
	image := &core.CatalogImage{
		Id:         core.IDFromContent(string(data)),
		DocumentId: docID,
		Page:       4,
		Caption:    "Aalto lounge chair in walnut",
		Data:       data,
	}

	inserted, err := store.Catalog.AddImageIfNew(ctx, image)
	if err != nil {
		t.Fatalf("Failed to add image: %v", err)
	}
	if !inserted {
		t.Fatal("Expected first insert to report true")
	}

	inserted, err = store.Catalog.AddImageIfNew(ctx, image)
	if err != nil {
		t.Fatalf("Failed on duplicate add: %v", err)
	}
	if inserted {
		t.Fatal("Expected duplicate insert to report false")
	}

	got, err := store.Catalog.GetImage(ctx, image.Id)
	if err != nil {
		t.Fatalf("Failed to get image: %v", err)
	}
	if got.Caption != image.Caption || got.Page != 4 {
		t.Fatalf("Expected image to round-trip, got %+v", got)
	}
	if got.Analysis != nil {
		t.Fatal("Expected no analysis on a freshly extracted image")
	}

	got.Analysis = &core.ImageAnalysis{
		Materials:  []string{"walnut"},
		Colors:     []string{"brown"},
		Confidence: 0.85,
		Model:      "vision-test",
	}
	if _, err := store.Catalog.UpdateImages(ctx, got); err != nil {
		t.Fatalf("Failed to update image: %v", err)
	}

	analyzed, err := store.Catalog.GetImage(ctx, image.Id)
	if err != nil {
		t.Fatalf("Failed to get analyzed image: %v", err)
	}
	if analyzed.Analysis == nil || analyzed.Analysis.Confidence != 0.85 {
		t.Fatalf("Expected analysis to persist, got %+v", analyzed.Analysis)
	}

	images, err := store.Catalog.GetImagesByDocument(ctx, docID)
	if err != nil {
		t.Fatalf("Failed to list images: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("Expected 1 image, got %d", len(images))
	}

	phantom := &core.CatalogImage{Id: core.ID(99), DocumentId: docID, Data: []byte{9}}
	if _, err := store.Catalog.UpdateImages(ctx, phantom); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown image, got %v", err)
	}

	if _, err := store.Catalog.GetImage(ctx, core.ID(12345)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown image id, got %v", err)
	}
}

func TestProductIfNewAssignsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := core.IDFromContent("doc-products")

	product := &core.Product{
		DocumentId:  docID,
		Name:        "Aalto Lounge Chair",
		Description: "Steam-bent oak frame with wool upholstery.",
		Category:    "seating",
		Page:        2,
	}

	inserted, err := store.Catalog.AddProductIfNew(ctx, product)
	if err != nil {
		t.Fatalf("Failed to add product: %v", err)
	}
	if !inserted {
		t.Fatal("Expected first insert to report true")
	}
	if product.Id == 0 {
		t.Fatal("Expected a content-derived ID to be assigned")
	}
	if product.Id != core.IDFromContent(product.Key()) {
		t.Fatal("Expected the assigned ID to be derived from the product key")
	}

	// Same (document, name) is a duplicate even from a different page.
	dup := &core.Product{
		DocumentId: docID,
		Name:       "Aalto Lounge Chair",
		Page:       7,
	}
	inserted, err = store.Catalog.AddProductIfNew(ctx, dup)
	if err != nil {
		t.Fatalf("Failed on duplicate add: %v", err)
	}
	if inserted {
		t.Fatal("Expected duplicate insert to report false")
	}

	other := &core.Product{DocumentId: docID, Name: "Fjord Dining Table"}
	if _, err := store.Catalog.AddProductIfNew(ctx, other); err != nil {
		t.Fatalf("Failed to add second product: %v", err)
	}

	products, err := store.Catalog.GetProductsByDocument(ctx, docID)
	if err != nil {
		t.Fatalf("Failed to list products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(products))
	}

	_, err = store.Catalog.AddProductIfNew(ctx, &core.Product{DocumentId: docID})
	if !errors.Is(err, core.ErrInvalidProduct) {
		t.Fatalf("Expected ErrInvalidProduct for empty name, got %v", err)
	}
}

func TestUpdateProducts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := core.IDFromContent("doc-product-update")

	product := &core.Product{DocumentId: docID, Name: "Birch Shelf"}
	if _, err := store.Catalog.AddProductIfNew(ctx, product); err != nil {
		t.Fatalf("Failed to add product: %v", err)
	}

	product.ImageIds = []core.ID{11, 42}
	if _, err := store.Catalog.UpdateProducts(ctx, product); err != nil {
		t.Fatalf("Failed to update product: %v", err)
	}

	got, err := store.Catalog.GetProduct(ctx, product.Id)
	if err != nil {
		t.Fatalf("Failed to get product: %v", err)
	}
	if len(got.ImageIds) != 2 || got.ImageIds[1] != 42 {
		t.Fatalf("Expected image links to persist, got %v", got.ImageIds)
	}

	phantom := &core.Product{Id: core.ID(7), DocumentId: docID, Name: "Ghost"}
	if _, err := store.Catalog.UpdateProducts(ctx, phantom); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown product, got %v", err)
	}
}
