// Seeder generates a synthetic catalog document in the directory layout
// the folio document source reads, and optionally runs a full ingestion
// over it with the mock AI provider. Useful for demos and for exercising
// the pipeline without a PDF extractor or a model server.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	folio "github.com/poiesic/folio"
	"github.com/poiesic/folio/ai/mock"
	"github.com/poiesic/folio/document"
)

type seedProduct struct {
	name        string
	description string
	dimensions  string
	tint        color.RGBA
}

var products = []seedProduct{
	{
		name:        "AALTO LOUNGE CHAIR",
		description: "A sculptural lounge chair with a steam-bent oak frame and wool upholstery. The seat cradles without confining, and the wide armrests double as a resting place for a book or a cup.",
		dimensions:  "72 x 80 x 78 cm",
		tint:        color.RGBA{R: 160, G: 120, B: 70, A: 255},
	},
	{
		name:        "NORDHAV DINING TABLE",
		description: "An extendable dining table in solid ash with a soaped finish. Two butterfly leaves stow beneath the top, taking the table from six seats to ten in under a minute.",
		dimensions:  "200 x 95 x 74 cm",
		tint:        color.RGBA{R: 210, G: 195, B: 170, A: 255},
	},
	{
		name:        "BRUMMEL SOFA",
		description: "A three-seat sofa built on a beech frame with pocket springs and loose back cushions. The linen cover zips off for cleaning and the legs unscrew for narrow stairwells.",
		dimensions:  "230 x 98 x 82 cm",
		tint:        color.RGBA{R: 90, G: 110, B: 140, A: 255},
	},
	{
		name:        "KILTA PENDANT LAMP",
		description: "A spun-steel pendant lamp with a matte powder coat and a fabric cord. The shade's curve throws light down onto the table and a soft corona onto the ceiling.",
		dimensions:  "45 x 45 x 30 cm",
		tint:        color.RGBA{R: 60, G: 60, B: 65, A: 255},
	},
}

func main() {
	out := flag.String("out", "./seed", "Directory to write the synthetic catalog into")
	name := flag.String("name", "varberg-collection", "Document reference (subdirectory name)")
	db := flag.String("db", "", "If set, ingest the seeded document into this database with the mock provider")
	flag.Parse()

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	docDir := filepath.Join(*out, *name)
	if err := seed(docDir); err != nil {
		slog.Error("seeding failed", "err", err)
		os.Exit(1)
	}
	slog.Info("seeded document", "dir", docDir, "pages", len(products)+2)

	if *db == "" {
		return
	}
	if err := ingest(*db, *out, *name); err != nil {
		slog.Error("ingestion failed", "err", err)
		os.Exit(1)
	}
}

// seed writes the page texts and images of a small furniture catalog.
// Page 1 is the collection front matter, each product gets its own page,
// and the last page is an index.
func seed(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	pages := []string{frontMatter()}
	for _, p := range products {
		pages = append(pages, productPage(p))
	}
	pages = append(pages, indexPage())

	for i, text := range pages {
		path := filepath.Join(dir, fmt.Sprintf("page-%03d.txt", i+1))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return err
		}
	}

	// One image per product page, tinted per product so the content-based
	// image IDs differ.
	for i, p := range products {
		page := i + 2
		imgPath := filepath.Join(dir, fmt.Sprintf("page-%03d-img-01.png", page))
		data, err := renderSwatch(p.tint)
		if err != nil {
			return err
		}
		if err := os.WriteFile(imgPath, data, 0o644); err != nil {
			return err
		}
		capPath := filepath.Join(dir, fmt.Sprintf("page-%03d-img-01.caption", page))
		if err := os.WriteFile(capPath, []byte(p.name), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func frontMatter() string {
	return `Varberg Collection

Designed by Marta Ekholm

The Varberg collection brings together four pieces that share a material
language: solid Nordic hardwoods, wool and linen textiles, and quiet
steel details. Each piece is made to order in our Kalmar workshop.

All wood is FSC certified and sourced within 300 km of the workshop.
Textiles carry the EU Ecolabel. Products ship flat-packed in recycled
cardboard with no plastic fillers.`
}

func productPage(p seedProduct) string {
	return fmt.Sprintf(`%s

%s

Technical specification
Dimensions: %s
Material: solid hardwood, wool, steel
Weight capacity: 150 kg
Care: wipe with a damp cloth; oil annually
`, p.name, p.description, p.dimensions)
}

func indexPage() string {
	var buf bytes.Buffer
	buf.WriteString("Table of contents\n\n")
	for i, p := range products {
		fmt.Fprintf(&buf, "%s ........ %d\n", p.name, i+2)
	}
	return buf.String()
}

// renderSwatch encodes a small single-color PNG.
func renderSwatch(tint color.RGBA) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, tint)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ingest runs the full pipeline over the seeded document using the mock
// provider, then prints what landed in storage.
func ingest(dbPath, root, ref string) error {
	ctx := context.Background()

	catalog, err := folio.OpenCatalog(dbPath,
		folio.WithProvider(mock.NewMockProvider()),
		folio.WithSource(document.NewDirSource(root)),
	)
	if err != nil {
		return err
	}
	defer catalog.Close()

	orchestrator, err := catalog.NewOrchestrator(nil)
	if err != nil {
		return err
	}
	defer orchestrator.Release()

	job, err := orchestrator.Submit(ctx, ref)
	if err != nil {
		return err
	}
	if err := orchestrator.Run(ctx, job.Id); err != nil {
		return err
	}

	chunks, err := catalog.Chunks().GetChunksByDocument(ctx, job.DocumentId)
	if err != nil {
		return err
	}
	images, err := catalog.Images().GetImagesByDocument(ctx, job.DocumentId)
	if err != nil {
		return err
	}
	stored, err := catalog.Images().GetProductsByDocument(ctx, job.DocumentId)
	if err != nil {
		return err
	}

	slog.Info("ingestion complete", "job", job.Id,
		"chunks", len(chunks), "images", len(images), "products", len(stored))
	return nil
}
