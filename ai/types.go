package ai

// ProductCategories defines the valid categories for extracted products.
// These are used by catalog extractors to classify furnishing products.
var ProductCategories = []string{
	"accessory",
	"bathroom",
	"bedding",
	"decking",
	"flooring",
	"kitchen",
	"lighting",
	"outdoor",
	"panel",
	"rug",
	"seating",
	"shelving",
	"storage",
	"surface",
	"table",
	"textile",
	"tile",
	"wallcovering",
}

// VisionResult is the outcome of analyzing one catalog image.
type VisionResult struct {
	// Materials lists the surface materials visible in the image,
	// lowercase, most prominent first. Example: "oak", "brushed steel".
	Materials []string

	// Colors lists the dominant colors, lowercase. Example: "walnut brown".
	Colors []string

	// Textures lists the surface textures, lowercase. Example: "matte".
	Textures []string

	// OCRText is any legible text embedded in the image.
	OCRText string

	// QualityScore rates the image's usefulness for retrieval, 0 to 1.
	QualityScore float32

	// Confidence is the analyzer's confidence in the result as a whole,
	// 0 to 1. Low-confidence results are re-checked asynchronously.
	Confidence float32

	// Model identifies the model that produced the analysis.
	Model string
}

// ExtractedProduct is one product identified in catalog text.
type ExtractedProduct struct {
	// Name is the product name as printed in the catalog.
	Name string

	// Description is a short description assembled from the source text.
	Description string

	// Category classifies the product. Must match one of the predefined
	// product categories, or be empty when the text gives no signal.
	Category string
}

// CatalogMetadata is document-level metadata derived from page texts.
type CatalogMetadata struct {
	// Collection is the catalog or collection name, if stated.
	Collection string

	// Designers lists the designers credited in the catalog.
	Designers []string

	// ProductNames lists product names mentioned across the sampled pages.
	ProductNames []string
}
