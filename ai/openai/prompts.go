package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/folio/ai"
)

const productResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "products": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {
            "type": "string"
          },
          "description": {
            "type": "string"
          },
          "category": {
            "type": "string"
          }
        },
        "required": ["name", "description", "category"],
        "additionalProperties": false
      }
    }
  },
  "required": ["products"],
  "additionalProperties": false
}`

const productPromptTemplate = `Extract the products described in the given catalog text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- A product is a distinct named item offered in the catalog, not a material, a finish or a collection.
- Name is the product name exactly as printed, including model designations.
- Description is one or two sentences assembled strictly from the given text. Do not invent properties.
- Category must match exactly one of the listed values: %s. Use "" if none fits.
- Skip page references, indexes, certifications and sustainability statements.
- If the text describes no products, return "products": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "NORDIC OAK LOUNGE CHAIR. Solid oak frame with wool upholstery, available in grey and sand. Designed for quiet corners."
Output:
{
  "products": [
    {"name":"Nordic Oak Lounge Chair","description":"Solid oak frame with wool upholstery, available in grey and sand.","category":"seating"}
  ]
}`

const metadataResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "collection": {
      "type": "string"
    },
    "designers": {
      "type": "array",
      "items": {
        "type": "string"
      }
    },
    "product_names": {
      "type": "array",
      "items": {
        "type": "string"
      }
    }
  },
  "required": ["collection", "designers", "product_names"],
  "additionalProperties": false
}`

const metadataPromptTemplate = `You are given sampled pages from a product catalog. Derive document-level metadata and return it as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Collection is the catalog or collection name if the pages state one, otherwise "".
- Designers lists people or studios explicitly credited with designing items. Do not list photographers or stylists.
- Product names lists distinct product names mentioned across the pages, as printed.
- Derive everything strictly from the given pages. Do not hallucinate.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

const visionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "materials": {
      "type": "array",
      "items": {
        "type": "string",
        "pattern": "^[a-z]+( [a-z]+)*$"
      }
    },
    "colors": {
      "type": "array",
      "items": {
        "type": "string",
        "pattern": "^[a-z]+( [a-z]+)*$"
      }
    },
    "textures": {
      "type": "array",
      "items": {
        "type": "string",
        "pattern": "^[a-z]+( [a-z]+)*$"
      }
    },
    "ocr_text": {
      "type": "string"
    },
    "quality_score": {
      "type": "number",
      "minimum": 0,
      "maximum": 1
    },
    "confidence": {
      "type": "number",
      "minimum": 0,
      "maximum": 1
    }
  },
  "required": ["materials", "colors", "textures", "ocr_text", "quality_score", "confidence"],
  "additionalProperties": false
}`

const visionPromptTemplate = `Analyze the given product catalog image and return what it shows as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Materials, colors and textures are lowercase, 1-3 words each, most prominent first.
- Report only what is visible. An empty array is better than a guess.
- ocr_text contains any legible text in the image, "" if none.
- quality_score rates how well the image shows a product: sharp studio shots near 1, decorative fillers near 0.
- confidence rates your certainty about the whole analysis.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

// buildProductPrompt creates the product extraction system prompt with the
// category taxonomy embedded.
func buildProductPrompt() string {
	return fmt.Sprintf(productPromptTemplate,
		productResponseSchema,
		strings.Join(ai.ProductCategories, ", "))
}

// buildMetadataPrompt creates the metadata extraction system prompt.
func buildMetadataPrompt() string {
	return fmt.Sprintf(metadataPromptTemplate, metadataResponseSchema)
}

// buildVisionPrompt creates the image analysis system prompt.
func buildVisionPrompt(caption string) string {
	prompt := fmt.Sprintf(visionPromptTemplate, visionResponseSchema)
	if caption != "" {
		prompt += "\n\nThe catalog captions this image: " + scrubString(caption)
	}
	return prompt
}
