// Package reembed regenerates stored text vectors after an embedding model
// change. It walks every chunk and product in the database, re-embeds the
// text with the currently configured model, and lets the embedding service
// refresh any fused vectors whose inputs changed. Visual vectors are left
// alone; they only change when the visual models change, which is a
// separate operation.
package reembed
