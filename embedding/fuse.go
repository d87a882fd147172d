package embedding

// Fuse concatenates a text vector and a visual vector into one fused vector.
// Order is fixed: text first, then visual, so fused vectors from different
// entities stay comparable.
func Fuse(text, visual []float32) []float32 {
	fused := make([]float32, 0, len(text)+len(visual))
	fused = append(fused, text...)
	fused = append(fused, visual...)
	return fused
}
