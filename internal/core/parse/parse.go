// Package parse reconstructs certificate fields from raw OCR text: it
// normalizes the text, runs an ordered per-field regex cascade over its lines,
// then lets a fixed sequence of fallback passes fill whatever is still missing.
package parse

// Parse runs normalization, primary extraction and every fallback pass.
func (e *Extractor) Parse(raw string) (NormalizedDocument, ExtractedFields) {
	doc := Normalize(raw)
	return doc, e.Resolve(doc, e.ExtractFields(doc))
}
