package parse

import "strings"

// Pass fills gaps in an ExtractedFields. A pass never overwrites a present field.
type Pass func(doc NormalizedDocument, in ExtractedFields) ExtractedFields

// Passes returns the fallback resolvers in the order they must run.
func (e *Extractor) Passes() []Pass {
	return []Pass{
		rollFallback,
		institutionFallback,
		e.receiptNameFallback,
		receiptDateFallback,
		e.formFieldFallback,
	}
}

// Resolve folds the fallback passes over the primary result.
func (e *Extractor) Resolve(doc NormalizedDocument, primary ExtractedFields) ExtractedFields {
	out := primary
	for _, p := range e.Passes() {
		out = p(doc, out)
	}
	return out
}

// rollFallback assigns the first 8-12 character alphanumeric token that
// carries a digit, but only when no identifying number was found at all.
func rollFallback(doc NormalizedDocument, in ExtractedFields) ExtractedFields {
	if in.Has(StudentRoll) || in.Has(CertificateNumber) {
		return in
	}
	for _, m := range reRollToken.FindAllStringSubmatch(doc.CleanedText, -1) {
		if strings.ContainsAny(m[1], "0123456789") {
			return in.With(StudentRoll, m[1])
		}
	}
	return in
}

func institutionFallback(doc NormalizedDocument, in ExtractedFields) ExtractedFields {
	if in.Has(InstitutionName) {
		return in
	}
	if m := reInstitute.FindStringSubmatch(doc.CleanedText); m != nil {
		if v := strings.TrimSpace(m[1]); len(v) >= minCapture {
			return in.With(InstitutionName, v)
		}
	}
	return in
}

func (e *Extractor) receiptNameFallback(doc NormalizedDocument, in ExtractedFields) ExtractedFields {
	if in.Has(StudentName) || e.receiptName == nil {
		return in
	}
	if m := e.receiptName.FindStringSubmatch(doc.CleanedText); m != nil {
		if v, ok := e.accept(StudentName, m[1]); ok {
			return in.With(StudentName, v)
		}
	}
	return in
}

func receiptDateFallback(doc NormalizedDocument, in ExtractedFields) ExtractedFields {
	if in.Has(DateIssued) {
		return in
	}
	if m := reLongDate.FindStringSubmatch(doc.CleanedText); m != nil {
		if d, ok := textualDate(m[1]); ok {
			return in.With(DateIssued, d)
		}
	}
	return in
}

// formFieldFallback scans for explicit "Label: value" pairs. A name found this
// way must also contain a known surname and be longer than five characters.
func (e *Extractor) formFieldFallback(doc NormalizedDocument, in ExtractedFields) ExtractedFields {
	out := in
	for _, f := range Fields {
		if out.Has(f) {
			continue
		}
		if v, ok := e.formValue(f, doc.CleanedText); ok {
			out = out.With(f, v)
		}
	}
	return out
}

// formValue returns the first acceptable "Label: value" capture for f.
func (e *Extractor) formValue(f Field, text string) (string, bool) {
	for _, m := range formRules[f].FindAllStringSubmatchIndex(text, -1) {
		if f == StudentName && relativeLabel(text[:m[0]]) {
			continue
		}
		v, ok := e.accept(f, text[m[2]:m[3]])
		if !ok {
			continue
		}
		if f == StudentName && (!e.hasSurname(v) || len(v) <= 5) {
			continue
		}
		return v, true
	}
	return "", false
}

var relatives = map[string]struct{}{
	"father": {}, "mother": {}, "guardian": {}, "parent": {}, "husband": {}, "spouse": {},
}

// relativeLabel reports whether the text just before a "Name:" label names a
// relative, as in "Father's Name:" (normalized to "Father s Name:").
func relativeLabel(before string) bool {
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	words := strings.Fields(strings.ToLower(before))
	if n := len(words); n > 0 && words[n-1] == "s" {
		words = words[:n-1]
	}
	if len(words) == 0 {
		return false
	}
	last := words[len(words)-1]
	if _, ok := relatives[last]; ok {
		return true
	}
	_, ok := relatives[strings.TrimSuffix(last, "s")]
	return ok
}
