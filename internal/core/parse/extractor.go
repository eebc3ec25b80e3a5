package parse

import (
	"regexp"
	"strings"
)

// minCapture is the shortest trimmed capture the extractor will accept.
const minCapture = 3

// Extractor turns normalized OCR text into ExtractedFields. It holds only
// read-only tables and is safe for concurrent use.
type Extractor struct {
	kw         Keywords
	rules      map[Field][]*regexp.Regexp
	indicators []string
	surnames   map[string]struct{}
	// nil when no surnames are configured
	receiptName *regexp.Regexp
}

// NewExtractor compiles the keyword-dependent patterns on top of the static tables.
func NewExtractor(kw Keywords) *Extractor {
	kw = kw.normalized()
	e := &Extractor{
		kw:         kw,
		rules:      make(map[Field][]*regexp.Regexp, len(primaryRules)),
		indicators: kw.institutionIndicators(),
		surnames:   make(map[string]struct{}, len(kw.Surnames)),
	}
	for f, rs := range primaryRules {
		e.rules[f] = rs
	}
	if len(kw.InstitutionNames) > 0 {
		known := quoteAll(kw.InstitutionNames)
		e.rules[InstitutionName] = append(append([]*regexp.Regexp(nil), primaryRules[InstitutionName]...),
			regexp.MustCompile(`\b((?:[A-Z][A-Za-z.&]*\s+){0,3}(?i:`+known+`)(?:\s+[A-Z][A-Za-z.&]*){0,4})`))
	}
	for _, s := range kw.Surnames {
		e.surnames[s] = struct{}{}
	}
	if len(kw.Surnames) > 0 {
		e.receiptName = regexp.MustCompile(`\b` + honorific + `\.? ((?:[A-Z]+ )*(?i:` + quoteAll(kw.Surnames) + `))\b`)
	}
	return e
}

// Keywords returns the lists the extractor was built with.
func (e *Extractor) Keywords() Keywords { return e.kw }

// ExtractFields runs the primary per-line cascade. For each field the lines are
// walked in order and, per line, the field's patterns in priority order; the
// first capture that survives cleanup wins and the field is done.
func (e *Extractor) ExtractFields(doc NormalizedDocument) ExtractedFields {
	var out ExtractedFields
	for _, f := range Fields {
		if v, ok := e.firstMatch(f, doc.Lines); ok {
			out = out.With(f, v)
		}
	}
	return out
}

func (e *Extractor) firstMatch(f Field, lines []string) (string, bool) {
	for _, ln := range lines {
		for _, re := range e.rules[f] {
			m := re.FindStringSubmatch(ln)
			if len(m) < 2 {
				continue
			}
			if v, ok := e.accept(f, m[1]); ok {
				return v, true
			}
		}
	}
	return "", false
}

// accept applies the length gate and the field cleanup.
func (e *Extractor) accept(f Field, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < minCapture {
		return "", false
	}
	v := e.clean(f, raw)
	if len(v) < minCapture {
		return "", false
	}
	return v, true
}

func (e *Extractor) clean(f Field, v string) string {
	switch f {
	case StudentName:
		return e.cleanName(v)
	case DateIssued:
		return NormalizeDate(v)
	case Marks:
		return keepMarks(v)
	case StudentRoll, CertificateNumber:
		return keepCode(v)
	case UIN:
		return strings.TrimSpace(v)
	default:
		return strings.Trim(collapse(v), " ,.-")
	}
}

// cleanName drops parentheticals and the honorific, then any word that
// contains an institution indicator.
func (e *Extractor) cleanName(v string) string {
	v = reParenthetical.ReplaceAllString(v, " ")
	v = reHonorific.ReplaceAllString(strings.TrimSpace(v), "")
	words := strings.Fields(v)
	kept := words[:0]
	dropped := false
	for _, w := range words {
		if e.isInstitutionWord(w) {
			dropped = true
			continue
		}
		kept = append(kept, w)
	}
	if dropped {
		kept = trimConnectors(kept)
	}
	return strings.Trim(strings.Join(kept, " "), " ,.-")
}

func (e *Extractor) isInstitutionWord(w string) bool {
	lw := strings.ToLower(w)
	for _, ind := range e.indicators {
		if strings.Contains(lw, ind) {
			return true
		}
	}
	return false
}

func (e *Extractor) hasSurname(v string) bool {
	for _, w := range strings.Fields(strings.ToLower(v)) {
		if _, ok := e.surnames[strings.Trim(w, ".,")]; ok {
			return true
		}
	}
	return false
}

func trimConnectors(words []string) []string {
	isConn := func(w string) bool {
		switch strings.ToLower(w) {
		case "of", "and", "&", "the", "for":
			return true
		}
		return false
	}
	for len(words) > 0 && isConn(words[0]) {
		words = words[1:]
	}
	for len(words) > 0 && isConn(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	return words
}

func keepMarks(v string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, v)
}

func keepCode(v string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, v)
}

func collapse(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

func quoteAll(words []string) string {
	q := make([]string, len(words))
	for i, w := range words {
		q[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(q, "|")
}
