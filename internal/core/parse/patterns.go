package parse

import (
	"regexp"
	"strings"
)

// Capture shapes shared by several rules.
const (
	codeShape  = `([A-Z0-9][A-Z0-9\-/]*)`
	numShape   = `([0-9]+(?:\.[0-9]+)?)`
	phraseLike = `([A-Za-z][A-Za-z .,&()]*[A-Za-z.)])`
	numDate    = `[0-9]{1,2}[/\-.][0-9]{1,2}[/\-.][0-9]{2,4}`
	longDate   = `(?i:` + monthNames + `)\s+[0-9]{1,2},\s*[0-9]{4}`
	dayFirst   = `[0-9]{1,2}\s+(?i:` + monthNames + `)\s+[0-9]{4}`
	honorific  = `(?:MRS|MR|MS|Mrs|Mr|Ms)`
	ofPlace    = `\s+(?i:of)\s+[A-Z][A-Za-z]*(?:\s+(?:(?i:and)\s+)?[A-Z][A-Za-z]*)*`
)

// A bare keyword ("University Roll No") is never an institution name: the
// shape rules need a word before it or an "of ..." tail after it.
var institutionKeywords = titled("university", "college", "institute", "school", "academy", "vidyalaya", "mahavidyalaya")

// primaryRules holds, per field, the ordered patterns tried against each line.
// Label-anchored patterns come first, shape-only catch-alls last. Only the
// first capture group is read.
var primaryRules = map[Field][]*regexp.Regexp{
	StudentName: {
		regexp.MustCompile(`(?i:certify\s+that)\s+(?:(?i:mrs|mr|ms|shri|smt|kumari)\.?\s+)?([A-Za-z][A-Za-z .]*?)\s*(?:\b(?i:has|is|son|daughter|of|who|was|bearing)\b|[,(]|$)`),
		regexp.MustCompile(`(?i:^(?:student\s+|candidate\s+)?name|\b(?:student|candidate)\s+name|\bname\s+of\s+(?:the\s+)?(?:student|candidate))\s*[:\-]\s*([A-Za-z][A-Za-z .()]*)`),
		regexp.MustCompile(`\b` + honorific + `\.?\s+([A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z.]*)+)`),
	},
	StudentRoll: {
		regexp.MustCompile(`(?i:\b(?:roll|reg|registration|enrolment|enrollment|seat|prn)\b)\s*(?i:no|number|num)?\.?\s*[:\-]?\s*` + codeShape),
		regexp.MustCompile(`\b([A-Z]{1,4}[0-9]{5,10})\b`),
	},
	CertificateNumber: {
		regexp.MustCompile(`(?i:\b(?:certificate|cert|receipt|serial|sr|document|doc))\.?\s*(?i:no|number|num)\b\.?\s*[:\-]?\s*` + codeShape),
		regexp.MustCompile(`(?i:\bcertificate\s+(?:id|code))\s*[:\-]?\s*` + codeShape),
		regexp.MustCompile(`\b([A-Z]{2,6}[\-/][0-9]{4,}(?:[\-/][0-9]+)*)\b`),
	},
	InstitutionName: {
		// a dash only separates after "name": "ABC College - Pune" is a name and a place
		regexp.MustCompile(`(?i:\b(?:institution|institute|college|university|school))(?:\s*:|\s+(?i:name)\s*[:\-])\s*([A-Za-z][A-Za-z .,&]*[A-Za-z.])`),
		regexp.MustCompile(`(?i:\b(?:awarded|issued)\s+by)\s*[:\-]?\s*([A-Z][A-Za-z .,&]*[A-Za-z.])`),
		regexp.MustCompile(`\b((?:[A-Z][A-Za-z.&]*\s+){1,4}(?:` + institutionKeywords + `)(?:` + ofPlace + `)?|(?:` + institutionKeywords + `)` + ofPlace + `)`),
	},
	CourseName: {
		regexp.MustCompile(`(?i:\b(?:course(?:\s+name)?|programme|program|degree|branch|stream))\s*[:\-]\s*` + phraseLike),
		regexp.MustCompile(`\b((?:(?i:bachelor|master|doctor)\s+(?i:of)|(?i:diploma)\s+(?i:in|of))\s+[A-Za-z][A-Za-z .&]*[A-Za-z])`),
		regexp.MustCompile(`(?i:\bin\s+the\s+course\s+of)\s+` + phraseLike),
	},
	Marks: {
		regexp.MustCompile(`(?i:\b(?:marks|grade|cgpa|sgpa|gpa|percentage|score))(?:\s+(?i:obtained|secured))?\s*[:\-]?\s*` + numShape),
		regexp.MustCompile(`(?i:\b(?:secured|obtained|scored))\s*[:\-]?\s*` + numShape),
		regexp.MustCompile(`\b([0-9]{1,3}(?:\.[0-9]+)?)\s*(?:(?i:out\s+of)|/)\s*[0-9]{2,4}(?:[^/\-.0-9]|$)`),
	},
	DateIssued: {
		regexp.MustCompile(`(?i:\b(?:date\s+of\s+issue|issue\s+date|issued\s+on|dated|date))\s*[:\-]?\s*(` + numDate + `|` + longDate + `|` + dayFirst + `)`),
		regexp.MustCompile(`\b(` + numDate + `)\b`),
		regexp.MustCompile(`\b(` + longDate + `)`),
		regexp.MustCompile(`\b(` + dayFirst + `)\b`),
	},
	UIN: {
		regexp.MustCompile(`(?i:\b(?:uin|unique\s+identification\s+number|unique\s+id))\s*(?i:no)?\.?\s*[:\-]?\s*([A-Z0-9][A-Z0-9\-]*)`),
		regexp.MustCompile(`\b([A-Z]{0,6}[0-9][A-Z0-9]{7,})\b`),
	},
}

// formRules back the form-field fallback: explicit "Label: value" pairs,
// matched against the cleaned text with literal spaces so a match never
// crosses a line.
var formRules = map[Field]*regexp.Regexp{
	StudentName:       regexp.MustCompile(`(?i:student name|candidate name|name) *: *([A-Za-z][A-Za-z .]*)`),
	StudentRoll:       regexp.MustCompile(`(?i:student roll no|roll no|roll number|enrollment no|enrolment no|registration no)\.? *: *([A-Za-z0-9\-/]+)`),
	CertificateNumber: regexp.MustCompile(`(?i:certificate no|certificate number|receipt no|receipt number)\.? *: *([A-Za-z0-9\-/]+)`),
	InstitutionName:   regexp.MustCompile(`(?i:institution|institute|college|university|school)(?i: name)? *: *([A-Za-z][A-Za-z .,&]*)`),
	CourseName:        regexp.MustCompile(`(?i:course name|course|programme|program) *: *([A-Za-z][A-Za-z .,&()]*)`),
	Marks:             regexp.MustCompile(`(?i:total marks|marks obtained|marks|percentage|cgpa) *: *([0-9]+(?:\.[0-9]+)?)`),
	DateIssued:        regexp.MustCompile(`(?i:issue date|date of issue|issued on|date) *: *(` + numDate + `|(?i:` + monthNames + `) [0-9]{1,2}, ?[0-9]{4}|[0-9]{1,2} (?i:` + monthNames + `) [0-9]{4})`),
	UIN:               regexp.MustCompile(`(?i:uin|unique id) *: *([A-Za-z0-9\-]+)`),
}

var (
	// generic 8-12 character token; callers require a digit
	reRollToken = regexp.MustCompile(`\b([A-Z0-9]{8,12})\b`)
	reInstitute = regexp.MustCompile(`\b((?:[A-Z][A-Za-z.&]* ){1,5}(?:` + titled("institute", "college", "university", "school") + `))\b`)
	reLongDate  = regexp.MustCompile(`\b((?i:` + monthNames + `) [0-9]{1,2}, ?[0-9]{4})\b`)

	reParenthetical = regexp.MustCompile(`\s*\([^)]*\)?`)
	reHonorific     = regexp.MustCompile(`^(?i:mrs|mr|ms|shri|smt|kumari|miss)\.?\s+`)
)

// titled renders each word in Title and UPPER case as one alternation, so
// keyword patterns ignore lowercase prose ("our college").
func titled(words ...string) string {
	alts := make([]string, 0, 2*len(words))
	for _, w := range words {
		alts = append(alts, strings.ToUpper(w[:1])+w[1:], strings.ToUpper(w))
	}
	return strings.Join(alts, "|")
}
