package parse

import (
	"encoding/json"
	"strings"
)

// Field identifies one of the extracted certificate attributes.
type Field int

const (
	StudentName Field = iota
	StudentRoll
	CertificateNumber
	InstitutionName
	CourseName
	Marks
	DateIssued
	UIN
)

// Fields lists every field in display order.
var Fields = []Field{
	StudentName,
	StudentRoll,
	CertificateNumber,
	InstitutionName,
	CourseName,
	Marks,
	DateIssued,
	UIN,
}

// Key is the camelCase identifier used in JSON payloads.
func (f Field) Key() string {
	switch f {
	case StudentName:
		return "studentName"
	case StudentRoll:
		return "studentRoll"
	case CertificateNumber:
		return "certificateNumber"
	case InstitutionName:
		return "institutionName"
	case CourseName:
		return "courseName"
	case Marks:
		return "marks"
	case DateIssued:
		return "dateIssued"
	case UIN:
		return "uin"
	}
	return ""
}

// Label is the human-readable name used by Format.
func (f Field) Label() string {
	switch f {
	case StudentName:
		return "Student Name"
	case StudentRoll:
		return "Roll Number"
	case CertificateNumber:
		return "Certificate Number"
	case InstitutionName:
		return "Institution"
	case CourseName:
		return "Course"
	case Marks:
		return "Marks"
	case DateIssued:
		return "Date Issued"
	case UIN:
		return "UIN"
	}
	return ""
}

func (f Field) String() string { return f.Key() }

// FieldByKey resolves a camelCase key back to its Field.
func FieldByKey(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key() == key {
			return f, true
		}
	}
	return 0, false
}

// ExtractedFields is the terminal record of the pipeline. A nil attribute means
// nothing matched; a set attribute is never empty.
type ExtractedFields struct {
	StudentName       *string `json:"studentName,omitempty"`
	StudentRoll       *string `json:"studentRoll,omitempty"`
	CertificateNumber *string `json:"certificateNumber,omitempty"`
	InstitutionName   *string `json:"institutionName,omitempty"`
	CourseName        *string `json:"courseName,omitempty"`
	Marks             *string `json:"marks,omitempty"`
	DateIssued        *string `json:"dateIssued,omitempty"`
	UIN               *string `json:"uin,omitempty"`
}

func (x *ExtractedFields) slot(f Field) **string {
	switch f {
	case StudentName:
		return &x.StudentName
	case StudentRoll:
		return &x.StudentRoll
	case CertificateNumber:
		return &x.CertificateNumber
	case InstitutionName:
		return &x.InstitutionName
	case CourseName:
		return &x.CourseName
	case Marks:
		return &x.Marks
	case DateIssued:
		return &x.DateIssued
	case UIN:
		return &x.UIN
	}
	return nil
}

// Get returns the value of f and whether it is present.
func (x ExtractedFields) Get(f Field) (string, bool) {
	p := x.slot(f)
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

// Has reports whether f is present.
func (x ExtractedFields) Has(f Field) bool {
	_, ok := x.Get(f)
	return ok
}

// With returns a copy with f set to v, unless f is already present or v is blank.
// Earlier values always win.
func (x ExtractedFields) With(f Field, v string) ExtractedFields {
	if x.Has(f) || strings.TrimSpace(v) == "" {
		return x
	}
	p := x.slot(f)
	if p == nil {
		return x
	}
	*p = &v
	return x
}

// Present returns the number of present fields.
func (x ExtractedFields) Present() int {
	n := 0
	for _, f := range Fields {
		if x.Has(f) {
			n++
		}
	}
	return n
}

// Map returns the present fields keyed by their camelCase key.
func (x ExtractedFields) Map() map[string]string {
	out := make(map[string]string, len(Fields))
	for _, f := range Fields {
		if v, ok := x.Get(f); ok {
			out[f.Key()] = v
		}
	}
	return out
}

// FromMap builds a record from camelCase keys. Unknown keys and blank values are ignored.
func FromMap(m map[string]string) ExtractedFields {
	var x ExtractedFields
	for _, f := range Fields {
		if v, ok := m[f.Key()]; ok {
			x = x.With(f, strings.TrimSpace(v))
		}
	}
	return x
}

// JSON encodes the present fields.
func (x ExtractedFields) JSON() []byte {
	b, _ := json.Marshal(x)
	return b
}
