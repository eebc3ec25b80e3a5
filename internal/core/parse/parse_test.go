package parse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestNormalize(t *testing.T) {
	doc := Normalize("  Name:\tRAJESH   KUMAR @@\r\n\r\n|| Roll No: 1234#5  \n\n")
	assert.Equal(t, []string{"Name: RAJESH KUMAR", "Roll No: 1234 5"}, doc.Lines)
	assert.Equal(t, "Name: RAJESH KUMAR\nRoll No: 1234 5", doc.CleanedText)
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Mr. NIKHIL SUREDRA PATIL (OPEN)\nReceipt No: 123456\nJune 27, 2025",
		"Ünïcödé ☃ text\twith\ttabs\r\nand [brackets] {braces} ~tilde~",
		"a\n\n\nb  c\fd\ve",
	}
	for _, in := range inputs {
		first := Normalize(in)
		assert.Equal(t, first, Normalize(first.CleanedText), "input %q", in)
	}
}

func TestParseReceiptScenario(t *testing.T) {
	e := NewExtractor(DefaultKeywords())
	_, got := e.Parse("Mr. NIKHIL SUREDRA PATIL (OPEN)\nReceipt No: 123456\nJune 27, 2025")

	require.NotNil(t, got.StudentName)
	assert.Contains(t, *got.StudentName, "NIKHIL SUREDRA PATIL")
	assert.NotContains(t, *got.StudentName, "OPEN")
	assert.NotContains(t, *got.StudentName, "Mr")
	require.NotNil(t, got.CertificateNumber)
	assert.Equal(t, "123456", *got.CertificateNumber)
	require.NotNil(t, got.DateIssued)
	assert.Equal(t, "27/06/2025", *got.DateIssued)
	assert.Nil(t, got.StudentRoll)
}

func TestNameInstitutionDisambiguation(t *testing.T) {
	e := NewExtractor(DefaultKeywords())
	_, got := e.Parse("XYZ Institute of Technology\nMr. RAJESH KUMAR")

	require.NotNil(t, got.StudentName)
	assert.Equal(t, "RAJESH KUMAR", *got.StudentName)
	assert.NotContains(t, *got.StudentName, "Institute")
	assert.NotContains(t, *got.StudentName, "Technology")
	require.NotNil(t, got.InstitutionName)
	assert.Equal(t, "XYZ Institute of Technology", *got.InstitutionName)
}

func TestExtractCertificate(t *testing.T) {
	raw := strings.Join([]string{
		"VIDYALANKAR INSTITUTE OF TECHNOLOGY",
		"This is to certify that Mr. Rohan Deshmukh (OPEN) has successfully completed",
		"Bachelor of Engineering in Computer Engineering",
		"Roll No: CE2021045",
		"Certificate No. VIT/2024/0091",
		"Marks Obtained: 812/1000",
		"Date of Issue: 15 August 2024",
		"UIN: UIN20240091XY",
	}, "\n")
	e := NewExtractor(DefaultKeywords())
	_, got := e.Parse(raw)

	want := map[string]string{
		"studentName":       "Rohan Deshmukh",
		"studentRoll":       "CE2021045",
		"certificateNumber": "VIT20240091",
		"institutionName":   "VIDYALANKAR INSTITUTE OF TECHNOLOGY",
		"courseName":        "Bachelor of Engineering in Computer Engineering",
		"marks":             "812",
		"dateIssued":        "15/08/2024",
		"uin":               "UIN20240091XY",
	}
	assert.Equal(t, want, got.Map())
}

func TestPrecedenceLabelBeforeShape(t *testing.T) {
	e := NewExtractor(DefaultKeywords())
	_, got := e.Parse("Roll No: AB12345\nReference CS99999")
	require.NotNil(t, got.StudentRoll)
	assert.Equal(t, "AB12345", *got.StudentRoll)

	// earliest line wins even when a later line carries a label
	_, got = e.Parse("Seat AB12345\nRoll No: XY99999")
	require.NotNil(t, got.StudentRoll)
	assert.Equal(t, "AB12345", *got.StudentRoll)
}

func TestAbsenceNotEmpty(t *testing.T) {
	e := NewExtractor(DefaultKeywords())
	_, got := e.Parse("Roll No: A1\nMarks: 85\nName: Al")
	assert.Nil(t, got.StudentRoll, "captures of length <= 2 are rejected")
	assert.Nil(t, got.Marks)
	assert.Nil(t, got.StudentName)
	for _, v := range got.Map() {
		assert.NotEmpty(t, v)
	}
}

func TestRollFallback(t *testing.T) {
	e := NewExtractor(DefaultKeywords())
	_, got := e.Parse("Some text REF 2021CS1234 here\nABCDEFGHIJ")
	require.NotNil(t, got.StudentRoll)
	assert.Equal(t, "2021CS1234", *got.StudentRoll)

	// not used when a certificate number exists
	_, got = e.Parse("Certificate No: 778899\nREF 2021CS1234")
	assert.Nil(t, got.StudentRoll)
	assert.Equal(t, "778899", *got.CertificateNumber)
}

func TestReceiptNameFallback(t *testing.T) {
	e := NewExtractor(DefaultKeywords())
	_, got := e.Parse("Received from Mr. PATIL (OPEN)")
	require.NotNil(t, got.StudentName)
	assert.Equal(t, "PATIL", *got.StudentName)
}

func TestFormFieldNameGuard(t *testing.T) {
	e := NewExtractor(DefaultKeywords())

	_, got := e.Parse("Candidate Details Name: Amit Joshi")
	require.NotNil(t, got.StudentName)
	assert.Equal(t, "Amit Joshi", *got.StudentName)

	_, got = e.Parse("Candidate Details Name: John Doe")
	assert.Nil(t, got.StudentName, "form-field names need a known surname")
}

func TestPassesNeverOverwrite(t *testing.T) {
	e := NewExtractor(DefaultKeywords())
	doc := Normalize("Issue Date: 01/02/2023\nJune 27, 2025\nABC College\nRoll No: 99887766")
	primary := ExtractedFields{
		DateIssued:      strp("10/10/2010"),
		InstitutionName: strp("Given University"),
		StudentRoll:     strp("R-1"),
	}
	got := e.Resolve(doc, primary)
	assert.Equal(t, "10/10/2010", *got.DateIssued)
	assert.Equal(t, "Given University", *got.InstitutionName)
	assert.Equal(t, "R-1", *got.StudentRoll)
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct{ in, want string }{
		{"June 27, 2025", "27/06/2025"},
		{"september 5, 2021", "05/09/2021"},
		{"15 August 2024", "15/08/2024"},
		{"15/08/2024", "15/08/2024"},
		{"12.03.2023", "12.03.2023"},
		{"on 01-02-2020 ", "01-02-2020"},
		{"Sept 9, 2019", "09/09/2019"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeDate(c.in), c.in)
	}
}

func TestValidate(t *testing.T) {
	res := Validate(ExtractedFields{})
	assert.False(t, res.IsValid)
	assert.Len(t, res.Errors, 3)

	res = Validate(ExtractedFields{StudentName: strp("A"), StudentRoll: strp("B"), InstitutionName: strp("C")})
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)

	res = Validate(ExtractedFields{StudentName: strp("A"), CertificateNumber: strp("B")})
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{"Institution name is required"}, res.Errors)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Student Name: A", Format(ExtractedFields{StudentName: strp("A")}))
	assert.Equal(t, "", Format(ExtractedFields{}))

	full := ExtractedFields{
		UIN:               strp("U1"),
		StudentName:       strp("N"),
		DateIssued:        strp("D"),
		CertificateNumber: strp("C"),
	}
	assert.Equal(t, "Student Name: N\nCertificate Number: C\nDate Issued: D\nUIN: U1", Format(full))
}

func TestExtractedFieldsWith(t *testing.T) {
	var x ExtractedFields
	x = x.With(Marks, "  ")
	assert.False(t, x.Has(Marks))
	x = x.With(Marks, "91.5").With(Marks, "10")
	v, ok := x.Get(Marks)
	assert.True(t, ok)
	assert.Equal(t, "91.5", v)

	back := FromMap(x.Map())
	assert.Equal(t, x, back)
}

func TestLoadKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("surnames:\n  - Smith\n  - doe\n"), 0o644))

	kw, err := LoadKeywords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"smith", "doe"}, kw.Surnames)
	assert.Equal(t, DefaultKeywords().InstitutionWords, kw.InstitutionWords)

	e := NewExtractor(kw)
	_, got := e.Parse("Candidate Details Name: John Doe")
	require.NotNil(t, got.StudentName)
	assert.Equal(t, "John Doe", *got.StudentName)

	_, err = LoadKeywords(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFieldKeysRoundTrip(t *testing.T) {
	for _, f := range Fields {
		got, ok := FieldByKey(f.Key())
		require.True(t, ok, f.Key())
		assert.Equal(t, f, got)
	}
	_, ok := FieldByKey("student_name")
	assert.False(t, ok)

	x := FromMap(map[string]string{"studentName": " Amit Joshi ", "marks": "  ", "extra": "x"})
	assert.Equal(t, map[string]string{"studentName": "Amit Joshi"}, x.Map())
	assert.Equal(t, 1, x.Present())
}

func TestInstitutionNeedsName(t *testing.T) {
	e := NewExtractor(DefaultKeywords())
	cases := []struct {
		in   string
		want *string
	}{
		{"ABC College - Pune", strp("ABC College")},
		{"Mumbai University - Department of Physics", strp("Mumbai University")},
		{"Institution Name - Govt Polytechnic Pune", strp("Govt Polytechnic Pune")},
		{"University of Mumbai", strp("University of Mumbai")},
		{"University Roll No: 20211234", nil},
	}
	for _, tc := range cases {
		_, got := e.Parse(tc.in)
		assert.Equal(t, tc.want, got.InstitutionName, tc.in)
	}
}

func TestUnparseableTextualDateIsAbsent(t *testing.T) {
	assert.Equal(t, "", NormalizeDate("June 45, 2025"))
	assert.Equal(t, "", NormalizeDate("Sept 0, 2019"))

	e := NewExtractor(DefaultKeywords())
	_, got := e.Parse("Date: June 45, 2025")
	assert.Nil(t, got.DateIssued)
}

func TestNormalizeUnicodeLineBreaks(t *testing.T) {
	doc := Normalize("a\u2029b\u0085c\u2028d")
	assert.Equal(t, []string{"a", "b", "c", "d"}, doc.Lines)

	e := NewExtractor(DefaultKeywords())
	_, got := e.Parse("Name: Priya\u2028Roll No: 123456")
	require.NotNil(t, got.StudentName)
	assert.Equal(t, "Priya", *got.StudentName)
	require.NotNil(t, got.StudentRoll)
	assert.Equal(t, "123456", *got.StudentRoll)
}

func TestFormFieldSkipsRelativeNames(t *testing.T) {
	e := NewExtractor(DefaultKeywords())

	_, got := e.Parse("Father's Name: Ramesh Patil")
	assert.Nil(t, got.StudentName)

	_, got = e.Parse("Mother Name: Sunita Patil")
	assert.Nil(t, got.StudentName)

	_, got = e.Parse("Father's Name: Ramesh Patil\nCandidate Details Name: Amit Joshi")
	require.NotNil(t, got.StudentName)
	assert.Equal(t, "Amit Joshi", *got.StudentName)
}

func TestReceiptDateFallback(t *testing.T) {
	e := NewExtractor(DefaultKeywords())
	doc := Normalize("Paid on June 27, 2025")

	got := e.Resolve(doc, ExtractedFields{})
	require.NotNil(t, got.DateIssued)
	assert.Equal(t, "27/06/2025", *got.DateIssued)

	got = e.Resolve(doc, ExtractedFields{DateIssued: strp("01/01/2020")})
	assert.Equal(t, "01/01/2020", *got.DateIssued)
}

func TestFormFieldFallbackFillsEveryField(t *testing.T) {
	e := NewExtractor(DefaultKeywords())
	doc := Normalize("Roll No: CS-2021-77\nDate: 15/08/2024\nInstitution: Govt Polytechnic Pune\nMarks: 78.5\nUIN: U-12345")

	got := e.Resolve(doc, ExtractedFields{})
	assert.Equal(t, map[string]string{
		"studentRoll":     "CS-2021-77",
		"dateIssued":      "15/08/2024",
		"institutionName": "Govt Polytechnic Pune",
		"marks":           "78.5",
		"uin":             "U-12345",
	}, got.Map())

	got = e.Resolve(doc, ExtractedFields{Marks: strp("90")})
	assert.Equal(t, "90", *got.Marks)
	assert.Equal(t, "CS-2021-77", *got.StudentRoll)
}
