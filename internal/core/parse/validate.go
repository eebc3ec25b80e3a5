package parse

import "github.com/joseph-ayodele/certscan/internal/common"

// ValidationResult reports which required fields are missing.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate requires a name, a roll or certificate number, and an institution.
// One message is produced per missing requirement.
func Validate(x ExtractedFields) ValidationResult {
	v := common.NewValidator().
		Field("Student name", x.StudentName, common.Required).
		Field("Roll number or certificate number", []*string{x.StudentRoll, x.CertificateNumber}, common.AnyRequired).
		Field("Institution name", x.InstitutionName, common.Required)
	return ValidationResult{
		IsValid: !v.HasErrors(),
		Errors:  v.Messages(),
	}
}
