package utils

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRegistrationFields checks presence of every registration field and
// returns a message naming the first missing one, or "" when all are present.
func ValidateRegistrationFields(username, password, retypePassword, firstname, lastname string) string {
	if strings.TrimSpace(username) == "" {
		return "Username is required."
	}
	if password == "" {
		return "Password is required."
	}
	if retypePassword == "" {
		return "Retype password is required."
	}
	if strings.TrimSpace(firstname) == "" {
		return "First name is required."
	}
	if strings.TrimSpace(lastname) == "" {
		return "Last name is required."
	}
	return ""
}

// ValidateScorecardFields checks presence of every scorecard field in a fixed
// priority order and returns a message naming the first missing one, or ""
// when all are present. Sub-scores arrive as pointers so a submitted 0 is
// distinguishable from an absent field.
func ValidateScorecardFields(date, companyName, sector, investmentStage string, alignment, team, market, product, potentialReturn, boldExcitement *int) string {
	if strings.TrimSpace(date) == "" {
		return "Date is required."
	}
	if strings.TrimSpace(companyName) == "" {
		return "Company Name is required."
	}
	if strings.TrimSpace(sector) == "" {
		return "Sector is required."
	}
	if strings.TrimSpace(investmentStage) == "" {
		return "Investment Stage is required."
	}
	if alignment == nil {
		return "Alignment is required."
	}
	if team == nil {
		return "Team is required."
	}
	if market == nil {
		return "Market is required."
	}
	if product == nil {
		return "Product is required."
	}
	if potentialReturn == nil {
		return "Potential Return is required."
	}
	if boldExcitement == nil {
		return "Bold Excitement is required."
	}
	return ""
}

// ValidateStructRanges runs the struct's `validate` tags (min/max bounds on the
// sub-scores) and returns a human-readable message for the first violation.
func ValidateStructRanges(input interface{}) string {
	err := validate.Struct(input)
	if err == nil {
		return ""
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "min", "max":
		return fmt.Sprintf("%s must be between %s and %s.", humanizeField(fe.Field()), "0", "10")
	default:
		return fmt.Sprintf("%s is invalid.", humanizeField(fe.Field()))
	}
}

// humanizeField splits a CamelCase struct field name into words
// ("PotentialReturn" -> "Potential Return").
func humanizeField(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
