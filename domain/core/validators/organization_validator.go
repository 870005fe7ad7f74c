package validators

import (
	"strings"

	apperrors "orgconfig/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// NewOrganizationInput is the payload accepted when creating an organization.
type NewOrganizationInput struct {
	OrganizationID string `json:"OrganizationId" validate:"required,orgid"`
	Name           string `json:"Name" validate:"required"`
}

// OrganizationValidator validates organization-level payloads.
type OrganizationValidator struct {
	validate *validator.Validate
}

// NewOrganizationValidator creates a new organization validator
func NewOrganizationValidator() *OrganizationValidator {
	return &OrganizationValidator{validate: newValidate()}
}

// Validate checks the input and returns it with the name trimmed. The id is
// taken as given, so surrounding whitespace fails the character rule.
func (v *OrganizationValidator) Validate(in NewOrganizationInput) (NewOrganizationInput, []apperrors.FieldError) {
	in.Name = strings.TrimSpace(in.Name)
	if errs := collectFieldErrors(v.validate.Struct(in)); len(errs) > 0 {
		return in, errs
	}
	return in, nil
}

// ValidOrganizationID reports whether id is non-empty and uses only the allowed characters.
func ValidOrganizationID(id string) bool {
	return organizationIDPattern.MatchString(id)
}
