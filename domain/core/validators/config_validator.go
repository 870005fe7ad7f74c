// Package validators holds the schemas applied to configuration records and
// organizations before anything reaches the store.
package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"orgconfig/domain/config"
	apperrors "orgconfig/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// organizationIDPattern allows letters, digits, hyphens and underscores only.
var organizationIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// embeddedSegments are anonymous struct names the validator puts in namespaces
// but that do not exist in the attribute document.
var embeddedSegments = map[string]bool{"Audit": true}

// ConfigValidator validates candidate attribute sets against the schema of a
// configuration type.
type ConfigValidator struct {
	validate *validator.Validate
}

// NewConfigValidator creates a validator with the record rules registered
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{validate: newValidate()}
}

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("orgid", func(fl validator.FieldLevel) bool {
		return organizationIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks data against the schema of t. On success it returns the typed
// record; attributes the schema does not declare are dropped. On failure it
// returns every violation found, in schema order.
func (v *ConfigValidator) Validate(t config.ConfigType, data map[string]interface{}) (config.Record, []apperrors.FieldError) {
	rec, ok := config.NewRecord(t)
	if !ok {
		return nil, []apperrors.FieldError{{
			Field:   config.AttrConfigType,
			Message: fmt.Sprintf("Invalid configuration type: %s. Expected one of %s", t, strings.Join(config.ConfigTypeNames(), ", ")),
		}}
	}

	var fieldErrs []apperrors.FieldError
	if err := config.DecodeInto(data, rec); err != nil {
		fieldErrs = append(fieldErrs, decodeFieldError(err))
	}
	fieldErrs = append(fieldErrs, v.check(rec)...)

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}
	return rec, nil
}

// ValidateRecord checks an already typed record.
func (v *ConfigValidator) ValidateRecord(rec config.Record) []apperrors.FieldError {
	return v.check(rec)
}

func (v *ConfigValidator) check(s interface{}) []apperrors.FieldError {
	return collectFieldErrors(v.validate.Struct(s))
}

func collectFieldErrors(err error) []apperrors.FieldError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperrors.FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperrors.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return out
}

// fieldPath turns "OrganizationConfig.Audit.Profile[1].FieldName" into
// "Profile.1.FieldName".
func fieldPath(namespace string) string {
	segments := strings.Split(namespace, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}

	path := make([]string, 0, len(segments))
	for _, seg := range segments {
		if embeddedSegments[seg] {
			continue
		}
		for {
			open := strings.IndexByte(seg, '[')
			if open < 0 {
				break
			}
			closing := strings.IndexByte(seg[open:], ']')
			if closing < 0 {
				break
			}
			if open > 0 {
				path = append(path, seg[:open])
			}
			path = append(path, seg[open+1:open+closing])
			seg = seg[open+closing+1:]
		}
		if seg != "" {
			path = append(path, seg)
		}
	}
	return strings.Join(path, ".")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "url":
		return "Invalid url"
	case "oneof":
		return fmt.Sprintf("Invalid enum value. Expected %s", strings.ReplaceAll(fe.Param(), " ", " | "))
	case "eq":
		return fmt.Sprintf("Invalid literal value, expected %q", fe.Param())
	case "orgid":
		return "Organization ID can only contain letters, numbers, hyphens, and underscores"
	default:
		return fmt.Sprintf("Invalid value (%s)", fe.Tag())
	}
}

func decodeFieldError(err error) apperrors.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.FieldError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Expected %s, received %s", jsonKind(typeErr.Type), typeErr.Value),
		}
	}
	return apperrors.FieldError{Field: "", Message: err.Error()}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Ptr:
		return jsonKind(t.Elem())
	case reflect.Int, reflect.Int64, reflect.Float64:
		return "number"
	default:
		return strconv.Quote(t.String())
	}
}
