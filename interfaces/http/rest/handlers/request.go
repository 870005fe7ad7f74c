package handlers

import (
	"errors"
	"io"
	"net/http"

	"orgconfig/pkg/auth"
	"orgconfig/pkg/common"
	apperrors "orgconfig/pkg/errors"
)

// decodeObject reads a JSON object body. A missing body is an error only when
// required; otherwise it decodes to nil.
func decodeObject(w http.ResponseWriter, r *http.Request, required bool) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := common.ParseJSONBody(w, r, &body); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			if !required {
				return nil, nil
			}
			return nil, apperrors.NewValidationError("Request body is required", nil)
		case errors.As(err, &tooLarge):
			return nil, apperrors.NewValidationError("Request body too large", nil).
				WithDetails(map[string]interface{}{"limitBytes": tooLarge.Limit})
		default:
			return nil, apperrors.NewValidationError("Request body must be a JSON object", nil).WithCause(err)
		}
	}
	if body == nil && required {
		return nil, apperrors.NewValidationError("Request body is required", nil)
	}
	return body, nil
}

// actor is the identifier written to __updatedBy for the request's caller.
func actor(r *http.Request) string {
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		return p.Actor()
	}
	return ""
}
