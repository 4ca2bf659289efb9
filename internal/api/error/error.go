// Package error defines the error body returned by every endpoint and the
// mapping from error codes to HTTP statuses.
package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	mJson "github.com/matt-dz/foodgram/internal/json"
)

type Error struct {
	Status  int                 `json:"status"`
	Code    ErrorCode           `json:"code"`
	Message string              `json:"message"`
	ErrorID string              `json:"error_id"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func encode(w http.ResponseWriter, body *Error) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		return fmt.Errorf("encoding error body: %w", err)
	}
	return nil
}

func EncodeError(w http.ResponseWriter, code ErrorCode, message, requestID string) error {
	status := code.StatusCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return encode(w, &Error{
		Status:  status,
		Code:    code,
		Message: message,
		ErrorID: requestID,
	})
}

func EncodeInternalError(w http.ResponseWriter, requestID string) error {
	return EncodeError(w, InternalServerError, "internal server error", requestID)
}

// EncodeFieldError reports a validation error for a single field.
func EncodeFieldError(w http.ResponseWriter, code ErrorCode, field, message, requestID string) error {
	return EncodeFieldsError(w, code, map[string][]string{field: {message}}, requestID)
}

func EncodeFieldsError(w http.ResponseWriter, code ErrorCode, fields map[string][]string, requestID string) error {
	status := code.StatusCode()
	if status == 0 {
		status = http.StatusBadRequest
	}
	return encode(w, &Error{
		Status:  status,
		Code:    code,
		Message: "invalid request",
		ErrorID: requestID,
		Fields:  fields,
	})
}

// EncodeValidationError reports err as a validation error. Validator errors
// are broken down per field; anything else becomes a bad request.
func EncodeValidationError(w http.ResponseWriter, err error, requestID string) error {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return EncodeFieldsError(w, ValidationError, ValidationFields(validationErrs), requestID)
	case errors.Is(err, mJson.ErrBodyTooLarge):
		return EncodeError(w, RequestTooLarge, "request body is too large", requestID)
	default:
		return EncodeError(w, BadRequest, "invalid request body", requestID)
	}
}

// ValidationFields maps each failing field, by its JSON name, to readable
// messages.
func ValidationFields(errs validator.ValidationErrors) map[string][]string {
	fields := make(map[string][]string, len(errs))
	for _, err := range errs {
		name := fieldName(err)
		fields[name] = append(fields[name], fieldMessage(err))
	}
	return fields
}

// fieldName strips the struct name from the namespace, so nested fields
// read as "ingredients[0].amount".
func fieldName(err validator.FieldError) string {
	ns := err.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return err.Field()
}

func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min", "gte":
		if err.Kind().String() == "slice" {
			return fmt.Sprintf("ensure this field has at least %s items", err.Param())
		}
		if isNumeric(err.Kind().String()) {
			return fmt.Sprintf("ensure this value is greater than or equal to %s", err.Param())
		}
		return fmt.Sprintf("ensure this field has at least %s characters", err.Param())
	case "max", "lte":
		if isNumeric(err.Kind().String()) {
			return fmt.Sprintf("ensure this value is less than or equal to %s", err.Param())
		}
		return fmt.Sprintf("ensure this field has no more than %s characters", err.Param())
	case "unique":
		return "duplicate values are not allowed"
	case "username":
		return "enter a valid username: letters, digits and @/./+/-/_ only"
	case "slug":
		return "enter a valid slug: letters, digits, hyphens and underscores only"
	case "rgbhex":
		return "enter a valid hex color, e.g. #FF0000"
	case "datauri":
		return "enter a valid base64 data uri"
	default:
		return "this value is not valid"
	}
}

func isNumeric(kind string) bool {
	return strings.HasPrefix(kind, "int") || strings.HasPrefix(kind, "uint") || strings.HasPrefix(kind, "float")
}
