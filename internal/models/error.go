package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest     = "BAD_REQUEST"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"

	// Pizza-specific errors
	ErrPizzaInvalidData = "PIZZA_INVALID_DATA"

	// Document store errors
	ErrUpstreamUnavailable     = "UPSTREAM_UNAVAILABLE"
	ErrUpstreamTimeout         = "UPSTREAM_TIMEOUT"
	ErrUpstreamInvalidDocument = "UPSTREAM_INVALID_DOCUMENT"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// DeserializationError reports a JSON document that does not have the shape of a pizza record
type DeserializationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *DeserializationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid pizza document: %s", e.Reason)
	}
	return fmt.Sprintf("invalid pizza document: field %q %s", e.Field, e.Reason)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// Details returns the error as the details map of an APIError
func (e *DeserializationError) Details() map[string]interface{} {
	details := map[string]interface{}{"reason": e.Reason}
	if e.Field != "" {
		details["field"] = e.Field
	}
	return details
}

// newDeserializationError classifies decoding and validation failures
func newDeserializationError(err error) *DeserializationError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return &DeserializationError{Reason: fmt.Sprintf("expected an object, got %s", typeErr.Value), Err: err}
		}
		return &DeserializationError{
			Field:  field,
			Reason: fmt.Sprintf("must be %s, got %s", describeType(typeErr.Type.String()), typeErr.Value),
			Err:    err,
		}
	case errors.As(err, &syntaxErr):
		return &DeserializationError{Reason: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset), Err: err}
	case errors.As(err, &validationErrs) && len(validationErrs) > 0:
		return &DeserializationError{Field: validationErrs[0].Field(), Reason: "is required", Err: err}
	default:
		return &DeserializationError{Reason: err.Error(), Err: err}
	}
}

func describeType(goType string) string {
	switch strings.TrimPrefix(goType, "*") {
	case "string":
		return "a string"
	case "float64":
		return "a number"
	case "[]string":
		return "an array of strings"
	default:
		return goType
	}
}
