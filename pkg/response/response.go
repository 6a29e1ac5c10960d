// Package response holds the JSON payloads rendered by the HTTP layer.
package response

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	StatusOK          = "OK"
	StatusUnavailable = "UNAVAILABLE"
)

var (
	InvalidShortURLResponse = Error{Error: "invalid short url"}
	UnauthorizedResponse    = Error{Error: "invalid short_url or admin_key"}
	NoFullURLResponse       = Error{Error: "no full url provided"}
	ShortURLExistsResponse  = Error{Error: "that short url already exists"}
	TooManyRequestsResponse = Error{Error: "too many requests, slow down"}
	ServerErrorResponse     = Error{Error: "internal server error"}
)

type Error struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details,omitempty"`
}

type Result struct {
	Result string `json:"result"`
}

type Status struct {
	Status string `json:"status"`
}

type ValidationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

// DeletedResponse reports a successful removal of shortURL.
func DeletedResponse(shortURL string) Result {
	return Result{Result: fmt.Sprintf("short_url `%s` deleted", shortURL)}
}

func ValidationErrorResponse(err error) Error {
	return Error{
		Error:   "invalid request parameters",
		Details: getValidationErrors(err),
	}
}

func issueForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "url":
		return "Invalid url."
	case "alphanum":
		return "Only letters and digits are allowed."
	case "min":
		return fmt.Sprintf("Must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long.", fe.Param())
	case "notreserved":
		return "This value is reserved."
	default:
		return "Invalid value."
	}
}

func getValidationErrors(err error) []ValidationError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	errs := make([]ValidationError, 0, len(validationErrs))

	for _, fe := range validationErrs {
		errs = append(errs, ValidationError{
			Field: fe.Field(),
			Value: fe.Value(),
			Issue: issueForTag(fe),
		})
	}

	return errs
}
