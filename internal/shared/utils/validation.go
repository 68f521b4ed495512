package utils

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	vo "srdashboard/internal/domain/servicerequest/valueobjects"
	"srdashboard/internal/shared/errors"
)

// RegisterBindingValidators installs the custom tags on gin's validator and
// makes error messages use JSON field names.
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// srstatus accepts a service request status; empty means the default.
	return v.RegisterValidation("srstatus", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || vo.Status(s).IsValid()
	})
}

// BindingError converts a gin binding failure into a validation AppError.
func BindingError(err error) error {
	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errors.NewBadRequestError("Invalid request body", err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, getFieldErrorMessage(fieldError))
	}

	return errors.NewValidationError(messages[0], strings.Join(messages, "; "))
}

// getFieldErrorMessage returns a user-friendly error message for a field validation error
func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "srstatus":
		statuses := make([]string, 0, 3)
		for _, s := range vo.AllStatuses() {
			statuses = append(statuses, s.String())
		}
		return fmt.Sprintf("%s must be one of [%s]", field, strings.Join(statuses, " "))
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, fe.Tag())
	}
}
