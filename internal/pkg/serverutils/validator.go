package serverutils

import (
	"fmt"
	"strings"

	"ai-journaling-be/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Wrap(apperr.CodeInvalidInput, "invalid request", err)
	}

	var fields []string
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
	}
	return apperr.Newf(apperr.CodeInvalidInput, "validation failed: %s", strings.Join(fields, ", "))
}
