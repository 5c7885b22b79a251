package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"portfolio-notes-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags and folds violations into a single
// VALIDATION_ERROR with field-level detail.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation("invalid request body", nil)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fmt.Sprintf("failed on '%s' rule", fe.Tag())
	}

	return apperror.Validation("request validation failed", fields)
}
