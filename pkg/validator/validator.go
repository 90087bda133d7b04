package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()

	// input_kind must be one of the closed set accepted by the pipeline
	v.RegisterValidation("input_kind", func(fl validator.FieldLevel) bool {
		return entities.InputKind(fl.Field().String()).Valid()
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
