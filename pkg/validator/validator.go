// Package validator wraps go-playground struct validation with the custom
// rules request payloads need.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrorResponse describes one failed field.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// `required` cannot tell a zero uuid.UUID from an omitted one, so id
	// fields validate with uuid_required instead.
	if err := v.RegisterValidation("uuid_required", nonNilUUID); err != nil {
		panic(err)
	}
	return v
}

func nonNilUUID(fl validator.FieldLevel) bool {
	id, ok := fl.Field().Interface().(uuid.UUID)
	return ok && id != uuid.Nil
}

// ValidateStruct returns one entry per failed field, nil when the value passes.
func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	if err := validate.Struct(data); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs = append(errs, &ErrorResponse{
				FailedField: fe.StructNamespace(),
				Tag:         fe.Tag(),
				Value:       fe.Param(),
			})
		}
	}
	return errs
}
