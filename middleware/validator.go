package middleware

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the `validate` tags on a fully-assembled document.
// Used for bodies that are merged with server defaults before persisting.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
