package common

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their json or form name rather than the Go field name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// maxJSONBody bounds JSON request bodies; multipart uploads are limited separately.
const maxJSONBody = 1 << 20

// ValidateStruct runs the validator tags of payload and converts failures into a 400.
func ValidateStruct(payload any) *AppError {
	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewAppError(http.StatusBadRequest, describe(validationErrors), nil)
		}
		return NewAppError(http.StatusBadRequest, "Invalid request", err)
	}
	return nil
}

// ValidateAndDecode decodes a JSON body into payload and validates it.
func ValidateAndDecode(r *http.Request, payload any) *AppError {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(payload); err != nil {
		return NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}
	return ValidateStruct(payload)
}

func describe(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "max":
			msgs = append(msgs, field+" must be at most "+fe.Param()+" characters")
		case "numeric":
			msgs = append(msgs, field+" must be numeric")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
