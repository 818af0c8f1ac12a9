// Package validation binds request bodies and path parameters and turns
// binding failures into 422 responses with per-field errors.
//
// Rules live in `binding` struct tags and are checked by gin's validator
// engine. Field names in the reported errors use the JSON names.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/judyrop/shop-api/errs"
)

const failedMessage = "Validation failed"

var registerOnce sync.Once

// Setup makes gin's validator report JSON field names. It is safe to call
// more than once.
func Setup() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
	})
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// BindJSON decodes the request body into payload and validates it. Any
// failure is returned as a 422 *errs.HTTPError.
func BindJSON(c *gin.Context, payload any) error {
	Setup()

	err := c.ShouldBindJSON(payload)
	if err == nil {
		return nil
	}

	var (
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
		syntaxErr      *json.SyntaxError
	)
	switch {
	case errors.As(err, &validationErrs):
		return errs.NewValidationError(failedMessage, fieldErrors(validationErrs))
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return errs.NewValidationError("Request body must be a JSON object", nil)
		}
		return errs.NewValidationError(failedMessage, []errs.FieldError{{
			Field: field,
			Error: fmt.Sprintf("must be of type %s", typeName(typeErr.Type)),
		}})
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return errs.NewValidationError("Malformed JSON body", nil)
	case errors.Is(err, io.EOF):
		return errs.NewValidationError("Request body is required", nil)
	}
	return errs.NewValidationError(failedMessage, nil)
}

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, param string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errs.NewValidationError(failedMessage, []errs.FieldError{{
			Field: param,
			Error: "must be a positive integer",
		}})
	}
	return uint(id), nil
}

func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Ptr:
		return typeName(t.Elem())
	}
	return "object"
}

func fieldErrors(validationErrs validator.ValidationErrors) []errs.FieldError {
	out := make([]errs.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, errs.FieldError{
			Field: fieldPath(fe),
			Error: message(fe),
		})
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace, so
// "createOrderRequest.product_ids[1]" becomes "product_ids[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	kind := fe.Kind()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if kind == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if kind == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if kind == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "unique":
		return "must not contain duplicates"
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed %s:%s", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}
