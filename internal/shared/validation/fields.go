package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"blog-backend/internal/shared/apperr"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"
)

// RequireField returns payload[field] or a MissingField error.
// A present key with a null value counts as present.
func RequireField(payload map[string]any, field string) (any, error) {
	value, ok := payload[field]
	if !ok {
		return nil, apperr.MissingField(field)
	}
	return value, nil
}

// RequireString is RequireField with the value rendered as a string.
func RequireString(payload map[string]any, field string) (string, error) {
	value, err := RequireField(payload, field)
	if err != nil {
		return "", err
	}
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}

// RequireFields checks every field in order and reports the first missing one.
func RequireFields(payload map[string]any, fields ...string) error {
	for _, field := range fields {
		if _, err := RequireField(payload, field); err != nil {
			return err
		}
	}
	return nil
}

// ErrNotInteger is reported for a fractional number bound to an integer field.
var ErrNotInteger = errors.New("A valid integer is required.")

// integralNumbers refuses to truncate: 3.0 may fill an int field, 1.9 may not.
func integralNumbers(_ reflect.Type, to reflect.Type, data any) (any, error) {
	for to.Kind() == reflect.Pointer {
		to = to.Elem()
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}

	var f float64
	switch v := data.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, ErrNotInteger
	}
	return data, nil
}

// Decode copies a sanitized payload into a DTO using its json tags.
// Scalars are converted loosely ("3" -> 3, 3.0 -> 3) as JSON numbers
// always arrive as float64; fractional numbers never reach integer fields.
func Decode(payload map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(integralNumbers),
		TagName:          "json",
		WeaklyTypedInput: true,
		ZeroFields:       false,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	if err := decoder.Decode(payload); err != nil {
		var mErr *mapstructure.Error
		if errors.As(err, &mErr) {
			return apperr.Validation("%s", strings.Join(mErr.Errors, "; "))
		}
		return apperr.Validation("%s", err.Error())
	}
	return nil
}

// Struct runs ozzo validation and converts failures into ValidationFailed.
func Struct(v ozzo.Validatable) error {
	return convert(v.Validate())
}

// Fields validates structPtr against rules built at runtime, e.g. from config limits.
func Fields(structPtr any, fields ...*ozzo.FieldRules) error {
	return convert(ozzo.ValidateStruct(structPtr, fields...))
}

// Value validates a single value; the first failing rule's message is returned as is.
func Value(value any, rules ...ozzo.Rule) error {
	return convert(ozzo.Validate(value, rules...))
}

func convert(err error) error {
	if err == nil {
		return nil
	}

	var internal ozzo.InternalError
	if errors.As(err, &internal) {
		return fmt.Errorf("validation: %w", internal.InternalError())
	}
	return apperr.Validation("%s", err.Error())
}
