// Package validation checks request inputs against their struct rules and
// reports the rejected fields in the order they are declared.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/Sn1ff3hr/chabella/internal/entity"

	"github.com/go-playground/validator/v10"
)

const _anyPlatform = "each platform"

// Input is implemented by request bodies that carry their own field messages.
type Input interface {
	FieldMessage(field, key string) string
}

// Normalizer is implemented by inputs that clean up their own fields, e.g.
// dropping empty optional strings, before the rules run.
type Normalizer interface {
	Normalize()
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	mustRegister(validate, "notblank", notBlank)
	mustRegister(validate, "wholenumber", wholeNumber)

	return &Validator{validate: validate}
}

// Check validates input. decodeErr is the error returned while decoding input,
// if any; type mismatches are reported as errors of the offending field.
func (v *Validator) Check(input Input, decodeErr error) error {
	const op = "validation.Check"

	fields := make([]entity.FieldError, 0, 1)

	if decodeErr != nil {
		fe, err := fieldFromDecodeError(input, decodeErr)
		if err != nil {
			return err
		}
		fields = append(fields, fe)
	}

	if n, ok := input.(Normalizer); ok {
		n.Normalize()
	}

	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return fmt.Errorf("%s: %w", op, err)
		}
		for _, ve := range validationErrs {
			field, key := splitField(ve.Field())
			if hasField(fields, field) {
				continue
			}
			fields = append(fields, entity.FieldError{
				Field:   field,
				Message: input.FieldMessage(field, key),
			})
		}
	}

	if len(fields) == 0 {
		return nil
	}

	order := declarationOrder(input)
	slices.SortStableFunc(fields, func(a, b entity.FieldError) int {
		return order[a.Field] - order[b.Field]
	})

	return &entity.ValidationError{Fields: fields}
}

func fieldFromDecodeError(input Input, err error) (entity.FieldError, error) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return entity.FieldError{}, fmt.Errorf("validation: %w: %w", entity.ErrMalformedBody, err)
	}

	field, key, _ := strings.Cut(typeErr.Field, ".")
	if key == "" && typeErr.Type != nil && typeErr.Type.Kind() != reflect.Map {
		key = elementKey(input, field)
	}

	return entity.FieldError{
		Field:   field,
		Message: input.FieldMessage(field, key),
	}, nil
}

// elementKey returns a placeholder key when a map element had the wrong type
// and the decoder did not report which key it was.
func elementKey(input Input, field string) string {
	t := reflect.TypeOf(input).Elem()
	for i := range t.NumField() {
		if jsonName(t.Field(i)) == field && t.Field(i).Type.Kind() == reflect.Map {
			return _anyPlatform
		}
	}
	return ""
}

func declarationOrder(input Input) map[string]int {
	t := reflect.TypeOf(input)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	order := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		order[jsonName(t.Field(i))] = i
	}
	return order
}

func splitField(name string) (string, string) {
	field, rest, found := strings.Cut(name, "[")
	if !found {
		return name, ""
	}
	return field, strings.TrimSuffix(rest, "]")
}

func hasField(fields []entity.FieldError, field string) bool {
	return slices.ContainsFunc(fields, func(fe entity.FieldError) bool {
		return fe.Field == field
	})
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

func wholeNumber(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsInf(f, 0) && f == math.Trunc(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func mustRegister(validate *validator.Validate, tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}
