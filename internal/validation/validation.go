// Package validation проверяет входные структуры тегами go-playground/validator
// и переводит ошибки в *apperrors.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Имена полей в ошибках берём из json-тегов
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Ошибка регистрации возможна только при пустом теге
	_ = v.RegisterValidation("clock", validateClock)
	_ = v.RegisterValidation("date", validateDate)

	return &Validator{validate: v}
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := timerange.ParseClock(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := timerange.ParseDate(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

// Struct проверяет структуру. Возвращает *apperrors.ValidationError или nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	out := &apperrors.ValidationError{}
	for _, fe := range validationErrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "must be a valid email address"
	case "clock":
		return "must be a time in HH:MM or HH:MM:SS format"
	case "date":
		return "must be a date in YYYY-MM-DD format"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

// Var проверяет одно значение по тегам. field попадает в ошибку как имя поля.
func (v *Validator) Var(field string, value any, tag string) error {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validate %s: %w", field, err)
	}

	out := &apperrors.ValidationError{}
	for _, fe := range validationErrs {
		out.Add(field, message(fe))
	}
	return out
}
