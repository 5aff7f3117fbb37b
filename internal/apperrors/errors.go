// Package apperrors содержит доменные ошибки, которые сервисы возвращают вызывающему коду как есть.
package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
)

// Бизнес-ошибки бронирования и управления слотами
var (
	ErrSlotUnavailable    = errors.New("slot is not available")
	ErrStaffMismatch      = errors.New("slot does not belong to the requested staff")
	ErrSlotHasAppointment = errors.New("slot cannot be deleted, it has an appointment")
	ErrInvalidTransition  = errors.New("invalid slot status transition")
)

// FieldError ошибка конкретного поля входных данных
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) Error() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// ValidationError некорректные или отсутствующие входные данные
type ValidationError struct {
	Fields []FieldError
}

// Invalid создаёт ValidationError для одного поля
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add добавляет ошибку поля
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil возвращает nil, если ошибок полей нет
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Conflict описание одной пересекающейся сущности
type Conflict struct {
	ID    int64           `json:"id"`
	Title string          `json:"title,omitempty"`
	Range timerange.Range `json:"range"`
}

func (c Conflict) String() string {
	if c.Title == "" {
		return c.Range.String()
	}
	return fmt.Sprintf("%s (%s)", c.Title, c.Range)
}

// ConflictError кандидат пересекается с существующими интервалами.
// Содержит все пересечения, а не только первое.
type ConflictError struct {
	Resource  string
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, c.String())
	}
	resource := e.Resource
	if resource != "" {
		resource = strings.ToUpper(resource[:1]) + resource[1:]
	}
	return fmt.Sprintf("%s overlaps with existing %ss: %s", resource, e.Resource, strings.Join(parts, ", "))
}

// NotFoundError сущность с указанным id не существует
type NotFoundError struct {
	Resource string
	ID       string
}

// NotFound создаёт NotFoundError для числового id
func NotFound(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// IsDomain сообщает, является ли ошибка бизнес-ошибкой, которую надо отдавать вызывающему без изменений
func IsDomain(err error) bool {
	var (
		validationErr *ValidationError
		conflictErr   *ConflictError
		notFoundErr   *NotFoundError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &conflictErr), errors.As(err, &notFoundErr):
		return true
	case errors.Is(err, ErrSlotUnavailable),
		errors.Is(err, ErrStaffMismatch),
		errors.Is(err, ErrSlotHasAppointment),
		errors.Is(err, ErrInvalidTransition):
		return true
	default:
		return false
	}
}
