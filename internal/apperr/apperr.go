// Package apperr классифицирует ошибки конвейера проверки, чтобы транспортный
// слой мог превратить их в ответ пользователю.
package apperr

import (
	"errors"
	"fmt"
)

// Kind вид ошибки
type Kind string

const (
	// Ошибка во входных данных, пользователь может её исправить.
	KindValidation Kind = "validation"
	// Файл прошёл проверку, но не декодируется как изображение.
	KindDecode Kind = "decode"
	// Всё остальное.
	KindInternal Kind = "internal"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New создаёт ошибку без причины
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap присваивает ошибке вид. Уже классифицированная ошибка возвращается
// без изменений: побеждает самая внутренняя классификация.
func Wrap(kind Kind, op, message string, err error) error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return err
	}

	return &Error{Kind: kind, Op: op, Message: message, Cause: err}
}

// KindOf возвращает вид первой классифицированной ошибки в цепочке.
// Неклассифицированные ошибки считаются внутренними.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindInternal
}

// IsKind проверяет вид ошибки
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// Message возвращает текст для пользователя без префикса операции и причины.
func Message(err error) string {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
