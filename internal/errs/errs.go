// Package errs содержит ошибки домена: ожидаемые отказы с сообщением для пользователя.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrOperatorNotFound = errors.New("operator not found")
	ErrFaqNotFound      = errors.New("faq entry not found")
)

// Kind классифицирует ошибку домена.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindAuthorization
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

// Error: ожидаемый отказ операции. Reason показывается пользователю как есть.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(reason string) error {
	return &Error{Kind: KindValidation, Reason: reason}
}

func Conflict(reason string) error {
	return &Error{Kind: KindConflict, Reason: reason}
}

func Authorization(reason string) error {
	return &Error{Kind: KindAuthorization, Reason: reason}
}

// NotFound wraps one of the Err*NotFound sentinels so errors.Is keeps working.
func NotFound(reason string, sentinel error) error {
	return &Error{Kind: KindNotFound, Reason: reason, Err: sentinel}
}

// KindOf returns the domain kind of err, or KindUnknown for infrastructure failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
func IsConflict(err error) bool      { return KindOf(err) == KindConflict }
func IsAuthorization(err error) bool { return KindOf(err) == KindAuthorization }
func IsNotFound(err error) bool      { return KindOf(err) == KindNotFound }

// UserMessage возвращает текст для пользователя, если err является ошибкой домена.
func UserMessage(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason, true
	}
	return "", false
}
