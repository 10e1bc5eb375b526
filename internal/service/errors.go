package service

import "errors"

// 错误类别，用 errors.Is 判断
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalid            = errors.New("invalid input")
)

// Error 类别 + 返回给调用方的提示
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func notFound(msg string) error { return &Error{Kind: ErrNotFound, Msg: msg} }
func invalid(msg string) error  { return &Error{Kind: ErrInvalid, Msg: msg} }

var (
	errUserNotFound     = notFound("User not found")
	errPropertyNotFound = notFound("Property not found")
	errBookingNotOwned  = notFound("Booking not found or not owned by user")
	errBookingNotFound  = notFound("Booking not found")
	errEmailTaken       = &Error{Kind: ErrConflict, Msg: "Email already registered"}
	errBadCredentials   = &Error{Kind: ErrInvalidCredentials, Msg: "Invalid credentials"}
)
