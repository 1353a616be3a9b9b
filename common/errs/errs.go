package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("ticket not found")
	ErrAlreadyValidated = errors.New("ticket already validated")
	ErrPaymentPending   = errors.New("ticket payment pending")
)

type HttpError struct {
	Code    int
	Message string
	Data    any
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("code %d: %s, data: %v", e.Code, e.Message, e.Data)
}

// StorageError marks a failure of the storage layer itself, as opposed to a
// business rule rejection. Callers may retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// InvalidInput wraps ErrInvalidInput with per-field details.
type InvalidInput struct {
	Fields map[string]string
}

func (e *InvalidInput) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidInput, e.Fields)
}

func (e *InvalidInput) Unwrap() error {
	return ErrInvalidInput
}

func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}
