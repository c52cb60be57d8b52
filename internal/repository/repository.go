package repository

import (
	"context"
	"errors"
	"fmt"
)

// Package repository contains data access abstractions.
// Implementations live in subpackages (postgres) and contain no business logic.
// Missing rows surface as sql.ErrNoRows.

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("duplicate record")

// Unique fields of users that callers report separately.
const (
	FieldEmail = "email"
	FieldName  = "name"
)

// DuplicateError matches ErrDuplicate and tells which constraint was violated.
// Field is set when the constraint guards a single known field.
type DuplicateError struct {
	Constraint string
	Field      string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicate, e.Constraint)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// DuplicateField returns the field behind a unique violation, or "" when err is not one
// or the field is unknown.
func DuplicateField(err error) string {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Field
	}
	return ""
}

// Transactor runs fn inside a transaction carried by ctx. Nested calls join the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int64
}
