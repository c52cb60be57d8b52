package service

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"weshare/internal/model"
	"weshare/internal/repository"
)

// Package service holds the use cases. Handlers only see the sentinel errors below,
// wrapped with context; model.ErrInvalidArgument passes through for malformed input.

var (
	ErrEmailDuplicate      = errors.New("email is already registered")
	ErrUsernameDuplicate   = errors.New("user name is already taken")
	ErrInvalidCredentials  = errors.New("email or password does not match")
	ErrInvalidToken        = errors.New("token is invalid")
	ErrTokenNotFound       = errors.New("refresh token not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrOAuthAPI            = errors.New("oauth provider rejected the request")
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
	ErrForbidden           = errors.New("not allowed to modify this resource")
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrLikeNotFound        = errors.New("like not found")
	ErrAlreadyLiked        = errors.New("already liked")
	ErrStatisticsNotFound  = errors.New("statistics not found")
	ErrInvalidPage         = errors.New("page is out of range")
	ErrStorageUnavailable  = errors.New("object storage is not configured")
)

// notFound maps a missing row to sentinel and leaves other errors untouched.
func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

// duplicateUser picks the sentinel for a unique violation on users.
// Unknown constraints keep the email conflict, the column checked first on signup.
func duplicateUser(err error) error {
	if repository.DuplicateField(err) == repository.FieldName {
		return ErrUsernameDuplicate
	}
	return ErrEmailDuplicate
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

const maxPageSize = 100

// pageOffset turns a zero-based page number and size into limit/offset, applying defaults.
// Pages whose offset does not fit in an int are rejected.
func pageOffset(page, size, defaultSize int) (limit, offset int, err error) {
	if size <= 0 {
		size = defaultSize
	}
	size = min(size, maxPageSize)
	page = max(page, 0)
	if page > math.MaxInt/size {
		return 0, 0, fmt.Errorf("page %d: %w", page, ErrInvalidPage)
	}
	return size, page * size, nil
}
