package domain

import (
	"errors"
	"net/http"
)

// ErrorCode identifies a class of failure independent of the transport.
type ErrorCode string

const (
	ErrorCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrorCodeRateLimited ErrorCode = "RATE_LIMITED"
	ErrorCodeBadRequest  ErrorCode = "BAD_REQUEST"
	ErrorCodeUpstream    ErrorCode = "UPSTREAM_ERROR"
	ErrorCodeInternal    ErrorCode = "INTERNAL_ERROR"
)

// Error is an error that carries a code and the HTTP status it maps to.
type Error struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewNotFound reports a user or repository that does not exist.
func NewNotFound(msg string, err error) *Error {
	return &Error{Code: ErrorCodeNotFound, Message: msg, HTTPStatus: http.StatusNotFound, Err: err}
}

// NewRateLimited reports an exhausted GitHub rate limit.
func NewRateLimited(msg string, err error) *Error {
	return &Error{Code: ErrorCodeRateLimited, Message: msg, HTTPStatus: http.StatusTooManyRequests, Err: err}
}

// NewBadRequest reports invalid caller input.
func NewBadRequest(msg string) *Error {
	return &Error{Code: ErrorCodeBadRequest, Message: msg, HTTPStatus: http.StatusBadRequest}
}

// NewUpstream reports any other GitHub API failure.
func NewUpstream(msg string, err error) *Error {
	return &Error{Code: ErrorCodeUpstream, Message: msg, HTTPStatus: http.StatusBadGateway, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or
// ErrorCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrorCodeInternal
}
