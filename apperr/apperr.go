// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apperr

import "errors"

// Code classifies a rejected operation.
type Code string

const (
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeNotAuthorized      Code = "not_authorized"
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodePollInactive       Code = "poll_inactive"
	CodeAlreadyVoted       Code = "already_voted"
)

// Reason narrows a code where callers need to react differently.
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonNotAdmin        Reason = "not_admin"
	ReasonTooFewOptions   Reason = "too_few_options"
	ReasonMissingQuestion Reason = "missing_question"
)

// Error is an advisory rejection. The operation that returned it made no
// changes.
type Error struct {
	Code    Code
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Is matches on Code, and on Reason when the target names one.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

func New(code Code, reason Reason, message string) *Error {
	return &Error{Code: code, Reason: reason, Message: message}
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials}
	ErrNotAuthorized      = &Error{Code: CodeNotAuthorized}
	ErrUnauthenticated    = &Error{Code: CodeNotAuthorized, Reason: ReasonUnauthenticated}
	ErrNotAdmin           = &Error{Code: CodeNotAuthorized, Reason: ReasonNotAdmin}
	ErrInvalidInput       = &Error{Code: CodeInvalidInput}
	ErrNotFound           = &Error{Code: CodeNotFound}
	ErrPollInactive       = &Error{Code: CodePollInactive}
	ErrAlreadyVoted       = &Error{Code: CodeAlreadyVoted}
)

func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, "", "Login failed: Invalid email or password")
}

func Unauthenticated(message string) *Error {
	return New(CodeNotAuthorized, ReasonUnauthenticated, message)
}

func NotAdmin(message string) *Error {
	return New(CodeNotAuthorized, ReasonNotAdmin, message)
}

func TooFewOptions() *Error {
	return New(CodeInvalidInput, ReasonTooFewOptions, "You need at least 2 options")
}

func MissingQuestion() *Error {
	return New(CodeInvalidInput, ReasonMissingQuestion, "Poll question is required")
}

func NotFound(what string) *Error {
	return New(CodeNotFound, "", what+" not found")
}

func PollInactive() *Error {
	return New(CodePollInactive, "", "This poll is no longer active")
}

func AlreadyVoted() *Error {
	return New(CodeAlreadyVoted, "", "You have already voted in this poll")
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ReasonOf returns the reason of the first *Error in err's chain, or "".
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}
