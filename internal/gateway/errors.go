package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a call failure. Every failure surfaced to a transport
// shim carries exactly one of these kinds.
type Kind string

const (
	KindInvalidArgument     Kind = "invalid_argument"
	KindUnauthenticated     Kind = "unauthenticated"
	KindForbidden           Kind = "forbidden"
	KindNotFound            Kind = "not_found"
	KindRateLimited         Kind = "rate_limited"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
)

// codeTable is the fixed, total mapping from error kind to transport status
// code. Both transports use the same table.
var codeTable = map[Kind]int{
	KindUnauthenticated:     http.StatusUnauthorized,
	KindForbidden:           http.StatusForbidden,
	KindNotFound:            http.StatusNotFound,
	KindInvalidArgument:     http.StatusUnprocessableEntity,
	KindRateLimited:         http.StatusTooManyRequests,
	KindUpstreamUnavailable: http.StatusInternalServerError,
}

// Error is the only error shape ever handed to a transport shim.
type Error struct {
	Kind    Kind
	Message string
	// UpstreamStatus is the HTTP status received from the upstream, or 0
	// when the failure never reached it.
	UpstreamStatus int
}

func (e *Error) Error() string {
	if e.UpstreamStatus != 0 {
		return fmt.Sprintf("%s: %s (upstream %d)", e.Kind, e.Message, e.UpstreamStatus)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Code returns the transport status code for this error's kind.
func (e *Error) Code() int {
	if code, ok := codeTable[e.Kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// ErrorPayload is the wire form of an Error, shared verbatim by both
// transports so identical failures produce identical payloads.
type ErrorPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Payload returns the transport-facing representation of the error.
func (e *Error) Payload() ErrorPayload {
	return ErrorPayload{Status: "error", Message: e.Message, Code: e.Code()}
}

// Errorf builds an Error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// FromUpstreamStatus maps an upstream HTTP status to the error taxonomy.
// Statuses outside the table collapse to UpstreamUnavailable so the
// mapping stays total.
func FromUpstreamStatus(status int, message string) *Error {
	kind := KindUpstreamUnavailable
	switch {
	case status == http.StatusUnauthorized:
		kind = KindUnauthenticated
	case status == http.StatusForbidden:
		kind = KindForbidden
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = KindInvalidArgument
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	}
	if message == "" {
		message = fmt.Sprintf("upstream returned status %d", status)
	}
	return &Error{Kind: kind, Message: message, UpstreamStatus: status}
}

// Normalize is the single chokepoint converting any failure into an Error.
// Failures that are not already classified are treated as upstream faults.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindUpstreamUnavailable, Message: err.Error()}
}
