package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrorKind categorizes upstream failures. The set is closed: every failure of
// an upstream call is reported as exactly one of these kinds.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindNotFound is an upstream 404, typically a missing model.
	KindNotFound
	// KindBadRequest is an upstream 400.
	KindBadRequest
	// KindServerError is any upstream status >= 500.
	KindServerError
	// KindStatus is any other non-success upstream status.
	KindStatus
	KindConnection
	KindTimeout
)

var kindNames = [...]string{
	KindUnknown:     "unknown",
	KindNotFound:    "not_found",
	KindBadRequest:  "bad_request",
	KindServerError: "server_error",
	KindStatus:      "status",
	KindConnection:  "connection",
	KindTimeout:     "timeout",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// ParseErrorKind matches a kind name case-insensitively. Unrecognised names are KindUnknown.
func ParseErrorKind(name string) ErrorKind {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return ErrorKind(k)
		}
	}
	return KindUnknown
}

// UpstreamError is returned by every failed upstream call.
type UpstreamError struct {
	Kind ErrorKind
	// StatusCode is the upstream HTTP status, or 0 when no response was received.
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// KindOf reports the kind of err, KindUnknown for errors that did not come from an upstream call.
func KindOf(err error) ErrorKind {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Kind
	}
	return KindUnknown
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status >= http.StatusInternalServerError:
		return KindServerError
	default:
		return KindStatus
	}
}

func statusError(status int, message string) *UpstreamError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &UpstreamError{
		Kind:       kindForStatus(status),
		StatusCode: status,
		Message:    message,
	}
}

// transportError classifies an error returned by http.Client.Do.
func transportError(err error) *UpstreamError {
	kind := KindUnknown
	var netErr net.Error
	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &dnsErr),
		errors.As(err, &opErr):
		kind = KindConnection
	}
	return &UpstreamError{Kind: kind, Message: "upstream request failed", Cause: err}
}
