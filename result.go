// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"errors"
	"fmt"
)

// ResultCode is the closed status taxonomy reported by creation calls.
type ResultCode uint8

const (
	// Ok means the call succeeded.
	Ok ResultCode = iota
	// InvalidArgument means the description was malformed.
	InvalidArgument
	// ArgumentOutOfRange means a value exceeded a device limit.
	ArgumentOutOfRange
	// InvalidOperation means the device state did not allow the call.
	InvalidOperation
	// Unsupported means the backend lacks the capability.
	Unsupported
	// Unimplemented means the backend has not implemented the call.
	Unimplemented
	// BackendError means the native API call failed.
	BackendError
)

// String returns the code name.
func (c ResultCode) String() string {
	switch c {
	case Ok:
		return "Ok"
	case InvalidArgument:
		return "InvalidArgument"
	case ArgumentOutOfRange:
		return "ArgumentOutOfRange"
	case InvalidOperation:
		return "InvalidOperation"
	case Unsupported:
		return "Unsupported"
	case Unimplemented:
		return "Unimplemented"
	case BackendError:
		return "BackendError"
	default:
		return fmt.Sprintf("ResultCode(%d)", uint8(c))
	}
}

// Result carries the outcome of a creation call.
//
// Creation calls take an optional *Result. Passing nil is legal and
// discards diagnostics: a failure is then only visible as a nil resource.
type Result struct {
	Code    ResultCode
	Message string
}

// IsOk reports whether the result is Ok.
func (r Result) IsOk() bool { return r.Code == Ok }

// String formats the result for logs.
func (r Result) String() string {
	if r.Message == "" {
		return r.Code.String()
	}
	return r.Code.String() + ": " + r.Message
}

// Err converts the result to an error wrapping the matching sentinel.
// Returns nil for Ok.
func (r Result) Err() error {
	if r.Code == Ok {
		return nil
	}
	return fmt.Errorf("%w: %s", r.Code.sentinel(), r.Message)
}

func (c ResultCode) sentinel() error {
	switch c {
	case InvalidArgument:
		return ErrInvalidArgument
	case ArgumentOutOfRange:
		return ErrArgumentOutOfRange
	case InvalidOperation:
		return ErrInvalidOperation
	case Unsupported:
		return ErrUnsupported
	case Unimplemented:
		return ErrUnimplemented
	default:
		return ErrBackend
	}
}

// SetResult stores code and message into out. A nil out is ignored.
func SetResult(out *Result, code ResultCode, message string) {
	if out == nil {
		return
	}
	out.Code = code
	out.Message = message
}

// SetOk marks out as successful. A nil out is ignored.
func SetOk(out *Result) {
	SetResult(out, Ok, "")
}

// CodeOf maps an error onto the result taxonomy.
// Errors that wrap none of the rhi sentinels are backend errors.
func CodeOf(err error) ResultCode {
	switch {
	case err == nil:
		return Ok
	case errors.Is(err, ErrInvalidArgument):
		return InvalidArgument
	case errors.Is(err, ErrArgumentOutOfRange):
		return ArgumentOutOfRange
	case errors.Is(err, ErrInvalidOperation),
		errors.Is(err, ErrDeviceClosed),
		errors.Is(err, ErrContractViolation):
		return InvalidOperation
	case errors.Is(err, ErrUnsupported), errors.Is(err, ErrBackendNotAvailable):
		return Unsupported
	case errors.Is(err, ErrUnimplemented):
		return Unimplemented
	default:
		return BackendError
	}
}

// SetError stores err into out using CodeOf. A nil err sets Ok.
func SetError(out *Result, err error) {
	if err == nil {
		SetOk(out)
		return
	}
	SetResult(out, CodeOf(err), err.Error())
}
