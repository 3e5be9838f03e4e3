package rhi

import "errors"

// Sentinel errors. Creation paths wrap them with context; test with errors.Is.
var (
	// ErrInvalidArgument is returned when a description is malformed.
	// It is always detected before any native call.
	ErrInvalidArgument = errors.New("rhi: invalid argument")

	// ErrArgumentOutOfRange is returned when a description exceeds a device limit.
	ErrArgumentOutOfRange = errors.New("rhi: argument out of range")

	// ErrInvalidOperation is returned when the device state does not allow the call.
	ErrInvalidOperation = errors.New("rhi: invalid operation")

	// ErrUnsupported is returned when the backend lacks a capability.
	ErrUnsupported = errors.New("rhi: unsupported")

	// ErrUnimplemented is returned for operations a backend has not implemented.
	ErrUnimplemented = errors.New("rhi: unimplemented")

	// ErrBackend wraps a failure reported by the native API.
	ErrBackend = errors.New("rhi: backend error")

	// ErrContractViolation reports caller misuse such as out-of-order
	// DeviceScope release. It is not part of the recoverable taxonomy.
	ErrContractViolation = errors.New("rhi: contract violation")

	// ErrDeviceClosed is returned by operations on a closed device.
	ErrDeviceClosed = errors.New("rhi: device closed")

	// ErrBackendNotAvailable is returned when no backend is registered
	// under the requested type or the native backend is not linked.
	ErrBackendNotAvailable = errors.New("rhi: backend not available")
)
