package errors

import "fmt"

var (
	ErrWorkerPanic         = fmt.Errorf("worker panic")
	ErrInvalidRegistration = fmt.Errorf("missing or invalid identity or role")
	ErrInvalidScope        = fmt.Errorf("invalid announcement target scope")
	ErrUnregisteredSender  = fmt.Errorf("sender connection is not registered")
	ErrPermissionDenied    = fmt.Errorf("permission denied")
	ErrOrderNotFound       = fmt.Errorf("order not found")
	ErrUpstreamUnavailable = fmt.Errorf("upstream store unavailable")
)
