package observability

import "errors"

// Validation errors returned by Config.Validate.
var (
	ErrNilConfig          = errors.New("observability: config is nil")
	ErrMissingServiceName = errors.New("observability: service name is required when enabled")
	ErrInvalidSampleRate  = errors.New("observability: trace sample rate must be within [0, 1]")
	ErrInvalidProtocol    = errors.New("observability: protocol must be http or grpc")
)
