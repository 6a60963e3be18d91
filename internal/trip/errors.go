package trip

import "errors"

// Error kinds surfaced by the simulation and analysis core. Callers test
// for them with errors.Is; the wrapped message carries the detail.
var (
	// ErrInvalidInput marks caller mistakes: an empty telemetry sequence,
	// a non-positive duration, an unknown profile key, an empty zone catalog.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration marks a degenerate configuration, such as a zone
	// duration range with min greater than max.
	ErrConfiguration = errors.New("configuration error")

	// ErrContractViolation marks an internal-bug assertion: a feature
	// matrix with the wrong row count, or a risk score outside [0,1].
	// It is not user-recoverable.
	ErrContractViolation = errors.New("contract violation")
)
